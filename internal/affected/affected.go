// Package affected decides whether a task is affected by a set of touched
// files, by matching the task's declared inputs (literal paths or globs)
// against workspace-relative file paths.
package affected

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the number of memoized (pattern, file) matches.
const DefaultCacheSize = 4096

// Set is an unordered set of workspace-relative, slash-separated paths.
type Set map[string]struct{}

// NewSet builds a set from the given paths, normalizing each one.
func NewSet(paths ...string) Set {
	s := make(Set, len(paths))
	for _, p := range paths {
		s.Add(p)
	}
	return s
}

// Add inserts a normalized path. Empty paths are ignored.
func (s Set) Add(p string) {
	if n := Normalize(p); n != "" {
		s[n] = struct{}{}
	}
}

// Sorted returns the members in lexicographic order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Normalize converts a path to the slash-separated, workspace-relative form
// used by Set.
func Normalize(p string) string {
	p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
	if p == "" {
		return ""
	}
	p = strings.TrimPrefix(path.Clean(p), "/")
	if p == "." {
		return ""
	}
	return p
}

type matchKey struct {
	pattern string
	file    string
}

// Detector matches task inputs against touched files. Glob results are
// memoized, so one detector should be shared for a whole planning pass.
type Detector struct {
	cache *lru.Cache[matchKey, bool]
}

// NewDetector creates a detector with a bounded match cache.
func NewDetector(cacheSize int) (*Detector, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[matchKey, bool](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create match cache: %w", err)
	}
	return &Detector{cache: cache}, nil
}

// IsAffected reports whether any input matches any touched file. A task
// with no inputs is never affected.
func (d *Detector) IsAffected(inputs []string, touched Set) (bool, error) {
	if len(inputs) == 0 || len(touched) == 0 {
		return false, nil
	}

	files := touched.Sorted()
	for _, input := range inputs {
		pattern := Normalize(input)
		if pattern == "" {
			continue
		}

		if !isGlob(pattern) {
			if literalMatches(pattern, touched, files) {
				return true, nil
			}
			continue
		}

		if !doublestar.ValidatePattern(pattern) {
			return false, fmt.Errorf("invalid input glob %q: %w", input, doublestar.ErrBadPattern)
		}
		for _, file := range files {
			if d.match(pattern, file) {
				return true, nil
			}
		}
	}
	return false, nil
}

func (d *Detector) match(pattern, file string) bool {
	key := matchKey{pattern: pattern, file: file}
	if hit, ok := d.cache.Get(key); ok {
		return hit
	}
	// The pattern was validated by the caller, so Match cannot fail here.
	matched, _ := doublestar.Match(pattern, file)
	d.cache.Add(key, matched)
	return matched
}

// literalMatches treats a literal input as a file or as a directory that
// contains touched files.
func literalMatches(input string, touched Set, files []string) bool {
	if _, ok := touched[input]; ok {
		return true
	}
	prefix := input + "/"
	for _, file := range files {
		if strings.HasPrefix(file, prefix) {
			return true
		}
	}
	return false
}

func isGlob(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}
