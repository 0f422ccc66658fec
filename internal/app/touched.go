package app

import (
	"bufio"
	"fmt"
	"io"

	"github.com/vk/monoplan/internal/affected"
)

// ReadTouched reads one workspace-relative path per line. Blank lines and
// lines starting with '#' are ignored.
func ReadTouched(r io.Reader) (affected.Set, error) {
	set := affected.NewSet()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) > 0 && line[0] == '#' {
			continue
		}
		set.Add(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read touched files: %w", err)
	}
	return set, nil
}
