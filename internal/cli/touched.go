package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vk/monoplan/internal/affected"
	"github.com/vk/monoplan/internal/app"
)

// touchedFlags selects the files used to filter requested tasks.
type touchedFlags struct {
	paths []string
	file  string
}

func (f *touchedFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.paths, "touched", nil, "touched file, relative to the workspace root (repeatable)")
	cmd.Flags().StringVar(&f.file, "touched-file", "", "file listing touched files, one per line ('-' for stdin)")
}

// load returns nil when no touched files were given, which disables
// filtering.
func (f *touchedFlags) load(cmd *cobra.Command) (affected.Set, error) {
	if len(f.paths) == 0 && f.file == "" {
		return nil, nil
	}

	set := affected.NewSet(f.paths...)
	if f.file == "" {
		return set, nil
	}

	in := cmd.InOrStdin()
	if f.file != "-" {
		file, err := os.Open(f.file)
		if err != nil {
			return nil, usageError(fmt.Errorf("failed to open touched file list: %w", err))
		}
		defer file.Close()
		in = file
	}

	fromFile, err := app.ReadTouched(in)
	if err != nil {
		return nil, failure(err)
	}
	for p := range fromFile {
		set.Add(p)
	}
	return set, nil
}
