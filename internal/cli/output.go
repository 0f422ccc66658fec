package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vk/monoplan/internal/dag"
)

func writePlan(w io.Writer, format string, plan *dag.Plan) error {
	switch format {
	case "json":
		return writeJSON(w, plan)
	case "yaml":
		return writeYAML(w, plan)
	default:
		return writePlanText(w, plan)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// writePlanText prints one numbered section per batch.
func writePlanText(w io.Writer, plan *dag.Plan) error {
	if len(plan.Batches) == 0 {
		_, err := fmt.Fprintln(w, "Nothing to do.")
		return err
	}

	var sb strings.Builder
	for i, batch := range plan.Batches {
		fmt.Fprintf(&sb, "Batch %d:\n", i+1)
		for _, a := range batch.Actions {
			sb.WriteString("  - ")
			sb.WriteString(a.Label)
			var flags []string
			if a.Persistent {
				flags = append(flags, "persistent")
			}
			if a.Interactive {
				flags = append(flags, "interactive")
			}
			if len(flags) > 0 {
				fmt.Fprintf(&sb, " (%s)", strings.Join(flags, ", "))
			}
			sb.WriteByte('\n')
		}
	}
	fmt.Fprintf(&sb, "%d actions in %d batches.\n", plan.Len(), len(plan.Batches))
	_, err := io.WriteString(w, sb.String())
	return err
}
