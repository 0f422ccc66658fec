package dag

import (
	"errors"
	"fmt"

	"github.com/vk/monoplan/internal/target"
)

var (
	ErrCycleDetected    = errors.New("dependency cycle detected")
	ErrBuilderFinalized = errors.New("graph builder has already been finalized")
)

// CycleError reports a dependency cycle. Node is the label of the node that
// closed the loop. Target is set when that node runs a task.
type CycleError struct {
	Node   string
	Target target.Target
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("A dependency cycle has been detected for %s", e.Node)
}

func (e *CycleError) Unwrap() error { return ErrCycleDetected }
