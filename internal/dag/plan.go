package dag

import "github.com/vk/monoplan/internal/action"

// Plan is the serializable form of a sorted graph.
type Plan struct {
	Batches []PlanBatch `json:"batches" yaml:"batches"`
}

// PlanBatch is one parallel group of actions.
type PlanBatch struct {
	Actions []PlanAction `json:"actions" yaml:"actions"`
}

// PlanAction describes one node of the plan.
type PlanAction struct {
	Index       NodeIndex   `json:"index" yaml:"index"`
	Kind        string      `json:"kind" yaml:"kind"`
	Label       string      `json:"label" yaml:"label"`
	Runtime     string      `json:"runtime" yaml:"runtime"`
	Project     string      `json:"project,omitempty" yaml:"project,omitempty"`
	Target      string      `json:"target,omitempty" yaml:"target,omitempty"`
	Persistent  bool        `json:"persistent,omitempty" yaml:"persistent,omitempty"`
	Interactive bool        `json:"interactive,omitempty" yaml:"interactive,omitempty"`
	DependsOn   []NodeIndex `json:"dependsOn,omitempty" yaml:"dependsOn,omitempty"`
}

// NewPlan sorts the graph into batches and describes every node.
func NewPlan(g *Graph) (*Plan, error) {
	batches, err := g.SortBatchedTopological()
	if err != nil {
		return nil, err
	}

	plan := &Plan{Batches: make([]PlanBatch, 0, len(batches))}
	for _, batch := range batches {
		pb := PlanBatch{Actions: make([]PlanAction, 0, len(batch))}
		for _, idx := range batch {
			n, _ := g.Node(idx)
			deps, err := g.Dependencies(idx)
			if err != nil {
				return nil, err
			}
			pa := describe(n)
			pa.Index = idx
			pa.DependsOn = deps
			pb.Actions = append(pb.Actions, pa)
		}
		plan.Batches = append(plan.Batches, pb)
	}
	return plan, nil
}

// Len returns the number of actions in the plan.
func (p *Plan) Len() int {
	n := 0
	for _, b := range p.Batches {
		n += len(b.Actions)
	}
	return n
}

func describe(n action.Node) PlanAction {
	pa := PlanAction{Kind: n.Kind().String(), Label: n.Label()}
	switch n := n.(type) {
	case action.SetupToolchain:
		pa.Runtime = n.Runtime.String()
	case action.InstallDependencies:
		pa.Runtime = n.Runtime.String()
		pa.Project = n.ProjectID
	case action.SyncProject:
		pa.Runtime = n.Runtime.String()
		pa.Project = n.ProjectID
	case action.RunTask:
		pa.Runtime = n.Runtime.String()
		pa.Project = n.Target.ProjectID
		pa.Target = n.Target.String()
		pa.Persistent = n.Persistent
		pa.Interactive = n.Interactive
	}
	return pa
}
