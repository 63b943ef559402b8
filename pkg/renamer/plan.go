package renamer

import "bsrename/pkg/collector"

// Action is what happens to one entry.
type Action int

const (
	ActionNoChange Action = iota
	ActionRename
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionRename:
		return "rename"
	case ActionDelete:
		return "delete"
	default:
		return "keep"
	}
}

// MarshalText encodes the action by name.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// PlanItem is one entry of a plan.
type PlanItem struct {
	OriginalName string         `json:"original" yaml:"original"`
	NewName      string         `json:"new,omitempty" yaml:"new,omitempty"` // empty for deletions
	Action       Action         `json:"action" yaml:"action"`
	Kind         collector.Kind `json:"kind" yaml:"kind"`
}

// Target returns the new name, or DeleteMarker for deletions.
func (i PlanItem) Target() string {
	if i.Action == ActionDelete {
		return DeleteMarker
	}
	return i.NewName
}

// Pair is an (original name, new name or DeleteMarker) pair.
type Pair struct {
	Original string
	New      string
}

// Plan is an ordered list of proposed actions, sorted by original name.
type Plan []PlanItem

// Pairs returns the plan as (original, target) pairs, including unchanged
// entries.
func (p Plan) Pairs() []Pair {
	pairs := make([]Pair, 0, len(p))
	for _, item := range p {
		pairs = append(pairs, Pair{Original: item.OriginalName, New: item.Target()})
	}
	return pairs
}

// Changes returns the items that rename or delete something.
func (p Plan) Changes() Plan {
	changes := make(Plan, 0, len(p))
	for _, item := range p {
		if item.Action != ActionNoChange {
			changes = append(changes, item)
		}
	}
	return changes
}

// Count returns the number of items with the given action.
func (p Plan) Count(action Action) int {
	n := 0
	for _, item := range p {
		if item.Action == action {
			n++
		}
	}
	return n
}

// Operation represents a single performed delete or rename.
type Operation struct {
	OriginalPath string
	NewPath      string
	OriginalName string
	NewName      string
	Kind         collector.Kind
	Action       Action
	Error        error
}

// Result contains the results of an apply run.
type Result struct {
	Operations     []Operation
	TotalEntries   int
	RenamedCount   int
	DeletedCount   int
	UnchangedCount int
}

// Count returns the number of actions performed.
func (r Result) Count() int {
	return r.RenamedCount + r.DeletedCount
}
