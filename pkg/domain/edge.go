package domain

// Edge connects two nodes in the workflow graph.
//
// Edges whose Source or Target does not resolve to a node in the same graph
// are dangling; the normalizer drops them silently rather than failing the
// whole graph.
type Edge struct {
	ID     string `json:"id" yaml:"id"`
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`

	// Label names the branch for decision nodes ("default" marks the
	// fallback branch).
	Label string `json:"label,omitempty" yaml:"label,omitempty"`

	// Condition is a predicate evaluated by decision/conditional nodes,
	// e.g. "amount >= 100". Empty means the branch is unconditional.
	Condition string `json:"condition,omitempty" yaml:"condition,omitempty"`
}
