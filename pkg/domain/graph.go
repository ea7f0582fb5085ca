package domain

// WorkflowGraph is the immutable input snapshot to the compile pipeline.
type WorkflowGraph struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// Clone deep-copies the graph. The pipeline clones at its boundary so that a
// caller mutating its graph afterwards (the canvas does, for drag
// performance) cannot corrupt an in-flight compilation.
func (g WorkflowGraph) Clone() WorkflowGraph {
	c := WorkflowGraph{}
	if g.Nodes != nil {
		c.Nodes = make([]Node, len(g.Nodes))
		for i, n := range g.Nodes {
			c.Nodes[i] = n.Clone()
		}
	}
	if g.Edges != nil {
		c.Edges = make([]Edge, len(g.Edges))
		copy(c.Edges, g.Edges)
	}
	return c
}
