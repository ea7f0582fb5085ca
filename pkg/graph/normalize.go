package graph

import "github.com/TilepMony-Project/flowcore/pkg/domain"

// Normalize returns the nodes of g in topological order using Kahn's
// algorithm. It is pure and deterministic: the input graph is snapshotted and
// never mutated, and identical input always yields identical output.
//
// Malformed input degrades gracefully rather than failing:
//   - edges referencing unknown node ids are dropped silently
//   - nodes trapped in a cycle (or reachable only through one) are appended
//     after the ordered prefix, in their original array order
//
// The result always contains exactly len(g.Nodes) nodes. For any acyclic
// subgraph, edge (u,v) implies u appears before v.
func Normalize(g domain.WorkflowGraph) []domain.Node {
	snapshot := g.Clone()

	known := make(map[string]bool, len(snapshot.Nodes))
	for _, n := range snapshot.Nodes {
		known[n.ID] = true
	}

	adjacency := make(map[string][]string, len(snapshot.Nodes))
	inDegree := make(map[string]int, len(snapshot.Nodes))
	for _, e := range snapshot.Edges {
		if !known[e.Source] || !known[e.Target] {
			continue // dangling reference, never fatal
		}
		adjacency[e.Source] = append(adjacency[e.Source], e.Target)
		inDegree[e.Target]++
	}

	// Seed the queue with in-degree-0 nodes in original array order; this is
	// the stable tie-break that makes the ordering deterministic.
	queue := make([]string, 0, len(snapshot.Nodes))
	for _, n := range snapshot.Nodes {
		if inDegree[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}

	byID := make(map[string]domain.Node, len(snapshot.Nodes))
	for _, n := range snapshot.Nodes {
		byID[n.ID] = n
	}

	ordered := make([]domain.Node, 0, len(snapshot.Nodes))
	placed := make(map[string]bool, len(snapshot.Nodes))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		ordered = append(ordered, byID[id])
		placed[id] = true

		for _, next := range adjacency[id] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	// Anything left sits on a cycle. Append in original order so no node is
	// ever lost; downstream stages treat these as best-effort tail nodes.
	for _, n := range snapshot.Nodes {
		if !placed[n.ID] {
			ordered = append(ordered, n)
		}
	}

	return ordered
}
