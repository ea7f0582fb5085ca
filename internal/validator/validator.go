package validator

import (
	"fmt"
	"strings"

	"github.com/TilepMony-Project/flowcore/pkg/domain"
)

// ValidateGraph checks a workflow graph for structural problems before it is
// compiled: duplicate node ids, edges pointing at missing nodes, nodes
// unreachable from any root, and branch nodes without enough outgoing edges.
// The compile pipeline tolerates most of these (dangling edges are dropped,
// cyclic stragglers appended), so this is the authoring-time safety net.
func ValidateGraph(g domain.WorkflowGraph) error {
	var problems []string

	byID := make(map[string]domain.Node, len(g.Nodes))
	for _, node := range g.Nodes {
		if node.ID == "" {
			problems = append(problems, "node with empty id")
			continue
		}
		if _, dup := byID[node.ID]; dup {
			problems = append(problems, fmt.Sprintf("duplicate node id '%s'", node.ID))
			continue
		}
		byID[node.ID] = node
	}

	adjacency := make(map[string][]string)
	inDegree := make(map[string]int)
	branchCount := make(map[string]int)
	for _, edge := range g.Edges {
		if _, ok := byID[edge.Source]; !ok {
			problems = append(problems, fmt.Sprintf("edge '%s' starts at missing node '%s'", edge.ID, edge.Source))
			continue
		}
		if _, ok := byID[edge.Target]; !ok {
			problems = append(problems, fmt.Sprintf("edge '%s' points at missing node '%s'", edge.ID, edge.Target))
			continue
		}
		adjacency[edge.Source] = append(adjacency[edge.Source], edge.Target)
		inDegree[edge.Target]++
		branchCount[edge.Source]++
	}

	// Crawl from every root (in-degree zero). A fully cyclic graph has no
	// roots and every node reports as unreachable.
	visited := make(map[string]bool)
	var queue []string
	for _, node := range g.Nodes {
		if inDegree[node.ID] == 0 && byID[node.ID].ID != "" {
			queue = append(queue, node.ID)
		}
	}
	for len(queue) > 0 {
		currentID := queue[0]
		queue = queue[1:]
		if visited[currentID] {
			continue
		}
		visited[currentID] = true
		queue = append(queue, adjacency[currentID]...)
	}

	for _, node := range g.Nodes {
		if node.ID == "" {
			continue
		}
		if !visited[node.ID] {
			problems = append(problems, fmt.Sprintf("node '%s' is unreachable from any root", node.ID))
		}
		switch node.Kind {
		case domain.KindDecision, domain.KindConditional:
			if branchCount[node.ID] < 2 {
				problems = append(problems, fmt.Sprintf("%s node '%s' needs at least two outgoing branches", node.Kind, node.ID))
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("workflow validation failed:\n - %s", strings.Join(problems, "\n - "))
	}
	return nil
}
