package graph

import (
	"fmt"
	"strings"

	"github.com/TilepMony-Project/flowcore/pkg/domain"
)

// Overlay carries run state to visualize on top of the static graph.
type Overlay struct {
	CompletedNodes []string
	CurrentNode    string
}

// GenerateMermaid produces Mermaid flowchart syntax for a workflow graph.
// Node shapes follow the kind semantics:
// - trigger: ((Circle))
// - decision/conditional: {Rhombus}
// - bridge: [[Subroutine]]
// - delay: [/Parallelogram/]
// - everything else: [Rectangle]
// When nodes carry propagated chain context, source and destination chain
// nodes get distinct styling so the bridge hop is visible at a glance.
func GenerateMermaid(g domain.WorkflowGraph, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	hasContext := false
	for _, node := range g.Nodes {
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		switch node.Kind {
		case domain.KindTrigger:
			opener, closer = "((", "))"
		case domain.KindDecision, domain.KindConditional:
			opener, closer = "{", "}"
		case domain.KindBridge:
			opener, closer = "[[", "]]"
		case domain.KindDelay:
			opener, closer = "[/", "/]"
		}

		label := node.ID
		if node.RuntimeMeta != nil && node.RuntimeMeta.ChainName != "" {
			hasContext = true
			label = fmt.Sprintf("%s <br/> %s", node.ID, node.RuntimeMeta.ChainName)
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label, closer))
	}

	for _, edge := range g.Edges {
		safeFrom := sanitizeMermaidID(edge.Source)
		safeTo := sanitizeMermaidID(edge.Target)

		arrow := "-->"
		switch {
		case edge.Condition != "":
			// Escape double quotes for the Mermaid label.
			safeCondition := strings.ReplaceAll(edge.Condition, "\"", "'")
			arrow = fmt.Sprintf("-- \"%s\" -->", safeCondition)
		case edge.Label == domain.LabelDefaultBranch:
			arrow = fmt.Sprintf("-. \"%s\" .->", edge.Label)
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeFrom, arrow, safeTo))
	}

	if hasContext {
		sb.WriteString("\n    %% Chain Context Styles\n")
		sb.WriteString("    classDef source fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef destination fill:#f3e5f5,stroke:#6a1b9a,stroke-width:2px,color:#000;\n")
		for _, node := range g.Nodes {
			if node.RuntimeMeta == nil {
				continue
			}
			class := "source"
			if node.RuntimeMeta.ChainType == domain.ChainTypeDestination {
				class = "destination"
			}
			sb.WriteString(fmt.Sprintf("    class %s %s;\n", sanitizeMermaidID(node.ID), class))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Run Overlay Styles\n")
		sb.WriteString("    classDef completed fill:#c8e6c9,stroke:#2e7d32,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		completedSet := make(map[string]bool)
		for _, id := range overlay.CompletedNodes {
			safeID := sanitizeMermaidID(id)
			if !completedSet[safeID] && safeID != "" {
				completedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s completed;\n", safeID))
			}
		}
		if overlay.CurrentNode != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode)))
		}
	}

	return sb.String()
}

// OverlayFromRecord builds a run overlay out of an execution log.
func OverlayFromRecord(record *domain.ExecutionRecord) *Overlay {
	if record == nil {
		return nil
	}
	overlay := &Overlay{CurrentNode: record.CurrentNodeID}
	for _, entry := range record.ExecutionLog {
		if entry.Status == domain.StepComplete {
			overlay.CompletedNodes = append(overlay.CompletedNodes, entry.NodeID)
		}
	}
	return overlay
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
