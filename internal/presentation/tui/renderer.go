package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/TilepMony-Project/flowcore/pkg/domain"
)

// NewRenderer returns a markdown render function. On a real terminal it uses
// glamour with auto-detected styling; when output is piped the markdown
// passes through untouched so reports stay grep-able.
func NewRenderer() func(string) (string, error) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)
	if err != nil {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// CompileReport formats a compile result as markdown.
func CompileReport(result *domain.CompileResult) string {
	var sb strings.Builder
	sb.WriteString("# Compiled Workflow\n\n")
	sb.WriteString(fmt.Sprintf("Initial position: **%.6g %s**\n\n", result.InitialAmount, result.InitialToken))
	sb.WriteString("| # | Action | In | Out | Provider | Chain |\n")
	sb.WriteString("|---|--------|----|-----|----------|-------|\n")
	for i, a := range result.Actions {
		sb.WriteString(fmt.Sprintf("| %d | %s | %.6g %s | %.6g %s | %s | %d |\n",
			i+1, a.Kind,
			a.InputAmount, a.InputToken,
			a.OutputAmount, a.OutputToken,
			orDash(a.Provider), a.TargetChainID,
		))
	}
	return sb.String()
}

// SimulationReport formats a simulation result as markdown.
func SimulationReport(result *domain.SimulationResult) string {
	var sb strings.Builder
	sb.WriteString("# Simulation\n\n")
	if result.Success {
		sb.WriteString(fmt.Sprintf("**PASS** - %d actions", result.ActionCount))
		if result.Gas > 0 {
			sb.WriteString(fmt.Sprintf(", estimated gas %d", result.Gas))
		}
		sb.WriteString("\n")
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf("**REVERT** - %d actions\n\n", result.ActionCount))
	if result.RevertReason != "" {
		sb.WriteString(fmt.Sprintf("> %s\n", result.RevertReason))
	}
	return sb.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
