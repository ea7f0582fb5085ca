package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/TilepMony-Project/flowcore/internal/xjson"
	"github.com/TilepMony-Project/flowcore/pkg/domain"
)

// LoadWorkflow reads a workflow graph definition from disk. The format is
// chosen by extension: .yaml/.yml parse as YAML, everything else as JSON.
func LoadWorkflow(path string) (*domain.WorkflowGraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workflow file: %w", err)
	}

	var g domain.WorkflowGraph
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &g); err != nil {
			return nil, fmt.Errorf("parsing workflow yaml: %w", err)
		}
	default:
		if err := xjson.Unmarshal(data, &g); err != nil {
			return nil, fmt.Errorf("parsing workflow json: %w", err)
		}
	}

	if len(g.Nodes) == 0 {
		return nil, fmt.Errorf("workflow %s defines no nodes", path)
	}
	return &g, nil
}
