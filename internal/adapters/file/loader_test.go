package file_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TilepMony-Project/flowcore/internal/adapters/file"
	"github.com/TilepMony-Project/flowcore/pkg/domain"
)

const yamlWorkflow = `
nodes:
  - id: mint-1
    type: mint
    properties:
      currency: USD
      amount: 100
  - id: swap-1
    type: swap
    properties:
      swapAdapter: merchant-moe
      slippageTolerance: 2
edges:
  - id: e1
    source: mint-1
    target: swap-1
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadWorkflow_YAML(t *testing.T) {
	g, err := file.LoadWorkflow(writeTemp(t, "wf.yaml", yamlWorkflow))
	require.NoError(t, err)

	require.Len(t, g.Nodes, 2)
	assert.Equal(t, domain.KindMint, g.Nodes[0].Kind)
	assert.Equal(t, "merchant-moe", g.Nodes[1].Properties["swapAdapter"])
	require.Len(t, g.Edges, 1)
	assert.Equal(t, "mint-1", g.Edges[0].Source)
}

func TestLoadWorkflow_JSON(t *testing.T) {
	g, err := file.LoadWorkflow(writeTemp(t, "wf.json",
		`{"nodes":[{"id":"mint-1","type":"mint","properties":{"currency":"USD","amount":5}}],"edges":[]}`))
	require.NoError(t, err)
	require.Len(t, g.Nodes, 1)
	assert.Equal(t, "mint-1", g.Nodes[0].ID)
}

func TestLoadWorkflow_EmptyGraphRejected(t *testing.T) {
	_, err := file.LoadWorkflow(writeTemp(t, "wf.yaml", "nodes: []\n"))
	assert.Error(t, err)
}

func TestLoadWorkflow_MissingFile(t *testing.T) {
	_, err := file.LoadWorkflow(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
