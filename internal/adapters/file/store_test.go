package file_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TilepMony-Project/flowcore/internal/adapters/file"
	"github.com/TilepMony-Project/flowcore/pkg/domain"
	"github.com/TilepMony-Project/flowcore/pkg/ports"
)

func TestStore_Contract(t *testing.T) {
	ports.RunExecutionStoreContract(t, file.New(t.TempDir()))
}

func TestStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	record := domain.NewExecutionRecord("exec-1", "wf-1")
	record.Status = domain.StatusRunningWaiting
	require.NoError(t, file.New(dir).Save(ctx, record))

	// A fresh store over the same directory sees the waiting run.
	loaded, err := file.New(dir).Load(ctx, "exec-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRunningWaiting, loaded.Status)
	assert.Equal(t, "wf-1", loaded.WorkflowID)
}

func TestStore_ListIgnoresForeignFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := file.New(dir)

	require.NoError(t, store.Save(ctx, domain.NewExecutionRecord("exec-1", "wf-1")))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"exec-1"}, ids)
}
