package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TilepMony-Project/flowcore/pkg/domain"
)

// RunExecutionStoreContract runs a suite of tests verifying that an
// ExecutionStore implementation adheres to the interface contract. Adapter
// packages call this from their own tests.
func RunExecutionStoreContract(t *testing.T, store ExecutionStore) {
	ctx := context.Background()
	executionID := "contract-exec-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		record := domain.NewExecutionRecord(executionID, "wf-1")
		record.ExecutionLog = append(record.ExecutionLog, domain.StepLogEntry{
			NodeID:    "mint-1",
			NodeKind:  domain.KindMint,
			Status:    domain.StepComplete,
			Timestamp: time.Now().UTC(),
			GasUsed:   21000,
			Detail:    map[string]any{"amount": 100.0},
		})
		record.TotalGasUsed = 21000
		record.StepCount = 1

		require.NoError(t, store.Save(ctx, record))

		loaded, err := store.Load(ctx, executionID)
		require.NoError(t, err)
		assert.Equal(t, record.WorkflowID, loaded.WorkflowID)
		assert.Equal(t, domain.StatusPendingSignature, loaded.Status)
		require.Len(t, loaded.ExecutionLog, 1)
		assert.Equal(t, "mint-1", loaded.ExecutionLog[0].NodeID)
		assert.Equal(t, uint64(21000), loaded.TotalGasUsed)
	})

	t.Run("Load returns a snapshot", func(t *testing.T) {
		loaded, err := store.Load(ctx, executionID)
		require.NoError(t, err)

		// Mutating the loaded copy must not leak back into the store.
		loaded.ExecutionLog = append(loaded.ExecutionLog, domain.StepLogEntry{NodeID: "rogue"})
		loaded.ExecutionLog[0].Detail["rogue"] = true
		again, err := store.Load(ctx, executionID)
		require.NoError(t, err)
		assert.Len(t, again.ExecutionLog, 1)
		assert.NotContains(t, again.ExecutionLog[0].Detail, "rogue")
	})

	t.Run("Active Run Marker", func(t *testing.T) {
		workflowID := "wf-marker-" + executionID

		active, err := store.ActiveRun(ctx, workflowID)
		require.NoError(t, err)
		assert.Empty(t, active)

		require.NoError(t, store.SetActiveRun(ctx, workflowID, executionID))
		active, err = store.ActiveRun(ctx, workflowID)
		require.NoError(t, err)
		assert.Equal(t, executionID, active)

		require.NoError(t, store.SetActiveRun(ctx, workflowID, ""))
		active, err = store.ActiveRun(ctx, workflowID)
		require.NoError(t, err)
		assert.Empty(t, active)

		// Clearing an unset marker is not an error.
		require.NoError(t, store.SetActiveRun(ctx, workflowID, ""))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "missing-"+executionID)
		assert.ErrorIs(t, err, domain.ErrExecutionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, executionID))
		_, err := store.Load(ctx, executionID)
		assert.ErrorIs(t, err, domain.ErrExecutionNotFound)
	})

	t.Run("List", func(t *testing.T) {
		id1 := executionID + "-1"
		id2 := executionID + "-2"
		_ = store.Save(ctx, domain.NewExecutionRecord(id1, "wf-1"))
		_ = store.Save(ctx, domain.NewExecutionRecord(id2, "wf-2"))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
