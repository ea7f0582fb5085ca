package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/TilepMony-Project/flowcore/internal/xjson"
	"github.com/TilepMony-Project/flowcore/pkg/domain"
)

// Store implements ports.ExecutionStore on the local filesystem. Each run is
// one JSON file, which keeps single-node deployments durable without a
// database: a waiting run survives a process restart.
type Store struct {
	BasePath string
}

// New creates a Store rooted at basePath.
// If basePath is empty, it defaults to ".flowcore/executions".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".flowcore", "executions")
	}
	return &Store{BasePath: basePath}
}

// Save persists the record atomically: write to a temp file in the same
// directory, fsync, close, then rename over the destination.
func (s *Store) Save(ctx context.Context, record *domain.ExecutionRecord) error {
	if record == nil || record.ID == "" {
		return fmt.Errorf("execution record must have an id")
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("ensuring execution directory: %w", err)
	}

	destPath := filepath.Join(s.BasePath, record.ID+".json")

	data, err := xjson.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling execution record: %w", err)
	}

	// Same directory so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+record.ID+"-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("fsyncing temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	// os.Rename replaces the destination on POSIX; on Windows it fails when
	// the destination exists, so remove it first and accept the tiny window.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("removing previous record file: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("renaming temp file into place: %w", err)
	}
	return nil
}

// Load retrieves a record by execution id.
func (s *Store) Load(ctx context.Context, executionID string) (*domain.ExecutionRecord, error) {
	if executionID == "" {
		return nil, fmt.Errorf("execution id cannot be empty")
	}

	data, err := os.ReadFile(filepath.Join(s.BasePath, executionID+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrExecutionNotFound
		}
		return nil, fmt.Errorf("reading execution file: %w", err)
	}

	var record domain.ExecutionRecord
	if err := xjson.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("unmarshaling execution record: %w", err)
	}
	return &record, nil
}

// Delete removes the record file. Deleting a missing record is not an error.
func (s *Store) Delete(ctx context.Context, executionID string) error {
	if executionID == "" {
		return fmt.Errorf("execution id cannot be empty")
	}
	err := os.Remove(filepath.Join(s.BasePath, executionID+".json"))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting execution file: %w", err)
	}
	return nil
}

// ActiveRun returns the workflow's active execution id from its marker file.
func (s *Store) ActiveRun(ctx context.Context, workflowID string) (string, error) {
	data, err := os.ReadFile(s.activePath(workflowID))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading active run marker: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// SetActiveRun records or clears the workflow's active run marker.
func (s *Store) SetActiveRun(ctx context.Context, workflowID, executionID string) error {
	if executionID == "" {
		err := os.Remove(s.activePath(workflowID))
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("clearing active run marker: %w", err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Join(s.BasePath, "active"), 0755); err != nil {
		return fmt.Errorf("ensuring marker directory: %w", err)
	}
	if err := os.WriteFile(s.activePath(workflowID), []byte(executionID), 0644); err != nil {
		return fmt.Errorf("writing active run marker: %w", err)
	}
	return nil
}

func (s *Store) activePath(workflowID string) string {
	return filepath.Join(s.BasePath, "active", workflowID+".active")
}

// List returns the stored execution ids.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("listing executions: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}
