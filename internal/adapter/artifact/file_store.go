package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/source-hub-org/hirebot-ai-api/internal/domain"
)

// FileArtifactStore writes validated question batches to a working
// directory, one pretty-printed JSON document per run, named by the current
// epoch-millisecond timestamp.
type FileArtifactStore struct {
	dir string
	now func() time.Time
}

// NewFileArtifactStore creates a FileArtifactStore rooted at dir.
func NewFileArtifactStore(dir string) *FileArtifactStore {
	return &FileArtifactStore{dir: dir, now: time.Now}
}

// SaveBatch implements domain.ArtifactStore. Directory or write failures are
// fatal and not retried.
func (s *FileArtifactStore) SaveBatch(ctx context.Context, questions []domain.QuizQuestion) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", domain.NewPersistenceError(fmt.Sprintf("Failed to create artifact directory %s", s.dir), err)
	}

	data, err := json.MarshalIndent(questions, "", "  ")
	if err != nil {
		return "", domain.NewPersistenceError("Failed to encode question batch", err)
	}

	path := filepath.Join(s.dir, fmt.Sprintf("%d.json", s.now().UnixMilli()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", domain.NewPersistenceError(fmt.Sprintf("Failed to write artifact %s", path), err)
	}
	return path, nil
}

var _ domain.ArtifactStore = (*FileArtifactStore)(nil)
