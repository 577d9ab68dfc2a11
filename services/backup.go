package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"org-knowledge-platform/internal/logger"
	"org-knowledge-platform/models"
)

// BackupSnapshot is the on-disk backup format: every document record and
// every indexed chunk, vectors included.
type BackupSnapshot struct {
	CreatedAt time.Time                 `json:"created_at"`
	Documents []models.DocumentMetadata `json:"documents"`
	Chunks    []models.IndexEntry       `json:"chunks"`
}

// BackupService writes JSON snapshots of the knowledge base.
type BackupService struct {
	index VectorIndex
	meta  MetadataStore
	dir   string
}

func NewBackupService(index VectorIndex, meta MetadataStore, dir string) *BackupService {
	return &BackupService{index: index, meta: meta, dir: dir}
}

// Run writes one snapshot and returns its path.
func (b *BackupService) Run(ctx context.Context) (string, error) {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return "", err
	}

	documents, err := b.meta.List(ctx)
	if err != nil {
		return "", err
	}
	chunks, err := b.index.All(ctx)
	if err != nil {
		return "", err
	}

	snapshot := BackupSnapshot{
		CreatedAt: time.Now().UTC(),
		Documents: documents,
		Chunks:    chunks,
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(b.dir, fmt.Sprintf("backup_%s.json", snapshot.CreatedAt.Format("20060102T150405")))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}

	logger.Info("Knowledge base backup written",
		"path", path,
		"documents", len(documents),
		"chunks", len(chunks))
	return path, nil
}
