package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"org-knowledge-platform/internal/logger"
	"org-knowledge-platform/services"
	"org-knowledge-platform/utils"
)

const TaskIngestDocument = "document:ingest"

type IngestDocumentPayload struct {
	JobID   string                 `json:"job_id"`
	Path    string                 `json:"path"`
	Request services.IngestRequest `json:"request"`
}

// NewIngestDocumentTask builds the async ingest task for a file already on
// shared storage.
func NewIngestDocumentTask(jobID, path string, req services.IngestRequest) (*asynq.Task, error) {
	payload, err := json.Marshal(IngestDocumentPayload{
		JobID:   jobID,
		Path:    path,
		Request: req,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskIngestDocument,
		payload,
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute),
		asynq.Queue("default"),
	), nil
}

// TaskProcessor handles queued tasks in the worker binary.
type TaskProcessor struct {
	content *services.ContentManager
}

func NewTaskProcessor(content *services.ContentManager) *TaskProcessor {
	return &TaskProcessor{content: content}
}

func (p *TaskProcessor) HandleIngestDocument(ctx context.Context, t *asynq.Task) error {
	var payload IngestDocumentPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal failed: %w", asynq.SkipRetry)
	}

	logger.Info("Processing ingest task", "job_id", payload.JobID, "path", payload.Path)

	meta, err := p.content.IngestFile(ctx, payload.Path, payload.Request)
	if err != nil {
		// Bad input will not get better on retry.
		if utils.IsValidation(err) {
			logger.Error("Ingest task rejected", "job_id", payload.JobID, "error", err)
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return err
	}

	logger.Info("Ingest task completed",
		"job_id", payload.JobID,
		"document_id", meta.DocumentID,
		"chunks", meta.ChunkCount)
	return nil
}
