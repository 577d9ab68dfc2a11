package services

import (
	"context"
	"time"

	"org-knowledge-platform/internal/ai"
	"org-knowledge-platform/internal/logger"
	"org-knowledge-platform/internal/telemetry"
	"org-knowledge-platform/models"
	"org-knowledge-platform/utils"
)

// IngestRequest carries the caller-supplied metadata for a new document.
type IngestRequest struct {
	Title          string `json:"title"`
	Department     string `json:"department"`
	Category       string `json:"category"`
	Classification string `json:"classification"`
	Language       string `json:"language"`
	Version        string `json:"version"`
}

// ContentManager owns the document lifecycle: ingest, update, delete. It
// coordinates the chunker, the embedding provider, the vector index, and
// the metadata sidecar store so their states stay consistent.
type ContentManager struct {
	index    VectorIndex
	meta     MetadataStore
	embedder ai.EmbeddingProvider
	chunker  *Chunker
	metrics  *telemetry.Metrics
}

func NewContentManager(index VectorIndex, meta MetadataStore, embedder ai.EmbeddingProvider, chunker *Chunker, metrics *telemetry.Metrics) *ContentManager {
	return &ContentManager{
		index:    index,
		meta:     meta,
		embedder: embedder,
		chunker:  chunker,
		metrics:  metrics,
	}
}

func (req *IngestRequest) validate() error {
	if req.Title == "" {
		return &utils.ValidationError{Field: "title", Reason: "title is required"}
	}
	if !contains(models.Departments, req.Department) {
		return &utils.ValidationError{Field: "department", Reason: "unknown department " + req.Department}
	}
	if !contains(models.Categories, req.Category) {
		return &utils.ValidationError{Field: "category", Reason: "unknown category " + req.Category}
	}
	if !contains(models.Classifications, req.Classification) {
		return &utils.ValidationError{Field: "classification", Reason: "unknown classification " + req.Classification}
	}
	if req.Language != "" && !contains(models.Languages, req.Language) {
		return &utils.ValidationError{Field: "language", Reason: "unsupported language " + req.Language}
	}
	return nil
}

// Ingest validates, cleans, chunks, embeds, and indexes one document. The
// whole batch of chunks is embedded before anything is persisted, so a
// provider failure leaves no trace. A document whose text cleans to
// nothing is rejected; one that chunks to nothing is recorded with a zero
// chunk count.
func (cm *ContentManager) Ingest(ctx context.Context, content string, req IngestRequest) (models.DocumentMetadata, error) {
	var empty models.DocumentMetadata

	if err := req.validate(); err != nil {
		return empty, err
	}

	language := req.Language
	if language == "" {
		language = utils.DetectLanguage(content)
	}
	version := req.Version
	if version == "" {
		version = "1.0"
	}

	cleaned := utils.CleanText(content, language)
	if cleaned == "" {
		return empty, &utils.ValidationError{Field: "content", Reason: "document has no usable text"}
	}

	now := time.Now().UTC()
	meta := models.DocumentMetadata{
		DocumentID:     utils.NewDocumentID(req.Title, req.Department, now),
		Title:          req.Title,
		Department:     req.Department,
		Category:       req.Category,
		Classification: req.Classification,
		Language:       language,
		Version:        version,
		SourceHash:     utils.SourceHash(content),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	chunks := cm.chunker.Split(meta.DocumentID, cleaned)
	meta.ChunkCount = len(chunks)

	if len(chunks) == 0 {
		logger.Warn("Document produced no chunks", "document_id", meta.DocumentID, "title", meta.Title)
		if err := cm.meta.Put(ctx, meta); err != nil {
			return empty, err
		}
		return meta, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}
	vectors, err := cm.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return empty, err
	}

	entries := make([]models.IndexEntry, len(chunks))
	for i, chunk := range chunks {
		entries[i] = models.IndexEntry{
			ID:       chunk.ID,
			Content:  chunk.Content,
			Metadata: models.ChunkMetadataFor(meta, chunk.ChunkIndex),
			Vector:   vectors[i],
		}
	}

	if err := cm.index.Add(ctx, entries); err != nil {
		return empty, err
	}
	if err := cm.meta.Put(ctx, meta); err != nil {
		if _, cleanupErr := cm.index.DeleteByDocument(ctx, meta.DocumentID); cleanupErr != nil {
			logger.Error("Failed to roll back chunks after sidecar write failure",
				"document_id", meta.DocumentID, "error", cleanupErr)
		}
		return empty, err
	}

	if cm.metrics != nil {
		cm.metrics.RecordIngest(language, len(chunks))
	}
	logger.Info("Document ingested",
		"document_id", meta.DocumentID,
		"title", meta.Title,
		"chunks", len(chunks),
		"language", language)
	return meta, nil
}

// IngestFile extracts text from a file on disk and ingests it.
func (cm *ContentManager) IngestFile(ctx context.Context, path string, req IngestRequest) (models.DocumentMetadata, error) {
	content, err := ExtractText(path)
	if err != nil {
		return models.DocumentMetadata{}, err
	}
	return cm.Ingest(ctx, content, req)
}

// Update replaces a document. The new version is fully ingested under a
// fresh id before the old one is removed, so readers never observe a gap.
func (cm *ContentManager) Update(ctx context.Context, documentID, content string, req IngestRequest) (models.DocumentMetadata, error) {
	var empty models.DocumentMetadata

	if _, err := cm.meta.Get(ctx, documentID); err != nil {
		return empty, err
	}

	newMeta, err := cm.Ingest(ctx, content, req)
	if err != nil {
		return empty, err
	}

	if _, err := cm.index.DeleteByDocument(ctx, documentID); err != nil {
		logger.Error("Failed to delete replaced document chunks", "document_id", documentID, "error", err)
		return empty, err
	}
	if err := cm.meta.Delete(ctx, documentID); err != nil {
		return empty, err
	}

	logger.Info("Document updated", "old_document_id", documentID, "new_document_id", newMeta.DocumentID)
	return newMeta, nil
}

// Delete removes a document's chunks and sidecar record. A document with
// neither is NotFound; partial state from an interrupted earlier delete is
// cleaned up without error, so retries are safe.
func (cm *ContentManager) Delete(ctx context.Context, documentID string) error {
	_, metaErr := cm.meta.Get(ctx, documentID)
	if metaErr != nil && !utils.IsNotFound(metaErr) {
		return metaErr
	}

	entries, err := cm.index.GetByDocument(ctx, documentID)
	if err != nil {
		return err
	}

	if utils.IsNotFound(metaErr) && len(entries) == 0 {
		return &utils.NotFoundError{Resource: "document", ID: documentID}
	}

	if _, err := cm.index.DeleteByDocument(ctx, documentID); err != nil {
		return err
	}
	if err := cm.meta.Delete(ctx, documentID); err != nil {
		return err
	}

	logger.Info("Document deleted", "document_id", documentID, "chunks", len(entries))
	return nil
}

// Get returns a document's metadata record.
func (cm *ContentManager) Get(ctx context.Context, documentID string) (models.DocumentMetadata, error) {
	return cm.meta.Get(ctx, documentID)
}

// List returns all document metadata records ordered by document id.
func (cm *ContentManager) List(ctx context.Context) ([]models.DocumentMetadata, error) {
	return cm.meta.List(ctx)
}

// Stats reports the current index composition.
func (cm *ContentManager) Stats(ctx context.Context) (models.IndexStats, error) {
	return cm.index.Stats(ctx)
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
