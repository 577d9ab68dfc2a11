package services

import (
	"context"
	"sync"

	"org-knowledge-platform/models"
	"org-knowledge-platform/utils"
)

// MemoryVectorIndex is a process-local VectorIndex backed by a map and a
// flat scan. It serves tests and single-node deployments.
type MemoryVectorIndex struct {
	mu        sync.RWMutex
	dimension int
	entries   map[string]models.IndexEntry
}

func NewMemoryVectorIndex(dimension int) *MemoryVectorIndex {
	return &MemoryVectorIndex{
		dimension: dimension,
		entries:   make(map[string]models.IndexEntry),
	}
}

func (idx *MemoryVectorIndex) Add(ctx context.Context, entries []models.IndexEntry) error {
	if err := validateEntries(entries, idx.dimension); err != nil {
		return err
	}

	normalized := make([]models.IndexEntry, len(entries))
	for i, e := range entries {
		vec, err := NormalizeVector(e.Vector)
		if err != nil {
			return err
		}
		e.Vector = vec
		normalized[i] = e
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, e := range normalized {
		if _, exists := idx.entries[e.ID]; exists {
			return &utils.ValidationError{Field: "id", Reason: "id " + e.ID + " already indexed"}
		}
	}
	for _, e := range normalized {
		idx.entries[e.ID] = e
	}
	return nil
}

func (idx *MemoryVectorIndex) Search(ctx context.Context, vector []float32, topK int, threshold float64, filter models.Filter) ([]models.SearchResult, error) {
	if len(vector) != idx.dimension {
		return nil, &utils.ValidationError{Field: "vector", Reason: "query vector has wrong dimension"}
	}
	query, err := NormalizeVector(vector)
	if err != nil {
		return nil, err
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var results []models.SearchResult
	for _, e := range idx.entries {
		if !models.MatchesFilter(filter, e.Metadata) {
			continue
		}
		results = append(results, models.SearchResult{
			ID:         e.ID,
			Content:    e.Content,
			Metadata:   e.Metadata,
			Similarity: Similarity(query, e.Vector),
		})
	}
	return rankResults(results, topK, threshold), nil
}

func (idx *MemoryVectorIndex) GetByDocument(ctx context.Context, documentID string) ([]models.IndexEntry, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var entries []models.IndexEntry
	for _, e := range idx.entries {
		if e.Metadata.DocumentID == documentID {
			entries = append(entries, e)
		}
	}
	sortEntriesByChunkIndex(entries)
	return entries, nil
}

func (idx *MemoryVectorIndex) DeleteByDocument(ctx context.Context, documentID string) (int, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	deleted := 0
	for id, e := range idx.entries {
		if e.Metadata.DocumentID == documentID {
			delete(idx.entries, id)
			deleted++
		}
	}
	return deleted, nil
}

func (idx *MemoryVectorIndex) Stats(ctx context.Context) (models.IndexStats, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	stats := models.IndexStats{
		TotalChunks: len(idx.entries),
		Departments: make(map[string]int),
		Categories:  make(map[string]int),
		Languages:   make(map[string]int),
	}
	for _, e := range idx.entries {
		stats.Departments[e.Metadata.Department]++
		stats.Categories[e.Metadata.Category]++
		stats.Languages[e.Metadata.Language]++
	}
	return stats, nil
}

func (idx *MemoryVectorIndex) All(ctx context.Context) ([]models.IndexEntry, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	entries := make([]models.IndexEntry, 0, len(idx.entries))
	for _, e := range idx.entries {
		entries = append(entries, e)
	}
	sortEntriesByChunkIndex(entries)
	return entries, nil
}
