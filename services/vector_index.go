package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"org-knowledge-platform/models"
	"org-knowledge-platform/utils"
)

// VectorIndex stores chunk embeddings and serves filtered similarity
// search. Add is all-or-nothing: a failed batch leaves nothing searchable.
// Search applies the filter during the candidate scan, ranks by similarity,
// and drops hits below the threshold after ranking.
type VectorIndex interface {
	Add(ctx context.Context, entries []models.IndexEntry) error
	Search(ctx context.Context, vector []float32, topK int, threshold float64, filter models.Filter) ([]models.SearchResult, error)
	GetByDocument(ctx context.Context, documentID string) ([]models.IndexEntry, error)
	DeleteByDocument(ctx context.Context, documentID string) (int, error)
	Stats(ctx context.Context) (models.IndexStats, error)
	All(ctx context.Context) ([]models.IndexEntry, error)
}

// NormalizeVector returns the L2-normalized copy of v. A zero or empty
// vector cannot be normalized and is rejected.
func NormalizeVector(v []float32) ([]float32, error) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return nil, &utils.ValidationError{Field: "vector", Reason: "zero vector cannot be normalized"}
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out, nil
}

// Similarity maps the cosine of two L2-normalized vectors into [0,1] as
// (1 + cos) / 2.
func Similarity(a, b []float32) float64 {
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	if dot > 1 {
		dot = 1
	}
	if dot < -1 {
		dot = -1
	}
	return (1 + dot) / 2
}

// validateEntries enforces the batch contract shared by index
// implementations: every entry carries content, a vector of the index's
// dimension, and a unique id within the batch.
func validateEntries(entries []models.IndexEntry, dimension int) error {
	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		if e.ID == "" {
			return &utils.ValidationError{Field: "id", Reason: fmt.Sprintf("entry %d has empty id", i)}
		}
		if _, dup := seen[e.ID]; dup {
			return &utils.ValidationError{Field: "id", Reason: fmt.Sprintf("duplicate id %q in batch", e.ID)}
		}
		seen[e.ID] = struct{}{}
		if e.Content == "" {
			return &utils.ValidationError{Field: "content", Reason: fmt.Sprintf("entry %q has empty content", e.ID)}
		}
		if len(e.Vector) != dimension {
			return &utils.ValidationError{
				Field:  "vector",
				Reason: fmt.Sprintf("entry %q has dimension %d, index expects %d", e.ID, len(e.Vector), dimension),
			}
		}
	}
	return nil
}

// rankResults orders hits by descending similarity, breaking ties by
// ascending chunk index then ascending document id, and applies the
// threshold and topK cut after ranking.
func rankResults(results []models.SearchResult, topK int, threshold float64) []models.SearchResult {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		if results[i].Metadata.ChunkIndex != results[j].Metadata.ChunkIndex {
			return results[i].Metadata.ChunkIndex < results[j].Metadata.ChunkIndex
		}
		return results[i].Metadata.DocumentID < results[j].Metadata.DocumentID
	})

	kept := results[:0]
	for _, r := range results {
		if r.Similarity >= threshold {
			kept = append(kept, r)
		}
	}
	if topK > 0 && len(kept) > topK {
		kept = kept[:topK]
	}
	return kept
}

func sortEntriesByChunkIndex(entries []models.IndexEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Metadata.DocumentID != entries[j].Metadata.DocumentID {
			return entries[i].Metadata.DocumentID < entries[j].Metadata.DocumentID
		}
		return entries[i].Metadata.ChunkIndex < entries[j].Metadata.ChunkIndex
	})
}
