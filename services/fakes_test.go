package services

import (
	"context"
	"errors"

	"org-knowledge-platform/models"
	"org-knowledge-platform/utils"
)

// fakeEmbedder returns preassigned vectors, falling back to the first basis
// vector for unknown text. Dimension 3 keeps similarity arithmetic obvious.
type fakeEmbedder struct {
	dim     int
	vectors map[string][]float32
	fail    bool
}

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{dim: 3, vectors: make(map[string][]float32)}
}

func (f *fakeEmbedder) vectorFor(text string) []float32 {
	if v, ok := f.vectors[text]; ok {
		return v
	}
	v := make([]float32, f.dim)
	v[0] = 1
	return v
}

func (f *fakeEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if f.fail {
		return nil, &utils.ProviderError{Provider: "fake", Op: "batch_embed", Err: errors.New("embedder down")}
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = f.vectorFor(t)
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if f.fail {
		return nil, &utils.ProviderError{Provider: "fake", Op: "embed", Err: errors.New("embedder down")}
	}
	return f.vectorFor(text), nil
}

func (f *fakeEmbedder) Dimension() int { return f.dim }

// fakeGenerator returns a fixed answer or a fixed error.
type fakeGenerator struct {
	answer string
	err    error
	calls  int
}

func (f *fakeGenerator) Generate(ctx context.Context, question, contextBlock, language string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func entry(id, documentID string, chunkIndex int, classification, department, content string, vector []float32) models.IndexEntry {
	return models.IndexEntry{
		ID:      id,
		Content: content,
		Metadata: models.ChunkMetadata{
			DocumentID:     documentID,
			ChunkIndex:     chunkIndex,
			Title:          "Doc " + documentID,
			Department:     department,
			Category:       "policies",
			Classification: classification,
			Language:       "ar",
			Version:        "1.0",
		},
		Vector: vector,
	}
}
