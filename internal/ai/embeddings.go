package ai

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"org-knowledge-platform/internal/config"
	"org-knowledge-platform/utils"
)

// EmbeddingProvider turns text into fixed-dimension vectors. Implementations
// must return one vector per input, in input order.
type EmbeddingProvider interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// GeminiEmbedder produces embeddings via the Google Generative AI API
// (text-embedding-004 by default).
type GeminiEmbedder struct {
	client    *genai.Client
	model     string
	dimension int
}

func NewGeminiEmbedder(ctx context.Context, cfg *config.Config) (*GeminiEmbedder, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY for embeddings")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, err
	}
	return &GeminiEmbedder{
		client:    client,
		model:     cfg.EmbeddingModel,
		dimension: cfg.VectorDimension,
	}, nil
}

func (e *GeminiEmbedder) Dimension() int { return e.dimension }

// EmbedTexts embeds a batch in one API call. A partial response fails the
// whole batch so callers never index a document with missing vectors.
func (e *GeminiEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	model := e.client.EmbeddingModel(e.model)
	batch := model.NewBatch()
	for _, t := range texts {
		batch.AddContent(genai.Text(t))
	}

	resp, err := model.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, &utils.ProviderError{Provider: "gemini", Op: "batch_embed", Retryable: true, Err: err}
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, &utils.ProviderError{
			Provider: "gemini",
			Op:       "batch_embed",
			Err:      fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Embeddings)),
		}
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) != e.dimension {
			return nil, &utils.ProviderError{
				Provider: "gemini",
				Op:       "batch_embed",
				Err:      fmt.Errorf("embedding %d has wrong dimension", i),
			}
		}
		vectors[i] = emb.Values
	}
	return vectors, nil
}

func (e *GeminiEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	model := e.client.EmbeddingModel(e.model)
	resp, err := model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, &utils.ProviderError{Provider: "gemini", Op: "embed", Retryable: true, Err: err}
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) != e.dimension {
		return nil, &utils.ProviderError{
			Provider: "gemini",
			Op:       "embed",
			Err:      fmt.Errorf("no embedding returned"),
		}
	}
	return resp.Embedding.Values, nil
}

func (e *GeminiEmbedder) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}
