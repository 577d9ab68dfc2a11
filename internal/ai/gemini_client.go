package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	genai "github.com/google/generative-ai-go/genai"

	"org-knowledge-platform/internal/config"
	"org-knowledge-platform/internal/logger"
	"org-knowledge-platform/utils"
)

// Generator produces an answer from a question and an assembled context
// block. Implementations must not retry internally; failures surface to the
// orchestrator which owns the fallback policy.
type Generator interface {
	Generate(ctx context.Context, question, contextBlock, language string) (string, error)
}

// GeminiClient wraps the Gemini generative model with a circuit breaker
// and a client-side rate limiter.
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
	breaker     *gobreaker.CircuitBreaker
	rateLimiter *rate.Limiter
}

func NewGeminiClient(ctx context.Context, cfg *config.Config) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, err
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "GeminiAPI",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
		},
	})

	return &GeminiClient{
		client:      client,
		model:       cfg.GenerationModel,
		temperature: float32(cfg.Temperature),
		maxTokens:   int32(cfg.MaxOutputTokens),
		breaker:     breaker,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.GeminiRPS), cfg.GeminiBurst),
	}, nil
}

// Generate runs a single generation call. The context block and the
// language-specific instruction framing are built by the caller; this layer
// only handles transport, limits, and the breaker.
func (gc *GeminiClient) Generate(ctx context.Context, question, contextBlock, language string) (string, error) {
	tracer := otel.Tracer("gemini-client")
	ctx, span := tracer.Start(ctx, "gemini.generate_content")
	defer span.End()

	span.SetAttributes(
		attribute.String("gemini.model", gc.model),
		attribute.String("gemini.language", language),
		attribute.Int("gemini.context_chars", len(contextBlock)),
	)

	if err := gc.rateLimiter.Wait(ctx); err != nil {
		span.SetAttributes(attribute.Bool("gemini.rate_limited", true))
		return "", &utils.ProviderError{Provider: "gemini", Op: "generate", Retryable: true, Err: err}
	}

	result, err := gc.breaker.Execute(func() (interface{}, error) {
		model := gc.client.GenerativeModel(gc.model)
		model.SetTemperature(gc.temperature)
		model.SetMaxOutputTokens(gc.maxTokens)

		prompt := buildPrompt(question, contextBlock, language)
		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return nil, err
		}
		return resp, nil
	})
	if err != nil {
		span.SetAttributes(attribute.Bool("gemini.error", true))
		retryable := err != gobreaker.ErrOpenState
		return "", &utils.ProviderError{Provider: "gemini", Op: "generate", Retryable: retryable, Err: err}
	}

	resp := result.(*genai.GenerateContentResponse)
	text := extractText(resp)
	if text == "" {
		span.SetAttributes(attribute.Bool("gemini.empty_response", true))
		return "", &utils.ProviderError{
			Provider: "gemini",
			Op:       "generate",
			Err:      fmt.Errorf("empty generation response"),
		}
	}

	span.SetAttributes(attribute.Bool("gemini.success", true))
	return text, nil
}

func buildPrompt(question, contextBlock, language string) string {
	if language == "ar" {
		return fmt.Sprintf(
			"أنت مساعد معرفي للموظفين. أجب عن السؤال اعتماداً على المعلومات التالية فقط. إذا لم تكفِ المعلومات فقل ذلك صراحة.\n\nالمعلومات:\n%s\n\nالسؤال: %s",
			contextBlock, question)
	}
	return fmt.Sprintf(
		"You are an internal knowledge assistant. Answer the question using only the information below. If the information is insufficient, say so explicitly.\n\nInformation:\n%s\n\nQuestion: %s",
		contextBlock, question)
}

func extractText(resp *genai.GenerateContentResponse) string {
	total := ""
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				total += string(text)
			}
		}
	}
	return total
}

// Close releases the underlying API client.
func (gc *GeminiClient) Close() error {
	if gc.client != nil {
		return gc.client.Close()
	}
	return nil
}
