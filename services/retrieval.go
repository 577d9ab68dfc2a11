package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"org-knowledge-platform/internal/ai"
	"org-knowledge-platform/internal/config"
	"org-knowledge-platform/internal/logger"
	"org-knowledge-platform/internal/telemetry"
	"org-knowledge-platform/models"
	"org-knowledge-platform/utils"
)

// Canned replies, returned verbatim when retrieval finds nothing useful or
// the pipeline fails.
const (
	noResultsArabic  = "آسف، لا أملك هذه المعلومة في قاعدة المعرفة. هل تريد التحويل لموظف بشري؟"
	noResultsEnglish = "Sorry, I don't have this information in the knowledge base. Would you like me to transfer you to a human?"
	errorArabic      = "عذراً، حدث خطأ في معالجة طلبك. يرجى المحاولة مرة أخرى أو التحويل لموظف بشري."
	errorEnglish     = "Sorry, an error occurred while processing your request. Please try again or transfer to a human."
)

// Answers that mention none of these terms are judged out of scope and
// replaced with the no-results reply.
var scopeKeywords = []string{
	"الهيئة", "الموظف", "العمل", "السياسات", "الإجراءات",
	"organization", "employee", "work", "policies", "procedures",
}

// QueryRequest is one retrieval or answer request. Role and Department
// come from the caller's token, not the request body.
type QueryRequest struct {
	Question   string
	Language   string
	Role       string
	Department string
	Filter     models.Filter
}

// RetrievalOrchestrator runs the question pipeline: embed, filtered
// search, context assembly, confidence scoring, and (for Answer)
// generation with fallback handling.
type RetrievalOrchestrator struct {
	index     VectorIndex
	embedder  ai.EmbeddingProvider
	generator ai.Generator
	cache     *AnswerCache
	metrics   *telemetry.Metrics

	topK             int
	threshold        float64
	maxContextLength int
	minConfidence    float64
	defaultLanguage  string
	maxAnswerRunes   int
}

func NewRetrievalOrchestrator(cfg *config.Config, index VectorIndex, embedder ai.EmbeddingProvider, generator ai.Generator, cache *AnswerCache, metrics *telemetry.Metrics) *RetrievalOrchestrator {
	return &RetrievalOrchestrator{
		index:            index,
		embedder:         embedder,
		generator:        generator,
		cache:            cache,
		metrics:          metrics,
		topK:             cfg.TopK,
		threshold:        cfg.SimilarityThreshold,
		maxContextLength: cfg.MaxContextLength,
		minConfidence:    cfg.MinConfidence,
		defaultLanguage:  cfg.DefaultLanguage,
		maxAnswerRunes:   cfg.MaxOutputTokens * 4,
	}
}

// Retrieve embeds the question and returns ranked chunks, the assembled
// context, deduplicated sources, and a confidence score. Provider and
// index failures surface as errors; Answer owns the fallback policy.
func (o *RetrievalOrchestrator) Retrieve(ctx context.Context, req QueryRequest) (models.RetrievalResult, error) {
	var empty models.RetrievalResult

	tracer := otel.Tracer("retrieval")
	ctx, span := tracer.Start(ctx, "retrieval.retrieve")
	defer span.End()
	started := time.Now()

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return empty, &utils.ValidationError{Field: "question", Reason: "question is required"}
	}

	language := req.Language
	if language == "" {
		language = utils.DetectLanguage(question)
	}
	if language == "" {
		language = o.defaultLanguage
	}
	span.SetAttributes(
		attribute.String("query.language", language),
		attribute.String("query.role", req.Role),
	)

	vector, err := o.embedder.EmbedQuery(ctx, queryPrefix(language)+question)
	if err != nil {
		return empty, err
	}

	filter := models.And{
		BuildAccessFilter(req.Role, req.Department),
		req.Filter,
	}
	results, err := o.index.Search(ctx, vector, o.topK, o.threshold, filter)
	if err != nil {
		return empty, err
	}

	result := models.RetrievalResult{
		Question:   question,
		Language:   language,
		Results:    results,
		Context:    assembleContext(results, o.maxContextLength),
		Sources:    extractSources(results),
		Confidence: confidence(results),
	}

	span.SetAttributes(
		attribute.Int("retrieval.results", len(results)),
		attribute.Float64("retrieval.confidence", result.Confidence),
	)
	if o.metrics != nil {
		o.metrics.RecordRetrieval(language, len(results), time.Since(started).Seconds())
	}
	return result, nil
}

// Answer runs Retrieve and then generation. Failures never propagate to
// the caller: they become the language-appropriate canned error reply with
// confidence zero. An answer that strays outside organizational topics is
// replaced with the no-results reply.
func (o *RetrievalOrchestrator) Answer(ctx context.Context, req QueryRequest) models.AnswerResult {
	language := req.Language
	if language == "" {
		language = utils.DetectLanguage(req.Question)
	}

	cacheKey := utils.CacheKey(req.Question, language, req.Role, req.Department)
	if cached, ok := o.cache.Get(ctx, cacheKey); ok {
		if o.metrics != nil {
			o.metrics.RecordCacheLookup(true)
		}
		return cached
	}
	if o.metrics != nil {
		o.metrics.RecordCacheLookup(false)
	}

	retrieved, err := o.Retrieve(ctx, req)
	if err != nil {
		if utils.IsValidation(err) {
			logger.Warn("Rejected answer request", "error", err, "language", language)
		} else {
			logger.Error("Retrieval failed", "error", err, "language", language)
		}
		return errorResult(req.Question, language, err)
	}

	// minConfidence defaults to zero, so out of the box only an empty
	// result set reaches the no-results reply.
	if len(retrieved.Results) == 0 || retrieved.Confidence < o.minConfidence {
		return models.AnswerResult{
			RetrievalResult: retrieved,
			Answer:          noResultsMessage(retrieved.Language),
		}
	}

	answer, err := o.generator.Generate(ctx, retrieved.Question, retrieved.Context, retrieved.Language)
	if err != nil {
		logger.Error("Generation failed", "error", err, "language", retrieved.Language)
		return errorResult(req.Question, retrieved.Language, err)
	}

	answer = strings.TrimSpace(answer)
	if !withinScope(answer) {
		logger.Warn("Generated answer judged out of scope", "language", retrieved.Language)
		answer = noResultsMessage(retrieved.Language)
	}
	answer = truncateRunes(answer, o.maxAnswerRunes)

	result := models.AnswerResult{
		RetrievalResult: retrieved,
		Answer:          answer,
	}
	o.cache.Set(ctx, cacheKey, result)
	return result
}

func queryPrefix(language string) string {
	if language == models.LanguageArabic {
		return "سؤال: "
	}
	return "Question: "
}

// assembleContext concatenates chunk contents, each headed by its source
// tag. A chunk is admitted only if the tag, the joining blank line, and
// the content all fit the budget together, so the assembled string never
// exceeds maxLength. All lengths are in runes.
func assembleContext(results []models.SearchResult, maxLength int) string {
	var parts []string
	current := 0

	for _, r := range results {
		sourceTag := fmt.Sprintf("[المصدر: %s - %s]", r.Metadata.Title, r.Metadata.Department)
		partLen := utf8.RuneCountInString(sourceTag) + 1 + utf8.RuneCountInString(r.Content)
		sepLen := 0
		if len(parts) > 0 {
			sepLen = 2
		}
		if current+sepLen+partLen > maxLength {
			break
		}
		parts = append(parts, sourceTag+"\n"+r.Content)
		current += sepLen + partLen
	}
	return strings.Join(parts, "\n\n")
}

// extractSources deduplicates results by document, keeping the first
// (highest ranked) similarity for each.
func extractSources(results []models.SearchResult) []models.Source {
	var sources []models.Source
	seen := make(map[string]struct{})

	for _, r := range results {
		if _, ok := seen[r.Metadata.DocumentID]; ok {
			continue
		}
		seen[r.Metadata.DocumentID] = struct{}{}
		sources = append(sources, models.Source{
			DocumentID: r.Metadata.DocumentID,
			Title:      r.Metadata.Title,
			Department: r.Metadata.Department,
			Category:   r.Metadata.Category,
			Similarity: r.Similarity,
		})
	}
	return sources
}

// confidence is the mean similarity scaled by result count, saturating at
// three results, rounded to two decimals.
func confidence(results []models.SearchResult) float64 {
	if len(results) == 0 {
		return 0
	}
	var sum float64
	for _, r := range results {
		sum += r.Similarity
	}
	avg := sum / float64(len(results))
	scale := math.Min(float64(len(results))/3.0, 1.0)
	return math.Round(avg*scale*100) / 100
}

func withinScope(answer string) bool {
	lower := strings.ToLower(answer)
	for _, keyword := range scopeKeywords {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

func truncateRunes(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}

func noResultsMessage(language string) string {
	if language == models.LanguageArabic {
		return noResultsArabic
	}
	return noResultsEnglish
}

func errorMessage(language string) string {
	if language == models.LanguageArabic {
		return errorArabic
	}
	return errorEnglish
}

func errorResult(question, language string, err error) models.AnswerResult {
	return models.AnswerResult{
		RetrievalResult: models.RetrievalResult{
			Question: question,
			Language: language,
			Degraded: true,
		},
		Answer: errorMessage(language),
	}
}
