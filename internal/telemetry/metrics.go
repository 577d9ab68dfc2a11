package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all application metrics
type Metrics struct {
	RequestCounter    metric.Int64Counter
	RequestDuration   metric.Float64Histogram
	ChunksIndexed     metric.Int64Counter
	DocumentsIngested metric.Int64Counter
	RetrievalDuration metric.Float64Histogram
	RetrievalHits     metric.Int64Counter
	CacheLookups      metric.Int64Counter
}

// InitMetrics initializes all application metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("org-knowledge-platform")

	requestCounter, err := meter.Int64Counter(
		"http.requests.total",
		metric.WithDescription("Total HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	chunksIndexed, err := meter.Int64Counter(
		"index.chunks.total",
		metric.WithDescription("Total chunks written to the vector index"),
	)
	if err != nil {
		return nil, err
	}

	documentsIngested, err := meter.Int64Counter(
		"ingest.documents.total",
		metric.WithDescription("Total documents ingested"),
	)
	if err != nil {
		return nil, err
	}

	retrievalDuration, err := meter.Float64Histogram(
		"retrieval.duration",
		metric.WithDescription("Retrieval pipeline duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	retrievalHits, err := meter.Int64Counter(
		"retrieval.results.total",
		metric.WithDescription("Chunks returned above the similarity threshold"),
	)
	if err != nil {
		return nil, err
	}

	cacheLookups, err := meter.Int64Counter(
		"answer_cache.lookups.total",
		metric.WithDescription("Answer cache lookups by outcome"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RequestCounter:    requestCounter,
		RequestDuration:   requestDuration,
		ChunksIndexed:     chunksIndexed,
		DocumentsIngested: documentsIngested,
		RetrievalDuration: retrievalDuration,
		RetrievalHits:     retrievalHits,
		CacheLookups:      cacheLookups,
	}, nil
}

// RecordRequest records HTTP request metrics
func (m *Metrics) RecordRequest(method, path, status string, duration float64) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.path", path),
		attribute.String("http.status", status),
	}

	m.RequestCounter.Add(context.Background(), 1, metric.WithAttributes(attrs...))
	m.RequestDuration.Record(context.Background(), duration, metric.WithAttributes(attrs...))
}

// RecordIngest records a completed document ingest
func (m *Metrics) RecordIngest(language string, chunks int) {
	attrs := []attribute.KeyValue{
		attribute.String("document.language", language),
	}

	m.DocumentsIngested.Add(context.Background(), 1, metric.WithAttributes(attrs...))
	m.ChunksIndexed.Add(context.Background(), int64(chunks), metric.WithAttributes(attrs...))
}

// RecordRetrieval records retrieval pipeline metrics
func (m *Metrics) RecordRetrieval(language string, results int, duration float64) {
	attrs := []attribute.KeyValue{
		attribute.String("query.language", language),
	}

	m.RetrievalDuration.Record(context.Background(), duration, metric.WithAttributes(attrs...))
	m.RetrievalHits.Add(context.Background(), int64(results), metric.WithAttributes(attrs...))
}

// RecordCacheLookup records an answer cache hit or miss
func (m *Metrics) RecordCacheLookup(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.CacheLookups.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("cache.outcome", outcome),
	))
}
