package models

// Source identifies a document that contributed chunks to a retrieval,
// deduplicated by document id. Similarity is the best similarity among the
// document's retrieved chunks.
type Source struct {
	DocumentID string  `json:"document_id"`
	Title      string  `json:"title"`
	Department string  `json:"department"`
	Category   string  `json:"category"`
	Similarity float64 `json:"similarity"`
}

// RetrievalResult is the outcome of the retrieval pipeline for one
// question: ranked chunks, the assembled bounded context, sources, and a
// confidence score in [0,1]. It is ephemeral and never persisted.
type RetrievalResult struct {
	Question   string         `json:"question"`
	Language   string         `json:"language"`
	Results    []SearchResult `json:"results"`
	Context    string         `json:"context"`
	Sources    []Source       `json:"sources"`
	Confidence float64        `json:"confidence"`
	// Degraded marks results produced by the canned-fallback path after a
	// provider or index failure; such results carry confidence 0.
	Degraded bool `json:"degraded,omitempty"`
}

// AnswerResult is a RetrievalResult plus the generated (and validated)
// answer text.
type AnswerResult struct {
	RetrievalResult
	Answer string `json:"answer"`
}
