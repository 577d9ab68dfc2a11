package services

import (
	"strings"
	"unicode/utf8"

	"org-knowledge-platform/internal/config"
	"org-knowledge-platform/internal/logger"
	"org-knowledge-platform/models"
)

// Chunker splits cleaned document text into overlapping, size-bounded
// chunks along sentence boundaries. All sizes and offsets are measured in
// runes so Arabic and Latin text budget identically.
type Chunker struct {
	chunkSize    int
	overlap      int
	minChunkSize int
}

func NewChunker(chunkSize, overlap, minChunkSize int) *Chunker {
	return &Chunker{
		chunkSize:    chunkSize,
		overlap:      overlap,
		minChunkSize: minChunkSize,
	}
}

func NewChunkerFromConfig(cfg *config.Config) *Chunker {
	return NewChunker(cfg.ChunkSize, cfg.ChunkOverlap, cfg.MinChunkSize)
}

// Split chunks a document. Sentences accumulate greedily; a chunk is
// emitted when the next sentence would push it past the size limit and it
// already meets the minimum. The last chunk's tail runes carry over into
// the next chunk's content, but offsets come from the sentences' actual
// positions in the source text: each chunk ends where its last sentence
// ends, the next chunk starts there, and EndOffset never exceeds the
// source rune length.
//
// A sentence longer than the chunk size becomes its own oversized chunk.
// A final buffer below the minimum is discarded with a warning. Empty
// input yields zero chunks.
func (c *Chunker) Split(documentID, text string) []models.Chunk {
	spans := splitSentenceSpans(text)
	if len(spans) == 0 {
		return nil
	}

	var chunks []models.Chunk
	var buf []rune
	nextStart := spans[0].start
	lastEnd := spans[0].start
	hasFresh := false

	emit := func() {
		content := strings.TrimSpace(string(buf))
		idx := len(chunks)
		chunks = append(chunks, models.Chunk{
			ID:          models.ChunkID(documentID, idx),
			DocumentID:  documentID,
			ChunkIndex:  idx,
			Content:     content,
			StartOffset: nextStart,
			EndOffset:   lastEnd,
		})
		nextStart = lastEnd

		runes := []rune(content)
		carry := c.overlap
		if carry > len(runes) {
			carry = len(runes)
		}
		buf = append(buf[:0], runes[len(runes)-carry:]...)
		hasFresh = false
	}

	for _, sp := range spans {
		sr := []rune(sp.text)
		if len(buf) > 0 && len(buf)+1+len(sr) > c.chunkSize && len(buf) >= c.minChunkSize {
			emit()
		}
		if len(buf) > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, sr...)
		lastEnd = sp.end
		hasFresh = true
	}

	if hasFresh {
		content := strings.TrimSpace(string(buf))
		if utf8.RuneCountInString(content) >= c.minChunkSize {
			idx := len(chunks)
			chunks = append(chunks, models.Chunk{
				ID:          models.ChunkID(documentID, idx),
				DocumentID:  documentID,
				ChunkIndex:  idx,
				Content:     content,
				StartOffset: nextStart,
				EndOffset:   lastEnd,
			})
		} else {
			logger.Warn("Discarding trailing chunk below minimum size",
				"document_id", documentID,
				"size", utf8.RuneCountInString(content),
				"min", c.minChunkSize)
		}
	}

	return chunks
}
