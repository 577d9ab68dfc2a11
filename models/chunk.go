package models

import "fmt"

// Chunk is a bounded, overlapping segment of a document's cleaned text,
// the unit of retrieval. Offsets are rune offsets into the cleaned source
// and are monotonic and non-overlapping across a document's chunks even
// though chunk contents physically overlap by the configured carry-over.
type Chunk struct {
	ID          string    `json:"id" bson:"chunk_id"`
	DocumentID  string    `json:"document_id" bson:"document_id"`
	ChunkIndex  int       `json:"chunk_index" bson:"chunk_index"`
	Content     string    `json:"content" bson:"content"`
	StartOffset int       `json:"start_offset" bson:"start_offset"`
	EndOffset   int       `json:"end_offset" bson:"end_offset"`
	Embedding   []float32 `json:"embedding,omitempty" bson:"vector,omitempty"`
}

// ChunkID builds the stable chunk identifier for a document and index.
func ChunkID(documentID string, chunkIndex int) string {
	return fmt.Sprintf("%s_%d", documentID, chunkIndex)
}

// ChunkMetadata is the denormalized metadata stored alongside each chunk
// vector so the index can filter at search time without a sidecar lookup.
type ChunkMetadata struct {
	DocumentID     string `json:"document_id" bson:"document_id"`
	ChunkIndex     int    `json:"chunk_index" bson:"chunk_index"`
	Title          string `json:"title" bson:"title"`
	Department     string `json:"department" bson:"department"`
	Category       string `json:"category" bson:"category"`
	Classification string `json:"classification" bson:"classification"`
	Language       string `json:"language" bson:"language"`
	Version        string `json:"version" bson:"version"`
}

// ChunkMetadataFor flattens a document's metadata for one chunk.
func ChunkMetadataFor(meta DocumentMetadata, chunkIndex int) ChunkMetadata {
	return ChunkMetadata{
		DocumentID:     meta.DocumentID,
		ChunkIndex:     chunkIndex,
		Title:          meta.Title,
		Department:     meta.Department,
		Category:       meta.Category,
		Classification: meta.Classification,
		Language:       meta.Language,
		Version:        meta.Version,
	}
}

// Field returns the named metadata field as a string. Filter expressions
// address fields by these names; unknown names return the empty string so
// a malformed filter matches nothing rather than everything.
func (m ChunkMetadata) Field(name string) string {
	switch name {
	case "document_id":
		return m.DocumentID
	case "title":
		return m.Title
	case "department":
		return m.Department
	case "category":
		return m.Category
	case "classification":
		return m.Classification
	case "language":
		return m.Language
	case "version":
		return m.Version
	default:
		return ""
	}
}

// IndexEntry is a chunk as stored in the vector index: content, flattened
// metadata, and the embedding vector.
type IndexEntry struct {
	ID       string        `json:"id" bson:"chunk_id"`
	Content  string        `json:"content" bson:"content"`
	Metadata ChunkMetadata `json:"metadata" bson:"metadata"`
	Vector   []float32     `json:"vector" bson:"vector"`
}

// SearchResult is one ranked hit from the vector index. Similarity is
// cosine similarity mapped to [0,1] as (1+cos)/2.
type SearchResult struct {
	ID         string        `json:"id"`
	Content    string        `json:"content"`
	Metadata   ChunkMetadata `json:"metadata"`
	Similarity float64       `json:"similarity"`
}

// IndexStats summarizes the contents of the vector index.
type IndexStats struct {
	TotalChunks int            `json:"total_chunks"`
	Departments map[string]int `json:"departments"`
	Categories  map[string]int `json:"categories"`
	Languages   map[string]int `json:"languages"`
}
