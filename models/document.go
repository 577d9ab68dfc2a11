package models

import "time"

// Document classification tiers. Retrieval access to a classification is
// gated by the caller's role (see services.BuildAccessFilter).
const (
	ClassificationPublic       = "public"
	ClassificationInternal     = "internal"
	ClassificationConfidential = "confidential"
)

// Supported document languages.
const (
	LanguageArabic  = "ar"
	LanguageEnglish = "en"
)

// Classifications lists the closed vocabulary for document classification.
var Classifications = []string{
	ClassificationPublic,
	ClassificationInternal,
	ClassificationConfidential,
}

// Departments lists the closed vocabulary for document departments.
var Departments = []string{"HR", "IT", "Admin", "Finance", "Operations"}

// Categories lists the closed vocabulary for document categories.
var Categories = []string{
	"policies",
	"procedures",
	"guidelines",
	"forms",
	"manuals",
	"announcements",
	"training_materials",
	"faq",
	"contact_info",
	"other",
}

// Languages lists the supported language codes.
var Languages = []string{LanguageArabic, LanguageEnglish}

// DocumentMetadata is the persisted per-document record. It lives in the
// metadata sidecar store, keyed by DocumentID, and a flattened copy travels
// with every chunk in the vector index.
type DocumentMetadata struct {
	DocumentID     string    `json:"document_id" bson:"document_id"`
	Title          string    `json:"title" bson:"title"`
	Department     string    `json:"department" bson:"department"`
	Category       string    `json:"category" bson:"category"`
	Classification string    `json:"classification" bson:"classification"`
	Language       string    `json:"language" bson:"language"`
	Version        string    `json:"version" bson:"version"`
	SourceHash     string    `json:"source_hash" bson:"source_hash"`
	ChunkCount     int       `json:"chunk_count" bson:"chunk_count"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}
