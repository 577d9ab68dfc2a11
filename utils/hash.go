package utils

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// NewDocumentID derives a 16-hex-character document id from the document's
// identity fields and an ingest timestamp. Re-ingesting the same document
// yields a fresh id, so Update can stage the replacement before removing
// the predecessor.
func NewDocumentID(title, department string, at time.Time) string {
	seed := fmt.Sprintf("%s_%s_%d", title, department, at.UnixNano())
	sum := md5.Sum([]byte(seed))
	return hex.EncodeToString(sum[:])[:16]
}

// SourceHash fingerprints raw document content for change detection.
func SourceHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// CacheKey builds a stable cache key from its parts.
func CacheKey(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
