package utils

import (
	"strings"
	"testing"
	"time"
)

func TestCleanTextArabic(t *testing.T) {
	got := CleanText("سياسة   الإجازات xyz 2024!", "ar")
	if strings.Contains(got, "xyz") {
		t.Errorf("Latin letters must be stripped from Arabic text: %q", got)
	}
	if !strings.Contains(got, "سياسة") || !strings.Contains(got, "2024") {
		t.Errorf("Arabic words and digits must survive: %q", got)
	}
	if strings.Contains(got, "  ") {
		t.Errorf("whitespace not collapsed: %q", got)
	}
}

func TestCleanTextEnglish(t *testing.T) {
	got := CleanText("Leave  policy: 30 days/year © 2024", "en")
	if strings.Contains(got, "©") || strings.Contains(got, "/") {
		t.Errorf("out-of-charset symbols must be stripped: %q", got)
	}
	if !strings.Contains(got, "Leave policy: 30 days") {
		t.Errorf("cleaned text mangled: %q", got)
	}
}

func TestCleanTextEmpty(t *testing.T) {
	if got := CleanText("@#$%", "en"); got != "" {
		t.Errorf("symbol-only text should clean to empty, got %q", got)
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"ما هي سياسات الإجازات؟", "ar"},
		{"What is the leave policy?", "en"},
		{"سياسة policy مختلطة الكلمات", "ar"},
		{"", "ar"},
		{"12345 !?", "ar"},
	}
	for _, tt := range tests {
		if got := DetectLanguage(tt.text); got != tt.want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestNewDocumentID(t *testing.T) {
	now := time.Now()
	id := NewDocumentID("Leave Policy", "HR", now)
	if len(id) != 16 {
		t.Errorf("id length = %d, want 16", len(id))
	}
	if id != NewDocumentID("Leave Policy", "HR", now) {
		t.Error("same inputs must produce the same id")
	}
	if id == NewDocumentID("Leave Policy", "HR", now.Add(time.Nanosecond)) {
		t.Error("a later ingest must produce a different id")
	}
}

func TestSourceHashStable(t *testing.T) {
	a := SourceHash("content")
	if a != SourceHash("content") {
		t.Error("hash must be deterministic")
	}
	if a == SourceHash("content!") {
		t.Error("different content must hash differently")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64", len(a))
	}
}

func TestCacheKeySeparatesParts(t *testing.T) {
	if CacheKey("ab", "c") == CacheKey("a", "bc") {
		t.Error("cache key must not collide across part boundaries")
	}
}
