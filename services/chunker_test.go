package services

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func sentence(length int) string {
	return strings.Repeat("a", length-1) + "."
}

func TestSplitEmptyInput(t *testing.T) {
	c := NewChunker(500, 50, 100)
	if chunks := c.Split("doc1", ""); len(chunks) != 0 {
		t.Fatalf("expected no chunks, got %d", len(chunks))
	}
	if chunks := c.Split("doc1", "   \n  "); len(chunks) != 0 {
		t.Fatalf("expected no chunks for whitespace, got %d", len(chunks))
	}
}

func TestSplitThreeSentencesWithOverlap(t *testing.T) {
	c := NewChunker(500, 50, 100)
	text := sentence(200) + " " + sentence(200) + " " + sentence(200)

	chunks := c.Split("doc1", text)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}

	first := chunks[0]
	if got := utf8.RuneCountInString(first.Content); got != 401 {
		t.Errorf("first chunk length = %d, want 401", got)
	}
	if first.StartOffset != 0 || first.EndOffset != 401 {
		t.Errorf("first chunk offsets = [%d,%d), want [0,401)", first.StartOffset, first.EndOffset)
	}

	second := chunks[1]
	if second.StartOffset != first.EndOffset {
		t.Errorf("offsets not contiguous: second starts at %d, first ends at %d", second.StartOffset, first.EndOffset)
	}

	// The second chunk begins with the 50-rune tail of the first.
	firstRunes := []rune(first.Content)
	tail := string(firstRunes[len(firstRunes)-50:])
	if !strings.HasPrefix(second.Content, tail) {
		t.Errorf("second chunk does not start with the overlap tail of the first")
	}
}

func TestSplitChunkIdentity(t *testing.T) {
	c := NewChunker(500, 50, 100)
	text := sentence(200) + " " + sentence(200) + " " + sentence(200)

	for i, chunk := range c.Split("docX", text) {
		if chunk.DocumentID != "docX" {
			t.Errorf("chunk %d document id = %q", i, chunk.DocumentID)
		}
		if chunk.ChunkIndex != i {
			t.Errorf("chunk %d index = %d", i, chunk.ChunkIndex)
		}
		if want := "docX_" + string(rune('0'+i)); chunk.ID != want {
			t.Errorf("chunk %d id = %q, want %q", i, chunk.ID, want)
		}
	}
}

func TestSplitOversizedSentence(t *testing.T) {
	c := NewChunker(100, 10, 20)
	text := sentence(300) + " " + sentence(50)

	chunks := c.Split("doc1", text)
	if len(chunks) < 1 {
		t.Fatal("expected at least one chunk")
	}
	if got := utf8.RuneCountInString(chunks[0].Content); got != 300 {
		t.Errorf("oversized sentence chunk length = %d, want 300", got)
	}
}

func TestSplitDiscardsTinyTrailer(t *testing.T) {
	c := NewChunker(100, 0, 50)
	// One full sentence, then a trailing fragment far below the minimum.
	text := sentence(90) + " " + sentence(10)

	chunks := c.Split("doc1", text)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if got := utf8.RuneCountInString(chunks[0].Content); got != 90 {
		t.Errorf("chunk length = %d, want 90", got)
	}
}

func TestSplitWholeDocumentBelowMinimum(t *testing.T) {
	c := NewChunker(500, 50, 100)
	chunks := c.Split("doc1", sentence(40))
	if len(chunks) != 0 {
		t.Fatalf("expected no chunks for a document below the minimum, got %d", len(chunks))
	}
}

func TestSplitAbuttingSentencesOffsetsStayInSource(t *testing.T) {
	c := NewChunker(5, 0, 1)
	// Sentences abut with no separator between them; offsets must still
	// index into the source text.
	text := "aaaa.bbbb."

	chunks := c.Split("doc1", text)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	srcLen := utf8.RuneCountInString(text)
	prevEnd := 0
	for i, chunk := range chunks {
		if chunk.StartOffset != prevEnd {
			t.Errorf("chunk %d start = %d, want %d", i, chunk.StartOffset, prevEnd)
		}
		if chunk.EndOffset > srcLen {
			t.Errorf("chunk %d end = %d exceeds source length %d", i, chunk.EndOffset, srcLen)
		}
		prevEnd = chunk.EndOffset
	}
	if chunks[1].EndOffset != srcLen {
		t.Errorf("final chunk end = %d, want %d", chunks[1].EndOffset, srcLen)
	}
}

func TestSplitMultiSpaceJoinOffsets(t *testing.T) {
	c := NewChunker(6, 0, 1)
	text := "One.  Two."

	chunks := c.Split("doc1", text)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].StartOffset != 0 || chunks[0].EndOffset != 4 {
		t.Errorf("first chunk offsets = [%d,%d), want [0,4)", chunks[0].StartOffset, chunks[0].EndOffset)
	}
	// The inter-sentence whitespace belongs to the following chunk's range.
	if chunks[1].StartOffset != 4 || chunks[1].EndOffset != 10 {
		t.Errorf("second chunk offsets = [%d,%d), want [4,10)", chunks[1].StartOffset, chunks[1].EndOffset)
	}
	if chunks[1].Content != "Two." {
		t.Errorf("second chunk content = %q", chunks[1].Content)
	}
}

func TestSplitArabicRuneBudget(t *testing.T) {
	c := NewChunker(20, 0, 5)
	// Arabic text budgets by runes, not bytes.
	text := "هذه جملة قصيرة. وهذه جملة ثانية. وهذه جملة ثالثة."

	chunks := c.Split("doc1", text)
	if len(chunks) == 0 {
		t.Fatal("expected chunks for Arabic text")
	}
	prevEnd := 0
	for i, chunk := range chunks {
		if chunk.StartOffset != prevEnd {
			t.Errorf("chunk %d start = %d, want %d", i, chunk.StartOffset, prevEnd)
		}
		if chunk.EndOffset <= chunk.StartOffset {
			t.Errorf("chunk %d has empty offset range", i)
		}
		prevEnd = chunk.EndOffset
	}
}
