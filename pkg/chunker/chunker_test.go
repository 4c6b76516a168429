package chunker

import (
	"strings"
	"testing"
)

func TestSplit_EmptyInput(t *testing.T) {
	c := NewChunker(100, 10)

	for _, text := range []string{"", "   ", "\n\n\t  \n"} {
		if got := c.Split(text); len(got) != 0 {
			t.Fatalf("expected no chunks for %q, got %d", text, len(got))
		}
	}
}

func TestSplit_ShortInputSingleChunk(t *testing.T) {
	c := NewChunker(100, 10)

	got := c.Split("Hello world.")
	if len(got) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(got))
	}
	if got[0] != "Hello world." {
		t.Fatalf("expected input back, got %q", got[0])
	}
}

func TestSplit_MaxSizeRespected(t *testing.T) {
	c := NewChunker(50, 10)

	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 20)
	chunks := c.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) > 50 {
			t.Fatalf("chunk %d exceeds max size: %d bytes", i, len(chunk))
		}
	}
}

func TestSplit_Coverage(t *testing.T) {
	c := NewChunker(60, 15)

	text := "Alpha paragraph with some words.\n\n" +
		"Beta paragraph follows with different content entirely.\n\n" +
		"Gamma closes the document with one final sentence here."
	chunks := c.Split(text)

	// Every chunk must be a verbatim substring of the input, the chunks
	// must appear in order, and together (overlaps removed) they must
	// cover the whole input with no gaps.
	covered := 0
	search := 0
	for i, chunk := range chunks {
		idx := strings.Index(text[search:], chunk)
		if idx < 0 {
			t.Fatalf("chunk %d is not a substring of the input: %q", i, chunk)
		}
		start := search + idx
		if start > covered {
			t.Fatalf("gap before chunk %d: covered to %d, chunk starts at %d", i, covered, start)
		}
		if end := start + len(chunk); end > covered {
			covered = end
		}
		search = start + 1
	}
	if covered != len(text) {
		t.Fatalf("chunks cover %d of %d bytes", covered, len(text))
	}
}

func TestSplit_OverlapShared(t *testing.T) {
	c := NewChunker(40, 12)

	text := "alpha bravo charlie delta echo foxtrot golf hotel india " +
		"juliet kilo lima mike november oscar papa quebec romeo sierra " +
		"tango uniform victor whiskey xray yankee zulu"
	chunks := c.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		shared := 0
		prev := chunks[i-1]
		for l := min(len(prev), len(chunks[i])); l > 0; l-- {
			if strings.HasPrefix(chunks[i], prev[len(prev)-l:]) {
				shared = l
				break
			}
		}
		if shared > 12 {
			t.Fatalf("chunks %d/%d share %d bytes, more than the configured overlap", i-1, i, shared)
		}
	}
}

func TestSplit_UnsplittableUnitHardCut(t *testing.T) {
	c := NewChunker(20, 0)

	text := strings.Repeat("x", 95)
	chunks := c.Split(text)
	for i, chunk := range chunks {
		if len(chunk) > 20 {
			t.Fatalf("chunk %d exceeds max size after hard cut: %d", i, len(chunk))
		}
	}
	if joined := strings.Join(chunks, ""); joined != text {
		t.Fatalf("hard-cut chunks do not reconstruct input: got %d bytes, want %d", len(joined), len(text))
	}
}

func TestSplit_PrefersParagraphBoundaries(t *testing.T) {
	c := NewChunker(30, 0)

	text := "First paragraph here.\n\nSecond paragraph here."
	chunks := c.Split(text)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %q", len(chunks), chunks)
	}
	if !strings.HasPrefix(chunks[1], "Second") {
		t.Fatalf("expected split on paragraph boundary, second chunk is %q", chunks[1])
	}
}

func TestTokenCount_NonZero(t *testing.T) {
	c := NewChunker(100, 0)

	if got := c.TokenCount("some reasonably sized input text"); got <= 0 {
		t.Fatalf("expected positive token count, got %d", got)
	}
}
