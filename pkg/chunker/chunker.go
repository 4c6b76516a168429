package chunker

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// separators are tried in order when a piece of text exceeds the chunk
// size: paragraph break, line break, sentence end, word boundary. A hard
// character cut is the final fallback.
var separators = []string{"\n\n", "\n", ". ", " "}

// Chunker splits raw text into overlapping, bounded-size segments,
// preferring natural boundaries over hard character cuts. Sizes are
// measured in bytes of UTF-8 text; cuts never land inside a rune.
type Chunker struct {
	Size    int
	Overlap int

	encOnce sync.Once
	enc     *tiktoken.Tiktoken
}

// NewChunker creates a Chunker with the given target chunk size and
// overlap, both in characters. Overlap is clamped below size.
func NewChunker(size int, overlap int) *Chunker {
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 2
	}
	return &Chunker{Size: size, Overlap: overlap}
}

// Split produces the ordered chunk sequence for text. Empty or
// whitespace-only input yields no chunks. Consecutive chunks share up to
// Overlap trailing/leading characters; no chunk exceeds Size.
func (c *Chunker) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	pieces := splitPieces(text, c.Size, separators)
	return c.merge(pieces)
}

// TokenCount reports the token length of text under the o200k_base
// encoding. If the encoding cannot be initialized (e.g. offline), a
// rune-count heuristic is used instead so callers never fail on it.
func (c *Chunker) TokenCount(text string) int {
	c.encOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("o200k_base")
		if err == nil {
			c.enc = enc
		}
	})
	if c.enc == nil {
		return (utf8.RuneCountInString(text) + 3) / 4
	}
	return len(c.enc.Encode(text, nil, nil))
}

// splitPieces recursively splits text into pieces no longer than size,
// keeping separators attached so that concatenating the pieces
// reconstructs the input exactly.
func splitPieces(text string, size int, seps []string) []string {
	if len(text) <= size {
		return []string{text}
	}
	if len(seps) == 0 {
		return hardCut(text, size)
	}

	parts := strings.SplitAfter(text, seps[0])
	if len(parts) == 1 {
		return splitPieces(text, size, seps[1:])
	}

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		if len(part) <= size {
			out = append(out, part)
			continue
		}
		out = append(out, splitPieces(part, size, seps[1:])...)
	}
	return out
}

// hardCut slices text into rune-aligned segments of at most size bytes.
func hardCut(text string, size int) []string {
	out := []string{}
	for len(text) > size {
		cut := size
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if cut == 0 {
			cut = size
		}
		out = append(out, text[:cut])
		text = text[cut:]
	}
	if text != "" {
		out = append(out, text)
	}
	return out
}

// merge greedily packs pieces into chunks of at most Size bytes and seeds
// each new chunk with the tail of the previous one for overlap.
func (c *Chunker) merge(pieces []string) []string {
	chunks := []string{}
	cur := ""
	newContent := false

	for _, p := range pieces {
		if newContent && len(cur)+len(p) > c.Size {
			chunks = append(chunks, cur)
			seed := overlapTail(cur, c.Overlap)
			if len(seed)+len(p) > c.Size {
				seed = ""
			}
			cur = seed
			newContent = false
		}
		cur += p
		newContent = true
	}

	if newContent && strings.TrimSpace(cur) != "" {
		chunks = append(chunks, cur)
	}

	return chunks
}

// overlapTail returns a rune-aligned suffix of s no longer than overlap bytes.
func overlapTail(s string, overlap int) string {
	if overlap <= 0 || len(s) <= overlap {
		if overlap <= 0 {
			return ""
		}
		return s
	}
	start := len(s) - overlap
	for start < len(s) && !utf8.RuneStart(s[start]) {
		start++
	}
	return s[start:]
}
