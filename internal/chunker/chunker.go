package chunker

import (
	"fmt"
	"iter"
)

// Chunker splits text into fixed-width windows of at most Size
// characters. There is no sentence or word boundary awareness; the
// policy is pure windowing so that chunk ids stay stable across
// re-uploads of the same content.
type Chunker struct {
	size    int
	overlap int
}

func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must be in [0, size), got %d", overlap)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Chunks returns a lazy, restartable sequence of (index, chunk) pairs
// covering the entire text. With zero overlap the chunks are
// contiguous and concatenating them reproduces the input exactly; the
// last chunk may be shorter than the chunk size. Empty text yields an
// empty sequence. Windowing is by Unicode code point, not byte.
func (c *Chunker) Chunks(text string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		runes := []rune(text)
		step := c.size - c.overlap
		index := 0
		for start := 0; start < len(runes); start += step {
			end := start + c.size
			if end > len(runes) {
				end = len(runes)
			}
			if !yield(index, string(runes[start:end])) {
				return
			}
			if end == len(runes) {
				return
			}
			index++
		}
	}
}

// Split is the eager form of Chunks.
func (c *Chunker) Split(text string) []string {
	var out []string
	for _, chunk := range c.Chunks(text) {
		out = append(out, chunk)
	}
	return out
}
