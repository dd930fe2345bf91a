package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunkID(t *testing.T) {
	c := Chunk{Filename: "policy.pdf", Index: 3, Text: "x"}
	require.Equal(t, "policy.pdf-3", c.ID())
}

func TestChunkIDStable(t *testing.T) {
	// Re-uploading the same file yields the same ids, so vectors
	// overwrite instead of accumulating.
	a := Chunk{Filename: "a.txt", Index: 0}
	b := Chunk{Filename: "a.txt", Index: 0, Text: "different"}
	require.Equal(t, a.ID(), b.ID())
}
