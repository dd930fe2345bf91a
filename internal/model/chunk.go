package model

import "fmt"

// Chunk is a contiguous slice of a document's text. Chunks are the
// atomic unit of embedding, storage and retrieval. The uploaded file
// itself is transient; only chunks persist.
type Chunk struct {
	Filename string
	Index    int
	Text     string
}

// ID returns the stored identifier "{filename}-{index}". Re-chunking
// the same filename reproduces the same ids in the same order, so a
// re-upload overwrites prior records id by id. If the new document is
// shorter, surplus old ids stay behind in the index.
func (c Chunk) ID() string {
	return fmt.Sprintf("%s-%d", c.Filename, c.Index)
}
