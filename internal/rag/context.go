package rag

import (
	"strings"

	"github.com/askdoc/askdoc/internal/vectorstore"
)

// AssembleContext joins retrieved chunk texts with newlines, keeping
// the similarity-descending order the store returned. No dedup, no
// token budget: an oversized context fails at the generation call,
// not here.
func AssembleContext(matches []vectorstore.Match) string {
	texts := make([]string, 0, len(matches))
	for _, m := range matches {
		texts = append(texts, m.Metadata["text"])
	}
	return strings.Join(texts, "\n")
}
