package extract

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/askdoc/askdoc/internal/pkg/errs"
)

// Text converts an uploaded file into a single text blob. PDF files
// are extracted page by page and joined with newlines; plain text
// files are decoded as UTF-8. Any other extension is rejected with
// errs.ErrUnsupportedFile so callers can tell "empty document" from
// "format we never read".
func Text(filename string, r io.Reader) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return fromPDF(r)
	case ".txt":
		return fromText(r)
	default:
		return "", fmt.Errorf("%w: %s", errs.ErrUnsupportedFile, filename)
	}
}

func fromPDF(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract pdf page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n"), nil
}

func fromText(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: not valid utf-8", errs.ErrInvalidEncoding)
	}
	return string(data), nil
}
