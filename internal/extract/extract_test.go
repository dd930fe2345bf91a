package extract

import (
	"strings"
	"testing"

	"github.com/askdoc/askdoc/internal/pkg/errs"
	"github.com/stretchr/testify/require"
)

func TestTextPlain(t *testing.T) {
	got, err := Text("notes.txt", strings.NewReader("hello world"))
	require.NoError(t, err)
	require.Equal(t, "hello world", got)
}

func TestTextPlainUpperExt(t *testing.T) {
	got, err := Text("NOTES.TXT", strings.NewReader("hi"))
	require.NoError(t, err)
	require.Equal(t, "hi", got)
}

func TestTextInvalidEncoding(t *testing.T) {
	_, err := Text("bad.txt", strings.NewReader(string([]byte{0xff, 0xfe, 0xfd})))
	require.ErrorIs(t, err, errs.ErrInvalidEncoding)
}

func TestTextUnsupported(t *testing.T) {
	_, err := Text("report.docx", strings.NewReader("whatever"))
	require.ErrorIs(t, err, errs.ErrUnsupportedFile)
	require.Contains(t, err.Error(), "report.docx")
}

func TestTextNoExtension(t *testing.T) {
	_, err := Text("Makefile", strings.NewReader("all:"))
	require.ErrorIs(t, err, errs.ErrUnsupportedFile)
}
