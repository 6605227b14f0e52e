package extract

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// ErrUnsupportedFormat is returned when a document extension is not one of
// the allowed resume formats. It is the only extraction failure callers are
// expected to surface to the user as an input error.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// AllowedExtensions lists the document formats the extractor understands.
var AllowedExtensions = []string{".pdf", ".docx", ".txt"}

// File reads the document at path and returns its plain text content. The
// format is picked by extension.
func File(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	return Bytes(data, filepath.Ext(path))
}

// Bytes returns the plain text content of an in-memory document. The
// extension decides the format; anything outside AllowedExtensions fails
// with ErrUnsupportedFormat.
func Bytes(data []byte, ext string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(ext)) {
	case ".pdf":
		return pdfText(data)
	case ".docx":
		return docxText(data)
	case ".txt":
		return string(data), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(text)
	}

	return builder.String(), nil
}

func docxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read docx: %w", err)
	}
	defer doc.Close()

	return doc.Editable().GetContent(), nil
}
