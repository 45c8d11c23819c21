// Package document extracts plain text from uploaded files.
package document

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding/charmap"
)

// ExtractText returns the text content of an uploaded file. Plain-text
// formats go through a UTF-8 then Latin-1 then lossy-UTF-8 decode chain;
// PDFs are concatenated page by page with blank-line separators.
func ExtractText(fileName string, content []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".txt", ".md", ".markdown":
		return decodeText(content), nil
	case ".pdf":
		return extractPDF(content)
	default:
		if utf8.Valid(content) {
			return string(content), nil
		}
		return "", fmt.Errorf(
			"unsupported file type %q: supported types are .txt, .md, .markdown, .pdf",
			filepath.Ext(fileName))
	}
}

func decodeText(content []byte) string {
	if utf8.Valid(content) {
		return string(content)
	}
	if decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(content); err == nil {
		return string(decoded)
	}
	return strings.ToValidUTF8(string(content), string(utf8.RuneError))
}

func extractPDF(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("reading pdf: %w", err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extracting text from pdf page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n\n"), nil
}
