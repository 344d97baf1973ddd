package ingest

import (
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

var ErrUnsupportedFile = errors.New("unsupported file type")

var (
	// wtTag matches <w:t>text</w:t> with any attributes.
	wtTag        = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)
	paragraphEnd = regexp.MustCompile(`</w:p>`)
)

// Supported reports whether ExtractText can read the file.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".pdf", ".docx":
		return true
	}
	return false
}

// ExtractText returns the plain text of a course document.
func ExtractText(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case ".pdf":
		return extractPDF(path)
	case ".docx":
		return extractDOCX(path)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFile, ext)
	}
}

func extractPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open PDF: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	numPages := r.NumPage()
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", i, err)
		}
		sb.WriteString(text)
		if i < numPages {
			sb.WriteByte('\n')
		}
	}
	return sb.String(), nil
}

func extractDOCX(path string) (string, error) {
	r, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", fmt.Errorf("open DOCX: %w", err)
	}
	defer r.Close()

	return docxText(r.Editable().GetContent()), nil
}

// docxText flattens document.xml to one line per paragraph.
func docxText(xml string) string {
	var lines []string
	for _, para := range paragraphEnd.Split(xml, -1) {
		var sb strings.Builder
		for _, m := range wtTag.FindAllStringSubmatch(para, -1) {
			sb.WriteString(html.UnescapeString(m[1]))
		}
		lines = append(lines, sb.String())
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
