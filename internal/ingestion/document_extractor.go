package ingestion

import (
	"bytes"
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

const (
	// MinExtractedTextLength is the minimum text length required for successful extraction
	MinExtractedTextLength = 50
	// BinarySampleSize is the number of bytes to sample for binary detection
	BinarySampleSize = 1000
	// BinaryThreshold is the proportion of non-printable characters that indicates binary data
	BinaryThreshold = 0.3
)

var (
	// ErrUnsupportedFormat is returned for files that are not .txt, .pdf or .docx
	ErrUnsupportedFormat = errors.New("unsupported file type")
	// ErrUnreadableDocument is returned when no usable text can be pulled out of a document
	ErrUnreadableDocument = errors.New("unreadable document")
)

var (
	paragraphEnd = regexp.MustCompile(`</w:p>|<w:br/>|<w:tab/>`)
	xmlTag       = regexp.MustCompile(`<[^>]+>`)
)

// SupportedExtension reports whether files with the extension can be converted to text
func SupportedExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".txt", ".pdf", ".docx":
		return true
	}
	return false
}

// ExtractText reads a CV file and returns its plain text
func ExtractText(filePath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	if !SupportedExtension(ext) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", filePath, err)
	}
	return ExtractBytes(filepath.Base(filePath), data)
}

// ExtractBytes converts document content to plain text. The format is chosen by the
// extension of name.
func ExtractBytes(name string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))

	switch ext {
	case ".txt":
		text := string(data)
		if strings.TrimSpace(text) == "" || IsBinaryData(text) {
			return "", fmt.Errorf("%w: %s is not plain text", ErrUnreadableDocument, name)
		}
		return text, nil
	case ".pdf":
		return checkExtracted(name, extractPDF, data)
	case ".docx":
		return checkExtracted(name, extractDOCX, data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

func checkExtracted(name string, extract func([]byte) (string, error), data []byte) (string, error) {
	text, err := extract(data)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrUnreadableDocument, name, err)
	}
	if len(strings.TrimSpace(text)) < MinExtractedTextLength {
		return "", fmt.Errorf("%w: extracted text is too short (likely failed extraction) from %s", ErrUnreadableDocument, name)
	}
	return text, nil
}

// extractPDF pulls the plain text of every page
func extractPDF(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// extractDOCX reads word/document.xml and drops the markup, keeping one line per paragraph
func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	content = paragraphEnd.ReplaceAllString(content, "\n")
	content = xmlTag.ReplaceAllString(content, "")
	return html.UnescapeString(content), nil
}

// IsBinaryData checks if content appears to be binary (PDF/ZIP markers)
func IsBinaryData(content string) bool {
	if len(content) == 0 {
		return false
	}

	if strings.HasPrefix(content, "%PDF-") {
		return true
	}

	// DOCX files are ZIP archives
	if strings.HasPrefix(content, "PK") {
		return true
	}

	sampleSize := min(BinarySampleSize, len(content))
	nonPrintable := 0
	for i := 0; i < sampleSize; i++ {
		ch := content[i]
		if ch < 32 && ch != '\n' && ch != '\r' && ch != '\t' {
			nonPrintable++
		}
	}

	return float64(nonPrintable)/float64(sampleSize) > BinaryThreshold
}
