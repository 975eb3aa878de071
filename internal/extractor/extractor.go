// Package extractor turns uploaded document files into plain text ready
// for chunking and embedding.
package extractor

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// file extensions accepted for ingestion
var supportedExtensions = map[string]bool{
	".pdf": true,
	".txt": true,
	".md":  true,
}

func Supported(filename string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// ExtractFile reads the file at path and returns its text content,
// dispatching on the file extension
func ExtractFile(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".pdf":
		return extractPDFFile(path)
	case ".txt", ".md":
		content, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}

		return string(content), nil
	default:
		return "", fmt.Errorf("unsupported file type %q", ext)
	}
}

// Extract returns the text content of an in-memory document, used for
// uploads that never touch disk
func Extract(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".pdf":
		return extractPDFBytes(data)
	case ".txt", ".md":
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported file type %q", ext)
	}
}

func extractPDFFile(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer file.Close()

	return readPlainText(reader)
}

func extractPDFBytes(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}

	return readPlainText(reader)
}

func readPlainText(reader *pdf.Reader) (string, error) {
	textReader, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, textReader); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}

	text := strings.TrimSpace(buf.String())
	if text == "" {
		return "", fmt.Errorf("pdf contains no extractable text")
	}

	return text, nil
}
