// Package content holds client-side helpers for resource content: upload
// preflight checks and terminal-friendly preview rendering.
package content

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// allowedExtensions mirrors what the ingestion endpoint accepts.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
	".md":   true,
}

// ValidateUpload checks a local file before it is sent to the server: the
// file must exist, be a regular file, and carry an allowed extension. PDFs
// are additionally opened to reject files the server would fail to parse.
func ValidateUpload(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !allowedExtensions[ext] {
		return fmt.Errorf("invalid file type %q: allowed types are PDF, DOCX, TXT, MD", ext)
	}

	if ext == ".pdf" {
		if err := checkPDF(path); err != nil {
			return fmt.Errorf("unreadable PDF: %w", err)
		}
	}
	return nil
}

func checkPDF(path string) error {
	f, r, err := pdf.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if r.NumPage() < 1 {
		return fmt.Errorf("document has no pages")
	}
	return nil
}
