package filings

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"mdna_extractor/pkg/core/utils"
	"mdna_extractor/pkg/models"
)

// Writer persists successful extractions, one file per filing, under a
// single output directory.
type Writer struct {
	// Dir is the output directory. Created on first write if missing.
	Dir string

	// Markdown switches output to .md files with a heading block instead
	// of the plain-text header.
	Markdown bool
}

// NewWriter returns a writer for the given directory.
func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir}
}

const headerRule = "============================================================"

// Write persists one successful extraction and returns the output path.
func (w *Writer) Write(result models.ExtractionResult) (string, error) {
	if !result.Success {
		return "", fmt.Errorf("refusing to write failed result for %s", result.Filing.ID())
	}
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", w.Dir, err)
	}

	path := filepath.Join(w.Dir, w.fileName(result.Filing))

	var content string
	if w.Markdown {
		content = w.renderMarkdown(result)
		if !utils.ValidateMarkdown(content) {
			log.Printf("[WARNING] markdown output for %s failed validation, writing anyway", result.Filing.ID())
		}
	} else {
		content = w.renderText(result)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// fileName builds CIK_<cik>_<yyyymmdd>_MDA.<ext>.
func (w *Writer) fileName(f models.Filing) string {
	date := "unknown"
	if !f.FilingDate.IsZero() {
		date = f.FilingDate.Format("20060102")
	}
	cik := f.CIK
	if cik == "" {
		cik = "unknown"
	}
	ext := ".txt"
	if w.Markdown {
		ext = ".md"
	}
	return fmt.Sprintf("CIK_%s_%s_MDA%s", cik, date, ext)
}

// renderText produces the plain-text output: a fixed header block, a rule
// line, then the extracted section verbatim.
func (w *Writer) renderText(result models.ExtractionResult) string {
	var b strings.Builder
	b.WriteString("EXTRACTED MD&A SECTION\n")
	fmt.Fprintf(&b, "CIK: %s\n", result.Filing.CIK)
	fmt.Fprintf(&b, "Company: %s\n", result.Filing.CompanyName)
	fmt.Fprintf(&b, "Filing Date: %s\n", formatDate(result.Filing))
	fmt.Fprintf(&b, "Form Type: %s\n", result.Filing.FormType)
	b.WriteString(headerRule + "\n")
	b.WriteString(result.Text)
	b.WriteString("\n")
	return b.String()
}

// renderMarkdown produces the same content with a Markdown metadata block.
func (w *Writer) renderMarkdown(result models.ExtractionResult) string {
	var b strings.Builder
	b.WriteString("# Extracted MD&A Section\n\n")
	fmt.Fprintf(&b, "- **CIK**: %s\n", result.Filing.CIK)
	fmt.Fprintf(&b, "- **Company**: %s\n", result.Filing.CompanyName)
	fmt.Fprintf(&b, "- **Filing Date**: %s\n", formatDate(result.Filing))
	fmt.Fprintf(&b, "- **Form Type**: %s\n\n", result.Filing.FormType)
	b.WriteString("---\n\n")
	b.WriteString(result.Text)
	b.WriteString("\n")
	return b.String()
}

func formatDate(f models.Filing) string {
	if f.FilingDate.IsZero() {
		return ""
	}
	return f.FilingDate.Format("2006-01-02")
}
