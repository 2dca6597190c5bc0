// Package grounding loads and holds the two reference documents the agent
// is allowed to answer from: a short plain-text summary and a longer
// reference document. Both load at startup or the process must not serve;
// there is no partial-success mode. The store is immutable after Load.
package grounding

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// Reference text longer than this is cut and marked, keeping the system
// instruction within reasonable model context.
const maxReferenceChars = 60000

const truncationMarker = "\n[...truncated...]"

// LoadError reports a grounding document that could not be loaded. It is
// fatal at startup; the agent may not run ungrounded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load grounding document %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Store holds the two grounding texts, read-only for the process lifetime.
type Store struct {
	summary   string
	reference string
}

// Summary returns the short summary text.
func (s *Store) Summary() string { return s.summary }

// Reference returns the extracted reference text, possibly truncated.
func (s *Store) Reference() string { return s.reference }

// Load reads both grounding documents. The summary is plain text; the
// reference is extracted from PDF when the path ends in .pdf and read as
// plain text otherwise. Either document failing to load fails the whole
// call with a *LoadError.
func Load(summaryPath, referencePath string) (*Store, error) {
	summary, err := os.ReadFile(summaryPath)
	if err != nil {
		return nil, &LoadError{Path: summaryPath, Err: err}
	}

	reference, err := loadReference(referencePath)
	if err != nil {
		return nil, err
	}
	if len(reference) > maxReferenceChars {
		// Back off to a rune boundary so the cut never splits a
		// multibyte character.
		cut := maxReferenceChars
		for cut > 0 && !utf8.RuneStart(reference[cut]) {
			cut--
		}
		reference = reference[:cut] + truncationMarker
	}

	return &Store{
		summary:   strings.TrimSpace(string(summary)),
		reference: reference,
	}, nil
}

func loadReference(path string) (string, error) {
	var text string
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		extracted, err := extractPDFText(path)
		if err != nil {
			return "", &LoadError{Path: path, Err: err}
		}
		text = extracted
	} else {
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", &LoadError{Path: path, Err: err}
		}
		text = string(raw)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", &LoadError{Path: path, Err: fmt.Errorf("document produced no text")}
	}
	return text, nil
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("text extraction failed: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("text extraction failed: %w", err)
	}
	return buf.String(), nil
}
