// Package ingest turns an uploaded document into plain UTF-8 text for the
// narrative engine. PDFs are extracted page by page; anything text-like
// passes through unchanged.
package ingest

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

// Document is the ingestion result handed to the session.
type Document struct {
	Name string // base name of the uploaded file
	Text string // extracted UTF-8 text
}

// IngestError reports a document that could not be decoded (locked PDF,
// binary file, unreadable path).
type IngestError struct {
	Name string
	Err  error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("ingest %s: %v", e.Name, e.Err)
}

func (e *IngestError) Unwrap() error { return e.Err }

// File reads and ingests the document at path.
func File(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IngestError{Name: path, Err: err}
	}
	name := baseName(path)
	return Bytes(name, data)
}

// Bytes ingests a document from raw bytes. The MIME type is sniffed from
// the content; the name is kept for display and event logging only.
func Bytes(name string, data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, &IngestError{Name: name, Err: fmt.Errorf("empty file")}
	}

	mtype := mimetype.Detect(data)
	switch {
	case mtype.Is("application/pdf"):
		text, err := extractPDF(data)
		if err != nil {
			return nil, &IngestError{Name: name, Err: err}
		}
		return &Document{Name: name, Text: text}, nil

	case isTextLike(mtype, data):
		return &Document{Name: name, Text: string(data)}, nil

	default:
		return nil, &IngestError{Name: name, Err: fmt.Errorf("unsupported content type %s", mtype.String())}
	}
}

// extractPDF pulls the text of every page, with a "--- Page N ---" header
// per page (1-indexed) and a blank line between pages.
func extractPDF(data []byte) (text string, err error) {
	// The pdf library panics on some malformed inputs; convert that to
	// an ordinary parse error.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse PDF: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", i, err)
		}
		fmt.Fprintf(&b, "--- Page %d ---\n%s\n\n", i, pageText)
	}

	return b.String(), nil
}

// isTextLike accepts anything the sniffer classifies under text/* plus
// valid UTF-8 content with an unrecognized extension (source code, JSON).
func isTextLike(mtype *mimetype.MIME, data []byte) bool {
	for m := mtype; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "text/") {
			return true
		}
		if m.Is("application/json") || m.Is("application/javascript") {
			return true
		}
	}
	return utf8.Valid(data) && !bytes.ContainsRune(data, 0)
}

func baseName(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
