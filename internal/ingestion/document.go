// Package ingestion validates uploaded project documents and prepares them
// for extraction: text formats are cleaned locally, binary formats are
// passed through for the inference provider to read.
package ingestion

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mnp/taskmatch/internal/extraction"
	"github.com/mnp/taskmatch/internal/types"
)

// MaxDocumentBytes caps uploaded document size.
const MaxDocumentBytes = 10 << 20

// mimeTypes maps supported binary extensions to the MIME type the inference
// provider expects.
var mimeTypes = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// textExtensions are formats read and cleaned locally.
var textExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".json": true,
	".xml":  true,
	".html": true,
	".htm":  true,
}

// Prepare validates an uploaded document and converts it into an extraction
// input. Text formats become cleaned text; PDF and DOCX stay binary with
// their MIME type attached. Unsupported or oversized documents are rejected.
func Prepare(filename string, data []byte) (extraction.Input, error) {
	if len(data) == 0 {
		return extraction.Input{}, &types.ValidationError{Field: "document", Message: "document is empty"}
	}
	if len(data) > MaxDocumentBytes {
		return extraction.Input{}, &types.ValidationError{
			Field:   "document",
			Message: fmt.Sprintf("document exceeds %d byte limit", MaxDocumentBytes),
		}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if mime, ok := mimeTypes[ext]; ok {
		return extraction.Input{Document: data, MIMEType: mime}, nil
	}
	if !textExtensions[ext] {
		return extraction.Input{}, &types.ValidationError{
			Field:   "filename",
			Message: fmt.Sprintf("unsupported document type %q", ext),
		}
	}

	text := string(data)
	if ext == ".html" || ext == ".htm" {
		extracted, err := htmlToText(data)
		if err != nil {
			return extraction.Input{}, &types.ValidationError{Field: "document", Message: "document is not parseable HTML"}
		}
		text = extracted
	}

	cleaned := CleanText(text)
	if cleaned == "" {
		return extraction.Input{}, &types.ValidationError{Field: "document", Message: "document has no textual content"}
	}
	return extraction.Input{Text: cleaned}, nil
}

// htmlToText strips markup and scripts, keeping readable text with line
// breaks between block elements.
func htmlToText(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	doc.Find("script, style, noscript, nav, footer, .sidebar, .cookie-banner").Remove()

	var sb strings.Builder
	doc.Find("h1, h2, h3, h4, h5, h6, p, li, td, th, pre, blockquote").Each(func(_ int, sel *goquery.Selection) {
		line := strings.TrimSpace(sel.Text())
		if line != "" {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	})

	// Pages without block structure still get their raw text.
	if sb.Len() == 0 {
		return strings.TrimSpace(doc.Text()), nil
	}
	return sb.String(), nil
}
