// Package pdftext extracts plain text from PDF bytes. Extraction is strictly
// best-effort: malformed, encrypted, or image-only input degrades to the
// empty string and no failure ever escapes to the caller.
package pdftext

import (
	"bytes"
	"log/slog"

	"github.com/ledongthuc/pdf"
)

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// Extract walks the document page by page and concatenates page text in
// document order with no separator. A page that cannot be decoded contributes
// nothing. The underlying parser panics on some malformed inputs, so the
// whole walk runs behind a recover.
func (e *Extractor) Extract(data []byte) (text string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("pdf extraction panic", "reason", r)
			text = ""
		}
	}()

	if len(data) == 0 {
		return ""
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}

	var builder bytes.Buffer
	for i := 1; i <= reader.NumPage(); i++ {
		builder.WriteString(extractPage(reader, i))
	}
	return builder.String()
}

func extractPage(reader *pdf.Reader, number int) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	page := reader.Page(number)
	if page.V.IsNull() {
		return ""
	}
	pageText, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return pageText
}
