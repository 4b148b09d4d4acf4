package pdftext

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

func TestExtractEmptyInput(t *testing.T) {
	if got := New().Extract(nil); got != "" {
		t.Fatalf("expected empty string for nil input, got %q", got)
	}
	if got := New().Extract([]byte{}); got != "" {
		t.Fatalf("expected empty string for empty input, got %q", got)
	}
}

func TestExtractCorruptInputNeverFails(t *testing.T) {
	inputs := [][]byte{
		[]byte("this is not a pdf at all"),
		[]byte("%PDF-1.4"),
		[]byte("%PDF-1.4\n1 0 obj\n<< garbage"),
		bytes.Repeat([]byte{0x00, 0xff}, 512),
	}
	for i, input := range inputs {
		got := New().Extract(input)
		if got != "" {
			t.Fatalf("input %d: expected empty string, got %q", i, got)
		}
	}
}

func TestExtractTruncatedDocument(t *testing.T) {
	valid := buildPDF(t, "Hello World")
	truncated := valid[:len(valid)/2]

	if got := New().Extract(truncated); got != "" {
		t.Fatalf("expected empty string for truncated pdf, got %q", got)
	}
}

func TestExtractSinglePageText(t *testing.T) {
	data := buildPDF(t, "Hello World")

	got := New().Extract(data)
	if !strings.Contains(got, "Hello World") {
		t.Fatalf("expected extracted text to contain %q, got %q", "Hello World", got)
	}
}

// buildPDF assembles a minimal one-page PDF with an uncompressed content
// stream. Object offsets are computed while writing so the xref table stays
// correct for any text.
func buildPDF(t *testing.T, text string) []byte {
	t.Helper()

	var buf bytes.Buffer
	var offsets []int
	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		buf.WriteString(body)
	}

	buf.WriteString("%PDF-1.4\n")
	writeObj("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	writeObj("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	writeObj("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] " +
		"/Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>\nendobj\n")
	stream := fmt.Sprintf("BT /F1 24 Tf 72 712 Td (%s) Tj ET", text)
	writeObj(fmt.Sprintf("4 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(stream), stream))
	writeObj("5 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n")

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, offset := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offset)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)

	return buf.Bytes()
}
