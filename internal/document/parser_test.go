package document

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
)

func createTempFile(t *testing.T, content, ext string) string {
	path := filepath.Join(t.TempDir(), "adgm-test"+ext)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}

func createTempPDF(t *testing.T, text string) string {
	path := filepath.Join(t.TempDir(), "adgm-test.pdf")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create temp PDF file: %v", err)
	}
	defer file.Close()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "", 12)
	pdf.MultiCell(0, 10, text, "", "", false)
	if err := pdf.Output(file); err != nil {
		t.Fatalf("Failed to write PDF: %v", err)
	}
	return path
}

func TestPlainTextParser(t *testing.T) {
	content := "Employment contracts in ADGM must be in writing.\nSecond line."
	file := createTempFile(t, content, ".txt")

	parser := NewPlainTextParser()
	text, err := parser.Parse(file)
	if err != nil {
		t.Fatalf("PlainTextParser.Parse failed: %v", err)
	}
	if !strings.Contains(text, "must be in writing") {
		t.Errorf("Expected content not found in parsed text: %s", text)
	}
}

func TestMarkdownParser(t *testing.T) {
	content := "# Incorporation Guide\n\nThis is a **markdown** guide.\n\n- Articles of Association\n- UBO Declaration"
	file := createTempFile(t, content, ".md")

	parser := NewMarkdownParser()
	text, err := parser.Parse(file)
	if err != nil {
		t.Fatalf("MarkdownParser.Parse failed: %v", err)
	}
	if !strings.Contains(text, "markdown guide") {
		t.Errorf("Expected content not found in parsed text: %s", text)
	}
	if !strings.Contains(text, "Articles of Association") {
		t.Errorf("Expected list item not found in parsed text: %s", text)
	}
}

func TestPDFParser(t *testing.T) {
	content := "This resolution was passed by the board.\nSecond line."
	file := createTempPDF(t, content)

	parser := NewPDFParser()
	text, err := parser.Parse(file)
	if err != nil {
		t.Fatalf("PDFParser.Parse failed: %v", err)
	}
	if !strings.Contains(text, "passed by the board") {
		t.Errorf("Expected content not found in parsed PDF text: %s", text)
	}
}

func TestParserFactory(t *testing.T) {
	txtFile := createTempFile(t, "plain text", ".txt")
	mdFile := createTempFile(t, "# Markdown", ".md")
	pdfFile := createTempPDF(t, "PDF content")

	tests := []struct {
		file     string
		expected string
	}{
		{txtFile, "plain text"},
		{mdFile, "Markdown"},
		{pdfFile, "PDF content"},
	}

	for _, tt := range tests {
		parser, err := ParserFactory(tt.file)
		if err != nil {
			t.Fatalf("ParserFactory failed for %s: %v", tt.file, err)
		}
		text, err := parser.Parse(tt.file)
		if err != nil {
			t.Fatalf("Parser.Parse failed for %s: %v", tt.file, err)
		}
		if !strings.Contains(text, tt.expected) {
			t.Errorf("Expected '%s' in parsed text, got: %s", tt.expected, text)
		}
	}
}

func TestParserFactoryUnsupported(t *testing.T) {
	if _, err := ParserFactory("image.png"); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("Expected ErrUnsupportedType for unsupported file type, got %v", err)
	}
}

func TestParserFactoryDocx(t *testing.T) {
	parser, err := ParserFactory("contract.docx")
	if err != nil {
		t.Fatalf("ParserFactory failed for docx: %v", err)
	}
	if _, ok := parser.(*DocxParser); !ok {
		t.Errorf("Expected *DocxParser, got %T", parser)
	}
}

func TestDetectContentType(t *testing.T) {
	tests := []struct {
		file     string
		expected ContentType
	}{
		{"resolution.pdf", PDF},
		{"contract.docx", Docx},
		{"contract.DOCX", Docx},
		{"guide.md", Markdown},
		{"notes.markdown", Markdown},
		{"plain.txt", PlainText},
		{"image.png", Unknown},
	}

	for _, tt := range tests {
		if got := DetectContentType(tt.file); got != tt.expected {
			t.Errorf("DetectContentType(%s) = %v, want %v", tt.file, got, tt.expected)
		}
	}
}
