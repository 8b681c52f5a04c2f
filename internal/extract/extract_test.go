package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"
)

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Alex Doe</w:t></w:r></w:p>
<w:p><w:r><w:t>Skills</w:t></w:r></w:p>
<w:p><w:r><w:t>Go</w:t><w:tab/><w:t>Kafka</w:t></w:r><w:r><w:br/><w:t>SQL</w:t></w:r></w:p>
</w:body>
</w:document>`

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip entry: %v", err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("write zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractTextFromBytes_Docx(t *testing.T) {
	data := buildZip(t, map[string]string{"word/document.xml": documentXML})

	got, err := ExtractTextFromBytes(context.Background(), data, MimeDOCX, "cv.docx")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	want := "Alex Doe\nSkills\nGo Kafka\nSQL"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestExtractTextFromBytes_ZipDocxNormalizes(t *testing.T) {
	data := buildZip(t, map[string]string{"word/document.xml": documentXML})

	if _, err := ExtractTextFromBytes(context.Background(), data, "application/zip", "upload"); err != nil {
		t.Fatalf("expected docx to extract from zip mime, got error: %v", err)
	}
	if got := DetectType("application/octet-stream", "", data); got != MimeDOCX {
		t.Fatalf("detect: got %q", got)
	}
}

func TestExtractTextFromBytes_RealZipRejected(t *testing.T) {
	data := buildZip(t, map[string]string{"notes.txt": "hello"})

	_, err := ExtractTextFromBytes(context.Background(), data, "application/zip", "notes.zip")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestExtractTextFromBytes_Text(t *testing.T) {
	data := []byte("\xef\xbb\xbfAlex Doe\nBackend engineer")

	got, err := ExtractTextFromBytes(context.Background(), data, "text/plain; charset=utf-8", "")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != "Alex Doe\nBackend engineer" {
		t.Fatalf("got %q", got)
	}
}

func TestExtractTextFromBytes_InvalidUTF8Replaced(t *testing.T) {
	got, err := ExtractTextFromBytes(context.Background(), []byte("caf\xe9 owner"), "", "cv.txt")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != "caf� owner" {
		t.Fatalf("got %q", got)
	}
}

func TestExtractTextFromBytes_Empty(t *testing.T) {
	if _, err := ExtractTextFromBytes(context.Background(), nil, MimeText, "cv.txt"); !errors.Is(err, ErrEmpty) {
		t.Fatalf("nil payload: got %v", err)
	}
	if _, err := ExtractTextFromBytes(context.Background(), []byte(" \n\t"), MimeText, "cv.txt"); !errors.Is(err, ErrEmpty) {
		t.Fatalf("blank payload: got %v", err)
	}
}

func TestExtractTextFromBytes_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ExtractTextFromBytes(ctx, []byte("text"), MimeText, ""); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v", err)
	}
}

func TestDetectType(t *testing.T) {
	tests := []struct {
		name     string
		mime     string
		fileName string
		data     []byte
		want     string
	}{
		{"declared pdf", "application/pdf", "", nil, MimePDF},
		{"declared with params", "Text/Plain; charset=utf-8", "", nil, MimeText},
		{"extension", "", "CV.PDF", nil, MimePDF},
		{"markdown", "", "cv.md", nil, MimeText},
		{"sniffed pdf", "", "", []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n"), MimePDF},
		{"other declared", "image/png", "photo", []byte("x"), "image/png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectType(tt.mime, tt.fileName, tt.data); got != tt.want {
				t.Fatalf("got %q want %q", got, tt.want)
			}
		})
	}
}
