package extractor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSupported(t *testing.T) {
	cases := map[string]bool{
		"monograph.pdf":  true,
		"Monograph.PDF":  true,
		"notes.txt":      true,
		"interactions.md": true,
		"data.csv":       false,
		"image.png":      false,
		"noextension":    false,
	}

	for filename, want := range cases {
		if got := Supported(filename); got != want {
			t.Errorf("Supported(%q) = %v, want %v", filename, got, want)
		}
	}
}

func TestExtractPlainText(t *testing.T) {
	text, err := Extract("warfarin.txt", []byte("Warfarin is an anticoagulant."))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if text != "Warfarin is an anticoagulant." {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestExtractMarkdown(t *testing.T) {
	text, err := Extract("aspirin.md", []byte("# Aspirin\n\nAn NSAID."))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if !strings.Contains(text, "# Aspirin") {
		t.Errorf("markdown should pass through unchanged, got %q", text)
	}
}

func TestExtractUnsupportedType(t *testing.T) {
	if _, err := Extract("data.csv", []byte("a,b,c")); err == nil {
		t.Error("expected an error for an unsupported file type")
	}
}

func TestExtractInvalidPDF(t *testing.T) {
	if _, err := Extract("broken.pdf", []byte("not a pdf")); err == nil {
		t.Error("expected an error for malformed pdf bytes")
	}
}

func TestExtractFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "metformin.txt")

	if err := os.WriteFile(path, []byte("Metformin reduces hepatic glucose production."), 0o644); err != nil {
		t.Fatal(err)
	}

	text, err := ExtractFile(path)
	if err != nil {
		t.Fatalf("ExtractFile failed: %v", err)
	}

	if !strings.Contains(text, "hepatic glucose") {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestExtractFileMissing(t *testing.T) {
	if _, err := ExtractFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
