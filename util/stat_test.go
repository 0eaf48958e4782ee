package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCountPoReportStats(t *testing.T) {
	poContent := `# SOME DESCRIPTIVE TITLE.
msgid ""
msgstr ""
"Content-Type: text/plain; charset=UTF-8\n"

# Translated
msgid "Hello"
msgstr "你好"

# Untranslated
msgid "World"
msgstr ""

# Same as msgid (suspect)
msgid "File"
msgstr "File"

# Fuzzy
#, fuzzy
msgid "Fuzzy entry"
msgstr "模糊"

# Another translated
msgid "Good"
msgstr "好"

#~ msgid "Obsolete entry"
#~ msgstr ""
`

	tmpDir := t.TempDir()
	poFile := filepath.Join(tmpDir, "test.po")
	if err := os.WriteFile(poFile, []byte(poContent), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	stats, err := CountPoReportStats(poFile)
	if err != nil {
		t.Fatalf("CountPoReportStats failed: %v", err)
	}

	if stats.Translated != 2 {
		t.Errorf("translated: want 2, got %d", stats.Translated)
	}
	if stats.Untranslated != 1 {
		t.Errorf("untranslated: want 1, got %d", stats.Untranslated)
	}
	if stats.Same != 1 {
		t.Errorf("same: want 1, got %d", stats.Same)
	}
	if stats.Fuzzy != 1 {
		t.Errorf("fuzzy: want 1, got %d", stats.Fuzzy)
	}
	if stats.Obsolete != 1 {
		t.Errorf("obsolete: want 1, got %d", stats.Obsolete)
	}
}

func TestFormatStatLine(t *testing.T) {
	tests := []struct {
		stats PoReportStats
		want  string
	}{
		{PoReportStats{}, "0 translated messages.\n"},
		{PoReportStats{Translated: 1}, "1 translated message.\n"},
		{PoReportStats{Translated: 3, Fuzzy: 1, Untranslated: 2}, "3 translated messages, 1 fuzzy translation, 2 untranslated messages.\n"},
		{PoReportStats{Same: 2, Obsolete: 1}, "2 same messages, 1 obsolete entry.\n"},
	}
	for _, tt := range tests {
		if got := FormatStatLine(&tt.stats); got != tt.want {
			t.Errorf("FormatStatLine(%+v) = %q, want %q", tt.stats, got, tt.want)
		}
	}
}

func TestSummarizeResultJSON(t *testing.T) {
	data := []byte(`{
  "locale": "fr",
  "projects": ["A", "B"],
  "diagnostics": [
    {"kind": "placeholder-mismatch", "file": "a.po", "id": "x"},
    {"kind": "placeholder-mismatch", "file": "a.po", "id": "y"},
    {"kind": "missing-resource", "file": "b.resx"},
    {"file": "c"}
  ],
  "extra": true
}`)
	summary, err := SummarizeResultJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Locale != "fr" || summary.Projects != 2 || summary.Diagnostics != 4 {
		t.Errorf("unexpected summary: %+v", summary)
	}
	if summary.ByKind["placeholder-mismatch"] != 2 || summary.ByKind["unknown"] != 1 {
		t.Errorf("unexpected kinds: %v", summary.ByKind)
	}
	kinds := summary.Kinds()
	if len(kinds) != 3 || kinds[0] != "missing-resource" {
		t.Errorf("Kinds() = %v", kinds)
	}

	if _, err := SummarizeResultJSON([]byte("{not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
