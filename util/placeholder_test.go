package util

import (
	"errors"
	"strings"
	"testing"
)

func TestCheckPlaceholdersAccepted(t *testing.T) {
	tests := []struct {
		english   string
		localized string
	}{
		{"test {0} {1}", "{1} le'Test {0}"},
		{"test {0}", "{0} fell and {0} again"},
		{"first {0}; then {{0}}.", "Erst {0}; danach {{0}}"},
		{"no placeholders", "keine Platzhalter"},
		{"{0,5} items", "{0,5} éléments"},
		{"{0:N2} total", "total {0:N2}"},
		{"literal {{ and }}", "wörtlich {{ und }}"},
	}
	for _, tt := range tests {
		if err := CheckPlaceholders(tt.english, tt.localized, PlaceholderOptions{}); err != nil {
			t.Errorf("CheckPlaceholders(%q, %q) unexpected error: %v", tt.english, tt.localized, err)
		}
	}
}

func problemKinds(err error) []PlaceholderProblemKind {
	var pe *PlaceholderError
	if !errors.As(err, &pe) {
		return nil
	}
	var kinds []PlaceholderProblemKind
	for _, p := range pe.Problems {
		kinds = append(kinds, p.Kind)
	}
	return kinds
}

func hasKind(kinds []PlaceholderProblemKind, kind PlaceholderProblemKind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func TestCheckPlaceholdersRejected(t *testing.T) {
	tests := []struct {
		name      string
		english   string
		localized string
		kind      PlaceholderProblemKind
	}{
		{"bad format item", "test {0}", "test {o}", BadPlaceholder},
		{"extra argument", "test {0} {1}", "test {2} {1} {0}", ExtraArgument},
		{"missing argument", "test {0} {1} {2}", "test {0} {2}", MissingArgument},
		{"unclosed brace", "test {0}", "test {0", BraceMismatch},
		{"stray closing brace", "test {0}", "test {0} }", BraceMismatch},
		{"nested open brace", "test {0}", "test {{0} {", BraceMismatch},
		{"broken source", "test {0", "test {0}", BraceMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPlaceholders(tt.english, tt.localized, PlaceholderOptions{})
			if err == nil {
				t.Fatal("expected error")
			}
			if kinds := problemKinds(err); !hasKind(kinds, tt.kind) {
				t.Errorf("expected %s, got %v (%v)", tt.kind, kinds, err)
			}
		})
	}
}

func TestCheckPlaceholdersReportsAllProblems(t *testing.T) {
	err := CheckPlaceholders("{0} {1} {2}", "{o} {3} }", PlaceholderOptions{})
	kinds := problemKinds(err)
	for _, want := range []PlaceholderProblemKind{BadPlaceholder, BraceMismatch, MissingArgument, ExtraArgument} {
		if !hasKind(kinds, want) {
			t.Errorf("expected %s among %v", want, kinds)
		}
	}
	var pe *PlaceholderError
	if !errors.As(err, &pe) {
		t.Fatal("expected *PlaceholderError")
	}
	missing := 0
	for _, p := range pe.Problems {
		if p.Kind == MissingArgument {
			missing++
		}
	}
	if missing != 3 {
		t.Errorf("expected 3 missing arguments, got %d", missing)
	}
}

func TestCheckPlaceholdersOptional(t *testing.T) {
	opts := PlaceholderOptions{Optional: []int{2}}
	if err := CheckPlaceholders("test {0} {1} {2}", "test {0} {1}", opts); err != nil {
		t.Errorf("optional argument may be removed: %v", err)
	}
	if err := CheckPlaceholders("test {0}", "test {0} {2}", opts); err == nil {
		t.Error("optional argument must not be added")
	}
}

func TestPlaceholderErrorMessage(t *testing.T) {
	err := CheckPlaceholders("test {0}", "test {o}", PlaceholderOptions{})
	msg := err.Error()
	for _, want := range []string{`"test {0}"`, `"test {o}"`, "invalid format item \"{o}\"", "{0} is missing"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message %q should contain %q", msg, want)
		}
	}
}

func TestCheckCatalogPlaceholders(t *testing.T) {
	po := `msgid "ok {0}"
msgstr "bien {0}"

msgid "bad {0}"
msgstr "mal {1}"

msgid "untranslated {0}"
msgstr ""

#, fuzzy
msgid "fuzzy {0}"
msgstr "flou"
`
	catalog, err := ParsePoCatalog([]byte(po))
	if err != nil {
		t.Fatal(err)
	}
	reports := CheckCatalogPlaceholders(catalog, PlaceholderOptions{})
	if len(reports) != 1 {
		t.Fatalf("expected 1 report, got %d", len(reports))
	}
	if reports[0].Entry.MsgID() != "bad {0}" {
		t.Errorf("unexpected entry: %q", reports[0].Entry.MsgID())
	}
	if kinds := problemKinds(reports[0].Err); len(kinds) != 2 {
		t.Errorf("expected missing and extra problems, got %v", kinds)
	}
}
