package util

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestComparePoKeys(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"apple", "Banana", -1},
		{"Banana", "apple", 1},
		{"&Open", "Open", -1},
		{"Open", "&Open", 1},
		{"open", "Open", 1},
		{"_File", "Edit", 1},
		{"E&xit", "Exit", -1},
		{"same", "same", 0},
	}
	for _, tt := range tests {
		if got := ComparePoKeys(tt.a, tt.b); got != tt.want {
			t.Errorf("ComparePoKeys(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func entryIDs(entries []*PoEntry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.MsgID())
	}
	return ids
}

func TestSortPoEntries(t *testing.T) {
	entries := []*PoEntry{
		NewPoEntry("Banana"),
		NewPoEntry("&apple"),
		NewPoEntry("cherry"),
		NewPoEntry("Apple"),
	}
	SortPoEntries(entries)
	want := []string{"&apple", "Apple", "Banana", "cherry"}
	if diff := cmp.Diff(want, entryIDs(entries)); diff != "" {
		t.Errorf("sort order mismatch (-want +got):\n%s", diff)
	}
}

func newExtracted(msgid string, comments ...string) *PoEntry {
	e := NewPoEntry(msgid)
	e.AutoComments = comments
	return e
}

func TestMergeDuplicates(t *testing.T) {
	translated := newExtracted("Open", "c.xml::/y/@label")
	translated.UserComments = []string{"note"}
	translated.SetMsgStr("Ouvrir")

	entries := []*PoEntry{
		newExtracted("Open", "a.xml::/x/@label"),
		newExtracted("Close", "b.xml::/z/@label"),
		translated,
		newExtracted("Open", "a.xml::/x/@label"),
	}
	merged := MergeDuplicates(entries)

	if diff := cmp.Diff([]string{"Close", "Open"}, entryIDs(merged)); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	want := &PoEntry{
		IDLines:      []string{"Open"},
		StrLines:     []string{"Ouvrir"},
		UserComments: []string{"note"},
		AutoComments: []string{"(String used 3 times.)", "a.xml::/x/@label", "c.xml::/y/@label"},
	}
	if diff := cmp.Diff(want, merged[1]); diff != "" {
		t.Errorf("merged entry mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b.xml::/z/@label"}, merged[0].AutoComments); diff != "" {
		t.Errorf("single entry should be untouched (-want +got):\n%s", diff)
	}
}

func TestMergeDuplicatesBoundsComments(t *testing.T) {
	var entries []*PoEntry
	for i := 0; i < 6; i++ {
		entries = append(entries, newExtracted("Label", fmt.Sprintf("f%d.xml::/a/@label", i)))
	}
	merged := MergeDuplicates(entries)
	if len(merged) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(merged))
	}
	want := []string{
		"(String used 6 times.)",
		"f0.xml::/a/@label",
		"f1.xml::/a/@label",
		"f2.xml::/a/@label",
		"f3.xml::/a/@label",
	}
	if diff := cmp.Diff(want, merged[0].AutoComments); diff != "" {
		t.Errorf("auto comments mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeDuplicatesAccumulatesUsage(t *testing.T) {
	previous := newExtracted("Label", "(String used 3 times.)", "f0.xml::/a/@label")
	merged := MergeDuplicates([]*PoEntry{previous, newExtracted("Label", "g.xml::/b/@label")})
	if len(merged) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(merged))
	}
	if got := merged[0].AutoComments[0]; got != "(String used 4 times.)" {
		t.Errorf("usage comment = %q, want %q", got, "(String used 4 times.)")
	}
}

func TestMergeDuplicatesKeepsContextsApart(t *testing.T) {
	a := NewPoEntry("Open")
	b := NewPoEntry("Open")
	b.Context = []string{"menu"}
	merged := MergeDuplicates([]*PoEntry{b, a})
	if len(merged) != 2 {
		t.Fatalf("entries with different contexts must not merge, got %d", len(merged))
	}
}

func TestMergeDuplicatesIdempotentAndOrderIndependent(t *testing.T) {
	build := func() []*PoEntry {
		return []*PoEntry{
			newExtracted("&File", "m.xml::/menu/@label"),
			newExtracted("File", "n.xml::/x/@label"),
			newExtracted("File", "o.xml::/y/@label"),
			newExtracted("Edit", "m.xml::/edit/@label"),
			newExtracted("File", "n.xml::/x/@label"),
			newExtracted("file", "p.xml::/z/@label"),
		}
	}

	once := MergeDuplicates(build())
	twice := MergeDuplicates(append([]*PoEntry(nil), once...))
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("merge is not idempotent (-once +twice):\n%s", diff)
	}

	reversed := build()
	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}
	if diff := cmp.Diff(once, MergeDuplicates(reversed)); diff != "" {
		t.Errorf("merge depends on input order (-forward +reversed):\n%s", diff)
	}

	want := []string{"Edit", "&File", "File", "file"}
	if diff := cmp.Diff(want, entryIDs(once)); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestMergedCatalogRoundTrip(t *testing.T) {
	catalog := &PoCatalog{
		Entries: MergeDuplicates([]*PoEntry{
			newExtracted("Two\nlines", "a::/x/@label"),
			newExtracted("Two\nlines", "b::/y/@label"),
			newExtracted("Say \"hi\"", "c::/z/lit"),
		}),
	}
	reread, err := ParsePoCatalog(BuildPoContent(catalog))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(catalog.Entries, reread.Entries); diff != "" {
		t.Errorf("round-trip mismatch (-want +got):\n%s", diff)
	}
}
