package util

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// accelerator markers ignored by the primary key comparison
var acceleratorReplacer = strings.NewReplacer("&", "", "_", "")

// PoKeyComparator orders catalog keys. The primary comparison ignores case
// and the accelerator markers "&" and "_"; ties are broken by an ordinal,
// case-sensitive comparison of the full keys, so the order is total.
//
// A collator is not safe for concurrent use, so each sort builds its own.
type PoKeyComparator struct {
	collator *collate.Collator
}

// NewPoKeyComparator creates a comparator.
func NewPoKeyComparator() *PoKeyComparator {
	return &PoKeyComparator{
		collator: collate.New(language.Und, collate.IgnoreCase),
	}
}

// Compare returns -1, 0 or 1.
func (c *PoKeyComparator) Compare(a, b string) int {
	if r := c.collator.CompareString(acceleratorReplacer.Replace(a), acceleratorReplacer.Replace(b)); r != 0 {
		return r
	}
	return strings.Compare(a, b)
}

// ComparePoKeys compares two logical catalog keys with a fresh PoKeyComparator.
func ComparePoKeys(a, b string) int {
	return NewPoKeyComparator().Compare(a, b)
}

// comparePoEntries orders entries by key, then by context. Remaining fields
// only serve to make the order independent of the input order.
func comparePoEntries(c *PoKeyComparator, a, b *PoEntry) int {
	if r := c.Compare(a.MsgID(), b.MsgID()); r != 0 {
		return r
	}
	if r := strings.Compare(a.MsgCtxt(), b.MsgCtxt()); r != 0 {
		return r
	}
	if r := compareStringSlices(a.AutoComments, b.AutoComments); r != 0 {
		return r
	}
	if r := compareStringSlices(a.References, b.References); r != 0 {
		return r
	}
	if r := compareStringSlices(a.UserComments, b.UserComments); r != 0 {
		return r
	}
	if r := compareStringSlices(a.Flags, b.Flags); r != 0 {
		return r
	}
	return strings.Compare(a.MsgStr(), b.MsgStr())
}

func compareStringSlices(a, b []string) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if r := strings.Compare(a[i], b[i]); r != 0 {
			return r
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// SortPoEntries stable-sorts entries by key.
func SortPoEntries(entries []*PoEntry) {
	c := NewPoKeyComparator()
	sort.SliceStable(entries, func(i, j int) bool {
		return comparePoEntries(c, entries[i], entries[j]) < 0
	})
}
