package util

import (
	"fmt"
	"regexp"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// MaxIllustrativeComments bounds the provenance comments kept on a merged entry.
const MaxIllustrativeComments = 4

var reUsageComment = regexp.MustCompile(`^\(String used (\d+) times\.\)$`)

// UsageComment returns the auto comment recording how often a string is used.
func UsageComment(n int) string {
	return fmt.Sprintf("(String used %d times.)", n)
}

// entryUsage returns the number of sources an entry stands for: the count
// of a previous merge if it carries a usage comment, otherwise 1.
func entryUsage(e *PoEntry) int {
	for _, c := range e.AutoComments {
		if m := reUsageComment.FindStringSubmatch(c); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				return n
			}
		}
	}
	return 1
}

func samePoKey(a, b *PoEntry) bool {
	return a.MsgID() == b.MsgID() && a.MsgCtxt() == b.MsgCtxt()
}

// MergeDuplicates sorts entries by key and coalesces entries sharing the
// same logical key. Comments, references and flags of duplicates are
// unioned in first-seen order, the first non-empty translation wins, and
// the auto comments are replaced with a usage comment followed by at most
// MaxIllustrativeComments of the original provenance comments.
//
// Entries without duplicates are returned unchanged, so merging an already
// merged catalog is a no-op.
func MergeDuplicates(entries []*PoEntry) []*PoEntry {
	SortPoEntries(entries)

	result := make([]*PoEntry, 0, len(entries))
	for i := 0; i < len(entries); {
		j := i + 1
		for j < len(entries) && samePoKey(entries[i], entries[j]) {
			j++
		}
		if j-i == 1 {
			result = append(result, entries[i])
		} else {
			result = append(result, mergePoEntries(entries[i:j]))
		}
		i = j
	}
	if n := len(entries) - len(result); n > 0 {
		log.Debugf("merged %d duplicate entries", n)
	}
	return result
}

func mergePoEntries(dups []*PoEntry) *PoEntry {
	merged := dups[0].Clone()
	merged.UserComments = nil
	merged.References = nil
	merged.Flags = nil
	merged.AutoComments = nil

	var (
		usage        int
		illustrative []string
		seenComments = make(map[string]bool)
	)
	for _, e := range dups {
		usage += entryUsage(e)
		if merged.MsgStr() == "" && e.MsgStr() != "" {
			merged.StrLines = cloneStrings(e.StrLines)
		}
		merged.UserComments = unionStrings(merged.UserComments, e.UserComments)
		merged.References = unionStrings(merged.References, e.References)
		merged.Flags = unionStrings(merged.Flags, e.Flags)
		for _, c := range e.AutoComments {
			if reUsageComment.MatchString(c) || seenComments[c] {
				continue
			}
			seenComments[c] = true
			if len(illustrative) < MaxIllustrativeComments {
				illustrative = append(illustrative, c)
			}
		}
	}

	if usage > 1 {
		merged.AutoComments = append([]string{UsageComment(usage)}, illustrative...)
	} else if len(illustrative) > 0 {
		merged.AutoComments = illustrative
	}
	return merged
}

// unionStrings appends the items of add not already in list. The result is
// nil when both are empty.
func unionStrings(list, add []string) []string {
	for _, s := range add {
		found := false
		for _, t := range list {
			if s == t {
				found = true
				break
			}
		}
		if !found {
			list = append(list, s)
		}
	}
	return list
}
