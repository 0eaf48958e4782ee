package util

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

// PoReportStats holds statistics for a PO file.
type PoReportStats struct {
	Translated   int // Entries with non-empty translation, not fuzzy, not same as msgid
	Untranslated int // Entries with empty msgstr
	Same         int // Entries where msgstr equals msgid (suspect untranslated)
	Fuzzy        int // Entries with fuzzy flag
	Obsolete     int // Obsolete entries (#~ format)
}

// Total returns the number of live entries counted.
func (s *PoReportStats) Total() int {
	return s.Translated + s.Untranslated + s.Same + s.Fuzzy
}

// CountPoCatalogStats returns entry statistics for a parsed catalog.
func CountPoCatalogStats(catalog *PoCatalog) *PoReportStats {
	stats := &PoReportStats{Obsolete: catalog.Obsolete}
	for _, e := range catalog.Entries {
		msgstr := e.MsgStr()
		switch {
		case e.IsFuzzy():
			stats.Fuzzy++
		case msgstr == "":
			stats.Untranslated++
		case msgstr == e.MsgID():
			stats.Same++
		default:
			stats.Translated++
		}
	}
	return stats
}

// CountPoReportStats reads a PO file and returns entry statistics.
func CountPoReportStats(poFile string) (*PoReportStats, error) {
	catalog, err := ReadPoCatalogFile(poFile)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", poFile, err)
	}
	return CountPoCatalogStats(catalog), nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}

// FormatStatLine formats stats in one line, similar to msgfmt --statistics,
// but also includes same and obsolete. Only non-zero categories are shown.
func FormatStatLine(stats *PoReportStats) string {
	var parts []string
	if stats.Translated > 0 {
		parts = append(parts, plural(stats.Translated, "translated message", "translated messages"))
	}
	if stats.Fuzzy > 0 {
		parts = append(parts, plural(stats.Fuzzy, "fuzzy translation", "fuzzy translations"))
	}
	if stats.Untranslated > 0 {
		parts = append(parts, plural(stats.Untranslated, "untranslated message", "untranslated messages"))
	}
	if stats.Same > 0 {
		parts = append(parts, plural(stats.Same, "same message", "same messages"))
	}
	if stats.Obsolete > 0 {
		parts = append(parts, plural(stats.Obsolete, "obsolete entry", "obsolete entries"))
	}
	if len(parts) == 0 {
		return "0 translated messages.\n"
	}
	return strings.Join(parts, ", ") + ".\n"
}

// ResultSummary condenses a localization result report written by the
// localize command.
type ResultSummary struct {
	Locale      string
	Projects    int
	Diagnostics int
	ByKind      map[string]int
}

// Kinds returns the diagnostic kinds in sorted order.
func (s *ResultSummary) Kinds() []string {
	kinds := make([]string, 0, len(s.ByKind))
	for k := range s.ByKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// SummarizeResultJSON extracts a summary from a localization result report.
// Unknown fields are ignored so reports from newer versions remain readable.
func SummarizeResultJSON(data []byte) (*ResultSummary, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid result JSON")
	}
	summary := &ResultSummary{
		Locale:   gjson.GetBytes(data, "locale").String(),
		Projects: int(gjson.GetBytes(data, "projects.#").Int()),
		ByKind:   make(map[string]int),
	}
	gjson.GetBytes(data, "diagnostics").ForEach(func(_, value gjson.Result) bool {
		summary.Diagnostics++
		kind := value.Get("kind").String()
		if kind == "" {
			kind = "unknown"
		}
		summary.ByKind[kind]++
		return true
	})
	return summary, nil
}

// SummarizeResultFile reads and summarizes a result report on disk.
func SummarizeResultFile(path string) (*ResultSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return SummarizeResultJSON(data)
}
