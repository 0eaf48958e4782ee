package util

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// PlaceholderProblemKind classifies a placeholder problem.
type PlaceholderProblemKind int

// Kinds of placeholder problems.
const (
	BraceMismatch PlaceholderProblemKind = iota
	BadPlaceholder
	MissingArgument
	ExtraArgument
)

func (k PlaceholderProblemKind) String() string {
	switch k {
	case BraceMismatch:
		return "brace mismatch"
	case BadPlaceholder:
		return "bad placeholder"
	case MissingArgument:
		return "missing argument"
	case ExtraArgument:
		return "extra argument"
	}
	return "unknown"
}

// PlaceholderProblem is one violation found in a string pair.
type PlaceholderProblem struct {
	Kind PlaceholderProblemKind
	// Localized is true when the problem is in the localized string.
	Localized bool
	// Offset is the byte offset of a brace or format item, -1 for argument
	// set problems.
	Offset int
	// Index is the argument index for missing/extra problems.
	Index int
	// Token is the offending format item, if any.
	Token string
}

func (p PlaceholderProblem) String() string {
	which := "source"
	if p.Localized {
		which = "translation"
	}
	switch p.Kind {
	case BraceMismatch:
		return fmt.Sprintf("%s: unbalanced brace in %s at offset %d", p.Kind, which, p.Offset)
	case BadPlaceholder:
		return fmt.Sprintf("%s: invalid format item %q in %s at offset %d", p.Kind, p.Token, which, p.Offset)
	case MissingArgument:
		return fmt.Sprintf("%s: {%d} is missing in translation", p.Kind, p.Index)
	case ExtraArgument:
		return fmt.Sprintf("%s: {%d} is not in source", p.Kind, p.Index)
	}
	return p.Kind.String()
}

// PlaceholderError reports every placeholder problem of a string pair.
type PlaceholderError struct {
	English   string
	Localized string
	Problems  []PlaceholderProblem
}

func (e *PlaceholderError) Error() string {
	msgs := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		msgs = append(msgs, p.String())
	}
	return fmt.Sprintf("placeholder mismatch between %q and %q: %s",
		e.English, e.Localized, strings.Join(msgs, "; "))
}

// PlaceholderOptions tunes CheckPlaceholders.
type PlaceholderOptions struct {
	// Optional lists argument indices a translation may drop (line
	// separators, for example). They may never be added.
	Optional []int
}

func (o PlaceholderOptions) isOptional(idx int) bool {
	for _, i := range o.Optional {
		if i == idx {
			return true
		}
	}
	return false
}

// scanPlaceholders returns the set of argument indices referenced by s and
// the brace and format problems found. "{{" and "}}" outside a format item
// are literal braces.
func scanPlaceholders(s string, localized bool) (map[int]bool, []PlaceholderProblem) {
	var (
		args     = make(map[int]bool)
		problems []PlaceholderProblem
		open     = -1
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if open < 0 {
				if i+1 < len(s) && s[i+1] == '{' {
					i++
					continue
				}
				open = i
				continue
			}
			// Another "{" before the current item was closed.
			problems = append(problems, PlaceholderProblem{
				Kind: BraceMismatch, Localized: localized, Offset: open, Index: -1,
			})
			open = i
		case '}':
			if open < 0 {
				if i+1 < len(s) && s[i+1] == '}' {
					i++
					continue
				}
				problems = append(problems, PlaceholderProblem{
					Kind: BraceMismatch, Localized: localized, Offset: i, Index: -1,
				})
				continue
			}
			token := s[open : i+1]
			if idx, ok := parseFormatItem(s[open+1 : i]); ok {
				args[idx] = true
			} else {
				problems = append(problems, PlaceholderProblem{
					Kind: BadPlaceholder, Localized: localized, Offset: open, Index: -1, Token: token,
				})
			}
			open = -1
		}
	}
	if open >= 0 {
		problems = append(problems, PlaceholderProblem{
			Kind: BraceMismatch, Localized: localized, Offset: open, Index: -1,
		})
	}
	return args, problems
}

// parseFormatItem parses the body of a format item: an index optionally
// followed by an alignment (",5") or format string (":N2").
func parseFormatItem(body string) (int, bool) {
	end := len(body)
	if i := strings.IndexAny(body, ",:"); i >= 0 {
		end = i
	}
	digits := strings.TrimSpace(body[:end])
	if digits == "" {
		return 0, false
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	idx, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return idx, true
}

func sortedKeys(m map[int]bool) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// CheckPlaceholders verifies that localized references the same set of
// format arguments as english. Arguments may be reordered or repeated in
// the translation. Returns nil or a *PlaceholderError listing every problem.
func CheckPlaceholders(english, localized string, opts PlaceholderOptions) error {
	srcArgs, problems := scanPlaceholders(english, false)
	dstArgs, dstProblems := scanPlaceholders(localized, true)
	problems = append(problems, dstProblems...)

	for _, idx := range sortedKeys(srcArgs) {
		if !dstArgs[idx] && !opts.isOptional(idx) {
			problems = append(problems, PlaceholderProblem{
				Kind: MissingArgument, Localized: true, Offset: -1, Index: idx,
			})
		}
	}
	for _, idx := range sortedKeys(dstArgs) {
		if !srcArgs[idx] {
			problems = append(problems, PlaceholderProblem{
				Kind: ExtraArgument, Localized: true, Offset: -1, Index: idx,
			})
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return &PlaceholderError{English: english, Localized: localized, Problems: problems}
}

// PlaceholderReport is the result of checking one catalog entry.
type PlaceholderReport struct {
	Entry *PoEntry
	Err   *PlaceholderError
}

// CheckCatalogPlaceholders checks every translated entry of a catalog and
// returns one report per offending entry, in catalog order.
func CheckCatalogPlaceholders(catalog *PoCatalog, opts PlaceholderOptions) []PlaceholderReport {
	var reports []PlaceholderReport
	for _, e := range catalog.Entries {
		if !e.IsTranslated() {
			continue
		}
		if err := CheckPlaceholders(e.MsgID(), e.MsgStr(), opts); err != nil {
			reports = append(reports, PlaceholderReport{Entry: e, Err: err.(*PlaceholderError)})
		}
	}
	return reports
}
