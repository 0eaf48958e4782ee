// Package util provides report and message utilities.
package util

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
)

var (
	passLabel = color.New(color.Bold, color.FgGreen).SprintFunc()
	failLabel = color.New(color.Bold, color.FgRed).SprintFunc()
	warnLabel = color.New(color.Bold, color.FgYellow).SprintFunc()
)

// DisableColor turns off colored output, for --no-color or non-terminals.
func DisableColor() {
	color.NoColor = true
}

// ReportInfoAndErrors reports messages with info or error level based on ok.
func ReportInfoAndErrors(msgs []string, prompt string, ok bool) {
	if ok {
		reportResultMessages(msgs, prompt, log.InfoLevel)
	} else {
		reportResultMessages(msgs, prompt, log.ErrorLevel)
	}
}

// ReportWarnAndErrors reports messages with warn or error level based on ok.
func ReportWarnAndErrors(msgs []string, prompt string, ok bool) {
	if ok {
		reportResultMessages(msgs, prompt, log.WarnLevel)
	} else {
		reportResultMessages(msgs, prompt, log.ErrorLevel)
	}
}

func reportResultMessages(msgs []string, prompt string, level log.Level) {
	var fn func(format string, args ...interface{})

	if len(msgs) == 0 {
		return
	}

	switch level {
	case log.InfoLevel:
		fn = log.Printf
	case log.WarnLevel:
		fn = log.Warnf
	default:
		fn = log.Errorf
	}

	showHorizontalLine()

	for _, msg := range msgs {
		if msg == "" {
			fn("%s", prompt)
			continue
		}
		for _, line := range strings.Split(msg, "\n") {
			if prompt == "" {
				fn("%s", line)
			} else if line == "" {
				fn("%s", prompt)
			} else {
				fn("%s\t%s", prompt, line)
			}
		}
	}
}

func showHorizontalLine() {
	fmt.Fprintln(os.Stderr, strings.Repeat("-", 78))
}

// FormatKindCounts renders counts per diagnostic kind, sorted by kind:
// "DuplicateIdentifier: 1, ShapeError: 2".
func FormatKindCounts(counts map[string]int) string {
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%s: %d", k, counts[k]))
	}
	return strings.Join(parts, ", ")
}

// WriteSummaryLine writes a one-line verdict for subject. Failures are
// red, warnings yellow and a clean run green.
func WriteSummaryLine(w io.Writer, subject string, failures, warnings int, detail string) {
	var label string
	switch {
	case failures > 0:
		label = failLabel("FAIL")
	case warnings > 0:
		label = warnLabel("WARN")
	default:
		label = passLabel("PASS")
	}
	if detail != "" {
		fmt.Fprintf(w, "%s\t%s (%s)\n", label, subject, detail)
	} else {
		fmt.Fprintf(w, "%s\t%s\n", label, subject)
	}
}
