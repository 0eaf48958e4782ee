package localize

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/l10n-tools/fw-po-helper/util"
)

// Kind classifies a diagnostic.
type Kind string

// Diagnostic kinds.
const (
	// KindFormatError is malformed catalog or XML input.
	KindFormatError Kind = "FormatError"
	// KindShapeError is input that breaks a structural expectation.
	KindShapeError Kind = "ShapeError"
	// KindPlaceholderMismatch is a translation whose format arguments do
	// not match its source.
	KindPlaceholderMismatch Kind = "PlaceholderMismatch"
	// KindDuplicateIdentifier is a resource name defined twice.
	KindDuplicateIdentifier Kind = "DuplicateIdentifier"
	// KindMissingResource is an untranslated resource, reported only when
	// completeness is required.
	KindMissingResource Kind = "MissingResource"
	// KindBuildError is a failed resource generation or link command.
	KindBuildError Kind = "BuildError"
)

// Diagnostic is one problem found during a run.
type Diagnostic struct {
	Kind    Kind   `json:"kind"`
	File    string `json:"file,omitempty"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`
}

// String renders the diagnostic as a self-contained line.
func (d Diagnostic) String() string {
	var b strings.Builder
	if d.File != "" {
		b.WriteString(d.File)
		b.WriteString(": ")
	}
	b.WriteString(string(d.Kind))
	if d.ID != "" {
		fmt.Fprintf(&b, " [%s]", d.ID)
	}
	b.WriteString(": ")
	b.WriteString(d.Message)
	return b.String()
}

// ProjectResult summarizes what a run did for one project.
type ProjectResult struct {
	Name      string `json:"name"`
	Dir       string `json:"dir"`
	Resources int    `json:"resources"`
	Localized int    `json:"localized"`
	Generated int    `json:"generated"`
	Assembly  string `json:"assembly,omitempty"`
}

// Result is returned by a run. It is owned by the caller.
type Result struct {
	Locale      string           `json:"locale"`
	Folder      string           `json:"folder"`
	Strategy    string           `json:"strategy"`
	Projects    []*ProjectResult `json:"projects"`
	Diagnostics []Diagnostic     `json:"diagnostics"`
}

// OK reports whether the run recorded no diagnostic.
func (r *Result) OK() bool {
	return len(r.Diagnostics) == 0
}

// Add records a diagnostic.
func (r *Result) Add(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
}

// AddError records err as a diagnostic about file, classifying it by type.
func (r *Result) AddError(file string, err error) {
	r.Add(diagnosticFromError(file, err))
}

// Lines returns every diagnostic as a line.
func (r *Result) Lines() []string {
	lines := make([]string, 0, len(r.Diagnostics))
	for _, d := range r.Diagnostics {
		lines = append(lines, d.String())
	}
	return lines
}

// CountByKind counts the diagnostics of kind.
func (r *Result) CountByKind(kind Kind) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// WriteJSON writes the result as indented JSON.
func (r *Result) WriteJSON(w io.Writer) error {
	out := *r
	if out.Projects == nil {
		out.Projects = []*ProjectResult{}
	}
	if out.Diagnostics == nil {
		out.Diagnostics = []Diagnostic{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&out)
}

// WriteJSONFile writes the result to path.
func (r *Result) WriteJSONFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.WriteJSON(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func diagnosticFromError(file string, err error) Diagnostic {
	var (
		fe *util.FormatError
		pe *util.PlaceholderError
	)
	switch {
	case errors.As(err, &fe):
		if file == "" {
			file = fe.File
		}
		msg := fe.Msg
		if fe.Line > 0 {
			msg = fmt.Sprintf("line %d: %s", fe.Line, fe.Msg)
		}
		return Diagnostic{Kind: KindFormatError, File: file, Message: msg}
	case errors.As(err, &pe):
		return Diagnostic{Kind: KindPlaceholderMismatch, File: file, Message: pe.Error()}
	}
	return Diagnostic{Kind: KindFormatError, File: file, Message: err.Error()}
}
