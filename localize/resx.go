package localize

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/l10n-tools/fw-po-helper/util"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

// ResxEntry is a string resource of a .resx file.
type ResxEntry struct {
	Name    string
	Value   string
	Comment string
	Line    int

	hasValue    bool
	selfClosing bool
	// Byte range of the value content, or of the whole <value/> tag when
	// it is self-closing.
	valueStart int
	valueEnd   int
}

// Resx is a parsed .resx file. The raw data is kept so that a localized
// copy differs from it only in the translated values.
type Resx struct {
	Path    string
	Data    []byte
	Entries []*ResxEntry
	// Duplicates are entries whose name was already defined with a
	// different value or comment. The first definition wins.
	Duplicates []*ResxEntry
}

// Lookup returns the entry named name.
func (r *Resx) Lookup(name string) *ResxEntry {
	for _, e := range r.Entries {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Values maps entry names to their values.
func (r *Resx) Values() map[string]string {
	values := make(map[string]string, len(r.Entries))
	for _, e := range r.Entries {
		values[e.Name] = e.Value
	}
	return values
}

// isStringResource reports whether a <data> element holds a translatable
// string. Typed data (images, icons) and designer metadata are skipped.
func isStringResource(name string, se xml.StartElement) bool {
	if strings.HasPrefix(name, ">>") {
		return false
	}
	if _, ok := util.XMLAttr(se, "type"); ok {
		return false
	}
	if _, ok := util.XMLAttr(se, "mimetype"); ok {
		return false
	}
	return true
}

// ReadResx reads the string resources of a .resx file.
func ReadResx(path string) (*Resx, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r, err := ParseResx(data)
	if err != nil {
		if fe, ok := err.(*util.FormatError); ok {
			fe.File = path
		}
		return nil, err
	}
	r.Path = path
	return r, nil
}

// ParseResx parses the content of a .resx file.
func ParseResx(data []byte) (*Resx, error) {
	var (
		r       = &Resx{Data: data}
		seen    = make(map[string]*ResxEntry)
		depth   int
		entry   *ResxEntry
		skip    bool
		text    *strings.Builder
		inValue bool
		rooted  bool
	)
	lineOf := func(offset int) int {
		return strings.Count(string(data[:offset]), "\n") + 1
	}

	err := util.WalkXMLTokens(data, func(tok xml.Token, start, end int) error {
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch {
			case depth == 1:
				if t.Name.Local != "root" {
					return &util.FormatError{Line: lineOf(start),
						Msg: fmt.Sprintf("root element is <%s>, expected <root>", t.Name.Local)}
				}
				rooted = true
			case depth == 2 && t.Name.Local == "data":
				name, _ := util.XMLAttr(t, "name")
				if name == "" {
					return &util.FormatError{Line: lineOf(start), Msg: "<data> without name"}
				}
				entry = &ResxEntry{Name: name, Line: lineOf(start)}
				skip = !isStringResource(name, t)
			case depth == 3 && entry != nil && (t.Name.Local == "value" || t.Name.Local == "comment"):
				text = &strings.Builder{}
				inValue = t.Name.Local == "value"
				if inValue {
					entry.hasValue = true
					entry.valueStart = end
				}
			}
		case xml.CharData:
			if text != nil {
				text.Write(t)
			}
		case xml.EndElement:
			depth--
			switch {
			case depth == 2 && entry != nil && text != nil:
				if inValue {
					entry.Value = text.String()
					entry.valueEnd = start
					if start == end {
						// <value/>: replace the whole tag.
						entry.selfClosing = true
						entry.valueStart = strings.LastIndex(string(data[:start]), "<")
						entry.valueEnd = end
					}
				} else {
					entry.Comment = text.String()
				}
				text = nil
			case depth == 1 && entry != nil:
				if !skip {
					r.add(entry, seen)
				}
				entry = nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !rooted {
		return nil, &util.FormatError{Msg: "missing <root> element"}
	}
	return r, nil
}

func (r *Resx) add(e *ResxEntry, seen map[string]*ResxEntry) {
	prev, ok := seen[e.Name]
	if !ok {
		seen[e.Name] = e
		r.Entries = append(r.Entries, e)
		return
	}
	if prev.Value == e.Value && prev.Comment == e.Comment {
		log.Warnf("resource %q defined twice with the same value (lines %d and %d)", e.Name, prev.Line, e.Line)
		return
	}
	r.Duplicates = append(r.Duplicates, e)
}

// Localize returns a copy of the resource data with the values of the
// entries found in translations replaced, and the number replaced.
func (r *Resx) Localize(translations map[string]string) ([]byte, int, error) {
	var (
		splices []util.Splice
		count   int
	)
	for _, e := range r.Entries {
		t, ok := translations[e.Name]
		if !ok || t == "" || !e.hasValue {
			continue
		}
		text := util.EscapeXMLText(t)
		if e.selfClosing {
			text = "<value>" + text + "</value>"
		}
		splices = append(splices, util.Splice{Start: e.valueStart, End: e.valueEnd, Text: text})
		count++
	}
	out, err := util.ApplySplices(r.Data, splices)
	if err != nil {
		return nil, 0, err
	}
	return out, count, nil
}

// WriteLocalizedResx writes the localized copy of src to dst and returns
// the number of translated entries.
func WriteLocalizedResx(src *Resx, dst string, translations map[string]string) (int, error) {
	out, count, err := src.Localize(translations)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return 0, err
	}
	if err := os.WriteFile(dst, out, 0644); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return count, nil
}

var reCultureSegment = regexp.MustCompile(`^[a-z]{2,3}([-_][A-Za-z0-9]{2,8})*$`)

// IsLocalizedResx reports whether name looks like "Name.<culture>.resx".
func IsLocalizedResx(name string) bool {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	idx := strings.LastIndex(base, ".")
	if idx < 0 {
		return false
	}
	culture := base[idx+1:]
	if !reCultureSegment.MatchString(culture) {
		return false
	}
	_, err := language.Parse(strings.ReplaceAll(culture, "_", "-"))
	return err == nil
}

// LocalizedResxName returns the name of the localized counterpart of a
// .resx file: "Strings.resx" becomes "Strings.<folder>.resx".
func LocalizedResxName(path, folder string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "." + folder + ext
}
