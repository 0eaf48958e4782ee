// Package extract collects translatable strings from configuration XML files.
//
// Two dialects are supported:
//   - layout files (.fwlayout and XML inventories), where a fixed set of
//     attributes and the content of <lit> elements are translatable
//   - dictionary configuration files (.fwdictconfig), a nested tree of
//     <ConfigurationItem> elements
//
// Every extracted entry carries exactly one auto comment describing where
// the string came from, in the form "<file>::<path>".
package extract

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/l10n-tools/fw-po-helper/util"
	log "github.com/sirupsen/logrus"
)

// LayoutAttributes are the translatable attributes of the layout dialect.
var LayoutAttributes = []string{
	"label", "before", "after", "between", "tooltip", "ghostLabel", "title", "formatstring",
}

// identifyingAttributes name the attributes used as path predicates.
var identifyingAttributes = []string{"id", "class", "type", "name", "ref", "param"}

// dictionaryAttributes are the translatable attributes of a ConfigurationItem.
var dictionaryAttributes = []string{"name", "before", "between", "after"}

// Extractor accumulates entries from any number of sources.
type Extractor struct {
	Entries []*util.PoEntry
}

// New creates an empty extractor.
func New() *Extractor {
	return &Extractor{}
}

func (x *Extractor) add(value, file, path string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	e := util.NewPoEntry(value)
	e.AutoComments = []string{provenance(file, path)}
	x.Entries = append(x.Entries, e)
}

// provenance builds the auto comment of an entry. Line breaks would end
// the comment line, so they are replaced.
func provenance(file, path string) string {
	c := filepath.ToSlash(file) + "::" + path
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(c)
}

func isNonTranslatable(se xml.StartElement) bool {
	if v, ok := util.XMLAttr(se, "translate"); ok && strings.EqualFold(strings.TrimSpace(v), "do not translate") {
		return true
	}
	if v, ok := util.XMLAttr(se, "translatable"); ok && strings.EqualFold(strings.TrimSpace(v), "false") {
		return true
	}
	return false
}

func isOneOf(name string, list []string) bool {
	for _, s := range list {
		if s == name {
			return true
		}
	}
	return false
}

// layoutSegment renders an element as a path segment with predicates on its
// identifying attributes, e.g. part[@ref="Headword"].
func layoutSegment(se xml.StartElement) string {
	var b strings.Builder
	b.WriteString(se.Name.Local)
	for _, name := range identifyingAttributes {
		if v, ok := util.XMLAttr(se, name); ok {
			fmt.Fprintf(&b, `[@%s="%s"]`, name, v)
		}
	}
	return b.String()
}

type layoutFrame struct {
	path   string
	lit    bool
	skip   bool
	text   strings.Builder
	nested bool
}

// ExtractLayout extracts strings from a layout dialect document.
func (x *Extractor) ExtractLayout(path string, r io.Reader) error {
	var (
		stack []*layoutFrame
		count = len(x.Entries)
	)

	d := xml.NewDecoder(r)
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			line, _ := d.InputPos()
			return &util.FormatError{File: path, Line: line, Msg: err.Error()}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			parent, parentSkip := "", false
			if n := len(stack); n > 0 {
				parent, parentSkip = stack[n-1].path, stack[n-1].skip
				if stack[n-1].lit {
					stack[n-1].nested = true
				}
			}
			// The marker applies to the whole subtree.
			frame := &layoutFrame{
				path: parent + "/" + layoutSegment(t),
				lit:  t.Name.Local == "lit",
				skip: parentSkip || isNonTranslatable(t),
			}
			stack = append(stack, frame)
			if frame.skip {
				log.Debugf("%s: skip non-translatable %s", path, frame.path)
				continue
			}
			for _, attr := range t.Attr {
				if attr.Name.Space != "" || !isOneOf(attr.Name.Local, LayoutAttributes) {
					continue
				}
				x.add(attr.Value, path, frame.path+"/@"+attr.Name.Local)
			}
		case xml.CharData:
			if n := len(stack); n > 0 && stack[n-1].lit {
				stack[n-1].text.Write(t)
			}
		case xml.EndElement:
			n := len(stack)
			if n == 0 {
				continue
			}
			frame := stack[n-1]
			stack = stack[:n-1]
			if frame.lit && !frame.skip {
				if frame.nested {
					log.Warnf("%s: markup inside %s is not extracted", path, frame.path)
				}
				x.add(frame.text.String(), path, frame.path)
			}
		}
	}
	log.Debugf("extracted %d strings from %s", len(x.Entries)-count, path)
	return nil
}

type dictFrame struct {
	path   string
	item   bool
	shared bool
	skip   bool
}

// ExtractDictionaryConfig extracts strings from a dictionary configuration
// document. Items directly under SharedItems are reused by several owners:
// their own name is not extracted, their other attributes and their
// descendants are.
func (x *Extractor) ExtractDictionaryConfig(path string, r io.Reader) error {
	var (
		stack []dictFrame
		count = len(x.Entries)
	)

	d := xml.NewDecoder(r)
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			line, _ := d.InputPos()
			return &util.FormatError{File: path, Line: line, Msg: err.Error()}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			var parent dictFrame
			if n := len(stack); n > 0 {
				parent = stack[n-1]
			}
			segment := t.Name.Local
			name, hasName := util.XMLAttr(t, "name")
			if hasName && (t.Name.Local == "ConfigurationItem" || t.Name.Local == "DictionaryConfiguration") {
				segment += fmt.Sprintf("[@name='%s']", name)
			}
			frame := dictFrame{
				path:   parent.path + "/" + segment,
				item:   t.Name.Local == "ConfigurationItem",
				shared: t.Name.Local == "SharedItems",
				skip:   parent.skip || isNonTranslatable(t),
			}
			stack = append(stack, frame)

			switch {
			case len(stack) == 1 && t.Name.Local == "DictionaryConfiguration":
				if hasName {
					x.add(name, path, frame.path+"/@name")
				}
			case frame.item:
				if frame.skip {
					continue
				}
				for _, attr := range t.Attr {
					if attr.Name.Space != "" || !isOneOf(attr.Name.Local, dictionaryAttributes) {
						continue
					}
					if attr.Name.Local == "name" && parent.shared {
						continue
					}
					x.add(attr.Value, path, frame.path+"/@"+attr.Name.Local)
				}
			}
		case xml.EndElement:
			if n := len(stack); n > 0 {
				stack = stack[:n-1]
			}
		}
	}
	log.Debugf("extracted %d strings from %s", len(x.Entries)-count, path)
	return nil
}

// ExtractFile extracts strings from a file, choosing the dialect by extension.
func (x *Extractor) ExtractFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".fwdictconfig":
		return x.ExtractDictionaryConfig(path, f)
	case ".fwlayout", ".xml":
		return x.ExtractLayout(path, f)
	}
	return fmt.Errorf("unsupported file type: %s", path)
}

// BuildPot merges duplicate entries and returns a catalog with a POT header.
func BuildPot(entries []*util.PoEntry, project string, now time.Time) *util.PoCatalog {
	return &util.PoCatalog{
		Header:  util.NewPoHeader(project, now),
		Entries: util.MergeDuplicates(entries),
	}
}

// WritePot writes entries as a POT file.
func WritePot(w io.Writer, entries []*util.PoEntry, project string, now time.Time) error {
	return util.WritePoCatalog(w, BuildPot(entries, project, now))
}
