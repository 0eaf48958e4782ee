// Package xliff converts FieldWorks list XML to XLIFF 1.2 and back.
//
// One XLIFF document is produced per writing system. The document for the
// source language carries no target-language attribute and no <target>
// elements; every other document carries a <target> only for values that
// are actually translated. Extension attributes in the "sil" namespace
// record what the reverse converters need to rebuild the original XML.
package xliff

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/l10n-tools/fw-po-helper/util"
)

// XML namespaces of the documents written.
const (
	Namespace    = "urn:oasis:names:tc:xliff:document:1.2"
	SilNamespace = "software.sil.org"
)

// StateFinal is the target state of a translated unit.
const StateFinal = "final"

// ShapeError reports input that does not match the expected document shape.
type ShapeError struct {
	File string
	Msg  string
}

func (e *ShapeError) Error() string {
	if e.File != "" {
		return e.File + ": " + e.Msg
	}
	return e.Msg
}

func shapeErrorf(format string, a ...interface{}) *ShapeError {
	return &ShapeError{Msg: fmt.Sprintf(format, a...)}
}

// Attr is a "sil" extension attribute.
type Attr struct {
	Name  string
	Value string
}

// Node is a child of a group: a *Group or a *TransUnit.
type Node interface {
	NodeID() string
}

// Document is one XLIFF file.
type Document struct {
	Original       string
	SourceLanguage string
	// TargetLanguage is empty for the source document.
	TargetLanguage string
	Groups         []*Group
}

// Group mirrors one container element of the source hierarchy.
type Group struct {
	ID       string
	Attrs    []Attr
	Children []Node
}

// TransUnit pairs a source string with an optional translation.
type TransUnit struct {
	ID     string
	Attrs  []Attr
	Source string
	Target string
	State  string
	// Locked units are written with translate="no".
	Locked bool
}

// NodeID returns the group id.
func (g *Group) NodeID() string { return g.ID }

// NodeID returns the trans-unit id.
func (u *TransUnit) NodeID() string { return u.ID }

// Attr returns the value of an extension attribute.
func (g *Group) Attr(name string) string { return lookupAttr(g.Attrs, name) }

// Attr returns the value of an extension attribute.
func (u *TransUnit) Attr(name string) string { return lookupAttr(u.Attrs, name) }

func lookupAttr(attrs []Attr, name string) string {
	for _, a := range attrs {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

// IsSource reports whether d is the source-language document.
func (d *Document) IsSource() bool {
	return d.TargetLanguage == ""
}

// Language returns the writing system the document is for.
func (d *Document) Language() string {
	if d.IsSource() {
		return d.SourceLanguage
	}
	return d.TargetLanguage
}

// Units returns all trans-units of the document in document order.
func (d *Document) Units() []*TransUnit {
	var units []*TransUnit
	var walk func(nodes []Node)
	walk = func(nodes []Node) {
		for _, n := range nodes {
			switch t := n.(type) {
			case *Group:
				walk(t.Children)
			case *TransUnit:
				units = append(units, t)
			}
		}
	}
	for _, g := range d.Groups {
		walk([]Node{g})
	}
	return units
}

// TargetCount returns the number of units with a translation.
func (d *Document) TargetCount() int {
	n := 0
	for _, u := range d.Units() {
		if u.Target != "" {
			n++
		}
	}
	return n
}

// Write serializes the document as XLIFF 1.2.
func (d *Document) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(xml.Header)
	fmt.Fprintf(bw, "<xliff version=\"1.2\" xmlns=\"%s\" xmlns:sil=\"%s\">\n", Namespace, SilNamespace)
	fmt.Fprintf(bw, "  <file original=\"%s\" source-language=\"%s\" datatype=\"plaintext\"",
		util.EscapeXMLAttr(d.Original), util.EscapeXMLAttr(d.SourceLanguage))
	if d.TargetLanguage != "" {
		fmt.Fprintf(bw, " target-language=\"%s\"", util.EscapeXMLAttr(d.TargetLanguage))
	}
	bw.WriteString(">\n    <body>\n")
	for _, g := range d.Groups {
		writeGroup(bw, g, 3)
	}
	bw.WriteString("    </body>\n  </file>\n</xliff>\n")
	return bw.Flush()
}

func writeAttrs(w *bufio.Writer, attrs []Attr) {
	for _, a := range attrs {
		fmt.Fprintf(w, " sil:%s=\"%s\"", a.Name, util.EscapeXMLAttr(a.Value))
	}
}

func writeGroup(w *bufio.Writer, g *Group, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%s<group id=\"%s\"", indent, util.EscapeXMLAttr(g.ID))
	writeAttrs(w, g.Attrs)
	w.WriteString(">\n")
	for _, child := range g.Children {
		switch t := child.(type) {
		case *Group:
			writeGroup(w, t, depth+1)
		case *TransUnit:
			writeUnit(w, t, depth+1)
		}
	}
	fmt.Fprintf(w, "%s</group>\n", indent)
}

func writeUnit(w *bufio.Writer, u *TransUnit, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%s<trans-unit id=\"%s\"", indent, util.EscapeXMLAttr(u.ID))
	if u.Locked {
		w.WriteString(" translate=\"no\"")
	}
	writeAttrs(w, u.Attrs)
	w.WriteString(">\n")
	fmt.Fprintf(w, "%s  <source>%s</source>\n", indent, util.EscapeXMLText(u.Source))
	if u.Target != "" {
		state := u.State
		if state == "" {
			state = StateFinal
		}
		fmt.Fprintf(w, "%s  <target state=\"%s\">%s</target>\n",
			indent, util.EscapeXMLAttr(state), util.EscapeXMLText(u.Target))
	}
	fmt.Fprintf(w, "%s</trans-unit>\n", indent)
}

func silAttrs(attrs []xml.Attr) []Attr {
	var result []Attr
	for _, a := range attrs {
		if a.Name.Space == SilNamespace {
			result = append(result, Attr{Name: a.Name.Local, Value: a.Value})
		}
	}
	return result
}

func plainAttr(attrs []xml.Attr, name string) string {
	for _, a := range attrs {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// ParseDocument reads an XLIFF document written by Write or by a
// translation tool that preserved its structure.
func ParseDocument(r io.Reader) (*Document, error) {
	var (
		doc    *Document
		groups []*Group
		unit   *TransUnit
		text   *strings.Builder
		target bool
	)

	d := xml.NewDecoder(r)
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			line, _ := d.InputPos()
			return nil, &util.FormatError{Line: line, Msg: err.Error()}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "file":
				doc = &Document{
					Original:       plainAttr(t.Attr, "original"),
					SourceLanguage: plainAttr(t.Attr, "source-language"),
					TargetLanguage: plainAttr(t.Attr, "target-language"),
				}
			case "group":
				if doc == nil {
					return nil, shapeErrorf("group outside of file")
				}
				g := &Group{ID: plainAttr(t.Attr, "id"), Attrs: silAttrs(t.Attr)}
				if n := len(groups); n > 0 {
					groups[n-1].Children = append(groups[n-1].Children, g)
				} else {
					doc.Groups = append(doc.Groups, g)
				}
				groups = append(groups, g)
			case "trans-unit":
				if len(groups) == 0 {
					return nil, shapeErrorf("trans-unit %q outside of group", plainAttr(t.Attr, "id"))
				}
				unit = &TransUnit{
					ID:     plainAttr(t.Attr, "id"),
					Attrs:  silAttrs(t.Attr),
					Locked: plainAttr(t.Attr, "translate") == "no",
				}
				parent := groups[len(groups)-1]
				parent.Children = append(parent.Children, unit)
			case "source", "target":
				if unit == nil {
					return nil, shapeErrorf("<%s> outside of trans-unit", t.Name.Local)
				}
				text = &strings.Builder{}
				target = t.Name.Local == "target"
				if target {
					unit.State = plainAttr(t.Attr, "state")
				}
			}
		case xml.CharData:
			if text != nil {
				text.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "group":
				if n := len(groups); n > 0 {
					groups = groups[:n-1]
				}
			case "trans-unit":
				unit = nil
			case "source", "target":
				if unit != nil && text != nil {
					if target {
						unit.Target = text.String()
					} else {
						unit.Source = text.String()
					}
				}
				text = nil
			}
		}
	}
	if doc == nil {
		return nil, shapeErrorf("not an XLIFF document: no <file> element")
	}
	if doc.Original == "" {
		return nil, shapeErrorf("missing original attribute on <file>")
	}
	return doc, nil
}
