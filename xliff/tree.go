package xliff

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/l10n-tools/fw-po-helper/util"
)

// element is a minimal in-memory XML tree. Lists and GOLD documents are
// small enough to be loaded whole, and the converters need to look ahead
// at children to tell a multilingual field from an owned collection.
type element struct {
	Name     string
	Attrs    []xml.Attr
	Children []*element
	Text     string
}

func (e *element) attr(name string) string {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func (e *element) hasAttr(name string) bool {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return true
		}
	}
	return false
}

func (e *element) child(name string) *element {
	for _, c := range e.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func parseTree(r io.Reader) (*element, error) {
	var (
		root  *element
		stack []*element
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
			e := &element{Name: t.Name.Local, Attrs: rawAttrs(t.Attr)}
			if n := len(stack); n > 0 {
				stack[n-1].Children = append(stack[n-1].Children, e)
			} else if root == nil {
				root = e
			}
			stack = append(stack, e)
		case xml.CharData:
			if n := len(stack); n > 0 {
				stack[n-1].Text += string(t)
			}
		case xml.EndElement:
			if n := len(stack); n > 0 {
				stack = stack[:n-1]
			}
		}
	}
	if root == nil {
		return nil, &util.FormatError{Msg: "no root element"}
	}
	return root, nil
}

// rawAttrs drops namespace declarations and keeps local names only.
func rawAttrs(attrs []xml.Attr) []xml.Attr {
	var result []xml.Attr
	for _, a := range attrs {
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			continue
		}
		result = append(result, xml.Attr{Name: xml.Name{Local: a.Name.Local}, Value: a.Value})
	}
	return result
}

// writeTree serializes e with two-space indentation. Elements without
// children are written on one line with their text.
func writeTree(w io.Writer, e *element) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(xml.Header)
	writeElement(bw, e, 0)
	return bw.Flush()
}

func treeBytes(root *element) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTree(&buf, root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeElement(w *bufio.Writer, e *element, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%s<%s", indent, e.Name)
	for _, a := range e.Attrs {
		fmt.Fprintf(w, " %s=\"%s\"", a.Name.Local, util.EscapeXMLAttr(a.Value))
	}
	switch {
	case len(e.Children) > 0:
		w.WriteString(">\n")
		for _, c := range e.Children {
			writeElement(w, c, depth+1)
		}
		fmt.Fprintf(w, "%s</%s>\n", indent, e.Name)
	case e.Text != "":
		fmt.Fprintf(w, ">%s</%s>\n", util.EscapeXMLText(e.Text), e.Name)
	default:
		w.WriteString(" />\n")
	}
}

func newElement(name string, attrs ...string) *element {
	e := &element{Name: name}
	for i := 0; i+1 < len(attrs); i += 2 {
		e.Attrs = append(e.Attrs, xml.Attr{Name: xml.Name{Local: attrs[i]}, Value: attrs[i+1]})
	}
	return e
}

// idSet detects duplicate group and trans-unit ids.
type idSet map[string]bool

func (s idSet) claim(id string) error {
	if s[id] {
		return shapeErrorf("duplicate id %q", id)
	}
	s[id] = true
	return nil
}

// unique claims base, or base with the first free numeric suffix.
func (s idSet) unique(base string) string {
	id := base
	for n := 2; s[id]; n++ {
		id = base + "_" + strconv.Itoa(n)
	}
	s[id] = true
	return id
}

// languageSet records writing systems in first-seen order.
type languageSet struct {
	order []string
	seen  map[string]bool
}

func (l *languageSet) add(ws string) {
	if ws == "" {
		return
	}
	if l.seen == nil {
		l.seen = make(map[string]bool)
	}
	if !l.seen[ws] {
		l.seen[ws] = true
		l.order = append(l.order, ws)
	}
}
