package xliff

import (
	"fmt"
	"io"
	"strings"

	"github.com/l10n-tools/fw-po-helper/util"
)

const (
	eticRoot = "eticPOSList"
	eticItem = "item"
)

// CitationSeparator joins the citations of one writing system in a unit.
const CitationSeparator = ";"

// eticFields are the translatable children of a category item and the
// suffixes of their trans-unit ids.
var eticFields = []struct {
	element string
	suffix  string
}{
	{"abbrev", "abbr"},
	{"term", "term"},
	{"def", "def"},
	{"citation", "cit"},
}

func eticFieldSuffix(name string) (string, bool) {
	for _, f := range eticFields {
		if f.element == name {
			return f.suffix, true
		}
	}
	return "", false
}

const citationElement = "citation"

type eticConverter struct {
	ids   idSet
	langs languageSet
}

// ConvertGoldEticToXliff converts a GOLD category list to one XLIFF
// document per writing system, keyed by writing system. Unless given in
// opts, the source language is the first writing system in the document.
func ConvertGoldEticToXliff(filename string, r io.Reader, opts Options) (map[string]*Document, error) {
	root, err := parseTree(r)
	if err != nil {
		if fe, ok := err.(*util.FormatError); ok {
			fe.File = filename
		}
		return nil, err
	}
	if root.Name != eticRoot {
		return nil, &ShapeError{File: filename,
			Msg: fmt.Sprintf("source file is not in the expected format: root is <%s>, expected <%s>", root.Name, eticRoot)}
	}

	c := &eticConverter{ids: idSet{}}
	var groups []*Group
	for _, child := range root.Children {
		if child.Name != eticItem {
			continue
		}
		g, err := c.convertItem(child)
		if err != nil {
			if se, ok := err.(*ShapeError); ok {
				se.File = filename
			}
			return nil, err
		}
		groups = append(groups, g)
	}
	if len(groups) == 0 {
		return nil, &ShapeError{File: filename, Msg: "no <item> element found"}
	}

	source := opts.SourceLanguage
	if source == "" && len(c.langs.order) > 0 {
		source = c.langs.order[0]
	}
	if source == "" {
		source = DefaultSourceLanguage
	}
	return buildDocuments(filename, source, c.langs.order, opts, groups), nil
}

func eticGroupID(item *element) string {
	var parts []string
	for _, name := range []string{"guid", "id"} {
		if v := item.attr(name); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, "_")
}

// convertItem emits one unit per field at the place the field first
// appears, with the values of all its writing systems. Other children are
// kept verbatim in locked units.
func (c *eticConverter) convertItem(item *element) (*Group, error) {
	id := eticGroupID(item)
	if id == "" {
		return nil, shapeErrorf("<item> without guid and id")
	}
	g := &Group{ID: id, Attrs: elementAttrs(item)}
	if err := c.ids.claim(id); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, child := range item.Children {
		if child.Name == eticItem {
			sub, err := c.convertItem(child)
			if err != nil {
				return nil, err
			}
			g.Children = append(g.Children, sub)
			continue
		}
		suffix, ok := eticFieldSuffix(child.Name)
		if !ok {
			g.Children = append(g.Children, rawUnit(c.ids.unique(id+"_"+child.Name), child))
			continue
		}
		if seen[child.Name] {
			continue
		}
		seen[child.Name] = true

		u := c.fieldUnit(id+"_"+suffix, child.Name, item)
		if len(u.values) == 0 {
			for _, e := range item.Children {
				if e.Name == child.Name {
					g.Children = append(g.Children, rawUnit(c.ids.unique(id+"_"+e.Name), e))
				}
			}
			continue
		}
		if err := c.ids.claim(u.ID); err != nil {
			return nil, err
		}
		g.Children = append(g.Children, u)
	}
	return g, nil
}

func (c *eticConverter) fieldUnit(id, name string, item *element) *multiUnit {
	u := newMultiUnit(id, []Attr{{attrElement, name}})
	for _, child := range item.Children {
		if child.Name != name {
			continue
		}
		ws := child.attr("ws")
		c.langs.add(ws)
		if child.Text == "" {
			continue
		}
		if name == citationElement && u.values[ws] != "" {
			u.values[ws] += CitationSeparator + child.Text
		} else {
			u.values[ws] = child.Text
		}
	}
	return u
}

// ConvertXliffToGoldEtic rebuilds a GOLD category list from the source
// XLIFF document and any number of translated ones.
func ConvertXliffToGoldEtic(docs []*Document) ([]byte, error) {
	rs, err := newReverseSet(docs)
	if err != nil {
		return nil, err
	}
	root := newElement(eticRoot)
	for _, g := range rs.source.Groups {
		e, err := rs.rebuildItem(g)
		if err != nil {
			return nil, err
		}
		root.Children = append(root.Children, e)
	}
	return treeBytes(root)
}

func (rs *reverseSet) rebuildItem(g *Group) (*element, error) {
	if name := g.Attr(attrElement); name != eticItem {
		return nil, shapeErrorf("group %q is not a category item", g.ID)
	}
	e, err := groupElement(g)
	if err != nil {
		return nil, err
	}
	for _, child := range g.Children {
		switch t := child.(type) {
		case *TransUnit:
			name := t.Attr(attrElement)
			if name == "" {
				return nil, shapeErrorf("trans-unit %q has no %s attribute", t.ID, attrElement)
			}
			if isRawUnit(t) {
				raw, err := rawElement(t)
				if err != nil {
					return nil, err
				}
				e.Children = append(e.Children, raw)
				continue
			}
			e.Children = append(e.Children, rs.eticValues(name, rs.source.SourceLanguage, t.Source)...)
			for _, lang := range rs.languages {
				e.Children = append(e.Children, rs.eticValues(name, lang, rs.target(lang, t.ID))...)
			}
		case *Group:
			sub, err := rs.rebuildItem(t)
			if err != nil {
				return nil, err
			}
			e.Children = append(e.Children, sub)
		}
	}
	return e, nil
}

func (rs *reverseSet) eticValues(name, ws, value string) []*element {
	if value == "" {
		return nil
	}
	values := []string{value}
	if name == citationElement {
		values = strings.Split(value, CitationSeparator)
	}
	var result []*element
	for _, v := range values {
		e := newElement(name, "ws", ws)
		e.Text = v
		result = append(result, e)
	}
	return result
}
