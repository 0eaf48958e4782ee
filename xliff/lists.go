package xliff

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/l10n-tools/fw-po-helper/util"
	log "github.com/sirupsen/logrus"
)

// Elements of the possibility-list format.
const (
	listsRoot     = "Lists"
	listElement   = "List"
	kindAUni      = "AUni"
	kindAStr      = "AStr"
	runElement    = "Run"
	possElement   = "Possibilities"
	subPosElement = "SubPossibilities"
)

// fieldSuffixes shortens well-known field names in trans-unit ids.
var fieldSuffixes = map[string]string{
	"Name":         "Name",
	"Abbreviation": "Abbr",
	"Description":  "Desc",
}

// collectionSuffixes shortens well-known owned collections in group ids.
var collectionSuffixes = map[string]string{
	possElement:   "Poss",
	subPosElement: "SubPos",
}

type listConverter struct {
	source string
	ids    idSet
	langs  languageSet
}

// ConvertListToXliff converts a possibility-list document to one XLIFF
// document per writing system, keyed by writing system.
func ConvertListToXliff(filename string, r io.Reader, opts Options) (map[string]*Document, error) {
	root, err := parseTree(r)
	if err != nil {
		if fe, ok := err.(*util.FormatError); ok {
			fe.File = filename
		}
		return nil, err
	}
	if root.Name != listsRoot {
		return nil, &ShapeError{File: filename,
			Msg: fmt.Sprintf("source file is not in the expected format: root is <%s>, expected <%s>", root.Name, listsRoot)}
	}

	c := &listConverter{source: opts.SourceLanguage, ids: idSet{}}
	if c.source == "" {
		c.source = DefaultSourceLanguage
	}

	var groups []*Group
	for _, child := range root.Children {
		if child.Name != listElement {
			log.Debugf("%s: ignore <%s> under <%s>", filename, child.Name, listsRoot)
			continue
		}
		g, err := c.convertList(child)
		if err != nil {
			if se, ok := err.(*ShapeError); ok {
				se.File = filename
			}
			return nil, err
		}
		groups = append(groups, g)
	}
	if len(groups) == 0 {
		return nil, &ShapeError{File: filename, Msg: "no <List> element found"}
	}
	return buildDocuments(filename, c.source, c.langs.order, opts, groups), nil
}

func (c *listConverter) convertList(list *element) (*Group, error) {
	owner, field := list.attr("owner"), list.attr("field")
	if owner == "" || field == "" {
		return nil, shapeErrorf("<List> needs both owner and field attributes")
	}
	g := &Group{ID: owner + "_" + field, Attrs: elementAttrs(list)}
	if err := c.ids.claim(g.ID); err != nil {
		return nil, err
	}
	if err := c.convertChildren(g, list); err != nil {
		return nil, err
	}
	return g, nil
}

// isField reports whether e holds multilingual values.
func isField(e *element) bool {
	if len(e.Children) == 0 {
		return false
	}
	for _, c := range e.Children {
		if c.Name != kindAUni && c.Name != kindAStr {
			return false
		}
	}
	return true
}

func (c *listConverter) convertChildren(g *Group, e *element) error {
	for _, child := range e.Children {
		var err error
		switch {
		case isField(child):
			err = c.convertField(g, child)
		case len(child.Children) > 0:
			err = c.convertCollection(g, child)
		default:
			err = c.addRaw(g, child)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *listConverter) addUnit(g *Group, u *multiUnit) error {
	if err := c.ids.claim(u.ID); err != nil {
		return err
	}
	g.Children = append(g.Children, u)
	return nil
}

// addRaw keeps an element without translatable values as it is.
func (c *listConverter) addRaw(g *Group, e *element) error {
	g.Children = append(g.Children, rawUnit(c.ids.unique(g.ID+"_"+e.Name), e))
	return nil
}

func (c *listConverter) convertField(g *Group, field *element) error {
	suffix, ok := fieldSuffixes[field.Name]
	if !ok {
		suffix = field.Name
	}
	base := g.ID + "_" + suffix
	kind := field.Children[0].Name

	if kind == kindAUni {
		u := newMultiUnit(base, []Attr{{attrElement, field.Name}, {attrKind, kindAUni}})
		empty := true
		for _, v := range field.Children {
			ws := v.attr("ws")
			c.langs.add(ws)
			u.values[ws] = v.Text
			if v.Text != "" {
				empty = false
			}
		}
		if empty {
			return c.addRaw(g, field)
		}
		if u.values[c.source] == "" {
			log.Debugf("%s: no %s value", base, c.source)
		}
		return c.addUnit(g, u)
	}

	runs := make(map[string][]string)
	empty := true
	for _, v := range field.Children {
		ws := v.attr("ws")
		c.langs.add(ws)
		for _, text := range strRuns(v) {
			runs[ws] = append(runs[ws], text)
			if text != "" {
				empty = false
			}
		}
	}
	if empty {
		return c.addRaw(g, field)
	}
	n := len(runs[c.source])
	if n == 0 {
		// Translations without a source value share one unit.
		log.Debugf("%s: no %s value", base, c.source)
		n = 1
	}
	for i := 0; i < n; i++ {
		id := base
		if n > 1 {
			id = base + "_" + strconv.Itoa(i+1)
		}
		u := newMultiUnit(id, []Attr{{attrElement, field.Name}, {attrKind, kindAStr}})
		for ws, texts := range runs {
			switch {
			case i >= len(texts):
			case i == n-1:
				// Extra runs of a translation are kept with the last one.
				u.values[ws] = strings.Join(texts[i:], "")
			default:
				u.values[ws] = texts[i]
			}
		}
		if err := c.addUnit(g, u); err != nil {
			return err
		}
	}
	return nil
}

// strRuns returns the text of each run of a formatted string.
func strRuns(astr *element) []string {
	var runs []string
	for _, r := range astr.Children {
		if r.Name == runElement {
			runs = append(runs, r.Text)
		}
	}
	if len(runs) == 0 && astr.Text != "" {
		runs = append(runs, astr.Text)
	}
	return runs
}

func (c *listConverter) convertCollection(g *Group, coll *element) error {
	suffix, ok := collectionSuffixes[coll.Name]
	if !ok {
		suffix = coll.Name
	}
	cg := &Group{ID: g.ID + "_" + suffix, Attrs: elementAttrs(coll)}
	if err := c.ids.claim(cg.ID); err != nil {
		return err
	}
	for i, item := range coll.Children {
		id := item.attr("guid")
		if id == "" {
			id = cg.ID + "_" + strconv.Itoa(i+1)
		}
		ig := &Group{ID: id, Attrs: elementAttrs(item)}
		if err := c.ids.claim(ig.ID); err != nil {
			return err
		}
		if err := c.convertChildren(ig, item); err != nil {
			return err
		}
		cg.Children = append(cg.Children, ig)
	}
	g.Children = append(g.Children, cg)
	return nil
}

// ConvertXliffToLists rebuilds a possibility-list document from the source
// XLIFF document and any number of translated ones.
func ConvertXliffToLists(docs []*Document) ([]byte, error) {
	rs, err := newReverseSet(docs)
	if err != nil {
		return nil, err
	}
	root := newElement(listsRoot)
	for _, g := range rs.source.Groups {
		if g.Attr(attrElement) != listElement {
			return nil, shapeErrorf("top-level group %q is not a list", g.ID)
		}
		e, err := rs.rebuildList(g)
		if err != nil {
			return nil, err
		}
		root.Children = append(root.Children, e)
	}
	return treeBytes(root)
}

func (rs *reverseSet) rebuildList(g *Group) (*element, error) {
	e, err := groupElement(g)
	if err != nil {
		return nil, err
	}
	children := g.Children
	for i := 0; i < len(children); {
		switch t := children[i].(type) {
		case *Group:
			child, err := rs.rebuildList(t)
			if err != nil {
				return nil, err
			}
			e.Children = append(e.Children, child)
			i++
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
				i++
				continue
			}
			if t.Attr(attrKind) != kindAStr {
				e.Children = appendField(e.Children, rs.uniField(name, t))
				i++
				continue
			}
			j := i + 1
			for j < len(children) {
				u, ok := children[j].(*TransUnit)
				if !ok || u.Attr(attrElement) != name || u.Attr(attrKind) != kindAStr {
					break
				}
				j++
			}
			var units []*TransUnit
			for _, n := range children[i:j] {
				units = append(units, n.(*TransUnit))
			}
			e.Children = appendField(e.Children, rs.strField(name, units))
			i = j
		default:
			i++
		}
	}
	return e, nil
}

// appendField drops fields left without any value, as happens when a
// field with only translations is rebuilt from the source document alone.
func appendField(children []*element, field *element) []*element {
	if len(field.Children) == 0 {
		return children
	}
	return append(children, field)
}

func (rs *reverseSet) uniField(name string, u *TransUnit) *element {
	field := newElement(name)
	src := rs.source.SourceLanguage
	if u.Source != "" {
		v := newElement(kindAUni, "ws", src)
		v.Text = u.Source
		field.Children = append(field.Children, v)
	}
	for _, lang := range rs.languages {
		if t := rs.target(lang, u.ID); t != "" {
			v := newElement(kindAUni, "ws", lang)
			v.Text = t
			field.Children = append(field.Children, v)
		}
	}
	return field
}

func (rs *reverseSet) strField(name string, units []*TransUnit) *element {
	field := newElement(name)
	src := rs.source.SourceLanguage
	astr := newElement(kindAStr, "ws", src)
	hasSource := false
	for _, u := range units {
		run := newElement(runElement, "ws", src)
		run.Text = u.Source
		astr.Children = append(astr.Children, run)
		if u.Source != "" {
			hasSource = true
		}
	}
	if hasSource {
		field.Children = append(field.Children, astr)
	}

	for _, lang := range rs.languages {
		astr := newElement(kindAStr, "ws", lang)
		for _, u := range units {
			if t := rs.target(lang, u.ID); t != "" {
				run := newElement(runElement, "ws", lang)
				run.Text = t
				astr.Children = append(astr.Children, run)
			}
		}
		if len(astr.Children) > 0 {
			field.Children = append(field.Children, astr)
		}
	}
	return field
}
