package xliff

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"sort"
	"strings"
)

// DefaultSourceLanguage is the source writing system of list documents
// when none is configured.
const DefaultSourceLanguage = "en"

// Options controls a conversion to XLIFF.
type Options struct {
	// SourceLanguage overrides the source writing system.
	SourceLanguage string
	// Languages are additional target writing systems. A document is
	// produced for each of them even if the input has no value in it.
	Languages []string
}

// multiUnit is a trans-unit that still holds its value in every writing
// system. It is turned into one TransUnit per document by materializeGroup.
type multiUnit struct {
	TransUnit
	values map[string]string
}

func newMultiUnit(id string, attrs []Attr) *multiUnit {
	return &multiUnit{
		TransUnit: TransUnit{ID: id, Attrs: attrs},
		values:    make(map[string]string),
	}
}

func materializeGroup(g *Group, source, lang string) *Group {
	result := &Group{ID: g.ID, Attrs: g.Attrs}
	for _, child := range g.Children {
		switch t := child.(type) {
		case *Group:
			result.Children = append(result.Children, materializeGroup(t, source, lang))
		case *multiUnit:
			u := &TransUnit{ID: t.ID, Attrs: t.Attrs, Source: t.values[source]}
			if lang != source {
				if v := t.values[lang]; v != "" {
					u.Target = v
					u.State = StateFinal
				}
			}
			result.Children = append(result.Children, u)
		case *TransUnit:
			u := *t
			result.Children = append(result.Children, &u)
		}
	}
	return result
}

// buildDocuments renders one document per writing system. The document
// of the source language has no target language and no targets.
func buildDocuments(filename, source string, found []string, opts Options, groups []*Group) map[string]*Document {
	langs := &languageSet{}
	langs.add(source)
	for _, l := range found {
		langs.add(l)
	}
	for _, l := range opts.Languages {
		langs.add(l)
	}

	docs := make(map[string]*Document, len(langs.order))
	for _, lang := range langs.order {
		doc := &Document{Original: filename, SourceLanguage: source}
		if lang != source {
			doc.TargetLanguage = lang
		}
		for _, g := range groups {
			doc.Groups = append(doc.Groups, materializeGroup(g, source, lang))
		}
		docs[lang] = doc
	}
	return docs
}

// reverseSet is the input of a reverse conversion: the source document and
// the translations of every target document keyed by trans-unit id.
type reverseSet struct {
	source    *Document
	languages []string
	targets   map[string]map[string]string
}

func newReverseSet(docs []*Document) (*reverseSet, error) {
	r := &reverseSet{targets: make(map[string]map[string]string)}
	for _, doc := range docs {
		if doc.IsSource() {
			if r.source != nil {
				return nil, shapeErrorf("more than one source document: %s and %s",
					r.source.Original, doc.Original)
			}
			r.source = doc
			continue
		}
		lang := doc.TargetLanguage
		if _, ok := r.targets[lang]; ok {
			return nil, shapeErrorf("more than one document for language %s", lang)
		}
		values := make(map[string]string)
		for _, u := range doc.Units() {
			if u.Target != "" {
				values[u.ID] = u.Target
			}
		}
		r.targets[lang] = values
		r.languages = append(r.languages, lang)
	}
	if r.source == nil {
		return nil, shapeErrorf("no source document (without target-language) given")
	}
	for _, lang := range r.languages {
		if lang == r.source.SourceLanguage {
			return nil, shapeErrorf("target language %s is the source language", lang)
		}
	}
	sort.Strings(r.languages)
	return r, nil
}

// target returns the translation of a unit in lang, or "".
func (r *reverseSet) target(lang, id string) string {
	return r.targets[lang][id]
}

// groupElement rebuilds the start of the element a group was made from.
func groupElement(g *Group) (*element, error) {
	name := g.Attr(attrElement)
	if name == "" {
		return nil, shapeErrorf("group %q has no %s attribute", g.ID, attrElement)
	}
	e := &element{Name: name}
	for _, a := range g.Attrs {
		if a.Name == attrElement {
			continue
		}
		e.Attrs = append(e.Attrs, xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value})
	}
	return e, nil
}

// Names of the extension attributes written on groups and trans-units.
const (
	attrElement = "element"
	attrKind    = "kind"
)

// kindXML marks a locked unit whose source is an element kept verbatim.
const kindXML = "xml"

// rawUnit carries an element with no translatable content through XLIFF.
func rawUnit(id string, e *element) *TransUnit {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	writeElement(bw, e, 0)
	bw.Flush()
	return &TransUnit{
		ID:     id,
		Attrs:  []Attr{{attrElement, e.Name}, {attrKind, kindXML}},
		Source: strings.TrimSuffix(buf.String(), "\n"),
		Locked: true,
	}
}

func isRawUnit(u *TransUnit) bool {
	return u.Attr(attrKind) == kindXML
}

// rawElement parses the element carried by a unit made by rawUnit.
func rawElement(u *TransUnit) (*element, error) {
	e, err := parseTree(strings.NewReader(u.Source))
	if err != nil {
		return nil, shapeErrorf("trans-unit %q: bad element: %v", u.ID, err)
	}
	if name := u.Attr(attrElement); e.Name != name {
		return nil, shapeErrorf("trans-unit %q: got <%s>, expected <%s>", u.ID, e.Name, name)
	}
	return e, nil
}

// elementAttrs records the element name and its attributes so that the
// element can be rebuilt from the group.
func elementAttrs(e *element) []Attr {
	attrs := []Attr{{Name: attrElement, Value: e.Name}}
	for _, a := range e.Attrs {
		if a.Name.Local == attrElement {
			continue
		}
		attrs = append(attrs, Attr{Name: a.Name.Local, Value: a.Value})
	}
	return attrs
}
