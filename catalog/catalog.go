// Package catalog applies PO translations to strings-catalog XML documents.
//
// A strings catalog has the shape
//
//	<strings>
//	  <group id="...">
//	    <string id="..." txt="..."/>
//	  </group>
//	</strings>
//
// with nested groups permitted. The document is edited in place: only the
// txt attributes of translated strings change and new groups are inserted
// before the closing </strings> tag. All other bytes are preserved.
package catalog

import (
	"encoding/xml"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/l10n-tools/fw-po-helper/util"
	log "github.com/sirupsen/logrus"
)

// Names of the groups holding strings that only exist in the PO catalog.
const (
	GroupAttributes  = "LocalizedAttributes"
	GroupLiterals    = "LocalizedLiterals"
	GroupContextHelp = "LocalizedContextHelp"
)

// groupOrder is the order new groups are appended in.
var groupOrder = []string{GroupAttributes, GroupLiterals, GroupContextHelp}

// Stats counts the changes made by a merge.
type Stats struct {
	Replaced int
	Added    int
}

// ClassifyEntry returns the synthetic group an entry belongs to, judging by
// the provenance recorded in its auto comments, or "" if none applies.
func ClassifyEntry(e *util.PoEntry) string {
	for _, c := range e.AutoComments {
		idx := strings.Index(c, "::")
		if idx < 0 {
			continue
		}
		file, xpath := c[:idx], c[idx+2:]
		if strings.Contains(path.Base(file), "ContextHelp") {
			return GroupContextHelp
		}
		last := xpath
		if i := strings.LastIndex(xpath, "/"); i >= 0 {
			last = xpath[i+1:]
		}
		switch {
		case strings.HasPrefix(last, "@"):
			return GroupAttributes
		case last == "lit" || strings.HasPrefix(last, "lit["):
			return GroupLiterals
		}
	}
	return ""
}

// existingGroup is a top-level group already in the document.
type existingGroup struct {
	ids      map[string]bool
	endStart int
}

type mergeState struct {
	data        []byte
	splices     []util.Splice
	translation map[string]string
	represented map[string]bool
	groups      map[string]*existingGroup
	stats       Stats

	rootEnd      int
	rootStartEnd int
	rootStart    int
	selfClosing  bool
}

// Merge applies the translations of po to a strings-catalog document.
func Merge(doc []byte, po *util.PoCatalog) ([]byte, error) {
	out, _, err := MergeWithStats(doc, po)
	return out, err
}

// MergeWithStats is Merge that also reports what changed.
func MergeWithStats(doc []byte, po *util.PoCatalog) ([]byte, *Stats, error) {
	s := &mergeState{
		data:        doc,
		translation: po.Translations(),
		represented: make(map[string]bool),
		groups:      make(map[string]*existingGroup),
		rootEnd:     -1,
	}
	if err := s.scan(); err != nil {
		return nil, nil, err
	}
	if err := s.appendGroups(po); err != nil {
		return nil, nil, err
	}
	out, err := util.ApplySplices(doc, s.splices)
	if err != nil {
		return nil, nil, err
	}
	return out, &s.stats, nil
}

func (s *mergeState) scan() error {
	type frame struct {
		name    string
		groupID string
	}
	var (
		stack  []frame
		inRoot bool
	)

	err := util.WalkXMLTokens(s.data, func(tok xml.Token, start, end int) error {
		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			if len(stack) == 0 {
				if inRoot {
					return s.formatError(start, "multiple root elements")
				}
				if name != "strings" {
					return s.formatError(start, fmt.Sprintf("root element is <%s>, expected <strings>", name))
				}
				inRoot = true
				s.rootStart = start
				s.rootStartEnd = end
				stack = append(stack, frame{name: name})
				return nil
			}
			parent := stack[len(stack)-1]
			if parent.name == "string" {
				stack = append(stack, frame{name: "string"})
				return nil
			}
			f := frame{name: name, groupID: parent.groupID}
			switch name {
			case "group":
				if len(stack) == 1 {
					id, _ := util.XMLAttr(t, "id")
					f.groupID = id
					if _, ok := s.groups[id]; !ok {
						s.groups[id] = &existingGroup{ids: make(map[string]bool), endStart: -1}
					}
				}
			case "string":
				s.visitString(t, start, end, f.groupID)
			default:
				return s.formatError(start, fmt.Sprintf("unexpected element <%s> in <%s>", name, parent.name))
			}
			stack = append(stack, f)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil
			}
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			switch {
			case len(stack) == 0:
				s.rootEnd = start
				s.selfClosing = start == end
			case len(stack) == 1 && f.name == "group":
				if g := s.groups[f.groupID]; g != nil {
					g.endStart = start
					if start == end {
						g.endStart = -1
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if s.rootEnd < 0 {
		return &util.FormatError{Msg: "missing <strings> root element"}
	}
	return nil
}

func (s *mergeState) formatError(offset int, msg string) error {
	return &util.FormatError{Line: strings.Count(string(s.data[:offset]), "\n") + 1, Msg: msg}
}

func (s *mergeState) visitString(se xml.StartElement, start, end int, groupID string) {
	id, _ := util.XMLAttr(se, "id")
	txt, hasTxt := util.XMLAttr(se, "txt")
	key := txt
	if !hasTxt {
		key = id
	}
	s.represented[key] = true
	s.represented[id] = true
	if g := s.groups[groupID]; g != nil {
		g.ids[id] = true
	}

	translated := s.translation[key]
	if translated == "" {
		return
	}
	raw := s.data[start:end]
	if vs, ve, ok := util.FindXMLAttr(raw, "txt"); ok {
		s.splices = append(s.splices, util.Splice{
			Start: start + vs, End: start + ve, Text: util.EscapeXMLAttr(translated),
		})
	} else {
		// Insert the attribute before the closing "/>" or ">".
		pos := end - 1
		if pos > start && raw[len(raw)-2] == '/' {
			pos--
		}
		s.splices = append(s.splices, util.Splice{
			Start: pos, End: pos, Text: fmt.Sprintf(` txt="%s"`, util.EscapeXMLAttr(translated)),
		})
	}
	s.stats.Replaced++
}

func formatString(id, txt, indent string) string {
	return fmt.Sprintf("%s<string id=\"%s\" txt=\"%s\" />\n",
		indent, util.EscapeXMLAttr(id), util.EscapeXMLAttr(txt))
}

func (s *mergeState) appendGroups(po *util.PoCatalog) error {
	additions := make(map[string][]string)
	added := make(map[string]map[string]bool)
	for _, e := range po.Entries {
		if !e.IsTranslated() {
			continue
		}
		id := e.MsgID()
		if s.represented[id] {
			continue
		}
		group := ClassifyEntry(e)
		if group == "" {
			continue
		}
		if g := s.groups[group]; g != nil && g.ids[id] {
			continue
		}
		if added[group] == nil {
			added[group] = make(map[string]bool)
		}
		if added[group][id] {
			continue
		}
		added[group][id] = true
		additions[group] = append(additions[group], formatString(id, e.MsgStr(), "    "))
		s.stats.Added++
	}

	var newGroups strings.Builder
	for _, group := range groupOrder {
		lines := additions[group]
		if len(lines) == 0 {
			continue
		}
		if g := s.groups[group]; g != nil && g.endStart >= 0 {
			s.splices = append(s.splices, util.Splice{
				Start: g.endStart, End: g.endStart, Text: strings.Join(lines, "") + "  ",
			})
			log.Debugf("appended %d strings to existing group %s", len(lines), group)
			continue
		}
		if g := s.groups[group]; g != nil {
			log.Warnf("group %s is empty and self-closing, adding a second one", group)
		}
		fmt.Fprintf(&newGroups, "  <group id=\"%s\">\n%s  </group>\n", group, strings.Join(lines, ""))
		log.Debugf("added group %s with %d strings", group, len(lines))
	}
	if newGroups.Len() == 0 {
		return nil
	}

	if s.selfClosing {
		raw := string(s.data[s.rootStart:s.rootStartEnd])
		open := strings.TrimSuffix(strings.TrimSpace(strings.TrimSuffix(raw, "/>")), "/") + ">"
		s.splices = append(s.splices, util.Splice{
			Start: s.rootStart, End: s.rootStartEnd,
			Text:  open + "\n" + newGroups.String() + "</strings>",
		})
		return nil
	}
	s.splices = append(s.splices, util.Splice{
		Start: s.rootEnd, End: s.rootEnd, Text: newGroups.String(),
	})
	return nil
}

// MergeFile merges translations into src and writes the result to dst.
func MergeFile(src string, po *util.PoCatalog, dst string) (*Stats, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", src, err)
	}
	out, stats, err := MergeWithStats(data, po)
	if err != nil {
		if fe, ok := err.(*util.FormatError); ok && fe.File == "" {
			fe.File = src
		}
		return nil, err
	}
	if err := os.WriteFile(dst, out, 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", dst, err)
	}
	log.Debugf("%s: %d strings translated, %d added", dst, stats.Replaced, stats.Added)
	return stats, nil
}
