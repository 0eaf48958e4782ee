package xliff

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/l10n-tools/fw-po-helper/util"
	log "github.com/sirupsen/logrus"
)

// Splitter writes each <List> of a multi-list document to its own file,
// named after the owner and field of the list.
type Splitter struct {
	// Expected is the number of lists the document must contain. Zero or
	// less accepts any number but none.
	Expected int
	// Confirm, if set, is called with the output files that already exist
	// before anything is written. An error aborts the split.
	Confirm func(existing []string) error
	// DryRun validates the document and returns the files that would be
	// written without writing them.
	DryRun bool
}

type splitList struct {
	name string
	data bytes.Buffer
}

// ListFileName returns the name of the file a list is split to.
func ListFileName(owner, field string) string {
	return owner + "_" + field + ".xml"
}

// SplitLists splits the lists of r into outDir and returns the files written.
func SplitLists(r io.Reader, outDir string, expected int) ([]string, error) {
	return (&Splitter{Expected: expected}).Split(r, outDir)
}

// SplitSourceLists is SplitLists reading from a file.
func SplitSourceLists(path, outDir string, expected int) ([]string, error) {
	return (&Splitter{Expected: expected}).SplitFile(path, outDir)
}

// SplitFile splits the lists of the document at path.
func (s *Splitter) SplitFile(path, outDir string) ([]string, error) {
	if !util.IsFile(path) {
		return nil, &ShapeError{File: path, Msg: "source file does not exist"}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	files, err := s.Split(f, outDir)
	if err != nil {
		switch e := err.(type) {
		case *ShapeError:
			e.File = path
		case *util.FormatError:
			e.File = path
		}
		return nil, err
	}
	return files, nil
}

// Split reads the document from r. Lists are buffered and only written
// once the whole document has been validated.
func (s *Splitter) Split(r io.Reader, outDir string) ([]string, error) {
	var (
		root  *xml.StartElement
		lists []*splitList
		names = make(map[string]bool)
		cur   *splitList
		enc   *xml.Encoder
		depth int
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
			depth++
			switch depth {
			case 1:
				if t.Name.Local != listsRoot {
					return nil, shapeErrorf("source file is not in the expected format: root is <%s>, expected <%s>",
						t.Name.Local, listsRoot)
				}
				start := t.Copy()
				root = &start
				continue
			case 2:
				if t.Name.Local != listElement {
					log.Debugf("skip <%s> under <%s>", t.Name.Local, listsRoot)
					if err := d.Skip(); err != nil {
						line, _ := d.InputPos()
						return nil, &util.FormatError{Line: line, Msg: err.Error()}
					}
					depth--
					continue
				}
				owner, _ := util.XMLAttr(t, "owner")
				field, _ := util.XMLAttr(t, "field")
				if owner == "" || field == "" {
					return nil, shapeErrorf("<List> needs both owner and field attributes")
				}
				name := ListFileName(owner, field)
				if names[name] {
					return nil, shapeErrorf("list %s_%s appears more than once", owner, field)
				}
				names[name] = true
				cur = &splitList{name: name}
				enc = xml.NewEncoder(&cur.data)
			}
		case xml.EndElement:
			depth--
		}

		if cur == nil {
			continue
		}
		if err := enc.EncodeToken(tok); err != nil {
			return nil, fmt.Errorf("failed to copy list %s: %w", cur.name, err)
		}
		if _, ok := tok.(xml.EndElement); ok && depth == 1 {
			if err := enc.Flush(); err != nil {
				return nil, err
			}
			lists = append(lists, cur)
			cur = nil
		}
	}

	if root == nil {
		return nil, shapeErrorf("source file is not in the expected format: no root element")
	}
	switch {
	case s.Expected > 0 && len(lists) != s.Expected:
		return nil, shapeErrorf("unexpected list count: found %d, expected %d", len(lists), s.Expected)
	case len(lists) == 0:
		return nil, shapeErrorf("unexpected list count: found 0, expected at least one")
	}

	var files, existing []string
	for _, l := range lists {
		path := filepath.Join(outDir, l.name)
		files = append(files, path)
		if util.Exist(path) {
			existing = append(existing, path)
		}
	}
	if s.DryRun {
		return files, nil
	}
	if len(existing) > 0 && s.Confirm != nil {
		if err := s.Confirm(existing); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, err
	}
	for i, l := range lists {
		if err := os.WriteFile(files[i], wrapList(root, l.data.Bytes()), 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", files[i], err)
		}
		log.Debugf("wrote %s", files[i])
	}
	return files, nil
}

// wrapList puts a single list back under a copy of the original root.
func wrapList(root *xml.StartElement, list []byte) []byte {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString("<" + root.Name.Local)
	for _, a := range root.Attr {
		name := a.Name.Local
		if a.Name.Space != "" {
			name = a.Name.Space + ":" + name
		}
		fmt.Fprintf(&b, " %s=\"%s\"", name, util.EscapeXMLAttr(a.Value))
	}
	b.WriteString(">\n")
	b.Write(list)
	b.WriteString("\n</" + root.Name.Local + ">\n")
	return []byte(b.String())
}
