package util

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Splice replaces data[Start:End] with Text.
type Splice struct {
	Start int
	End   int
	Text  string
}

// ApplySplices returns a copy of data with all splices applied. Splices
// must not overlap; an insertion has Start == End.
func ApplySplices(data []byte, splices []Splice) ([]byte, error) {
	sorted := make([]Splice, len(splices))
	copy(sorted, splices)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	var (
		buf bytes.Buffer
		pos int
	)
	buf.Grow(len(data))
	for _, s := range sorted {
		if s.Start < pos || s.End < s.Start || s.End > len(data) {
			return nil, fmt.Errorf("invalid splice [%d:%d] at position %d", s.Start, s.End, pos)
		}
		buf.Write(data[pos:s.Start])
		buf.WriteString(s.Text)
		pos = s.End
	}
	buf.Write(data[pos:])
	return buf.Bytes(), nil
}

// WalkXMLTokens decodes data and calls fn for every token with its byte
// range in data. Tokens are copies and stay valid after fn returns. An
// end element synthesized for a self-closing tag has an empty range at the
// end of its start element. Returning io.EOF from fn stops the walk
// without error.
func WalkXMLTokens(data []byte, fn func(tok xml.Token, start, end int) error) error {
	base := 0
	body := data
	if bytes.HasPrefix(body, utf8BOM) {
		base = len(utf8BOM)
		body = body[base:]
	}

	d := xml.NewDecoder(bytes.NewReader(body))
	for {
		start := int(d.InputOffset())
		tok, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &FormatError{Line: lineAt(body, start), Msg: err.Error()}
		}
		end := int(d.InputOffset())
		if err := fn(xml.CopyToken(tok), base+start, base+end); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

func lineAt(data []byte, offset int) int {
	if offset > len(data) {
		offset = len(data)
	}
	return bytes.Count(data[:offset], []byte("\n")) + 1
}

// FindXMLAttr locates the value of attribute name inside the raw bytes of a
// start tag and returns its range, excluding the quotes.
func FindXMLAttr(raw []byte, name string) (int, int, bool) {
	i := 0
	// skip "<" and the element name
	for i < len(raw) && raw[i] == '<' {
		i++
	}
	for i < len(raw) && !isXMLSpace(raw[i]) && raw[i] != '>' && raw[i] != '/' {
		i++
	}
	for i < len(raw) {
		for i < len(raw) && isXMLSpace(raw[i]) {
			i++
		}
		if i >= len(raw) || raw[i] == '>' || raw[i] == '/' {
			return 0, 0, false
		}
		nameStart := i
		for i < len(raw) && raw[i] != '=' && !isXMLSpace(raw[i]) {
			i++
		}
		attrName := string(raw[nameStart:i])
		for i < len(raw) && isXMLSpace(raw[i]) {
			i++
		}
		if i >= len(raw) || raw[i] != '=' {
			return 0, 0, false
		}
		i++
		for i < len(raw) && isXMLSpace(raw[i]) {
			i++
		}
		if i >= len(raw) || (raw[i] != '"' && raw[i] != '\'') {
			return 0, 0, false
		}
		quote := raw[i]
		i++
		valueStart := i
		for i < len(raw) && raw[i] != quote {
			i++
		}
		if i >= len(raw) {
			return 0, 0, false
		}
		if attrName == name {
			return valueStart, i, true
		}
		i++
	}
	return 0, 0, false
}

func isXMLSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// EscapeXMLAttr escapes s for use inside a double-quoted attribute value.
func EscapeXMLAttr(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// EscapeXMLText escapes s for use as element content. Newlines are kept
// as-is, unlike in attributes.
func EscapeXMLText(s string) string {
	var buf bytes.Buffer
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		default:
			buf.WriteByte(c)
		}
	}
	return buf.String()
}

// XMLAttr returns the value of the named attribute and whether it is set.
func XMLAttr(se xml.StartElement, name string) (string, bool) {
	for _, a := range se.Attr {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}
