// Package util provides PO catalog parsing, writing and validation utilities.
package util

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// PoEntry represents a single record of a PO/POT catalog.
//
// IDLines and StrLines hold the quoted segments exactly as they appear in
// the file (escaped, without the surrounding quotes). The first segment is
// the one written on the msgid/msgstr keyword line. Comment slices are
// either nil or non-empty.
type PoEntry struct {
	Context      []string
	IDLines      []string
	StrLines     []string
	UserComments []string
	AutoComments []string
	References   []string
	Flags        []string
}

// PoCatalog is a parsed PO/POT file.
type PoCatalog struct {
	// Header is the record with an empty msgid, nil if the file has none.
	Header *PoEntry
	// Entries holds the non-header, non-obsolete records in file order.
	Entries []*PoEntry
	// Obsolete is the number of "#~" records that were dropped.
	Obsolete int
}

// FormatError reports malformed catalog or XML input.
type FormatError struct {
	File string
	Line int
	Msg  string
}

func (e *FormatError) Error() string {
	var prefix string
	if e.File != "" {
		prefix = e.File + ":"
	}
	if e.Line > 0 {
		prefix += fmt.Sprintf("%d:", e.Line)
	}
	if prefix != "" {
		return prefix + " " + e.Msg
	}
	return e.Msg
}

// NewPoEntry creates an untranslated entry for the logical string msgid.
func NewPoEntry(msgid string) *PoEntry {
	return &PoEntry{
		IDLines:  SplitPoLines(msgid),
		StrLines: []string{""},
	}
}

// MsgID returns the logical (unescaped) key of the entry.
func (e *PoEntry) MsgID() string {
	return UnescapePoString(strings.Join(e.IDLines, ""))
}

// MsgStr returns the logical (unescaped) translation of the entry.
func (e *PoEntry) MsgStr() string {
	return UnescapePoString(strings.Join(e.StrLines, ""))
}

// MsgCtxt returns the logical message context, empty if there is none.
func (e *PoEntry) MsgCtxt() string {
	return UnescapePoString(strings.Join(e.Context, ""))
}

// SetMsgStr replaces the translation with the logical string s.
func (e *PoEntry) SetMsgStr(s string) {
	e.StrLines = SplitPoLines(s)
}

// IsTranslated returns true if the entry has a non-empty, non-fuzzy translation.
func (e *PoEntry) IsTranslated() bool {
	return !e.IsFuzzy() && e.MsgStr() != ""
}

// IsFuzzy returns true if the entry carries the fuzzy flag.
func (e *PoEntry) IsFuzzy() bool {
	return e.HasFlag("fuzzy")
}

// HasFlag checks if a specific flag is present.
func (e *PoEntry) HasFlag(flag string) bool {
	for _, f := range e.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// AddAutoComment appends an extracted comment.
func (e *PoEntry) AddAutoComment(comment string) {
	e.AutoComments = append(e.AutoComments, comment)
}

// AddReference appends a reference comment.
func (e *PoEntry) AddReference(ref string) {
	e.References = append(e.References, ref)
}

// Clone returns a deep copy of e.
func (e *PoEntry) Clone() *PoEntry {
	return &PoEntry{
		Context:      cloneStrings(e.Context),
		IDLines:      cloneStrings(e.IDLines),
		StrLines:     cloneStrings(e.StrLines),
		UserComments: cloneStrings(e.UserComments),
		AutoComments: cloneStrings(e.AutoComments),
		References:   cloneStrings(e.References),
		Flags:        cloneStrings(e.Flags),
	}
}

func cloneStrings(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// HeaderField returns the value of a header field such as "Language".
func (c *PoCatalog) HeaderField(name string) string {
	if c.Header == nil {
		return ""
	}
	for _, line := range strings.Split(c.Header.MsgStr(), "\n") {
		if idx := strings.Index(line, ":"); idx > 0 {
			if strings.EqualFold(strings.TrimSpace(line[:idx]), name) {
				return strings.TrimSpace(line[idx+1:])
			}
		}
	}
	return ""
}

// Translations returns a map from msgid to translation for every translated entry.
func (c *PoCatalog) Translations() map[string]string {
	result := make(map[string]string, len(c.Entries))
	for _, e := range c.Entries {
		if e.IsTranslated() {
			result[e.MsgID()] = e.MsgStr()
		}
	}
	return result
}

// NewPoHeader creates the header record of a POT file.
func NewPoHeader(project string, now time.Time) *PoEntry {
	date := now.UTC().Format("2006-01-02 15:04-0700")
	return &PoEntry{
		IDLines: []string{""},
		StrLines: []string{
			"",
			EscapePoString("Project-Id-Version: " + project + "\n"),
			EscapePoString("POT-Creation-Date: " + date + "\n"),
			EscapePoString("PO-Revision-Date: " + date + "\n"),
			EscapePoString("MIME-Version: 1.0\n"),
			EscapePoString("Content-Type: text/plain; charset=UTF-8\n"),
			EscapePoString("Content-Transfer-Encoding: 8bit\n"),
		},
	}
}

type poField int

const (
	poFieldNone poField = iota
	poFieldCtxt
	poFieldID
	poFieldStr
)

// poRecord accumulates the lines of one blank-line separated record.
type poRecord struct {
	entry    *PoEntry
	field    poField
	hasID    bool
	hasStr   bool
	obsolete bool
	line     int
}

func (r *poRecord) empty() bool {
	e := r.entry
	return !r.hasID && !r.obsolete && e.UserComments == nil && e.AutoComments == nil &&
		e.References == nil && e.Flags == nil && e.Context == nil
}

// ParsePoCatalog parses the content of a PO/POT file.
func ParsePoCatalog(data []byte) (*PoCatalog, error) {
	return parsePoCatalog("", data)
}

// ReadPoCatalogFile reads and parses a PO/POT file. Catalogs declaring a
// charset other than UTF-8 are converted before parsing.
func ReadPoCatalogFile(path string) (*PoCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	data, err = DecodePoCharset(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return parsePoCatalog(path, data)
}

func parsePoCatalog(file string, data []byte) (*PoCatalog, error) {
	var (
		catalog = &PoCatalog{}
		rec     *poRecord
		lineNum int
	)

	newErr := func(format string, a ...interface{}) error {
		return &FormatError{File: file, Line: lineNum, Msg: fmt.Sprintf(format, a...)}
	}

	flush := func() error {
		if rec == nil {
			return nil
		}
		r := rec
		rec = nil
		if r.obsolete {
			catalog.Obsolete++
			return nil
		}
		if !r.hasID {
			if r.field == poFieldCtxt {
				return &FormatError{File: file, Line: r.line, Msg: "msgctxt without msgid"}
			}
			log.Debugf("%s:%d: ignore record with comments only", file, r.line)
			return nil
		}
		if !r.hasStr {
			return &FormatError{File: file, Line: r.line, Msg: "msgid without msgstr"}
		}
		if r.entry.MsgID() == "" && r.entry.Context == nil {
			if catalog.Header != nil || len(catalog.Entries) > 0 {
				return &FormatError{File: file, Line: r.line, Msg: "empty msgid outside of header"}
			}
			catalog.Header = r.entry
			return nil
		}
		catalog.Entries = append(catalog.Entries, r.entry)
		return nil
	}

	start := func() {
		if rec == nil {
			rec = &poRecord{entry: &PoEntry{}, line: lineNum}
		}
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}

		if strings.HasPrefix(trimmed, "#") {
			// A comment after msgstr begins the next record.
			if rec != nil && rec.hasStr {
				if err := flush(); err != nil {
					return nil, err
				}
			}
			start()
			if err := parsePoComment(rec, trimmed); err != nil {
				return nil, newErr("%v", err)
			}
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "msgid_plural"), strings.HasPrefix(trimmed, "msgstr["):
			return nil, newErr("plural forms are not supported: %s", trimmed)
		case strings.HasPrefix(trimmed, "msgctxt"):
			if rec != nil && rec.hasStr {
				if err := flush(); err != nil {
					return nil, err
				}
			}
			start()
			if rec.hasID || rec.entry.Context != nil {
				return nil, newErr("unexpected msgctxt")
			}
			value, err := parsePoKeyword(trimmed, "msgctxt")
			if err != nil {
				return nil, newErr("%v", err)
			}
			rec.entry.Context = []string{value}
			rec.field = poFieldCtxt
		case strings.HasPrefix(trimmed, "msgid"):
			if rec != nil && rec.hasStr {
				if err := flush(); err != nil {
					return nil, err
				}
			}
			start()
			if rec.hasID {
				return nil, newErr("duplicate msgid")
			}
			value, err := parsePoKeyword(trimmed, "msgid")
			if err != nil {
				return nil, newErr("%v", err)
			}
			rec.entry.IDLines = []string{value}
			rec.hasID = true
			rec.field = poFieldID
		case strings.HasPrefix(trimmed, "msgstr"):
			if rec == nil || !rec.hasID || rec.hasStr {
				return nil, newErr("msgstr without msgid")
			}
			value, err := parsePoKeyword(trimmed, "msgstr")
			if err != nil {
				return nil, newErr("%v", err)
			}
			rec.entry.StrLines = []string{value}
			rec.hasStr = true
			rec.field = poFieldStr
		case strings.HasPrefix(trimmed, `"`):
			if rec == nil || rec.field == poFieldNone {
				return nil, newErr("unexpected string literal")
			}
			value, err := parsePoQuoted(trimmed)
			if err != nil {
				return nil, newErr("%v", err)
			}
			switch rec.field {
			case poFieldCtxt:
				rec.entry.Context = append(rec.entry.Context, value)
			case poFieldID:
				rec.entry.IDLines = append(rec.entry.IDLines, value)
			case poFieldStr:
				rec.entry.StrLines = append(rec.entry.StrLines, value)
			}
		default:
			return nil, newErr("unrecognized line: %s", trimmed)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading PO file: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return catalog, nil
}

// parsePoComment adds a comment line to the record being built.
func parsePoComment(rec *poRecord, line string) error {
	body := line[1:]
	if body == "" {
		rec.entry.UserComments = append(rec.entry.UserComments, "")
		return nil
	}
	switch body[0] {
	case ' ', '\t':
		rec.entry.UserComments = append(rec.entry.UserComments, body[1:])
	case '.':
		rec.entry.AutoComments = append(rec.entry.AutoComments, trimCommentBody(body[1:]))
	case ':':
		rec.entry.References = append(rec.entry.References, strings.TrimSpace(body[1:]))
	case ',':
		for _, flag := range strings.Split(body[1:], ",") {
			if flag = strings.TrimSpace(flag); flag != "" {
				rec.entry.Flags = append(rec.entry.Flags, flag)
			}
		}
	case '~':
		rec.obsolete = true
	case '|':
		// Previous msgid of a fuzzy entry, not kept.
	default:
		rec.entry.UserComments = append(rec.entry.UserComments, body)
	}
	return nil
}

func trimCommentBody(s string) string {
	if strings.HasPrefix(s, " ") {
		return s[1:]
	}
	return s
}

// parsePoKeyword parses `keyword "value"` and returns the escaped value.
func parsePoKeyword(line, keyword string) (string, error) {
	rest := strings.TrimPrefix(line, keyword)
	if rest == "" || (rest[0] != ' ' && rest[0] != '\t' && rest[0] != '"') {
		return "", fmt.Errorf("bad %s line: %s", keyword, line)
	}
	return parsePoQuoted(rest)
}

// parsePoQuoted returns the content of a quoted PO string literal, still escaped.
func parsePoQuoted(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", fmt.Errorf("bad string literal: %s", s)
	}
	body := s[1 : len(s)-1]
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '\\':
			if i+1 >= len(body) {
				return "", fmt.Errorf("unterminated string literal: %s", s)
			}
			i++
		case '"':
			return "", fmt.Errorf("unescaped quote in string literal: %s", s)
		}
	}
	return body, nil
}

// WritePoCatalog writes the catalog in PO format.
func WritePoCatalog(w io.Writer, c *PoCatalog) error {
	bw := bufio.NewWriter(w)
	first := true
	if c.Header != nil {
		writePoEntry(bw, c.Header)
		first = false
	}
	for _, e := range c.Entries {
		if !first {
			bw.WriteString("\n")
		}
		writePoEntry(bw, e)
		first = false
	}
	return bw.Flush()
}

// BuildPoContent returns the catalog serialized in PO format.
func BuildPoContent(c *PoCatalog) []byte {
	var buf bytes.Buffer
	_ = WritePoCatalog(&buf, c)
	return buf.Bytes()
}

// WriteFile writes the catalog to disk.
func (c *PoCatalog) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WritePoCatalog(f, c); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func writePoEntry(w *bufio.Writer, e *PoEntry) {
	for _, c := range e.UserComments {
		if c == "" {
			w.WriteString("#\n")
		} else {
			fmt.Fprintf(w, "# %s\n", c)
		}
	}
	for _, c := range e.AutoComments {
		if c == "" {
			w.WriteString("#.\n")
		} else {
			fmt.Fprintf(w, "#. %s\n", c)
		}
	}
	for _, ref := range e.References {
		fmt.Fprintf(w, "#: %s\n", ref)
	}
	if len(e.Flags) > 0 {
		fmt.Fprintf(w, "#, %s\n", strings.Join(e.Flags, ","))
	}
	if e.Context != nil {
		writePoLines(w, "msgctxt", e.Context)
	}
	writePoLines(w, "msgid", e.IDLines)
	writePoLines(w, "msgstr", e.StrLines)
}

func writePoLines(w *bufio.Writer, keyword string, lines []string) {
	if len(lines) == 0 {
		fmt.Fprintf(w, "%s \"\"\n", keyword)
		return
	}
	fmt.Fprintf(w, "%s \"%s\"\n", keyword, lines[0])
	for _, line := range lines[1:] {
		fmt.Fprintf(w, "\"%s\"\n", line)
	}
}

// EscapePoString applies C-style escaping for use inside a PO string literal.
func EscapePoString(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// UnescapePoString decodes PO escape sequences in s into real characters.
func UnescapePoString(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			default:
				b.WriteByte(s[i])
				continue
			}
			i++
		} else {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// SplitPoLines converts a logical string into escaped PO lines. A string with
// embedded newlines becomes an empty first line followed by one line per
// newline-terminated segment, the way gettext tools lay out long messages.
func SplitPoLines(s string) []string {
	idx := strings.Index(s, "\n")
	if idx < 0 || idx == len(s)-1 {
		return []string{EscapePoString(s)}
	}
	lines := []string{""}
	for s != "" {
		idx = strings.Index(s, "\n")
		if idx < 0 {
			lines = append(lines, EscapePoString(s))
			break
		}
		lines = append(lines, EscapePoString(s[:idx+1]))
		s = s[idx+1:]
	}
	return lines
}
