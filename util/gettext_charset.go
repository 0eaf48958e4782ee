package util

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/qiniu/iconv"
	log "github.com/sirupsen/logrus"
)

const defaultEncoding = "UTF-8"

var rePoCharset = regexp.MustCompile(`(?i)charset=([A-Za-z0-9_.:-]+)`)

func sameEncoding(enc1, enc2 string) bool {
	enc1 = strings.Replace(strings.ToLower(enc1), "-", "", -1)
	enc2 = strings.Replace(strings.ToLower(enc2), "-", "", -1)
	return enc1 == enc2
}

var rePoHeaderID = regexp.MustCompile(`(?m)^msgid ""[ \t\r]*\nmsgstr `)

// poHeader returns the first record of a raw PO file if it is the header,
// that is the bytes up to the first blank line.
func poHeader(data []byte) []byte {
	seen := false
	for start := 0; start < len(data); {
		end := bytes.IndexByte(data[start:], '\n')
		if end < 0 {
			end = len(data) - start
		}
		if len(bytes.TrimSpace(data[start:start+end])) == 0 {
			if seen {
				data = data[:start]
				break
			}
		} else {
			seen = true
		}
		start += end + 1
	}
	if !rePoHeaderID.Match(data) {
		return nil
	}
	return data
}

// PoCharset returns the charset declared in the Content-Type header of a
// raw PO file, or an empty string if none is declared.
func PoCharset(data []byte) string {
	m := rePoCharset.FindSubmatch(poHeader(data))
	if m == nil {
		return ""
	}
	return string(m[1])
}

// DecodePoCharset converts data to UTF-8 according to the charset declared
// in its header. Data already in UTF-8, or using the "CHARSET" template
// placeholder, is returned unchanged except for validation.
func DecodePoCharset(data []byte) ([]byte, error) {
	charset := PoCharset(data)
	if charset == "" || charset == "CHARSET" || sameEncoding(charset, defaultEncoding) {
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("bad %s characters in PO file", defaultEncoding)
		}
		return data, nil
	}

	cd, err := iconv.Open(defaultEncoding, charset)
	if err != nil {
		return nil, fmt.Errorf("iconv.Open failed: %w", err)
	}
	defer cd.Close()

	out, inleft, err := cd.Conv(data, make([]byte, len(data)*2+16))
	if err != nil {
		return nil, fmt.Errorf("bad %s characters in PO file: %w", charset, err)
	}
	if inleft > 0 {
		return nil, fmt.Errorf("bad %s characters in PO file: %d bytes left", charset, inleft)
	}
	log.Debugf("converted PO file from %s to %s", charset, defaultEncoding)
	loc := rePoCharset.FindSubmatchIndex(poHeader(out))
	if loc != nil {
		var buf bytes.Buffer
		buf.Write(out[:loc[2]])
		buf.WriteString(defaultEncoding)
		buf.Write(out[loc[3]:])
		out = buf.Bytes()
	}
	return out, nil
}
