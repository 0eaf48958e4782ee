package util

import (
	"encoding/xml"
	"io"
	"testing"
)

func TestApplySplices(t *testing.T) {
	data := []byte("hello world")
	out, err := ApplySplices(data, []Splice{
		{Start: 6, End: 11, Text: "there"},
		{Start: 0, End: 0, Text: ">> "},
		{Start: 5, End: 5, Text: ","},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(out), ">> hello, there"; got != want {
		t.Errorf("ApplySplices() = %q, want %q", got, want)
	}
	if string(data) != "hello world" {
		t.Error("ApplySplices must not modify its input")
	}

	if _, err := ApplySplices(data, []Splice{{Start: 0, End: 5}, {Start: 3, End: 6}}); err == nil {
		t.Error("expected error for overlapping splices")
	}
	if _, err := ApplySplices(data, []Splice{{Start: 8, End: 20}}); err == nil {
		t.Error("expected error for out of range splice")
	}
}

func TestWalkXMLTokensOffsets(t *testing.T) {
	data := []byte("\xEF\xBB\xBF<root a=\"1\"><item id='x'/>text</root>")
	var got []string
	err := WalkXMLTokens(data, func(tok xml.Token, start, end int) error {
		switch tok.(type) {
		case xml.StartElement, xml.EndElement, xml.CharData:
			got = append(got, string(data[start:end]))
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{`<root a="1">`, `<item id='x'/>`, ``, `text`, `</root>`}
	if len(got) != len(want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWalkXMLTokensStopAndError(t *testing.T) {
	count := 0
	err := WalkXMLTokens([]byte("<a><b/><c/></a>"), func(tok xml.Token, start, end int) error {
		count++
		if count == 2 {
			return io.EOF
		}
		return nil
	})
	if err != nil || count != 2 {
		t.Errorf("walk should stop quietly, got err=%v count=%d", err, count)
	}

	err = WalkXMLTokens([]byte("<a>\n<b></a>"), func(xml.Token, int, int) error { return nil })
	fe, ok := err.(*FormatError)
	if !ok {
		t.Fatalf("expected *FormatError, got %T: %v", err, err)
	}
	if fe.Line != 2 {
		t.Errorf("error line = %d, want 2", fe.Line)
	}
}

func TestFindXMLAttr(t *testing.T) {
	raw := []byte(`<string id="a.b" txt = 'it&apos;s'/>`)
	start, end, ok := FindXMLAttr(raw, "txt")
	if !ok || string(raw[start:end]) != "it&apos;s" {
		t.Errorf("FindXMLAttr(txt) = %q, %v", raw[start:end], ok)
	}
	start, end, ok = FindXMLAttr(raw, "id")
	if !ok || string(raw[start:end]) != "a.b" {
		t.Errorf("FindXMLAttr(id) = %q, %v", raw[start:end], ok)
	}
	if _, _, ok := FindXMLAttr(raw, "missing"); ok {
		t.Error("FindXMLAttr(missing) should fail")
	}
	if _, _, ok := FindXMLAttr([]byte(`<string idx="1" id="2">`), "id"); !ok {
		t.Error("FindXMLAttr should not match attribute name prefixes")
	}
}

func TestEscapeXML(t *testing.T) {
	if got, want := EscapeXMLAttr(`a "b" & <c>`), "a &#34;b&#34; &amp; &lt;c&gt;"; got != want {
		t.Errorf("EscapeXMLAttr() = %q, want %q", got, want)
	}
	if got, want := EscapeXMLText("a\n<b> & \"c\""), "a\n&lt;b&gt; &amp; \"c\""; got != want {
		t.Errorf("EscapeXMLText() = %q, want %q", got, want)
	}
}
