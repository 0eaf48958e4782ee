package extract

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/l10n-tools/fw-po-helper/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const layoutXML = `<?xml version="1.0" encoding="UTF-8"?>
<LayoutInventory>
  <layout class="LexEntry" type="jtview" name="Normal">
    <part ref="Headword" label="Headword" before=" " />
    <part ref="Senses" label="Senses" tooltip="  " />
    <part ref="Secret" label="Hidden" translate="do not translate" />
    <part ref="Note" label="Note" translatable="false" />
    <group label="Grammar" ghostLabel="Grammar">
      <lit>Inflection: </lit>
      <lit>   </lit>
    </group>
  </layout>
</LayoutInventory>
`

type extracted struct {
	msgid   string
	comment string
}

func collect(entries []*util.PoEntry) []extracted {
	var result []extracted
	for _, e := range entries {
		result = append(result, extracted{e.MsgID(), strings.Join(e.AutoComments, "|")})
	}
	return result
}

func TestExtractLayout(t *testing.T) {
	x := New()
	require.NoError(t, x.ExtractLayout("Parts/LexEntry.fwlayout", strings.NewReader(layoutXML)))

	base := `Parts/LexEntry.fwlayout::/LayoutInventory/layout[@class="LexEntry"][@type="jtview"][@name="Normal"]`
	want := []extracted{
		{"Headword", base + `/part[@ref="Headword"]/@label`},
		{"Senses", base + `/part[@ref="Senses"]/@label`},
		{"Grammar", base + `/group/@label`},
		{"Grammar", base + `/group/@ghostLabel`},
		{"Inflection: ", base + `/group/lit`},
	}
	assert.Equal(t, want, collect(x.Entries))

	for _, e := range x.Entries {
		assert.Len(t, e.AutoComments, 1)
		assert.Nil(t, e.References)
		assert.Equal(t, "", e.MsgStr())
	}
}

func TestExtractLayoutIsDeterministic(t *testing.T) {
	first := New()
	second := New()
	require.NoError(t, first.ExtractLayout("a.fwlayout", strings.NewReader(layoutXML)))
	require.NoError(t, second.ExtractLayout("a.fwlayout", strings.NewReader(layoutXML)))
	assert.Equal(t, collect(first.Entries), collect(second.Entries))
}

func TestExtractLayoutMalformed(t *testing.T) {
	x := New()
	err := x.ExtractLayout("bad.fwlayout", strings.NewReader("<layout>\n<part></layout>"))
	var fe *util.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "bad.fwlayout", fe.File)
}

const dictConfigXML = `<?xml version="1.0" encoding="utf-8"?>
<DictionaryConfiguration name="Root-based (complex forms as subentries)" version="1">
  <ConfigurationItem name="Main Entry" isEnabled="true" before="" after=" ">
    <ConfigurationItem name="Headword" between=" " after="  ">
      <ConfigurationItem name="Sense" before="(" after=")" />
    </ConfigurationItem>
    <DictionaryNodeOptions name="ignored" />
  </ConfigurationItem>
  <SharedItems>
    <ConfigurationItem name="SharedSubentries" before="[" after="]">
      <ConfigurationItem name="Subentry" />
    </ConfigurationItem>
  </SharedItems>
</DictionaryConfiguration>
`

func TestExtractSkipsNonTranslatableSubtrees(t *testing.T) {
	x := New()
	require.NoError(t, x.ExtractLayout("a.fwlayout", strings.NewReader(`<layout name="Debug">
  <group label="Internal" translate="do not translate">
    <part ref="Guid" label="Guid" />
    <lit>raw: </lit>
  </group>
  <part ref="Gloss" label="Gloss" />
</layout>`)))
	assert.Equal(t, []extracted{
		{"Gloss", `a.fwlayout::/layout[@name="Debug"]/part[@ref="Gloss"]/@label`},
	}, collect(x.Entries))

	x = New()
	require.NoError(t, x.ExtractDictionaryConfig("a.fwdictconfig", strings.NewReader(`<DictionaryConfiguration name="Test">
  <ConfigurationItem name="Hidden" translatable="false">
    <ConfigurationItem name="Child" after=";" />
  </ConfigurationItem>
</DictionaryConfiguration>`)))
	assert.Equal(t, []extracted{
		{"Test", `a.fwdictconfig::/DictionaryConfiguration[@name='Test']/@name`},
	}, collect(x.Entries))
}

func TestExtractDictionaryConfig(t *testing.T) {
	x := New()
	require.NoError(t, x.ExtractDictionaryConfig("Root.fwdictconfig", strings.NewReader(dictConfigXML)))

	root := `Root.fwdictconfig::/DictionaryConfiguration[@name='Root-based (complex forms as subentries)']`
	main := root + `/ConfigurationItem[@name='Main Entry']`
	headword := main + `/ConfigurationItem[@name='Headword']`
	shared := root + `/SharedItems/ConfigurationItem[@name='SharedSubentries']`
	want := []extracted{
		{"Root-based (complex forms as subentries)", root + "/@name"},
		{"Main Entry", main + "/@name"},
		{"Headword", headword + "/@name"},
		{"Sense", headword + `/ConfigurationItem[@name='Sense']/@name`},
		{"(", headword + `/ConfigurationItem[@name='Sense']/@before`},
		{")", headword + `/ConfigurationItem[@name='Sense']/@after`},
		{"[", shared + "/@before"},
		{"]", shared + "/@after"},
		{"Subentry", shared + `/ConfigurationItem[@name='Subentry']/@name`},
	}
	assert.Equal(t, want, collect(x.Entries))
}

func TestExtractFileAndWritePot(t *testing.T) {
	dir := t.TempDir()
	layout := filepath.Join(dir, "Entry.fwlayout")
	dict := filepath.Join(dir, "Root.fwdictconfig")
	require.NoError(t, os.WriteFile(layout, []byte(layoutXML), 0644))
	require.NoError(t, os.WriteFile(dict, []byte(dictConfigXML), 0644))

	x := New()
	require.NoError(t, x.ExtractFile(layout))
	require.NoError(t, x.ExtractFile(dict))
	assert.Error(t, x.ExtractFile(filepath.Join(dir, "notes.txt")))

	var buf bytes.Buffer
	now := time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC)
	require.NoError(t, WritePot(&buf, x.Entries, "FieldWorks", now))

	catalog, err := util.ParsePoCatalog(buf.Bytes())
	require.NoError(t, err)
	require.NotNil(t, catalog.Header)

	var grammar, headword *util.PoEntry
	for _, e := range catalog.Entries {
		switch e.MsgID() {
		case "Grammar":
			grammar = e
		case "Headword":
			headword = e
		case " ", "  ", "":
			t.Errorf("whitespace-only string extracted: %q", e.MsgID())
		}
	}
	require.NotNil(t, grammar)
	assert.Equal(t, "(String used 2 times.)", grammar.AutoComments[0])
	assert.Len(t, grammar.AutoComments, 3)

	require.NotNil(t, headword)
	assert.Equal(t, "(String used 2 times.)", headword.AutoComments[0])
	assert.Len(t, headword.AutoComments, 3)

	seen := make(map[string]bool)
	for _, e := range catalog.Entries {
		assert.False(t, seen[e.MsgID()], "duplicate msgid %q", e.MsgID())
		seen[e.MsgID()] = true
	}
}
