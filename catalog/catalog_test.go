package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/l10n-tools/fw-po-helper/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stringsDoc = `<?xml version="1.0" encoding="UTF-8"?>
<strings>
  <group id="Misc">
    <string id="kstidOpen" txt="Open" />
    <string id="kstidClose" txt="Close"/>
    <group id="Nested">
      <string id="kstidSave"/>
    </group>
  </group>
</strings>
`

const translationsPo = `msgid ""
msgstr ""
"Language: fr\n"

msgid "Open"
msgstr "Ouvrir"

msgid "kstidSave"
msgstr "Enregistrer \"tout\""

#. /Parts/LexEntry.fwlayout::/layout[@class="LexEntry"]/part[@ref="Headword"]/@label
msgid "Headword"
msgstr "Vedette"

#. (String used 2 times.)
#. /Parts/Grammar.fwlayout::/layout/group/lit
#. /Parts/Grammar.fwlayout::/layout/group/@label
msgid "Inflection: "
msgstr "Flexion : "

#. /Language Explorer/Configuration/ContextHelp.xml::/strings/item[@id="Help"]/@text
msgid "Shows help"
msgstr "Affiche l'aide"

#. /Parts/Other.fwlayout::/layout/part/@label
msgid "Untranslated"
msgstr ""

#. no provenance here
msgid "Orphan"
msgstr "Orphelin"
`

func parsePo(t *testing.T, po string) *util.PoCatalog {
	t.Helper()
	catalog, err := util.ParsePoCatalog([]byte(po))
	require.NoError(t, err)
	return catalog
}

func TestClassifyEntry(t *testing.T) {
	tests := []struct {
		comments []string
		want     string
	}{
		{[]string{"a.fwlayout::/layout/part/@label"}, GroupAttributes},
		{[]string{"a.fwlayout::/layout/group/lit"}, GroupLiterals},
		{[]string{"(String used 2 times.)", "a.fwlayout::/layout/lit"}, GroupLiterals},
		{[]string{"dir/ContextHelp.xml::/strings/item/@text"}, GroupContextHelp},
		{[]string{"no separator"}, ""},
		{nil, ""},
	}
	for _, tt := range tests {
		e := util.NewPoEntry("x")
		e.AutoComments = tt.comments
		assert.Equal(t, tt.want, ClassifyEntry(e), "comments %v", tt.comments)
	}
}

func TestMerge(t *testing.T) {
	out, stats, err := MergeWithStats([]byte(stringsDoc), parsePo(t, translationsPo))
	require.NoError(t, err)
	result := string(out)

	assert.Contains(t, result, `<string id="kstidOpen" txt="Ouvrir" />`)
	assert.Contains(t, result, `<string id="kstidClose" txt="Close"/>`)
	assert.Contains(t, result, `<string id="kstidSave" txt="Enregistrer &#34;tout&#34;"/>`)
	assert.Equal(t, 2, stats.Replaced)
	assert.Equal(t, 3, stats.Added)

	attrs := strings.Index(result, `<group id="LocalizedAttributes">`)
	lits := strings.Index(result, `<group id="LocalizedLiterals">`)
	help := strings.Index(result, `<group id="LocalizedContextHelp">`)
	require.True(t, attrs > 0 && lits > attrs && help > lits, "groups missing or out of order:\n%s", result)
	assert.Contains(t, result[attrs:lits], `<string id="Headword" txt="Vedette" />`)
	assert.Contains(t, result[lits:help], `<string id="Inflection: " txt="Flexion : " />`)
	assert.Contains(t, result[help:], `<string id="Shows help" txt="Affiche l&#39;aide" />`)
	assert.NotContains(t, result, "Untranslated")
	assert.NotContains(t, result, "Orphan")
	assert.True(t, strings.HasSuffix(result, "</strings>\n"))
}

func TestMergePreservesOriginalAsPrefix(t *testing.T) {
	po := parsePo(t, `#. a.fwlayout::/layout/part/@label
msgid "New label"
msgstr "Nouvelle étiquette"
`)
	out, err := Merge([]byte(stringsDoc), po)
	require.NoError(t, err)

	prefix := stringsDoc[:strings.Index(stringsDoc, "</strings>")]
	assert.True(t, strings.HasPrefix(string(out), prefix), "original document must be a prefix of:\n%s", out)
	assert.Contains(t, string(out)[len(prefix):], `<string id="New label" txt="Nouvelle étiquette" />`)
}

func TestMergeDeduplicatesIDs(t *testing.T) {
	po := parsePo(t, `#. a.fwlayout::/layout/part/@label
msgid "Label"
msgstr "Étiquette"

#. a.fwlayout::/layout/part/@label
msgctxt "other"
msgid "Label"
msgstr "Autre étiquette"
`)
	out, err := Merge([]byte(stringsDoc), po)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(out), `id="Label"`))

	// Merging again adds nothing to the now existing group.
	again, err := Merge(out, po)
	require.NoError(t, err)
	assert.Equal(t, string(out), string(again))
}

func TestMergeIntoExistingGroup(t *testing.T) {
	doc := `<strings>
  <group id="LocalizedAttributes">
    <string id="Old" txt="Ancien" />
  </group>
</strings>`
	po := parsePo(t, `#. a.fwlayout::/layout/part/@label
msgid "New"
msgstr "Nouveau"
`)
	out, err := Merge([]byte(doc), po)
	require.NoError(t, err)
	result := string(out)
	assert.Equal(t, 1, strings.Count(result, `<group id="LocalizedAttributes">`))
	assert.Contains(t, result, `<string id="New" txt="Nouveau" />`)
	assert.Less(t, strings.Index(result, `id="New"`), strings.Index(result, "</group>"))
}

func TestMergeSelfClosingRoot(t *testing.T) {
	po := parsePo(t, `#. a.fwlayout::/layout/lit
msgid "Text"
msgstr "Texte"
`)
	out, err := Merge([]byte(`<strings/>`), po)
	require.NoError(t, err)
	assert.Equal(t, "<strings>\n  <group id=\"LocalizedLiterals\">\n    <string id=\"Text\" txt=\"Texte\" />\n  </group>\n</strings>", string(out))
}

func TestMergeFormatErrors(t *testing.T) {
	po := parsePo(t, translationsPo)
	for name, doc := range map[string]string{
		"wrong root":      `<resources><string id="a" txt="b"/></resources>`,
		"unexpected kind": "<strings>\n<group id=\"a\"><item/></group></strings>",
		"malformed":       `<strings><group></strings>`,
		"empty":           ``,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Merge([]byte(doc), po)
			var fe *util.FormatError
			require.ErrorAs(t, err, &fe)
		})
	}
}

func TestMergeFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "strings-en.xml")
	dst := filepath.Join(dir, "strings-fr.xml")
	require.NoError(t, os.WriteFile(src, []byte(stringsDoc), 0644))

	stats, err := MergeFile(src, parsePo(t, translationsPo), dst)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Replaced)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Contains(t, string(data), `txt="Ouvrir"`)

	bad := filepath.Join(dir, "bad.xml")
	require.NoError(t, os.WriteFile(bad, []byte(`<other/>`), 0644))
	_, err = MergeFile(bad, parsePo(t, translationsPo), dst)
	var fe *util.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, bad, fe.File)
}
