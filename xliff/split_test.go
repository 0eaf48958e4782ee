package xliff

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const multiListXML = `<?xml version="1.0" encoding="UTF-8"?>
<Lists date="2024-01-01">
  <List owner="LexDb" field="DomainTypes" itemClass="CmPossibility">
    <Name><AUni ws="en">Academic Domains</AUni></Name>
  </List>
  <Comment>not a list</Comment>
  <List owner="LangProject" field="AnthroList" itemClass="CmAnthroItem">
    <Name><AUni ws="en">Anthropology Categories</AUni></Name>
  </List>
</Lists>
`

func TestSplitLists(t *testing.T) {
	dir := t.TempDir()
	files, err := SplitLists(strings.NewReader(multiListXML), dir, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "LexDb_DomainTypes.xml"),
		filepath.Join(dir, "LangProject_AnthroList.xml"),
	}, files)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `<Lists date="2024-01-01">`)
	assert.NotContains(t, string(data), "AnthroList")

	docs, err := ConvertListToXliff(filepath.Base(files[0]), strings.NewReader(string(data)), Options{})
	require.NoError(t, err)
	require.Len(t, docs["en"].Groups, 1)
	assert.Equal(t, "LexDb_DomainTypes", docs["en"].Groups[0].ID)
	assert.Equal(t, "Academic Domains", docs["en"].Units()[0].Source)
}

func TestSplitListsShape(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		expected int
		msg      string
	}{
		{"too many", multiListXML, 1, "unexpected list count"},
		{"none", `<Lists/>`, 1, "unexpected list count"},
		{"none unbounded", `<Lists></Lists>`, 0, "unexpected list count"},
		{"wrong root", `<Other><List owner="a" field="b"/></Other>`, 1, "not in the expected format"},
		{"same list twice", `<Lists><List owner="a" field="b"/><List owner="a" field="b"/></Lists>`, 2, "more than once"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			_, err := SplitLists(strings.NewReader(tt.doc), dir, tt.expected)
			var se *ShapeError
			require.ErrorAs(t, err, &se)
			assert.Contains(t, se.Error(), tt.msg)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestSplitSourceLists(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.xml")
	_, err := SplitSourceLists(missing, dir, 1)
	var se *ShapeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, missing, se.File)

	src := filepath.Join(dir, "TranslatedLists.xml")
	require.NoError(t, os.WriteFile(src, []byte(multiListXML), 0644))
	_, err = SplitSourceLists(src, filepath.Join(dir, "out"), 3)
	require.ErrorAs(t, err, &se)
	assert.Equal(t, src, se.File)

	files, err := SplitSourceLists(src, filepath.Join(dir, "out"), 0)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestSplitterConfirm(t *testing.T) {
	dir := t.TempDir()
	_, err := SplitLists(strings.NewReader(multiListXML), dir, 2)
	require.NoError(t, err)

	var existing []string
	s := &Splitter{
		Expected: 2,
		Confirm: func(files []string) error {
			existing = files
			return errors.New("refused")
		},
	}
	_, err = s.Split(strings.NewReader(multiListXML), dir)
	assert.EqualError(t, err, "refused")
	assert.Len(t, existing, 2)
}

func TestSplitterDryRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "lists")
	s := &Splitter{Expected: 2, DryRun: true}
	files, err := s.Split(strings.NewReader(multiListXML), dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "LexDb_DomainTypes.xml"),
		filepath.Join(dir, "LangProject_AnthroList.xml"),
	}, files)
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}
