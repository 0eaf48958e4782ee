package util

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoCharset(t *testing.T) {
	header := "msgid \"\"\nmsgstr \"\"\n\"Content-Type: text/plain; %s\\n\"\n"
	assert.Equal(t, "UTF-8", PoCharset([]byte(fmt.Sprintf(header, "charset=UTF-8"))))
	assert.Equal(t, "ISO-8859-1", PoCharset([]byte("\n"+fmt.Sprintf(header, "Charset=ISO-8859-1"))))
	assert.Equal(t, "", PoCharset([]byte(`msgid "a"`)))

	// Only the header record declares the charset.
	noContentType := "msgid \"\"\nmsgstr \"\"\n\"Project-Id-Version: demo\\n\"\n\n" +
		"msgid \"Encoding\"\nmsgstr \"charset=latin1\"\n"
	assert.Equal(t, "", PoCharset([]byte(noContentType)))
	assert.Equal(t, "", PoCharset([]byte("msgid \"Encoding\"\nmsgstr \"charset=latin1\"\n")))

	out, err := DecodePoCharset([]byte(noContentType))
	require.NoError(t, err)
	assert.Equal(t, noContentType, string(out))
}

func TestDecodePoCharset(t *testing.T) {
	utf8Data := []byte("msgid \"\"\nmsgstr \"\"\n\"Content-Type: text/plain; charset=utf-8\\n\"\n")
	out, err := DecodePoCharset(utf8Data)
	require.NoError(t, err)
	assert.Equal(t, utf8Data, out)

	_, err = DecodePoCharset([]byte("msgid \"\xff\"\n"))
	assert.Error(t, err)

	latin1 := []byte("msgid \"\"\nmsgstr \"\"\n\"Content-Type: text/plain; charset=ISO-8859-1\\n\"\n\nmsgid \"Open\"\nmsgstr \"Ouvrir le fichier \xe9t\xe9\"\n")
	out, err = DecodePoCharset(latin1)
	require.NoError(t, err)
	assert.Contains(t, string(out), "charset=UTF-8")
	assert.Contains(t, string(out), "Ouvrir le fichier été")

	catalog, err := ParsePoCatalog(out)
	require.NoError(t, err)
	assert.Equal(t, "Ouvrir le fichier été", catalog.Translations()["Open"])
}
