package xmlstorage

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type book struct {
	XMLName xml.Name `xml:"Book"`
	Title   string
	Year    int
}

func TestXMLStorage_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xml")

	t.Run("it writes an indented document with header", func(t *testing.T) {
		s, err := Create(path, "  ")
		require.NoError(t, err)

		require.NoError(t, s.Write(&book{Title: "Dune", Year: 1965}))
		require.NoError(t, s.Close())

		b, err := os.ReadFile(path)
		require.NoError(t, err)

		expected := xml.Header + "<Book>\n  <Title>Dune</Title>\n  <Year>1965</Year>\n</Book>"
		assert.Equal(t, expected, string(b))
	})

	t.Run("raw write replaces previous contents", func(t *testing.T) {
		s, err := Create(path, "  ")
		require.NoError(t, err)
		defer s.Close()

		require.NoError(t, s.Write(&book{Title: "A much longer title than the next one", Year: 1}))
		require.NoError(t, s.WriteRaw([]byte("<Book/>")))

		b, err := s.ReadRaw()
		require.NoError(t, err)
		assert.Equal(t, "<Book/>", string(b))

		size, err := s.Size()
		require.NoError(t, err)
		assert.Equal(t, 7, size)
	})
}

func TestXMLStorage_Read(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xml")

	w, err := Create(path, "\t")
	require.NoError(t, err)
	require.NoError(t, w.Write(&book{Title: "Solaris", Year: 1961}))
	require.NoError(t, w.Close())

	t.Run("it can be read from", func(t *testing.T) {
		s, err := Open(path)
		require.NoError(t, err)
		defer s.Close()

		var dst book
		require.NoError(t, s.Read(&dst))
		assert.Equal(t, "Solaris", dst.Title)
		assert.Equal(t, 1961, dst.Year)
	})

	t.Run("mismatched root element fails", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.xml")
		require.NoError(t, os.WriteFile(bad, []byte("<Magazine>...</Magazine>"), 0666))

		s, err := Open(bad)
		require.NoError(t, err)
		defer s.Close()

		var dst book
		err = s.Read(&dst)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected element type <Book> but have <Magazine>")
	})

	t.Run("missing file fails to open", func(t *testing.T) {
		_, err := Open(filepath.Join(t.TempDir(), "nope.xml"))
		assert.Error(t, err)
	})

	t.Run("closed storage refuses io", func(t *testing.T) {
		s, err := Open(path)
		require.NoError(t, err)
		require.NoError(t, s.Close())

		_, err = s.ReadRaw()
		assert.Equal(t, ErrNotOpen, err)
		assert.NoError(t, s.Close())
	})
}
