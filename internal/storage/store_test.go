package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"../../etc/passwd", "passwd"},
		{"..\\..\\windows\\system32", "system32"},
		{"/abs/path/final.zip", "final.zip"},
		{"weird name (1).tar.gz", "weird_name__1_.tar.gz"},
		{"....", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SanitizeFilename(tc.in), "input %q", tc.in)
	}
}

func TestSaveWritesUnderDir(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	ref, err := s.Save(strings.NewReader("deliverable bytes"), "final.zip")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(ref, "uploads/"))
	assert.True(t, strings.HasSuffix(ref, "_final.zip"))

	stored := strings.TrimPrefix(ref, "uploads/")
	data, err := os.ReadFile(filepath.Join(dir, stored))
	require.NoError(t, err)
	assert.Equal(t, "deliverable bytes", string(data))
}

func TestSaveNeverEscapesDir(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	ref, err := s.Save(strings.NewReader("x"), "../../escape.txt")
	require.NoError(t, err)

	stored := strings.TrimPrefix(ref, "uploads/")
	assert.NotContains(t, stored, "/")
	assert.NotContains(t, stored, "..")
	_, err = os.Stat(filepath.Join(dir, stored))
	assert.NoError(t, err)
}

func TestSaveDistinctNamesForSameFilename(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	ref1, err := s.Save(strings.NewReader("a"), "resume.pdf")
	require.NoError(t, err)
	ref2, err := s.Save(strings.NewReader("b"), "resume.pdf")
	require.NoError(t, err)
	assert.NotEqual(t, ref1, ref2)
}
