package archive

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, files map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestExtractAll(t *testing.T) {
	payload := buildZip(t, map[string][]byte{
		"a.png":        []byte("img-a"),
		"nested/b.png": []byte("img-b"),
	})

	dest := filepath.Join(t.TempDir(), "out")
	extracted, err := ExtractAll(payload, dest)
	require.NoError(t, err)
	assert.Len(t, extracted, 2)

	got, err := os.ReadFile(filepath.Join(dest, "nested", "b.png"))
	require.NoError(t, err)
	assert.Equal(t, "img-b", string(got))
}

func TestExtractAllEmptyArchive(t *testing.T) {
	payload := buildZip(t, nil)

	extracted, err := ExtractAll(payload, t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, extracted)
}

func TestExtractAllInvalidPayload(t *testing.T) {
	_, err := ExtractAll([]byte("this is not a zip"), t.TempDir())
	assert.Error(t, err)
}

func TestExtractAllRejectsTraversal(t *testing.T) {
	payload := buildZip(t, map[string][]byte{
		"../evil.sh": []byte("#!/bin/sh"),
	})

	dest := filepath.Join(t.TempDir(), "out")
	_, err := ExtractAll(payload, dest)
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(filepath.Dir(dest), "evil.sh"))
}
