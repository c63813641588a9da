package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cbeta-search/internal/domain"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDir(t *testing.T) {
	t.Run("Loads well-formed documents", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "T01.json", `{"id":"T01","title":"心經","content":"觀自在菩薩。"}`)
		writeFile(t, dir, "T02.json", `{"id":"T02","title":"金剛經","content":"如是我聞。"}`)

		docs, err := LoadDir(dir)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.ElementsMatch(t,
			[]string{"T01", "T02"},
			[]string{docs[0].ID, docs[1].ID})
	})

	t.Run("Skips malformed files", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "good.json", `{"id":"T01","title":"心經","content":"觀自在菩薩。"}`)
		writeFile(t, dir, "broken.json", `{"id": "T02", "title":`)

		docs, err := LoadDir(dir)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "T01", docs[0].ID)
	})

	t.Run("Skips documents without an id", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "noid.json", `{"title":"無名","content":"內容"}`)

		docs, err := LoadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("Ignores non-JSON files", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "T01.json", `{"id":"T01","title":"心經","content":"觀自在菩薩。"}`)
		writeFile(t, dir, "readme.txt", "not a document")

		docs, err := LoadDir(dir)
		require.NoError(t, err)
		assert.Len(t, docs, 1)
	})

	t.Run("Missing directory is an error", func(t *testing.T) {
		_, err := LoadDir(filepath.Join(t.TempDir(), "does-not-exist"))
		assert.Error(t, err)
	})

	t.Run("Empty directory yields empty corpus", func(t *testing.T) {
		docs, err := LoadDir(t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, docs)
	})
}

func TestFindTitle(t *testing.T) {
	docs := []domain.Document{
		{ID: "T01", Title: "心經"},
		{ID: "T02", Title: "金剛經"},
	}
	assert.Equal(t, "金剛經", FindTitle(docs, "T02"))
	assert.Equal(t, "", FindTitle(docs, "T99"))
	assert.Equal(t, "", FindTitle(nil, "T01"))
}
