package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalogue = `{"games": [
  {"title": "Pikmin 4", "platform": "Nintendo Switch", "tags": ["strategy"]},
  {"title": "Pikmin 3 Deluxe", "platform": "Nintendo Switch", "tags": ["strategy"]},
  {"title": "Metroid Prime", "platform": "GameCube", "tags": ["action"]}
]}`

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func withCatalogue(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "games.json")
	require.NoError(t, os.WriteFile(path, []byte(testCatalogue), 0o644))
	t.Chdir(dir)
	t.Setenv("GAMES_PATH", path)
	t.Setenv("MEMORY_DIR", filepath.Join(dir, "memory"))
}

func TestVersionCommand(t *testing.T) {
	out, err := runRoot(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "nintendo-advisor v")
}

func TestGamesListFiltersPlatform(t *testing.T) {
	withCatalogue(t)

	out, err := runRoot(t, "games", "list", "--platform", "Nintendo Switch")
	require.NoError(t, err)
	assert.Contains(t, out, "Pikmin 4")
	assert.NotContains(t, out, "Metroid Prime")
}

func TestGamesInfoListsSimilarGames(t *testing.T) {
	withCatalogue(t)

	out, err := runRoot(t, "games", "info", "Pikmin", "4")
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "Pikmin 4"`)
	assert.Contains(t, out, "Giochi simili: Pikmin 3 Deluxe")
}

func TestGamesInfoUnknownTitle(t *testing.T) {
	withCatalogue(t)

	_, err := runRoot(t, "games", "info", "zzz", "qqq")
	assert.Error(t, err)
}

func TestMemoryShowAndClear(t *testing.T) {
	withCatalogue(t)

	out, err := runRoot(t, "memory", "show", "--user", "mario")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "{"), out)

	out, err = runRoot(t, "memory", "clear", "--user", "mario")
	require.NoError(t, err)
	assert.Contains(t, out, "memory of mario cleared")
}

const importedPage = `<html><body><h1 class="page-header__title">Pikmin 4</h1>
<div class="mw-parser-output">
<table class="infobox"><tr><th>Platform</th><td>Nintendo Switch 2</td></tr></table>
<p>Pikmin 4 is a strategy game about exploring a strange planet with tiny plant creatures.</p>
</div></body></html>`

func TestGamesImportMergesIntoCatalogue(t *testing.T) {
	withCatalogue(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(importedPage))
	}))
	defer srv.Close()

	out, err := runRoot(t, "games", "import", "--untrusted", srv.URL+"/wiki/Pikmin_4")
	require.NoError(t, err)
	assert.Contains(t, out, "0 added, 1 replaced, 0 skipped")

	out, err = runRoot(t, "games", "list", "--platform", "Switch 2")
	require.NoError(t, err)
	assert.Contains(t, out, "Pikmin 4")
	assert.NotContains(t, out, "Pikmin 3 Deluxe")
}

func TestGamesImportSkipsUntrustedSources(t *testing.T) {
	withCatalogue(t)

	out, err := runRoot(t, "games", "import", "http://127.0.0.1:1/wiki/Pikmin_4")
	require.NoError(t, err)
	assert.Contains(t, out, "skipped untrusted source")
	assert.Contains(t, out, "no games imported")
}
