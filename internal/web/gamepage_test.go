package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gameHTML = `<html><body>
<h1 class="page-header__title">Pikmin 4</h1>
<div class="mw-parser-output">
<aside class="portable-infobox">
  <div class="pi-item pi-data"><h3 class="pi-data-label">Developer</h3><div class="pi-data-value">Nintendo EPD</div></div>
  <div class="pi-item pi-data"><h3 class="pi-data-label">Platform(s)</h3><div class="pi-data-value"><a href="/wiki/Switch">Nintendo Switch</a></div></div>
</aside>
<p>Stub.</p>
<p>Pikmin 4 is a real-time strategy game where the captain explores a mysterious planet with the help of the Pikmin.</p>
</div></body></html>`

const tableInfoboxHTML = `<html><body><h1>Wii Sports</h1>
<table class="infobox"><tr><th>Genere</th><td>Sport</td></tr><tr><th>Piattaforma</th><td>Wii</td></tr></table>
<div id="content"><p>Breve.</p></div></body></html>`

const listHTML = `<html><body><div class="mw-parser-output"><ul>
<li><a href="/wiki/Pikmin_4">Pikmin 4 (2023)</a></li>
<li><a href="/wiki/Pikmin_4">Pikmin 4 again</a></li>
<li><a href="/wiki/Category:Games">Category games</a></li>
<li><a href="/wiki/Pik">Pik</a></li>
<li><a href="https://example.org/pikmin">Pikmin elsewhere</a></li>
<li><a href="https://en.wikipedia.org/wiki/Pikmin_3">Pikmin 3 Deluxe</a></li>
</ul></div></body></html>`

func TestParseGamePagePortableInfobox(t *testing.T) {
	page, err := parseGamePage([]byte(gameHTML), "https://pikmin.fandom.com/wiki/Pikmin_4")
	require.NoError(t, err)
	assert.Equal(t, "Pikmin 4", page.Title)
	assert.Equal(t, "Nintendo Switch", page.Platform)
	assert.Contains(t, page.Description, "real-time strategy")
}

func TestParseGamePageTableInfoboxAndDefaults(t *testing.T) {
	page, err := parseGamePage([]byte(tableInfoboxHTML), "https://wiisports.fandom.com/wiki/Wii_Sports")
	require.NoError(t, err)
	assert.Equal(t, "Wii Sports", page.Title)
	assert.Equal(t, "Wii", page.Platform)
	assert.Empty(t, page.Description)

	page, err = parseGamePage([]byte(`<html><body><h1>Kirby</h1></body></html>`), "https://kirby.fandom.com/wiki/Kirby")
	require.NoError(t, err)
	assert.Equal(t, DefaultGamePlatform, page.Platform)

	_, err = parseGamePage([]byte(`<html><body><p>senza titolo</p></body></html>`), "https://kirby.fandom.com/wiki/X")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParseGameLinksKeepsTrustedArticles(t *testing.T) {
	links, err := parseGameLinks([]byte(listHTML), "https://pikmin.fandom.com/wiki/List_of_games", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://pikmin.fandom.com/wiki/Pikmin_4",
		"https://en.wikipedia.org/wiki/Pikmin_3",
	}, links)

	links, err = parseGameLinks([]byte(listHTML), "https://pikmin.fandom.com/wiki/List_of_games", 1)
	require.NoError(t, err)
	assert.Len(t, links, 1)
}

func TestTrustAndListPageChecks(t *testing.T) {
	assert.True(t, IsTrusted("https://zelda.fandom.com/wiki/Link"))
	assert.False(t, IsTrusted("https://example.org/zelda"))
	assert.True(t, IsListPage("https://en.wikipedia.org/wiki/List_of_Wii_games"))
	assert.False(t, IsListPage("https://zelda.fandom.com/wiki/Link"))
}

func TestFetchGameStatuses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/wiki/Pikmin_4":
			_, _ = w.Write([]byte(gameHTML))
		case "/wiki/broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewFandom(newTestFetcher(), "")
	page, err := f.FetchGame(context.Background(), srv.URL+"/wiki/Pikmin_4")
	require.NoError(t, err)
	assert.Equal(t, "Pikmin 4", page.Title)

	_, err = f.FetchGame(context.Background(), srv.URL+"/wiki/missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.FetchGame(context.Background(), srv.URL+"/wiki/broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
