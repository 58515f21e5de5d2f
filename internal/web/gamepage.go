package web

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/easeaico/nintendo-advisor/internal/utils"
)

const (
	// DefaultGamePlatform is assumed when a page names no platform.
	DefaultGamePlatform = "Nintendo Switch"

	gameDescriptionMax   = 500
	gameDescriptionMin   = 50
	gameDescriptionParas = 3
	minLinkText          = 5
)

// TrustedSources are the hosts imported game pages may come from.
var TrustedSources = []string{
	"nintendo.com", "nintendo.it", "nintendo.co.jp", "fandom.com",
	"mariowiki.com", "ssbwiki.com", "metroidwiki.org", "nintendolife.com",
	"bulbapedia.bulbagarden.net", "serebii.net", "ign.com",
	"gamefaqs.gamespot.com", "giantbomb.com", "mobygames.com", "metacritic.com",
	"wikipedia.org", "nintendowiki.org", "fireemblemwiki.org", "splatoonwiki.org",
	"zeldadungeon.net", "zeldawiki.wiki",
}

var (
	listPageMarkers = []string{"list_of", "category:", "/games", "/game", "elenco", "category"}
	excludedLinks   = []string{
		"list_of", "category:", "category/", "template:", "file:", "help:",
		"special:", "talk:", "user:", "wikipedia:", "wikimedia:",
		"#", "?", "javascript:", "mailto:", "tel:",
	}
	platformLabels = []string{"platform", "piattaforma"}
)

// GamePage is the catalogue-relevant content of a game article.
type GamePage struct {
	Title       string
	Platform    string
	Description string
	URL         string
}

// IsTrusted reports whether rawURL is served by one of the TrustedSources.
func IsTrusted(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return utils.ContainsAny(strings.ToLower(u.Host), TrustedSources)
}

// IsListPage reports whether rawURL looks like an index of games rather than
// a single game.
func IsListPage(rawURL string) bool {
	return utils.ContainsAny(strings.ToLower(rawURL), listPageMarkers)
}

// FetchGame downloads a single game article.
func (f *Fandom) FetchGame(ctx context.Context, pageURL string) (GamePage, error) {
	body, err := f.fetchHTML(ctx, pageURL)
	if err != nil {
		return GamePage{}, err
	}
	return parseGamePage(body, pageURL)
}

// GameLinks returns up to max distinct trusted article links found on a
// list page, in document order.
func (f *Fandom) GameLinks(ctx context.Context, listURL string, max int) ([]string, error) {
	body, err := f.fetchHTML(ctx, listURL)
	if err != nil {
		return nil, err
	}
	return parseGameLinks(body, listURL, max)
}

func (f *Fandom) fetchHTML(ctx context.Context, pageURL string) ([]byte, error) {
	status, body, err := f.fetcher.Get(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	switch {
	case status == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", pageURL, ErrNotFound)
	case status != http.StatusOK:
		return nil, fmt.Errorf("failed to fetch %s: status %d", pageURL, status)
	}
	return body, nil
}

func parseGamePage(body []byte, pageURL string) (GamePage, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return GamePage{}, fmt.Errorf("failed to parse html: %w", err)
	}
	page := GamePage{
		Title:    pageTitle(doc),
		Platform: infoboxPlatform(doc),
		URL:      pageURL,
	}
	if page.Title == "" {
		return GamePage{}, fmt.Errorf("%s has no title: %w", pageURL, ErrNotFound)
	}
	if page.Platform == "" {
		page.Platform = DefaultGamePlatform
	}

	root := findFirst(doc, func(n *html.Node) bool {
		return hasClass(n, "mw-parser-output") || attr(n, "id") == "content"
	})
	if root != nil {
		page.Description = gameDescription(root)
	}
	return page, nil
}

// gameDescription is the first of the leading paragraphs long enough to
// describe the game.
func gameDescription(root *html.Node) string {
	var desc string
	seen := 0
	walkContent(root, func(n *html.Node) bool {
		if desc != "" || seen >= gameDescriptionParas {
			return false
		}
		if n.DataAtom != atom.P {
			return true
		}
		seen++
		if t := textOf(n); len([]rune(t)) > gameDescriptionMin {
			desc = utils.Truncate(t, gameDescriptionMax)
		}
		return false
	})
	return desc
}

// infoboxPlatform reads the platform row of a table infobox or a portable
// fandom infobox.
func infoboxPlatform(doc *html.Node) string {
	box := findFirst(doc, func(n *html.Node) bool {
		return hasClass(n, "infobox") || hasClass(n, "portable-infobox")
	})
	if box == nil {
		return ""
	}

	var platform string
	findFirst(box, func(n *html.Node) bool {
		var label, value *html.Node
		switch {
		case n.DataAtom == atom.Tr:
			label = findFirst(n, func(c *html.Node) bool { return c.DataAtom == atom.Th })
			value = findFirst(n, func(c *html.Node) bool { return c.DataAtom == atom.Td })
		case hasClass(n, "pi-data"):
			label = findFirst(n, func(c *html.Node) bool { return hasClass(c, "pi-data-label") })
			value = findFirst(n, func(c *html.Node) bool { return hasClass(c, "pi-data-value") })
		default:
			return false
		}
		if label == nil || value == nil {
			return false
		}
		if !utils.ContainsAny(strings.ToLower(rawText(label)), platformLabels) {
			return false
		}
		platform = rawText(value)
		return platform != ""
	})
	return platform
}

// rawText is textOf without the content filters; infobox cells live inside
// the subtrees textOf skips.
func rawText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

func parseGameLinks(body []byte, listURL string, max int) ([]string, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	base, err := url.Parse(listURL)
	if err != nil {
		return nil, fmt.Errorf("invalid list url: %w", err)
	}

	var links []string
	seen := make(map[string]bool)
	findFirst(doc, func(n *html.Node) bool {
		if n.DataAtom != atom.A {
			return false
		}
		href := strings.TrimSpace(attr(n, "href"))
		if href == "" || len([]rune(rawText(n))) <= minLinkText {
			return false
		}
		if utils.ContainsAny(strings.ToLower(href), excludedLinks) {
			return false
		}
		ref, err := url.Parse(href)
		if err != nil {
			return false
		}
		full := base.ResolveReference(ref).String()
		if IsTrusted(full) && !seen[full] {
			seen[full] = true
			links = append(links, full)
		}
		return max > 0 && len(links) >= max
	})
	return links, nil
}
