// Package wiki answers natural-language questions from a MediaWiki
// encyclopedia through its Action API.
package wiki

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/easeaico/nintendo-advisor/internal/utils"
	"github.com/tidwall/gjson"
)

var (
	// ErrNoResults reports a search without hits or a missing page.
	ErrNoResults = errors.New("wiki: no results")
	// ErrEmptyPage reports a page that exists but has no text.
	ErrEmptyPage = errors.New("wiki: empty page")
)

const (
	searchLimit     = 10
	maxSummaryChars = 500
	maxSections     = 20
	maxKeywordTries = 3
)

var sectionRe = regexp.MustCompile(`(?m)^==+\s*(.+?)\s*==+`)

// Getter performs a GET request and returns status and body.
type Getter interface {
	Get(ctx context.Context, url string) (int, []byte, error)
}

// Page is one encyclopedia article.
type Page struct {
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	FullText string   `json:"full_text"`
	Sections []string `json:"sections"`
}

// Answer is the page that best matches a question.
type Answer struct {
	MatchedPage     string `json:"matched_page"`
	Summary         string `json:"summary"`
	RelevantSection string `json:"relevant_section,omitempty"`
	FullText        string `json:"full_text"`
	Language        string `json:"language"`
}

// Client queries one language edition.
type Client struct {
	getter   Getter
	endpoint string
	lang     string
}

// Endpoint returns the Action API URL of a Wikipedia language edition.
func Endpoint(lang string) string {
	return "https://" + lang + ".wikipedia.org/w/api.php"
}

// NewClient returns a client for endpoint. An empty endpoint uses the
// Wikipedia edition of lang.
func NewClient(getter Getter, endpoint, lang string) *Client {
	if lang == "" {
		lang = "it"
	}
	if endpoint == "" {
		endpoint = Endpoint(lang)
	}
	return &Client{getter: getter, endpoint: endpoint, lang: lang}
}

func (c *Client) Lang() string { return c.lang }

// Search returns up to ten page titles for query, best first.
func (c *Client) Search(ctx context.Context, query string) ([]string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("srlimit", fmt.Sprint(searchLimit))

	body, err := c.call(ctx, params)
	if err != nil {
		return nil, err
	}
	var titles []string
	for _, t := range gjson.GetBytes(body, "query.search.#.title").Array() {
		if s := t.String(); s != "" {
			titles = append(titles, s)
		}
	}
	slog.Debug("wiki search", "query", query, "results", len(titles))
	return titles, nil
}

// GetPage loads the plain-text article for title, following redirects.
func (c *Client) GetPage(ctx context.Context, title string) (Page, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "extracts")
	params.Set("explaintext", "1")
	params.Set("exsectionformat", "wiki")
	params.Set("redirects", "1")
	params.Set("titles", title)

	body, err := c.call(ctx, params)
	if err != nil {
		return Page{}, err
	}
	page := gjson.GetBytes(body, "query.pages.0")
	if !page.Exists() || page.Get("missing").Bool() || page.Get("invalid").Bool() {
		return Page{}, fmt.Errorf("page %q: %w", title, ErrNoResults)
	}
	text := strings.TrimSpace(page.Get("extract").String())
	if text == "" {
		return Page{}, fmt.Errorf("page %q: %w", title, ErrEmptyPage)
	}

	return Page{
		Title:    page.Get("title").String(),
		Summary:  summarize(text),
		FullText: text,
		Sections: sectionTitles(text),
	}, nil
}

// Answer finds the page that best matches question and the section most
// related to its keywords.
func (c *Client) Answer(ctx context.Context, question string) (Answer, error) {
	keywords := ExtractKeywords(question)
	title, err := c.bestMatch(ctx, question, keywords)
	if err != nil {
		return Answer{}, err
	}
	page, err := c.GetPage(ctx, title)
	if err != nil {
		return Answer{}, err
	}
	return Answer{
		MatchedPage:     page.Title,
		Summary:         page.Summary,
		RelevantSection: RelevantSection(page.FullText, keywords),
		FullText:        page.FullText,
		Language:        c.lang,
	}, nil
}

// bestMatch searches the full question, then the three longest keywords.
func (c *Client) bestMatch(ctx context.Context, question string, keywords []string) (string, error) {
	queries := []string{question}
	for i, kw := range longestFirst(keywords) {
		if i >= maxKeywordTries {
			break
		}
		queries = append(queries, kw)
	}

	for _, q := range queries {
		titles, err := c.Search(ctx, q)
		if err != nil {
			return "", err
		}
		if len(titles) > 0 {
			return titles[0], nil
		}
	}
	return "", fmt.Errorf("question %q: %w", question, ErrNoResults)
}

func (c *Client) call(ctx context.Context, params url.Values) ([]byte, error) {
	params.Set("format", "json")
	params.Set("formatversion", "2")
	status, body, err := c.getter.Get(ctx, c.endpoint+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to call wiki api: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("wiki api returned status %d", status)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("wiki api returned invalid json")
	}
	if msg := gjson.GetBytes(body, "error.info"); msg.Exists() {
		return nil, fmt.Errorf("wiki api error: %s", msg.String())
	}
	return body, nil
}

// summarize returns the first paragraph, capped at 500 characters.
func summarize(text string) string {
	first, _, _ := strings.Cut(text, "\n\n")
	first = strings.TrimSpace(first)
	return utils.TruncateWithMarker(first, maxSummaryChars, "...")
}

func sectionTitles(text string) []string {
	var titles []string
	for _, m := range sectionRe.FindAllStringSubmatch(text, maxSections) {
		titles = append(titles, strings.TrimSpace(m[1]))
	}
	return titles
}
