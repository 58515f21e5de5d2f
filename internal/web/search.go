package web

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/easeaico/nintendo-advisor/internal/utils"
	"github.com/tidwall/gjson"
)

// DefaultSearchURL is the DuckDuckGo Instant Answer endpoint.
const DefaultSearchURL = "https://api.duckduckgo.com/"

const (
	maxSearchText    = 500
	maxRelatedTopics = 3
)

var relevanceKeywords = []string{"nintendo", "switch", "wii", "3ds", "game"}

// Search queries an instant-answer API and keeps only Nintendo-relevant text.
type Search struct {
	fetcher  *Fetcher
	endpoint string
}

func NewSearch(fetcher *Fetcher, endpoint string) *Search {
	if endpoint == "" {
		endpoint = DefaultSearchURL
	}
	return &Search{fetcher: fetcher, endpoint: endpoint}
}

// Lookup returns the abstract for query when it is relevant. An empty abstract
// falls back to the first related topics.
func (s *Search) Lookup(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_html", "1")
	params.Set("skip_disambig", "1")

	status, body, err := s.fetcher.Get(ctx, s.endpoint+"?"+params.Encode())
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("search status %d: %w", status, ErrNotFound)
	}
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("search returned invalid json: %w", ErrNotFound)
	}

	if abstract := strings.TrimSpace(gjson.GetBytes(body, "AbstractText").String()); abstract != "" {
		if isRelevant(abstract) {
			return utils.Truncate(abstract, maxSearchText), nil
		}
		return "", fmt.Errorf("abstract not relevant: %w", ErrNotFound)
	}

	for i, text := range relatedTopics(body) {
		if i >= maxRelatedTopics {
			break
		}
		if isRelevant(text) {
			return utils.Truncate(text, maxSearchText), nil
		}
	}
	return "", fmt.Errorf("no relevant result for %q: %w", query, ErrNotFound)
}

// relatedTopics flattens topic groups into their entry texts.
func relatedTopics(body []byte) []string {
	var texts []string
	gjson.GetBytes(body, "RelatedTopics").ForEach(func(_, topic gjson.Result) bool {
		if text := strings.TrimSpace(topic.Get("Text").String()); text != "" {
			texts = append(texts, text)
			return true
		}
		topic.Get("Topics").ForEach(func(_, sub gjson.Result) bool {
			if text := strings.TrimSpace(sub.Get("Text").String()); text != "" {
				texts = append(texts, text)
			}
			return true
		})
		return true
	})
	return texts
}

func isRelevant(text string) bool {
	return utils.ContainsAny(strings.ToLower(text), relevanceKeywords)
}
