package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/easeaico/nintendo-advisor/internal/utils"
)

// DefaultFandomHost hosts one wiki per series under a subdomain.
const DefaultFandomHost = "fandom.com"

const minSummaryChars = 150

// Fandom fetches articles from per-series fandom wikis.
type Fandom struct {
	fetcher *Fetcher
	// BaseURL returns the wiki root for a series, without the /wiki suffix.
	BaseURL func(seriesID string) string
}

// NewFandom returns a client for wikis at https://{series}.{host}.
func NewFandom(fetcher *Fetcher, host string) *Fandom {
	if host == "" {
		host = DefaultFandomHost
	}
	return &Fandom{
		fetcher: fetcher,
		BaseURL: func(seriesID string) string {
			return "https://" + seriesID + "." + host
		},
	}
}

// FetchPage tries each URL variant of pageName in order and returns the
// first article with enough body text. Any failing variant falls through to
// the next one; when all fail the result is ErrNotFound.
func (f *Fandom) FetchPage(ctx context.Context, seriesID, pageName string, deep, isGame bool) (Page, error) {
	base := f.BaseURL(seriesID)
	for _, variant := range PageVariants(pageName, isGame) {
		pageURL := base + "/wiki/" + variant
		status, body, err := f.fetcher.Get(ctx, pageURL)
		if err != nil {
			slog.Debug("fandom variant failed", "url", pageURL, "error", err.Error())
			if ctx.Err() != nil {
				return Page{}, fmt.Errorf("fandom lookup cancelled: %w", ctx.Err())
			}
			continue
		}
		if status != http.StatusOK {
			slog.Debug("fandom variant unavailable", "url", pageURL, "status", status)
			continue
		}
		page, err := parsePage(body, pageURL, deep)
		if err != nil {
			slog.Debug("fandom page unparsable", "url", pageURL, "error", err.Error())
			continue
		}
		if !enoughText(page.Text, deep) {
			continue
		}
		if page.Title == "" {
			page.Title = pageName
		}
		return page, nil
	}
	return Page{}, fmt.Errorf("fandom %s/%s: %w", seriesID, pageName, ErrNotFound)
}

func enoughText(text string, deep bool) bool {
	n := len([]rune(strings.TrimSpace(text)))
	if deep {
		return n > 0
	}
	return n > minSummaryChars
}

// PageVariants lists the escaped page paths to try for name: raw,
// underscored, title-cased and title-cased underscored. Game titles also try
// forms with an encoded apostrophe.
func PageVariants(name string, isGame bool) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	underscored := strings.ReplaceAll(name, " ", "_")
	title := utils.TitleCase(name)
	titleUnderscored := strings.ReplaceAll(title, " ", "_")

	keepQuote := func(s string) string {
		return strings.ReplaceAll(url.PathEscape(s), "%27", "'")
	}
	candidates := []string{
		keepQuote(name),
		keepQuote(underscored),
		keepQuote(title),
		keepQuote(titleUnderscored),
	}
	if isGame && strings.Contains(name, "'") {
		candidates = append(candidates, url.PathEscape(titleUnderscored), url.PathEscape(underscored))
	}

	seen := make(map[string]bool, len(candidates))
	variants := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if !seen[c] {
			seen[c] = true
			variants = append(variants, c)
		}
	}
	return variants
}
