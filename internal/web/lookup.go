package web

import (
	"context"
	"errors"
	"log/slog"

	"github.com/easeaico/nintendo-advisor/internal/entity"
	"github.com/easeaico/nintendo-advisor/internal/utils"
)

// Source names where a Result came from.
type Source string

const (
	SourceFandom Source = "fandom"
	SourceSearch Source = "search"
)

// Result is external content about one character or game.
type Result struct {
	Title       string
	Text        string
	ImageURL    string
	URL         string
	Source      Source
	SeriesID    string
	IsCharacter bool
}

// Lookup chains the resolution strategies: series character wiki, game wiki,
// then generic search.
type Lookup struct {
	fandom *Fandom
	search *Search
}

// NewLookup accepts nil for either source to disable it.
func NewLookup(fandom *Fandom, search *Search) *Lookup {
	return &Lookup{fandom: fandom, search: search}
}

// Lookup resolves rawQuery. contextQuery is extra text scanned for series
// keywords, usually the full user message for character questions.
func (l *Lookup) Lookup(ctx context.Context, rawQuery, contextQuery string, deep bool) (*Result, bool) {
	name := entity.ExtractEntity(rawQuery)
	if name == "" {
		return nil, false
	}

	if l.fandom != nil {
		if series := entity.DetectSeries(name, contextQuery); series != nil {
			page, err := l.fandom.FetchPage(ctx, series.ID, series.Name, deep, false)
			if err == nil {
				return pageResult(page, series.ID, true), true
			}
			logMiss("series", name, err)
		}
		if game := entity.DetectGame(name, rawQuery); game != nil {
			page, err := l.fandom.FetchPage(ctx, game.ID, game.Name, deep, true)
			if err == nil {
				return pageResult(page, game.ID, false), true
			}
			logMiss("game", name, err)
		}
	}

	if l.search != nil {
		text, err := l.search.Lookup(ctx, name+" "+entity.CharacterHint(name))
		if err == nil {
			return &Result{Title: utils.TitleCase(name), Text: text, Source: SourceSearch}, true
		}
		logMiss("search", name, err)
	}
	return nil, false
}

func pageResult(page Page, seriesID string, character bool) *Result {
	return &Result{
		Title:       page.Title,
		Text:        page.Text,
		ImageURL:    page.ImageURL,
		URL:         page.URL,
		Source:      SourceFandom,
		SeriesID:    seriesID,
		IsCharacter: character,
	}
}

func logMiss(strategy, name string, err error) {
	if errors.Is(err, ErrNotFound) {
		slog.Debug("web lookup miss", "strategy", strategy, "entity", name)
		return
	}
	slog.Warn("web lookup failed", "strategy", strategy, "entity", name, "error", err.Error())
}
