package imdb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"showgraph-backend/lib/htmlutil"

	"go.opentelemetry.io/otel/codes"
)

var ErrNoSeriesFound = errors.New("No TV series found")

// Series is the canonical identity of a show. The ID is an opaque stable
// key (e.g. "tt0903747") that round-trips into season/episode lookups.
type Series struct {
	ID    string
	Title string
}

var titleHrefRegex = regexp.MustCompile(`/title/(tt\d+)`)

// SearchSeries resolves a free-text title to a series identity. The first
// search result anchor with a title href and non-empty visible text wins,
// there is no relevance scoring.
func (c *Client) SearchSeries(ctx context.Context, title string) (Series, error) {
	ctx, span := tracer.Start(ctx, "client:SearchSeries")
	defer span.End()

	doc, err := c.getDocument(ctx, "/find/", map[string]string{
		"q":     title,
		"s":     "tt",
		"ttype": "tv",
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch search results")
		return Series{}, err
	}

	for _, anchor := range htmlutil.GetAnchors(ctx, doc.Find("a")) {
		groups := titleHrefRegex.FindStringSubmatch(anchor.Href)
		if len(groups) < 2 || anchor.Name == "" {
			continue
		}
		series := Series{
			ID:    groups[1],
			Title: anchor.Name,
		}
		slog.DebugContext(ctx, "resolved series", "id", series.ID, "title", series.Title)
		return series, nil
	}

	return Series{}, fmt.Errorf("%w for '%s'", ErrNoSeriesFound, title)
}
