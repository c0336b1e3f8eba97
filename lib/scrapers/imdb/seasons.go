package imdb

import (
	"context"
	"regexp"
	"showgraph-backend/lib/htmlutil"
	"slices"
	"strconv"

	"go.opentelemetry.io/otel/codes"
)

var seasonHrefRegex = regexp.MustCompile(`season=(\d+)`)

// SeasonNumbers lists the seasons that exist for a series, deduplicated
// and sorted ascending. An empty list is valid, seasons are not
// guaranteed to be contiguous.
//
// A link counts as a season link only when the number encoded in its
// href and its visible text agree: the episode page carries a "Seasons"
// navigation label with the same href pattern but non-numeric text.
func (c *Client) SeasonNumbers(ctx context.Context, id string) ([]int, error) {
	ctx, span := tracer.Start(ctx, "client:SeasonNumbers")
	defer span.End()

	doc, err := c.getDocument(ctx, "/title/"+id+"/episodes/", nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch episode listing")
		return nil, err
	}

	seen := map[int]struct{}{}
	var seasons []int
	for _, anchor := range htmlutil.GetAnchors(ctx, doc.Find("a")) {
		groups := seasonHrefRegex.FindStringSubmatch(anchor.Href)
		if len(groups) < 2 {
			continue
		}
		if _, err := strconv.Atoi(anchor.Name); err != nil {
			continue
		}
		n, err := strconv.Atoi(groups[1])
		if err != nil {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		seasons = append(seasons, n)
	}

	slices.Sort(seasons)
	return seasons, nil
}
