package imdb

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// the upstream marks specials/bonus content as episode zero, e.g. "S2.E0"
var specialEpisodeRegex = regexp.MustCompile(`\.E0\b`)

// EpisodeRatings returns the ratings of one season in on-page episode
// order. Special (episode zero) entries are skipped entirely, entries
// with a missing, malformed or out-of-range rating are dropped without
// failing the call.
func (c *Client) EpisodeRatings(ctx context.Context, id string, season int) ([]float64, error) {
	ctx, span := tracer.Start(ctx, "client:EpisodeRatings")
	span.SetAttributes(attribute.Int("season", season))
	defer span.End()

	doc, err := c.getDocument(ctx, "/title/"+id+"/episodes/", map[string]string{
		"season": strconv.Itoa(season),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch season listing")
		return nil, err
	}

	var ratings []float64
	doc.Find("article.episode-item-wrapper").Each(func(_ int, entry *goquery.Selection) {
		header := entry.Find("h4").First().Text()
		if specialEpisodeRegex.MatchString(header) {
			return
		}

		label := entry.Find("span.ipc-rating-star--rating").First().Text()
		rating, ok := parseRating(label)
		if !ok {
			return
		}
		ratings = append(ratings, rating)
	})

	return ratings, nil
}

// parseRating parses a rating label into a value in (0.0, 10.0]. The
// second return reports whether the label held a usable rating, callers
// drop the entry otherwise.
func parseRating(label string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(label), 64)
	if err != nil {
		return 0, false
	}
	if v <= 0.0 || v > 10.0 {
		return 0, false
	}
	return v, true
}
