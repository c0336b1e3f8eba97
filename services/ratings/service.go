package ratings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"showgraph-backend/lib/scrapers/imdb"
	"showgraph-backend/services/ratings/db"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("services/ratings")

// shown to callers in place of any transport/parse detail
const genericErrorMessage = "An error occurred while fetching data"

const (
	// DefaultPacing is the delay between season fetches. It is a
	// politeness throttle toward the upstream, season fetches must stay
	// serial.
	DefaultPacing = 300 * time.Millisecond

	// CacheTTL matches the CDN cache window for successful responses.
	CacheTTL = 30 * 24 * time.Hour
)

type Scraper interface {
	SearchSeries(ctx context.Context, title string) (imdb.Series, error)
	SeasonNumbers(ctx context.Context, id string) ([]int, error)
	EpisodeRatings(ctx context.Context, id string, season int) ([]float64, error)
}

type Service struct {
	scraper Scraper
	qry     *db.Queries
	pacing  time.Duration
}

type ServiceOptions struct {
	// Pacing overrides DefaultPacing when > 0.
	Pacing time.Duration
}

// NewService constructs the aggregation service. `cache` may be nil, in
// which case every call scrapes the upstream.
func NewService(scraper Scraper, cache *sql.DB, opts ServiceOptions) Service {
	var qry *db.Queries
	if cache != nil {
		qry = db.New(cache)
	}
	pacing := DefaultPacing
	if opts.Pacing > 0 {
		pacing = opts.Pacing
	}
	return Service{
		scraper: scraper,
		qry:     qry,
		pacing:  pacing,
	}
}

// Aggregate resolves a free-text title and collects per-season episode
// ratings. It never returns an error: every failure resolves to a
// structured result. Only the "no series found" message passes through
// verbatim, any other failure collapses to a generic message.
func (s Service) Aggregate(ctx context.Context, title string) AggregateResult {
	ctx, span := tracer.Start(ctx, "service:Aggregate")
	span.SetAttributes(attribute.String("title", title))
	defer span.End()

	if cached, ok := s.cachedResult(ctx, title); ok {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		return cached
	}

	result := s.aggregate(ctx, title)
	if result.Success {
		s.storeResult(ctx, title, result)
	}
	return result
}

func (s Service) aggregate(ctx context.Context, title string) AggregateResult {
	series, err := s.scraper.SearchSeries(ctx, title)
	if errors.Is(err, imdb.ErrNoSeriesFound) {
		return AggregateResult{Success: false, Error: err.Error()}
	}
	if err != nil {
		slog.WarnContext(ctx, "failed to resolve series", "title", title, "err", err)
		return AggregateResult{Success: false, Error: genericErrorMessage}
	}
	slog.InfoContext(ctx, "resolved series", "id", series.ID, "title", series.Title)

	seasons, err := s.scraper.SeasonNumbers(ctx, series.ID)
	if err != nil {
		slog.WarnContext(ctx, "failed to list seasons", "id", series.ID, "err", err)
		return AggregateResult{Success: false, Error: genericErrorMessage}
	}

	var allScores [][]float64
	for _, season := range seasons {
		scores, err := s.scraper.EpisodeRatings(ctx, series.ID, season)
		if err != nil {
			// one failing season fails the whole request
			slog.WarnContext(ctx, "failed to fetch season ratings", "id", series.ID, "season", season, "err", err)
			return AggregateResult{Success: false, Error: genericErrorMessage}
		}
		// a single rating cannot show a trend
		if len(scores) > 1 {
			allScores = append(allScores, scores)
		}
		time.Sleep(s.pacing)
	}

	return AggregateResult{
		Success: true,
		Title:   series.Title,
		IMDBID:  series.ID,
		Seasons: allScores,
	}
}

func cacheKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

func (s Service) cachedResult(ctx context.Context, title string) (AggregateResult, bool) {
	if s.qry == nil {
		return AggregateResult{}, false
	}

	row, err := s.qry.GetResponse(ctx, cacheKey(title))
	if errors.Is(err, sql.ErrNoRows) {
		return AggregateResult{}, false
	}
	if err != nil {
		slog.WarnContext(ctx, "failed to read response cache", "err", err)
		return AggregateResult{}, false
	}
	if time.Unix(row.CreatedAt, 0).Add(CacheTTL).Before(time.Now()) {
		return AggregateResult{}, false
	}

	var result AggregateResult
	err = json.Unmarshal([]byte(row.Payload), &result)
	if err != nil {
		slog.WarnContext(ctx, "failed to unmarshal cached response", "err", err)
		return AggregateResult{}, false
	}
	return result, true
}

func (s Service) storeResult(ctx context.Context, title string, result AggregateResult) {
	if s.qry == nil {
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		slog.WarnContext(ctx, "failed to marshal response for cache", "err", err)
		return
	}
	err = s.qry.UpsertResponse(ctx, db.UpsertResponseParams{
		TitleKey:  cacheKey(title),
		Payload:   string(payload),
		CreatedAt: time.Now().Unix(),
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to write response cache", "err", err)
	}
}
