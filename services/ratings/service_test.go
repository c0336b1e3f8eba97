package ratings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"showgraph-backend/lib/scrapers/imdb"
	"showgraph-backend/lib/telemetry"
	"showgraph-backend/services/ratings/db"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

type fakeScraper struct {
	series      imdb.Series
	searchErr   error
	seasons     []int
	seasonsErr  error
	ratings     map[int][]float64
	ratingsErr  map[int]error
	searchCalls int
}

func (f *fakeScraper) SearchSeries(ctx context.Context, title string) (imdb.Series, error) {
	f.searchCalls++
	if f.searchErr != nil {
		return imdb.Series{}, f.searchErr
	}
	return f.series, nil
}

func (f *fakeScraper) SeasonNumbers(ctx context.Context, id string) ([]int, error) {
	if f.seasonsErr != nil {
		return nil, f.seasonsErr
	}
	return f.seasons, nil
}

func (f *fakeScraper) EpisodeRatings(ctx context.Context, id string, season int) ([]float64, error) {
	if err := f.ratingsErr[season]; err != nil {
		return nil, err
	}
	return f.ratings[season], nil
}

var testOptions = ServiceOptions{Pacing: time.Nanosecond}

func TestAggregateKeepsMultiEpisodeSeasons(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:services/ratings")
	defer cleanup()

	scraper := &fakeScraper{
		series:  imdb.Series{ID: "tt0903747", Title: "Breaking Bad"},
		seasons: []int{1, 2, 3, 4},
		ratings: map[int][]float64{
			1: {8.2, 9.1, 8.8},
			2: {7.5},
			3: {},
			4: {9.0, 9.6},
		},
	}
	service := NewService(scraper, nil, testOptions)

	result := service.Aggregate(context.Background(), "Breaking Bad")

	require.True(t, result.Success)
	require.Equal(t, "Breaking Bad", result.Title)
	require.Equal(t, "tt0903747", result.IMDBID)
	// single-episode and empty seasons are discarded
	require.Equal(t, [][]float64{{8.2, 9.1, 8.8}, {9.0, 9.6}}, result.Seasons)
	require.Empty(t, result.Error)
}

func TestAggregateNotFoundPassesThrough(t *testing.T) {
	scraper := &fakeScraper{
		searchErr: fmt.Errorf("%w for 'Some Unknown Show'", imdb.ErrNoSeriesFound),
	}
	service := NewService(scraper, nil, testOptions)

	result := service.Aggregate(context.Background(), "Some Unknown Show")

	require.False(t, result.Success)
	require.Equal(t, "No TV series found for 'Some Unknown Show'", result.Error)
	require.Empty(t, result.Title)
	require.Empty(t, result.Seasons)
}

func TestAggregateHidesInternalErrors(t *testing.T) {
	scraper := &fakeScraper{
		series:     imdb.Series{ID: "tt0903747", Title: "Breaking Bad"},
		seasonsErr: errors.New("dial tcp 203.0.113.9:443: i/o timeout"),
	}
	service := NewService(scraper, nil, testOptions)

	result := service.Aggregate(context.Background(), "Breaking Bad")

	require.False(t, result.Success)
	require.Equal(t, "An error occurred while fetching data", result.Error)
	require.NotContains(t, result.Error, "dial tcp")
}

func TestAggregateSeasonFailureFailsRequest(t *testing.T) {
	scraper := &fakeScraper{
		series:  imdb.Series{ID: "tt0903747", Title: "Breaking Bad"},
		seasons: []int{1, 2, 3},
		ratings: map[int][]float64{
			1: {8.2, 9.1},
			3: {9.0, 9.6},
		},
		ratingsErr: map[int]error{
			2: errors.New("unexpected status 503 from /title/tt0903747/episodes/"),
		},
	}
	service := NewService(scraper, nil, testOptions)

	result := service.Aggregate(context.Background(), "Breaking Bad")

	require.False(t, result.Success)
	require.Equal(t, "An error occurred while fetching data", result.Error)
	require.Empty(t, result.Seasons)
}

func openCacheDB(t *testing.T) *sql.DB {
	sqlite, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { sqlite.Close() })
	_, err = sqlite.Exec(db.Schema)
	if err != nil {
		t.Fatal(err)
	}
	return sqlite
}

func TestAggregateUsesResponseCache(t *testing.T) {
	scraper := &fakeScraper{
		series:  imdb.Series{ID: "tt0903747", Title: "Breaking Bad"},
		seasons: []int{1},
		ratings: map[int][]float64{1: {8.2, 9.1}},
	}
	cache := openCacheDB(t)
	service := NewService(scraper, cache, testOptions)

	ctx := context.Background()
	first := service.Aggregate(ctx, "Breaking Bad")
	require.True(t, first.Success)
	require.Equal(t, 1, scraper.searchCalls)

	// same title, different spacing/casing, served from the cache
	second := service.Aggregate(ctx, "  breaking bad ")
	require.Equal(t, first, second)
	require.Equal(t, 1, scraper.searchCalls)
}

func TestAggregateIgnoresStaleCacheEntries(t *testing.T) {
	scraper := &fakeScraper{
		series:  imdb.Series{ID: "tt0903747", Title: "Breaking Bad"},
		seasons: []int{1},
		ratings: map[int][]float64{1: {8.2, 9.1}},
	}
	cache := openCacheDB(t)
	service := NewService(scraper, cache, testOptions)

	ctx := context.Background()
	stale := time.Now().Add(-CacheTTL - time.Hour).Unix()
	err := db.New(cache).UpsertResponse(ctx, db.UpsertResponseParams{
		TitleKey:  "breaking bad",
		Payload:   `{"success":true,"title":"Stale","imdb_id":"tt0000001"}`,
		CreatedAt: stale,
	})
	if err != nil {
		t.Fatal(err)
	}

	result := service.Aggregate(ctx, "Breaking Bad")
	require.True(t, result.Success)
	require.Equal(t, "Breaking Bad", result.Title)
	require.Equal(t, 1, scraper.searchCalls)
}

func TestAggregateDoesNotCacheFailures(t *testing.T) {
	scraper := &fakeScraper{
		searchErr: fmt.Errorf("%w for 'Some Unknown Show'", imdb.ErrNoSeriesFound),
	}
	cache := openCacheDB(t)
	service := NewService(scraper, cache, testOptions)

	ctx := context.Background()
	service.Aggregate(ctx, "Some Unknown Show")
	service.Aggregate(ctx, "Some Unknown Show")
	require.Equal(t, 2, scraper.searchCalls)
}
