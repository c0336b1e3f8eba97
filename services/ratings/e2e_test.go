package ratings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"showgraph-backend/lib/scrapers/imdb"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	_ "embed"
)

//go:embed testdata/find.html
var findPage []byte

//go:embed testdata/episodes_index.html
var episodesIndexPage []byte

//go:embed testdata/episodes_odd.html
var episodesOddPage []byte

//go:embed testdata/episodes_even.html
var episodesEvenPage []byte

// runs the whole pipeline against a fixture server: resolve, enumerate,
// fetch every season, aggregate.
func TestAggregateEndToEnd(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/find/", func(w http.ResponseWriter, r *http.Request) {
		w.Write(findPage)
	})
	mux.HandleFunc("/title/tt0903747/episodes/", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("season") {
		case "":
			w.Write(episodesIndexPage)
		case "2", "4":
			w.Write(episodesEvenPage)
		default:
			w.Write(episodesOddPage)
		}
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := imdb.NewClient(imdb.ClientOptions{BaseUrl: server.URL})
	if err != nil {
		t.Fatal(err)
	}
	service := NewService(client, nil, ServiceOptions{Pacing: time.Millisecond})

	result := service.Aggregate(context.Background(), "Breaking Bad")

	require.True(t, result.Success)
	require.Equal(t, "Breaking Bad", result.Title)
	require.Equal(t, "tt0903747", result.IMDBID)
	require.Len(t, result.Seasons, 5)
	for i, season := range result.Seasons {
		expected := 4
		if i == 1 || i == 3 {
			expected = 3
		}
		require.Len(t, season, expected, "season index %d", i)
	}
}
