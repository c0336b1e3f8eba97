package commands

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	configlibsql "showgraph-backend/lib/configutil/libsql"
	"showgraph-backend/lib/scrapers/imdb"
	"showgraph-backend/lib/serviceutil"
	"showgraph-backend/services/ratings"
	ratingsdb "showgraph-backend/services/ratings/db"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var cacheFile *string
var showTrends *bool

func init() {
	cacheFile = rootCmd.Flags().String("cache", "", "Optional sqlite file used to cache responses.")
	showTrends = rootCmd.Flags().Bool("trends", false, "Print a least squares trend line per season.")
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func runFetch(cmd *cobra.Command, args []string) {
	title := strings.Join(args, " ")

	var cache *sql.DB
	if *cacheFile != "" {
		var err error
		cache, err = configlibsql.Struct{File: *cacheFile}.OpenDB(ratingsdb.Schema)
		if err != nil {
			serviceutil.Fatal("failed to open cache db", err)
		}
		defer cache.Close()
	}

	client, err := imdb.NewClient(imdb.ClientOptions{})
	if err != nil {
		serviceutil.Fatal("failed to create imdb client", err)
	}
	service := ratings.NewService(client, cache, ratings.ServiceOptions{})

	slog.Info("fetching ratings", "title", title)
	t1 := time.Now()
	result := service.Aggregate(cmd.Context(), title)
	slog.Info("fetch time", "seconds", time.Since(t1).Seconds())

	if !result.Success {
		fmt.Fprintln(os.Stderr, result.Error)
		os.Exit(1)
	}

	fmt.Printf("%s (%s)\n", result.Title, result.IMDBID)
	renderSeasons(result.Seasons)
	if *showTrends {
		renderTrends(result.Seasons)
	}
}

func renderSeasons(seasons [][]float64) {
	t := newTable()
	t.AppendHeader(table.Row{"season", "episodes", "ratings"})
	for i, season := range seasons {
		labels := make([]string, len(season))
		for j, rating := range season {
			labels[j] = strconv.FormatFloat(rating, 'f', 1, 64)
		}
		t.AppendRow(table.Row{i + 1, len(season), strings.Join(labels, " ")})
	}
	t.Render()
}

func renderTrends(seasons [][]float64) {
	t := newTable()
	t.AppendHeader(table.Row{"season", "slope", "intercept"})
	for i, trend := range ratings.SeasonTrends(seasons) {
		t.AppendRow(table.Row{
			i + 1,
			fmt.Sprintf("%+.3f", trend.Slope),
			fmt.Sprintf("%.3f", trend.Intercept),
		})
	}
	t.Render()
}
