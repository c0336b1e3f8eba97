package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ratings-cli <title>...",
	Short: "ratings-cli fetches per-episode IMDb ratings for a TV series.",
	Args:  cobra.MinimumNArgs(1),
	Run:   runFetch,
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
