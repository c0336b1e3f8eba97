package main

import (
	"context"
	"showgraph-backend/cmd/ratings-cli/commands"
	"showgraph-backend/lib/telemetry"
)

func main() {
	telemetry.SetupFromEnv(context.Background(), "ratings-cli")
	telemetry.InitSlog(true)
	commands.ExecuteContext(context.Background())
}
