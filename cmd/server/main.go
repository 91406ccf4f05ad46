// Command server runs the inventory backend: the REST API, the
// write-behind synchronizer, and the daily snapshot scheduler.
//
// Configuration comes from CONFIG_PATH (YAML) and environment variables;
// see internal/config. The process shuts down cleanly on SIGINT/SIGTERM,
// flushing queued remote writes on the way out.
//
// Exit codes: 0 = clean shutdown, 1 = startup or runtime error.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ovenlight/prepstock-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
