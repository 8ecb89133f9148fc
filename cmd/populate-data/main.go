package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/jonboulle/clockwork"

	"github.com/knitcast/temperature-blanket/internal/blanket"
	"github.com/knitcast/temperature-blanket/internal/config"
	"github.com/knitcast/temperature-blanket/internal/store"
	"github.com/knitcast/temperature-blanket/internal/weather/providers"
)

// populate-data backfills a date window: one provider fetch for the whole
// window, then per-day inserts that skip dates already recorded.
func main() {
	start := flag.String("start", "", "window start date (YYYY-MM-DD)")
	end := flag.String("end", "", "window end date (YYYY-MM-DD)")
	flag.Parse()

	if *start == "" || *end == "" {
		log.Println("usage: populate-data -start YYYY-MM-DD -end YYYY-MM-DD")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Printf("failed to load config: %v", err)
		os.Exit(1)
	}
	if err := cfg.RequireIngestion(); err != nil {
		log.Printf("missing required configuration: %v", err)
		os.Exit(1)
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Printf("failed to open store at %s: %v", cfg.DBPath, err)
		os.Exit(1)
	}
	defer db.Close()

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	provider := providers.NewVisualCrossingProvider(httpClient, cfg.VisualCrossingAPIKey, cfg.Latitude, cfg.Longitude)

	service, err := blanket.NewService(db, provider, clockwork.NewRealClock(), cfg.Timezone)
	if err != nil {
		log.Printf("failed to initialize service: %v", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
	defer cancel()

	log.Printf("Fetching temperature data from %s to %s...", *start, *end)

	sum, err := service.IngestWindow(ctx, *start, *end)
	if err != nil {
		log.Printf("error populating data: %v", err)
		os.Exit(1)
	}

	log.Printf("Received %d days of data", sum.Received)
	log.Printf("Successfully inserted %d records (%d skipped)", sum.Inserted, sum.Skipped)

	stats, err := service.GetStats()
	if err != nil {
		log.Printf("failed to read stats: %v", err)
		os.Exit(1)
	}
	latest := "none"
	if stats.Latest != nil {
		latest = *stats.Latest
	}
	log.Printf("Total records in database: %d, Latest: %s", stats.Total, latest)
}
