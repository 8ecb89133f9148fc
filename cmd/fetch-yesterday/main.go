package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/jonboulle/clockwork"

	"github.com/knitcast/temperature-blanket/internal/blanket"
	"github.com/knitcast/temperature-blanket/internal/config"
	"github.com/knitcast/temperature-blanket/internal/store"
	"github.com/knitcast/temperature-blanket/internal/weather/providers"
)

// fetch-yesterday ingests yesterday's high temperature, with "yesterday"
// computed in the configured timezone. Meant to be run from cron once a day.
func main() {
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

	log.Printf("Fetching temperature data for %s...", service.Yesterday())

	res, err := service.IngestYesterday(ctx)
	if err != nil {
		log.Printf("error fetching yesterday data: %v", err)
		os.Exit(1)
	}

	switch {
	case res.NoData:
		log.Println("No data returned from API")
		os.Exit(0)
	case res.Inserted:
		log.Printf("Successfully inserted %s: %d F -> %s", res.Date, res.HighTemperature, res.ColorName)
	default:
		log.Printf("Record for %s already exists (skipped)", res.Date)
	}

	last, err := service.GetLastRecordedDate()
	if err != nil {
		log.Printf("failed to read last recorded date: %v", err)
		os.Exit(1)
	}
	log.Printf("Latest recorded date: %s", last)
}
