package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelvins/geocoder"
)

type AppConfig struct {
	// Visual Crossing API access and the tracked location.
	VisualCrossingAPIKey string
	Latitude             string
	Longitude            string

	// Timezone used for "yesterday" math and year defaults.
	Timezone *time.Location

	DBPath string
	Port   string

	// Timeout for outbound weather API calls.
	HTTPTimeout time.Duration

	// Optional HH:MM local time to run the daily fetch in-process.
	// Empty disables the scheduler (the default).
	FetchDailyAt string
}

// Load reads configuration from environment with sensible defaults.
// Coordinates can be given directly via LATITUDE/LONGITUDE, or resolved from
// ADDRESS with a Google geocoding key.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.VisualCrossingAPIKey = os.Getenv("VISUALCROSSING_API_KEY")
	cfg.Latitude = os.Getenv("LATITUDE")
	cfg.Longitude = os.Getenv("LONGITUDE")

	if cfg.Latitude == "" || cfg.Longitude == "" {
		lat, lon, err := geocodeAddress()
		if err != nil {
			return nil, err
		}
		cfg.Latitude, cfg.Longitude = lat, lon
	}

	tzName := getenvDefault("TIMEZONE", "UTC")
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tzName, err)
	}
	cfg.Timezone = tz

	cfg.DBPath = getenvDefault("DB_PATH", "db.sqlite")
	cfg.Port = getenvDefault("PORT", "8080")
	cfg.FetchDailyAt = os.Getenv("FETCH_DAILY_AT")

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	return cfg, nil
}

// RequireIngestion checks the fields the ingestion CLIs cannot run without.
func (c *AppConfig) RequireIngestion() error {
	if c.VisualCrossingAPIKey == "" {
		return fmt.Errorf("VISUALCROSSING_API_KEY is required")
	}
	if c.Latitude == "" || c.Longitude == "" {
		return fmt.Errorf("LATITUDE and LONGITUDE (or ADDRESS with GOOGLE_GEOCODING_API_KEY) are required")
	}
	return nil
}

// geocodeAddress resolves ADDRESS to coordinates when both it and the Google
// geocoding key are set. Missing either is not an error here; the server can
// run query-only without coordinates.
func geocodeAddress() (lat, lon string, err error) {
	address := os.Getenv("ADDRESS")
	apiKey := os.Getenv("GOOGLE_GEOCODING_API_KEY")
	if address == "" || apiKey == "" {
		return "", "", nil
	}

	geocoder.ApiKey = apiKey
	loc, err := geocoder.Geocoding(geocoder.Address{Street: address})
	if err != nil {
		return "", "", fmt.Errorf("geocode ADDRESS %q: %w", address, err)
	}

	return strconv.FormatFloat(loc.Latitude, 'f', 6, 64),
		strconv.FormatFloat(loc.Longitude, 'f', 6, 64), nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
