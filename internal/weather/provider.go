package weather

import "context"

// DayReading is a single day's normalized reading from a weather source.
// Date is a calendar date string (YYYY-MM-DD) in the source's local timezone.
type DayReading struct {
	Date     string
	TempMax  float64
	TempMin  float64
	Temp     float64
	PrecipMM float64
}

// Provider abstracts a historical weather data source (e.g. Visual Crossing).
// FetchDays returns one reading per day for the inclusive [start, end] window,
// ordered ascending by date.
type Provider interface {
	Name() string
	FetchDays(ctx context.Context, start, end string) ([]DayReading, error)
}
