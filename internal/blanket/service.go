package blanket

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/knitcast/temperature-blanket/internal/weather"
)

// Service orchestrates range seeding, daily ingestion, and queries against
// the store. The provider may be nil for query-only deployments; ingestion
// operations then fail with a configuration error.
type Service struct {
	store    Store
	provider weather.Provider
	clock    clockwork.Clock
	tz       *time.Location
	ranges   []TemperatureRange
}

// NewService seeds the range table if empty and caches the seeded ranges.
// Ranges are immutable after seeding, so the cache never goes stale.
func NewService(store Store, provider weather.Provider, clock clockwork.Clock, tz *time.Location) (*Service, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if tz == nil {
		tz = time.UTC
	}

	if err := store.SeedRanges(DefaultRanges); err != nil {
		return nil, fmt.Errorf("seed temperature ranges: %w", err)
	}
	ranges, err := store.GetRanges()
	if err != nil {
		return nil, fmt.Errorf("load temperature ranges: %w", err)
	}

	return &Service{
		store:    store,
		provider: provider,
		clock:    clock,
		tz:       tz,
		ranges:   ranges,
	}, nil
}

// Ranges returns the seeded ranges in ascending display order.
func (s *Service) Ranges() []TemperatureRange {
	return s.ranges
}

// ResolveColor maps an already-rounded temperature to its color.
func (s *Service) ResolveColor(temp int) ColorMapping {
	return ResolveColor(s.ranges, temp)
}

// Ingest rounds a raw high reading, resolves its color, and inserts a record
// for the date if none exists. It reports whether a new row was created; a
// second call for the same date returns false and leaves the original row
// untouched. An unmapped temperature is still inserted with the fallback
// color, but logged since the sentinel buckets are supposed to make that
// impossible.
func (s *Service) Ingest(date string, rawHigh float64) (bool, error) {
	temp := RoundHalfUp(rawHigh)
	color := s.ResolveColor(temp)
	if color == FallbackColor {
		log.Printf("no range matched temperature %d for %s; storing fallback color", temp, date)
	}

	return s.store.InsertDaily(DailyInsert{
		Date:            date,
		HighTemperature: temp,
		ColorName:       color.ColorName,
		ColorHex:        color.ColorHex,
		Year:            s.yearFromDate(date),
	})
}

// WindowSummary reports the outcome of a batch ingestion run.
type WindowSummary struct {
	Received int
	Inserted int
	Skipped  int
}

// IngestWindow fetches all readings for the inclusive [start, end] window and
// ingests each day independently. One day failing to insert does not abort
// the rest; it is logged and counted as skipped. A provider fetch failure is
// fatal to the whole run.
func (s *Service) IngestWindow(ctx context.Context, start, end string) (WindowSummary, error) {
	if s.provider == nil {
		return WindowSummary{}, errors.New("no weather provider configured")
	}

	days, err := s.provider.FetchDays(ctx, start, end)
	if err != nil {
		return WindowSummary{}, fmt.Errorf("fetch %s..%s from %s: %w", start, end, s.provider.Name(), err)
	}

	sum := WindowSummary{Received: len(days)}
	for _, day := range days {
		inserted, err := s.Ingest(day.Date, day.TempMax)
		if err != nil {
			log.Printf("ingest %s failed: %v", day.Date, err)
			sum.Skipped++
			continue
		}
		if !inserted {
			sum.Skipped++
			continue
		}
		sum.Inserted++
		temp := RoundHalfUp(day.TempMax)
		log.Printf("  %s: %d F -> %s", day.Date, temp, s.ResolveColor(temp).ColorName)
	}

	return sum, nil
}

// YesterdayResult reports the outcome of a single-day ingestion run.
type YesterdayResult struct {
	Date            string
	NoData          bool
	Inserted        bool
	HighTemperature int
	ColorName       string
}

// IngestYesterday fetches and ingests yesterday's reading, with "yesterday"
// computed in the service timezone.
func (s *Service) IngestYesterday(ctx context.Context) (YesterdayResult, error) {
	date := s.Yesterday()
	res := YesterdayResult{Date: date}

	if s.provider == nil {
		return res, errors.New("no weather provider configured")
	}

	days, err := s.provider.FetchDays(ctx, date, date)
	if err != nil {
		return res, fmt.Errorf("fetch %s from %s: %w", date, s.provider.Name(), err)
	}
	if len(days) == 0 {
		res.NoData = true
		return res, nil
	}

	day := days[0]
	inserted, err := s.Ingest(day.Date, day.TempMax)
	if err != nil {
		return res, err
	}

	res.Date = day.Date
	res.Inserted = inserted
	res.HighTemperature = RoundHalfUp(day.TempMax)
	res.ColorName = s.ResolveColor(res.HighTemperature).ColorName
	return res, nil
}

// Yesterday returns yesterday's calendar date in the service timezone.
func (s *Service) Yesterday() string {
	return s.clock.Now().In(s.tz).AddDate(0, 0, -1).Format("2006-01-02")
}

// CurrentYear returns the current year in the service timezone.
func (s *Service) CurrentYear() int {
	return s.clock.Now().In(s.tz).Year()
}

// GetAll delegates to the underlying store.
func (s *Service) GetAll() ([]DailyTemperature, error) {
	return s.store.GetAllDaily()
}

// GetByYear delegates to the underlying store.
func (s *Service) GetByYear(year int) ([]DailyTemperature, error) {
	return s.store.GetDailyByYear(year)
}

// GetByDateRange delegates to the underlying store.
func (s *Service) GetByDateRange(start, end string) ([]DailyTemperature, error) {
	return s.store.GetDailyByDateRange(start, end)
}

// GetLatest delegates to the underlying store.
func (s *Service) GetLatest() (DailyTemperature, error) {
	return s.store.GetLatestDaily()
}

// GetLastRecordedDate delegates to the underlying store.
func (s *Service) GetLastRecordedDate() (string, error) {
	return s.store.GetLastRecordedDate()
}

// GetStats delegates to the underlying store.
func (s *Service) GetStats() (Stats, error) {
	return s.store.GetStats()
}

// GetProgress delegates to the underlying store.
func (s *Service) GetProgress() (*Progress, error) {
	return s.store.GetProgress()
}

// SetProgress delegates to the underlying store.
func (s *Service) SetProgress(date *string) error {
	return s.store.SetProgress(date)
}

// yearFromDate extracts the year from a YYYY-MM-DD date string, falling back
// to the current year when the string is malformed.
func (s *Service) yearFromDate(date string) int {
	if len(date) >= 4 {
		if y, err := strconv.Atoi(date[:4]); err == nil {
			return y
		}
	}
	return s.CurrentYear()
}
