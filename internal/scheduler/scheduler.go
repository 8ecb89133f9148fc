package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/knitcast/temperature-blanket/internal/blanket"
)

// Scheduler runs the daily "fetch yesterday" ingestion in-process. It is
// optional; when no run time is configured the service stays purely
// request-driven and ingestion happens through the CLIs.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *blanket.Service
	at        string
}

// New creates a Scheduler that fires daily at the given local HH:MM time.
func New(service *blanket.Service, tz *time.Location, at string) *Scheduler {
	if tz == nil {
		tz = time.UTC
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(tz),
		service:   service,
		at:        at,
	}
}

// Start schedules the daily job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.at == "" {
		log.Println("scheduler: no daily fetch time configured; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(1).Day().At(s.at).Do(func() {
		log.Println("scheduler: running daily temperature fetch")

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		res, err := s.service.IngestYesterday(ctx)
		if err != nil {
			log.Printf("scheduler: fetch failed for %s: %v", res.Date, err)
			return
		}
		switch {
		case res.NoData:
			log.Printf("scheduler: no data returned for %s", res.Date)
		case res.Inserted:
			log.Printf("scheduler: inserted %s: %d F -> %s", res.Date, res.HighTemperature, res.ColorName)
		default:
			log.Printf("scheduler: record for %s already exists (skipped)", res.Date)
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
