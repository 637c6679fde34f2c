package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/plantops/greenhouse-data-sim/internal/plant"
)

// Scheduler periodically regenerates aggregated stats for configured plants.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *plant.Service
	plants    []string
	interval  time.Duration
}

// New creates a new Scheduler.
func New(plants []string, interval time.Duration, service *plant.Service) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		plants:    plants,
		interval:  interval,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first generation runs immediately so the latest-stats endpoints have
// data before the first interval elapses.
func (s *Scheduler) Start() error {
	if len(s.plants) == 0 {
		log.Println("scheduler: no plants configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().StartImmediately().Do(func() {
		log.Println("scheduler: running generation job")

		var wg sync.WaitGroup
		for _, plantID := range s.plants {
			plantID := plantID
			wg.Add(1)
			go func() {
				defer wg.Done()

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if _, err := s.service.Generate(ctx, plantID); err != nil {
					log.Printf("scheduler: generation failed for %s: %v", plantID, err)
				}
			}()
		}
		wg.Wait()
		log.Println("scheduler: completed generation job")
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
