package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/taramuri/weather-platform-sub001/internal/agro"
	"github.com/taramuri/weather-platform-sub001/internal/geo"
)

// Warmer periodically recomputes moisture snapshots for configured places so
// interactive queries hit a fresh cache.
type Warmer struct {
	scheduler *gocron.Scheduler
	service   *agro.Service
	resolver  *geo.Resolver
	places    []string
	interval  time.Duration
}

// New creates a new Warmer.
func New(places []string, interval time.Duration, service *agro.Service, resolver *geo.Resolver) *Warmer {
	s := gocron.NewScheduler(time.UTC)
	return &Warmer{
		scheduler: s,
		service:   service,
		resolver:  resolver,
		places:    places,
		interval:  interval,
	}
}

// Start schedules the periodic warm job and starts the underlying scheduler.
func (w *Warmer) Start() error {
	if len(w.places) == 0 {
		log.Println("scheduler: no warm places configured; nothing to schedule")
		return nil
	}

	minutes := int(w.interval.Minutes())
	if minutes <= 0 {
		minutes = 30
	}

	_, err := w.scheduler.Every(minutes).Minutes().Do(func() {
		log.Println("scheduler: running moisture warm job")

		var wg sync.WaitGroup
		for _, place := range w.places {
			place := place
			wg.Add(1)
			go func() {
				defer wg.Done()

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				resolved, err := w.resolver.Resolve(ctx, place)
				if err != nil {
					log.Printf("scheduler: resolve failed for %q: %v", place, err)
					return
				}

				coords := agro.Coordinates{Latitude: resolved.Latitude, Longitude: resolved.Longitude}
				if _, err := w.service.GetMoistureSnapshot(ctx, coords); err != nil {
					log.Printf("scheduler: moisture warm failed for %q: %v", place, err)
				}
			}()
		}
		wg.Wait()
		log.Println("scheduler: completed moisture warm job")
	})
	if err != nil {
		return err
	}

	w.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (w *Warmer) Stop() {
	if w.scheduler != nil {
		w.scheduler.Stop()
	}
}
