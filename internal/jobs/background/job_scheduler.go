package background

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/GoodNightBuddy/realtor-app/internal/repositories"

	"github.com/go-co-op/gocron/v2"
)

// orphanGracePeriod gives a realtor time to upload photos before a new
// listing without images is reported.
const orphanGracePeriod = 24 * time.Hour

// JobScheduler runs the periodic maintenance jobs
type JobScheduler struct {
	scheduler   gocron.Scheduler
	listingRepo repositories.ListingRepository
	interval    time.Duration
	now         func() time.Time
	jobs        map[string]gocron.Job
	mu          sync.RWMutex
}

// NewJobScheduler creates a scheduler and registers its jobs
func NewJobScheduler(listingRepo repositories.ListingRepository, interval time.Duration) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler:   scheduler,
		listingRepo: listingRepo,
		interval:    interval,
		now:         time.Now,
		jobs:        make(map[string]gocron.Job),
	}

	if err := js.registerJobs(); err != nil {
		return nil, err
	}
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
}

// Stop waits for running jobs and stops the scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() error {
	sweepJob, err := js.scheduler.NewJob(
		gocron.DurationJob(js.interval),
		gocron.NewTask(js.runOrphanSweep),
		gocron.WithName("orphan-listing-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create orphan sweep job: %w", err)
	}

	js.mu.Lock()
	js.jobs["orphan-sweep"] = sweepJob
	js.mu.Unlock()

	log.Printf("Registered %d background jobs", len(js.jobs))
	return nil
}

// JobNames lists the registered job names
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for _, job := range js.jobs {
		names = append(names, job.Name())
	}
	return names
}

func (js *JobScheduler) runOrphanSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), js.interval)
	defer cancel()

	if _, err := js.SweepOrphans(ctx); err != nil {
		log.Printf("Orphan listing sweep failed: %v", err)
	}
}

// SweepOrphans reports listings that still have no images after the grace
// period. It only logs them; nothing is deleted.
func (js *JobScheduler) SweepOrphans(ctx context.Context) (int, error) {
	cutoff := js.now().Add(-orphanGracePeriod)
	ids, err := js.listingRepo.ListOrphans(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("list orphan listings: %w", err)
	}

	if len(ids) == 0 {
		log.Printf("Orphan listing sweep: none listed before %s", cutoff.Format(time.RFC3339))
		return 0, nil
	}
	for _, id := range ids {
		log.Printf("Orphan listing sweep: listing %s has no images", id)
	}
	log.Printf("Orphan listing sweep: %d listings without images", len(ids))
	return len(ids), nil
}
