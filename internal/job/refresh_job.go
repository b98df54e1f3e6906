// Package job schedules the daily cache refresh.
package job

import (
	"context"
	"log"
	"sync"
	"time"

	"mnav-tracker/internal/domain"
	"mnav-tracker/internal/metrics"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

// DailyRefresher is the cache operation the scheduler drives. The bool
// return reports whether a resolution actually ran, so duplicate triggers
// around midnight are harmless.
type DailyRefresher interface {
	ScheduledRefresh(ctx context.Context) (domain.Snapshot, bool)
}

// refreshCron fires just past midnight UTC, right after the cache entry for
// the previous day expires.
const refreshCron = "0 0 * * *"

// RefreshScheduler runs the daily refresh on a cron schedule.
type RefreshScheduler struct {
	nav DailyRefresher

	mu    sync.Mutex
	sched gocron.Scheduler
}

func NewRefreshScheduler(nav DailyRefresher) *RefreshScheduler {
	return &RefreshScheduler{nav: nav}
}

// Start registers the cron job and begins scheduling. The scheduler shuts
// down when the provided context is cancelled.
func (s *RefreshScheduler) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.sched = scheduler
	s.mu.Unlock()

	_, err = scheduler.NewJob(
		gocron.CronJob(refreshCron, false),
		gocron.NewTask(s.runOnce),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	scheduler.Start()
	log.Printf("scheduler: daily refresh registered (%s UTC)", refreshCron)

	go func() {
		<-ctx.Done()
		if sdErr := s.Shutdown(); sdErr != nil {
			log.Printf("scheduler: shutdown error: %v", sdErr)
		}
	}()
	return nil
}

func (s *RefreshScheduler) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sched == nil {
		return nil
	}
	err := s.sched.Shutdown()
	s.sched = nil
	return err
}

func (s *RefreshScheduler) running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched != nil
}

func (s *RefreshScheduler) runOnce(ctx context.Context) {
	execID := uuid.NewString()
	started := time.Now()

	snap, refreshed := s.nav.ScheduledRefresh(ctx)
	metrics.ObserveJob("daily-refresh", started, nil)

	if !refreshed {
		log.Printf("scheduler: run %s skipped, entry already from today", execID)
		return
	}
	log.Printf("scheduler: run %s refreshed mNAV to %.4f (%s)", execID, snap.Value, snap.Source)
}
