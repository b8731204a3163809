package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// WarmRequester queues a full cover warm-up.
type WarmRequester interface {
	RequestWarmAll(ctx context.Context) error
}

// CoverPruner removes cached covers of books no longer in the catalog.
type CoverPruner interface {
	Prune(keep []string) (int, error)
}

// CoverWarmScheduler periodically queues cover warming and drops covers of
// books that left the catalog.
type CoverWarmScheduler struct {
	requester WarmRequester
	pruner    CoverPruner
	bookIDs   func() []string
	schedule  string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isWarming  bool
	lastRun    time.Time
	cancelFunc context.CancelFunc
}

// NewCoverWarmScheduler creates a scheduler. pruner and bookIDs may be nil,
// in which case pruning is skipped.
func NewCoverWarmScheduler(schedule string, requester WarmRequester, pruner CoverPruner, bookIDs func() []string) *CoverWarmScheduler {
	return &CoverWarmScheduler{
		requester: requester,
		pruner:    pruner,
		bookIDs:   bookIDs,
		schedule:  schedule,
		cron:      cron.New(cron.WithParser(cronParser)),
	}
}

// ValidateCronSchedule checks a standard five-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// NextRunTime calculates when a schedule fires next after from.
func NextRunTime(schedule string, from time.Time) (time.Time, error) {
	sched, err := cronParser.Parse(schedule)
	if err != nil {
		return time.Time{}, err
	}
	return sched.Next(from), nil
}

func (s *CoverWarmScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if s.requester == nil {
		log.Printf("Cover warm scheduler: task queue not configured, skipping")
		return nil
	}
	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.RunOnce(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule cover warm job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	next, _ := NextRunTime(s.schedule, time.Now())
	log.Printf("Cover warm scheduler: started with schedule '%s'. Next run: %v", s.schedule, next)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running job and stops the cron loop.
func (s *CoverWarmScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	cancel := s.cancelFunc
	s.cancelFunc = nil
	s.mu.Unlock()

	// The running job takes s.mu when it finishes, so wait outside the lock.
	<-s.cron.Stop().Done()
	if cancel != nil {
		cancel()
	}

	log.Printf("Cover warm scheduler: stopped")
}

// RunOnce prunes stale covers and queues a warm-up. Overlapping runs are
// skipped.
func (s *CoverWarmScheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	if s.isWarming {
		s.mu.Unlock()
		log.Printf("Cover warm: skipped (already running)")
		return
	}
	s.isWarming = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isWarming = false
		s.lastRun = time.Now()
		s.mu.Unlock()
	}()

	if s.pruner != nil && s.bookIDs != nil {
		removed, err := s.pruner.Prune(s.bookIDs())
		if err != nil {
			log.Printf("Cover warm: prune failed: %v", err)
		} else if removed > 0 {
			log.Printf("Cover warm: pruned %d stale covers", removed)
		}
	}

	if s.requester == nil {
		return
	}
	if err := s.requester.RequestWarmAll(ctx); err != nil {
		log.Printf("Cover warm: failed to queue warm-up: %v", err)
		return
	}
	log.Printf("Cover warm: queued warm-up")
}

func (s *CoverWarmScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// LastRun returns when RunOnce last finished, zero if never.
func (s *CoverWarmScheduler) LastRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun
}

// GetNextRunTime returns when the job fires next, or nil when stopped.
func (s *CoverWarmScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}
