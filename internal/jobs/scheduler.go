// Package jobs runs the periodic housekeeping of the booking service.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

const jobTimeout = time.Minute

type Reminder interface {
	RemindPendingReviews(ctx context.Context, window time.Duration) (int, error)
}

type Pruner interface {
	Prune(ctx context.Context) (int, error)
}

type Scheduler struct {
	cron *cron.Cron
	log  *log.Entry
}

func NewScheduler() *Scheduler {
	printf := cron.PrintfLogger(log.StandardLogger())
	return &Scheduler{
		cron: cron.New(cron.WithChain(cron.Recover(printf), cron.SkipIfStillRunning(printf))),
		log:  log.WithField("component", "jobs"),
	}
}

// AddReminderJob publishes reminders for requests still in review whose stay
// starts within window.
func (s *Scheduler) AddReminderJob(spec string, r Reminder, window time.Duration) error {
	if _, err := s.cron.AddFunc(spec, s.reminderJob(r, window)); err != nil {
		return fmt.Errorf("schedule review reminders %q: %w", spec, err)
	}
	return nil
}

// AddPruneJob drops expired idempotency keys.
func (s *Scheduler) AddPruneJob(spec string, p Pruner) error {
	if _, err := s.cron.AddFunc(spec, s.pruneJob(p)); err != nil {
		return fmt.Errorf("schedule idempotency prune %q: %w", spec, err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Infof("scheduler started with %d jobs", len(s.cron.Entries()))
}

// Stop waits for running jobs to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("stopping scheduler while jobs are still running")
	}
}

func (s *Scheduler) reminderJob(r Reminder, window time.Duration) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		n, err := r.RemindPendingReviews(ctx, window)
		if err != nil {
			s.log.WithError(err).Error("review reminders failed")
			return
		}
		s.log.WithField("count", n).Info("review reminders sent")
	}
}

func (s *Scheduler) pruneJob(p Pruner) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		n, err := p.Prune(ctx)
		if err != nil {
			s.log.WithError(err).Error("idempotency prune failed")
			return
		}
		if n > 0 {
			s.log.WithField("count", n).Debug("pruned idempotency keys")
		}
	}
}
