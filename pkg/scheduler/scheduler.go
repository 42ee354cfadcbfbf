// Package scheduler pushes the watchlist report to the broadcast destination once a day.
//
// Delivery is best effort and at most once per scheduled time: a fire missed while
// the process is down is lost, nothing is replayed on startup.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"
	_ "time/tzdata" // zones must resolve in minimal containers

	"github.com/raykavin/coinbot/pkg/core"
	"github.com/raykavin/coinbot/pkg/format"
	"github.com/raykavin/coinbot/pkg/logger"
	"github.com/raykavin/coinbot/pkg/report"
	"github.com/robfig/cron/v3"
)

const (
	DefaultSpec     = "0 9 * * *"
	DefaultTimezone = "Asia/Bangkok"
)

// Scheduler runs the daily broadcast on a cron schedule
type Scheduler struct {
	cron     *cron.Cron
	entryID  cron.EntryID
	reporter *report.Reporter
	notifier core.Notifier
	log      logger.Logger

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// New validates the schedule and zone and registers the daily job
func New(spec, timezone string, wl report.Lister, source core.PriceSource, notifier core.Notifier,
	log logger.Logger) (*Scheduler, error) {

	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}

	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	cl := cronLogger{log: log}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(location),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		reporter: report.NewReporter(wl, source),
		notifier: notifier,
		log:      log,
		ctx:      context.Background(),
	}

	s.entryID, err = s.cron.AddFunc(spec, s.run)
	if err != nil {
		return nil, fmt.Errorf("failed to register daily job: %w", err)
	}

	return s, nil
}

// Start begins firing in the background until ctx is done or Stop is called
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	s.cron.Start()
	s.log.WithField("next", s.Next()).Info("daily broadcast scheduled")
}

// Stop prevents further fires and waits for a running one to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
}

// Next returns the next fire time, zero before Start
func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entryID).Next
}

func (s *Scheduler) run() {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	if err := s.Fire(ctx); err != nil {
		s.log.WithError(err).Error("daily broadcast failed")
	}
}

// Fire builds the daily report and broadcasts it. An empty watchlist sends nothing.
// The error reports a watchlist read or delivery failure; there is no retry.
func (s *Scheduler) Fire(ctx context.Context) error {
	entries, err := s.reporter.Collect(ctx)
	if err != nil {
		return fmt.Errorf("read watchlist: %w", err)
	}

	if len(entries) == 0 {
		s.log.Info("daily broadcast skipped: no coins tracked")
		return nil
	}

	if err := s.notifier.Notify(format.DailyTitle + "\n" + format.Report(entries, "")); err != nil {
		return fmt.Errorf("deliver report: %w", err)
	}

	s.log.WithField("coins", len(entries)).Info("daily broadcast sent")
	return nil
}

// cronLogger routes cron's own logs through logger.Logger
type cronLogger struct {
	log logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.log.WithFields(fields(keysAndValues)).Debug("cron: " + msg)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.log.WithError(err).WithFields(fields(keysAndValues)).Error("cron: " + msg)
}

func fields(keysAndValues []any) map[string]any {
	out := make(map[string]any, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		out[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return out
}
