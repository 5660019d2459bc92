package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task is a unit of periodic work.
type Task func(ctx context.Context) error

// SchedulerConfig configures the periodic scheduler.
type SchedulerConfig struct {
	Location *time.Location
	// Timeout bounds a single task run. Defaults to one minute.
	Timeout time.Duration
	Logger  *zap.Logger
}

// Scheduler runs named tasks on cron specs. Overlapping runs of the same
// task are skipped.
type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
	logger  *zap.Logger

	mu    sync.Mutex
	tasks map[string]cron.EntryID
	funcs map[string]Task
}

// NewScheduler builds a stopped scheduler.
func NewScheduler(cfg SchedulerConfig) *Scheduler {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	c := cron.New(
		cron.WithLocation(cfg.Location),
		cron.WithChain(cron.Recover(cronLogger{cfg.Logger}), cron.SkipIfStillRunning(cronLogger{cfg.Logger})),
	)
	return &Scheduler{
		cron:    c,
		timeout: cfg.Timeout,
		logger:  cfg.Logger,
		tasks:   map[string]cron.EntryID{},
		funcs:   map[string]Task{},
	}
}

// Register adds a task under name. Names are unique.
func (s *Scheduler) Register(name, spec string, task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tasks[name]; exists {
		return fmt.Errorf("task %s already registered", name)
	}
	id, err := s.cron.AddFunc(spec, func() {
		_ = s.run(name, task)
	})
	if err != nil {
		return fmt.Errorf("schedule task %s with spec %q: %w", name, spec, err)
	}
	s.tasks[name] = id
	s.funcs[name] = task
	s.logger.Info("task scheduled", zap.String("task", name), zap.String("spec", spec))
	return nil
}

// RunNow executes a registered task synchronously.
func (s *Scheduler) RunNow(name string) error {
	s.mu.Lock()
	task, ok := s.funcs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("task %s not registered", name)
	}
	return s.run(name, task)
}

// Next returns the next scheduled run of a task, or the zero time when the
// scheduler is not running or the task is unknown.
func (s *Scheduler) Next(name string) time.Time {
	s.mu.Lock()
	id, ok := s.tasks[name]
	s.mu.Unlock()
	if !ok {
		return time.Time{}
	}
	return s.cron.Entry(id).Next
}

// Start begins running tasks in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", zap.Int("tasks", len(s.cron.Entries())))
}

// Stop prevents new runs and waits for running tasks or ctx, whichever ends first.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out", zap.Error(ctx.Err()))
	}
}

func (s *Scheduler) run(name string, task Task) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	err := task(ctx)
	fields := []zap.Field{zap.String("task", name), zap.Duration("duration", time.Since(start))}
	if err != nil {
		s.logger.Error("task failed", append(fields, zap.Error(err))...)
		return err
	}
	s.logger.Info("task completed", fields...)
	return nil
}

// cronLogger adapts zap to the cron.Logger interface.
type cronLogger struct {
	l *zap.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Sugar().Infow(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
