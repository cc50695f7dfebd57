// Package scheduler runs the per-account reminder jobs: a water check and a
// motivation message. Jobs live in one gocron scheduler; a registry maps each
// account to its job ids so Start and Stop are idempotent.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/quiterx/selfrealization-bot/internal/logger"
	"github.com/quiterx/selfrealization-bot/internal/messages"
)

const (
	DefaultWaterEvery      = 2 * time.Hour
	DefaultMotivationEvery = 4 * time.Hour
	DefaultWaterThreshold  = 200

	jobTimeout = 30 * time.Second
)

// Notifier delivers a reminder to an account.
type Notifier interface {
	Notify(ctx context.Context, accountID int64, text string) error
}

// WaterSource reports how much water an account logged in a trailing window.
type WaterSource interface {
	ConsumedWithin(ctx context.Context, accountID int64, window time.Duration) (int, error)
}

type MotivationSource interface {
	RandomMotivation(ctx context.Context) (string, error)
}

// StateStore persists which accounts have reminders switched on.
type StateStore interface {
	SetRemindersOn(ctx context.Context, accountID int64, on bool) error
	ListReminderAccounts(ctx context.Context) ([]int64, error)
}

type Config struct {
	WaterEvery      time.Duration
	MotivationEvery time.Duration
	WaterThreshold  int
}

func (c *Config) defaults() {
	if c.WaterEvery <= 0 {
		c.WaterEvery = DefaultWaterEvery
	}
	if c.MotivationEvery <= 0 {
		c.MotivationEvery = DefaultMotivationEvery
	}
	if c.WaterThreshold <= 0 {
		c.WaterThreshold = DefaultWaterThreshold
	}
}

type Scheduler struct {
	cfg        Config
	cron       gocron.Scheduler
	water      WaterSource
	motivation MotivationSource
	notifier   Notifier
	state      StateStore
	log        *log.Logger

	mu   sync.Mutex
	jobs map[int64][]uuid.UUID
}

// New builds a scheduler on clock. state may be nil when reminder state is
// not persisted.
func New(cfg Config, clock clockwork.Clock, water WaterSource, motivation MotivationSource, notifier Notifier, state StateStore) (*Scheduler, error) {
	cfg.defaults()
	l := logger.With("component", "scheduler")

	cron, err := gocron.NewScheduler(
		gocron.WithClock(clock),
		gocron.WithLogger(cronLogger{l}),
		gocron.WithStopTimeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	return &Scheduler{
		cfg:        cfg,
		cron:       cron,
		water:      water,
		motivation: motivation,
		notifier:   notifier,
		state:      state,
		log:        l,
		jobs:       make(map[int64][]uuid.UUID),
	}, nil
}

// Run starts executing registered jobs.
func (s *Scheduler) Run() {
	s.cron.Start()
}

// Start (re)places the reminder jobs of accountID. Calling it twice leaves
// exactly one water and one motivation job.
func (s *Scheduler) Start(ctx context.Context, accountID int64) error {
	s.mu.Lock()
	s.removeLocked(accountID)

	water, err := s.cron.NewJob(
		gocron.DurationJob(s.cfg.WaterEvery),
		gocron.NewTask(s.checkWater, accountID),
		gocron.WithName(fmt.Sprintf("water-%d", accountID)),
		gocron.WithTags(accountTag(accountID), "water"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("water job: %w", err)
	}
	motivation, err := s.cron.NewJob(
		gocron.DurationJob(s.cfg.MotivationEvery),
		gocron.NewTask(s.sendMotivation, accountID),
		gocron.WithName(fmt.Sprintf("motivation-%d", accountID)),
		gocron.WithTags(accountTag(accountID), "motivation"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.cron.RemoveJob(water.ID())
		s.mu.Unlock()
		return fmt.Errorf("motivation job: %w", err)
	}
	s.jobs[accountID] = []uuid.UUID{water.ID(), motivation.ID()}
	s.mu.Unlock()

	s.log.Debug("reminders started", "account", accountID)
	return s.persist(ctx, accountID, true)
}

// Stop cancels the account's jobs. Stopping a stopped account is a no-op.
func (s *Scheduler) Stop(ctx context.Context, accountID int64) error {
	s.mu.Lock()
	_, ok := s.jobs[accountID]
	s.removeLocked(accountID)
	s.mu.Unlock()

	if !ok {
		return nil
	}
	s.log.Debug("reminders stopped", "account", accountID)
	return s.persist(ctx, accountID, false)
}

// Restore restarts reminders of every account that had them on.
func (s *Scheduler) Restore(ctx context.Context) (int, error) {
	if s.state == nil {
		return 0, nil
	}
	ids, err := s.state.ListReminderAccounts(ctx)
	if err != nil {
		return 0, fmt.Errorf("list reminder accounts: %w", err)
	}
	var errs []error
	for _, id := range ids {
		if err := s.Start(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("account %d: %w", id, err))
		}
	}
	return len(ids) - len(errs), errors.Join(errs...)
}

// Running lists accounts with active reminders in ascending order.
func (s *Scheduler) Running() []int64 {
	s.mu.Lock()
	ids := make([]int64, 0, len(s.jobs))
	for id := range s.jobs {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	slices.Sort(ids)
	return ids
}

func (s *Scheduler) IsRunning(accountID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.jobs[accountID]
	return ok
}

// Shutdown stops every job and waits for running ones to return.
func (s *Scheduler) Shutdown() error {
	s.mu.Lock()
	s.jobs = make(map[int64][]uuid.UUID)
	s.mu.Unlock()
	return s.cron.Shutdown()
}

func (s *Scheduler) removeLocked(accountID int64) {
	for _, id := range s.jobs[accountID] {
		if err := s.cron.RemoveJob(id); err != nil && !errors.Is(err, gocron.ErrJobNotFound) {
			s.log.Warn("remove job", "account", accountID, "job", id, "err", err)
		}
	}
	delete(s.jobs, accountID)
}

func (s *Scheduler) persist(ctx context.Context, accountID int64, on bool) error {
	if s.state == nil {
		return nil
	}
	if err := s.state.SetRemindersOn(ctx, accountID, on); err != nil {
		return fmt.Errorf("save reminder state: %w", err)
	}
	return nil
}

func (s *Scheduler) checkWater(accountID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	drunk, err := s.water.ConsumedWithin(ctx, accountID, s.cfg.WaterEvery)
	if err != nil {
		s.log.Error("water check failed", "account", accountID, "err", err)
		return
	}
	if drunk >= s.cfg.WaterThreshold {
		return
	}
	s.notify(ctx, accountID, messages.WaterReminder)
}

func (s *Scheduler) sendMotivation(accountID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	text, err := s.motivation.RandomMotivation(ctx)
	if err != nil {
		s.log.Error("motivation lookup failed", "account", accountID, "err", err)
		return
	}
	s.notify(ctx, accountID, messages.Motivation(text))
}

// notify is fire-and-forget: failures are logged only.
func (s *Scheduler) notify(ctx context.Context, accountID int64, text string) {
	// a run that started before Stop must not deliver afterwards
	if !s.IsRunning(accountID) {
		return
	}
	if err := s.notifier.Notify(ctx, accountID, text); err != nil {
		s.log.Warn("reminder not delivered", "account", accountID, "err", err)
	}
}

func accountTag(id int64) string {
	return fmt.Sprintf("account:%d", id)
}

// cronLogger bridges gocron's logger onto ours.
type cronLogger struct{ l *log.Logger }

func (c cronLogger) Debug(msg string, args ...any) { c.l.Debug(msg, args...) }
func (c cronLogger) Info(msg string, args ...any)  { c.l.Info(msg, args...) }
func (c cronLogger) Warn(msg string, args ...any)  { c.l.Warn(msg, args...) }
func (c cronLogger) Error(msg string, args ...any) { c.l.Error(msg, args...) }
