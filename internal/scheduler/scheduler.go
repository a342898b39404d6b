package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// ErrRunInProgress is returned when a run is requested while another is active.
var ErrRunInProgress = errors.New("run already in progress")

// Runner executes one pass.
type Runner interface {
	Run(ctx context.Context) (*RunSummary, error)
}

// Scheduler owns the cron task and the manual triggers.
type Scheduler struct {
	Cron      *cron.Cron
	Runner    Runner
	Ctx       context.Context
	Timeout   time.Duration
	StatePath string // empty keeps the last run in memory only

	log     zerolog.Logger
	running sync.Mutex

	mu      sync.RWMutex
	last    *RunState
	lastErr error
	lastAt  time.Time
}

// NewScheduler creates a new Scheduler. The cron spec includes a seconds field.
func NewScheduler(ctx context.Context, runner Runner, loc *time.Location, log zerolog.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		Cron:    cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		Runner:  runner,
		Ctx:     ctx,
		Timeout: 5 * time.Minute,
		log:     log.With().Str("component", "scheduler").Logger(),
	}
}

// RegisterDaily registers the daily alert run.
func (s *Scheduler) RegisterDaily(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Int("entries", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running task.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

func (s *Scheduler) dailyTask() {
	s.log.Info().Msg("running daily task")
	if _, err := s.RunNow(s.Ctx); err != nil {
		s.log.Error().Err(err).Msg("daily run failed")
	}
}

// RunNow executes a run immediately unless one is already active.
func (s *Scheduler) RunNow(ctx context.Context) (*RunSummary, error) {
	if !s.running.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.running.Unlock()

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	summary, err := s.Runner.Run(ctx)

	s.mu.Lock()
	s.lastAt = time.Now()
	s.lastErr = err
	var state RunState
	if err == nil {
		state = summary.State()
		s.last = &state
	}
	s.mu.Unlock()

	if err == nil && s.StatePath != "" {
		if err := SaveState(s.StatePath, &state); err != nil {
			s.log.Error().Err(err).Str("path", s.StatePath).Msg("save run state")
		}
	}
	return summary, err
}

// Restore loads the persisted run state, if any.
func (s *Scheduler) Restore() error {
	if s.StatePath == "" {
		return nil
	}
	state, err := LoadState(s.StatePath)
	if err != nil {
		return fmt.Errorf("load run state: %w", err)
	}
	s.mu.Lock()
	s.last = state
	s.mu.Unlock()
	return nil
}

// Last returns the most recent successful run state and the most recent error.
func (s *Scheduler) Last() (*RunState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.lastErr
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	cmd := strings.ToLower(strings.TrimSpace(command))
	if i := strings.IndexByte(cmd, '@'); i > 0 {
		cmd = cmd[:i] // "/gold@MyBot" in group chats
	}
	switch cmd {
	case "/gold", "/run", "金价":
		summary, err := s.RunNow(ctx)
		if errors.Is(err, ErrRunInProgress) {
			return "A run is already in progress."
		}
		if err != nil {
			return fmt.Sprintf("Run failed: %v", err)
		}
		return summary.Text()
	case "/status", "状态":
		last, err := s.Last()
		s.mu.RLock()
		lastAt := s.lastAt
		s.mu.RUnlock()
		switch {
		case last == nil && err == nil:
			return "No run yet."
		case err != nil:
			msg := fmt.Sprintf("Last run failed at %s: %v", lastAt.Format("2006-01-02 15:04 MST"), err)
			if last != nil {
				msg += "\n\nLast successful run:\n" + last.Text()
			}
			return msg
		}
		return last.Text()
	default:
		return "Commands:\n/gold - run the gold check now\n/status - show the last run"
	}
}
