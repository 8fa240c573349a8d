package timers

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/wheelibin/huepanel/internal/constants"
	"github.com/wheelibin/huepanel/internal/metrics"
	"github.com/wheelibin/huepanel/internal/models"
)

type lightService interface {
	Apply(ctx context.Context, target models.Target, state models.LightState) ([]models.TargetResult, error)
}

type notifier interface {
	Publish(eventType string, data any)
}

type pendingTimer struct {
	timer  models.Timer
	cancel context.CancelFunc
}

// TimerService runs one shot delayed light changes, one goroutine per timer
type TimerService struct {
	logger       *log.Logger
	lightService lightService
	notifier     notifier

	mu      sync.Mutex
	pending map[string]*pendingTimer
	wg      sync.WaitGroup
}

func NewTimerService(logger *log.Logger, lightService lightService, notifier notifier) *TimerService {
	return &TimerService{
		logger:       logger,
		lightService: lightService,
		notifier:     notifier,
		pending:      map[string]*pendingTimer{},
	}
}

// Schedule applies action to target once delay has passed. Delays over a day are clamped.
func (s *TimerService) Schedule(target models.Target, action models.LightState, delay time.Duration) (models.Timer, error) {
	if err := target.Validate(); err != nil {
		return models.Timer{}, err
	}
	if action.IsEmpty() {
		return models.Timer{}, fmt.Errorf("%w: timer action is empty", models.ErrInvalidRequest)
	}
	if delay < 0 {
		return models.Timer{}, fmt.Errorf("%w: delay can't be negative", models.ErrInvalidRequest)
	}
	if delay > constants.MaxTimerDelay {
		s.logger.Warn("Timer delay clamped", "requested", delay, "max", constants.MaxTimerDelay)
		delay = constants.MaxTimerDelay
	}

	now := time.Now()
	timer := models.Timer{
		ID:        uuid.NewString(),
		Target:    target,
		Action:    action,
		CreatedAt: now,
		FireAt:    now.Add(delay),
		Status:    models.TimerPending,
	}

	ctx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	s.pending[timer.ID] = &pendingTimer{timer: timer, cancel: cancel}
	s.mu.Unlock()

	s.logger.Info("Timer scheduled", "id", timer.ID, "target", target.Name(), "delay", delay)
	s.notifier.Publish(constants.EventTypeTimerScheduled, withRemaining(timer, now))

	s.wg.Add(1)
	go s.wait(ctx, timer.ID, delay)

	return withRemaining(timer, now), nil
}

func (s *TimerService) wait(ctx context.Context, id string, delay time.Duration) {
	defer s.wg.Done()

	t := time.NewTimer(delay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return
	case <-t.C:
	}

	// claim the timer, a cancel that got in first wins
	s.mu.Lock()
	entry, found := s.pending[id]
	if found {
		delete(s.pending, id)
	}
	s.mu.Unlock()
	if !found {
		return
	}
	defer entry.cancel()

	timer := entry.timer
	results, err := s.lightService.Apply(ctx, timer.Target, timer.Action)
	if err != nil {
		timer.Status = models.TimerFailed
		s.logger.Error("Timer failed", "id", id, "target", timer.Target.Name(), "err", err)
	} else {
		timer.Status = models.TimerFired
		s.logger.Info("Timer fired", "id", id, "target", timer.Target.Name(), "results", len(results))
	}
	metrics.TimersFired.WithLabelValues(string(timer.Status)).Inc()
	s.notifier.Publish(constants.EventTypeTimerFired, timer)
}

// Cancel stops a pending timer before it fires
func (s *TimerService) Cancel(id string) error {
	s.mu.Lock()
	entry, found := s.pending[id]
	if found {
		delete(s.pending, id)
	}
	s.mu.Unlock()

	if !found {
		return fmt.Errorf("timer %s: %w", id, models.ErrNotFound)
	}

	entry.cancel()
	timer := entry.timer
	timer.Status = models.TimerCancelled
	metrics.TimersFired.WithLabelValues(string(timer.Status)).Inc()
	s.logger.Info("Timer cancelled", "id", id)
	s.notifier.Publish(constants.EventTypeTimerCancelled, timer)

	return nil
}

// List returns the pending timers, soonest first, with their remaining time
func (s *TimerService) List() []models.Timer {
	now := time.Now()

	s.mu.Lock()
	timers := lo.MapToSlice(s.pending, func(_ string, entry *pendingTimer) models.Timer {
		return withRemaining(entry.timer, now)
	})
	s.mu.Unlock()

	sort.Slice(timers, func(i, j int) bool { return timers[i].FireAt.Before(timers[j].FireAt) })
	return timers
}

func (s *TimerService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// StopAll cancels every pending timer without applying it and waits for the goroutines to exit
func (s *TimerService) StopAll() {
	s.mu.Lock()
	for id, entry := range s.pending {
		entry.cancel()
		delete(s.pending, id)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func withRemaining(timer models.Timer, now time.Time) models.Timer {
	timer.RemainingSeconds = max(timer.FireAt.Sub(now).Seconds(), 0)
	return timer
}
