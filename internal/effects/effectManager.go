package effects

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/wheelibin/huepanel/internal/constants"
	"github.com/wheelibin/huepanel/internal/metrics"
	"github.com/wheelibin/huepanel/internal/models"
)

type StopOutcome string

const (
	// the worker has been told to stop and will deregister at its next tick boundary
	StopRequested StopOutcome = "stopping"
	// the effect finished or was stopped before
	AlreadyStopped StopOutcome = "already stopped"
)

type registryEntry struct {
	effect models.Effect
	cancel context.CancelFunc
	done   chan struct{}
}

// EffectManager is the registry of running effects, shared by the effect workers and the http layer
type EffectManager struct {
	mu       sync.Mutex
	effects  map[string]*registryEntry
	finished map[string]time.Time
	now      func() time.Time
}

func NewEffectManager() *EffectManager {
	return &EffectManager{
		effects:  map[string]*registryEntry{},
		finished: map[string]time.Time{},
		now:      time.Now,
	}
}

func (m *EffectManager) Register(effect models.Effect, cancel context.CancelFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.effects[effect.ID]; exists {
		return fmt.Errorf("effect %s: %w", effect.ID, models.ErrAlreadyRunning)
	}
	m.effects[effect.ID] = &registryEntry{effect: effect, cancel: cancel, done: make(chan struct{})}
	delete(m.finished, effect.ID)
	metrics.ActiveEffects.Set(float64(len(m.effects)))

	return nil
}

func (m *EffectManager) Get(id string) (models.Effect, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, found := m.effects[id]
	if !found {
		return models.Effect{}, false
	}
	return copyEffect(entry.effect), true
}

// List returns copies of the registered effects, oldest first
func (m *EffectManager) List() []models.Effect {
	m.mu.Lock()
	effects := lo.MapToSlice(m.effects, func(_ string, entry *registryEntry) models.Effect {
		return copyEffect(entry.effect)
	})
	m.mu.Unlock()

	sort.Slice(effects, func(i, j int) bool {
		if effects[i].StartedAt.Equal(effects[j].StartedAt) {
			return effects[i].ID < effects[j].ID
		}
		return effects[i].StartedAt.Before(effects[j].StartedAt)
	})
	return effects
}

func (m *EffectManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.effects)
}

// Update applies fn to the registered effect, reporting false if it isn't registered
func (m *EffectManager) Update(id string, fn func(effect *models.Effect)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, found := m.effects[id]
	if !found {
		return false
	}
	fn(&entry.effect)
	return true
}

// RequestStop marks the effect as stopping and cancels its worker. Repeated requests are harmless.
func (m *EffectManager) RequestStop(id string) (StopOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry, found := m.effects[id]; found {
		m.stopLocked(entry)
		return StopRequested, nil
	}

	m.pruneLocked()
	if _, found := m.finished[id]; found {
		return AlreadyStopped, nil
	}
	return "", fmt.Errorf("effect %s: %w", id, models.ErrNotFound)
}

// StopAll requests a stop for every effect matching filter (all effects when filter is nil)
// and returns the affected effects.
func (m *EffectManager) StopAll(filter func(effect models.Effect) bool) []models.Effect {
	m.mu.Lock()
	defer m.mu.Unlock()

	stopped := []models.Effect{}
	for _, entry := range m.effects {
		if filter != nil && !filter(entry.effect) {
			continue
		}
		m.stopLocked(entry)
		stopped = append(stopped, copyEffect(entry.effect))
	}
	return stopped
}

// Remove deregisters an effect, called by the worker when it exits
func (m *EffectManager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, found := m.effects[id]
	if !found {
		return
	}
	delete(m.effects, id)
	close(entry.done)
	entry.cancel()

	m.finished[id] = m.now()
	m.pruneLocked()
	metrics.ActiveEffects.Set(float64(len(m.effects)))
}

// AwaitRemoval blocks until none of the ids are registered any more, or ctx is done
func (m *EffectManager) AwaitRemoval(ctx context.Context, ids []string) error {
	m.mu.Lock()
	pending := lo.FilterMap(ids, func(id string, _ int) (chan struct{}, bool) {
		entry, found := m.effects[id]
		if !found {
			return nil, false
		}
		return entry.done, true
	})
	m.mu.Unlock()

	for _, done := range pending {
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (m *EffectManager) stopLocked(entry *registryEntry) {
	if entry.effect.Status == models.EffectRunning {
		entry.effect.Status = models.EffectStopping
	}
	entry.cancel()
}

// pruneLocked keeps the finished set bounded by age and size
func (m *EffectManager) pruneLocked() {
	cutoff := m.now().Add(-constants.FinishedEffectMemory)
	for id, at := range m.finished {
		if at.Before(cutoff) {
			delete(m.finished, id)
		}
	}
	for len(m.finished) > constants.MaxFinishedEffects {
		oldest := lo.MinBy(lo.Keys(m.finished), func(a string, b string) bool {
			return m.finished[a].Before(m.finished[b])
		})
		delete(m.finished, oldest)
	}
}

func copyEffect(effect models.Effect) models.Effect {
	effect.Lights = append([]string{}, effect.Lights...)
	effect.Params.Colors = append([]models.ColorStop{}, effect.Params.Colors...)
	return effect
}
