package effects

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"github.com/wheelibin/huepanel/internal/constants"
	"github.com/wheelibin/huepanel/internal/metrics"
	"github.com/wheelibin/huepanel/internal/models"
)

type lightController interface {
	ResolveTarget(ctx context.Context, target models.Target) ([]string, error)
	SetLightState(ctx context.Context, id string, state models.LightState) ([]models.ItemResult, error)
	SetGroupAction(ctx context.Context, id string, state models.LightState) ([]models.ItemResult, error)
}

type notifier interface {
	Publish(eventType string, data any)
}

// EffectService starts effect workers and stops them through the registry
type EffectService struct {
	logger   *log.Logger
	manager  *EffectManager
	lights   lightController
	notifier notifier

	// parent of every worker context, cancelled on shutdown
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewEffectService(logger *log.Logger, manager *EffectManager, lights lightController, notifier notifier) *EffectService {
	ctx, cancel := context.WithCancel(context.Background())
	return &EffectService{
		logger:   logger,
		manager:  manager,
		lights:   lights,
		notifier: notifier,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start resolves the target and spawns a worker for the effect. The worker outlives ctx, which only
// bounds target resolution.
func (s *EffectService) Start(ctx context.Context, kind Kind, target models.Target, params models.EffectParams) (models.Effect, error) {
	if params.Duration < 0 {
		return models.Effect{}, fmt.Errorf("%w: duration can't be negative", models.ErrInvalidRequest)
	}
	return s.launch(ctx, EffectID(kind, target), kind, target, params, func(lights []string) (Pattern, error) {
		return NewPattern(kind, lights, params, rand.New(rand.NewSource(time.Now().UnixNano())))
	})
}

// StartMood plays a mood scene once on the target. It runs as an effect so it can be listed and
// stopped like one.
func (s *EffectService) StartMood(ctx context.Context, sceneID string, target models.Target) (models.Effect, MoodScene, error) {
	scene, err := FindMood(sceneID)
	if err != nil {
		return models.Effect{}, MoodScene{}, err
	}

	id := fmt.Sprintf("%s_%s_%s", Mood, scene.ID, target.Name())
	effect, err := s.launch(ctx, id, Mood, target, models.EffectParams{}, func(lights []string) (Pattern, error) {
		return NewMoodPattern(lights, scene.Steps)
	})
	return effect, scene, err
}

func (s *EffectService) launch(ctx context.Context, id string, kind Kind, target models.Target, params models.EffectParams, build func(lights []string) (Pattern, error)) (models.Effect, error) {
	if err := target.Validate(); err != nil {
		return models.Effect{}, err
	}
	if _, running := s.manager.Get(id); running {
		return models.Effect{}, fmt.Errorf("effect %s: %w", id, models.ErrAlreadyRunning)
	}

	lights, err := s.lights.ResolveTarget(ctx, target)
	if err != nil {
		return models.Effect{}, err
	}

	pattern, err := build(lights)
	if err != nil {
		return models.Effect{}, err
	}

	effect := models.Effect{
		ID:        id,
		Type:      string(kind),
		Target:    target,
		Params:    params,
		Status:    models.EffectRunning,
		StartedAt: time.Now(),
		Lights:    lights,
	}

	workerCtx, cancel := context.WithCancel(s.ctx)
	if err := s.manager.Register(effect, cancel); err != nil {
		cancel()
		return models.Effect{}, err
	}

	s.logger.Info("Starting effect", "id", id, "lights", len(lights))
	s.notifier.Publish(constants.EventTypeEffectStarted, effect)

	s.wg.Add(1)
	go s.run(workerCtx, effect, pattern)

	return copyEffect(effect), nil
}

func (s *EffectService) run(ctx context.Context, effect models.Effect, pattern Pattern) {
	defer s.wg.Done()
	defer func() {
		s.manager.Remove(effect.ID)
		s.logger.Info("Effect stopped", "id", effect.ID)
		s.notifier.Publish(constants.EventTypeEffectStopped, map[string]string{"id": effect.ID})
	}()

	start := time.Now()
	duration := effect.Params.DurationValue()
	if kindOf(effect) == Sunset {
		// sunset ends itself once the transition is complete
		duration = 0
	}

	// ticks are scheduled against deadlines so slow bridge calls don't stretch the pattern
	next := start
	for {
		if ctx.Err() != nil {
			return
		}

		elapsed := time.Since(start)
		if duration > 0 && elapsed >= duration {
			s.logger.Debug("Effect duration elapsed", "id", effect.ID)
			return
		}

		frame := pattern.Step(elapsed)
		s.apply(ctx, effect, frame)
		s.manager.Update(effect.ID, func(e *models.Effect) { e.Ticks++ })
		metrics.EffectTicks.WithLabelValues(effect.Type).Inc()

		if frame.Done {
			return
		}

		next = next.Add(frame.Wait)
		if duration > 0 {
			next = lo.Ternary(next.After(start.Add(duration)), start.Add(duration), next)
		}
		wait := time.Until(next)
		if wait < -frame.Wait {
			// more than a tick behind, start counting from now instead of bursting to catch up
			s.logger.Debug("Effect tick overran", "id", effect.ID, "by", -wait)
			next = time.Now()
		}
		timer := time.NewTimer(max(wait, 0))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// apply sends a frame to the bridge. A uniform frame on a group or on every light goes out as a
// single group action, anything else one light at a time. Calls already made are allowed to
// complete when the effect is stopped, cancellation is only observed between ticks.
func (s *EffectService) apply(ctx context.Context, effect models.Effect, frame Frame) {
	callCtx := context.WithoutCancel(ctx)

	if groupID, ok := groupFor(effect.Target); ok && frame.Uniform && len(frame.Commands) > 0 {
		if _, err := s.lights.SetGroupAction(callCtx, groupID, frame.Commands[0].State); err != nil {
			s.logger.Debug("Effect tick failed for group", "id", effect.ID, "group", groupID, "err", err)
		}
		return
	}

	for _, command := range frame.Commands {
		if _, err := s.lights.SetLightState(callCtx, command.LightID, command.State); err != nil {
			s.logger.Debug("Effect tick failed for light", "id", effect.ID, "light", command.LightID, "err", err)
		}
	}
}

func groupFor(target models.Target) (string, bool) {
	switch target.Kind {
	case models.TargetGroup:
		return target.ID, true
	case models.TargetAll:
		return constants.AllLightsGroupID, true
	}
	return "", false
}

func (s *EffectService) Get(id string) (models.Effect, bool) {
	return s.manager.Get(id)
}

func (s *EffectService) List() []models.Effect {
	return s.manager.List()
}

func (s *EffectService) Count() int {
	return s.manager.Count()
}

func (s *EffectService) Stop(id string) (StopOutcome, error) {
	outcome, err := s.manager.RequestStop(id)
	if err == nil {
		s.logger.Info("Stop requested", "id", id, "outcome", outcome)
	}
	return outcome, err
}

// StopAll stops every effect and waits for the workers to exit, or for ctx to be done
func (s *EffectService) StopAll(ctx context.Context) []string {
	stopped := s.stopAndWait(ctx, nil)
	return lo.Map(stopped, func(effect models.Effect, _ int) string { return effect.ID })
}

// EmergencyStrobeStop stops every strobe and fades the lights they were driving off
func (s *EffectService) EmergencyStrobeStop(ctx context.Context) ([]string, []models.TargetResult) {
	s.logger.Warn("Emergency strobe stop")

	stopped := s.stopAndWait(ctx, func(effect models.Effect) bool { return kindOf(effect) == Strobe })
	ids := lo.Map(stopped, func(effect models.Effect, _ int) string { return effect.ID })
	lightIDs := lo.Uniq(lo.FlatMap(stopped, func(effect models.Effect, _ int) []string { return effect.Lights }))
	models.SortIDs(lightIDs)

	off := models.LightState{On: lo.ToPtr(false), TransitionTime: lo.ToPtr(uint16(constants.EmergencyOffTransition))}
	results := lo.Map(lightIDs, func(id string, _ int) models.TargetResult {
		items, err := s.lights.SetLightState(ctx, id, off)
		result := models.TargetResult{ID: id, Results: items}
		if err != nil {
			result.Error = err.Error()
		}
		return result
	})

	return ids, results
}

func (s *EffectService) stopAndWait(ctx context.Context, filter func(effect models.Effect) bool) []models.Effect {
	stopped := s.manager.StopAll(filter)
	ids := lo.Map(stopped, func(effect models.Effect, _ int) string { return effect.ID })
	if err := s.manager.AwaitRemoval(ctx, ids); err != nil {
		s.logger.Warn("Effects still stopping", "ids", ids, "err", err)
	}
	return stopped
}

// Shutdown stops every effect, waiting for workers until ctx is done
func (s *EffectService) Shutdown(ctx context.Context) {
	s.StopAll(ctx)
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("Gave up waiting for effects to stop")
	}
}

func kindOf(effect models.Effect) Kind {
	return Kind(effect.Type)
}
