package lights

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"github.com/wheelibin/huepanel/internal/concurrency"
	"github.com/wheelibin/huepanel/internal/constants"
	"github.com/wheelibin/huepanel/internal/models"
)

type hueAPIService interface {
	GET(ctx context.Context, path string) (json.RawMessage, error)
	GetLights(ctx context.Context) ([]models.Light, error)
	GetGroups(ctx context.Context) ([]models.Group, error)
	GetGroup(ctx context.Context, id string) (models.Group, error)
	SetLightState(ctx context.Context, id string, state models.LightState) ([]models.ItemResult, error)
	SetGroupAction(ctx context.Context, id string, state models.LightState) ([]models.ItemResult, error)
	SetSensorConfig(ctx context.Context, id string, config map[string]any) ([]models.ItemResult, error)
}

// LightService is the layer between the http handlers / background workers and the bridge
type LightService struct {
	logger        *log.Logger
	hueAPIService hueAPIService
}

func NewLightService(logger *log.Logger, hueAPIService hueAPIService) *LightService {
	return &LightService{logger: logger, hueAPIService: hueAPIService}
}

func (l *LightService) GetLights(ctx context.Context) ([]models.Light, error) {
	return l.hueAPIService.GetLights(ctx)
}

func (l *LightService) GetLight(ctx context.Context, id string) (models.Light, error) {
	lights, err := l.hueAPIService.GetLights(ctx)
	if err != nil {
		return models.Light{}, err
	}
	light, found := lo.Find(lights, func(light models.Light) bool { return light.ID == id })
	if !found {
		return models.Light{}, fmt.Errorf("light %s: %w", id, models.ErrNotFound)
	}
	return light, nil
}

func (l *LightService) GetGroups(ctx context.Context) ([]models.Group, error) {
	return l.hueAPIService.GetGroups(ctx)
}

func (l *LightService) GetSensors(ctx context.Context) (json.RawMessage, error) {
	return l.hueAPIService.GET(ctx, "sensors")
}

func (l *LightService) GetScenes(ctx context.Context) (json.RawMessage, error) {
	return l.hueAPIService.GET(ctx, "scenes")
}

func (l *LightService) SetLightState(ctx context.Context, id string, state models.LightState) ([]models.ItemResult, error) {
	if state.IsEmpty() {
		return nil, fmt.Errorf("%w: empty light state", models.ErrInvalidRequest)
	}
	return l.hueAPIService.SetLightState(ctx, id, state)
}

func (l *LightService) SetGroupAction(ctx context.Context, id string, state models.LightState) ([]models.ItemResult, error) {
	if state.IsEmpty() {
		return nil, fmt.Errorf("%w: empty group action", models.ErrInvalidRequest)
	}
	return l.hueAPIService.SetGroupAction(ctx, id, state)
}

// ConfigureSensor passes config through to the bridge, which validates the attributes itself
func (l *LightService) ConfigureSensor(ctx context.Context, id string, config map[string]any) ([]models.ItemResult, error) {
	if len(config) == 0 {
		return nil, fmt.Errorf("%w: empty sensor config", models.ErrInvalidRequest)
	}
	return l.hueAPIService.SetSensorConfig(ctx, id, config)
}

// RecallScene activates a scene on a group, group 0 (all lights) when groupID is empty
func (l *LightService) RecallScene(ctx context.Context, sceneID string, groupID string) ([]models.ItemResult, error) {
	if groupID == "" {
		groupID = constants.AllLightsGroupID
	}
	return l.hueAPIService.SetGroupAction(ctx, groupID, models.LightState{Scene: sceneID})
}

// ApplySceneToLight applies the state a scene stores for one of its lights
func (l *LightService) ApplySceneToLight(ctx context.Context, lightID string, sceneID string) ([]models.ItemResult, error) {
	body, err := l.hueAPIService.GET(ctx, fmt.Sprintf("scenes/%s", sceneID))
	if err != nil {
		return nil, err
	}
	var scene struct {
		LightStates map[string]models.LightState `json:"lightstates"`
	}
	if err := json.Unmarshal(body, &scene); err != nil {
		return nil, fmt.Errorf("Error reading scene %s: %w", sceneID, err)
	}
	state, found := scene.LightStates[lightID]
	if !found {
		return nil, fmt.Errorf("light %s in scene %s: %w", lightID, sceneID, models.ErrNotFound)
	}
	return l.hueAPIService.SetLightState(ctx, lightID, state)
}

// ResolveTarget returns the ids of the lights a target refers to, in stable id order
func (l *LightService) ResolveTarget(ctx context.Context, target models.Target) ([]string, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}

	var ids []string
	switch target.Kind {
	case models.TargetLight:
		ids = []string{target.ID}
	case models.TargetGroup:
		group, err := l.hueAPIService.GetGroup(ctx, target.ID)
		if err != nil {
			return nil, err
		}
		ids = append([]string{}, group.Lights...)
	case models.TargetAll:
		lights, err := l.hueAPIService.GetLights(ctx)
		if err != nil {
			return nil, err
		}
		ids = lo.Map(lights, func(light models.Light, _ int) string { return light.ID })
	}

	models.SortIDs(ids)
	return ids, nil
}

// Apply sends a state to a target: a single light, a group action, or each light in turn
func (l *LightService) Apply(ctx context.Context, target models.Target, state models.LightState) ([]models.TargetResult, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}

	switch target.Kind {
	case models.TargetLight:
		items, err := l.SetLightState(ctx, target.ID, state)
		if err != nil {
			return nil, err
		}
		return []models.TargetResult{{ID: target.ID, Results: items}}, nil
	case models.TargetGroup:
		items, err := l.SetGroupAction(ctx, target.ID, state)
		if err != nil {
			return nil, err
		}
		return []models.TargetResult{{ID: target.ID, Results: items}}, nil
	default:
		return l.AllLights(ctx, state)
	}
}

// AllLights applies the state to every light individually, reporting the outcome per light
func (l *LightService) AllLights(ctx context.Context, state models.LightState) ([]models.TargetResult, error) {
	if state.IsEmpty() {
		return nil, fmt.Errorf("%w: empty light state", models.ErrInvalidRequest)
	}

	lights, err := l.hueAPIService.GetLights(ctx)
	if err != nil {
		return nil, err
	}
	ids := lo.Map(lights, func(light models.Light, _ int) string { return light.ID })

	l.logger.Info("Applying state to all lights", "total", len(ids))
	return l.fanOut(ctx, ids, func(ctx context.Context, id string) ([]models.ItemResult, error) {
		return l.hueAPIService.SetLightState(ctx, id, state)
	}), nil
}

// AllGroups applies the action to every group except group 0
func (l *LightService) AllGroups(ctx context.Context, state models.LightState) ([]models.TargetResult, error) {
	if state.IsEmpty() {
		return nil, fmt.Errorf("%w: empty group action", models.ErrInvalidRequest)
	}

	groups, err := l.hueAPIService.GetGroups(ctx)
	if err != nil {
		return nil, err
	}
	ids := lo.FilterMap(groups, func(group models.Group, _ int) (string, bool) {
		return group.ID, group.ID != constants.AllLightsGroupID
	})

	l.logger.Info("Applying action to all groups", "total", len(ids))
	return l.fanOut(ctx, ids, func(ctx context.Context, id string) ([]models.ItemResult, error) {
		return l.hueAPIService.SetGroupAction(ctx, id, state)
	}), nil
}

// EmergencyOff switches every light off, the light list is read at call time
func (l *LightService) EmergencyOff(ctx context.Context) ([]models.TargetResult, error) {
	l.logger.Warn("Emergency off")
	return l.AllLights(ctx, models.LightState{On: lo.ToPtr(false)})
}

func (l *LightService) fanOut(ctx context.Context, ids []string, apply func(ctx context.Context, id string) ([]models.ItemResult, error)) []models.TargetResult {
	worker := concurrency.NewThrottledWorker(constants.GlobalFanOut, apply)

	return lo.Map(worker.Run(ctx, ids), func(r concurrency.Result[string, []models.ItemResult], _ int) models.TargetResult {
		result := models.TargetResult{ID: r.Arg, Results: r.Value}
		if r.Err != nil {
			l.logger.Warn("Failed to update", "id", r.Arg, "err", r.Err)
			result.Error = r.Err.Error()
		}
		return result
	})
}
