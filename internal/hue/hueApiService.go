package hue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/amimof/huego"
	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"github.com/wheelibin/huepanel/internal/config"
	"github.com/wheelibin/huepanel/internal/constants"
	"github.com/wheelibin/huepanel/internal/metrics"
	"github.com/wheelibin/huepanel/internal/models"
	"golang.org/x/time/rate"
)

// HueAPIService talks to the v1 REST api of the bridge.
type HueAPIService struct {
	logger  *log.Logger
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	bridge  *huego.Bridge
}

func NewHueAPIService(logger *log.Logger, cfg config.Config) *HueAPIService {
	host := cfg.BridgeIP
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	host = strings.TrimSuffix(host, "/")

	limit := cfg.BridgeRateLimit
	if limit <= 0 {
		limit = constants.DefaultBridgeRateLimit
	}
	burst := int(limit)
	if burst < 1 {
		burst = 1
	}

	return &HueAPIService{
		logger:  logger,
		baseURL: fmt.Sprintf("%s/api/%s", host, cfg.HueUsername),
		client:  &http.Client{Timeout: constants.BridgeTimeout},
		limiter: rate.NewLimiter(rate.Limit(limit), burst),
		bridge:  huego.New(host, cfg.HueUsername),
	}
}

func (h *HueAPIService) GET(ctx context.Context, path string) (json.RawMessage, error) {
	return h.Send(ctx, http.MethodGet, path, nil)
}

func (h *HueAPIService) PUT(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return h.Send(ctx, http.MethodPut, path, body)
}

func (h *HueAPIService) POST(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return h.Send(ctx, http.MethodPost, path, body)
}

// Send makes a request to the bridge. path is relative to /api/<username>/.
// Any failure comes back as a *BridgeError.
func (h *HueAPIService) Send(ctx context.Context, method string, path string, body any) (json.RawMessage, error) {
	path = strings.TrimPrefix(path, "/")

	switch method {
	case http.MethodGet, http.MethodPut, http.MethodPost:
	default:
		return nil, h.fail(&BridgeError{Kind: ErrorProtocol, Method: method, Path: path, Err: fmt.Errorf("unsupported method")})
	}

	ctx, cancel := context.WithTimeout(ctx, constants.BridgeTimeout)
	defer cancel()

	if err := h.wait(ctx, method, path); err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, h.fail(&BridgeError{Kind: ErrorProtocol, Method: method, Path: path, Err: fmt.Errorf("encoding request body: %w", err)})
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fmt.Sprintf("%s/%s", h.baseURL, path), bodyReader)
	if err != nil {
		return nil, h.fail(&BridgeError{Kind: ErrorProtocol, Method: method, Path: path, Err: err})
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	h.logger.Debug("bridge request", "method", method, "path", path)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, h.fail(classify(method, path, err))
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, h.fail(classify(method, path, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, h.fail(&BridgeError{Kind: ErrorProtocol, Method: method, Path: path, Status: resp.StatusCode, Err: errors.New(resp.Status)})
	}

	if !json.Valid(responseBody) {
		return nil, h.fail(&BridgeError{Kind: ErrorProtocol, Method: method, Path: path, Status: resp.StatusCode, Err: errors.New("malformed json in response")})
	}

	// the bridge answers 200 with an error array for things like a bad username
	if items, ok := parseItems(responseBody); ok && len(items) > 0 && allFailed(items) {
		return nil, h.fail(&BridgeError{
			Kind:   ErrorProtocol,
			Method: method,
			Path:   path,
			Status: resp.StatusCode,
			Items:  items,
			Err:    items[0].Error,
		})
	}

	metrics.BridgeRequests.WithLabelValues(method, "ok").Inc()
	return responseBody, nil
}

// SetLightState applies a state to a single light, returning the bridge's per item results
func (h *HueAPIService) SetLightState(ctx context.Context, id string, state models.LightState) ([]models.ItemResult, error) {
	return h.write(ctx, fmt.Sprintf("lights/%s/state", id), state)
}

// SetGroupAction applies a state to every light in a group
func (h *HueAPIService) SetGroupAction(ctx context.Context, id string, state models.LightState) ([]models.ItemResult, error) {
	return h.write(ctx, fmt.Sprintf("groups/%s/action", id), state)
}

// SetSensorConfig writes config attributes of a sensor, e.g. {"on": false} or {"sensitivity": 2}
func (h *HueAPIService) SetSensorConfig(ctx context.Context, id string, config map[string]any) ([]models.ItemResult, error) {
	return h.write(ctx, fmt.Sprintf("sensors/%s/config", id), config)
}

func (h *HueAPIService) write(ctx context.Context, path string, body any) ([]models.ItemResult, error) {
	respBody, err := h.PUT(ctx, path, body)
	if err != nil {
		return nil, err
	}
	items, ok := parseItems(respBody)
	if !ok {
		return nil, h.fail(&BridgeError{Kind: ErrorProtocol, Method: http.MethodPut, Path: path, Err: errors.New("unexpected response to state change")})
	}
	return items, nil
}

// GetLights reads all lights known to the bridge, ordered by id
func (h *HueAPIService) GetLights(ctx context.Context) ([]models.Light, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.BridgeTimeout)
	defer cancel()

	if err := h.wait(ctx, http.MethodGet, "lights"); err != nil {
		return nil, err
	}

	lights, err := h.bridge.GetLightsContext(ctx)
	if err != nil {
		return nil, h.fail(classify(http.MethodGet, "lights", err))
	}
	metrics.BridgeRequests.WithLabelValues(http.MethodGet, "ok").Inc()

	result := lo.Map(lights, func(l huego.Light, _ int) models.Light {
		light := models.Light{
			ID:   strconv.Itoa(l.ID),
			Name: l.Name,
			Type: l.Type,
		}
		if l.State != nil {
			light.On = l.State.On
			light.Bri = l.State.Bri
			light.Hue = l.State.Hue
			light.Sat = l.State.Sat
			light.Reachable = l.State.Reachable
		}
		return light
	})
	sortLights(result)

	return result, nil
}

// GetGroups reads all groups known to the bridge, ordered by id
func (h *HueAPIService) GetGroups(ctx context.Context) ([]models.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.BridgeTimeout)
	defer cancel()

	if err := h.wait(ctx, http.MethodGet, "groups"); err != nil {
		return nil, err
	}

	groups, err := h.bridge.GetGroupsContext(ctx)
	if err != nil {
		return nil, h.fail(classify(http.MethodGet, "groups", err))
	}
	metrics.BridgeRequests.WithLabelValues(http.MethodGet, "ok").Inc()

	result := lo.Map(groups, func(g huego.Group, _ int) models.Group {
		return models.Group{
			ID:     strconv.Itoa(g.ID),
			Name:   g.Name,
			Type:   g.Type,
			Lights: g.Lights,
		}
	})
	ids := lo.Map(result, func(g models.Group, _ int) string { return g.ID })
	models.SortIDs(ids)
	byID := lo.KeyBy(result, func(g models.Group) string { return g.ID })

	return lo.Map(ids, func(id string, _ int) models.Group { return byID[id] }), nil
}

// GetGroup reads a single group, used to resolve group targets to their lights
func (h *HueAPIService) GetGroup(ctx context.Context, id string) (models.Group, error) {
	body, err := h.GET(ctx, fmt.Sprintf("groups/%s", id))
	if err != nil {
		return models.Group{}, err
	}
	var group struct {
		Name   string   `json:"name"`
		Type   string   `json:"type"`
		Lights []string `json:"lights"`
	}
	if err := json.Unmarshal(body, &group); err != nil {
		return models.Group{}, h.fail(classify(http.MethodGet, "groups/"+id, err))
	}
	return models.Group{ID: id, Name: group.Name, Type: group.Type, Lights: group.Lights}, nil
}

// Ping checks the bridge answers with our credentials
func (h *HueAPIService) Ping(ctx context.Context) error {
	_, err := h.GET(ctx, "config")
	return err
}

func (h *HueAPIService) wait(ctx context.Context, method, path string) error {
	if err := h.limiter.Wait(ctx); err != nil {
		return h.fail(&BridgeError{Kind: ErrorTimeout, Method: method, Path: path, Err: fmt.Errorf("rate limited: %w", err)})
	}
	return nil
}

func (h *HueAPIService) fail(err *BridgeError) *BridgeError {
	metrics.BridgeRequests.WithLabelValues(err.Method, string(err.Kind)).Inc()
	h.logger.Warn("Hue bridge request failed", "method", err.Method, "path", err.Path, "kind", err.Kind, "err", err.Err)
	return err
}

// parseItems decodes a v1 write response, reporting false if the body isn't a result array
func parseItems(body []byte) ([]models.ItemResult, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false
	}
	items := []models.ItemResult{}
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, false
	}
	for _, item := range items {
		if item.Success == nil && item.Error == nil {
			return nil, false
		}
	}
	return items, true
}

func allFailed(items []models.ItemResult) bool {
	return lo.EveryBy(items, func(item models.ItemResult) bool { return item.Error != nil })
}

func sortLights(lights []models.Light) {
	ids := lo.Map(lights, func(l models.Light, _ int) string { return l.ID })
	models.SortIDs(ids)
	byID := lo.KeyBy(lights, func(l models.Light) string { return l.ID })
	for i, id := range ids {
		lights[i] = byID[id]
	}
}
