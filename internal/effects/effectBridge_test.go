package effects_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wheelibin/huepanel/internal/config"
	"github.com/wheelibin/huepanel/internal/effects"
	"github.com/wheelibin/huepanel/internal/hue"
	"github.com/wheelibin/huepanel/internal/lights"
	"github.com/wheelibin/huepanel/internal/models"
	"github.com/wheelibin/huepanel/mocks"
)

// flashBridge serves a four light group and timestamps every "on" write it receives
type flashBridge struct {
	mu          sync.Mutex
	flashes     []time.Time
	lightWrites int
}

func (b *flashBridge) handle(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/user/")
	if r.Method == http.MethodGet && path == "groups/1" {
		_, _ = w.Write([]byte(`{"name": "Living", "type": "Room", "lights": ["1", "2", "3", "4"]}`))
		return
	}

	var state struct {
		On *bool `json:"on"`
	}
	_ = json.NewDecoder(r.Body).Decode(&state)

	b.mu.Lock()
	if strings.HasPrefix(path, "lights/") {
		b.lightWrites++
	}
	if path == "groups/1/action" && state.On != nil && *state.On {
		b.flashes = append(b.flashes, time.Now())
	}
	b.mu.Unlock()

	_, _ = fmt.Fprintf(w, `[{"success":{"/%s/on":true}}]`, path)
}

func (b *flashBridge) flashesBetween(from time.Time, to time.Time) []time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	window := []time.Time{}
	for _, at := range b.flashes {
		if !at.Before(from) && at.Before(to) {
			window = append(window, at)
		}
	}
	return window
}

func Test_StrobeThroughBridge(t *testing.T) {

	t.Run("should keep a fast strobe on a group within 3 to 8 Hz at the default rate limit", func(t *testing.T) {
		// arrange
		bridge := &flashBridge{}
		srv := httptest.NewServer(http.HandlerFunc(bridge.handle))
		t.Cleanup(srv.Close)
		logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.FatalLevel})
		hueAPI := hue.NewHueAPIService(logger, config.Config{BridgeIP: srv.URL, HueUsername: "user", BridgeRateLimit: 20})
		mockNotifier := mocks.NewMockEffectsNotifier(t)
		mockNotifier.On("Publish", mock.Anything, mock.Anything).Maybe()
		svc := effects.NewEffectService(logger, effects.NewEffectManager(), lights.NewLightService(logger, hueAPI), mockNotifier)
		t.Cleanup(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			svc.Shutdown(ctx)
		})

		// act
		_, err := svc.Start(context.Background(), effects.Strobe, models.Target{Kind: models.TargetGroup, ID: "1"}, models.EffectParams{Speed: models.Speed{Tier: "fast"}})
		require.NoError(t, err)
		from := time.Now().Add(500 * time.Millisecond)
		to := from.Add(3 * time.Second)
		time.Sleep(time.Until(to))

		// assert
		window := bridge.flashesBetween(from, to)
		require.Greater(t, len(window), 2)
		rate := float64(len(window)-1) / window[len(window)-1].Sub(window[0]).Seconds()
		assert.GreaterOrEqual(t, rate, 2.95)
		assert.LessOrEqual(t, rate, 8.05)
		bridge.mu.Lock()
		defer bridge.mu.Unlock()
		assert.Zero(t, bridge.lightWrites)
	})
}
