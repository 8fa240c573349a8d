package lights_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wheelibin/huepanel/internal/lights"
	"github.com/wheelibin/huepanel/internal/models"
	"github.com/wheelibin/huepanel/mocks"
)

var testLogger = log.NewWithOptions(os.Stderr, log.Options{Level: log.FatalLevel})

var okResult = []models.ItemResult{{Success: map[string]any{"on": true}}}

func Test_ResolveTarget(t *testing.T) {

	t.Run("should resolve a light to itself", func(t *testing.T) {
		// arrange
		mockHue := mocks.NewMockLightsHueAPIService(t)
		svc := lights.NewLightService(testLogger, mockHue)

		// act
		ids, err := svc.ResolveTarget(context.Background(), models.Target{Kind: models.TargetLight, ID: "3"})

		// assert
		require.NoError(t, err)
		assert.Equal(t, []string{"3"}, ids)
	})

	t.Run("should resolve a group to its lights in id order", func(t *testing.T) {
		// arrange
		mockHue := mocks.NewMockLightsHueAPIService(t)
		mockHue.On("GetGroup", mock.Anything, "2").Return(models.Group{ID: "2", Lights: []string{"10", "4", "7"}}, nil)
		svc := lights.NewLightService(testLogger, mockHue)

		// act
		ids, err := svc.ResolveTarget(context.Background(), models.Target{Kind: models.TargetGroup, ID: "2"})

		// assert
		require.NoError(t, err)
		assert.Equal(t, []string{"4", "7", "10"}, ids)
	})

	t.Run("should resolve all to every light on the bridge", func(t *testing.T) {
		// arrange
		mockHue := mocks.NewMockLightsHueAPIService(t)
		mockHue.On("GetLights", mock.Anything).Return([]models.Light{{ID: "1"}, {ID: "2"}}, nil)
		svc := lights.NewLightService(testLogger, mockHue)

		// act
		ids, err := svc.ResolveTarget(context.Background(), models.Target{Kind: models.TargetAll})

		// assert
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "2"}, ids)
	})

	t.Run("should reject an invalid target", func(t *testing.T) {
		// arrange
		svc := lights.NewLightService(testLogger, mocks.NewMockLightsHueAPIService(t))

		// act
		_, err := svc.ResolveTarget(context.Background(), models.Target{Kind: "room", ID: "1"})

		// assert
		assert.ErrorIs(t, err, models.ErrInvalidRequest)
	})
}

func Test_AllLights(t *testing.T) {

	t.Run("should report the outcome for every light", func(t *testing.T) {
		// arrange
		state := models.LightState{On: lo.ToPtr(true)}
		mockHue := mocks.NewMockLightsHueAPIService(t)
		mockHue.On("GetLights", mock.Anything).Return([]models.Light{{ID: "1"}, {ID: "2"}, {ID: "3"}}, nil)
		mockHue.On("SetLightState", mock.Anything, "1", state).Return(okResult, nil)
		mockHue.On("SetLightState", mock.Anything, "2", state).Return(nil, errors.New("light unreachable"))
		mockHue.On("SetLightState", mock.Anything, "3", state).Return(okResult, nil)
		svc := lights.NewLightService(testLogger, mockHue)

		// act
		results, err := svc.AllLights(context.Background(), state)

		// assert
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "1", results[0].ID)
		assert.Empty(t, results[0].Error)
		assert.Equal(t, "light unreachable", results[1].Error)
		assert.Equal(t, okResult, results[2].Results)
	})

	t.Run("should reject an empty state without calling the bridge", func(t *testing.T) {
		// arrange
		svc := lights.NewLightService(testLogger, mocks.NewMockLightsHueAPIService(t))

		// act
		_, err := svc.AllLights(context.Background(), models.LightState{})

		// assert
		assert.ErrorIs(t, err, models.ErrInvalidRequest)
	})
}

func Test_AllGroups(t *testing.T) {

	t.Run("should skip group 0", func(t *testing.T) {
		// arrange
		state := models.LightState{Bri: lo.ToPtr(uint8(10))}
		mockHue := mocks.NewMockLightsHueAPIService(t)
		mockHue.On("GetGroups", mock.Anything).Return([]models.Group{{ID: "0"}, {ID: "1"}, {ID: "5"}}, nil)
		mockHue.On("SetGroupAction", mock.Anything, "1", state).Return(okResult, nil).Once()
		mockHue.On("SetGroupAction", mock.Anything, "5", state).Return(okResult, nil).Once()
		svc := lights.NewLightService(testLogger, mockHue)

		// act
		results, err := svc.AllGroups(context.Background(), state)

		// assert
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "5"}, lo.Map(results, func(r models.TargetResult, _ int) string { return r.ID }))
	})
}

func Test_EmergencyOff(t *testing.T) {

	t.Run("should switch every light off", func(t *testing.T) {
		// arrange
		off := models.LightState{On: lo.ToPtr(false)}
		mockHue := mocks.NewMockLightsHueAPIService(t)
		mockHue.On("GetLights", mock.Anything).Return([]models.Light{{ID: "1", On: true}, {ID: "2"}}, nil)
		mockHue.On("SetLightState", mock.Anything, "1", off).Return(okResult, nil).Once()
		mockHue.On("SetLightState", mock.Anything, "2", off).Return(okResult, nil).Once()
		svc := lights.NewLightService(testLogger, mockHue)

		// act
		results, err := svc.EmergencyOff(context.Background())

		// assert
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})
}

func Test_ApplySceneToLight(t *testing.T) {

	t.Run("should apply the light state stored in the scene", func(t *testing.T) {
		// arrange
		scene := json.RawMessage(`{"name":"Relax","lightstates":{"4":{"on":true,"bri":144}}}`)
		mockHue := mocks.NewMockLightsHueAPIService(t)
		mockHue.On("GET", mock.Anything, "scenes/abc").Return(scene, nil)
		mockHue.On("SetLightState", mock.Anything, "4", models.LightState{On: lo.ToPtr(true), Bri: lo.ToPtr(uint8(144))}).Return(okResult, nil)
		svc := lights.NewLightService(testLogger, mockHue)

		// act
		_, err := svc.ApplySceneToLight(context.Background(), "4", "abc")

		// assert
		assert.NoError(t, err)
	})

	t.Run("should return not found when the light isn't in the scene", func(t *testing.T) {
		// arrange
		mockHue := mocks.NewMockLightsHueAPIService(t)
		mockHue.On("GET", mock.Anything, "scenes/abc").Return(json.RawMessage(`{"lightstates":{}}`), nil)
		svc := lights.NewLightService(testLogger, mockHue)

		// act
		_, err := svc.ApplySceneToLight(context.Background(), "4", "abc")

		// assert
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func Test_ConfigureSensor(t *testing.T) {

	t.Run("should pass the config through to the bridge", func(t *testing.T) {
		// arrange
		config := map[string]any{"on": false, "sensitivity": float64(2)}
		mockHue := mocks.NewMockLightsHueAPIService(t)
		mockHue.On("SetSensorConfig", mock.Anything, "7", config).Return(okResult, nil)
		svc := lights.NewLightService(testLogger, mockHue)

		// act
		items, err := svc.ConfigureSensor(context.Background(), "7", config)

		// assert
		require.NoError(t, err)
		assert.Equal(t, okResult, items)
	})

	t.Run("should reject an empty config without calling the bridge", func(t *testing.T) {
		// arrange
		mockHue := mocks.NewMockLightsHueAPIService(t)
		svc := lights.NewLightService(testLogger, mockHue)

		// act
		_, err := svc.ConfigureSensor(context.Background(), "7", map[string]any{})

		// assert
		assert.ErrorIs(t, err, models.ErrInvalidRequest)
		mockHue.AssertNotCalled(t, "SetSensorConfig", mock.Anything, mock.Anything, mock.Anything)
	})
}
