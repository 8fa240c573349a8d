package power_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wheelibin/huepanel/internal/hue"
	"github.com/wheelibin/huepanel/internal/models"
	"github.com/wheelibin/huepanel/internal/power"
	"github.com/wheelibin/huepanel/mocks"
)

var testLights = []models.Light{
	{ID: "1", Name: "Desk", On: true, Bri: 254},
	{ID: "2", Name: "Hall", On: false, Bri: 100},
}

func newLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{Level: log.FatalLevel})
}

func newNotifier(t *testing.T) *mocks.MockPowerNotifier {
	mockNotifier := mocks.NewMockPowerNotifier(t)
	mockNotifier.On("Publish", mock.Anything, mock.Anything).Maybe()
	return mockNotifier
}

func Test_Sample(t *testing.T) {

	t.Run("should log one reading per tick", func(t *testing.T) {
		// arrange
		mockLights := mocks.NewMockPowerLightService(t)
		mockRepo := mocks.NewMockPowerPowerRepo(t)
		mockLights.On("GetLights", mock.Anything).Return(testLights, nil)
		mockRepo.On("AddReading", mock.Anything, mock.MatchedBy(func(reading models.PowerReading) bool {
			return len(reading.Samples) == 2 && reading.Totals.TotalWatts == 9 && reading.Totals.ActiveLights == 1
		})).Return(nil).Once()
		sampler := power.NewPowerSampler(newLogger(), mockLights, mockRepo, newNotifier(t))

		// act
		err := sampler.Sample(context.Background())

		// assert
		require.NoError(t, err)
		latest, ok := sampler.Latest()
		assert.True(t, ok)
		assert.Equal(t, 9.0, latest.Totals.TotalWatts)
		assert.False(t, sampler.Degraded())
	})

	t.Run("should write nothing when the bridge times out", func(t *testing.T) {
		// arrange
		mockLights := mocks.NewMockPowerLightService(t)
		mockRepo := mocks.NewMockPowerPowerRepo(t)
		mockLights.On("GetLights", mock.Anything).Return(nil, &hue.BridgeError{Kind: hue.ErrorTimeout, Err: context.DeadlineExceeded})
		sampler := power.NewPowerSampler(newLogger(), mockLights, mockRepo, newNotifier(t))

		// act
		err := sampler.Sample(context.Background())

		// assert
		assert.True(t, hue.IsKind(err, hue.ErrorTimeout))
		mockRepo.AssertNotCalled(t, "AddReading", mock.Anything, mock.Anything)
		_, ok := sampler.Latest()
		assert.False(t, ok)
	})

	t.Run("should keep the reading in memory when the database fails", func(t *testing.T) {
		// arrange
		mockLights := mocks.NewMockPowerLightService(t)
		mockRepo := mocks.NewMockPowerPowerRepo(t)
		mockLights.On("GetLights", mock.Anything).Return(testLights, nil)
		mockRepo.On("AddReading", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()
		mockRepo.On("AddReading", mock.Anything, mock.Anything).Return(nil).Once()
		sampler := power.NewPowerSampler(newLogger(), mockLights, mockRepo, newNotifier(t))

		// act
		err := sampler.Sample(context.Background())

		// assert
		assert.Error(t, err)
		assert.True(t, sampler.Degraded())
		_, ok := sampler.Latest()
		assert.True(t, ok)

		// and recovers on the next tick
		require.NoError(t, sampler.Sample(context.Background()))
		assert.False(t, sampler.Degraded())
	})

	t.Run("should sample without a repo", func(t *testing.T) {
		// arrange
		mockLights := mocks.NewMockPowerLightService(t)
		mockLights.On("GetLights", mock.Anything).Return(testLights, nil)
		sampler := power.NewPowerSampler(newLogger(), mockLights, nil, newNotifier(t))

		// act
		err := sampler.Sample(context.Background())

		// assert
		require.NoError(t, err)
		_, ok := sampler.Latest()
		assert.True(t, ok)
	})
}

func Test_Current(t *testing.T) {

	t.Run("should estimate from a live read", func(t *testing.T) {
		// arrange
		mockLights := mocks.NewMockPowerLightService(t)
		mockLights.On("GetLights", mock.Anything).Return(testLights, nil)
		sampler := power.NewPowerSampler(newLogger(), mockLights, nil, newNotifier(t))

		// act
		current, err := sampler.Current(context.Background())

		// assert
		require.NoError(t, err)
		assert.False(t, current.Stale)
		assert.Equal(t, 9.0, current.Totals.TotalWatts)
		assert.Equal(t, 6.48, current.EstimatedMonthlyKWh)
		assert.False(t, current.DatabaseLogging)
	})

	t.Run("should fall back to the last reading flagged stale", func(t *testing.T) {
		// arrange
		mockLights := mocks.NewMockPowerLightService(t)
		mockLights.On("GetLights", mock.Anything).Return(testLights, nil).Once()
		mockLights.On("GetLights", mock.Anything).Return(nil, &hue.BridgeError{Kind: hue.ErrorUnreachable}).Once()
		sampler := power.NewPowerSampler(newLogger(), mockLights, nil, newNotifier(t))
		require.NoError(t, sampler.Sample(context.Background()))

		// act
		current, err := sampler.Current(context.Background())

		// assert
		assert.True(t, hue.IsKind(err, hue.ErrorUnreachable))
		assert.True(t, current.Stale)
		assert.Equal(t, 9.0, current.Totals.TotalWatts)
	})

	t.Run("should return an empty stale reading before the first sample", func(t *testing.T) {
		// arrange
		mockLights := mocks.NewMockPowerLightService(t)
		mockLights.On("GetLights", mock.Anything).Return(nil, &hue.BridgeError{Kind: hue.ErrorTimeout})
		sampler := power.NewPowerSampler(newLogger(), mockLights, nil, newNotifier(t))

		// act
		current, err := sampler.Current(context.Background())

		// assert
		assert.Error(t, err)
		assert.True(t, current.Stale)
		assert.Empty(t, current.Samples)
		assert.Zero(t, current.Totals.TotalWatts)
	})
}

func Test_Run(t *testing.T) {

	t.Run("should only start one sampling loop", func(t *testing.T) {
		// arrange
		sampled := make(chan struct{}, 4)
		mockLights := mocks.NewMockPowerLightService(t)
		mockLights.On("GetLights", mock.Anything).Return(testLights, nil).Run(func(_ mock.Arguments) {
			sampled <- struct{}{}
		})
		sampler := power.NewPowerSampler(newLogger(), mockLights, nil, newNotifier(t))
		ctx, cancel := context.WithCancel(context.Background())
		firstDone := make(chan struct{})
		go func() {
			sampler.Run(ctx)
			close(firstDone)
		}()
		<-sampled

		// act
		secondDone := make(chan struct{})
		go func() {
			sampler.Run(ctx)
			close(secondDone)
		}()

		// assert
		select {
		case <-secondDone:
		case <-time.After(time.Second):
			t.Fatal("second Run didn't return")
		}
		assert.Empty(t, sampled)
		mockLights.AssertNumberOfCalls(t, "GetLights", 1)
		cancel()
		<-firstDone
	})
}
