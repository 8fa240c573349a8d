package timers_test

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wheelibin/huepanel/internal/constants"
	"github.com/wheelibin/huepanel/internal/models"
	"github.com/wheelibin/huepanel/internal/timers"
	"github.com/wheelibin/huepanel/mocks"
)

var (
	light5 = models.Target{Kind: models.TargetLight, ID: "5"}
	off    = models.LightState{On: lo.ToPtr(false)}
)

func newTimerService(t *testing.T, lightService *mocks.MockTimersLightService) *timers.TimerService {
	t.Helper()
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.FatalLevel})
	mockNotifier := mocks.NewMockTimersNotifier(t)
	mockNotifier.On("Publish", mock.Anything, mock.Anything).Maybe()
	svc := timers.NewTimerService(logger, lightService, mockNotifier)
	t.Cleanup(svc.StopAll)
	return svc
}

func Test_Schedule(t *testing.T) {

	t.Run("should list the timer with its remaining time and fire it once", func(t *testing.T) {
		// arrange
		mockLights := mocks.NewMockTimersLightService(t)
		mockLights.On("Apply", mock.Anything, light5, off).Return([]models.TargetResult{{ID: "5"}}, nil).Once()
		svc := newTimerService(t, mockLights)

		// act
		timer, err := svc.Schedule(light5, off, 2*time.Second)
		require.NoError(t, err)
		listed := svc.List()

		// assert
		require.Len(t, listed, 1)
		assert.Equal(t, timer.ID, listed[0].ID)
		assert.InDelta(t, 2.0, listed[0].RemainingSeconds, 0.2)
		assert.Equal(t, models.TimerPending, listed[0].Status)

		time.Sleep(3 * time.Second)
		assert.Empty(t, svc.List())
		mockLights.AssertNumberOfCalls(t, "Apply", 1)
	})

	t.Run("should clamp delays longer than a day", func(t *testing.T) {
		// arrange
		svc := newTimerService(t, mocks.NewMockTimersLightService(t))

		// act
		timer, err := svc.Schedule(light5, off, 48*time.Hour)

		// assert
		require.NoError(t, err)
		assert.WithinDuration(t, timer.CreatedAt.Add(constants.MaxTimerDelay), timer.FireAt, time.Millisecond)
	})

	t.Run("should reject a negative delay", func(t *testing.T) {
		// arrange
		svc := newTimerService(t, mocks.NewMockTimersLightService(t))

		// act
		_, err := svc.Schedule(light5, off, -time.Second)

		// assert
		assert.ErrorIs(t, err, models.ErrInvalidRequest)
		assert.Zero(t, svc.Count())
	})

	t.Run("should reject an empty action", func(t *testing.T) {
		// arrange
		svc := newTimerService(t, mocks.NewMockTimersLightService(t))

		// act
		_, err := svc.Schedule(light5, models.LightState{}, time.Second)

		// assert
		assert.ErrorIs(t, err, models.ErrInvalidRequest)
	})

	t.Run("should only affect the failed timer when applying fails", func(t *testing.T) {
		// arrange
		light6 := models.Target{Kind: models.TargetLight, ID: "6"}
		mockLights := mocks.NewMockTimersLightService(t)
		mockLights.On("Apply", mock.Anything, light5, off).Return(nil, errors.New("bridge down")).Once()
		mockLights.On("Apply", mock.Anything, light6, off).Return([]models.TargetResult{{ID: "6"}}, nil).Once()
		svc := newTimerService(t, mockLights)

		// act
		_, err := svc.Schedule(light5, off, 10*time.Millisecond)
		require.NoError(t, err)
		_, err = svc.Schedule(light6, off, 50*time.Millisecond)
		require.NoError(t, err)

		// assert
		assert.Eventually(t, func() bool { return svc.Count() == 0 }, time.Second, 10*time.Millisecond)
		time.Sleep(20 * time.Millisecond)
		mockLights.AssertNumberOfCalls(t, "Apply", 2)
	})
}

func Test_Cancel(t *testing.T) {

	t.Run("should skip the apply for a cancelled timer", func(t *testing.T) {
		// arrange
		mockLights := mocks.NewMockTimersLightService(t)
		svc := newTimerService(t, mockLights)
		timer, err := svc.Schedule(light5, off, 100*time.Millisecond)
		require.NoError(t, err)

		// act
		err = svc.Cancel(timer.ID)

		// assert
		require.NoError(t, err)
		assert.Empty(t, svc.List())
		time.Sleep(200 * time.Millisecond)
		mockLights.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should report an unknown timer as not found", func(t *testing.T) {
		// arrange
		svc := newTimerService(t, mocks.NewMockTimersLightService(t))

		// act
		err := svc.Cancel("nope")

		// assert
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func Test_List(t *testing.T) {

	t.Run("should order timers by fire time", func(t *testing.T) {
		// arrange
		svc := newTimerService(t, mocks.NewMockTimersLightService(t))
		later, _ := svc.Schedule(light5, off, time.Hour)
		sooner, _ := svc.Schedule(models.Target{Kind: models.TargetAll}, off, time.Minute)

		// act
		listed := svc.List()

		// assert
		assert.Equal(t, []string{sooner.ID, later.ID}, lo.Map(listed, func(timer models.Timer, _ int) string { return timer.ID }))
	})
}

func Test_StopAll(t *testing.T) {

	t.Run("should drop every pending timer without applying it", func(t *testing.T) {
		// arrange
		mockLights := mocks.NewMockTimersLightService(t)
		svc := newTimerService(t, mockLights)
		_, err := svc.Schedule(light5, off, 50*time.Millisecond)
		require.NoError(t, err)
		_, err = svc.Schedule(models.Target{Kind: models.TargetAll}, off, time.Hour)
		require.NoError(t, err)

		// act
		svc.StopAll()

		// assert
		assert.Zero(t, svc.Count())
		time.Sleep(100 * time.Millisecond)
		mockLights.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything, mock.Anything)
	})
}
