package power_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/wheelibin/huepanel/internal/models"
	"github.com/wheelibin/huepanel/internal/power"
)

func Test_EstimateWatts(t *testing.T) {

	t.Run("should be zero when the light is off", func(t *testing.T) {
		for _, bri := range []int{0, 1, 127, 254} {
			assert.Zero(t, power.EstimateWatts(false, bri))
		}
	})

	t.Run("should be the rated max at full brightness", func(t *testing.T) {
		assert.Equal(t, 9.0, power.EstimateWatts(true, 254))
	})

	t.Run("should never decrease as brightness increases", func(t *testing.T) {
		previous := 0.0
		for bri := -10; bri <= 300; bri++ {
			watts := power.EstimateWatts(true, bri)
			assert.GreaterOrEqual(t, watts, previous)
			assert.GreaterOrEqual(t, watts, 0.0)
			assert.LessOrEqual(t, watts, 9.0)
			previous = watts
		}
	})
}

func Test_Estimate(t *testing.T) {

	t.Run("should produce a sample per light and the totals", func(t *testing.T) {
		// arrange
		at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		lights := []models.Light{
			{ID: "1", Name: "Desk", On: true, Bri: 254},
			{ID: "2", Name: "Hall", On: false, Bri: 200},
			{ID: "3", Name: "Lamp", On: true, Bri: 127},
			{ID: "4", Name: "Odd", On: true, Bri: 255},
		}

		// act
		reading := power.Estimate(lights, at)

		// assert
		assert.Len(t, reading.Samples, 4)
		assert.Equal(t, 9.0, reading.Samples[0].Watts)
		assert.Zero(t, reading.Samples[1].Watts)
		assert.Equal(t, 200, reading.Samples[1].Brightness)
		assert.Equal(t, 4.5, reading.Samples[2].Watts)
		assert.Equal(t, 254, reading.Samples[3].Brightness)
		assert.Equal(t, 22.5, reading.Totals.TotalWatts)
		assert.Equal(t, 3, reading.Totals.ActiveLights)
		assert.Equal(t, at, reading.Totals.Timestamp)
	})
}
