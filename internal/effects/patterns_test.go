package effects_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wheelibin/huepanel/internal/effects"
	"github.com/wheelibin/huepanel/internal/models"
)

func newPattern(t *testing.T, kind effects.Kind, lights []string, params models.EffectParams) effects.Pattern {
	t.Helper()
	pattern, err := effects.NewPattern(kind, lights, params, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	return pattern
}

// flashRates steps a strobe through n full cycles and returns the rate of each cycle in Hz
func flashRates(pattern effects.Pattern, n int) []float64 {
	rates := []float64{}
	for i := 0; i < n; i++ {
		on := pattern.Step(0)
		off := pattern.Step(0)
		rates = append(rates, 1/(on.Wait+off.Wait).Seconds())
	}
	return rates
}

func Test_StrobePattern(t *testing.T) {

	t.Run("should flash at a fast rate within 3 to 8 Hz", func(t *testing.T) {
		// arrange
		pattern := newPattern(t, effects.Strobe, []string{"1"}, models.EffectParams{Speed: models.Speed{Tier: "fast"}})

		// act
		var total time.Duration
		flashes := 0
		for i := 0; i < 40; i++ {
			frame := pattern.Step(total)
			if *frame.Commands[0].State.On {
				flashes++
			}
			total += frame.Wait
		}

		// assert
		rate := float64(flashes) / total.Seconds()
		assert.GreaterOrEqual(t, rate, 3.0)
		assert.LessOrEqual(t, rate, 8.0)
	})

	t.Run("should alternate on and off with no transition", func(t *testing.T) {
		// arrange
		pattern := newPattern(t, effects.Strobe, []string{"1", "2"}, models.EffectParams{})

		// act
		on := pattern.Step(0)
		off := pattern.Step(0)

		// assert
		require.Len(t, on.Commands, 2)
		assert.True(t, *on.Commands[0].State.On)
		assert.Equal(t, uint8(254), *on.Commands[0].State.Bri)
		assert.Equal(t, uint16(0), *on.Commands[0].State.TransitionTime)
		assert.False(t, *off.Commands[1].State.On)
		assert.Less(t, on.Wait, off.Wait)
	})

	t.Run("should resample every cycle at the variable tier", func(t *testing.T) {
		// arrange
		pattern := newPattern(t, effects.Strobe, []string{"1"}, models.EffectParams{Speed: models.Speed{Tier: "variable"}})

		// act
		rates := flashRates(pattern, 50)

		// assert
		for _, rate := range rates {
			assert.GreaterOrEqual(t, rate, 0.5-0.01)
			assert.LessOrEqual(t, rate, 8.0+0.01)
		}
		assert.Greater(t, len(lo.Uniq(rates)), 1)
	})

	t.Run("should clamp the frequency override", func(t *testing.T) {
		// arrange
		pattern := newPattern(t, effects.Strobe, []string{"1"}, models.EffectParams{Frequency: 50})

		// act
		rates := flashRates(pattern, 3)

		// assert
		for _, rate := range rates {
			assert.InDelta(t, 10, rate, 0.01)
		}
	})

	t.Run("should cycle through the color stops per flash", func(t *testing.T) {
		// arrange
		colors := []models.ColorStop{{Hue: 0, Sat: 254}, {Hue: 46920, Sat: 254}}
		pattern := newPattern(t, effects.Strobe, []string{"1"}, models.EffectParams{Colors: colors})

		// act
		first := pattern.Step(0)
		pattern.Step(0)
		second := pattern.Step(0)

		// assert
		assert.Equal(t, uint16(0), *first.Commands[0].State.Hue)
		assert.Equal(t, uint16(46920), *second.Commands[0].State.Hue)
	})

	t.Run("should reject an unknown speed tier", func(t *testing.T) {
		// act
		_, err := effects.NewPattern(effects.Strobe, []string{"1"}, models.EffectParams{Speed: models.Speed{Tier: "ludicrous"}}, rand.New(rand.NewSource(1)))

		// assert
		assert.ErrorIs(t, err, models.ErrInvalidRequest)
	})
}

func Test_ColorLoopPattern(t *testing.T) {

	t.Run("should advance the hue each tick and wrap", func(t *testing.T) {
		// arrange
		pattern := newPattern(t, effects.ColorLoop, []string{"3"}, models.EffectParams{})

		// act
		hues := []uint16{}
		for i := 0; i < 70; i++ {
			frame := pattern.Step(0)
			hues = append(hues, *frame.Commands[0].State.Hue)
			assert.Equal(t, 100*time.Millisecond, frame.Wait)
		}

		// assert
		assert.Equal(t, uint16(0), hues[0])
		assert.Equal(t, uint16(1000), hues[1])
		assert.Equal(t, uint16(65000), hues[65])
		assert.Equal(t, uint16(464), hues[66])
	})
}

func Test_WavePattern(t *testing.T) {

	t.Run("should offset each light by an even phase step in id order", func(t *testing.T) {
		// arrange
		pattern := newPattern(t, effects.Wave, []string{"10", "2", "3", "1"}, models.EffectParams{})

		// act
		frame := pattern.Step(0)
		next := pattern.Step(0)

		// assert
		ids := lo.Map(frame.Commands, func(c effects.Command, _ int) string { return c.LightID })
		hues := lo.Map(frame.Commands, func(c effects.Command, _ int) uint16 { return *c.State.Hue })
		assert.Equal(t, []string{"1", "2", "3", "10"}, ids)
		assert.Equal(t, []uint16{0, 16384, 32768, 49152}, hues)
		assert.Equal(t, uint16(4096), *next.Commands[0].State.Hue)
	})

	t.Run("should move palette colors along the lights", func(t *testing.T) {
		// arrange
		colors := []models.ColorStop{{Hue: 1, Sat: 254, Bri: 254}, {Hue: 2, Sat: 254, Bri: 254}}
		pattern := newPattern(t, effects.Wave, []string{"1", "2"}, models.EffectParams{Colors: colors})

		// act
		first := pattern.Step(0)
		second := pattern.Step(0)

		// assert
		assert.Equal(t, uint16(1), *first.Commands[0].State.Hue)
		assert.Equal(t, uint16(2), *first.Commands[1].State.Hue)
		assert.Equal(t, uint16(2), *second.Commands[0].State.Hue)
		assert.Equal(t, uint16(1), *second.Commands[1].State.Hue)
	})
}

func Test_PulsePattern(t *testing.T) {

	t.Run("should move between min and max over the period", func(t *testing.T) {
		// arrange
		pattern := newPattern(t, effects.Pulse, []string{"1", "2"}, models.EffectParams{Period: 2})

		// act
		start := pattern.Step(0)
		peak := pattern.Step(time.Second)

		// assert
		assert.Equal(t, uint8(50), *start.Commands[0].State.Bri)
		assert.Equal(t, uint8(254), *peak.Commands[0].State.Bri)
		assert.Equal(t, *peak.Commands[0].State.Bri, *peak.Commands[1].State.Bri)
	})

	t.Run("should stay within the bounds", func(t *testing.T) {
		// arrange
		pattern := newPattern(t, effects.Pulse, []string{"1"}, models.EffectParams{MinBri: 80, MaxBri: 120})

		// act / assert
		for ms := 0; ms < 5000; ms += 100 {
			bri := *pattern.Step(time.Duration(ms) * time.Millisecond).Commands[0].State.Bri
			assert.GreaterOrEqual(t, bri, uint8(80))
			assert.LessOrEqual(t, bri, uint8(120))
		}
	})

	t.Run("should reject min above max", func(t *testing.T) {
		// act
		_, err := effects.NewPattern(effects.Pulse, []string{"1"}, models.EffectParams{MinBri: 200, MaxBri: 100}, rand.New(rand.NewSource(1)))

		// assert
		assert.ErrorIs(t, err, models.ErrInvalidRequest)
	})
}

func Test_RainbowPattern(t *testing.T) {

	t.Run("should cover the hue range once per cycle", func(t *testing.T) {
		// arrange
		pattern := newPattern(t, effects.Rainbow, []string{"1"}, models.EffectParams{Duration: 10})

		// act
		start := pattern.Step(0)
		half := pattern.Step(5 * time.Second)
		again := pattern.Step(10 * time.Second)

		// assert
		assert.Equal(t, uint16(0), *start.Commands[0].State.Hue)
		assert.Equal(t, uint16(32768), *half.Commands[0].State.Hue)
		assert.Equal(t, uint16(0), *again.Commands[0].State.Hue)
	})
}

func Test_FirePattern(t *testing.T) {

	t.Run("should use warm colors and bounded brightness per light", func(t *testing.T) {
		// arrange
		pattern := newPattern(t, effects.Fire, []string{"1", "2", "3"}, models.EffectParams{})
		warm := []uint16{0, 5000, 8000, 12000}

		// act / assert
		for i := 0; i < 50; i++ {
			for _, command := range pattern.Step(0).Commands {
				assert.Contains(t, warm, *command.State.Hue)
				assert.GreaterOrEqual(t, *command.State.Bri, uint8(100))
				assert.LessOrEqual(t, *command.State.Bri, uint8(254))
			}
		}
	})

	t.Run("should reject an unknown palette", func(t *testing.T) {
		// act
		_, err := effects.NewPattern(effects.Fire, []string{"1"}, models.EffectParams{Palette: "infrared"}, rand.New(rand.NewSource(1)))

		// assert
		assert.ErrorIs(t, err, models.ErrInvalidRequest)
	})
}

func Test_SunsetPattern(t *testing.T) {

	t.Run("should warm and dim monotonically then finish", func(t *testing.T) {
		// arrange
		pattern := newPattern(t, effects.Sunset, []string{"1"}, models.EffectParams{Duration: 60})

		// act
		var previous *models.LightState
		var last effects.Frame
		for s := 0; s <= 60; s++ {
			last = pattern.Step(time.Duration(s) * time.Second)
			state := last.Commands[0].State
			if previous != nil {
				// assert
				assert.GreaterOrEqual(t, *state.CT, *previous.CT)
				assert.LessOrEqual(t, *state.Bri, *previous.Bri)
			}
			previous = &state
			if s < 60 {
				assert.False(t, last.Done)
			}
		}

		// assert
		assert.True(t, last.Done)
		assert.Equal(t, uint16(500), *previous.CT)
	})
}

func Test_LightningPattern(t *testing.T) {

	t.Run("should dim everything first then flash single lights", func(t *testing.T) {
		// arrange
		pattern := newPattern(t, effects.Lightning, []string{"1", "2", "3"}, models.EffectParams{Intensity: 2})

		// act
		first := pattern.Step(0)
		flashes := 0
		for i := 0; i < 500; i++ {
			for _, command := range pattern.Step(0).Commands {
				if command.State.On != nil && *command.State.Bri == 254 {
					flashes++
				}
			}
		}

		// assert
		assert.Len(t, first.Commands, 3)
		assert.Equal(t, uint8(30), *first.Commands[0].State.Bri)
		assert.Greater(t, flashes, 0)
		assert.Less(t, flashes, 250)
	})
}

func Test_NewPattern(t *testing.T) {

	t.Run("should reject an empty target", func(t *testing.T) {
		// act
		_, err := effects.NewPattern(effects.ColorLoop, []string{}, models.EffectParams{}, rand.New(rand.NewSource(1)))

		// assert
		assert.ErrorIs(t, err, models.ErrInvalidRequest)
	})
}
