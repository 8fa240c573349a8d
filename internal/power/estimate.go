package power

import (
	"math"
	"time"

	"github.com/samber/lo"
	"github.com/wheelibin/huepanel/internal/constants"
	"github.com/wheelibin/huepanel/internal/models"
)

// EstimateWatts is a linear approximation of a bulb's draw from its brightness. There's no real
// metering, every bulb is assumed to be rated at the same maximum.
func EstimateWatts(on bool, brightness int) float64 {
	if !on {
		return 0
	}
	return round(float64(clampBrightness(brightness))/constants.MaxBrightness*constants.RatedMaxWatts, 2)
}

// Estimate turns a snapshot of the lights into one sample per light plus the totals
func Estimate(lights []models.Light, at time.Time) models.PowerReading {
	samples := lo.Map(lights, func(light models.Light, _ int) models.PowerSample {
		brightness := clampBrightness(int(light.Bri))
		return models.PowerSample{
			Timestamp:  at,
			LightID:    light.ID,
			LightName:  light.Name,
			Watts:      EstimateWatts(light.On, brightness),
			Brightness: brightness,
		}
	})

	total := lo.SumBy(samples, func(s models.PowerSample) float64 { return s.Watts })
	active := lo.CountBy(lights, func(light models.Light) bool { return light.On })

	return models.PowerReading{
		Totals: models.TotalsSample{
			Timestamp:    at,
			TotalWatts:   round(total, 2),
			ActiveLights: active,
		},
		Samples: samples,
	}
}

// MonthlyKWh projects a constant draw over a 30 day month
func MonthlyKWh(watts float64) float64 {
	return round(watts*24*30/1000, 2)
}

func clampBrightness(brightness int) int {
	return max(0, min(constants.MaxBrightness, brightness))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
