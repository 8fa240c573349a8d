package schedule

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/nathan-osman/go-sunrise"
)

type SunTimes struct {
	Sunrise time.Time `json:"sunrise"`
	Sunset  time.Time `json:"sunset"`
}

// IsDark reports whether t falls outside daylight hours
func (s SunTimes) IsDark(t time.Time) bool {
	return t.Before(s.Sunrise) || t.After(s.Sunset)
}

// CalculateSunTimes returns the sunrise and sunset for the day of baseDate at the given location
func CalculateSunTimes(logger *log.Logger, lat float64, lng float64, baseDate time.Time) SunTimes {
	rise, set := sunrise.SunriseSunset(
		lat, lng,
		baseDate.Year(), baseDate.Month(), baseDate.Day(),
	)
	logger.Debug("Calculated local sunrise and sunset",
		"sunrise", rise.Local().Format("15:04"),
		"sunset", set.Local().Format("15:04"),
	)
	return SunTimes{Sunrise: rise, Sunset: set}
}
