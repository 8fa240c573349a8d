package schedule

import (
	"math"
	"time"
)

type IntervalStep struct {
	Time       time.Time
	Brightness float64
	// colour temperature in mirek
	Temperature int
	// when this step should begin transitioning to the next step (percentage value)
	TransitionAt int
}

// Interval is a linear transition between two light states
type Interval struct {
	Start IntervalStep
	End   IntervalStep
}

type LightState struct {
	Brightness  float64
	Temperature int
}

// NewInterval starts an interval at start and ends it after d
func NewInterval(start time.Time, d time.Duration, from IntervalStep, to IntervalStep) Interval {
	from.Time = start
	to.Time = start.Add(d)
	return Interval{Start: from, End: to}
}

// Progress is how far through the interval timestamp is, between 0 and 1
func (i Interval) Progress(timestamp time.Time) float64 {
	intervalDuration := i.End.Time.Sub(i.Start.Time)
	if intervalDuration <= 0 {
		return 1
	}
	percentProgress := timestamp.Sub(i.Start.Time).Seconds() / intervalDuration.Seconds()

	if percentProgress < (float64(i.Start.TransitionAt) / 100) {
		percentProgress = 0
	}
	return math.Max(0, math.Min(1, percentProgress))
}

func (i Interval) Finished(timestamp time.Time) bool {
	return !timestamp.Before(i.End.Time)
}

func (i Interval) CalculateTargetLightState(timestamp time.Time) LightState {
	progress := i.Progress(timestamp)

	temperatureDiff := i.End.Temperature - i.Start.Temperature
	targetTemperature := i.Start.Temperature + int(float64(temperatureDiff)*progress)

	brightnessDiff := i.End.Brightness - i.Start.Brightness
	targetBrightness := i.Start.Brightness + brightnessDiff*progress

	return LightState{
		Brightness:  targetBrightness,
		Temperature: targetTemperature,
	}
}
