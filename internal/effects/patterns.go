package effects

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/samber/lo"
	"github.com/wheelibin/huepanel/internal/constants"
	"github.com/wheelibin/huepanel/internal/models"
	"github.com/wheelibin/huepanel/internal/schedule"
)

type Command struct {
	LightID string
	State   models.LightState
}

// Frame is what a pattern wants done on one tick
type Frame struct {
	Commands []Command
	// how long to wait before the next tick
	Wait time.Duration
	// the pattern has run its course and the effect should end after this frame
	Done bool
	// every command carries the same state, a group target can take it as one group action
	Uniform bool
}

type Pattern interface {
	Step(elapsed time.Duration) Frame
}

// NewPattern builds the pattern for kind over the resolved lights
func NewPattern(kind Kind, lights []string, params models.EffectParams, rnd *rand.Rand) (Pattern, error) {
	if len(lights) == 0 {
		return nil, fmt.Errorf("%w: target has no lights", models.ErrInvalidRequest)
	}
	lights = append([]string{}, lights...)
	models.SortIDs(lights)

	if kind == Strobe {
		return newStrobePattern(lights, params, rnd)
	}

	speed, err := speedFactor(params.Speed)
	if err != nil {
		return nil, err
	}
	intensity := clampIntensity(params.Intensity)

	switch kind {
	case ColorLoop:
		return &colorLoopPattern{lights: lights, wait: scale(constants.ColorLoopTick, speed)}, nil

	case Wave:
		return newWavePattern(lights, params, speed, intensity)

	case Pulse:
		return newPulsePattern(lights, params, speed)

	case Rainbow:
		cycle := params.DurationValue()
		if cycle <= 0 {
			cycle = scale(constants.DefaultRainbowCycle, speed)
		}
		return &rainbowPattern{lights: lights, cycle: cycle, bri: clampBri(200 * intensity)}, nil

	case Fire:
		stops, err := colorStops(params, "fire")
		if err != nil {
			return nil, err
		}
		return &firePattern{lights: lights, stops: stops, intensity: intensity, wait: scale(constants.FireTick, speed), rnd: rnd}, nil

	case Sunset:
		duration := params.DurationValue()
		if duration <= 0 {
			duration = constants.DefaultSunsetDuration
		}
		return newSunsetPattern(lights, duration), nil

	case Lightning:
		return &lightningPattern{lights: lights, chance: 0.08 * intensity, rnd: rnd}, nil
	}

	return nil, fmt.Errorf("%w: unknown effect type %q", models.ErrInvalidRequest, kind)
}

// strobe

type strobeTier struct {
	min float64
	max float64
}

// flash rates in Hz
var strobeTiers = map[string]strobeTier{
	"fast":     {3, 8},
	"medium":   {1, 3},
	"slow":     {0.5, 1},
	"variable": {0.5, 8},
}

const (
	minStrobeFrequency = 0.5
	maxStrobeFrequency = 10
)

type strobePattern struct {
	lights    []string
	colors    []models.ColorStop
	tier      strobeTier
	resample  bool
	frequency float64
	rnd       *rand.Rand

	lit     bool
	flashes int
}

func newStrobePattern(lights []string, params models.EffectParams, rnd *rand.Rand) (*strobePattern, error) {
	p := &strobePattern{lights: lights, colors: params.Colors, rnd: rnd}

	switch {
	case params.Frequency > 0:
		p.frequency = clampFrequency(params.Frequency)
	case params.Speed.Tier == "" && params.Speed.Factor > 0:
		// a bare number is a rate in Hz
		p.frequency = clampFrequency(params.Speed.Factor)
	default:
		name := lo.Ternary(params.Speed.Tier == "", "medium", params.Speed.Tier)
		tier, found := strobeTiers[name]
		if !found {
			return nil, fmt.Errorf("%w: unknown strobe speed %q, expected one of %v", models.ErrInvalidRequest, name, lo.Keys(strobeTiers))
		}
		p.tier = tier
		p.resample = name == "variable"
		p.frequency = p.sample()
	}

	return p, nil
}

func (p *strobePattern) sample() float64 {
	return p.tier.min + p.rnd.Float64()*(p.tier.max-p.tier.min)
}

// Step alternates flash and dark phases, a quarter of each cycle lit
func (p *strobePattern) Step(_ time.Duration) Frame {
	cycle := time.Duration(float64(time.Second) / p.frequency)
	lit := cycle / 4

	if !p.lit {
		state := models.LightState{
			On:             lo.ToPtr(true),
			Bri:            lo.ToPtr(uint8(constants.MaxBrightness)),
			TransitionTime: lo.ToPtr(uint16(0)),
		}
		if len(p.colors) > 0 {
			color := p.colors[p.flashes%len(p.colors)]
			state.Hue = lo.ToPtr(color.Hue)
			state.Sat = lo.ToPtr(color.Sat)
		}
		p.lit = true
		return Frame{Uniform: true, Commands: same(p.lights, state), Wait: lit}
	}

	p.lit = false
	p.flashes++
	if p.resample {
		p.frequency = p.sample()
	}
	off := models.LightState{On: lo.ToPtr(false), TransitionTime: lo.ToPtr(uint16(0))}
	return Frame{Uniform: true, Commands: same(p.lights, off), Wait: cycle - lit}
}

// colorloop

type colorLoopPattern struct {
	lights []string
	wait   time.Duration
	hue    int
}

func (p *colorLoopPattern) Step(_ time.Duration) Frame {
	state := models.LightState{
		On:  lo.ToPtr(true),
		Hue: lo.ToPtr(uint16(p.hue)),
		Sat: lo.ToPtr(uint8(constants.MaxSaturation)),
		Bri: lo.ToPtr(uint8(constants.MaxBrightness)),
	}
	p.hue = (p.hue + constants.ColorLoopHueStep) % constants.HueRange
	return Frame{Uniform: true, Commands: same(p.lights, state), Wait: p.wait}
}

// wave

type wavePattern struct {
	lights    []string
	stops     []models.ColorStop
	phaseStep int
	baseStep  int
	base      int
	bri       uint8
	wait      time.Duration
	tick      int
}

func newWavePattern(lights []string, params models.EffectParams, speed float64, intensity float64) (*wavePattern, error) {
	p := &wavePattern{
		lights:    lights,
		phaseStep: constants.HueRange / len(lights),
		baseStep:  constants.HueRange / 16,
		bri:       clampBri(constants.MaxBrightness * intensity),
		wait:      scale(constants.WaveTick, speed),
	}
	// with colors or a palette the stops move along the lights instead of the hue wheel
	if len(params.Colors) > 0 || params.Palette != "" {
		stops, err := colorStops(params, "full")
		if err != nil {
			return nil, err
		}
		p.stops = stops
	}
	return p, nil
}

func (p *wavePattern) Step(_ time.Duration) Frame {
	transition := deciseconds(p.wait)
	commands := lo.Map(p.lights, func(id string, i int) Command {
		state := models.LightState{On: lo.ToPtr(true), TransitionTime: transition}
		if len(p.stops) > 0 {
			stop := p.stops[(i+p.tick)%len(p.stops)]
			state.Hue = lo.ToPtr(stop.Hue)
			state.Sat = lo.ToPtr(stop.Sat)
			state.Bri = lo.ToPtr(clampBri(float64(stop.Bri) * float64(p.bri) / constants.MaxBrightness))
		} else {
			state.Hue = lo.ToPtr(uint16((p.base + i*p.phaseStep) % constants.HueRange))
			state.Sat = lo.ToPtr(uint8(constants.MaxSaturation))
			state.Bri = lo.ToPtr(p.bri)
		}
		return Command{LightID: id, State: state}
	})
	p.base = (p.base + p.baseStep) % constants.HueRange
	p.tick++
	return Frame{Commands: commands, Wait: p.wait}
}

// pulse

type pulsePattern struct {
	lights []string
	minBri float64
	maxBri float64
	period time.Duration
}

func newPulsePattern(lights []string, params models.EffectParams, speed float64) (*pulsePattern, error) {
	minBri := float64(lo.Ternary(params.MinBri == 0, uint8(50), params.MinBri))
	maxBri := float64(lo.Ternary(params.MaxBri == 0, uint8(constants.MaxBrightness), params.MaxBri))
	if minBri > maxBri {
		return nil, fmt.Errorf("%w: min_bri %v is above max_bri %v", models.ErrInvalidRequest, minBri, maxBri)
	}
	period := time.Duration(params.Period * float64(time.Second))
	if period <= 0 {
		period = scale(2*time.Second, speed)
	}
	return &pulsePattern{lights: lights, minBri: minBri, maxBri: maxBri, period: period}, nil
}

// Step follows a raised cosine so the cycle starts and ends at min brightness
func (p *pulsePattern) Step(elapsed time.Duration) Frame {
	phase := 2 * math.Pi * elapsed.Seconds() / p.period.Seconds()
	level := (1 - math.Cos(phase)) / 2
	state := models.LightState{
		On:             lo.ToPtr(true),
		Bri:            lo.ToPtr(clampBri(p.minBri + (p.maxBri-p.minBri)*level)),
		TransitionTime: deciseconds(constants.PulseTick),
	}
	return Frame{Uniform: true, Commands: same(p.lights, state), Wait: constants.PulseTick}
}

// rainbow

type rainbowPattern struct {
	lights []string
	cycle  time.Duration
	bri    uint8
}

func (p *rainbowPattern) Step(elapsed time.Duration) Frame {
	_, fraction := math.Modf(elapsed.Seconds() / p.cycle.Seconds())
	state := models.LightState{
		On:             lo.ToPtr(true),
		Hue:            lo.ToPtr(uint16(int(fraction*constants.HueRange) % constants.HueRange)),
		Sat:            lo.ToPtr(uint8(constants.MaxSaturation)),
		Bri:            lo.ToPtr(p.bri),
		TransitionTime: deciseconds(constants.RainbowTick),
	}
	return Frame{Uniform: true, Commands: same(p.lights, state), Wait: constants.RainbowTick}
}

// fire

type firePattern struct {
	lights    []string
	stops     []models.ColorStop
	intensity float64
	wait      time.Duration
	rnd       *rand.Rand
}

func (p *firePattern) Step(_ time.Duration) Frame {
	commands := lo.Map(p.lights, func(id string, _ int) Command {
		stop := p.stops[p.rnd.Intn(len(p.stops))]
		bri := float64(100+p.rnd.Intn(155)) * p.intensity
		return Command{LightID: id, State: models.LightState{
			On:             lo.ToPtr(true),
			Hue:            lo.ToPtr(stop.Hue),
			Sat:            lo.ToPtr(stop.Sat),
			Bri:            lo.ToPtr(clampBri(bri)),
			TransitionTime: lo.ToPtr(uint16(1 + p.rnd.Intn(5))),
		}}
	})
	return Frame{Commands: commands, Wait: p.wait}
}

// sunset

type sunsetPattern struct {
	lights   []string
	origin   time.Time
	interval schedule.Interval
}

func newSunsetPattern(lights []string, duration time.Duration) *sunsetPattern {
	// the interval is laid out from an arbitrary origin, steps are placed at origin+elapsed
	origin := time.Time{}
	return &sunsetPattern{lights: lights, origin: origin, interval: schedule.NewInterval(origin, duration,
		schedule.IntervalStep{Brightness: constants.SunsetStartBrightness, Temperature: constants.SunsetStartCT},
		schedule.IntervalStep{Brightness: constants.SunsetEndBrightness, Temperature: constants.SunsetEndCT},
	)}
}

func (p *sunsetPattern) Step(elapsed time.Duration) Frame {
	at := p.origin.Add(elapsed)
	target := p.interval.CalculateTargetLightState(at)
	state := models.LightState{
		On:             lo.ToPtr(true),
		Bri:            lo.ToPtr(clampBri(target.Brightness)),
		CT:             lo.ToPtr(uint16(target.Temperature)),
		TransitionTime: deciseconds(constants.SunsetTick),
	}
	return Frame{Uniform: true, Commands: same(p.lights, state), Wait: constants.SunsetTick, Done: p.interval.Finished(at)}
}

// lightning

type lightningPattern struct {
	lights  []string
	chance  float64
	rnd     *rand.Rand
	started bool
	flashed string
}

func (p *lightningPattern) Step(_ time.Duration) Frame {
	frame := Frame{Wait: constants.LightningTick}

	if !p.started {
		p.started = true
		dim := models.LightState{On: lo.ToPtr(true), Bri: lo.ToPtr(uint8(constants.LightningDimBrightness)), Sat: lo.ToPtr(uint8(0))}
		frame.Commands = same(p.lights, dim)
		frame.Uniform = true
		return frame
	}

	if p.flashed != "" {
		frame.Commands = append(frame.Commands, Command{LightID: p.flashed, State: models.LightState{
			Bri:            lo.ToPtr(uint8(constants.LightningDimBrightness)),
			TransitionTime: lo.ToPtr(uint16(2)),
		}})
		p.flashed = ""
	}

	if p.rnd.Float64() < p.chance {
		p.flashed = p.lights[p.rnd.Intn(len(p.lights))]
		frame.Commands = append(frame.Commands, Command{LightID: p.flashed, State: models.LightState{
			On:             lo.ToPtr(true),
			Bri:            lo.ToPtr(uint8(constants.MaxBrightness)),
			Sat:            lo.ToPtr(uint8(0)),
			TransitionTime: lo.ToPtr(uint16(0)),
		}})
	}

	return frame
}

// helpers

func same(lights []string, state models.LightState) []Command {
	return lo.Map(lights, func(id string, _ int) Command {
		return Command{LightID: id, State: state}
	})
}

// speedFactor turns the speed param into a multiplier for tick lengths, larger is slower
func speedFactor(speed models.Speed) (float64, error) {
	if speed.Tier == "" {
		if speed.Factor <= 0 {
			return 1, nil
		}
		return math.Max(0.1, math.Min(10, speed.Factor)), nil
	}
	switch speed.Tier {
	case "fast":
		return 0.5, nil
	case "medium":
		return 1, nil
	case "slow":
		return 2, nil
	}
	return 0, fmt.Errorf("%w: unknown speed %q", models.ErrInvalidRequest, speed.Tier)
}

func clampIntensity(intensity float64) float64 {
	if intensity <= 0 {
		return 1
	}
	return math.Max(0.1, math.Min(2, intensity))
}

func clampFrequency(hz float64) float64 {
	return math.Max(minStrobeFrequency, math.Min(maxStrobeFrequency, hz))
}

func clampBri(v float64) uint8 {
	return uint8(math.Max(1, math.Min(constants.MaxBrightness, math.Round(v))))
}

func scale(d time.Duration, factor float64) time.Duration {
	return time.Duration(float64(d) * factor)
}

func deciseconds(d time.Duration) *uint16 {
	return lo.ToPtr(uint16(d / (100 * time.Millisecond)))
}
