package effects

import (
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/wheelibin/huepanel/internal/models"
)

// Mood is the effect type of a running mood scene. It isn't one of Kinds, moods are started by scene.
const Mood Kind = "mood"

type MoodCategory string

const (
	MoodNatural   MoodCategory = "natural"
	MoodEmotional MoodCategory = "emotional"
	MoodActivity  MoodCategory = "activity"
)

var MoodCategories = []MoodCategory{MoodNatural, MoodEmotional, MoodActivity}

// MoodStep is one colour in a scene. The lights fade to it over Duration and the scene moves on
// once the fade is done.
type MoodStep struct {
	Hue      uint16        `json:"hue"`
	Sat      uint8         `json:"sat"`
	Bri      uint8         `json:"bri"`
	Duration time.Duration `json:"duration"`
}

type MoodScene struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Category MoodCategory `json:"category"`
	Steps    []MoodStep   `json:"-"`
}

// step durations are given in deciseconds, the bridge's transition unit
func ds(n float64) time.Duration {
	return time.Duration(n * float64(100*time.Millisecond))
}

var MoodScenes = []MoodScene{
	{ID: "sunrise", Name: "Sunrise", Category: MoodNatural, Steps: []MoodStep{
		{Hue: 7000, Sat: 254, Bri: 50, Duration: ds(30)},
		{Hue: 12000, Sat: 220, Bri: 120, Duration: ds(60)},
		{Hue: 15000, Sat: 180, Bri: 200, Duration: ds(90)},
		{Hue: 8000, Sat: 100, Bri: 254, Duration: ds(120)},
	}},
	{ID: "sunset", Name: "Sunset", Category: MoodNatural, Steps: []MoodStep{
		{Hue: 15000, Sat: 100, Bri: 254, Duration: ds(60)},
		{Hue: 8000, Sat: 180, Bri: 200, Duration: ds(90)},
		{Hue: 5000, Sat: 220, Bri: 120, Duration: ds(120)},
		{Hue: 0, Sat: 254, Bri: 80, Duration: ds(180)},
	}},
	{ID: "aurora", Name: "Aurora", Category: MoodNatural, Steps: []MoodStep{
		{Hue: 25000, Sat: 254, Bri: 150, Duration: ds(45)},
		{Hue: 46920, Sat: 254, Bri: 200, Duration: ds(45)},
		{Hue: 35000, Sat: 254, Bri: 120, Duration: ds(45)},
	}},
	{ID: "thunder", Name: "Thunderstorm", Category: MoodNatural, Steps: []MoodStep{
		{Hue: 0, Sat: 0, Bri: 10, Duration: ds(5)},
		{Hue: 0, Sat: 0, Bri: 254, Duration: ds(0.2)},
		{Hue: 0, Sat: 0, Bri: 10, Duration: ds(3)},
		{Hue: 47000, Sat: 254, Bri: 100, Duration: ds(30)},
	}},
	{ID: "ocean", Name: "Ocean", Category: MoodNatural, Steps: []MoodStep{
		{Hue: 46920, Sat: 254, Bri: 80, Duration: ds(60)},
		{Hue: 45000, Sat: 200, Bri: 150, Duration: ds(60)},
		{Hue: 48000, Sat: 254, Bri: 100, Duration: ds(60)},
	}},
	{ID: "forest", Name: "Rainforest", Category: MoodNatural, Steps: []MoodStep{
		{Hue: 25500, Sat: 254, Bri: 120, Duration: ds(90)},
		{Hue: 22000, Sat: 200, Bri: 80, Duration: ds(90)},
		{Hue: 28000, Sat: 254, Bri: 160, Duration: ds(90)},
	}},
	{ID: "desert", Name: "Desert", Category: MoodNatural, Steps: []MoodStep{
		{Hue: 8000, Sat: 180, Bri: 200, Duration: ds(120)},
		{Hue: 12000, Sat: 150, Bri: 180, Duration: ds(120)},
		{Hue: 15000, Sat: 120, Bri: 220, Duration: ds(120)},
	}},

	{ID: "relax", Name: "Relax", Category: MoodEmotional, Steps: []MoodStep{
		{Hue: 56100, Sat: 120, Bri: 100, Duration: ds(180)},
	}},
	{ID: "energy", Name: "Energy", Category: MoodEmotional, Steps: []MoodStep{
		{Hue: 5000, Sat: 254, Bri: 200, Duration: ds(30)},
		{Hue: 0, Sat: 254, Bri: 254, Duration: ds(30)},
		{Hue: 8000, Sat: 254, Bri: 220, Duration: ds(30)},
	}},
	{ID: "focus", Name: "Focus", Category: MoodEmotional, Steps: []MoodStep{
		{Hue: 0, Sat: 0, Bri: 254, Duration: ds(300)},
		{Hue: 46920, Sat: 50, Bri: 200, Duration: ds(60)},
	}},
	{ID: "romance", Name: "Romance", Category: MoodEmotional, Steps: []MoodStep{
		{Hue: 65000, Sat: 200, Bri: 120, Duration: ds(240)},
	}},
	{ID: "meditation", Name: "Meditation", Category: MoodEmotional, Steps: []MoodStep{
		{Hue: 46920, Sat: 150, Bri: 80, Duration: ds(120)},
		{Hue: 50000, Sat: 180, Bri: 100, Duration: ds(120)},
		{Hue: 43000, Sat: 120, Bri: 60, Duration: ds(120)},
	}},
	{ID: "creativity", Name: "Creativity", Category: MoodEmotional, Steps: []MoodStep{
		{Hue: 25500, Sat: 254, Bri: 200, Duration: ds(45)},
		{Hue: 46920, Sat: 254, Bri: 200, Duration: ds(45)},
		{Hue: 0, Sat: 254, Bri: 200, Duration: ds(45)},
		{Hue: 56100, Sat: 254, Bri: 200, Duration: ds(45)},
	}},
	{ID: "calm", Name: "Calm", Category: MoodEmotional, Steps: []MoodStep{
		{Hue: 33000, Sat: 100, Bri: 90, Duration: ds(300)},
	}},

	{ID: "party", Name: "Party", Category: MoodActivity, Steps: []MoodStep{
		{Hue: 0, Sat: 254, Bri: 254, Duration: ds(15)},
		{Hue: 25500, Sat: 254, Bri: 254, Duration: ds(15)},
		{Hue: 46920, Sat: 254, Bri: 254, Duration: ds(15)},
		{Hue: 56100, Sat: 254, Bri: 254, Duration: ds(15)},
	}},
	{ID: "gaming", Name: "Gaming", Category: MoodActivity, Steps: []MoodStep{
		{Hue: 46920, Sat: 254, Bri: 200, Duration: ds(60)},
		{Hue: 0, Sat: 254, Bri: 220, Duration: ds(60)},
		{Hue: 25500, Sat: 254, Bri: 240, Duration: ds(60)},
	}},
	{ID: "reading", Name: "Reading", Category: MoodActivity, Steps: []MoodStep{
		{Hue: 8000, Sat: 80, Bri: 220, Duration: ds(300)},
	}},
	{ID: "cooking", Name: "Cooking", Category: MoodActivity, Steps: []MoodStep{
		{Hue: 0, Sat: 0, Bri: 254, Duration: ds(300)},
	}},
	{ID: "movie", Name: "Movie", Category: MoodActivity, Steps: []MoodStep{
		{Hue: 46920, Sat: 200, Bri: 40, Duration: ds(300)},
	}},
	{ID: "workout", Name: "Workout", Category: MoodActivity, Steps: []MoodStep{
		{Hue: 5000, Sat: 254, Bri: 254, Duration: ds(90)},
		{Hue: 25500, Sat: 254, Bri: 254, Duration: ds(90)},
	}},
}

func FindMood(id string) (MoodScene, error) {
	scene, ok := lo.Find(MoodScenes, func(scene MoodScene) bool { return scene.ID == id })
	if !ok {
		return MoodScene{}, fmt.Errorf("mood scene %s: %w", id, models.ErrNotFound)
	}
	return scene, nil
}

// MoodsByCategory groups the scenes for listing, every category present even when empty
func MoodsByCategory() map[MoodCategory][]MoodScene {
	grouped := lo.GroupBy(MoodScenes, func(scene MoodScene) MoodCategory { return scene.Category })
	for _, category := range MoodCategories {
		if _, ok := grouped[category]; !ok {
			grouped[category] = []MoodScene{}
		}
	}
	return grouped
}

// moodPattern plays the steps of a scene once and then ends
type moodPattern struct {
	lights []string
	steps  []MoodStep
	next   int
}

// NewMoodPattern builds the pattern that plays steps over the lights
func NewMoodPattern(lights []string, steps []MoodStep) (Pattern, error) {
	if len(lights) == 0 {
		return nil, fmt.Errorf("%w: target has no lights", models.ErrInvalidRequest)
	}
	lights = append([]string{}, lights...)
	models.SortIDs(lights)
	return &moodPattern{lights: lights, steps: steps}, nil
}

func (p *moodPattern) Step(_ time.Duration) Frame {
	if p.next >= len(p.steps) {
		return Frame{Done: true}
	}
	step := p.steps[p.next]
	p.next++

	state := models.LightState{
		On:             lo.ToPtr(true),
		Hue:            lo.ToPtr(step.Hue),
		Sat:            lo.ToPtr(step.Sat),
		Bri:            lo.ToPtr(step.Bri),
		TransitionTime: deciseconds(step.Duration),
	}
	return Frame{Uniform: true, Commands: same(p.lights, state), Wait: step.Duration}
}
