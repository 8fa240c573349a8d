package effects

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/wheelibin/huepanel/internal/models"
)

var palettes = map[string][]models.ColorStop{
	"warm": {
		{Hue: 5000, Sat: 254, Bri: 200},
		{Hue: 8000, Sat: 254, Bri: 200},
		{Hue: 12000, Sat: 200, Bri: 200},
		{Hue: 0, Sat: 200, Bri: 200},
	},
	"cool": {
		{Hue: 43000, Sat: 254, Bri: 200},
		{Hue: 50000, Sat: 254, Bri: 200},
		{Hue: 46920, Sat: 254, Bri: 200},
		{Hue: 35000, Sat: 200, Bri: 200},
	},
	"neon": {
		{Hue: 65000, Sat: 254, Bri: 254},
		{Hue: 25500, Sat: 254, Bri: 254},
		{Hue: 46920, Sat: 254, Bri: 254},
		{Hue: 21845, Sat: 254, Bri: 254},
	},
	"pastel": {
		{Hue: 65000, Sat: 100, Bri: 180},
		{Hue: 25500, Sat: 100, Bri: 180},
		{Hue: 46920, Sat: 100, Bri: 180},
		{Hue: 21845, Sat: 100, Bri: 180},
	},
	"full": {
		{Hue: 0, Sat: 254, Bri: 200},
		{Hue: 10922, Sat: 254, Bri: 200},
		{Hue: 46920, Sat: 254, Bri: 200},
		{Hue: 21845, Sat: 254, Bri: 200},
		{Hue: 54613, Sat: 254, Bri: 200},
		{Hue: 32768, Sat: 254, Bri: 200},
	},
	"fire": {
		{Hue: 0, Sat: 254, Bri: 254},
		{Hue: 5000, Sat: 254, Bri: 254},
		{Hue: 8000, Sat: 254, Bri: 254},
		{Hue: 12000, Sat: 200, Bri: 254},
	},
}

// colorStops picks the explicit colors, then the named palette, then the fallback palette
func colorStops(params models.EffectParams, fallback string) ([]models.ColorStop, error) {
	if len(params.Colors) > 0 {
		return params.Colors, nil
	}
	name := params.Palette
	if name == "" {
		name = fallback
	}
	stops, found := palettes[name]
	if !found {
		return nil, fmt.Errorf("%w: unknown color palette %q, expected one of %v", models.ErrInvalidRequest, name, lo.Keys(palettes))
	}
	return stops, nil
}
