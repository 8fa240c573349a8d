package effects

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/wheelibin/huepanel/internal/models"
)

// Kind is the closed set of effects the runner knows how to drive
type Kind string

const (
	Strobe    Kind = "strobe"
	ColorLoop Kind = "colorloop"
	Wave      Kind = "wave"
	Pulse     Kind = "pulse"
	Rainbow   Kind = "rainbow"
	Fire      Kind = "fire"
	Sunset    Kind = "sunset"
	Lightning Kind = "lightning"
)

var Kinds = []Kind{Strobe, ColorLoop, Wave, Pulse, Rainbow, Fire, Sunset, Lightning}

func ParseKind(name string) (Kind, error) {
	kind := Kind(name)
	if !lo.Contains(Kinds, kind) {
		return "", fmt.Errorf("%w: unknown effect type %q", models.ErrInvalidRequest, name)
	}
	return kind, nil
}

// EffectID is the registry key for an effect on a target, e.g. colorloop_light_3
func EffectID(kind Kind, target models.Target) string {
	return fmt.Sprintf("%s_%s", kind, target.Name())
}
