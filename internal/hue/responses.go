package hue

import (
	"strings"
	"time"

	"github.com/wheelibin/huepanel/internal/models"
)

// bridgeEvent is one entry of a v2 event stream message, the bridge sends them in batches
type bridgeEvent struct {
	CreationTime time.Time        `json:"creationtime"`
	ID           string           `json:"id"`
	Type         string           `json:"type"`
	Data         []bridgeResource `json:"data"`
}

type bridgeResource struct {
	ID   string `json:"id"`
	IDv1 string `json:"id_v1"`
	Type string `json:"type"`
	On   *struct {
		On bool `json:"on"`
	} `json:"on,omitempty"`
	Dimming *struct {
		Brightness float64 `json:"brightness"`
	} `json:"dimming,omitempty"`
	ColorTemperature *struct {
		Mirek *int `json:"mirek"`
	} `json:"color_temperature,omitempty"`
}

// lightUpdate converts a v2 light resource into the v1 numbering the rest of the app uses.
// Resources without a v1 id can't be matched to a light and are skipped.
func (r bridgeResource) lightUpdate() (models.LightUpdate, bool) {
	if r.Type != "light" || !strings.HasPrefix(r.IDv1, "/lights/") {
		return models.LightUpdate{}, false
	}

	update := models.LightUpdate{ID: strings.TrimPrefix(r.IDv1, "/lights/")}
	if r.On != nil {
		on := r.On.On
		update.On = &on
	}
	if r.Dimming != nil {
		brightness := r.Dimming.Brightness
		update.BrightnessPct = &brightness
	}
	if r.ColorTemperature != nil && r.ColorTemperature.Mirek != nil {
		mirek := *r.ColorTemperature.Mirek
		update.Mirek = &mirek
	}
	return update, true
}
