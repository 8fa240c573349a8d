package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/wheelibin/huepanel/internal/effects"
	"github.com/wheelibin/huepanel/internal/models"
)

// targetedRequest reads the target either from a "target" object or from "type"/"id" at the top
// level of the body. A missing type means the given light, or every light when there's no id.
func targetedRequest(r *http.Request, v any) (models.Target, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return models.Target{}, fmt.Errorf("%w: couldn't read body: %v", models.ErrInvalidRequest, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}

	var wrapped struct {
		Target *models.Target `json:"target"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return models.Target{}, fmt.Errorf("%w: invalid json body: %v", models.ErrInvalidRequest, err)
	}
	target := models.Target{}
	if wrapped.Target != nil {
		target = *wrapped.Target
	} else if err := json.Unmarshal(body, &target); err != nil {
		return models.Target{}, fmt.Errorf("%w: invalid target: %v", models.ErrInvalidRequest, err)
	}
	if target.Kind == "" {
		target.Kind = models.TargetAll
		if target.ID != "" {
			target.Kind = models.TargetLight
		}
	}

	if v != nil {
		if err := json.Unmarshal(body, v); err != nil {
			return models.Target{}, fmt.Errorf("%w: invalid json body: %v", models.ErrInvalidRequest, err)
		}
	}
	return target, target.Validate()
}

type effectStarted struct {
	EffectID string        `json:"effect_id"`
	Effect   models.Effect `json:"effect"`
}

func (s *Server) startEffect(kind effects.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.start(w, r, kind)
	}
}

func (s *Server) startAdvancedEffect(w http.ResponseWriter, r *http.Request) {
	kind, err := effects.ParseKind(mux.Vars(r)["type"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.start(w, r, kind)
}

func (s *Server) start(w http.ResponseWriter, r *http.Request, kind effects.Kind) {
	var params models.EffectParams
	target, err := targetedRequest(r, &params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	effect, err := s.services.Effects.Start(r.Context(), kind, target, params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, effectStarted{EffectID: effect.ID, Effect: effect})
}

func (s *Server) listMoodScenes(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, struct {
		Scenes map[effects.MoodCategory][]effects.MoodScene `json:"scenes"`
	}{effects.MoodsByCategory()})
}

// startMoodScene takes the same target body as the effects, every light when it's empty
func (s *Server) startMoodScene(w http.ResponseWriter, r *http.Request) {
	target, err := targetedRequest(r, nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	effect, scene, err := s.services.Effects.StartMood(r.Context(), mux.Vars(r)["type"], target)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, struct {
		effectStarted
		Scene effects.MoodScene `json:"scene"`
	}{effectStarted{EffectID: effect.ID, Effect: effect}, scene})
}

func (s *Server) listEffects(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, struct {
		ActiveEffects []models.Effect `json:"active_effects"`
	}{s.services.Effects.List()})
}

func (s *Server) stopEffect(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	outcome, err := s.services.Effects.Stop(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, struct {
		ID     string              `json:"id"`
		Status effects.StopOutcome `json:"status"`
	}{id, outcome})
}

func (s *Server) emergencyStrobeStop(w http.ResponseWriter, r *http.Request) {
	ids, results := s.services.Effects.EmergencyStrobeStop(r.Context())
	s.writeJSON(w, http.StatusOK, struct {
		StoppedEffects []string              `json:"stopped_effects"`
		Results        []models.TargetResult `json:"results"`
	}{ids, results})
}
