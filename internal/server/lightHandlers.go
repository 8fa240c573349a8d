package server

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/wheelibin/huepanel/internal/constants"
	"github.com/wheelibin/huepanel/internal/models"
)

type resultsResponse struct {
	Results []models.TargetResult `json:"results"`
}

func (s *Server) getLights(w http.ResponseWriter, r *http.Request) {
	lights, err := s.services.Lights.GetLights(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, lights)
}

func (s *Server) getLight(w http.ResponseWriter, r *http.Request) {
	light, err := s.services.Lights.GetLight(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, light)
}

func (s *Server) getGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.services.Lights.GetGroups(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, groups)
}

func (s *Server) getScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := s.services.Lights.GetScenes(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, scenes)
}

func (s *Server) getSensors(w http.ResponseWriter, r *http.Request) {
	sensors, err := s.services.Lights.GetSensors(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sensors)
}

func (s *Server) configureSensor(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	config := map[string]any{}
	if err := decodeBody(r, &config); err != nil {
		s.writeError(w, r, err)
		return
	}

	items, err := s.services.Lights.ConfigureSensor(r.Context(), id, config)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, models.TargetResult{ID: id, Results: items})
}

func (s *Server) setLightState(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var state models.LightState
	if err := decodeBody(r, &state); err != nil {
		s.writeError(w, r, err)
		return
	}

	items, err := s.services.Lights.SetLightState(r.Context(), id, state)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, models.TargetResult{ID: id, Results: items})
}

func (s *Server) setGroupAction(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var state models.LightState
	if err := decodeBody(r, &state); err != nil {
		s.writeError(w, r, err)
		return
	}

	items, err := s.services.Lights.SetGroupAction(r.Context(), id, state)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, models.TargetResult{ID: id, Results: items})
}

func (s *Server) recallScene(w http.ResponseWriter, r *http.Request) {
	sceneID := mux.Vars(r)["id"]
	var body struct {
		Group string `json:"group"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if body.Group == "" {
		body.Group = constants.AllLightsGroupID
	}

	items, err := s.services.Lights.RecallScene(r.Context(), sceneID, body.Group)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, models.TargetResult{ID: body.Group, Results: items})
}

func (s *Server) setLightScene(w http.ResponseWriter, r *http.Request) {
	lightID := mux.Vars(r)["id"]
	var body struct {
		Scene string `json:"scene"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if body.Scene == "" {
		s.writeError(w, r, fmt.Errorf("%w: scene is required", models.ErrInvalidRequest))
		return
	}

	items, err := s.services.Lights.ApplySceneToLight(r.Context(), lightID, body.Scene)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, models.TargetResult{ID: lightID, Results: items})
}

func (s *Server) allLights(w http.ResponseWriter, r *http.Request) {
	var state models.LightState
	if err := decodeBody(r, &state); err != nil {
		s.writeError(w, r, err)
		return
	}

	results, err := s.services.Lights.AllLights(r.Context(), state)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resultsResponse{Results: results})
}

func (s *Server) allGroups(w http.ResponseWriter, r *http.Request) {
	var state models.LightState
	if err := decodeBody(r, &state); err != nil {
		s.writeError(w, r, err)
		return
	}

	results, err := s.services.Lights.AllGroups(r.Context(), state)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resultsResponse{Results: results})
}

// emergencyOff stops every effect first so nothing turns the lights back on
func (s *Server) emergencyOff(w http.ResponseWriter, r *http.Request) {
	s.logger.Warn("Emergency off requested")
	stopped := s.services.Effects.StopAll(r.Context())

	results, err := s.services.Lights.EmergencyOff(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, struct {
		StoppedEffects []string              `json:"stopped_effects"`
		Results        []models.TargetResult `json:"results"`
	}{stopped, results})
}
