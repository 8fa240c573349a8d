package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/wheelibin/huepanel/internal/models"
)

// currentPower never fails because of the bridge, it falls back to the last sampled reading
func (s *Server) currentPower(w http.ResponseWriter, r *http.Request) {
	current, err := s.services.Power.Current(r.Context())
	if err != nil {
		_, body := classifyError(err)
		current.StaleReason = body.Code
		s.logger.Debug("Serving stale power reading", "reason", body.Code, "err", err)
	}
	s.writeJSON(w, http.StatusOK, current)
}

func (s *Server) powerHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.services.History.History(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, history)
}

func (s *Server) powerDetailed(w http.ResponseWriter, r *http.Request) {
	timeframe, err := models.ParseTimeframe(mux.Vars(r)["timeframe"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	detailed, err := s.services.History.Detailed(r.Context(), timeframe)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, detailed)
}

func (s *Server) powerLamp(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	timeframe, err := models.ParseTimeframe(vars["timeframe"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	lamp, err := s.services.History.Lamp(r.Context(), vars["id"], timeframe)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, lamp)
}

func (s *Server) powerWeekly(w http.ResponseWriter, r *http.Request) {
	weekly, err := s.services.History.Weekly(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, weekly)
}

func (s *Server) powerMonthly(w http.ResponseWriter, r *http.Request) {
	monthly, err := s.services.History.Monthly(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, monthly)
}

type sunStatus struct {
	Sunrise time.Time `json:"sunrise"`
	Sunset  time.Time `json:"sunset"`
	IsDark  bool      `json:"is_dark"`
}

type statusResponse struct {
	Status        string          `json:"status"`
	BridgeIP      string          `json:"hue_bridge_ip"`
	HueConnected  bool            `json:"hue_connected"`
	LightsCount   int             `json:"lights_count"`
	ActiveEffects int             `json:"active_effects"`
	ActiveTimers  int             `json:"active_timers"`
	Database      string          `json:"database"`
	Features      map[string]bool `json:"features"`
	Sun           *sunStatus      `json:"sun,omitempty"`
	BridgeError   string          `json:"bridge_error,omitempty"`
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Status:        "running",
		BridgeIP:      s.bridgeIP,
		ActiveEffects: s.services.Effects.Count(),
		ActiveTimers:  s.services.Timers.Count(),
		Database:      s.database,
	}
	if s.database == "enabled" && s.services.Power.Degraded() {
		resp.Database = "degraded"
	}

	lights, err := s.services.Lights.GetLights(r.Context())
	if err != nil {
		_, body := classifyError(err)
		resp.BridgeError = body.Code
	} else {
		resp.HueConnected = true
		resp.LightsCount = len(lights)
	}

	resp.Features = map[string]bool{
		"basic_control":    true,
		"scenes":           true,
		"effects":          true,
		"timers":           true,
		"sensors":          true,
		"global_control":   true,
		"power_estimation": true,
		"power_logging":    s.database == "enabled",
		"event_stream":     s.services.Events != nil,
	}

	if s.services.SunTimes != nil {
		now := time.Now()
		sun := s.services.SunTimes(now)
		resp.Sun = &sunStatus{Sunrise: sun.Sunrise, Sunset: sun.Sunset, IsDark: sun.IsDark(now)}
	}

	s.writeJSON(w, http.StatusOK, resp)
}
