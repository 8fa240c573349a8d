package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/wheelibin/huepanel/internal/models"
)

type timerRequest struct {
	Action       *models.LightState `json:"action"`
	DelaySeconds *float64           `json:"delay_seconds"`
	Delay        *float64           `json:"delay"`
}

func (s *Server) scheduleTimer(w http.ResponseWriter, r *http.Request) {
	var req timerRequest
	target, err := targetedRequest(r, &req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	delay := req.DelaySeconds
	if delay == nil {
		delay = req.Delay
	}
	if delay == nil {
		s.writeError(w, r, fmt.Errorf("%w: delay_seconds is required", models.ErrInvalidRequest))
		return
	}
	action := models.LightState{On: new(bool)}
	if req.Action != nil {
		action = *req.Action
	}

	timer, err := s.services.Timers.Schedule(target, action, time.Duration(*delay*float64(time.Second)))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, struct {
		TimerID string       `json:"timer_id"`
		Timer   models.Timer `json:"timer"`
	}{timer.ID, timer})
}

func (s *Server) listTimers(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, struct {
		ActiveTimers []models.Timer `json:"active_timers"`
	}{s.services.Timers.List()})
}

func (s *Server) cancelTimer(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.services.Timers.Cancel(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, struct {
		ID     string             `json:"id"`
		Status models.TimerStatus `json:"status"`
	}{id, models.TimerCancelled})
}
