package server

import (
	"net/http"

	"github.com/wheelibin/huepanel/internal/models"
)

type onboardingRequest struct {
	BridgeIP string `json:"bridge_ip"`
	Username string `json:"username"`
}

func (s *Server) discoverBridge(w http.ResponseWriter, r *http.Request) {
	bridges, err := s.services.Onboarding.DiscoverBridges(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, struct {
		Bridges []models.DiscoveredBridge `json:"bridges"`
	}{bridges})
}

// generateKey pairs with the bridge in the body, the configured one when none is given
func (s *Server) generateKey(w http.ResponseWriter, r *http.Request) {
	var req onboardingRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.BridgeIP == "" {
		req.BridgeIP = s.bridgeIP
	}

	username, err := s.services.Onboarding.GenerateKey(r.Context(), req.BridgeIP)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, struct {
		Username string `json:"username"`
	}{username})
}

func (s *Server) testConnection(w http.ResponseWriter, r *http.Request) {
	var req onboardingRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	count, err := s.services.Onboarding.TestConnection(r.Context(), req.BridgeIP, req.Username)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, struct {
		LightsCount int `json:"lights_count"`
	}{count})
}
