package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/wheelibin/huepanel/internal/hue"
	"github.com/wheelibin/huepanel/internal/models"
)

// error codes returned to clients
const (
	CodeBridgeUnreachable      = "BRIDGE_UNREACHABLE"
	CodeBridgeTimeout          = "BRIDGE_TIMEOUT"
	CodeBridgeProtocolError    = "BRIDGE_PROTOCOL_ERROR"
	CodePersistenceUnavailable = "PERSISTENCE_UNAVAILABLE"
	CodeNotFound               = "NOT_FOUND"
	CodeInvalidRequest         = "INVALID_REQUEST"
	CodeAlreadyRunning         = "ALREADY_RUNNING"
	CodeLinkButtonNotPressed   = "LINK_BUTTON_NOT_PRESSED"
	CodeInternal               = "INTERNAL_ERROR"
)

type apiError struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Items   []models.ItemResult `json:"items,omitempty"`
}

type errorResponse struct {
	Error apiError `json:"error"`
}

// classifyError maps an error onto its http status and error code
func classifyError(err error) (int, apiError) {
	body := apiError{Message: err.Error()}

	if be, ok := hue.AsBridgeError(err); ok {
		switch be.Kind {
		case hue.ErrorTimeout:
			body.Code = CodeBridgeTimeout
			return http.StatusGatewayTimeout, body
		case hue.ErrorUnreachable:
			body.Code = CodeBridgeUnreachable
			return http.StatusBadGateway, body
		default:
			body.Code = CodeBridgeProtocolError
			body.Items = be.Items
			return http.StatusBadGateway, body
		}
	}

	switch {
	case errors.Is(err, models.ErrNotFound):
		body.Code = CodeNotFound
		return http.StatusNotFound, body
	case errors.Is(err, models.ErrInvalidRequest):
		body.Code = CodeInvalidRequest
		return http.StatusBadRequest, body
	case errors.Is(err, models.ErrAlreadyRunning):
		body.Code = CodeAlreadyRunning
		return http.StatusConflict, body
	case errors.Is(err, models.ErrLinkButtonNotPressed):
		body.Code = CodeLinkButtonNotPressed
		return http.StatusPreconditionRequired, body
	case errors.Is(err, models.ErrPersistenceUnavailable):
		body.Code = CodePersistenceUnavailable
		return http.StatusServiceUnavailable, body
	}

	body.Code = CodeInternal
	return http.StatusInternalServerError, body
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classifyError(err)
	if status >= http.StatusInternalServerError {
		s.logger.Warn("Request failed", "method", r.Method, "path", r.URL.Path, "code", body.Code, "err", err)
	} else {
		s.logger.Debug("Request rejected", "method", r.Method, "path", r.URL.Path, "code", body.Code, "err", err)
	}
	s.writeJSON(w, status, errorResponse{Error: body})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("Error writing response", "err", err)
	}
}

// decodeBody reads a json request body into v. An empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: invalid json body: %v", models.ErrInvalidRequest, err)
	}
	return nil
}

func notFound(what string, id string) error {
	return fmt.Errorf("%s %s: %w", what, id, models.ErrNotFound)
}
