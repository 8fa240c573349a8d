package hue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"

	"github.com/wheelibin/huepanel/internal/models"
)

type ErrorKind string

const (
	ErrorTimeout     ErrorKind = "timeout"
	ErrorUnreachable ErrorKind = "unreachable"
	ErrorProtocol    ErrorKind = "protocol"
)

// BridgeError is returned for every failed interaction with the bridge.
type BridgeError struct {
	Kind   ErrorKind
	Method string
	Path   string
	// http status, 0 when no response was received
	Status int
	// per item failures reported by the bridge, if any
	Items []models.ItemResult
	Err   error
}

func (e *BridgeError) Error() string {
	msg := fmt.Sprintf("hue bridge %s: %s /%s", e.Kind, e.Method, e.Path)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *BridgeError) Unwrap() error {
	return e.Err
}

// AsBridgeError returns the BridgeError in err's chain, if there is one
func AsBridgeError(err error) (*BridgeError, bool) {
	var be *BridgeError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

func IsKind(err error, kind ErrorKind) bool {
	be, ok := AsBridgeError(err)
	return ok && be.Kind == kind
}

// classify turns a transport or decoding error into a BridgeError
func classify(method, path string, err error) *BridgeError {
	if be, ok := AsBridgeError(err); ok {
		return be
	}

	kind := ErrorUnreachable
	var netErr net.Error
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var urlErr *url.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = ErrorTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = ErrorTimeout
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		kind = ErrorProtocol
	case errors.As(err, &urlErr):
		kind = ErrorUnreachable
	case errors.Is(err, context.Canceled):
		kind = ErrorUnreachable
	default:
		// anything else coming back from the bridge means we couldn't make sense of the response
		var opErr *net.OpError
		if !errors.As(err, &opErr) {
			kind = ErrorProtocol
		}
	}

	return &BridgeError{Kind: kind, Method: method, Path: path, Err: err}
}
