package models

import "errors"

var (
	ErrNotFound               = errors.New("not found")
	ErrInvalidRequest         = errors.New("invalid request")
	ErrAlreadyRunning         = errors.New("effect already running")
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
	ErrLinkButtonNotPressed   = errors.New("link button not pressed")
)
