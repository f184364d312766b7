package domain

import "errors"

// ErrSessionNotFound is returned when an editor session ID is unknown to the host.
var ErrSessionNotFound = errors.New("session not found")
