package service

import "errors"

// Sentinel errors for the session lifecycle. Controllers map these to HTTP
// statuses; nothing below this layer knows about Fiber.
var (
	// ErrAlreadyClockedIn: the practitioner already has an active session.
	ErrAlreadyClockedIn = errors.New("already clocked in")

	// ErrNoActiveSession: an operation resolved by practitioner identity
	// found no active session.
	ErrNoActiveSession = errors.New("no active session")

	// ErrSessionNotFound: unknown session id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionNotActive: the target session is in a terminal state.
	ErrSessionNotActive = errors.New("session is not active")

	// ErrSessionStillActive: review requires a terminal-state session.
	ErrSessionStillActive = errors.New("session is still active")

	// ErrInvalidCoordinates: latitude/longitude outside ±90/±180.
	ErrInvalidCoordinates = errors.New("invalid coordinates")

	// ErrInvalidReason: unknown auto clock-out reason code.
	ErrInvalidReason = errors.New("invalid auto clock-out reason")

	// ErrClientNotFound / ErrClientInactive: clock-in target lookup.
	ErrClientNotFound = errors.New("client not found")
	ErrClientInactive = errors.New("client is not active")
)
