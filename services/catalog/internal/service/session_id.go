package service

import "github.com/google/uuid"

// DefaultSessionID is the identifier minted in fixed mode.
const DefaultSessionID = "sess_12345"

// SessionIDGenerator mints session identifiers.
type SessionIDGenerator interface {
	NewSessionID() string
}

// FixedSessionID returns the same identifier for every session.
type FixedSessionID string

func (f FixedSessionID) NewSessionID() string { return string(f) }

// UUIDSessionID mints "sess_" followed by a random UUID.
type UUIDSessionID struct{}

func (UUIDSessionID) NewSessionID() string { return "sess_" + uuid.NewString() }
