package domain

import "errors"

// Typed failures surfaced to callers. Anything else coming out of the relay
// is a programming error, not a recoverable condition.
var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrAlreadyHosted = errors.New("room already has a live host")
	ErrEmptyMessage  = errors.New("message body is empty")
	ErrNotConnected  = errors.New("session is not connected")
	ErrJoinTimeout   = errors.New("timed out waiting for join")
	ErrNameLocked    = errors.New("display name is locked after first message")
)
