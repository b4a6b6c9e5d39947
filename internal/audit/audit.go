package audit

import (
	"context"

	"github.com/mercy-korir600/LiveDev/pkg/log"
)

// Audit actions for the relay.
const (
	ActionCreateRoom = "room.create"
	ActionRetireRoom = "room.retire"
)

// Field constants for audit entries.
const (
	FieldAction = "action"
)

// Log emits a structured audit log entry via the context logger.
func Log(ctx context.Context, action, roomCode, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldRoomCode, roomCode).
		Msg(msg)
}
