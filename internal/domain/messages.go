package domain

import "time"

// WebSocket message types from client.
const (
	MsgTypeJoin  = "join"
	MsgTypeChat  = "chat"
	MsgTypeLeave = "leave"
	MsgTypePing  = "ping"
)

// WebSocket message types to client.
const (
	MsgTypeJoined   = "joined"
	MsgTypeMessage  = "message"
	MsgTypePresence = "presence"
	MsgTypeError    = "error"
	MsgTypePong     = "pong"
)

// Error codes
const (
	ErrCodeBadRequest    = "BAD_REQUEST"
	ErrCodeRoomNotFound  = "ROOM_NOT_FOUND"
	ErrCodeAlreadyHosted = "ALREADY_HOSTED"
	ErrCodeEmptyMessage  = "EMPTY_MESSAGE"
	ErrCodeNotConnected  = "NOT_CONNECTED"
	ErrCodeJoinTimeout   = "JOIN_TIMEOUT"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// BaseMessage is the base structure for all WebSocket messages.
type BaseMessage struct {
	Type string `json:"type"`
}

// Client -> Server messages

type JoinMessage struct {
	Type string `json:"type"`
	Room string `json:"room"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

type ChatMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type LeaveMessage struct {
	Type string `json:"type"`
}

// Server -> Client messages

type JoinedMessage struct {
	Type    string `json:"type"`
	Room    string `json:"room"`
	Name    string `json:"name"`
	Role    Role   `json:"role"`
	Viewers int    `json:"viewers"`
}

type MessageOut struct {
	Type      string    `json:"type"`
	ID        int64     `json:"id"`
	Author    string    `json:"author"`
	Role      Role      `json:"role"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type PresenceMessage struct {
	Type    string `json:"type"`
	Viewers int    `json:"viewers"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewErrorMessage(code, message string) *ErrorMessage {
	return &ErrorMessage{
		Type:    MsgTypeError,
		Code:    code,
		Message: message,
	}
}

// NewMessageOut converts a room log entry to its wire form.
func NewMessageOut(m Message) *MessageOut {
	return &MessageOut{
		Type:      MsgTypeMessage,
		ID:        m.ID,
		Author:    m.Author,
		Role:      m.Role,
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
	}
}
