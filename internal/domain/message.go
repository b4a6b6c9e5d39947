package domain

import "time"

// Role identifies what a participant is allowed to be in a room.
type Role string

const (
	RoleHost   Role = "host"
	RoleViewer Role = "viewer"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleHost || r == RoleViewer
}

// Message is one chat entry in a room's log. IDs are assigned by the room
// at acceptance time and are strictly increasing within that room; CreatedAt
// is server time, never client time.
type Message struct {
	ID        int64     `json:"id"`
	Author    string    `json:"author"`
	Role      Role      `json:"role"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
