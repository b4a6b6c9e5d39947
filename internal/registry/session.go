package registry

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mercy-korir600/LiveDev/internal/domain"
)

// SessionState is the lifecycle of one connection to a room. Disconnected is
// terminal; rejoining means a new Session with a new ID.
type SessionState int32

const (
	StateConnecting SessionState = iota
	StateConnected
	StateDisconnected
)

func (s SessionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// EventType discriminates what a feed event carries.
type EventType int

const (
	EventMessage EventType = iota
	EventPresence
)

// Event is one item on a session's inbound feed: either a chat message or a
// presence update. Events arrive in the room's global order.
type Event struct {
	Type    EventType
	Message domain.Message
	Viewers int
}

// Session binds one participant to one room for the participant's lifetime.
// All state mutation happens under the owning room's lock; the session's own
// mutex only guards reads from other goroutines.
type Session struct {
	id   string
	room *Room
	role domain.Role

	mu       sync.RWMutex
	name     string
	named    bool // set once the first message is accepted
	state    SessionState
	joinedAt time.Time

	events chan Event
}

func newSession(room *Room, role domain.Role, name string, queueSize int) *Session {
	return &Session{
		id:       uuid.New().String(),
		room:     room,
		role:     role,
		name:     name,
		state:    StateConnecting,
		joinedAt: time.Now(),
		events:   make(chan Event, queueSize),
	}
}

// ID returns the unique connection ID.
func (s *Session) ID() string { return s.id }

// RoomCode returns the code of the room this session is bound to.
func (s *Session) RoomCode() string { return s.room.Code() }

// Role returns the role fixed at admission.
func (s *Session) Role() domain.Role { return s.role }

// Name returns the current display name.
func (s *Session) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Events returns the session's inbound feed. It is closed when the session
// disconnects; a closed channel is the clean end-of-stream signal, never an
// error.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Rename changes the display name. Allowed only before the first accepted
// message; afterwards the name is stable so the feed stays consistent.
func (s *Session) Rename(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateDisconnected {
		return domain.ErrNotConnected
	}
	if s.named {
		return domain.ErrNameLocked
	}
	s.name = name
	return nil
}

// Send posts a message body to the session's room. The room assigns the
// sequence number and timestamp and fans the message out to every connected
// session, the sender included.
func (s *Session) Send(body string) (domain.Message, error) {
	return s.room.Post(s, body)
}

// Leave disconnects the session. Idempotent.
func (s *Session) Leave() {
	s.room.Remove(s)
}

// markConnected is called by the room under its lock.
func (s *Session) markConnected() {
	s.mu.Lock()
	s.state = StateConnected
	s.mu.Unlock()
}

// markDisconnected transitions to the terminal state and closes the feed.
// Called by the room under its lock; safe to call more than once.
func (s *Session) markDisconnected() {
	s.mu.Lock()
	already := s.state == StateDisconnected
	s.state = StateDisconnected
	s.mu.Unlock()
	if !already {
		close(s.events)
	}
}

// lockName freezes the display name after the first accepted message.
func (s *Session) lockName() {
	s.mu.Lock()
	s.named = true
	s.mu.Unlock()
}

// push enqueues an event without blocking. A false return means the session's
// queue is full and the caller should force-disconnect it rather than stall
// the room.
func (s *Session) push(ev Event) bool {
	select {
	case s.events <- ev:
		return true
	default:
		return false
	}
}
