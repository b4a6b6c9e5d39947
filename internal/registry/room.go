package registry

import (
	"strings"
	"sync"
	"time"

	"github.com/mercy-korir600/LiveDev/internal/domain"
	"github.com/mercy-korir600/LiveDev/pkg/log"
)

// Room holds one host slot, a set of viewer sessions, and an append-only
// message log. Every mutation is serialized by the room's mutex, which is what
// makes sequence assignment and fan-out ordering consistent: all connected
// sessions observe the log in the same total order.
type Room struct {
	code      string
	createdAt time.Time
	queueSize int
	retire    func(code string) // never called while holding mu

	mu         sync.Mutex
	retired    bool
	host       *Session
	viewers    map[string]*Session
	messages   []domain.Message
	nextID     int64
	emptySince time.Time
}

func newRoom(code string, queueSize int, retire func(code string)) *Room {
	now := time.Now()
	return &Room{
		code:      code,
		createdAt: now,
		queueSize: queueSize,
		retire:    retire,
		viewers:   make(map[string]*Session),
		// A freshly created room has no participants yet; the idle clock
		// starts immediately so abandoned rooms get swept.
		emptySince: now,
	}
}

// Code returns the room's immutable code.
func (r *Room) Code() string { return r.code }

// CreatedAt returns the room's creation time.
func (r *Room) CreatedAt() time.Time { return r.createdAt }

// NewSession creates a session bound to this room in the Connecting state.
// It holds no slot until admitted.
func (r *Room) NewSession(role domain.Role, name string) *Session {
	return newSession(r, role, name, r.queueSize)
}

// AdmitHost binds the session as the room's host. Exactly one live host is
// allowed; a second admission fails with ErrAlreadyHosted and the rejected
// session goes straight to Disconnected.
func (r *Room) AdmitHost(s *Session) error {
	r.mu.Lock()
	if r.retired {
		r.mu.Unlock()
		s.markDisconnected()
		return domain.ErrRoomNotFound
	}
	if r.host != nil {
		r.mu.Unlock()
		s.markDisconnected()
		return domain.ErrAlreadyHosted
	}
	r.host = s
	r.emptySince = time.Time{}
	s.markConnected()
	r.broadcastPresenceLocked()
	r.mu.Unlock()

	l := log.L()
	l.Info().Str(log.FieldRoomCode, r.code).Str(log.FieldSessionID, s.id).Msg("host admitted")
	return nil
}

// AdmitViewer binds the session as a viewer. Always succeeds while the room
// is active.
func (r *Room) AdmitViewer(s *Session) error {
	r.mu.Lock()
	if r.retired {
		r.mu.Unlock()
		s.markDisconnected()
		return domain.ErrRoomNotFound
	}
	r.viewers[s.id] = s
	r.emptySince = time.Time{}
	s.markConnected()
	r.broadcastPresenceLocked()
	r.mu.Unlock()

	l := log.L()
	l.Debug().Str(log.FieldRoomCode, r.code).Str(log.FieldSessionID, s.id).Msg("viewer admitted")
	return nil
}

// Post validates and appends a message, then fans it out synchronously to
// every connected session in the room, sender included. The sequence number
// and timestamp are assigned here, under the lock, never by the client.
func (r *Room) Post(s *Session, body string) (domain.Message, error) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return domain.Message{}, domain.ErrEmptyMessage
	}

	r.mu.Lock()
	if !r.isMemberLocked(s) {
		r.mu.Unlock()
		return domain.Message{}, domain.ErrNotConnected
	}

	r.nextID++
	msg := domain.Message{
		ID:        r.nextID,
		Author:    s.Name(),
		Role:      s.role,
		Body:      trimmed,
		CreatedAt: time.Now().UTC(),
	}
	r.messages = append(r.messages, msg)
	s.lockName()

	overflowed := r.fanoutLocked(Event{Type: EventMessage, Message: msg})
	for _, slow := range overflowed {
		r.dropSlowLocked(slow)
	}
	becameEmpty := r.emptyLocked()
	r.mu.Unlock()

	if becameEmpty {
		r.retire(r.code)
	}
	return msg, nil
}

// Remove transitions the session to Disconnected, frees its slot, recomputes
// presence, and retires the room if nobody is left. Idempotent.
func (r *Room) Remove(s *Session) {
	r.mu.Lock()
	if !r.isMemberLocked(s) {
		// Already removed, or was never admitted. Still make sure the
		// feed is closed for sessions rejected mid-join.
		r.mu.Unlock()
		s.markDisconnected()
		return
	}
	r.removeLocked(s)
	r.broadcastPresenceLocked()
	becameEmpty := r.emptyLocked()
	r.mu.Unlock()

	l := log.L()
	l.Debug().Str(log.FieldRoomCode, r.code).Str(log.FieldSessionID, s.id).Str(log.FieldRole, string(s.role)).Msg("session removed")

	if becameEmpty {
		r.retire(r.code)
	}
}

// Presence returns the number of connected viewer sessions. The host is not
// counted; the product reports "N viewers" distinct from the host.
func (r *Room) Presence() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.viewers)
}

// Live reports whether a host is currently connected.
func (r *Room) Live() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.host != nil
}

// Messages returns a copy of the most recent messages, oldest first. A
// limit <= 0 returns the whole log.
func (r *Room) Messages(limit int) []domain.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.messages)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.Message, n)
	copy(out, r.messages[len(r.messages)-n:])
	return out
}

// ConnectedCount returns the number of connected sessions, host included.
func (r *Room) ConnectedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.viewers)
	if r.host != nil {
		n++
	}
	return n
}

// IdleFor reports whether the room has had zero connected sessions for at
// least d.
func (r *Room) IdleFor(d time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.host != nil || len(r.viewers) > 0 {
		return false
	}
	return !r.emptySince.IsZero() && time.Since(r.emptySince) >= d
}

// markRetiredIfEmpty flips the room to retired when no session is connected.
// Once retired, admissions fail with ErrRoomNotFound. Returns true when the
// room is (now or already) retired.
func (r *Room) markRetiredIfEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.retired {
		return true
	}
	if r.host != nil || len(r.viewers) > 0 {
		return false
	}
	r.retired = true
	return true
}

func (r *Room) isMemberLocked(s *Session) bool {
	if r.host == s {
		return true
	}
	_, ok := r.viewers[s.id]
	return ok
}

// removeLocked frees the slot before closing the feed so no fan-out can race
// with the close.
func (r *Room) removeLocked(s *Session) {
	if r.host == s {
		r.host = nil
	}
	delete(r.viewers, s.id)
	s.markDisconnected()
	if r.host == nil && len(r.viewers) == 0 {
		r.emptySince = time.Now()
	}
}

func (r *Room) emptyLocked() bool {
	return r.host == nil && len(r.viewers) == 0
}

// fanoutLocked pushes ev to every connected session and returns the ones
// whose queues are full. The push never blocks, so a slow consumer can not
// stall the room.
func (r *Room) fanoutLocked(ev Event) []*Session {
	var overflowed []*Session
	if r.host != nil && !r.host.push(ev) {
		overflowed = append(overflowed, r.host)
	}
	for _, v := range r.viewers {
		if !v.push(ev) {
			overflowed = append(overflowed, v)
		}
	}
	return overflowed
}

// broadcastPresenceLocked fans the current viewer count out to everyone.
// Sessions that overflow on a presence event are dropped too; membership
// shrinks on every pass, so this terminates.
func (r *Room) broadcastPresenceLocked() {
	for {
		ev := Event{Type: EventPresence, Viewers: len(r.viewers)}
		overflowed := r.fanoutLocked(ev)
		if len(overflowed) == 0 {
			return
		}
		for _, slow := range overflowed {
			r.removeLocked(slow)
			l := log.L()
			l.Warn().Str(log.FieldRoomCode, r.code).Str(log.FieldSessionID, slow.id).Msg("session dropped: event queue overflow")
		}
	}
}

// dropSlowLocked force-disconnects a session whose queue overflowed during a
// message fan-out, then tells the rest the presence changed.
func (r *Room) dropSlowLocked(s *Session) {
	if !r.isMemberLocked(s) {
		return
	}
	r.removeLocked(s)
	l := log.L()
	l.Warn().Str(log.FieldRoomCode, r.code).Str(log.FieldSessionID, s.id).Msg("session dropped: event queue overflow")
	r.broadcastPresenceLocked()
}
