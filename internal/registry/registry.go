package registry

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mercy-korir600/LiveDev/internal/audit"
	"github.com/mercy-korir600/LiveDev/internal/domain"
	"github.com/mercy-korir600/LiveDev/internal/identity"
	"github.com/mercy-korir600/LiveDev/pkg/log"
)

// createAttempts bounds code-collision retries. With a 36-char alphabet and
// 6-char codes the space is ~2.2 billion; hitting this limit means something
// is very wrong.
const createAttempts = 100

// Config tunes the registry's rooms.
type Config struct {
	// QueueSize is the per-session outgoing event queue. A session that
	// falls this far behind is forcibly disconnected.
	QueueSize int
	// IdleTimeout retires rooms that have had zero connected sessions for
	// this long.
	IdleTimeout time.Duration
}

// Registry is the process-wide table of active rooms keyed by room code.
// It owns the sole authoritative code-to-room mapping; all lookups go
// through it. Codes are case-insensitive and unique among active rooms.
type Registry struct {
	ids *identity.Generator
	cfg Config

	mu    sync.RWMutex
	rooms map[string]*Room
}

// New creates an empty registry.
func New(ids *identity.Generator, cfg Config) *Registry {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 5 * time.Minute
	}
	return &Registry{
		ids:   ids,
		cfg:   cfg,
		rooms: make(map[string]*Room),
	}
}

// CreateRoom generates a fresh unique code, registers an empty room with no
// host, and returns it. Collision check and insert are one atomic step so two
// hosts can never race to the same code. Never blocks on anything but the map
// lock.
func (reg *Registry) CreateRoom() (*Room, error) {
	for i := 0; i < createAttempts; i++ {
		code, err := reg.ids.RoomCode()
		if err != nil {
			return nil, err
		}
		code = normalizeCode(code)

		reg.mu.Lock()
		if _, taken := reg.rooms[code]; taken {
			reg.mu.Unlock()
			continue
		}
		room := newRoom(code, reg.cfg.QueueSize, reg.Retire)
		reg.rooms[code] = room
		reg.mu.Unlock()

		l := log.L()
		l.Info().Str(log.FieldRoomCode, code).Msg("room created")
		return room, nil
	}
	return nil, fmt.Errorf("failed to allocate a unique room code after %d attempts", createAttempts)
}

// GetRoom looks up an active room by code, case-insensitively.
func (reg *Registry) GetRoom(code string) (*Room, error) {
	code = normalizeCode(code)

	reg.mu.RLock()
	room, ok := reg.rooms[code]
	reg.mu.RUnlock()
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return room, nil
}

// Retire removes a room once it has no connected sessions. Idempotent; a
// retire of an unknown or still-occupied room is a no-op.
func (reg *Registry) Retire(code string) {
	code = normalizeCode(code)

	reg.mu.Lock()
	room, ok := reg.rooms[code]
	if ok && room.markRetiredIfEmpty() {
		delete(reg.rooms, code)
	} else {
		ok = false
	}
	reg.mu.Unlock()

	if ok {
		audit.Log(context.Background(), audit.ActionRetireRoom, code, "room retired")
	}
}

// Len returns the number of active rooms.
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

// Sweep retires rooms that stayed empty past the idle timeout. It blocks
// until ctx is cancelled; run it in its own goroutine.
func (reg *Registry) Sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reg.sweepOnce()
		}
	}
}

func (reg *Registry) sweepOnce() {
	reg.mu.RLock()
	idle := make([]string, 0)
	for code, room := range reg.rooms {
		if room.IdleFor(reg.cfg.IdleTimeout) {
			idle = append(idle, code)
		}
	}
	reg.mu.RUnlock()

	for _, code := range idle {
		l := log.L()
		l.Info().Str(log.FieldRoomCode, code).Msg("retiring idle room")
		reg.Retire(code)
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
