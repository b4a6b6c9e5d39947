package registry

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mercy-korir600/LiveDev/internal/domain"
	"github.com/mercy-korir600/LiveDev/internal/identity"
)

func newTestRegistry(t *testing.T, cfg Config) *Registry {
	t.Helper()
	return New(identity.Default(), cfg)
}

func TestCreateAndGetRoom(t *testing.T) {
	reg := newTestRegistry(t, Config{})

	room, err := reg.CreateRoom()
	if err != nil {
		t.Fatalf("CreateRoom() unexpected error: %v", err)
	}
	if len(room.Code()) != identity.DefaultCodeLength {
		t.Errorf("room code = %q, want length %d", room.Code(), identity.DefaultCodeLength)
	}

	tests := []struct {
		name   string
		lookup string
	}{
		{name: "exact code", lookup: room.Code()},
		{name: "lower case", lookup: strings.ToLower(room.Code())},
		{name: "surrounding whitespace", lookup: "  " + room.Code() + " "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reg.GetRoom(tt.lookup)
			if err != nil {
				t.Fatalf("GetRoom(%q) unexpected error: %v", tt.lookup, err)
			}
			if got != room {
				t.Errorf("GetRoom(%q) returned a different room", tt.lookup)
			}
		})
	}
}

func TestGetRoomNotFound(t *testing.T) {
	reg := newTestRegistry(t, Config{})

	_, err := reg.GetRoom("NOSUCH")
	if !errors.Is(err, domain.ErrRoomNotFound) {
		t.Errorf("GetRoom() error = %v, want ErrRoomNotFound", err)
	}
}

func TestRoomCodesUnique(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping 10k room allocation in short mode")
	}

	reg := newTestRegistry(t, Config{})
	seen := make(map[string]bool, 10000)

	for i := 0; i < 10000; i++ {
		room, err := reg.CreateRoom()
		if err != nil {
			t.Fatalf("CreateRoom() #%d unexpected error: %v", i, err)
		}
		if seen[room.Code()] {
			t.Fatalf("CreateRoom() #%d returned duplicate code %q", i, room.Code())
		}
		seen[room.Code()] = true
	}

	if got := reg.Len(); got != 10000 {
		t.Errorf("Len() = %d, want 10000", got)
	}
}

func TestRetire(t *testing.T) {
	reg := newTestRegistry(t, Config{})

	room, err := reg.CreateRoom()
	if err != nil {
		t.Fatalf("CreateRoom() unexpected error: %v", err)
	}
	code := room.Code()

	// Occupied rooms stay put.
	host := room.NewSession(domain.RoleHost, "Host")
	if err := room.AdmitHost(host); err != nil {
		t.Fatalf("AdmitHost() unexpected error: %v", err)
	}
	reg.Retire(code)
	if _, err := reg.GetRoom(code); err != nil {
		t.Fatalf("Retire() removed an occupied room: %v", err)
	}

	// Empty rooms go, and retire is idempotent.
	host.Leave()
	reg.Retire(code)
	reg.Retire(code)
	if _, err := reg.GetRoom(code); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Errorf("GetRoom() after retire error = %v, want ErrRoomNotFound", err)
	}
}

func TestRetireOnLastLeave(t *testing.T) {
	reg := newTestRegistry(t, Config{})

	room, err := reg.CreateRoom()
	if err != nil {
		t.Fatalf("CreateRoom() unexpected error: %v", err)
	}
	code := room.Code()

	host := room.NewSession(domain.RoleHost, "Host")
	if err := room.AdmitHost(host); err != nil {
		t.Fatalf("AdmitHost() unexpected error: %v", err)
	}
	viewer := room.NewSession(domain.RoleViewer, "Ada")
	if err := room.AdmitViewer(viewer); err != nil {
		t.Fatalf("AdmitViewer() unexpected error: %v", err)
	}

	viewer.Leave()
	if _, err := reg.GetRoom(code); err != nil {
		t.Fatalf("room retired while host still connected: %v", err)
	}

	host.Leave()
	if _, err := reg.GetRoom(code); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Errorf("GetRoom() after last leave error = %v, want ErrRoomNotFound", err)
	}
}

func TestSweepRetiresIdleRooms(t *testing.T) {
	reg := newTestRegistry(t, Config{IdleTimeout: 10 * time.Millisecond})

	idleRoom, err := reg.CreateRoom()
	if err != nil {
		t.Fatalf("CreateRoom() unexpected error: %v", err)
	}
	busyRoom, err := reg.CreateRoom()
	if err != nil {
		t.Fatalf("CreateRoom() unexpected error: %v", err)
	}
	host := busyRoom.NewSession(domain.RoleHost, "Host")
	if err := busyRoom.AdmitHost(host); err != nil {
		t.Fatalf("AdmitHost() unexpected error: %v", err)
	}

	time.Sleep(30 * time.Millisecond)
	reg.sweepOnce()

	if _, err := reg.GetRoom(idleRoom.Code()); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Errorf("idle room survived sweep: %v", err)
	}
	if _, err := reg.GetRoom(busyRoom.Code()); err != nil {
		t.Errorf("occupied room was swept: %v", err)
	}
}
