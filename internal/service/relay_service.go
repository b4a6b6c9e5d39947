package service

import (
	"context"
	"strings"

	"github.com/mercy-korir600/LiveDev/internal/audit"
	"github.com/mercy-korir600/LiveDev/internal/domain"
	"github.com/mercy-korir600/LiveDev/internal/identity"
	"github.com/mercy-korir600/LiveDev/internal/registry"
	"github.com/mercy-korir600/LiveDev/pkg/log"
)

// defaultHistoryLimit caps how many log entries a single history call returns
// when the caller does not say.
const defaultHistoryLimit = 50

type relayService struct {
	reg *registry.Registry
	ids *identity.Generator
}

// NewRelayService creates the relay service.
func NewRelayService(reg *registry.Registry, ids *identity.Generator) RelayService {
	return &relayService{
		reg: reg,
		ids: ids,
	}
}

// CreateRoom registers a fresh empty room. The host connects separately over
// the session transport; the room stays hostless until then.
func (s *relayService) CreateRoom(ctx context.Context) (*domain.RoomInfo, error) {
	room, err := s.reg.CreateRoom()
	if err != nil {
		return nil, err
	}
	audit.Log(ctx, audit.ActionCreateRoom, room.Code(), "room created")
	return roomInfo(room), nil
}

func (s *relayService) RoomInfo(ctx context.Context, code string) (*domain.RoomInfo, error) {
	room, err := s.reg.GetRoom(code)
	if err != nil {
		return nil, err
	}
	return roomInfo(room), nil
}

func (s *relayService) Presence(ctx context.Context, code string) (int, error) {
	room, err := s.reg.GetRoom(code)
	if err != nil {
		return 0, err
	}
	return room.Presence(), nil
}

func (s *relayService) History(ctx context.Context, code string, limit int) ([]domain.Message, error) {
	room, err := s.reg.GetRoom(code)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > defaultHistoryLimit {
		limit = defaultHistoryLimit
	}
	return room.Messages(limit), nil
}

// Join admits a new session into the room named by code. A blank viewer name
// gets a generated default; hosts must bring their own. A cancelled or
// expired context fails with ErrJoinTimeout before any slot is taken.
func (s *relayService) Join(ctx context.Context, code, name string, role domain.Role) (*registry.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.ErrJoinTimeout
	}
	if !role.Valid() {
		role = domain.RoleViewer
	}

	room, err := s.reg.GetRoom(code)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		if role == domain.RoleHost {
			name = "Host"
		} else {
			name = s.ids.DisplayName()
		}
	}

	sess := room.NewSession(role, name)
	if role == domain.RoleHost {
		err = room.AdmitHost(sess)
	} else {
		err = room.AdmitViewer(sess)
	}
	if err != nil {
		return nil, err
	}

	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldRoomCode, room.Code()).
		Str(log.FieldSessionID, sess.ID()).
		Str(log.FieldRole, string(role)).
		Str(log.FieldAuthor, name).
		Msg("session joined")
	return sess, nil
}

func (s *relayService) Post(ctx context.Context, sess *registry.Session, content string) (domain.Message, error) {
	// The UI trims client-side; re-validate here regardless.
	return sess.Send(content)
}

func (s *relayService) Leave(ctx context.Context, sess *registry.Session) error {
	sess.Leave()
	return nil
}

func roomInfo(room *registry.Room) *domain.RoomInfo {
	return &domain.RoomInfo{
		Code:      room.Code(),
		Live:      room.Live(),
		Viewers:   room.Presence(),
		CreatedAt: room.CreatedAt(),
	}
}
