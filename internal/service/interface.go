package service

import (
	"context"

	"github.com/mercy-korir600/LiveDev/internal/domain"
	"github.com/mercy-korir600/LiveDev/internal/registry"
)

// RelayService is what the presentation layer consumes: room creation and
// lookup, join/post/leave on behalf of a session, and read-only room state.
type RelayService interface {
	CreateRoom(ctx context.Context) (*domain.RoomInfo, error)
	RoomInfo(ctx context.Context, code string) (*domain.RoomInfo, error)
	Presence(ctx context.Context, code string) (int, error)
	History(ctx context.Context, code string, limit int) ([]domain.Message, error)

	Join(ctx context.Context, code, name string, role domain.Role) (*registry.Session, error)
	Post(ctx context.Context, s *registry.Session, content string) (domain.Message, error)
	Leave(ctx context.Context, s *registry.Session) error
}
