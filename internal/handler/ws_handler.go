package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mercy-korir600/LiveDev/internal/config"
	"github.com/mercy-korir600/LiveDev/internal/domain"
	"github.com/mercy-korir600/LiveDev/internal/hub"
	"github.com/mercy-korir600/LiveDev/internal/registry"
	"github.com/mercy-korir600/LiveDev/internal/service"
	"github.com/mercy-korir600/LiveDev/pkg/log"
)

// WSHandler owns the socket-per-session transport. Each connection must send
// a join frame first; after that it exchanges chat/presence frames until it
// leaves or drops.
type WSHandler struct {
	service     service.RelayService
	wsCfg       config.WebSocketConfig
	joinTimeout time.Duration
	upgrader    websocket.Upgrader
}

// wsConn pairs a client with its join handshake state. joined is read by the
// join-timeout timer goroutine.
type wsConn struct {
	*hub.Client
	joined atomic.Bool
}

// NewWSHandler creates the WebSocket handler.
func NewWSHandler(svc service.RelayService, wsCfg config.WebSocketConfig, joinTimeout time.Duration) *WSHandler {
	return &WSHandler{
		service:     svc,
		wsCfg:       wsCfg,
		joinTimeout: joinTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleWebSocket upgrades the request and runs the connection's pumps.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		l := log.Ctx(c.Request.Context())
		l.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	wc := &wsConn{Client: hub.NewClient(uuid.New().String(), conn, h.wsCfg)}

	// A connection stuck in the pre-join state past the deadline is failed
	// with JOIN_TIMEOUT and closed.
	timer := time.AfterFunc(h.joinTimeout, func() {
		if !wc.joined.Load() {
			wc.SendMessage(domain.NewErrorMessage(domain.ErrCodeJoinTimeout, "timed out waiting for join"))
			wc.Close()
		}
	})

	go wc.WritePump()
	go wc.ReadPump(
		func(_ *hub.Client, message []byte) { h.handleMessage(wc, message) },
		func(_ *hub.Client) {
			timer.Stop()
			if wc.Session != nil {
				h.service.Leave(context.Background(), wc.Session)
			}
		},
	)
}

func (h *WSHandler) handleMessage(wc *wsConn, message []byte) {
	var base domain.BaseMessage
	if err := json.Unmarshal(message, &base); err != nil {
		wc.SendMessage(domain.NewErrorMessage(domain.ErrCodeBadRequest, "invalid message format"))
		return
	}

	ctx := context.Background()

	switch base.Type {
	case domain.MsgTypeJoin:
		if wc.Session != nil {
			wc.SendMessage(domain.NewErrorMessage(domain.ErrCodeBadRequest, "already joined"))
			return
		}
		var msg domain.JoinMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			wc.SendMessage(domain.NewErrorMessage(domain.ErrCodeBadRequest, "invalid join message"))
			return
		}
		h.handleJoin(ctx, wc, msg)

	case domain.MsgTypeChat:
		if wc.Session == nil {
			wc.SendMessage(domain.NewErrorMessage(domain.ErrCodeNotConnected, "join a room first"))
			return
		}
		var msg domain.ChatMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			wc.SendMessage(domain.NewErrorMessage(domain.ErrCodeBadRequest, "invalid chat message"))
			return
		}
		if _, err := h.service.Post(ctx, wc.Session, msg.Content); err != nil {
			wc.SendMessage(wsError(err))
		}
		// The accepted message arrives on the feed like everyone else's.

	case domain.MsgTypeLeave:
		if wc.Session != nil {
			h.service.Leave(ctx, wc.Session)
		}

	case domain.MsgTypePing:
		wc.SendMessage(domain.BaseMessage{Type: domain.MsgTypePong})

	default:
		wc.SendMessage(domain.NewErrorMessage(domain.ErrCodeBadRequest, "unknown message type"))
	}
}

func (h *WSHandler) handleJoin(ctx context.Context, wc *wsConn, msg domain.JoinMessage) {
	sess, err := h.service.Join(ctx, msg.Room, msg.Name, msg.Role)
	if err != nil {
		// The connection stays open in its pre-join state so the user
		// can correct the code and retry.
		wc.SendMessage(wsError(err))
		return
	}

	wc.Session = sess
	wc.joined.Store(true)

	viewers, _ := h.service.Presence(ctx, sess.RoomCode())
	wc.SendMessage(&domain.JoinedMessage{
		Type:    domain.MsgTypeJoined,
		Room:    sess.RoomCode(),
		Name:    sess.Name(),
		Role:    sess.Role(),
		Viewers: viewers,
	})

	go h.forward(wc, sess)
}

// forward drains the session's event feed into the socket. The feed closing
// is the clean end-of-stream: the client gets a close frame, not an error.
func (h *WSHandler) forward(wc *wsConn, sess *registry.Session) {
	for ev := range sess.Events() {
		switch ev.Type {
		case registry.EventMessage:
			wc.SendMessage(domain.NewMessageOut(ev.Message))
		case registry.EventPresence:
			wc.SendMessage(&domain.PresenceMessage{
				Type:    domain.MsgTypePresence,
				Viewers: ev.Viewers,
			})
		}
	}
	wc.Close()
}

func wsError(err error) *domain.ErrorMessage {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		return domain.NewErrorMessage(domain.ErrCodeRoomNotFound, "invalid room code")
	case errors.Is(err, domain.ErrAlreadyHosted):
		return domain.NewErrorMessage(domain.ErrCodeAlreadyHosted, "room already has a live host")
	case errors.Is(err, domain.ErrEmptyMessage):
		return domain.NewErrorMessage(domain.ErrCodeEmptyMessage, "message is empty")
	case errors.Is(err, domain.ErrNotConnected):
		return domain.NewErrorMessage(domain.ErrCodeNotConnected, "session is not connected")
	case errors.Is(err, domain.ErrJoinTimeout):
		return domain.NewErrorMessage(domain.ErrCodeJoinTimeout, "timed out waiting for join")
	default:
		return domain.NewErrorMessage(domain.ErrCodeInternalError, "internal error")
	}
}
