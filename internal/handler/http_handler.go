package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mercy-korir600/LiveDev/internal/domain"
	"github.com/mercy-korir600/LiveDev/internal/service"
	"github.com/mercy-korir600/LiveDev/pkg/log"
	"github.com/mercy-korir600/LiveDev/pkg/response"
)

// HTTPHandler serves the REST side of the relay: room creation and read-only
// room state. Live traffic goes over the WebSocket.
type HTTPHandler struct {
	service service.RelayService
}

// NewHTTPHandler creates the HTTP handler.
func NewHTTPHandler(svc service.RelayService) *HTTPHandler {
	return &HTTPHandler{service: svc}
}

// RegisterRoutes registers all routes.
func (h *HTTPHandler) RegisterRoutes(r *gin.Engine, ws *WSHandler) {
	api := r.Group("/api/v1")
	{
		rooms := api.Group("/rooms")
		{
			rooms.POST("", h.CreateRoom)
			rooms.GET("/:code", h.GetRoom)
			rooms.GET("/:code/presence", h.GetPresence)
			rooms.GET("/:code/messages", h.GetMessages)
		}
	}

	r.GET("/ws", ws.HandleWebSocket)
	r.GET("/health", h.HealthCheck)
}

// CreateRoom handles POST /api/v1/rooms.
func (h *HTTPHandler) CreateRoom(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	room, err := h.service.CreateRoom(ctx)
	if err != nil {
		l.Error().Err(err).Msg("failed to create room")
		response.InternalError(c, "failed to create room")
		return
	}

	response.Created(c, room)
}

// GetRoom handles GET /api/v1/rooms/:code.
func (h *HTTPHandler) GetRoom(c *gin.Context) {
	ctx := c.Request.Context()

	room, err := h.service.RoomInfo(ctx, c.Param("code"))
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			response.NotFound(c, "room not found")
			return
		}
		l := log.Ctx(ctx)
		l.Error().Err(err).Str(log.FieldRoomCode, c.Param("code")).Msg("failed to get room")
		response.InternalError(c, "failed to get room")
		return
	}

	response.Success(c, room)
}

// GetPresence handles GET /api/v1/rooms/:code/presence.
func (h *HTTPHandler) GetPresence(c *gin.Context) {
	ctx := c.Request.Context()

	viewers, err := h.service.Presence(ctx, c.Param("code"))
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			response.NotFound(c, "room not found")
			return
		}
		response.InternalError(c, "failed to get presence")
		return
	}

	response.Success(c, gin.H{"viewers": viewers})
}

// GetMessages handles GET /api/v1/rooms/:code/messages?limit=N.
func (h *HTTPHandler) GetMessages(c *gin.Context) {
	ctx := c.Request.Context()

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.BadRequest(c, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	messages, err := h.service.History(ctx, c.Param("code"), limit)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			response.NotFound(c, "room not found")
			return
		}
		response.InternalError(c, "failed to get messages")
		return
	}

	response.Success(c, gin.H{"messages": messages, "count": len(messages)})
}

// HealthCheck handles GET /health.
func (h *HTTPHandler) HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
