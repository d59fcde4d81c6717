package handler

import (
	"errors"
	"net/http"

	"github.com/deskenvy/deskenvy-backend/internal/domain"
	"github.com/deskenvy/deskenvy-backend/internal/realtime"
	"github.com/deskenvy/deskenvy-backend/internal/service"
	"github.com/deskenvy/deskenvy-backend/internal/session"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// SessionValidator verifies a session token for WebSocket subscriptions
type SessionValidator interface {
	Verify(token string) (*session.SessionUser, error)
}

// ActivityHandler upgrades workspace pages to a live activity stream
type ActivityHandler struct {
	hub              *realtime.Hub
	workspaceService *service.WorkspaceService
	validator        SessionValidator
	upgrader         websocket.Upgrader
}

// NewActivityHandler creates a new ActivityHandler. allowedOrigins is the set
// of origins permitted to open a subscription; an empty set allows only
// same-origin requests.
func NewActivityHandler(hub *realtime.Hub, workspaceService *service.WorkspaceService, validator SessionValidator, allowedOrigins []string) *ActivityHandler {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}

	return &ActivityHandler{
		hub:              hub,
		workspaceService: workspaceService,
		validator:        validator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				return origins[origin]
			},
		},
	}
}

// Subscribe upgrades the connection and streams activity for one workspace.
// The session travels as the cookie or, for clients that cannot send one, a
// token query parameter.
func (h *ActivityHandler) Subscribe(c echo.Context) error {
	token := h.sessionToken(c)
	if token == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}
	if _, err := h.validator.Verify(token); err != nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	workspaceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid workspace ID", nil)
	}

	if _, err := h.workspaceService.GetByID(workspaceID); err != nil {
		if errors.Is(err, domain.ErrWorkspaceNotFound) {
			return NewNotFoundError(c, "Workspace not found")
		}
		log.Error().Err(err).Str("workspace_id", workspaceID.String()).Msg("Failed to load workspace")
		return NewInternalError(c, "Failed to load workspace")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote its own error response
		log.Debug().Err(err).Msg("WebSocket upgrade failed")
		return nil
	}

	client := realtime.NewClient(workspaceID, conn, h.hub)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	return nil
}

func (h *ActivityHandler) sessionToken(c echo.Context) string {
	if cookie, err := c.Cookie(session.CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return c.QueryParam("token")
}
