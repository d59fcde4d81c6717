package handler

import (
	"net/http"

	"github.com/deskenvy/deskenvy-backend/internal/middleware"
	"github.com/deskenvy/deskenvy-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ProfileHandler serves the signed-in user's own page
type ProfileHandler struct {
	feedService *service.FeedService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(feedService *service.FeedService) *ProfileHandler {
	return &ProfileHandler{feedService: feedService}
}

// GetProfile returns the caller's published workspaces plus saved workspaces
// and devices
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	profile, err := h.feedService.GetProfile(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to load profile")
		return NewInternalError(c, "Failed to load profile")
	}

	return c.JSON(http.StatusOK, profile)
}
