package handler

import (
	"errors"
	"net/http"

	"github.com/deskenvy/deskenvy-backend/internal/domain"
	"github.com/deskenvy/deskenvy-backend/internal/middleware"
	"github.com/deskenvy/deskenvy-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// InteractionHandler handles the four like/save toggle requests
type InteractionHandler struct {
	interactionService *service.InteractionService
}

// NewInteractionHandler creates a new InteractionHandler
func NewInteractionHandler(interactionService *service.InteractionService) *InteractionHandler {
	return &InteractionHandler{interactionService: interactionService}
}

// ToggleLike flips the caller's like on a workspace and returns the new state
func (h *InteractionHandler) ToggleLike(c echo.Context) error {
	return h.toggle(c, "workspace", func(userID, targetID uuid.UUID) (bool, error) {
		return h.interactionService.ToggleLike(userID, targetID)
	}, "liked")
}

// ToggleSave flips the caller's save on a workspace and returns the new state
func (h *InteractionHandler) ToggleSave(c echo.Context) error {
	return h.toggle(c, "workspace", func(userID, targetID uuid.UUID) (bool, error) {
		return h.interactionService.ToggleSave(userID, targetID)
	}, "saved")
}

// ToggleDeviceLike flips the caller's like on a device and returns the new state
func (h *InteractionHandler) ToggleDeviceLike(c echo.Context) error {
	return h.toggle(c, "device", func(userID, targetID uuid.UUID) (bool, error) {
		return h.interactionService.ToggleDeviceLike(userID, targetID)
	}, "liked")
}

// ToggleSaveDevice flips the caller's save on a device and returns the new state
func (h *InteractionHandler) ToggleSaveDevice(c echo.Context) error {
	return h.toggle(c, "device", func(userID, targetID uuid.UUID) (bool, error) {
		return h.interactionService.ToggleSaveDevice(userID, targetID)
	}, "saved")
}

func (h *InteractionHandler) toggle(c echo.Context, kind string, fn func(userID, targetID uuid.UUID) (bool, error), field string) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid "+kind+" ID", nil)
	}

	active, err := fn(user.ID, targetID)
	if err != nil {
		if errors.Is(err, domain.ErrWorkspaceNotFound) || errors.Is(err, domain.ErrDeviceNotFound) || errors.Is(err, domain.ErrNotFound) {
			return NewNotFoundError(c, "The "+kind+" does not exist")
		}
		log.Error().Err(err).Str("target_id", targetID.String()).Msg("Toggle failed")
		return NewInternalError(c, "Failed to update "+kind)
	}

	return c.JSON(http.StatusOK, map[string]bool{field: active})
}
