package service

import (
	"errors"

	"github.com/deskenvy/deskenvy-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Activity kinds published on toggles
const (
	ActivityWorkspaceLike = "workspace.like"
	ActivityWorkspaceSave = "workspace.save"
	ActivityDeviceLike    = "device.like"
	ActivityDeviceSave    = "device.save"
)

// ActivityPublisher broadcasts a toggle to viewers of the affected
// workspace. A nil publisher disables broadcasting.
type ActivityPublisher interface {
	PublishActivity(kind string, workspaceID, targetID, actorID uuid.UUID, active bool)
}

// InteractionService implements the four like/save toggles. Each toggle is a
// single check-then-act against one join table: an existing row is deleted
// and reported "off", a missing row is created and reported "on". The unique
// (user, target) index backstops concurrent toggles; the race loser's
// conflict is folded into the winner's state.
type InteractionService struct {
	interactionRepo domain.InteractionRepository
	workspaceRepo   domain.WorkspaceRepository
	deviceRepo      domain.DeviceRepository
	publisher       ActivityPublisher
}

// NewInteractionService creates a new InteractionService
func NewInteractionService(interactionRepo domain.InteractionRepository, workspaceRepo domain.WorkspaceRepository, deviceRepo domain.DeviceRepository, publisher ActivityPublisher) *InteractionService {
	return &InteractionService{
		interactionRepo: interactionRepo,
		workspaceRepo:   workspaceRepo,
		deviceRepo:      deviceRepo,
		publisher:       publisher,
	}
}

// ToggleLike flips the like state for (user, workspace) and returns the new
// state
func (s *InteractionService) ToggleLike(userID, workspaceID uuid.UUID) (bool, error) {
	if _, err := s.workspaceRepo.GetByID(workspaceID); err != nil {
		return false, err
	}

	existing, err := s.interactionRepo.GetLike(userID, workspaceID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}

	var liked bool
	if existing != nil {
		if err := s.interactionRepo.DeleteLike(existing.ID); err != nil {
			return false, err
		}
		liked = false
	} else {
		if _, err := s.interactionRepo.CreateLike(userID, workspaceID); err != nil {
			if !errors.Is(err, domain.ErrAlreadyExists) {
				return false, err
			}
			// Lost a concurrent toggle race; the row exists
		}
		liked = true
	}

	s.publish(ActivityWorkspaceLike, workspaceID, workspaceID, userID, liked)
	return liked, nil
}

// ToggleSave flips the save state for (user, workspace) and returns the new
// state
func (s *InteractionService) ToggleSave(userID, workspaceID uuid.UUID) (bool, error) {
	if _, err := s.workspaceRepo.GetByID(workspaceID); err != nil {
		return false, err
	}

	existing, err := s.interactionRepo.GetSavedWorkspace(userID, workspaceID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}

	var saved bool
	if existing != nil {
		if err := s.interactionRepo.DeleteSavedWorkspace(existing.ID); err != nil {
			return false, err
		}
		saved = false
	} else {
		if _, err := s.interactionRepo.CreateSavedWorkspace(userID, workspaceID); err != nil {
			if !errors.Is(err, domain.ErrAlreadyExists) {
				return false, err
			}
		}
		saved = true
	}

	s.publish(ActivityWorkspaceSave, workspaceID, workspaceID, userID, saved)
	return saved, nil
}

// ToggleDeviceLike flips the like state for (user, device) and returns the
// new state
func (s *InteractionService) ToggleDeviceLike(userID, deviceID uuid.UUID) (bool, error) {
	device, err := s.deviceRepo.GetByID(deviceID)
	if err != nil {
		return false, err
	}

	existing, err := s.interactionRepo.GetDeviceLike(userID, deviceID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}

	var liked bool
	if existing != nil {
		if err := s.interactionRepo.DeleteDeviceLike(existing.ID); err != nil {
			return false, err
		}
		liked = false
	} else {
		if _, err := s.interactionRepo.CreateDeviceLike(userID, deviceID); err != nil {
			if !errors.Is(err, domain.ErrAlreadyExists) {
				return false, err
			}
		}
		liked = true
	}

	s.publish(ActivityDeviceLike, device.WorkspaceID, deviceID, userID, liked)
	return liked, nil
}

// ToggleSaveDevice flips the save state for (user, device) and returns the
// new state
func (s *InteractionService) ToggleSaveDevice(userID, deviceID uuid.UUID) (bool, error) {
	device, err := s.deviceRepo.GetByID(deviceID)
	if err != nil {
		return false, err
	}

	existing, err := s.interactionRepo.GetSavedDevice(userID, deviceID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}

	var saved bool
	if existing != nil {
		if err := s.interactionRepo.DeleteSavedDevice(existing.ID); err != nil {
			return false, err
		}
		saved = false
	} else {
		if _, err := s.interactionRepo.CreateSavedDevice(userID, deviceID); err != nil {
			if !errors.Is(err, domain.ErrAlreadyExists) {
				return false, err
			}
		}
		saved = true
	}

	s.publish(ActivityDeviceSave, device.WorkspaceID, deviceID, userID, saved)
	return saved, nil
}

func (s *InteractionService) publish(kind string, workspaceID, targetID, actorID uuid.UUID, active bool) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishActivity(kind, workspaceID, targetID, actorID, active)
	log.Debug().Str("kind", kind).Str("workspace_id", workspaceID.String()).Bool("active", active).Msg("Activity published")
}
