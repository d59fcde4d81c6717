package domain

import (
	"time"

	"github.com/google/uuid"
)

// Like is a (user, workspace) like row. At most one exists per pair.
type Like struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	WorkspaceID uuid.UUID `json:"workspaceId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SavedWorkspace is a (user, workspace) save row. At most one exists per pair.
type SavedWorkspace struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	WorkspaceID uuid.UUID `json:"workspaceId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DeviceLike is a (user, device) like row. At most one exists per pair.
type DeviceLike struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	DeviceID  uuid.UUID `json:"deviceId"`
	CreatedAt time.Time `json:"createdAt"`
}

// SavedDevice is a (user, device) save row. At most one exists per pair.
type SavedDevice struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	DeviceID  uuid.UUID `json:"deviceId"`
	CreatedAt time.Time `json:"createdAt"`
}

// InteractionRepository defines persistence for the four like/save join
// tables. Get methods return ErrNotFound when no row exists; Create methods
// return ErrAlreadyExists on a unique (user, target) violation.
type InteractionRepository interface {
	GetLike(userID, workspaceID uuid.UUID) (*Like, error)
	CreateLike(userID, workspaceID uuid.UUID) (*Like, error)
	DeleteLike(id uuid.UUID) error

	GetSavedWorkspace(userID, workspaceID uuid.UUID) (*SavedWorkspace, error)
	CreateSavedWorkspace(userID, workspaceID uuid.UUID) (*SavedWorkspace, error)
	DeleteSavedWorkspace(id uuid.UUID) error

	GetDeviceLike(userID, deviceID uuid.UUID) (*DeviceLike, error)
	CreateDeviceLike(userID, deviceID uuid.UUID) (*DeviceLike, error)
	DeleteDeviceLike(id uuid.UUID) error

	GetSavedDevice(userID, deviceID uuid.UUID) (*SavedDevice, error)
	CreateSavedDevice(userID, deviceID uuid.UUID) (*SavedDevice, error)
	DeleteSavedDevice(id uuid.UUID) error
}
