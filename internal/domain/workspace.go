package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrWorkspaceTitleEmpty      = errors.New("workspace title is required")
	ErrWorkspaceTitleLong       = errors.New("workspace title must be 255 characters or less")
	ErrWorkspaceImageRequired   = errors.New("workspace image is required")
	ErrWorkspaceInvalidCategory = errors.New("unknown workspace category")
)

// Categories a workspace can be published under. "All" is a browse filter,
// not a category.
var WorkspaceCategories = []string{
	"Gaming",
	"Software Development",
	"Streaming",
	"Minimalist",
	"Productivity",
	"Creative",
}

// Workspace represents a published desk setup owned by one user
type Workspace struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	ImageURL    string    `json:"imageUrl"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// WorkspaceSummary is the card-level read model for browse and profile pages
type WorkspaceSummary struct {
	Workspace
	Username    string `json:"username"`
	DeviceCount int    `json:"deviceCount"`
	LikeCount   int    `json:"likeCount"`
	SaveCount   int    `json:"saveCount"`
	Liked       bool   `json:"liked"`
	Saved       bool   `json:"saved"`
}

func (w *Workspace) Validate() error {
	title := strings.TrimSpace(w.Title)
	if title == "" {
		return ErrWorkspaceTitleEmpty
	}
	if len(title) > MaxTitleLength {
		return ErrWorkspaceTitleLong
	}
	if !IsValidCategory(w.Category) {
		return ErrWorkspaceInvalidCategory
	}
	return nil
}

// IsValidCategory reports whether category is one of the published set
func IsValidCategory(category string) bool {
	for _, c := range WorkspaceCategories {
		if c == category {
			return true
		}
	}
	return false
}

// WorkspaceRepository defines the interface for workspace persistence operations
type WorkspaceRepository interface {
	GetByID(id uuid.UUID) (*Workspace, error)
	ListSummaries(viewerID *uuid.UUID, category *string) ([]*WorkspaceSummary, error)
	ListByUser(userID uuid.UUID) ([]*Workspace, error)
	ListSavedByUser(userID uuid.UUID) ([]*Workspace, error)
	CreateWithDevices(workspace *Workspace, devices []*Device) (*Workspace, error)
	UpdateWithDevices(workspace *Workspace, devices []*Device) (*Workspace, error)
	Delete(id uuid.UUID) error
}
