package service

import (
	"context"
	"errors"
	"time"

	"github.com/deskenvy/deskenvy-backend/internal/cache"
	"github.com/deskenvy/deskenvy-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	feedCachePrefix = "feed:"
	feedCacheTTL    = 30 * time.Second
)

// FeedService assembles the browse, detail, and profile read models. The
// anonymous browse feed is served through the redis cache when one is
// configured; viewer-specific reads always go to the store.
type FeedService struct {
	workspaceRepo   domain.WorkspaceRepository
	deviceRepo      domain.DeviceRepository
	userRepo        domain.UserRepository
	interactionRepo domain.InteractionRepository
	cache           *cache.Cache
}

// NewFeedService creates a new FeedService. cache may be nil.
func NewFeedService(workspaceRepo domain.WorkspaceRepository, deviceRepo domain.DeviceRepository, userRepo domain.UserRepository, interactionRepo domain.InteractionRepository, c *cache.Cache) *FeedService {
	return &FeedService{
		workspaceRepo:   workspaceRepo,
		deviceRepo:      deviceRepo,
		userRepo:        userRepo,
		interactionRepo: interactionRepo,
		cache:           c,
	}
}

// ListFeed returns workspace summaries for the browse page, optionally
// narrowed to one category. "All" or empty disables the filter.
func (s *FeedService) ListFeed(ctx context.Context, viewerID *uuid.UUID, category string) ([]*domain.WorkspaceSummary, error) {
	var filter *string
	if category != "" && category != "All" {
		filter = &category
	}

	if viewerID == nil && s.cache != nil {
		key := feedCachePrefix + category
		return cache.GetOrLoadJSON(s.cache, ctx, key, feedCacheTTL, func(ctx context.Context) ([]*domain.WorkspaceSummary, error) {
			return s.workspaceRepo.ListSummaries(nil, filter)
		})
	}

	return s.workspaceRepo.ListSummaries(viewerID, filter)
}

// InvalidateFeed drops all cached feed pages after a workspace write
func (s *FeedService) InvalidateFeed() {
	if s.cache == nil {
		return
	}
	s.cache.InvalidatePrefix(context.Background(), feedCachePrefix)
}

// DeviceState is a device plus the viewer's like/save flags
type DeviceState struct {
	domain.Device
	Liked bool `json:"liked"`
	Saved bool `json:"saved"`
}

// WorkspaceDetail is the full read model for a workspace page
type WorkspaceDetail struct {
	domain.Workspace
	Username string        `json:"username"`
	Liked    bool          `json:"liked"`
	Saved    bool          `json:"saved"`
	Devices  []DeviceState `json:"devices"`
}

// GetWorkspaceDetail returns a workspace with its devices and, for a signed
// in viewer, the like/save state of each
func (s *FeedService) GetWorkspaceDetail(id uuid.UUID, viewerID *uuid.UUID) (*WorkspaceDetail, error) {
	workspace, err := s.workspaceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	owner, err := s.userRepo.GetByID(workspace.UserID)
	if err != nil {
		log.Error().Err(err).Str("workspace_id", id.String()).Msg("Workspace owner lookup failed")
		return nil, err
	}

	devices, err := s.deviceRepo.ListByWorkspace(id)
	if err != nil {
		return nil, err
	}

	detail := &WorkspaceDetail{
		Workspace: *workspace,
		Username:  owner.Username,
		Devices:   make([]DeviceState, len(devices)),
	}
	for i, d := range devices {
		detail.Devices[i] = DeviceState{Device: *d}
	}

	if viewerID != nil {
		detail.Liked = s.exists(func() error {
			_, err := s.interactionRepo.GetLike(*viewerID, id)
			return err
		})
		detail.Saved = s.exists(func() error {
			_, err := s.interactionRepo.GetSavedWorkspace(*viewerID, id)
			return err
		})
		for i, d := range devices {
			deviceID := d.ID
			detail.Devices[i].Liked = s.exists(func() error {
				_, err := s.interactionRepo.GetDeviceLike(*viewerID, deviceID)
				return err
			})
			detail.Devices[i].Saved = s.exists(func() error {
				_, err := s.interactionRepo.GetSavedDevice(*viewerID, deviceID)
				return err
			})
		}
	}

	return detail, nil
}

// Profile is the read model for a user's own page
type Profile struct {
	Workspaces      []*domain.Workspace `json:"workspaces"`
	SavedWorkspaces []*domain.Workspace `json:"savedWorkspaces"`
	SavedDevices    []*domain.Device    `json:"savedDevices"`
}

// GetProfile returns a user's published and saved content
func (s *FeedService) GetProfile(userID uuid.UUID) (*Profile, error) {
	workspaces, err := s.workspaceRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	saved, err := s.workspaceRepo.ListSavedByUser(userID)
	if err != nil {
		return nil, err
	}
	savedDevices, err := s.deviceRepo.ListSavedByUser(userID)
	if err != nil {
		return nil, err
	}
	return &Profile{
		Workspaces:      workspaces,
		SavedWorkspaces: saved,
		SavedDevices:    savedDevices,
	}, nil
}

func (s *FeedService) exists(get func() error) bool {
	err := get()
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		log.Debug().Err(err).Msg("Interaction state lookup failed")
	}
	return err == nil
}
