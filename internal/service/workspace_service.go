package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/deskenvy/deskenvy-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ErrInvalidDevicePayload marks a malformed or unparseable device list
var ErrInvalidDevicePayload = errors.New("invalid device data")

// WorkspaceImageUploader uploads a workspace photo and returns its public URL
type WorkspaceImageUploader interface {
	UploadWorkspaceImage(ctx context.Context, data []byte, filename string) (string, error)
}

// FeedInvalidator drops cached feed read models after a write
type FeedInvalidator interface {
	InvalidateFeed()
}

// WorkspaceService handles workspace create/update/delete
type WorkspaceService struct {
	workspaceRepo domain.WorkspaceRepository
	deviceRepo    domain.DeviceRepository
	uploader      WorkspaceImageUploader
	invalidator   FeedInvalidator
}

// NewWorkspaceService creates a new WorkspaceService
func NewWorkspaceService(workspaceRepo domain.WorkspaceRepository, deviceRepo domain.DeviceRepository, uploader WorkspaceImageUploader, invalidator FeedInvalidator) *WorkspaceService {
	return &WorkspaceService{
		workspaceRepo: workspaceRepo,
		deviceRepo:    deviceRepo,
		uploader:      uploader,
		invalidator:   invalidator,
	}
}

// CreateWorkspaceInput contains input for publishing a workspace
type CreateWorkspaceInput struct {
	UserID        uuid.UUID
	Title         string
	Description   *string
	Category      string
	Image         []byte
	ImageFilename string
	DevicesJSON   string
}

// Create publishes a workspace. The image is uploaded to object storage
// first; no row is written when the upload fails.
func (s *WorkspaceService) Create(ctx context.Context, input CreateWorkspaceInput) (*domain.Workspace, error) {
	if len(input.Image) == 0 {
		return nil, domain.ErrWorkspaceImageRequired
	}

	devices, err := ParseDeviceList(input.DevicesJSON)
	if err != nil {
		return nil, err
	}

	workspace := &domain.Workspace{
		UserID:      input.UserID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Category:    normalizeCategory(input.Category),
	}
	if err := workspace.Validate(); err != nil {
		return nil, err
	}

	imageURL, err := s.uploader.UploadWorkspaceImage(ctx, input.Image, input.ImageFilename)
	if err != nil {
		log.Error().Err(err).Str("user_id", input.UserID.String()).Msg("Workspace image upload failed")
		return nil, err
	}
	workspace.ImageURL = imageURL

	created, err := s.workspaceRepo.CreateWithDevices(workspace, devices)
	if err != nil {
		log.Error().Err(err).Str("user_id", input.UserID.String()).Msg("Failed to create workspace")
		return nil, err
	}

	s.invalidateFeed()
	log.Info().Str("workspace_id", created.ID.String()).Str("title", created.Title).Int("devices", len(devices)).Msg("Workspace published")
	return created, nil
}

// UpdateWorkspaceInput contains input for editing a workspace
type UpdateWorkspaceInput struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Title         string
	Description   *string
	Category      string
	Image         []byte // nil or empty keeps the stored image
	ImageFilename string
	DevicesJSON   string
}

// Update edits a workspace the caller owns. The submitted device list is
// authoritative: the stored set is fully replaced in one transaction. The
// replaced image is not deleted from storage.
func (s *WorkspaceService) Update(ctx context.Context, input UpdateWorkspaceInput) (*domain.Workspace, error) {
	existing, err := s.workspaceRepo.GetByID(input.ID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != input.UserID {
		return nil, domain.ErrUnauthorized
	}

	devices, err := ParseDeviceList(input.DevicesJSON)
	if err != nil {
		return nil, err
	}

	workspace := &domain.Workspace{
		ID:          existing.ID,
		UserID:      existing.UserID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Category:    normalizeCategory(input.Category),
		ImageURL:    existing.ImageURL,
	}
	if err := workspace.Validate(); err != nil {
		return nil, err
	}

	if len(input.Image) > 0 {
		imageURL, err := s.uploader.UploadWorkspaceImage(ctx, input.Image, input.ImageFilename)
		if err != nil {
			log.Error().Err(err).Str("workspace_id", input.ID.String()).Msg("Replacement image upload failed")
			return nil, err
		}
		workspace.ImageURL = imageURL
	}

	updated, err := s.workspaceRepo.UpdateWithDevices(workspace, devices)
	if err != nil {
		log.Error().Err(err).Str("workspace_id", input.ID.String()).Msg("Failed to update workspace")
		return nil, err
	}

	s.invalidateFeed()
	log.Info().Str("workspace_id", updated.ID.String()).Int("devices", len(devices)).Msg("Workspace updated")
	return updated, nil
}

// Delete removes a workspace the caller owns
func (s *WorkspaceService) Delete(id, callerID uuid.UUID) error {
	existing, err := s.workspaceRepo.GetByID(id)
	if err != nil {
		return err
	}
	if existing.UserID != callerID {
		return domain.ErrUnauthorized
	}
	if err := s.workspaceRepo.Delete(id); err != nil {
		return err
	}
	s.invalidateFeed()
	log.Info().Str("workspace_id", id.String()).Msg("Workspace deleted")
	return nil
}

// GetByID retrieves a workspace
func (s *WorkspaceService) GetByID(id uuid.UUID) (*domain.Workspace, error) {
	return s.workspaceRepo.GetByID(id)
}

func (s *WorkspaceService) invalidateFeed() {
	if s.invalidator != nil {
		s.invalidator.InvalidateFeed()
	}
}

func normalizeCategory(category string) string {
	if strings.TrimSpace(category) == "" {
		return domain.WorkspaceCategories[0]
	}
	return category
}

// deviceInput is the wire shape of one tagged device. Price accepts a
// string, a number, or null.
type deviceInput struct {
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Features    []string        `json:"features"`
	XPercent    float64         `json:"xPercent"`
	YPercent    float64         `json:"yPercent"`
	Price       json.RawMessage `json:"price"`
	Link        *string         `json:"link"`
}

// ParseDeviceList decodes the submitted device list JSON and validates each
// entry. An empty payload is rejected the same way a malformed one is.
func ParseDeviceList(devicesJSON string) ([]*domain.Device, error) {
	if strings.TrimSpace(devicesJSON) == "" {
		return nil, ErrInvalidDevicePayload
	}

	var inputs []deviceInput
	if err := json.Unmarshal([]byte(devicesJSON), &inputs); err != nil {
		return nil, ErrInvalidDevicePayload
	}

	devices := make([]*domain.Device, 0, len(inputs))
	for _, in := range inputs {
		price, err := parsePrice(in.Price)
		if err != nil {
			return nil, ErrInvalidDevicePayload
		}

		features := in.Features
		if features == nil {
			features = []string{}
		}

		device := &domain.Device{
			Name:        strings.TrimSpace(in.Name),
			Description: emptyToNil(in.Description),
			Features:    features,
			XPercent:    in.XPercent,
			YPercent:    in.YPercent,
			Price:       price,
			Link:        emptyToNil(in.Link),
		}
		if err := device.Validate(); err != nil {
			return nil, err
		}
		devices = append(devices, device)
	}
	return devices, nil
}

// parsePrice maps "", null, and absent to no price; numeric strings and
// numbers parse to decimals
func parsePrice(raw json.RawMessage) (*decimal.Decimal, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		str = strings.TrimSpace(str)
		if str == "" {
			return nil, nil
		}
		d, err := decimal.NewFromString(str)
		if err != nil {
			return nil, err
		}
		return &d, nil
	}

	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(num.String())
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
