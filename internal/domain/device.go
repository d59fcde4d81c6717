package domain

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrDeviceNameEmpty     = errors.New("device name is required")
	ErrDeviceNameLong      = errors.New("device name must be 255 characters or less")
	ErrDevicePositionRange = errors.New("device position must be within 0 to 100 percent")
	ErrDevicePriceNegative = errors.New("device price must not be negative")
	ErrDeviceInvalidLink   = errors.New("device link must be a valid URL")
)

// Device is a piece of gear tagged at a normalized position on a workspace
// image. A nil Price renders as "custom/priceless".
type Device struct {
	ID          uuid.UUID        `json:"id"`
	WorkspaceID uuid.UUID        `json:"workspaceId"`
	Name        string           `json:"name"`
	Description *string          `json:"description,omitempty"`
	Features    []string         `json:"features,omitempty"`
	XPercent    float64          `json:"xPercent"`
	YPercent    float64          `json:"yPercent"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Link        *string          `json:"link,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
}

func (d *Device) Validate() error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return ErrDeviceNameEmpty
	}
	if len(name) > MaxDeviceNameLength {
		return ErrDeviceNameLong
	}
	if d.XPercent < 0 || d.XPercent > 100 || d.YPercent < 0 || d.YPercent > 100 {
		return ErrDevicePositionRange
	}
	if d.Price != nil && d.Price.IsNegative() {
		return ErrDevicePriceNegative
	}
	if d.Link != nil && *d.Link != "" {
		if _, err := url.ParseRequestURI(*d.Link); err != nil {
			return ErrDeviceInvalidLink
		}
	}
	return nil
}

// DeviceRepository defines the interface for device persistence operations
type DeviceRepository interface {
	GetByID(id uuid.UUID) (*Device, error)
	ListByWorkspace(workspaceID uuid.UUID) ([]*Device, error)
	ListSavedByUser(userID uuid.UUID) ([]*Device, error)
}
