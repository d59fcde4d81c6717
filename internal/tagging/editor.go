// Package tagging holds the hotspot editor state: mapping pointer clicks on
// a rendered workspace image to normalized percentage coordinates and
// maintaining the provisional device list until submit.
package tagging

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrDegenerateBox  = errors.New("image bounding box has no area")
	ErrNoPendingPoint = errors.New("no pending point to confirm")
	ErrNameRequired   = errors.New("device name is required")
)

// Point is a normalized position on the image, in percent of its rendered
// size. Coordinates are meaningful only relative to the image's aspect ratio
// at tagging time.
type Point struct {
	XPercent float64 `json:"xPercent"`
	YPercent float64 `json:"yPercent"`
}

// Box is the rendered image's bounding box in viewport coordinates
type Box struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Click is a pointer event position in viewport coordinates
type Click struct {
	X float64
	Y float64
}

// Placement converts a click within the image's bounding box to percentage
// coordinates, clamped to [0, 100]
func Placement(click Click, box Box) (Point, error) {
	if box.Width <= 0 || box.Height <= 0 {
		return Point{}, ErrDegenerateBox
	}
	return Point{
		XPercent: clamp(100 * (click.X - box.Left) / box.Width),
		YPercent: clamp(100 * (click.Y - box.Top) / box.Height),
	}, nil
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Tag is one provisional device entry in the editor
type Tag struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       string    `json:"price,omitempty"`
	Link        string    `json:"link,omitempty"`
	Position    Point     `json:"position"`
}

// Editor holds the in-memory tag list while a workspace is being composed.
// The list is the sole source of truth for the device set at submit time.
type Editor struct {
	tags    []Tag
	pending *Point
}

// NewEditor creates an editor preloaded with existing tags (the edit flow)
func NewEditor(initial []Tag) *Editor {
	tags := make([]Tag, len(initial))
	copy(tags, initial)
	return &Editor{tags: tags}
}

// Begin records a clicked point, to be confirmed or canceled by the tag
// modal. A second Begin replaces an unconfirmed point.
func (e *Editor) Begin(p Point) {
	e.pending = &p
}

// Pending returns the point awaiting confirmation, or nil
func (e *Editor) Pending() *Point {
	if e.pending == nil {
		return nil
	}
	p := *e.pending
	return &p
}

// Confirm appends a tag at the pending point. Name is required; all other
// fields are free-form until submit.
func (e *Editor) Confirm(name, description, price, link string) (Tag, error) {
	if e.pending == nil {
		return Tag{}, ErrNoPendingPoint
	}
	if strings.TrimSpace(name) == "" {
		return Tag{}, ErrNameRequired
	}
	tag := Tag{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(name),
		Description: description,
		Price:       price,
		Link:        link,
		Position:    *e.pending,
	}
	e.tags = append(e.tags, tag)
	e.pending = nil
	return tag, nil
}

// Cancel discards the pending point without touching the tag list
func (e *Editor) Cancel() {
	e.pending = nil
}

// Remove deletes a tag by id and reports whether it was present
func (e *Editor) Remove(id uuid.UUID) bool {
	for i, tag := range e.tags {
		if tag.ID == id {
			e.tags = append(e.tags[:i], e.tags[i+1:]...)
			return true
		}
	}
	return false
}

// Tags returns a copy of the current tag list
func (e *Editor) Tags() []Tag {
	out := make([]Tag, len(e.tags))
	copy(out, e.tags)
	return out
}

// deviceJSON is the submit wire shape consumed by the workspace mutations
type deviceJSON struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	XPercent    float64 `json:"xPercent"`
	YPercent    float64 `json:"yPercent"`
	Price       string  `json:"price,omitempty"`
	Link        string  `json:"link,omitempty"`
}

// DevicesJSON serializes the full tag list as the authoritative device list
// for create/update
func (e *Editor) DevicesJSON() (string, error) {
	out := make([]deviceJSON, len(e.tags))
	for i, tag := range e.tags {
		out[i] = deviceJSON{
			Name:        tag.Name,
			Description: tag.Description,
			XPercent:    tag.Position.XPercent,
			YPercent:    tag.Position.YPercent,
			Price:       tag.Price,
			Link:        tag.Link,
		}
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
