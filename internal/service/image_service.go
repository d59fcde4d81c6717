package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"path/filepath"
	"strings"

	"github.com/deskenvy/deskenvy-backend/internal/repository/storage"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	// imaging registers jpeg/png/gif decoders; webp needs its own
	_ "golang.org/x/image/webp"
)

const (
	MaxImageSize   = 10 * 1024 * 1024 // 10MB
	MinImageWidth  = 200
	MinImageHeight = 200
	ThumbnailWidth = 400
	DisplayWidth   = 1600
	JPEGQuality    = 85

	// Folder hint for workspace photos in object storage
	workspaceImageFolder = "workspaces"
)

var (
	ErrImageTooLarge    = errors.New("file too large. Maximum size is 10MB")
	ErrInvalidFormat    = errors.New("invalid format. Supported: JPEG, PNG, WebP")
	ErrImageTooSmall    = errors.New("image too small. Minimum 200x200 pixels")
	ErrInvalidImageData = errors.New("invalid image data")

	// ErrUploadFailed marks object-storage failures so callers can tell them
	// apart from persistence errors
	ErrUploadFailed = errors.New("image upload failed")
)

// AllowedExtensions maps extensions to content types
var AllowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// ImageMetadata contains URLs for the stored image variants
type ImageMetadata struct {
	ID           string `json:"id"`
	DisplayURL   string `json:"displayUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// ImageService validates workspace photos, renders display and thumbnail
// variants, and uploads them to object storage
type ImageService struct {
	storage storage.ImageRepository
}

// NewImageService creates a new ImageService
func NewImageService(storage storage.ImageRepository) *ImageService {
	return &ImageService{storage: storage}
}

// ValidateImage validates image format, size, and dimensions
func (s *ImageService) ValidateImage(data []byte, filename string) error {
	_, err := s.validateAndDecode(data, filename)
	return err
}

func (s *ImageService) validateAndDecode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxImageSize {
		return nil, ErrImageTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := AllowedExtensions[ext]; !ok {
		return nil, ErrInvalidFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidImageData
	}

	bounds := img.Bounds()
	if bounds.Dx() < MinImageWidth || bounds.Dy() < MinImageHeight {
		return nil, ErrImageTooSmall
	}

	return img, nil
}

// ProcessAndUpload validates the photo, renders the variants, and uploads
// them. The returned metadata's DisplayURL is the workspace image URL.
func (s *ImageService) ProcessAndUpload(ctx context.Context, data []byte, filename string) (*ImageMetadata, error) {
	img, err := s.validateAndDecode(data, filename)
	if err != nil {
		return nil, err
	}

	imageID := uuid.New().String()

	variants := []struct {
		name     string
		maxWidth int
	}{
		{"display", DisplayWidth},
		{"thumb", ThumbnailWidth},
	}

	urls := make(map[string]string)

	for _, variant := range variants {
		var processed image.Image
		if img.Bounds().Dx() > variant.maxWidth {
			// Resize maintaining aspect ratio
			processed = imaging.Resize(img, variant.maxWidth, 0, imaging.Lanczos)
		} else {
			processed = img
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, processed, &jpeg.Options{Quality: JPEGQuality}); err != nil {
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}

		objectPath := storage.GenerateObjectPath(workspaceImageFolder, imageID, variant.name, ".jpg")

		url, err := s.storage.Upload(ctx, objectPath, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len()))
		if err != nil {
			s.cleanupVariants(ctx, imageID, urls)
			return nil, fmt.Errorf("%w: %s variant: %v", ErrUploadFailed, variant.name, err)
		}

		urls[variant.name] = url
	}

	return &ImageMetadata{
		ID:           imageID,
		DisplayURL:   urls["display"],
		ThumbnailURL: urls["thumb"],
	}, nil
}

// cleanupVariants removes variants already uploaded during a failed operation
func (s *ImageService) cleanupVariants(ctx context.Context, imageID string, urls map[string]string) {
	for name := range urls {
		_ = s.storage.Delete(ctx, storage.GenerateObjectPath(workspaceImageFolder, imageID, name, ".jpg"))
	}
}

// UploadWorkspaceImage implements the uploader contract used by
// WorkspaceService
func (s *ImageService) UploadWorkspaceImage(ctx context.Context, data []byte, filename string) (string, error) {
	meta, err := s.ProcessAndUpload(ctx, data, filename)
	if err != nil {
		return "", err
	}
	return meta.DisplayURL, nil
}

// GetContentType returns the content type for a file extension
func GetContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ct, ok := AllowedExtensions[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
