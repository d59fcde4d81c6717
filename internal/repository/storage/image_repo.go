package storage

import (
	"context"
	"fmt"
	"io"
	"path"
)

// ImageRepository defines the interface for image storage operations.
// Upload returns a publicly accessible URL for the stored object.
type ImageRepository interface {
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, objectPath string) error
	GenerateURL(objectPath string) string
}

// GenerateObjectPath builds the object key for one rendition of an image
// under a folder hint. All renditions of an image share its ID so a partial
// upload can be cleaned up by recomputing the same keys.
func GenerateObjectPath(folder, imageID, variant, ext string) string {
	return path.Join(folder, fmt.Sprintf("%s_%s%s", imageID, variant, ext))
}
