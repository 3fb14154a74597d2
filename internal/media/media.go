// Package media stores uploaded images and resolves their public URLs.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"fandomapp/internal/config"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// Upload folders.
const (
	FolderAvatars = "avatars"
	FolderPosts   = "posts"
	FolderFanfics = "fanfics"
)

// ErrNotImage is returned for uploads whose content is not an image.
var ErrNotImage = errors.New("Upload a valid image. The file you uploaded was either not an image or a corrupted image.")

// Storage keeps uploaded files and hands back opaque references to them.
type Storage interface {
	Save(ctx context.Context, folder string, upload *Upload) (string, error)
	Delete(ctx context.Context, ref string) error
	URL(ref string) string
}

// Upload is one file received from a form.
type Upload struct {
	Filename    string
	Size        int64
	Body        io.ReadSeeker
	ContentType string
}

// CheckImage sniffs the upload body and rejects anything that is not an image. The body
// is rewound afterwards.
func CheckImage(upload *Upload) error {
	if upload == nil || upload.Body == nil {
		return ErrNotImage
	}
	mime, err := mimetype.DetectReader(upload.Body)
	if err != nil {
		return fmt.Errorf("detect content type: %w", err)
	}
	if _, err := upload.Body.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind upload: %w", err)
	}
	if !strings.HasPrefix(mime.String(), "image/") {
		return ErrNotImage
	}
	upload.ContentType = mime.String()
	return nil
}

// New builds the storage backend selected by MEDIA_BACKEND.
func New(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.MediaBackend {
	case "local":
		return NewLocalStorage(cfg.UploadDir)
	case "minio":
		return NewMinioStorage(ctx, MinioOptions{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
			PublicURL: cfg.MinioPublicURL,
		})
	default:
		return nil, fmt.Errorf("unsupported media backend %q", cfg.MediaBackend)
	}
}

// objectName places a fresh uuid-named object under folder, keeping the extension.
func objectName(folder, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join(folder, uuid.NewString()+ext)
}
