package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"backoffice/pkg/utils"

	"go.uber.org/zap"
)

// File is an uploaded attachment waiting to be persisted.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// FileStorage persists attachment bytes and hands back the stored path.
// Every Store call writes to a fresh path.
type FileStorage interface {
	Store(ctx context.Context, namespace string, file *File) (string, error)
	Delete(ctx context.Context, path string) error
	URL(path string) string
}

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// objectKey builds "<namespace>/<uuid><ext>".
func objectKey(namespace string, file *File) string {
	ext, ok := extensions[file.ContentType]
	if !ok {
		ext = strings.ToLower(filepath.Ext(file.Name))
	}
	return path.Join(strings.Trim(namespace, "/"), utils.GenerateUUIDString()+ext)
}

func publicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}

// New picks the driver named in the storage config.
func New(ctx context.Context, cfg utils.StorageConfig, log *zap.Logger) (FileStorage, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStore(cfg.LocalRoot, cfg.PublicURL, log), nil
	case "s3":
		return NewS3Store(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
