package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// LocalStore keeps files below a root directory served at publicBase.
type LocalStore struct {
	fs         afero.Fs
	publicBase string
	log        *zap.Logger
}

func NewLocalStore(root, publicBase string, log *zap.Logger) *LocalStore {
	return NewLocalStoreFs(afero.NewBasePathFs(afero.NewOsFs(), root), publicBase, log)
}

// NewLocalStoreFs stores onto an arbitrary afero filesystem.
func NewLocalStoreFs(fs afero.Fs, publicBase string, log *zap.Logger) *LocalStore {
	return &LocalStore{
		fs:         fs,
		publicBase: publicBase,
		log:        log.With(zap.String("storage", "local")),
	}
}

func (s *LocalStore) Store(ctx context.Context, namespace string, file *File) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := objectKey(namespace, file)
	if err := s.fs.MkdirAll(path.Dir(key), 0o755); err != nil {
		return "", fmt.Errorf("create directory for %s: %w", key, err)
	}

	f, err := s.fs.OpenFile(key, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", key, err)
	}

	if _, err := io.Copy(f, file.Body); err != nil {
		_ = f.Close()
		_ = s.fs.Remove(key)
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		_ = s.fs.Remove(key)
		return "", fmt.Errorf("close %s: %w", key, err)
	}

	s.log.Debug("File stored", zap.String("path", key), zap.Int64("size", file.Size))
	return key, nil
}

// Delete removes the file; a missing file is not an error.
func (s *LocalStore) Delete(ctx context.Context, key string) error {
	if err := s.fs.Remove(key); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *LocalStore) URL(key string) string {
	return publicURL(s.publicBase, key)
}
