package config

import (
	"context"
	"fmt"
	"membership/domain"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalAssetStore keeps uploaded photos on the local disk under StorageDir and
// hands out public paths of the form /uploads/<uuid><ext>. It satisfies
// domain.AssetStore.
type LocalAssetStore struct {
	dir string
}

func GetStorageDir() string {
	v := os.Getenv("STORAGE_DIR")
	if v == "" {
		return "./uploads"
	}
	return v
}

func BootAssetStore() (*LocalAssetStore, error) {
	dir := GetStorageDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to prepare storage dir %s: %w", dir, err)
	}

	fmt.Println("Asset store initialized at", dir)
	return &LocalAssetStore{dir: dir}, nil
}

func (s *LocalAssetStore) Store(ctx context.Context, data []byte, hint string) (string, error) {
	ext := strings.ToLower(filepath.Ext(hint))
	if ext == "" {
		ext = ".jpg"
	}

	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", &domain.StorageError{Err: err}
	}

	return "/uploads/" + name, nil
}

func (s *LocalAssetStore) Delete(ctx context.Context, publicPath string) error {
	name := filepath.Base(publicPath)
	if name == "." || name == "/" || name == "" {
		return fmt.Errorf("invalid asset path: %s", publicPath)
	}

	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("failed to delete asset %s: %w", publicPath, err)
	}
	return nil
}

func (s *LocalAssetStore) Read(ctx context.Context, publicPath string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, filepath.Base(publicPath)))
	if err != nil {
		return nil, fmt.Errorf("failed to read asset %s: %w", publicPath, err)
	}
	return data, nil
}
