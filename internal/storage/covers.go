package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrUnsupportedImageType is returned for uploads that are not one of
// the accepted cover formats.
var ErrUnsupportedImageType = errors.New("unsupported file type, supported formats: jpeg, png, webp")

var coverExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// CoverStore writes uploaded cover images to a directory on disk and
// hands back the relative path recorded on the game.
type CoverStore struct {
	dir string
}

func NewCoverStore(dir string) (*CoverStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cover directory: %w", err)
	}
	return &CoverStore{dir: dir}, nil
}

// Save validates the upload's content type and stores it under a
// uuid-suffixed name so re-uploads never collide.
func (s *CoverStore) Save(gameID int64, file *multipart.FileHeader) (string, error) {
	contentType := strings.ToLower(strings.TrimSpace(file.Header.Get("Content-Type")))
	ext, ok := coverExtensions[contentType]
	if !ok {
		return "", ErrUnsupportedImageType
	}

	name := fmt.Sprintf("game_%d_%s%s", gameID, uuid.New().String()[:8], ext)
	dst := filepath.Join(s.dir, name)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create cover file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("write cover file: %w", err)
	}

	return filepath.ToSlash(filepath.Join("covers", name)), nil
}

// Remove deletes a previously stored cover. Missing files are not an
// error; the record is the source of truth.
func (s *CoverStore) Remove(coverPath string) error {
	name := filepath.Base(coverPath)
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
