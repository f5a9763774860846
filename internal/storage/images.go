package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// ErrNotImage reports an upload that does not decode as a supported image.
var ErrNotImage = errors.New("payload is not a decodable image")

const uploadDir = "uploads/recipe"

// ImageStore persists recipe images under root/uploads/recipe. Stored names
// are random UUIDs keeping only the original extension, so caller-supplied
// names can neither collide nor escape the upload directory.
type ImageStore struct {
	root string
}

func NewImageStore(root string) *ImageStore {
	return &ImageStore{root: root}
}

// Save validates that the payload decodes as an image and writes it to disk.
// It returns the path relative to the media root.
func (s *ImageStore) Save(r io.Reader, originalName string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}

	_, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", ErrNotImage
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = "." + format
	}
	name := uuid.New().String() + ext

	dir := filepath.Join(s.root, filepath.FromSlash(uploadDir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	return uploadDir + "/" + name, nil
}

// Remove deletes a previously stored image. Paths outside the upload
// directory are refused.
func (s *ImageStore) Remove(relPath string) error {
	cleaned := filepath.ToSlash(filepath.Clean(relPath))
	if !strings.HasPrefix(cleaned, uploadDir+"/") {
		return fmt.Errorf("refusing to remove path outside upload dir: %s", relPath)
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(cleaned)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
