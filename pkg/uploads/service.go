package uploads

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/lcastellanos/shopline-backend/pkg/config"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Image is an incoming file to persist.
type Image struct {
	Filename string
	Content  io.Reader
}

// StoredImage describes where a saved file landed.
type StoredImage struct {
	// URL is the public path clients use to fetch the image.
	URL string
	// Path is the location on disk, kept for later cleanup.
	Path string
}

// Service writes product images to local disk under the configured directory.
type Service struct {
	dir           string
	publicBaseURL string
}

// NewService builds the upload service from config.
func NewService(cfg config.UploadsConfig) (*Service, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("uploads dir is required")
	}
	if cfg.PublicBaseURL == "" {
		return nil, fmt.Errorf("uploads public base url is required")
	}
	return &Service{dir: cfg.Dir, publicBaseURL: cfg.PublicBaseURL}, nil
}

// Save persists the image under a random name and returns its public URL and
// disk path. The original filename only contributes its extension.
func (s *Service) Save(img Image) (*StoredImage, error) {
	if img.Content == nil {
		return nil, fmt.Errorf("image content is required")
	}

	ext := strings.ToLower(filepath.Ext(img.Filename))
	if !allowedExtensions[ext] {
		return nil, fmt.Errorf("unsupported image extension %q", ext)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %q: %w", s.dir, err)
	}

	name := uuid.NewString() + ext
	fullPath := filepath.Join(s.dir, name)

	out, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("create %q: %w", fullPath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, img.Content); err != nil {
		_ = os.Remove(fullPath)
		return nil, fmt.Errorf("write %q: %w", fullPath, err)
	}

	return &StoredImage{
		URL:  path.Join(s.publicBaseURL, name),
		Path: fullPath,
	}, nil
}

// Remove deletes a previously stored image. Missing files are not an error.
func (s *Service) Remove(storedPath string) error {
	if storedPath == "" {
		return nil
	}
	if err := os.Remove(storedPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %q: %w", storedPath, err)
	}
	return nil
}
