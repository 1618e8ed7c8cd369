package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/spec-kit/restaurant-site/internal/config"
	"github.com/spec-kit/restaurant-site/internal/domain"
	"github.com/spec-kit/restaurant-site/internal/repository"
	apperrors "github.com/spec-kit/restaurant-site/pkg/util/errorutil"
)

// UploadPath is the URL prefix uploaded files are served under.
const UploadPath = "/uploads"

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// UploadInput describes an incoming image.
type UploadInput struct {
	FileName    string
	ContentType string
	SizeBytes   int64
	Body        io.Reader
}

// ImageService stores uploaded images on disk and records their metadata.
type ImageService struct {
	repo    repository.ImageRepository
	dir     string
	maxSize int64
	baseURL string
}

// NewImageService constructs the service.
func NewImageService(repo repository.ImageRepository, uploads config.UploadsConfig, publicBaseURL string) *ImageService {
	return &ImageService{
		repo:    repo,
		dir:     uploads.Dir,
		maxSize: uploads.MaxSizeBytes,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// Dir is the directory uploads are written to.
func (s *ImageService) Dir() string {
	return s.dir
}

// Upload validates and writes the image, returning its public URL.
func (s *ImageService) Upload(ctx context.Context, input UploadInput) (*domain.Image, error) {
	contentType := strings.ToLower(strings.TrimSpace(strings.Split(input.ContentType, ";")[0]))
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, apperrors.NewValidationError("unsupported image type", map[string]any{"contentType": input.ContentType})
	}
	if s.maxSize > 0 && input.SizeBytes > s.maxSize {
		return nil, apperrors.NewPayloadTooLarge(fmt.Sprintf("image exceeds %d bytes", s.maxSize))
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	id := uuid.New()
	key := id.String() + ext
	path := filepath.Join(s.dir, key)
	written, err := s.write(path, input.Body)
	if err != nil {
		_ = os.Remove(path)
		return nil, err
	}

	image := &domain.Image{
		ID:          id.String(),
		FileName:    filepath.Base(input.FileName),
		StorageKey:  key,
		ContentType: contentType,
		SizeBytes:   written,
		URL:         s.url(key),
	}
	if err := s.repo.Create(ctx, image); err != nil {
		_ = os.Remove(path)
		return nil, err
	}
	return image, nil
}

// List returns every uploaded image, newest first.
func (s *ImageService) List(ctx context.Context) ([]domain.Image, error) {
	images, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range images {
		images[i].URL = s.url(images[i].StorageKey)
	}
	if images == nil {
		images = []domain.Image{}
	}
	return images, nil
}

func (s *ImageService) write(path string, body io.Reader) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create upload: %w", err)
	}
	defer f.Close()

	reader := body
	if s.maxSize > 0 {
		reader = io.LimitReader(body, s.maxSize+1)
	}
	n, err := io.Copy(f, reader)
	if err != nil {
		return 0, fmt.Errorf("write upload: %w", err)
	}
	if s.maxSize > 0 && n > s.maxSize {
		return 0, apperrors.NewPayloadTooLarge(fmt.Sprintf("image exceeds %d bytes", s.maxSize))
	}
	return n, nil
}

func (s *ImageService) url(key string) string {
	return s.baseURL + UploadPath + "/" + key
}
