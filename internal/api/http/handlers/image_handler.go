package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/restaurant-site/internal/service"
	apperrors "github.com/spec-kit/restaurant-site/pkg/util/errorutil"
)

// ImageHandler accepts image uploads.
type ImageHandler struct {
	service *service.ImageService
}

// NewImageHandler constructs handler.
func NewImageHandler(imageService *service.ImageService) *ImageHandler {
	return &ImageHandler{service: imageService}
}

// Upload POST /admin/images (multipart field "file").
func (h *ImageHandler) Upload(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("multipart field \"file\" required", nil)
	}
	file, err := header.Open()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	defer file.Close()

	image, err := h.service.Upload(c.UserContext(), service.UploadInput{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		SizeBytes:   header.Size,
		Body:        file,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(image)
}

// List GET /admin/images.
func (h *ImageHandler) List(c *fiber.Ctx) error {
	images, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(images)
}
