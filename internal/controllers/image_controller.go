package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"gallery-server/internal/logics"
	"gallery-server/internal/middlewares"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// ImageController handles photo upload, metadata, and download URLs.
type ImageController struct {
	imageService *logics.ImageService
}

func NewImageController(imageService *logics.ImageService) *ImageController {
	return &ImageController{imageService: imageService}
}

// UploadHandler accepts a multipart photo upload.
// Endpoint: POST /images
func (ic *ImageController) UploadHandler(c echo.Context) error {
	userID, err := middlewares.GetUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "image file is required"})
	}
	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to open uploaded file"})
	}
	defer src.Close()

	groupIDs, err := parseGroupIDs(c.FormValue("group_ids"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid group_ids"})
	}

	record, err := ic.imageService.Upload(c.Request().Context(), userID, src, fileHeader, logics.UploadParams{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		GroupIDs:    groupIDs,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, record)
}

// ListHandler returns all images, newest first.
// Endpoint: GET /images
func (ic *ImageController) ListHandler(c echo.Context) error {
	images, err := ic.imageService.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list images"})
	}
	return c.JSON(http.StatusOK, images)
}

// GetHandler returns a single image's metadata.
// Endpoint: GET /images/:id
func (ic *ImageController) GetHandler(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid image id"})
	}

	record, err := ic.imageService.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "image not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load image"})
	}
	return c.JSON(http.StatusOK, record)
}

// DownloadHandler returns a short-lived presigned URL for the bitmap.
// Endpoint: GET /images/:id/download
func (ic *ImageController) DownloadHandler(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid image id"})
	}

	record, err := ic.imageService.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "image not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load image"})
	}

	url, err := ic.imageService.DownloadURL(c.Request().Context(), record)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to presign download"})
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}

// UpdateRequest carries mutable image metadata.
type ImageUpdateRequest struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
	GroupIDs    []uint `json:"group_ids" form:"group_ids"`
}

// UpdateHandler edits image metadata and group membership. Only the owner
// or staff may edit.
// Endpoint: PUT /images/:id
func (ic *ImageController) UpdateHandler(c echo.Context) error {
	userID, err := middlewares.GetUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid image id"})
	}

	req := new(ImageUpdateRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	record, err := ic.imageService.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "image not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load image"})
	}
	if record.OwnerID != userID {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "you do not own this image"})
	}

	updated, err := ic.imageService.Update(c.Request().Context(), id, logics.UploadParams{
		Name:        req.Name,
		Description: req.Description,
		GroupIDs:    req.GroupIDs,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteHandler removes the bitmap and its metadata.
// Endpoint: DELETE /images/:id
func (ic *ImageController) DeleteHandler(c echo.Context) error {
	userID, err := middlewares.GetUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid image id"})
	}

	record, err := ic.imageService.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "image not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load image"})
	}
	if record.OwnerID != userID {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "you do not own this image"})
	}

	if err := ic.imageService.Delete(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to delete image"})
	}
	return c.NoContent(http.StatusNoContent)
}

// parseGroupIDs parses a comma-separated form value. An empty value means
// no group change.
func parseGroupIDs(raw string) ([]uint, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
