package controllers

import (
	"errors"
	"net/http"

	"gallery-server/internal/logics"
	"gallery-server/internal/middlewares"

	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LayoutController handles the per-user home layout presets.
type LayoutController struct {
	layoutService *logics.LayoutService
}

func NewLayoutController(layoutService *logics.LayoutService) *LayoutController {
	return &LayoutController{layoutService: layoutService}
}

type LayoutRequest struct {
	Name   string         `json:"name" form:"name"`
	Config datatypes.JSON `json:"config" form:"config"`
}

// CreateHandler saves a new layout preset for the current user.
// Endpoint: POST /layouts
func (lc *LayoutController) CreateHandler(c echo.Context) error {
	userID, err := middlewares.GetUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	req := new(LayoutRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}

	layout, err := lc.layoutService.Create(c.Request().Context(), userID, req.Name, req.Config)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create layout"})
	}
	return c.JSON(http.StatusCreated, layout)
}

// ListHandler returns all of the user's layout presets.
// Endpoint: GET /layouts
func (lc *LayoutController) ListHandler(c echo.Context) error {
	userID, err := middlewares.GetUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	layouts, err := lc.layoutService.List(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list layouts"})
	}
	return c.JSON(http.StatusOK, layouts)
}

// ActiveHandler returns the user's currently active layout.
// Endpoint: GET /layouts/active
func (lc *LayoutController) ActiveHandler(c echo.Context) error {
	userID, err := middlewares.GetUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	layout, err := lc.layoutService.GetActive(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "no active layout"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load layout"})
	}
	return c.JSON(http.StatusOK, layout)
}

// UpdateHandler edits a layout preset.
// Endpoint: PUT /layouts/:id
func (lc *LayoutController) UpdateHandler(c echo.Context) error {
	userID, err := middlewares.GetUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid layout id"})
	}

	req := new(LayoutRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	layout, err := lc.layoutService.Update(c.Request().Context(), userID, id, req.Name, req.Config)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "layout not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to update layout"})
	}
	return c.JSON(http.StatusOK, layout)
}

// ActivateHandler makes the given layout the only active one.
// Endpoint: POST /layouts/:id/activate
func (lc *LayoutController) ActivateHandler(c echo.Context) error {
	userID, err := middlewares.GetUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid layout id"})
	}

	layout, err := lc.layoutService.Activate(c.Request().Context(), userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "layout not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to activate layout"})
	}
	return c.JSON(http.StatusOK, layout)
}

// DeleteHandler removes a layout preset.
// Endpoint: DELETE /layouts/:id
func (lc *LayoutController) DeleteHandler(c echo.Context) error {
	userID, err := middlewares.GetUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid layout id"})
	}

	if err := lc.layoutService.Delete(c.Request().Context(), userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "layout not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to delete layout"})
	}
	return c.NoContent(http.StatusNoContent)
}
