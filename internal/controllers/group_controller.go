package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"gallery-server/internal/logics"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// GroupController handles gallery group (album) CRUD.
type GroupController struct {
	groupService *logics.GroupService
}

func NewGroupController(groupService *logics.GroupService) *GroupController {
	return &GroupController{groupService: groupService}
}

type GroupRequest struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
}

// CreateHandler creates a group.
// Endpoint: POST /groups
func (gc *GroupController) CreateHandler(c echo.Context) error {
	req := new(GroupRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}

	group, err := gc.groupService.Create(c.Request().Context(), req.Name, req.Description)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create group"})
	}
	return c.JSON(http.StatusCreated, group)
}

// ListHandler returns all groups ordered by name.
// Endpoint: GET /groups
func (gc *GroupController) ListHandler(c echo.Context) error {
	groups, err := gc.groupService.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list groups"})
	}
	return c.JSON(http.StatusOK, groups)
}

// GetHandler returns a group with its images.
// Endpoint: GET /groups/:id
func (gc *GroupController) GetHandler(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid group id"})
	}

	group, err := gc.groupService.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "group not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load group"})
	}
	return c.JSON(http.StatusOK, group)
}

// UpdateHandler edits a group's name and description.
// Endpoint: PUT /groups/:id
func (gc *GroupController) UpdateHandler(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid group id"})
	}

	req := new(GroupRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	group, err := gc.groupService.Update(c.Request().Context(), id, req.Name, req.Description)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "group not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to update group"})
	}
	return c.JSON(http.StatusOK, group)
}

// DeleteHandler removes a group. Member images stay.
// Endpoint: DELETE /groups/:id
func (gc *GroupController) DeleteHandler(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid group id"})
	}

	if err := gc.groupService.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "group not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to delete group"})
	}
	return c.NoContent(http.StatusNoContent)
}

func parseUintParam(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
