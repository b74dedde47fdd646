package controllers

import (
	"errors"
	"net/http"

	"gallery-server/internal/middlewares"
	"gallery-server/internal/models"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// UserController exposes the authenticated user's own account.
type UserController struct {
	db *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{db: db}
}

// MeHandler returns the current user's profile.
// Endpoint: GET /users/me
func (uc *UserController) MeHandler(c echo.Context) error {
	userID, err := middlewares.GetUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	var user models.User
	if err := uc.db.WithContext(c.Request().Context()).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load user"})
	}

	return c.JSON(http.StatusOK, user)
}
