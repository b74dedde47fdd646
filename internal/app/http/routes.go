package httpEngine

import (
	"net/http"
	"time"

	"gallery-server/internal/auth"
	"gallery-server/internal/controllers"
	"gallery-server/internal/middlewares"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Controllers bundles the request handlers for route registration.
type Controllers struct {
	Captcha *controllers.CaptchaController
	Auth    *controllers.AuthController
	User    *controllers.UserController
	Image   *controllers.ImageController
	Group   *controllers.GroupController
	Layout  *controllers.LayoutController
}

// RegisterRoutes sets up all the server routes
func RegisterRoutes(e *echo.Echo, ctrl *Controllers, tokens *auth.TokenManager) {
	// Basic health check
	e.GET("/", func(c echo.Context) error {
		sess, err := session.Get("session", c)
		if err != nil {
			return err
		}
		if err := sess.Save(c.Request(), c.Response()); err != nil {
			return err
		}
		return c.String(http.StatusOK, "Hello, from Gallery Server!")
	})

	// Tighter limits on endpoints an attacker would hammer
	loginLimiter := middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      5,
				Burst:     10,
				ExpiresIn: 1 * time.Hour,
			},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			username := ""
			if req := ctx.Request(); req.Method == "POST" {
				username = ctx.FormValue("username")
			}
			id := ctx.RealIP()
			if username != "" {
				id += ":" + username
			}
			return id, nil
		},
		ErrorHandler: func(ctx echo.Context, err error) error {
			return ctx.JSON(http.StatusTooManyRequests, map[string]string{
				"error": "Too many requests. Please try again later.",
			})
		},
		DenyHandler: func(ctx echo.Context, identifier string, err error) error {
			return ctx.JSON(http.StatusTooManyRequests, map[string]string{
				"error": "Too many requests. Please try again later.",
			})
		},
	}

	jwtRequired := middlewares.JWT(tokens)

	// CAPTCHA endpoints
	captchaGroup := e.Group("/captcha")
	{
		captchaGroup.GET("", ctrl.Captcha.IssueHandler)
		captchaGroup.GET("/:key/image", ctrl.Captcha.ImageHandler)
		captchaGroup.POST("/verify", ctrl.Captcha.VerifyHandler, middleware.RateLimiterWithConfig(loginLimiter))
	}

	// Authentication endpoints
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/login", ctrl.Auth.LoginHandler, middleware.RateLimiterWithConfig(loginLimiter))
		authGroup.POST("/refresh", ctrl.Auth.RefreshHandler)
		authGroup.POST("/logout", ctrl.Auth.LogoutHandler, jwtRequired)
	}

	// User endpoints
	userGroup := e.Group("/users")
	userGroup.Use(jwtRequired)
	{
		userGroup.GET("/me", ctrl.User.MeHandler)
	}

	// Image endpoints. Listing and reading are public, mutations are not.
	imageGroup := e.Group("/images")
	{
		imageGroup.GET("", ctrl.Image.ListHandler)
		imageGroup.GET("/:id", ctrl.Image.GetHandler)
		imageGroup.GET("/:id/download", ctrl.Image.DownloadHandler)
		imageGroup.POST("", ctrl.Image.UploadHandler, jwtRequired)
		imageGroup.PUT("/:id", ctrl.Image.UpdateHandler, jwtRequired)
		imageGroup.DELETE("/:id", ctrl.Image.DeleteHandler, jwtRequired)
	}

	// Group endpoints
	groupGroup := e.Group("/groups")
	{
		groupGroup.GET("", ctrl.Group.ListHandler)
		groupGroup.GET("/:id", ctrl.Group.GetHandler)
		groupGroup.POST("", ctrl.Group.CreateHandler, jwtRequired)
		groupGroup.PUT("/:id", ctrl.Group.UpdateHandler, jwtRequired)
		groupGroup.DELETE("/:id", ctrl.Group.DeleteHandler, jwtRequired)
	}

	// Home layout endpoints
	layoutGroup := e.Group("/layouts")
	layoutGroup.Use(jwtRequired)
	{
		layoutGroup.GET("", ctrl.Layout.ListHandler)
		layoutGroup.GET("/active", ctrl.Layout.ActiveHandler)
		layoutGroup.POST("", ctrl.Layout.CreateHandler)
		layoutGroup.PUT("/:id", ctrl.Layout.UpdateHandler)
		layoutGroup.POST("/:id/activate", ctrl.Layout.ActivateHandler)
		layoutGroup.DELETE("/:id", ctrl.Layout.DeleteHandler)
	}
}
