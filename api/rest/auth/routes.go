package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/pharmassist/server/internal/auth"
	"github.com/pharmassist/server/pharmassist/users"
)

// registers all authentication routes
func RegisterRoutes(router *gin.RouterGroup, userRepo *users.Repository) {
	authGroup := router.Group("/auth")
	{
		authGroup.GET("/:provider", BeginAuthHandler())
		authGroup.GET("/:provider/callback", CallbackHandler(userRepo))
		authGroup.POST("/logout", LogoutHandler())
		authGroup.GET("/me", auth.AuthMiddleware(), GetCurrentUserHandler(userRepo))
		authGroup.PUT("/me", auth.AuthMiddleware(), UpdateProfileHandler(userRepo))
		authGroup.PUT("/me/preferences", auth.AuthMiddleware(), UpdatePreferencesHandler(userRepo))
	}
}
