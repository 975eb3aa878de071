package conversations

import (
	"github.com/gin-gonic/gin"

	"github.com/pharmassist/server/internal/auth"
	"github.com/pharmassist/server/pharmassist/conversations"
)

func RegisterRoutes(router *gin.RouterGroup, convRepo *conversations.Repository) {
	convGroup := router.Group("/conversations")
	convGroup.Use(auth.AuthMiddleware())
	{
		convGroup.GET("", ListHandler(convRepo))
		convGroup.GET("/:id", GetHandler(convRepo))
		convGroup.PUT("/:id", RenameHandler(convRepo))
		convGroup.DELETE("/:id", DeleteHandler(convRepo))
	}
}
