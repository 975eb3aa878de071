package documents

import (
	"github.com/gin-gonic/gin"

	"github.com/pharmassist/server/internal/auth"
	"github.com/pharmassist/server/internal/ingest"
	"github.com/pharmassist/server/pharmassist/documents"
)

func RegisterRoutes(router *gin.RouterGroup, ingestService *ingest.Service, docRepo *documents.Repository) {
	docsGroup := router.Group("/documents")
	docsGroup.Use(auth.AuthMiddleware())
	{
		docsGroup.POST("", UploadHandler(ingestService))
		docsGroup.GET("", ListHandler(docRepo))
		docsGroup.DELETE("/:id", DeleteHandler(ingestService))
	}
}
