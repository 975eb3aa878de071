package main

import (
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pharmassist/server/api/rest/auth"
	"github.com/pharmassist/server/api/rest/chat"
	"github.com/pharmassist/server/api/rest/conversations"
	"github.com/pharmassist/server/api/rest/documents"
	"github.com/pharmassist/server/api/rest/health"
	"github.com/pharmassist/server/api/websocket"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) {
	router.Use(CORSMiddleware())
	router.GET("/health", health.Handler)
	router.GET("/ready", health.ReadinessHandler(server.db, server.services.Orchestrator))

	v1 := router.Group("/api/v1")

	{
		v1.GET("/ping", health.PingHandler)

		auth.RegisterRoutes(v1, server.userRepo)
		chat.RegisterRoutes(v1, server.services.Orchestrator, server.convRepo, server.userRepo)
		conversations.RegisterRoutes(v1, server.convRepo)
		documents.RegisterRoutes(v1, server.services.Ingest, server.docRepo)

		v1.GET("/chat/stream", websocket.StreamHandler(server.services.Orchestrator, server.convRepo, server.userRepo))
	}
}

// CORSMiddleware allows the configured frontend origins
func CORSMiddleware() gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			corsConfig.AllowOrigins = append(corsConfig.AllowOrigins, strings.TrimSpace(origin))
		}
	} else {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}

	return cors.New(corsConfig)
}
