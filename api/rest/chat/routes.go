package chat

import (
	"github.com/gin-gonic/gin"
	limiter "github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memory "github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/pharmassist/server/internal/auth"
	"github.com/pharmassist/server/internal/logger"
	"github.com/pharmassist/server/internal/rag"
	"github.com/pharmassist/server/pharmassist/conversations"
	"github.com/pharmassist/server/pharmassist/users"
)

// requests per client per minute on the chat endpoint; generation is the
// expensive path so it gets its own budget
const chatRateLimit = "30-M"

func RegisterRoutes(router *gin.RouterGroup, orchestrator *rag.Orchestrator, convRepo *conversations.Repository, userRepo *users.Repository) {
	chatGroup := router.Group("/chat")
	chatGroup.Use(auth.AuthMiddleware())

	if middleware := rateLimitMiddleware(); middleware != nil {
		chatGroup.Use(middleware)
	}

	{
		chatGroup.POST("", AskHandler(orchestrator, convRepo, userRepo))
	}
}

func rateLimitMiddleware() gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted(chatRateLimit)
	if err != nil {
		logger.ErrorErr(err, "invalid chat rate limit, continuing without one")
		return nil
	}

	return mgin.NewMiddleware(limiter.New(memory.NewStore(), rate))
}
