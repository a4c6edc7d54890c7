package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/redact/redact-backend/internal/handler"
	"github.com/redact/redact-backend/internal/middleware"
	"github.com/redact/redact-backend/pkg/jwt"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	authHandler *handler.AuthHandler,
	discordHandler *handler.DiscordHandler,
	deletionHandler *handler.DeletionHandler,
	jwtManager *jwt.Manager,
	redisClient *redis.Client,
	rateLimitCfg middleware.RateLimitConfig,
) {
	api := router.Group("/api", middleware.RateLimit(redisClient, rateLimitCfg))

	// Authentication (no auth required)
	api.POST("/auth/discord", authHandler.Callback)

	// Protected Discord proxy + deletion pipeline
	discord := api.Group("/discord", middleware.JWTAuth(jwtManager))
	{
		discord.GET("/servers", discordHandler.GetServers)
		discord.GET("/servers/:server_id/channels", discordHandler.GetChannels)
		discord.GET("/dms", discordHandler.GetDMs)
		discord.GET("/channels/:channel_id/messages", discordHandler.GetMessages)
		discord.DELETE("/channels/:channel_id/messages/:message_id", discordHandler.DeleteMessage)

		discord.POST("/preview", deletionHandler.Preview)
		discord.POST("/delete", deletionHandler.StartDeletion)
		discord.GET("/jobs/:job_id", deletionHandler.GetJob)
		discord.POST("/jobs/:job_id/cancel", deletionHandler.CancelJob)
	}
}
