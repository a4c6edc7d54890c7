package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	"github.com/redact/redact-backend/internal/config"
	"github.com/redact/redact-backend/internal/discord"
	"github.com/redact/redact-backend/internal/handler"
	"github.com/redact/redact-backend/internal/jobstore"
	"github.com/redact/redact-backend/internal/middleware"
	"github.com/redact/redact-backend/internal/routes"
	"github.com/redact/redact-backend/internal/service"
	"github.com/redact/redact-backend/pkg/jwt"
	pkglogger "github.com/redact/redact-backend/pkg/logger"
	pkgredis "github.com/redact/redact-backend/pkg/redis"
)

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.Init(env)
	logger := pkglogger.GetLogger()
	logger.Info().Str("env", env).Strs("dotenv_files", dotenvFiles).Msg("starting redact-backend")

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Redis connection. Rate limiting and the job store degrade to
	// in-process behavior without it.
	var redisClient *goredis.Client
	if cfg.Redis.Enabled {
		redisClient, err = pkgredis.NewClient(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Redis.PoolSize,
		)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to connect to Redis, continuing without it")
			redisClient = nil
		} else {
			logger.Info().Msg("connected to Redis")
		}
	}

	var store jobstore.Store
	if redisClient != nil {
		store = jobstore.NewRedis(redisClient, cfg.Deletion.JobTTL())
	} else {
		store = jobstore.NewMemory()
	}

	// Discord client pool
	pool := discord.NewPool(discord.Config{
		ClientID:     cfg.Discord.ClientID,
		ClientSecret: cfg.Discord.ClientSecret,
		RedirectURI:  cfg.Discord.RedirectURI,
		APIBase:      cfg.Discord.APIBase,
	}, 15*time.Minute)
	defer pool.Close()
	provider := service.NewPoolProvider(pool)

	// The OAuth callback runs before any user identity exists, so it uses
	// its own client outside the per-user pool
	authClient := discord.NewClient(discord.Config{
		ClientID:     cfg.Discord.ClientID,
		ClientSecret: cfg.Discord.ClientSecret,
		RedirectURI:  cfg.Discord.RedirectURI,
		APIBase:      cfg.Discord.APIBase,
	})

	// JWT Manager
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresDays)

	// Services
	authService := service.NewAuthService(authClient, jwtManager)
	discordService := service.NewDiscordService(provider)
	deletionService := service.NewDeletionService(provider, store, service.DeletionPolicy{
		PreviewPages:   cfg.Deletion.PreviewPages,
		MaxPages:       cfg.Deletion.MaxPages,
		PageSize:       cfg.Deletion.PageSize,
		DeleteInterval: cfg.Deletion.DeleteInterval(),
	})

	// Gin router
	if cfg.Server.Env != "local" && cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORS.AllowOrigins},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health and metrics endpoints
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rateLimitCfg := middleware.DefaultRateLimitConfig()
	rateLimitCfg.RequestsPerMinute = cfg.RateLimit.RequestsPerMinute

	routes.Setup(router,
		handler.NewAuthHandler(authService),
		handler.NewDiscordHandler(discordService),
		handler.NewDeletionHandler(deletionService),
		jwtManager,
		redisClient,
		rateLimitCfg,
	)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info().Str("addr", addr).Msg("listening")
	if err := router.Run(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
