package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/snotra-ai/snotra-backend/internal/artifacts"
	"github.com/snotra-ai/snotra-backend/internal/gemini"
	"github.com/snotra-ai/snotra-backend/internal/handlers"
	"github.com/snotra-ai/snotra-backend/internal/logger"
	"github.com/snotra-ai/snotra-backend/internal/middleware"
	"github.com/snotra-ai/snotra-backend/internal/server"
	"github.com/snotra-ai/snotra-backend/internal/session"
	"github.com/snotra-ai/snotra-backend/internal/utils"
	"github.com/snotra-ai/snotra-backend/internal/videos"
)

func main() {
	_ = godotenv.Load()

	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Gemini credential pool. An empty pool is not fatal at startup: every
	// generation request fails fast with a configuration error instead.
	pool := gemini.NewPool(gemini.KeysFromEnv(), nil)
	if pool.Size() == 0 {
		log.Warn("No Gemini API keys configured; generation requests will fail until GOOGLE_API_KEY is set")
	} else {
		log.Info("Gemini credential pool ready", "keys", pool.Size())
	}
	aiClient := gemini.NewClient(log, pool)
	generator := artifacts.NewGenerator(log, aiClient)

	// Session store
	log.Info("Setting up session store from main...")
	var store session.Store
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		ttl := time.Duration(utils.GetEnvAsInt("SESSION_TTL_SECONDS", 86400, log)) * time.Second
		redisStore, err := session.NewRedisStore(log, addr, ttl)
		if err != nil {
			log.Warn("Redis session store init failed, falling back to in-memory", "error", err)
			store = session.NewMemoryStore()
		} else {
			defer redisStore.Close()
			store = redisStore
		}
	} else {
		store = session.NewMemoryStore()
	}

	// Video search (best-effort, disabled without a key)
	videoService, err := videos.NewService(context.Background(), log, os.Getenv("YOUTUBE_API_KEY"))
	if err != nil {
		log.Warn("Video search init failed, disabling", "error", err)
		videoService, _ = videos.NewService(context.Background(), log, "")
	}

	// Handlers
	log.Info("Setting up handlers from main...")
	maxUpload := utils.GetEnvAsInt64("MAX_UPLOAD_BYTES", 16*1024*1024, log)
	studyHandler := handlers.NewStudyHandler(log, store, generator, videoService, maxUpload)
	sessionMiddleware := middleware.NewSessionMiddleware(log)

	// Router
	router := server.NewRouter(server.RouterConfig{
		StudyHandler:      studyHandler,
		SessionMiddleware: sessionMiddleware,
	})

	port := utils.GetEnv("PORT", "5000", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
