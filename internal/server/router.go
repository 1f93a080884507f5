package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/snotra-ai/snotra-backend/internal/handlers"
	"github.com/snotra-ai/snotra-backend/internal/middleware"
)

type RouterConfig struct {
	StudyHandler      *handlers.StudyHandler
	SessionMiddleware *middleware.SessionMiddleware
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	study := router.Group("/")
	study.Use(cfg.SessionMiddleware.EnsureSession())
	study.POST("/upload", cfg.StudyHandler.Upload)
	study.POST("/summarize", cfg.StudyHandler.Summarize)
	study.POST("/generate-quiz", cfg.StudyHandler.GenerateQuiz)
	study.POST("/generate-mock-test", cfg.StudyHandler.GenerateMockTest)
	study.POST("/generate-mindmap", cfg.StudyHandler.GenerateMindMap)
	study.POST("/chat", cfg.StudyHandler.Chat)
	study.POST("/search-videos", cfg.StudyHandler.SearchVideos)
	study.POST("/clear-session", cfg.StudyHandler.ClearSession)

	return router
}
