package main

import (
	"context"
	"log"
	"os"

	"aijustice-backend/gateway"
	"aijustice-backend/handlers"
	"aijustice-backend/repository"
	"aijustice-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"
)

func main() {
	// Load .env file from project root (relative to cmd/server/)
	// Try current directory first, then project root
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			log.Printf("Warning: No .env file found, using environment variables")
		}
	}

	// Initialize Gemini client. A missing credential is fatal: no request
	// is ever attempted without one.
	geminiClient, err := initGemini()
	if err != nil {
		log.Fatal("Failed to initialize Gemini:", err)
	}
	defer geminiClient.Close()

	model := os.Getenv("GEMINI_MODEL")
	gw := gateway.NewGemini(geminiClient, model)

	// Initialize repositories. Everything is memory-only and resets on
	// restart.
	sessionRepo := repository.NewSessionRepository()
	analysisRepo := repository.NewAnalysisRepository()

	// Initialize services
	analysisService := service.NewAnalysisService(
		service.AnalysisWithGateway(gw),
		service.AnalysisWithRepository(analysisRepo),
	)
	chatService := service.NewChatService(
		service.ChatWithGateway(gw),
	)
	sessionService := service.NewSessionService(
		service.SessionWithRepository(sessionRepo),
	)

	// Initialize handlers
	analysisHandler := handlers.NewAnalysisHandler(analysisService)
	chatHandler := handlers.NewChatHandler(sessionService, chatService)
	documentHandler := handlers.NewDocumentHandler(analysisService)

	// Setup Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Analysis endpoints
		api.POST("/analyses/case", analysisHandler.AnalyzeCase)
		api.POST("/analyses/bias", analysisHandler.DetectBias)
		api.GET("/analyses/:id", analysisHandler.GetAnalysis)
		api.GET("/analyses", analysisHandler.ListAnalyses)

		// Document endpoints
		api.POST("/documents/analyze", documentHandler.AnalyzeDocument)

		// Chat session endpoints
		api.POST("/sessions", chatHandler.CreateSession)
		api.GET("/sessions/:id", chatHandler.GetSession)
		api.GET("/sessions/:id/messages", chatHandler.GetMessages)
		api.POST("/sessions/:id/messages", chatHandler.SendMessage)
		api.DELETE("/sessions/:id", chatHandler.DeleteSession)
	}

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func initGemini() (*genai.Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Fatal("GEMINI_API_KEY environment variable is not set")
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	log.Println("Gemini client initialized")
	return client, nil
}
