package main

import (
	"log"

	"quizapi/config"
	"quizapi/handlers"
	"quizapi/middleware"
	"quizapi/models"
	"quizapi/routes"
	"quizapi/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.Quiz{},
		&models.Question{},
		&models.Option{},
		&models.QuizSubmission{},
		&models.UserAnswer{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// Initialize services
	statsService := services.NewStatsService(redisClient)
	quizService := services.NewQuizService(db)
	submissionService := services.NewSubmissionService(db, statsService)

	// Initialize WebSocket hub for live results
	hub := services.NewHub()
	go hub.Run()

	// Initialize handlers
	quizHandler := handlers.NewQuizHandler(quizService)
	submissionHandler := handlers.NewSubmissionHandler(submissionService, statsService, hub)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, quizHandler, submissionHandler, hub)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
