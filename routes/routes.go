package routes

import (
	"log"
	"net/http"
	"strconv"

	"quizapi/handlers"
	"quizapi/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

func SetupRoutes(
	router *gin.Engine,
	quizHandler *handlers.QuizHandler,
	submissionHandler *handlers.SubmissionHandler,
	hub *services.Hub,
) {
	// API routes
	api := router.Group("/api")
	{
		quizzes := api.Group("/quizzes")
		{
			quizzes.POST("", quizHandler.CreateQuiz)
			quizzes.GET("", quizHandler.GetQuizzes)
			quizzes.GET("/:id", quizHandler.GetQuizByID)
			quizzes.DELETE("/:id", quizHandler.DeleteQuiz)

			quizzes.POST("/:id/submit", submissionHandler.SubmitAnswers)
			quizzes.GET("/:id/submissions", submissionHandler.GetQuizSubmissions)
			quizzes.GET("/:id/stats", submissionHandler.GetQuizStats)
		}
	}

	// WebSocket endpoint streaming live submission results for a quiz
	router.GET("/ws/quizzes/:id/results", func(c *gin.Context) {
		quizID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid quiz ID"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed for quiz %d: %v", quizID, err)
			return
		}

		hub.RegisterClient(conn, uint(quizID))
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
