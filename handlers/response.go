package handlers

import (
	"errors"
	"log"
	"net/http"

	"quizapi/services"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto the response envelope. Validation
// failures surface their message (a list when several fields failed), missing
// quizzes map to 404, anything else is logged and hidden behind a generic 500.
func respondError(c *gin.Context, err error) {
	var reqErr *services.RequestError
	if errors.As(err, &reqErr) {
		var message interface{} = reqErr.Messages[0]
		if len(reqErr.Messages) > 1 {
			message = reqErr.Messages
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": message})
		return
	}

	if errors.Is(err, services.ErrQuizNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Quiz not found"})
		return
	}

	log.Printf("Unexpected error handling %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Server Error"})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": message})
}
