package controllers

import (
	"net/http"
	"strconv"

	ierr "procurify-api/errors"
	"procurify-api/logger"
	"procurify-api/middleware"
	"procurify-api/models"

	"github.com/gin-gonic/gin"
)

// respondError writes err as {"error": code, "message": hint}. Server-side
// failures are logged and get a generic message.
func respondError(c *gin.Context, err error) {
	status := ierr.HTTPStatusFromErr(err)
	code := ierr.Code(err)
	message := ierr.Hint(err, "An unexpected error occurred")
	if status >= http.StatusInternalServerError {
		logger.L.Errorw("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"code", code,
			"error", err,
		)
		message = "An unexpected error occurred"
	}
	c.JSON(status, gin.H{"error": code, "message": message})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": ierr.ErrCodeValidation, "message": message})
}

func currentActor(c *gin.Context) (models.Actor, bool) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return models.Actor{}, false
	}
	return actor, true
}

// pageParams reads ?limit= and ?offset=. Bad values fall back to defaults.
func pageParams(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	return limit, offset
}
