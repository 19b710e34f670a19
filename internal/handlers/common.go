package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cinegrok-backend/internal/middleware"
	"cinegrok-backend/internal/models"
	"cinegrok-backend/internal/services"
)

// currentUser reads the authenticated user id. It writes the error
// response itself and reports false when there is none.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: middleware.AuthRequired})
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid user id"})
		return uuid.Nil, false
	}
	return userID, true
}

// optionalUser is currentUser for routes behind OptionalAuth.
func optionalUser(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := c.Get(middleware.UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr.(string))
	return userID, err == nil
}

func filmmakerParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid filmmaker id"})
		return uuid.Nil, false
	}
	return id, true
}

func validationFailed(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusUnprocessableEntity, models.ValidationErrorResponse{
		Error:  "validation failed",
		Fields: fields,
	})
}

// bindFailed answers a request body that did not bind.
func bindFailed(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "invalid request body",
		Message: err.Error(),
	})
}

// noDatabase reports, and answers, a handler built without its store.
func noDatabase(c *gin.Context, store any) bool {
	if store != nil {
		return false
	}
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
	return true
}

// storeFailed maps a store error onto 404 or 500.
func storeFailed(c *gin.Context, err error, what string) {
	if services.IsNotFound(err) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: what + " not found"})
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   "failed to load " + what,
		Message: err.Error(),
	})
}
