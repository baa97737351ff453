// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"net/http"

	"leadtrack_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

// The admin frontend expects every response in a success envelope:
// `{"success": true, ...}` on success, `{"success": false, "error": "..."}`
// on failure.

// JSON sends a success response with the given status code, merging the
// payload fields into the envelope.
func JSON(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for key, value := range payload {
		body[key] = value
	}
	c.JSON(status, body)
}

// OK sends a 200 OK success envelope with the given payload fields.
func OK(c *gin.Context, payload gin.H) {
	JSON(c, http.StatusOK, payload)
}

// Created sends a 201 Created success envelope with the given payload fields.
func Created(c *gin.Context, payload gin.H) {
	JSON(c, http.StatusCreated, payload)
}

// Error sends a failure envelope with the given status code and message.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

// HandleError maps domain errors to HTTP responses.
// If the error is a typed *apperr.Error, its Kind determines the status code.
// Otherwise it defaults to 400 Bad Request.
// Returns true if an error was handled, false otherwise.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	if domainErr, ok := err.(*apperr.Error); ok {
		Error(c, domainErr.HTTPStatus(), domainErr.Message)
		return true
	}

	Error(c, http.StatusBadRequest, err.Error())
	return true
}
