package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clinical-records-server/internal/validation"
)

// DetailKey carries the message of errors that are not tied to a field.
const DetailKey = "detail"

// Success sends a 200 response with data as the body.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 response with the created resource as the body.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NoContent sends an empty 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response of the form {"detail": message}.
func Error(c *gin.Context, statusCode int, errorMessage string) {
	c.JSON(statusCode, gin.H{DetailKey: errorMessage})
}

// FieldErrors sends a 400 response mapping each field to its messages.
func FieldErrors(c *gin.Context, errs validation.Errors) {
	c.JSON(http.StatusBadRequest, errs)
}

// Unauthorized sends a 401 Unauthorized error response.
func Unauthorized(c *gin.Context, errorMessage string) {
	Error(c, http.StatusUnauthorized, errorMessage)
}

// NotFound sends a 404 Not Found error response.
func NotFound(c *gin.Context, errorMessage string) {
	Error(c, http.StatusNotFound, errorMessage)
}

// InternalServerError sends a 500 Internal Server Error response.
func InternalServerError(c *gin.Context, errorMessage string) {
	Error(c, http.StatusInternalServerError, errorMessage)
}
