package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"food-storefront/internal/logger"
	"food-storefront/internal/validation"
)

const (
	requestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"
)

// RequestLogger assigns a request id and logs each request's start and end
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = logger.GenerateRequestID()
		}
		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		log.Debug("request_started",
			fmt.Sprintf("%s %s", c.Request.Method, c.Request.URL.Path),
			requestID,
			map[string]interface{}{
				"method":      c.Request.Method,
				"path":        c.Request.URL.Path,
				"remote_addr": c.ClientIP(),
				"user_agent":  c.Request.UserAgent(),
			})

		c.Next()

		log.Debug("request_completed",
			fmt.Sprintf("%s %s - %d", c.Request.Method, c.Request.URL.Path, c.Writer.Status()),
			requestID,
			map[string]interface{}{
				"method":      c.Request.Method,
				"path":        c.FullPath(),
				"status_code": c.Writer.Status(),
				"duration_ms": time.Since(start).Milliseconds(),
			})
	}
}

// RequestID returns the id assigned by RequestLogger
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// NewRouter returns a gin engine with recovery and request logging
func NewRouter(log *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))
	router.NoRoute(func(c *gin.Context) {
		WriteError(c, http.StatusNotFound, "Endpoint not found", nil)
	})
	return router
}

type errorResponse struct {
	Error     string            `json:"error"`
	Fields    validation.Errors `json:"fields,omitempty"`
	Timestamp string            `json:"timestamp"`
	RequestID string            `json:"request_id"`
}

// WriteError aborts the request with a JSON error body
func WriteError(c *gin.Context, statusCode int, message string, fields validation.Errors) {
	c.AbortWithStatusJSON(statusCode, errorResponse{
		Error:     message,
		Fields:    fields,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: RequestID(c),
	})
}

// WriteValidationError maps validation failures to 404 for unresolved ids
// and 400 for everything else. It reports false for other errors.
func WriteValidationError(c *gin.Context, err error) bool {
	fields := validation.Collect(err)
	if fields == nil {
		return false
	}
	if errors.Is(err, validation.ErrInvalidReference) {
		WriteError(c, http.StatusNotFound, fields[0].Message, fields)
		return true
	}
	WriteError(c, http.StatusBadRequest, "Validation failed", fields)
	return true
}

// BindJSON decodes the body into v. Binding failures are reported as a
// single InvalidField error on "body".
func BindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		WriteError(c, http.StatusBadRequest, "Invalid request body",
			validation.Errors{validation.Invalid("body", err.Error())})
		return false
	}
	return true
}
