package tracking

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"food-storefront/internal/api"
	"food-storefront/internal/logger"
	"food-storefront/internal/tracking"
)

// Handler handles HTTP requests for the tracking service
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new tracking handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// SetupRoutes sets up the HTTP routes
func (h *Handler) SetupRoutes() *gin.Engine {
	router := api.NewRouter(h.logger)
	router.GET("/orders/:order_number/status", h.GetOrderStatus)
	router.GET("/orders/:order_number/tracker", h.GetTracker)
	router.GET("/health", h.HealthCheck)
	return router
}

// GET /orders/:order_number/status
func (h *Handler) GetOrderStatus(c *gin.Context) {
	orderNumber, ok := h.orderNumber(c)
	if !ok {
		return
	}

	status, err := h.service.GetOrderStatus(c.Request.Context(), orderNumber, api.RequestID(c))
	if err != nil {
		h.lookupFailed(c, orderNumber, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// GET /orders/:order_number/tracker?estimate=
func (h *Handler) GetTracker(c *gin.Context) {
	orderNumber, ok := h.orderNumber(c)
	if !ok {
		return
	}

	view, err := h.service.GetTracker(c.Request.Context(), orderNumber, c.Query("estimate"), api.RequestID(c))
	if err != nil {
		h.lookupFailed(c, orderNumber, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	healthy := h.service.HealthCheck(c.Request.Context())

	response := gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "tracking-service",
		"healthy":   healthy,
	}
	if !healthy {
		response["status"] = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}
	c.JSON(http.StatusOK, response)
}

// orderNumber accepts ids in the ORD_YYYYMMDD_NNN format only
func (h *Handler) orderNumber(c *gin.Context) (string, bool) {
	orderNumber := c.Param("order_number")
	if len(orderNumber) < 16 || !strings.HasPrefix(orderNumber, "ORD_") {
		api.WriteError(c, http.StatusBadRequest, "Invalid order number", nil)
		return "", false
	}
	return orderNumber, true
}

func (h *Handler) lookupFailed(c *gin.Context, orderNumber string, err error) {
	if errors.Is(err, tracking.ErrOrderNotFound) {
		api.WriteError(c, http.StatusNotFound, "Order not found", nil)
		return
	}
	h.logger.Error("status_lookup_failed", "Failed to get order status", api.RequestID(c), err, map[string]interface{}{
		"order_number": orderNumber,
	})
	api.WriteError(c, http.StatusInternalServerError, "Internal server error", nil)
}
