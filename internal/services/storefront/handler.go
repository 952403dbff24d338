package storefront

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"food-storefront/internal/address"
	"food-storefront/internal/api"
	"food-storefront/internal/checkout"
	"food-storefront/internal/logger"
	"food-storefront/internal/tracking"
	"food-storefront/internal/validation"
)

// SessionHeader carries the session id on every session-scoped request
const SessionHeader = "X-Session-ID"

// Handler handles HTTP requests for the storefront
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new storefront handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// SetupRoutes registers the storefront API on a new router
func (h *Handler) SetupRoutes() *gin.Engine {
	router := api.NewRouter(h.logger)
	router.GET("/health", h.HealthCheck)

	r := router.Group("/api")
	{
		r.POST("/sessions", h.CreateSession)
		r.DELETE("/sessions", h.EndSession)

		r.GET("/cuisines", h.ListCuisines)
		r.GET("/restaurants", h.ListRestaurants)
		r.GET("/restaurants/:id", h.GetRestaurant)

		cart := r.Group("/cart")
		{
			cart.GET("", h.GetCart)
			cart.POST("/items", h.AddCartItem)
			cart.PUT("/items/:line_id", h.UpdateCartItem)
			cart.DELETE("/items/:line_id", h.RemoveCartItem)
			cart.PUT("/promo", h.ApplyPromo)
		}

		addresses := r.Group("/addresses")
		{
			addresses.GET("", h.ListAddresses)
			addresses.POST("", h.AddAddress)
			addresses.DELETE("/:id", h.RemoveAddress)
			addresses.PUT("/:id/select", h.SelectAddress)
			addresses.PUT("/:id/default", h.SetDefaultAddress)
		}

		r.POST("/checkout", h.Checkout)

		orders := r.Group("/orders")
		{
			orders.GET("/history", h.ListHistory)
			orders.POST("/history/:id/reorder", h.Reorder)
			orders.GET("/active", h.ActiveOrders)
			orders.GET("/:id/tracker", h.GetTracker)
		}
	}

	return router
}

// fail writes err with the status matching its kind
func (h *Handler) fail(c *gin.Context, action string, err error) {
	if api.WriteValidationError(c, err) {
		return
	}
	if errors.Is(err, tracking.ErrOrderNotFound) {
		api.WriteError(c, http.StatusNotFound, "Order not found", nil)
		return
	}
	h.logger.Error(action, "Request failed", api.RequestID(c), err, map[string]interface{}{
		"path": c.FullPath(),
	})
	api.WriteError(c, http.StatusInternalServerError, "Internal server error", nil)
}

func sessionID(c *gin.Context) (string, bool) {
	id := c.GetHeader(SessionHeader)
	if id == "" {
		api.WriteError(c, http.StatusBadRequest, "Missing session",
			validation.Errors{validation.Missing("sessionId", SessionHeader+" header is required")})
		return "", false
	}
	return id, true
}

// POST /api/sessions
func (h *Handler) CreateSession(c *gin.Context) {
	s := h.service.StartSession()
	c.JSON(http.StatusCreated, gin.H{
		"session_id": s.ID,
		"created_at": s.CreatedAt.Format(time.RFC3339),
	})
}

// DELETE /api/sessions
func (h *Handler) EndSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	if err := h.service.EndSession(id); err != nil {
		h.fail(c, "session_end_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/cuisines
func (h *Handler) ListCuisines(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"cuisines": h.service.Cuisines()})
}

// GET /api/restaurants?cuisine=
func (h *Handler) ListRestaurants(c *gin.Context) {
	cuisine := c.DefaultQuery("cuisine", "All")
	c.JSON(http.StatusOK, gin.H{
		"cuisine":     cuisine,
		"restaurants": h.service.Restaurants(cuisine),
	})
}

// GET /api/restaurants/:id
func (h *Handler) GetRestaurant(c *gin.Context) {
	r, err := h.service.Restaurant(c.Param("id"))
	if err != nil {
		h.fail(c, "restaurant_lookup_failed", err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// GET /api/cart
func (h *Handler) GetCart(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	view, err := h.service.Cart(id)
	if err != nil {
		h.fail(c, "cart_lookup_failed", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type addItemRequest struct {
	RestaurantID string `json:"restaurant_id" binding:"required"`
	ItemID       string `json:"item_id" binding:"required"`
	Variant      string `json:"variant"`
}

// POST /api/cart/items
func (h *Handler) AddCartItem(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req addItemRequest
	if !api.BindJSON(c, &req) {
		return
	}

	view, err := h.service.AddToCart(id, req.RestaurantID, req.ItemID, req.Variant)
	if err != nil {
		h.fail(c, "cart_add_failed", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type quantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// PUT /api/cart/items/:line_id
// A quantity below 1 removes the line.
func (h *Handler) UpdateCartItem(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req quantityRequest
	if !api.BindJSON(c, &req) {
		return
	}

	view, err := h.service.SetQuantity(id, c.Param("line_id"), *req.Quantity)
	if err != nil {
		h.fail(c, "cart_update_failed", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DELETE /api/cart/items/:line_id
func (h *Handler) RemoveCartItem(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	view, err := h.service.RemoveLine(id, c.Param("line_id"))
	if err != nil {
		h.fail(c, "cart_remove_failed", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type promoRequest struct {
	Code string `json:"code"`
}

// PUT /api/cart/promo
func (h *Handler) ApplyPromo(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req promoRequest
	if !api.BindJSON(c, &req) {
		return
	}
	view, err := h.service.ApplyPromo(id, req.Code)
	if err != nil {
		h.fail(c, "promo_failed", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GET /api/addresses
func (h *Handler) ListAddresses(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	view, err := h.service.Addresses(id)
	if err != nil {
		h.fail(c, "address_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// POST /api/addresses
// The body is validated by the address form rules, not by gin binding.
func (h *Handler) AddAddress(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var form address.Form
	if !api.BindJSON(c, &form) {
		return
	}

	created, err := h.service.AddAddress(id, form)
	if err != nil {
		h.fail(c, "address_add_failed", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// DELETE /api/addresses/:id
func (h *Handler) RemoveAddress(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	if err := h.service.RemoveAddress(id, c.Param("id")); err != nil {
		h.fail(c, "address_remove_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PUT /api/addresses/:id/select
func (h *Handler) SelectAddress(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	view, err := h.service.SelectAddress(id, c.Param("id"))
	if err != nil {
		h.fail(c, "address_select_failed", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// PUT /api/addresses/:id/default
func (h *Handler) SetDefaultAddress(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	view, err := h.service.SetDefaultAddress(id, c.Param("id"))
	if err != nil {
		h.fail(c, "address_default_failed", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// POST /api/checkout
func (h *Handler) Checkout(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var sel checkout.Selection
	if !api.BindJSON(c, &sel) {
		return
	}

	placed, err := h.service.Checkout(c.Request.Context(), id, sel)
	if err != nil {
		if api.WriteValidationError(c, err) {
			return
		}
		h.logger.Error("checkout_failed", "Order submission failed", api.RequestID(c), err, map[string]interface{}{
			"session_id": id,
		})
		api.WriteError(c, http.StatusBadGateway, "Order submission failed", nil)
		return
	}
	c.JSON(http.StatusCreated, placed)
}

// GET /api/orders/history?status=
func (h *Handler) ListHistory(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	orders, err := h.service.History(id, c.Query("status"))
	if err != nil {
		h.fail(c, "history_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// POST /api/orders/history/:id/reorder
func (h *Handler) Reorder(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	added, view, err := h.service.Reorder(id, c.Param("id"))
	if err != nil {
		h.fail(c, "reorder_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"added": added,
		"cart":  view,
	})
}

// GET /api/orders/active
func (h *Handler) ActiveOrders(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	views, err := h.service.ActiveOrders(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "active_orders_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": views})
}

// GET /api/orders/:id/tracker?estimate=
func (h *Handler) GetTracker(c *gin.Context) {
	view, err := h.service.Tracker(c.Request.Context(), c.Param("id"), c.Query("estimate"))
	if err != nil {
		h.fail(c, "tracker_failed", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "storefront-service",
	})
}
