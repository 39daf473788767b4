package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/domain"
	"storefront/internal/infra"
	"storefront/internal/services"
)

type Handler struct {
	cart    *cart.Engine
	orders  *services.OrderService
	auth    *services.AuthService
	catalog infra.CatalogClientInterface
	logger  *zap.Logger
}

func NewHandler(cart *cart.Engine, orders *services.OrderService, auth *services.AuthService, catalog infra.CatalogClientInterface, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		cart:    cart,
		orders:  orders,
		auth:    auth,
		catalog: catalog,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/cart", h.GetCart)
	r.POST("/cart/items", h.AddCartItem)
	r.PATCH("/cart/items/:productId", h.UpdateCartItem)
	r.DELETE("/cart/items/:productId", h.RemoveCartItem)

	r.POST("/checkout", h.Checkout)

	r.GET("/orders", h.ListOrders)
	r.GET("/orders/:id", h.GetOrder)
	r.GET("/orders/:id/tracking", h.GetTracking)
	r.POST("/orders/:id/status", h.AppendStatusUpdate)

	r.POST("/auth/login", h.Login)
}

// fail maps domain errors onto HTTP statuses. Remote sync failures come
// back as 502 so the UI can offer a retry instead of blaming the input.
func (h *Handler) fail(c *gin.Context, err error) {
	var syncErr *domain.RemoteSyncError
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity), errors.Is(err, services.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.As(err, &syncErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func parseProductID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("productId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid productId"})
		return 0, false
	}
	return id, true
}

func (h *Handler) cartResponse() CartResponse {
	return CartResponse{
		Items: h.cart.Items(),
		Total: h.cart.Total(),
		Count: h.cart.Count(),
	}
}

func (h *Handler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.cartResponse())
}

func (h *Handler) AddCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	product, err := h.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.cart.AddItem(ctx, *product, req.Quantity); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.cartResponse())
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.cart.UpdateQuantity(c.Request.Context(), productID, *req.Quantity); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.cartResponse())
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	if err := h.cart.RemoveItem(c.Request.Context(), productID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.cartResponse())
}

func (h *Handler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orders.Checkout(c.Request.Context(), req.UserID, h.cart.Items(), req.DeliveryAddress, req.PaymentMethod, req.DeliveryFee)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.cart.Clear()
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) ListOrders(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId required"})
		return
	}

	orders, err := h.orders.ListOrders(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) GetTracking(c *gin.Context) {
	order, err := h.orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, NewTrackingResponse(order))
}

func (h *Handler) AppendStatusUpdate(c *gin.Context) {
	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orders.AppendStatusUpdate(c.Request.Context(), c.Param("id"), domain.StatusUpdate{
		Status:   req.Status,
		Location: req.Location,
		Note:     req.Note,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
