package controllers

import (
	"errors"
	"net/http"

	"github.com/dmarrero/gin-shop-api/internal/middleware"
	"github.com/dmarrero/gin-shop-api/internal/models"
	"github.com/dmarrero/gin-shop-api/internal/services"
	"github.com/gin-gonic/gin"
)

// OrderController handles HTTP requests related to orders
type OrderController interface {
	// CreateOrder creates an order for the authenticated user
	CreateOrder(c *gin.Context)
	// GetAllOrders lists every order (admin only)
	GetAllOrders(c *gin.Context)
	// GetMyOrders lists the authenticated user's orders
	GetMyOrders(c *gin.Context)
	// GetOrderByID retrieves an order (owner or admin)
	GetOrderByID(c *gin.Context)
	// PayOrder marks an order as paid (owner or admin)
	PayOrder(c *gin.Context)
}

type orderController struct {
	service services.OrderService
}

// NewOrderController creates a new instance of OrderController
func NewOrderController(service services.OrderService) *orderController {
	return &orderController{service: service}
}

// CreateOrder godoc
// @Summary Create an order
// @Description Create an order; item prices are resolved server-side from the catalog
// @Tags orders
// @Accept json
// @Produce json
// @Param body body object true "items, tax, shippingFee"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/orders [post]
func (oc *orderController) CreateOrder(ctx *gin.Context) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "authentication invalid"})
		return
	}

	var req struct {
		Items       []services.OrderItemRequest `json:"items" binding:"required"`
		Tax         float64                     `json:"tax"`
		ShippingFee float64                     `json:"shippingFee"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := oc.service.CreateOrder(identity.UserID, req.Items, req.Tax, req.ShippingFee)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrValidation):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "no order items provided"})
		case errors.Is(err, models.ErrNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create order"})
		}
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"order": order, "clientSecret": order.ClientSecret})
}

// GetAllOrders godoc
// @Summary List orders
// @Description Get all orders (admin only)
// @Tags orders
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string
// @Router /api/v1/orders [get]
func (oc *orderController) GetAllOrders(ctx *gin.Context) {
	orders, err := oc.service.GetAllOrders()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve orders"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
}

// GetMyOrders godoc
// @Summary List my orders
// @Description Get the authenticated user's orders
// @Tags orders
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/orders/showAllMyOrders [get]
func (oc *orderController) GetMyOrders(ctx *gin.Context) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "authentication invalid"})
		return
	}

	orders, err := oc.service.GetUserOrders(identity.UserID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve orders"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
}

// GetOrderByID godoc
// @Summary Get order by ID
// @Description Get a single order; only the owner or an admin may read it
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/orders/{id} [get]
func (oc *orderController) GetOrderByID(ctx *gin.Context) {
	order, ok := oc.loadOwnedOrder(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// PayOrder godoc
// @Summary Pay an order
// @Description Mark an order as paid; only the owner or an admin may do this
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/orders/{id} [patch]
func (oc *orderController) PayOrder(ctx *gin.Context) {
	order, ok := oc.loadOwnedOrder(ctx)
	if !ok {
		return
	}

	updated, err := oc.service.UpdateOrderStatus(order.ID, models.OrderPaid)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order": updated})
}

// loadOwnedOrder fetches the order and enforces owner-or-admin access. It
// writes the error response itself when the second return value is false.
func (oc *orderController) loadOwnedOrder(ctx *gin.Context) (models.Order, bool) {
	id, err := parseIDParam(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
		return models.Order{}, false
	}

	order, err := oc.service.GetOrderByID(id)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return models.Order{}, false
	}

	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "authentication invalid"})
		return models.Order{}, false
	}
	if order.UserID != identity.UserID && identity.Role != models.RoleAdmin {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
		return models.Order{}, false
	}

	return order, true
}
