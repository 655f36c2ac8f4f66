package handler

import (
	"strconv"

	"github.com/ferreteria/ordenes-api/internal/application/service"
	"github.com/ferreteria/ordenes-api/internal/domain/entity"
	"github.com/ferreteria/ordenes-api/internal/presentation/http/dto/request"
	"github.com/ferreteria/ordenes-api/internal/presentation/http/dto/response"
	"github.com/ferreteria/ordenes-api/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// NextCode returns the code the next order is expected to get. Clients may
// send it back as "code" so the number shown on screen is the one stored.
func (h *OrderHandler) NextCode(c *gin.Context) {
	code, err := h.orderService.PreviewCode(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Next order code", gin.H{"code": code})
}

// Submit handles registering an order
func (h *OrderHandler) Submit(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	items := make([]service.ItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.ItemInput{
			Product:  item.Product,
			Price:    item.Price,
			Quantity: item.Quantity,
		}
	}

	code, err := h.orderService.Submit(c.Request.Context(), &service.SubmitOrderInput{
		Customer:        req.Customer,
		Address:         req.Address,
		Phone:           req.Phone,
		District:        req.District,
		Region:          req.Region,
		Items:           items,
		OwnerID:         userID,
		PreassignedCode: req.Code,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	order, err := h.orderService.Get(c.Request.Context(), code)
	if err != nil {
		response.Created(c, "Order registered successfully", gin.H{"code": code})
		return
	}
	response.Created(c, "Order registered successfully", orderView(order))
}

// List handles listing the most recent orders. Admins see every order.
func (h *OrderHandler) List(c *gin.Context) {
	if GetUserID(c) == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		response.Error(c, apperror.NewValidationError([]apperror.FieldError{
			{Field: "limit", Message: "limit must be a non-negative integer"},
		}))
		return
	}

	orders, err := h.orderService.List(c.Request.Context(), limit, ownerFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	views := make([]gin.H, len(orders))
	for i := range orders {
		views[i] = orderView(&orders[i])
	}
	response.List(c, "Orders retrieved successfully", views, len(views))
}

// Get handles getting a single order by code
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.orderService.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if !canSee(c, order.OwnerID) {
		response.Error(c, apperror.NewNotFoundError("Order"))
		return
	}

	response.OK(c, "Order retrieved successfully", orderView(order))
}

// canSee reports whether the caller may read a record owned by ownerID.
// Records without an owner predate user accounts and are visible to all.
func canSee(c *gin.Context, ownerID *uint) bool {
	if IsAdmin(c) || ownerID == nil {
		return true
	}
	userID := GetUserID(c)
	return userID != nil && *userID == *ownerID
}

func orderView(o *entity.Order) gin.H {
	return gin.H{
		"code":       o.Code,
		"customer":   o.Customer,
		"address":    o.Address,
		"phone":      o.Phone,
		"district":   o.District,
		"region":     o.Region,
		"items":      o.Items,
		"item_count": o.ItemCount(),
		"net":        o.Net.StringFixed(2),
		"created_at": o.CreatedAt,
		"owner_id":   o.OwnerID,
	}
}
