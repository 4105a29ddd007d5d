package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nishantchy/ecom-microservice/internal/entity"
	"github.com/nishantchy/ecom-microservice/internal/logging"
	"github.com/nishantchy/ecom-microservice/internal/usecase"
	"github.com/shopspring/decimal"
)

type OrderHandler struct {
	create  *usecase.CreateOrder
	query   usecase.OrderRepo
	timeout time.Duration
}

func NewOrderHandler(create *usecase.CreateOrder, query usecase.OrderRepo, timeout time.Duration) *OrderHandler {
	return &OrderHandler{create: create, query: query, timeout: timeout}
}

type createOrderItemReq struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

type createOrderReq struct {
	Items         []createOrderItemReq `json:"items" binding:"required,min=1,dive"`
	PaymentMethod string               `json:"payment_method"`
}

type orderItemResp struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"order_id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type orderResp struct {
	ID              int64           `json:"id"`
	UserID          string          `json:"user_id"`
	OrderNumber     int             `json:"order_number"`
	Status          string          `json:"status"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaymentMethod   string          `json:"payment_method"`
	ShippingAddress string          `json:"shipping_address"`
	CreatedAt       time.Time       `json:"created_at"`
	Items           []orderItemResp `json:"items"`
}

func toOrderResp(o *entity.Order) orderResp {
	items := make([]orderItemResp, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemResp{
			ID:        it.ID,
			OrderID:   it.OrderID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			LineTotal: it.LineTotal,
		})
	}
	return orderResp{
		ID:              o.ID,
		UserID:          o.UserID,
		OrderNumber:     o.OrderNumber,
		Status:          string(o.Status),
		TotalAmount:     o.TotalAmount,
		PaymentMethod:   o.PaymentMethod,
		ShippingAddress: o.ShippingAddress,
		CreatedAt:       o.CreatedAt,
		Items:           items,
	}
}

// bearerToken extracts the credential from the Authorization header. Absent
// or malformed headers fail here, before any remote call.
func bearerToken(c *gin.Context) (string, bool) {
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(auth, "Bearer ")
	return token, token != ""
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	token, ok := bearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	items := make([]usecase.LineItemRequest, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, usecase.LineItemRequest{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()
	ctx = logging.WithCtx(ctx, logging.From(c))

	order, err := h.create.Execute(ctx, usecase.CreateOrderInput{
		Token:         token,
		Items:         items,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		var pe *usecase.PriceError
		switch {
		case errors.Is(err, usecase.ErrUnauthenticated):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		case errors.As(err, &pe):
			// the offending product id is not sensitive; upstream bodies are
			c.JSON(http.StatusBadGateway, gin.H{
				"error":      "upstream_price_error",
				"product_id": pe.ProductID,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		}
		return
	}

	c.JSON(http.StatusCreated, toOrderResp(order))
}

func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	order, err := h.query.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		logging.From(c).Error("order lookup failed", "order_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	c.JSON(http.StatusOK, toOrderResp(order))
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	orders, err := h.query.ListAll(ctx)
	if err != nil {
		logging.From(c).Error("order list failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	out := make([]orderResp, 0, len(orders))
	for i := range orders {
		out = append(out, toOrderResp(&orders[i]))
	}
	c.JSON(http.StatusOK, out)
}
