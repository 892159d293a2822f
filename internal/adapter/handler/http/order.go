package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/govalues/decimal"
	"github.com/grupo7/ecommerce-api/internal/adapter/metrics"
	"github.com/grupo7/ecommerce-api/internal/core/domain"
	"github.com/grupo7/ecommerce-api/internal/core/port"
	"go.uber.org/zap"
)

type OrderHandler struct {
	Handler
	service port.Service
	metrics *metrics.ServerMetrics
}

func NewOrderHandler(service port.Service, m *metrics.ServerMetrics, logger *zap.Logger) (*OrderHandler, error) {
	return &OrderHandler{
		Handler: Handler{logger: logger},
		service: service,
		metrics: m,
	}, nil
}

type orderAddressRequest struct {
	FirstName  string `json:"firstName" binding:"required"`
	LastName   string `json:"lastName" binding:"required"`
	DNI        string `json:"dni"`
	Address    string `json:"address" binding:"required"`
	City       string `json:"city" binding:"required"`
	PostalCode string `json:"postalCode" binding:"required"`
}

type orderPaymentRequest struct {
	CardNumber     string `json:"cardNumber" binding:"required"`
	ExpiryDate     string `json:"expiryDate" binding:"required"`
	CVV            string `json:"cvv" binding:"required"`
	CardholderName string `json:"cardholderName" binding:"required"`
}

type orderItemRequest struct {
	ProductID uint64 `json:"productId" binding:"required"`
	Quantity  int32  `json:"quantity" binding:"required,gte=1"`
}

type createOrderRequest struct {
	Billing  orderAddressRequest  `json:"billing" binding:"required"`
	Shipping *orderAddressRequest `json:"shipping"`
	Payment  orderPaymentRequest  `json:"payment" binding:"required"`
	Items    []orderItemRequest   `json:"items" binding:"required"`
}

type orderItemResponse struct {
	ID         uint64          `json:"id"`
	ProductID  uint64          `json:"productId"`
	Quantity   int32           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

type addressResponse struct {
	ID         uint64 `json:"id"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	DNI        string `json:"dni,omitempty"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
}

type paymentResponse struct {
	Method         string `json:"method"`
	CardholderName string `json:"cardholderName"`
	CardLast4      string `json:"cardLast4"`
	ExpiryDate     string `json:"expiryDate"`
}

type orderResponse struct {
	ID          uint64              `json:"id"`
	Number      string              `json:"orderNumber"`
	Status      string              `json:"status"`
	TotalAmount decimal.Decimal     `json:"totalAmount"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
	Items       []orderItemResponse `json:"items,omitempty"`
	Billing     *addressResponse    `json:"billingAddress,omitempty"`
	Shipping    *addressResponse    `json:"shippingAddress,omitempty"`
	Payment     *paymentResponse    `json:"payment,omitempty"`
}

// newOrderResponse flattens the aggregate into an acyclic view. Sealed card
// data never leaves the server; only display fields are exposed.
func newOrderResponse(o *domain.Order) orderResponse {
	resp := orderResponse{
		ID:          o.ID,
		Number:      o.Number,
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}

	for _, item := range o.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			ID:         item.ID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		})
	}

	resp.Billing = newAddressResponse(o.Billing)
	resp.Shipping = newAddressResponse(o.Shipping)

	if o.Payment != nil {
		resp.Payment = &paymentResponse{
			Method:         o.Payment.PaymentMethod,
			CardholderName: o.Payment.CardholderName,
			CardLast4:      o.Payment.CardLast4,
			ExpiryDate:     o.Payment.ExpiryDate,
		}
	}

	return resp
}

func newAddressResponse(a *domain.Address) *addressResponse {
	if a == nil {
		return nil
	}
	return &addressResponse{
		ID:         a.ID,
		FirstName:  a.FirstName,
		LastName:   a.LastName,
		DNI:        a.DNI,
		Address:    a.Street,
		City:       a.City,
		PostalCode: a.PostalCode,
	}
}

func newCheckout(req *createOrderRequest) *domain.Checkout {
	checkout := &domain.Checkout{
		Billing: domain.Address{
			FirstName:  req.Billing.FirstName,
			LastName:   req.Billing.LastName,
			DNI:        req.Billing.DNI,
			Street:     req.Billing.Address,
			City:       req.Billing.City,
			PostalCode: req.Billing.PostalCode,
		},
		Payment: domain.CardDetails{
			Number:     req.Payment.CardNumber,
			ExpiryDate: req.Payment.ExpiryDate,
			CVV:        req.Payment.CVV,
			HolderName: req.Payment.CardholderName,
		},
	}
	if req.Shipping != nil {
		checkout.Shipping = &domain.Address{
			FirstName:  req.Shipping.FirstName,
			LastName:   req.Shipping.LastName,
			Street:     req.Shipping.Address,
			City:       req.Shipping.City,
			PostalCode: req.Shipping.PostalCode,
		}
	}
	for _, item := range req.Items {
		checkout.Items = append(checkout.Items, domain.CheckoutItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return checkout
}

func (oh *OrderHandler) CreateOrder(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	req := createOrderRequest{}
	err := ctx.ShouldBindBodyWithJSON(&req)
	if err != nil {
		oh.metrics.Checkouts.WithLabelValues("invalid").Inc()
		oh.handleValidationError(ctx, err)
		return
	}

	order, err := oh.service.CreateOrder(ctx, userID, newCheckout(&req))
	if err != nil {
		oh.metrics.Checkouts.WithLabelValues(checkoutOutcome(err)).Inc()
		oh.handleError(ctx, err)
		return
	}

	oh.metrics.Checkouts.WithLabelValues("success").Inc()
	oh.handleSuccessWithStatus(ctx, newOrderResponse(order), http.StatusCreated)
}

func checkoutOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrProductNotFound):
		return "product_not_found"
	case errors.Is(err, domain.ErrEmptyOrder), errors.Is(err, domain.ErrBadRequest):
		return "invalid"
	default:
		return "error"
	}
}

func (oh *OrderHandler) GetOrder(ctx *gin.Context) {
	orderID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	order, err := oh.service.GetOrder(ctx, orderID)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccess(ctx, newOrderResponse(order))
}

func (oh *OrderHandler) GetOrderByNumber(ctx *gin.Context) {
	order, err := oh.service.GetOrderByNumber(ctx, ctx.Param("number"))
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccess(ctx, newOrderResponse(order))
}

func (oh *OrderHandler) ListOrdersByUser(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	list, err := oh.service.GetOrdersByUser(ctx, userID)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	result := make([]orderResponse, 0, len(list))
	for _, o := range list {
		result = append(result, newOrderResponse(o))
	}

	oh.handleSuccess(ctx, result)
}

func (oh *OrderHandler) ListOrdersByStatus(ctx *gin.Context) {
	status := domain.OrderStatus(strings.ToUpper(ctx.Param("status")))

	list, err := oh.service.GetOrdersByStatus(ctx, status)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	result := make([]orderResponse, 0, len(list))
	for _, o := range list {
		result = append(result, newOrderResponse(o))
	}

	oh.handleSuccess(ctx, result)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (oh *OrderHandler) UpdateOrderStatus(ctx *gin.Context) {
	orderID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	req := updateStatusRequest{}
	err = ctx.ShouldBindBodyWithJSON(&req)
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	order, err := oh.service.UpdateOrderStatus(ctx, orderID,
		domain.OrderStatus(strings.ToUpper(req.Status)))
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccess(ctx, newOrderResponse(order))
}
