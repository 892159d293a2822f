package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/govalues/decimal"
	"github.com/grupo7/ecommerce-api/internal/core/domain"
	"github.com/grupo7/ecommerce-api/internal/core/port"
	"go.uber.org/zap"
)

type ProductHandler struct {
	Handler
	service port.Service
}

func NewProductHandler(service port.Service, logger *zap.Logger) (*ProductHandler, error) {
	return &ProductHandler{
		Handler: Handler{logger: logger},
		service: service,
	}, nil
}

type createProductRequest struct {
	Name        string                  `json:"name" binding:"required"`
	Description string                  `json:"description"`
	Category    string                  `json:"category"`
	Image       string                  `json:"image"`
	Price       float64                 `json:"price" binding:"required,gt=0"`
	Discount    *float64                `json:"discount"`
	Stock       int32                   `json:"stock" binding:"gte=0"`
	Kind        string                  `json:"kind" binding:"required,oneof=PHYSICAL DIGITAL"`
	Physical    *domain.PhysicalDetails `json:"physical"`
	Digital     *domain.DigitalDetails  `json:"digital"`
}

type productResponse struct {
	ID          uint64                  `json:"id"`
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Category    string                  `json:"category"`
	Image       string                  `json:"image"`
	Price       decimal.Decimal         `json:"price"`
	Discount    *decimal.Decimal        `json:"discount,omitempty"`
	ActualPrice decimal.Decimal         `json:"actualPrice"`
	Stock       int32                   `json:"stock"`
	Kind        string                  `json:"kind"`
	Physical    *domain.PhysicalDetails `json:"physical,omitempty"`
	Digital     *domain.DigitalDetails  `json:"digital,omitempty"`
	CreatedAt   time.Time               `json:"createdAt"`
	UpdatedAt   time.Time               `json:"updatedAt"`
}

func newProductResponse(p *domain.Product) productResponse {
	resp := productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Image:       p.Image,
		Price:       p.Price,
		ActualPrice: p.EffectivePrice(),
		Stock:       p.Stock,
		Kind:        string(p.Kind),
		Physical:    p.Physical,
		Digital:     p.Digital,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Discount.Valid {
		d := p.Discount.Decimal
		resp.Discount = &d
	}
	return resp
}

func (ph *ProductHandler) CreateProduct(ctx *gin.Context) {
	req := createProductRequest{}
	err := ctx.ShouldBindBodyWithJSON(&req)
	if err != nil {
		ph.handleValidationError(ctx, err)
		return
	}

	price, err := decimal.NewFromFloat64(req.Price)
	if err != nil {
		ph.handleValidationError(ctx, err)
		return
	}

	product := &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Image:       req.Image,
		Price:       price,
		Stock:       req.Stock,
		Kind:        domain.ProductKind(req.Kind),
		Physical:    req.Physical,
		Digital:     req.Digital,
	}
	if req.Discount != nil {
		discount, err := decimal.NewFromFloat64(*req.Discount)
		if err != nil {
			ph.handleValidationError(ctx, err)
			return
		}
		product.Discount = decimal.NullDecimal{Decimal: discount, Valid: true}
	}

	created, err := ph.service.CreateProduct(ctx, product)
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	ph.handleSuccessWithStatus(ctx, newProductResponse(created), http.StatusCreated)
}

func (ph *ProductHandler) GetProduct(ctx *gin.Context) {
	productID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		ph.handleValidationError(ctx, err)
		return
	}

	product, err := ph.service.GetProduct(ctx, productID)
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	ph.handleSuccess(ctx, newProductResponse(product))
}

func (ph *ProductHandler) ListProducts(ctx *gin.Context) {
	list, err := ph.service.ListProducts(ctx)
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	result := make([]productResponse, 0, len(list))
	for _, p := range list {
		result = append(result, newProductResponse(p))
	}

	ph.handleSuccess(ctx, result)
}

func (ph *ProductHandler) ListProductsByCategory(ctx *gin.Context) {
	list, err := ph.service.ListProductsByCategory(ctx, ctx.Param("category"))
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	result := make([]productResponse, 0, len(list))
	for _, p := range list {
		result = append(result, newProductResponse(p))
	}

	ph.handleSuccess(ctx, result)
}

type adjustStockRequest struct {
	Delta int32 `json:"delta" binding:"required"`
}

func (ph *ProductHandler) AdjustStock(ctx *gin.Context) {
	productID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		ph.handleValidationError(ctx, err)
		return
	}

	req := adjustStockRequest{}
	err = ctx.ShouldBindBodyWithJSON(&req)
	if err != nil {
		ph.handleValidationError(ctx, err)
		return
	}

	product, err := ph.service.AdjustProductStock(ctx, productID, req.Delta)
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	ph.handleSuccess(ctx, newProductResponse(product))
}

func (ph *ProductHandler) DeactivateProduct(ctx *gin.Context) {
	productID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		ph.handleValidationError(ctx, err)
		return
	}

	err = ph.service.DeactivateProduct(ctx, productID)
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	ph.handleSuccessWithStatus(ctx, nil, http.StatusNoContent)
}
