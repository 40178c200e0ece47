package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rest-user-service/internal/usecase/product"
)

// ProductHandler serves the product catalog
type ProductHandler struct {
	uc  product.Usecase
	log *zap.Logger
}

// NewProductHandler creates a new ProductHandler instance
func NewProductHandler(uc product.Usecase, log *zap.Logger) *ProductHandler {
	return &ProductHandler{uc: uc, log: log}
}

// ProductResponse is a catalog entry. Price is an exact decimal written as a JSON number.
type ProductResponse struct {
	ID    int64       `json:"id"`
	Name  string      `json:"name"`
	Price json.Number `json:"price"`
}

// ListProducts handles GET /api/products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.uc.ListProducts(c.Request.Context())
	if err != nil {
		h.log.Error("failed to list products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
		return
	}

	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = ProductResponse{
			ID:    p.ID,
			Name:  p.Name,
			Price: json.Number(p.Price.String()),
		}
	}
	c.JSON(http.StatusOK, out)
}
