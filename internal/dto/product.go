package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
)

// CreateProductRequest is the payload for creating a catalog entry.
type CreateProductRequest struct {
	SKU          string          `json:"sku" binding:"required"`
	Barcode      string          `json:"barcode"`
	Name         string          `json:"name" binding:"required"`
	CategoryID   *string         `json:"categoryId"`
	UnitID       *string         `json:"unitId"`
	SellingPrice decimal.Decimal `json:"sellingPrice" binding:"required"`
	CostPrice    decimal.Decimal `json:"costPrice"`
	Stock        int             `json:"stock" binding:"gte=0"`
	MinStock     int             `json:"minStock" binding:"gte=0"`
}

// UpdateProductRequest allows partial catalog edits. Stock is absent on
// purpose: stock changes go through the stock ledger.
type UpdateProductRequest struct {
	SKU          *string          `json:"sku"`
	Barcode      *string          `json:"barcode"`
	Name         *string          `json:"name"`
	CategoryID   *string          `json:"categoryId"`
	UnitID       *string          `json:"unitId"`
	SellingPrice *decimal.Decimal `json:"sellingPrice"`
	CostPrice    *decimal.Decimal `json:"costPrice"`
	MinStock     *int             `json:"minStock"`
	IsActive     *bool            `json:"isActive"`
}

// ProductResponse is the API shape of a product.
type ProductResponse struct {
	ProductID    string          `json:"id"`
	SKU          string          `json:"sku"`
	Barcode      string          `json:"barcode,omitempty"`
	Name         string          `json:"name"`
	CategoryID   *string         `json:"categoryId,omitempty"`
	UnitID       *string         `json:"unitId,omitempty"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	CostPrice    decimal.Decimal `json:"costPrice"`
	Stock        int             `json:"stock"`
	MinStock     int             `json:"minStock"`
	IsActive     bool            `json:"isActive"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// ToProductResponse converts a domain product to its API shape.
func ToProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ProductID:    p.ProductID,
		SKU:          p.SKU,
		Barcode:      p.Barcode,
		Name:         p.Name,
		CategoryID:   p.CategoryID,
		UnitID:       p.UnitID,
		SellingPrice: p.SellingPrice,
		CostPrice:    p.CostPrice,
		Stock:        p.Stock,
		MinStock:     p.MinStock,
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt,
	}
}

// ListProductsParams are the supported catalog list filters.
type ListProductsParams struct {
	Limit           int    `form:"limit"`
	Offset          int    `form:"offset"`
	Search          string `form:"search"`
	IncludeInactive bool   `form:"includeInactive"`
	LowStockOnly    bool   `form:"lowStockOnly"`
}
