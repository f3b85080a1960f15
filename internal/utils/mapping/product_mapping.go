package mapping

import (
	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
	"github.com/koperasi-pos/kasir_backend/internal/models"
)

// ToModelProduct converts a domain Product to a model Product.
func ToModelProduct(d domain.Product) models.Product {
	return models.Product{
		ProductID:    d.ProductID,
		SKU:          d.SKU,
		Barcode:      d.Barcode,
		Name:         d.Name,
		CategoryID:   d.CategoryID,
		UnitID:       d.UnitID,
		SellingPrice: d.SellingPrice,
		CostPrice:    d.CostPrice,
		Stock:        d.Stock,
		MinStock:     d.MinStock,
		IsActive:     d.IsActive,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainProduct converts a model Product to a domain Product.
func ToDomainProduct(m models.Product) domain.Product {
	return domain.Product{
		ProductID:    m.ProductID,
		SKU:          m.SKU,
		Barcode:      m.Barcode,
		Name:         m.Name,
		CategoryID:   m.CategoryID,
		UnitID:       m.UnitID,
		SellingPrice: m.SellingPrice,
		CostPrice:    m.CostPrice,
		Stock:        m.Stock,
		MinStock:     m.MinStock,
		IsActive:     m.IsActive,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainProductSlice converts a slice of model Products.
func ToDomainProductSlice(ms []models.Product) []domain.Product {
	ds := make([]domain.Product, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainProduct(m)
	}
	return ds
}
