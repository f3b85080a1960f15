package services

import (
	"context"

	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
	"github.com/koperasi-pos/kasir_backend/internal/dto"
)

// ProductReaderSvc defines read operations for the product catalog.
type ProductReaderSvc interface {
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	GetProductBySKU(ctx context.Context, sku string) (*domain.Product, error)
	ListProducts(ctx context.Context, params dto.ListProductsParams) ([]domain.Product, error)
}

// ProductWriterSvc defines catalog write operations.
type ProductWriterSvc interface {
	CreateProduct(ctx context.Context, req dto.CreateProductRequest, userID string) (*domain.Product, error)
	UpdateProduct(ctx context.Context, productID string, req dto.UpdateProductRequest, userID string) (*domain.Product, error)
	DeactivateProduct(ctx context.Context, productID string, userID string) error
}

// ProductSvcFacade combines reader and writer operations.
type ProductSvcFacade interface {
	ProductReaderSvc
	ProductWriterSvc
}
