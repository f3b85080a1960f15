package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/koperasi-pos/kasir_backend/internal/apperrors"
	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
	portsrepo "github.com/koperasi-pos/kasir_backend/internal/core/ports/repositories"
	portssvc "github.com/koperasi-pos/kasir_backend/internal/core/ports/services"
	"github.com/koperasi-pos/kasir_backend/internal/dto"
	"github.com/koperasi-pos/kasir_backend/internal/middleware"
)

var ErrPriceNotPositive = errors.New("selling price must be positive")

// productService implements catalog management.
type productService struct {
	productRepo  portsrepo.ProductRepositoryFacade
	activityRepo portsrepo.ActivityLogWriter
}

// NewProductService creates a new ProductService.
func NewProductService(productRepo portsrepo.ProductRepositoryFacade, activityRepo portsrepo.ActivityLogWriter) portssvc.ProductSvcFacade {
	return &productService{
		productRepo:  productRepo,
		activityRepo: activityRepo,
	}
}

var _ portssvc.ProductSvcFacade = (*productService)(nil)

// CreateProduct adds a catalog entry. The initial stock, when non-zero, is
// recorded by the repository as an initial-stock ledger movement.
func (s *productService) CreateProduct(ctx context.Context, req dto.CreateProductRequest, userID string) (*domain.Product, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.SellingPrice.IsPositive() {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrPriceNotPositive)
	}

	now := time.Now().UTC()
	product := domain.Product{
		ProductID:    uuid.NewString(),
		SKU:          req.SKU,
		Barcode:      req.Barcode,
		Name:         req.Name,
		CategoryID:   req.CategoryID,
		UnitID:       req.UnitID,
		SellingPrice: req.SellingPrice,
		CostPrice:    req.CostPrice,
		Stock:        req.Stock,
		MinStock:     req.MinStock,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.productRepo.SaveProduct(ctx, &product); err != nil {
		logger.Error("Failed to save product", slog.String("error", err.Error()), slog.String("sku", req.SKU))
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	s.logActivity(ctx, userID, "create_product", fmt.Sprintf("Created product %s", product.Name), map[string]any{
		"productID": product.ProductID,
		"sku":       product.SKU,
	})

	logger.Info("Product created", slog.String("product_id", product.ProductID), slog.String("sku", product.SKU))
	return &product, nil
}

// GetProduct retrieves a product by ID.
func (s *productService) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to find product %s: %w", productID, err)
	}
	return product, nil
}

// GetProductBySKU retrieves a product by SKU.
func (s *productService) GetProductBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	product, err := s.productRepo.FindProductBySKU(ctx, sku)
	if err != nil {
		return nil, fmt.Errorf("failed to find product by SKU %s: %w", sku, err)
	}
	return product, nil
}

// ListProducts returns catalog entries matching the filters.
func (s *productService) ListProducts(ctx context.Context, params dto.ListProductsParams) ([]domain.Product, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	products, err := s.productRepo.ListProducts(ctx, domain.ProductFilter{
		Search:          params.Search,
		IncludeInactive: params.IncludeInactive,
		LowStockOnly:    params.LowStockOnly,
		Limit:           limit,
		Offset:          params.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// UpdateProduct applies a partial catalog edit. Stock is deliberately not
// updatable here; it changes only through the stock ledger.
func (s *productService) UpdateProduct(ctx context.Context, productID string, req dto.UpdateProductRequest, userID string) (*domain.Product, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to find product %s: %w", productID, err)
	}

	if req.SKU != nil {
		product.SKU = *req.SKU
	}
	if req.Barcode != nil {
		product.Barcode = *req.Barcode
	}
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.CategoryID != nil {
		product.CategoryID = req.CategoryID
	}
	if req.UnitID != nil {
		product.UnitID = req.UnitID
	}
	if req.SellingPrice != nil {
		if !req.SellingPrice.IsPositive() {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrPriceNotPositive)
		}
		product.SellingPrice = *req.SellingPrice
	}
	if req.CostPrice != nil {
		product.CostPrice = *req.CostPrice
	}
	if req.MinStock != nil {
		product.MinStock = *req.MinStock
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	now := time.Now().UTC()
	product.LastUpdatedAt = now
	product.LastUpdatedBy = userID

	if err := s.productRepo.UpdateProduct(ctx, product); err != nil {
		logger.Error("Failed to update product", slog.String("error", err.Error()), slog.String("product_id", productID))
		return nil, fmt.Errorf("failed to update product %s: %w", productID, err)
	}

	s.logActivity(ctx, userID, "update_product", fmt.Sprintf("Updated product %s", product.Name), map[string]any{
		"productID": product.ProductID,
	})

	return product, nil
}

// DeactivateProduct soft-deletes a catalog entry. Historical transaction
// items keep their snapshots, so nothing else changes.
func (s *productService) DeactivateProduct(ctx context.Context, productID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.productRepo.DeactivateProduct(ctx, productID, userID); err != nil {
		logger.Error("Failed to deactivate product", slog.String("error", err.Error()), slog.String("product_id", productID))
		return fmt.Errorf("failed to deactivate product %s: %w", productID, err)
	}

	s.logActivity(ctx, userID, "deactivate_product", "Deactivated product", map[string]any{
		"productID": productID,
	})
	return nil
}

// logActivity records a catalog audit entry. Catalog edits are not ledger
// events, so a failed audit write is logged and swallowed rather than
// failing the edit.
func (s *productService) logActivity(ctx context.Context, userID, action, description string, details map[string]any) {
	entry := domain.ActivityLog{
		LogID:       uuid.NewString(),
		UserID:      userID,
		Action:      action,
		Module:      "products",
		Description: description,
		Details:     details,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.activityRepo.SaveActivityLog(ctx, &entry); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to write activity log", slog.String("action", action), slog.String("error", err.Error()))
	}
}
