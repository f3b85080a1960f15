package services_test

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koperasi-pos/kasir_backend/internal/apperrors"
	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
	"github.com/koperasi-pos/kasir_backend/internal/core/services"
)

func activeProduct(price int64, stock int) *domain.Product {
	return &domain.Product{
		ProductID:    uuid.NewString(),
		SKU:          "SKU-" + uuid.NewString()[:8],
		Name:         "Test Product",
		SellingPrice: decimal.NewFromInt(price),
		Stock:        stock,
		IsActive:     true,
	}
}

func TestCartAddItemMergesLines(t *testing.T) {
	cart := services.NewCart(false)
	product := activeProduct(10000, 10)

	require.NoError(t, cart.AddItem(product, 2))
	require.NoError(t, cart.AddItem(product, 3))

	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.True(t, cart.Subtotal().Equal(decimal.NewFromInt(50000)))
}

func TestCartAddItemRejectsInactiveProduct(t *testing.T) {
	cart := services.NewCart(false)
	product := activeProduct(10000, 10)
	product.IsActive = false

	err := cart.AddItem(product, 1)
	assert.ErrorIs(t, err, services.ErrProductInactive)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCartAddItemStockCheck(t *testing.T) {
	cart := services.NewCart(false)
	product := activeProduct(10000, 5)

	require.NoError(t, cart.AddItem(product, 3))

	// The merged quantity would exceed stock, so the second add fails and
	// the line keeps its previous quantity.
	err := cart.AddItem(product, 3)
	assert.ErrorIs(t, err, services.ErrStockUnavailable)
	assert.Equal(t, 3, cart.Items()[0].Quantity)
}

func TestCartUpdateQuantity(t *testing.T) {
	cart := services.NewCart(false)
	product := activeProduct(10000, 10)
	require.NoError(t, cart.AddItem(product, 2))

	require.NoError(t, cart.UpdateQuantity(product.ProductID, 5))
	assert.Equal(t, 5, cart.Items()[0].Quantity)

	// Zero quantity removes the line.
	require.NoError(t, cart.UpdateQuantity(product.ProductID, 0))
	assert.True(t, cart.IsEmpty())

	assert.ErrorIs(t, cart.UpdateQuantity(product.ProductID, 1), apperrors.ErrNotFound)
}

func TestCartUpdateItemDiscount(t *testing.T) {
	cart := services.NewCart(false)
	product := activeProduct(10000, 10)
	require.NoError(t, cart.AddItem(product, 2))

	require.NoError(t, cart.UpdateItemDiscount(product.ProductID, decimal.NewFromInt(5000)))
	assert.True(t, cart.Subtotal().Equal(decimal.NewFromInt(15000)))

	err := cart.UpdateItemDiscount(product.ProductID, decimal.NewFromInt(25000))
	assert.ErrorIs(t, err, services.ErrLineDiscountLarge)

	err = cart.UpdateItemDiscount(uuid.NewString(), decimal.NewFromInt(100))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCartRemoveItem(t *testing.T) {
	cart := services.NewCart(false)
	first := activeProduct(10000, 10)
	second := activeProduct(5000, 10)
	require.NoError(t, cart.AddItem(first, 1))
	require.NoError(t, cart.AddItem(second, 1))

	require.NoError(t, cart.RemoveItem(first.ProductID))
	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, second.ProductID, items[0].ProductID)

	assert.ErrorIs(t, cart.RemoveItem(first.ProductID), apperrors.ErrNotFound)
}

func TestCartDiscountClamping(t *testing.T) {
	cart := services.NewCart(true)
	product := activeProduct(10000, 10)
	require.NoError(t, cart.AddItem(product, 2))
	require.NoError(t, cart.SetTax(decimal.NewFromInt(2000)))
	require.NoError(t, cart.SetDiscount(decimal.NewFromInt(50000), services.DiscountFixed))

	// 20000 + 2000 gross, discount capped there.
	assert.True(t, cart.DiscountAmount().Equal(decimal.NewFromInt(22000)))
	assert.True(t, cart.Total().IsZero())
}

func TestCartDiscountWithoutClamping(t *testing.T) {
	cart := services.NewCart(false)
	product := activeProduct(10000, 10)
	require.NoError(t, cart.AddItem(product, 2))
	require.NoError(t, cart.SetDiscount(decimal.NewFromInt(50000), services.DiscountFixed))

	assert.True(t, cart.DiscountAmount().Equal(decimal.NewFromInt(50000)))
	assert.True(t, cart.Total().Equal(decimal.NewFromInt(-30000)))
}

func TestCartPercentageDiscount(t *testing.T) {
	cart := services.NewCart(false)
	product := activeProduct(10000, 10)
	require.NoError(t, cart.AddItem(product, 4))
	require.NoError(t, cart.SetDiscount(decimal.NewFromInt(25), services.DiscountPercentage))

	assert.True(t, cart.DiscountAmount().Equal(decimal.NewFromInt(10000)))
	assert.True(t, cart.Total().Equal(decimal.NewFromInt(30000)))

	err := cart.SetDiscount(decimal.NewFromInt(150), services.DiscountPercentage)
	assert.ErrorIs(t, err, services.ErrPercentOutOfRange)

	err = cart.SetDiscount(decimal.NewFromInt(10), services.DiscountType("bogus"))
	assert.ErrorIs(t, err, services.ErrDiscountTypeBad)
}

// Whatever mix of lines, line discounts, tax and order discount the cart
// holds, the displayed total must equal subtotal + tax - discount and the
// checkout header built from it must reconcile the same way.
func TestCartTotalIdentityRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		cart := services.NewCart(true)

		lineCount := 1 + rng.Intn(5)
		for j := 0; j < lineCount; j++ {
			product := activeProduct(int64(500*(1+rng.Intn(40))), 100)
			quantity := 1 + rng.Intn(9)
			require.NoError(t, cart.AddItem(product, quantity))
			// Line discounts stay under the smallest possible line gross.
			require.NoError(t, cart.UpdateItemDiscount(product.ProductID, decimal.NewFromInt(int64(rng.Intn(500)))))
		}

		require.NoError(t, cart.SetTax(decimal.NewFromInt(int64(rng.Intn(5000)))))
		if rng.Intn(2) == 0 {
			require.NoError(t, cart.SetDiscount(decimal.NewFromInt(int64(rng.Intn(30000))), services.DiscountFixed))
		} else {
			require.NoError(t, cart.SetDiscount(decimal.NewFromInt(int64(rng.Intn(101))), services.DiscountPercentage))
		}

		paid := cart.Total().Add(decimal.NewFromInt(int64(rng.Intn(10000))))
		req, err := cart.BuildCheckoutRequest("cash", paid)
		require.NoError(t, err)

		assert.True(t, cart.Total().Equal(cart.Subtotal().Add(req.Tax).Sub(cart.DiscountAmount())))
		assert.True(t, req.Total.Equal(req.Subtotal.Add(req.Tax).Sub(req.Discount)))
		assert.True(t, req.ChangeAmount.Equal(paid.Sub(req.Total)))
	}
}

func TestCartBuildCheckoutRequest(t *testing.T) {
	cart := services.NewCart(false)
	product := activeProduct(10000, 10)
	require.NoError(t, cart.AddItem(product, 3))
	require.NoError(t, cart.UpdateItemDiscount(product.ProductID, decimal.NewFromInt(5000)))
	require.NoError(t, cart.SetTax(decimal.NewFromInt(2500)))

	studentID := uuid.NewString()
	cart.SetCustomer(domain.CustomerStudent, &studentID, "Budi")

	req, err := cart.BuildCheckoutRequest("cash", decimal.NewFromInt(30000))
	require.NoError(t, err)

	assert.Equal(t, string(domain.CustomerStudent), req.CustomerType)
	require.NotNil(t, req.CustomerID)
	assert.Equal(t, studentID, *req.CustomerID)
	require.Len(t, req.Items, 1)
	assert.True(t, req.Items[0].Subtotal.Equal(decimal.NewFromInt(25000)))
	assert.True(t, req.Subtotal.Equal(decimal.NewFromInt(25000)))
	assert.True(t, req.Total.Equal(decimal.NewFromInt(27500)))
	assert.True(t, req.ChangeAmount.Equal(decimal.NewFromInt(2500)))
	assert.Equal(t, "cash", req.PaymentMethod)
}

func TestCartBuildCheckoutRequestEmpty(t *testing.T) {
	cart := services.NewCart(false)

	_, err := cart.BuildCheckoutRequest("cash", decimal.Zero)
	assert.ErrorIs(t, err, services.ErrCartEmpty)
}

func TestCartClear(t *testing.T) {
	cart := services.NewCart(false)
	require.NoError(t, cart.AddItem(activeProduct(10000, 10), 1))
	require.NoError(t, cart.SetDiscount(decimal.NewFromInt(1000), services.DiscountFixed))

	cart.Clear()

	assert.True(t, cart.IsEmpty())
	assert.True(t, cart.Total().IsZero())
}
