package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/koperasi-pos/kasir_backend/internal/apperrors"
	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
	"github.com/koperasi-pos/kasir_backend/internal/dto"
)

var (
	ErrCartEmpty         = errors.New("cart has no items")
	ErrProductInactive   = errors.New("product is inactive")
	ErrStockUnavailable  = errors.New("requested quantity exceeds available stock")
	ErrQuantityNotValid  = errors.New("quantity must be positive")
	ErrDiscountNegative  = errors.New("discount must not be negative")
	ErrLineDiscountLarge = errors.New("line discount exceeds line amount")
	ErrDiscountTypeBad   = errors.New("discount type must be percentage or fixed")
	ErrPercentOutOfRange = errors.New("percentage discount must be between 0 and 100")
)

// DiscountType selects how the order-level discount is interpreted.
type DiscountType string

const (
	DiscountFixed      DiscountType = "fixed"
	DiscountPercentage DiscountType = "percentage"
)

// CartItem is one line of an in-progress sale. Product name, SKU and price
// are snapshots taken when the line was added.
type CartItem struct {
	ProductID   string
	ProductName string
	SKU         string
	Price       decimal.Decimal
	Quantity    int
	Discount    decimal.Decimal
}

// Subtotal is the line amount: price times quantity minus the line discount.
func (ci CartItem) Subtotal() decimal.Decimal {
	return ci.Price.Mul(decimal.NewFromInt(int64(ci.Quantity))).Sub(ci.Discount)
}

// Cart accumulates lines for a single sale before checkout. It is a plain
// session object with no persistence; one cart belongs to one cashier
// terminal and is not safe for concurrent use.
type Cart struct {
	items         []CartItem
	customerType  domain.CustomerType
	customerID    *string
	customerName  string
	discount      decimal.Decimal
	discountType  DiscountType
	tax           decimal.Decimal
	clampDiscount bool
}

// NewCart creates an empty cart for a walk-in customer. When clampDiscount
// is set, an order discount larger than the order amount is capped instead
// of rejected.
func NewCart(clampDiscount bool) *Cart {
	return &Cart{
		customerType:  domain.CustomerGeneral,
		discount:      decimal.Zero,
		discountType:  DiscountFixed,
		tax:           decimal.Zero,
		clampDiscount: clampDiscount,
	}
}

// AddItem puts a product in the cart or increases the existing line's
// quantity. The stock check here is advisory; checkout revalidates inside
// the database transaction.
func (c *Cart) AddItem(product *domain.Product, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrQuantityNotValid)
	}
	if !product.IsActive {
		return fmt.Errorf("%w: %w: %s", apperrors.ErrValidation, ErrProductInactive, product.ProductID)
	}

	existing := c.findLine(product.ProductID)
	newQuantity := quantity
	if existing >= 0 {
		newQuantity += c.items[existing].Quantity
	}
	if newQuantity > product.Stock {
		return fmt.Errorf("%w: %s has %d in stock, requested %d", ErrStockUnavailable, product.ProductID, product.Stock, newQuantity)
	}

	if existing >= 0 {
		c.items[existing].Quantity = newQuantity
		return nil
	}

	c.items = append(c.items, CartItem{
		ProductID:   product.ProductID,
		ProductName: product.Name,
		SKU:         product.SKU,
		Price:       product.SellingPrice,
		Quantity:    quantity,
		Discount:    decimal.Zero,
	})
	return nil
}

// UpdateQuantity sets a line's quantity. A non-positive quantity removes the
// line, same as RemoveItem.
func (c *Cart) UpdateQuantity(productID string, quantity int) error {
	idx := c.findLine(productID)
	if idx < 0 {
		return fmt.Errorf("%w: product %s not in cart", apperrors.ErrNotFound, productID)
	}
	if quantity <= 0 {
		c.items = append(c.items[:idx], c.items[idx+1:]...)
		return nil
	}
	c.items[idx].Quantity = quantity
	return nil
}

// UpdateItemDiscount sets a line's discount. The discount may not exceed the
// undiscounted line amount.
func (c *Cart) UpdateItemDiscount(productID string, discount decimal.Decimal) error {
	if discount.IsNegative() {
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrDiscountNegative)
	}
	idx := c.findLine(productID)
	if idx < 0 {
		return fmt.Errorf("%w: product %s not in cart", apperrors.ErrNotFound, productID)
	}
	gross := c.items[idx].Price.Mul(decimal.NewFromInt(int64(c.items[idx].Quantity)))
	if discount.GreaterThan(gross) {
		return fmt.Errorf("%w: %w: %s against %s", apperrors.ErrValidation, ErrLineDiscountLarge, discount.String(), gross.String())
	}
	c.items[idx].Discount = discount
	return nil
}

// RemoveItem drops a line from the cart.
func (c *Cart) RemoveItem(productID string) error {
	idx := c.findLine(productID)
	if idx < 0 {
		return fmt.Errorf("%w: product %s not in cart", apperrors.ErrNotFound, productID)
	}
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	return nil
}

// SetCustomer attaches a customer to the sale. A nil studentID means a
// walk-in customer.
func (c *Cart) SetCustomer(customerType domain.CustomerType, studentID *string, name string) {
	c.customerType = customerType
	c.customerID = studentID
	c.customerName = name
}

// SetDiscount sets the order-level discount. A percentage discount is a
// value in [0, 100] applied to the subtotal at totals time; a fixed discount
// is an absolute amount.
func (c *Cart) SetDiscount(discount decimal.Decimal, discountType DiscountType) error {
	if discount.IsNegative() {
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrDiscountNegative)
	}
	switch discountType {
	case DiscountFixed:
	case DiscountPercentage:
		if discount.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("%w: %w: %s", apperrors.ErrValidation, ErrPercentOutOfRange, discount.String())
		}
	default:
		return fmt.Errorf("%w: %w: %q", apperrors.ErrValidation, ErrDiscountTypeBad, discountType)
	}
	c.discount = discount
	c.discountType = discountType
	return nil
}

// SetTax sets the order-level tax amount.
func (c *Cart) SetTax(tax decimal.Decimal) error {
	if tax.IsNegative() {
		return fmt.Errorf("%w: tax must not be negative", apperrors.ErrValidation)
	}
	c.tax = tax
	return nil
}

// Subtotal is the sum of all line subtotals.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range c.items {
		sum = sum.Add(item.Subtotal())
	}
	return sum
}

// DiscountAmount is the effective order discount: the configured percentage
// of the subtotal, or the fixed amount. With clamping enabled it never
// exceeds subtotal plus tax, so the total cannot go negative.
func (c *Cart) DiscountAmount() decimal.Decimal {
	amount := c.discount
	if c.discountType == DiscountPercentage {
		amount = c.Subtotal().Mul(c.discount).Div(decimal.NewFromInt(100))
	}
	if !c.clampDiscount {
		return amount
	}
	gross := c.Subtotal().Add(c.tax)
	if amount.GreaterThan(gross) {
		return gross
	}
	return amount
}

// Total is subtotal plus tax minus the effective discount.
func (c *Cart) Total() decimal.Decimal {
	return c.Subtotal().Add(c.tax).Sub(c.DiscountAmount())
}

// Items returns a copy of the cart lines in insertion order.
func (c *Cart) Items() []CartItem {
	out := make([]CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Clear resets the cart to its initial empty state.
func (c *Cart) Clear() {
	c.items = nil
	c.customerType = domain.CustomerGeneral
	c.customerID = nil
	c.customerName = ""
	c.discount = decimal.Zero
	c.discountType = DiscountFixed
	c.tax = decimal.Zero
}

// BuildCheckoutRequest snapshots the cart into a checkout payload.
func (c *Cart) BuildCheckoutRequest(paymentMethodCode string, paidAmount decimal.Decimal) (*dto.CreateTransactionRequest, error) {
	if c.IsEmpty() {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrCartEmpty)
	}

	items := make([]dto.CheckoutItemRequest, len(c.items))
	for i, item := range c.items {
		items[i] = dto.CheckoutItemRequest{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			SKU:         item.SKU,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Discount:    item.Discount,
			Subtotal:    item.Subtotal(),
		}
	}

	total := c.Total()
	change := decimal.Zero
	if paidAmount.GreaterThan(total) {
		change = paidAmount.Sub(total)
	}

	return &dto.CreateTransactionRequest{
		CustomerType:  string(c.customerType),
		CustomerID:    c.customerID,
		CustomerName:  c.customerName,
		Items:         items,
		Subtotal:      c.Subtotal(),
		Tax:           c.tax,
		Discount:      c.DiscountAmount(),
		Total:         total,
		PaymentMethod: paymentMethodCode,
		PaidAmount:    paidAmount,
		ChangeAmount:  change,
	}, nil
}

func (c *Cart) findLine(productID string) int {
	for i, item := range c.items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}
