package domain

import "github.com/shopspring/decimal"

// Product is a catalog entry. Stock is mutated only through the stock ledger
// or an explicit adjustment, never set directly by catalog edits.
type Product struct {
	ProductID    string          `json:"productID"` // Primary Key (UUID)
	SKU          string          `json:"sku"`
	Barcode      string          `json:"barcode,omitempty"`
	Name         string          `json:"name"`
	CategoryID   *string         `json:"categoryID,omitempty"`
	UnitID       *string         `json:"unitID,omitempty"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	CostPrice    decimal.Decimal `json:"costPrice"`
	Stock        int             `json:"stock"`    // >= 0, enforced by the stock ledger
	MinStock     int             `json:"minStock"` // Low-stock report threshold
	IsActive     bool            `json:"isActive"`
	AuditFields
}
