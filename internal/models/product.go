package models

import "github.com/shopspring/decimal"

// Product mirrors the products table.
type Product struct {
	ProductID    string          `json:"productID"`
	SKU          string          `json:"sku"`
	Barcode      string          `json:"barcode"`
	Name         string          `json:"name"`
	CategoryID   *string         `json:"categoryID"`
	UnitID       *string         `json:"unitID"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	CostPrice    decimal.Decimal `json:"costPrice"`
	Stock        int             `json:"stock"`
	MinStock     int             `json:"minStock"`
	IsActive     bool            `json:"isActive"`
	AuditFields
}
