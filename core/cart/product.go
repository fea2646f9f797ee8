package cart

import "github.com/shopspring/decimal"

// DiscountType names how a flexible price reduces a product's list price.
type DiscountType string

const (
	DollarsOff DiscountType = "dollars-off"
	PercentOff DiscountType = "percent-off"
	FixedPrice DiscountType = "fixed-price"
)

// FlexiblePrice is a per-learner discount, usually granted through
// financial assistance.
type FlexiblePrice struct {
	ID           int             `json:"id"`
	Amount       decimal.Decimal `json:"amount"`
	DiscountType DiscountType    `json:"discount_type"`
	DiscountCode string          `json:"discount_code"`
	Automatic    bool            `json:"automatic"`
}

// Product is the purchasable certificate-track item attached to a run.
type Product struct {
	ID            int             `json:"id"`
	Price         decimal.Decimal `json:"price"`
	Description   string          `json:"description"`
	IsActive      bool            `json:"is_active"`
	FlexiblePrice *FlexiblePrice  `json:"product_flexible_price"`
}
