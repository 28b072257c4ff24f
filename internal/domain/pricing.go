package domain

import "math"

// PricingConfig holds the checkout pricing constants. Both values are
// deployment configuration, not literals baked into the math, so tests and
// callers derive expectations from the same source.
type PricingConfig struct {
	// TaxRate is the fractional tax rate applied to the subtotal (0.10 = 10%).
	TaxRate float64
	// ServiceFee is a flat fee in cents added to every checkout, including a
	// zero-subtotal one.
	ServiceFee int64
}

// CheckoutTotals is the final price breakdown presented at checkout. It is
// derived at submission time and never persisted with the cart.
type CheckoutTotals struct {
	Subtotal   int64 `json:"subtotal"`
	ServiceFee int64 `json:"service_fee"`
	Taxes      int64 `json:"taxes"`
	Total      int64 `json:"total"`
}

// Totals computes the checkout breakdown for a subtotal in cents. Taxes are
// rounded to the nearest cent. Total always equals Subtotal + Taxes + ServiceFee.
func (p PricingConfig) Totals(subtotal int64) CheckoutTotals {
	taxes := int64(math.Round(float64(subtotal) * p.TaxRate))
	return CheckoutTotals{
		Subtotal:   subtotal,
		ServiceFee: p.ServiceFee,
		Taxes:      taxes,
		Total:      subtotal + taxes + p.ServiceFee,
	}
}
