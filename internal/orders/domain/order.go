package domain

import (
	"errors"
	"strings"
)

// Order represents a purchase line item flowing through the synchronization
// pipeline. Total is derived from Quantity and Amount; Processed flips to true
// once the processor has run and never reverts on its own.
type Order struct {
	ID        int64   `json:"id"`
	Product   string  `json:"product"`
	Quantity  int     `json:"quantity"`
	Amount    float64 `json:"amount"`
	Total     float64 `json:"total"`
	Processed bool    `json:"processed"`
}

// Validate ensures the order adheres to business constraints.
func (o Order) Validate() error {
	if strings.TrimSpace(o.Product) == "" {
		return errors.New("product is required")
	}
	if o.Quantity < 0 {
		return errors.New("quantity must be non-negative")
	}
	if o.Amount < 0 {
		return errors.New("amount must be non-negative")
	}
	return nil
}

// ComputeTotal recalculates the derived total from quantity and unit amount.
// Safe to call any number of times.
func (o *Order) ComputeTotal() {
	o.Total = float64(o.Quantity) * o.Amount
}

// MarkProcessed recomputes the total and flags the order as processed.
// Reapplying to an already processed order yields the same result.
func (o *Order) MarkProcessed() {
	o.ComputeTotal()
	o.Processed = true
}
