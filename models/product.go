package models

import "github.com/shopspring/decimal"

// Product as served by the remote catalog API.
type Product struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	AltTxt      string          `json:"altTxt"`
	Description string          `json:"description"`
	Colors      []string        `json:"colors"`
}

// HasColor reports whether the product is sold in the given color.
func (p Product) HasColor(color string) bool {
	for _, c := range p.Colors {
		if c == color {
			return true
		}
	}
	return false
}
