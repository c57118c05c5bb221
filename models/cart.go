package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Quantity accepts both a JSON number and a numeric JSON string, since older
// pages stored the raw input value. It always encodes as a number.
type Quantity int

func (q *Quantity) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*q = 0
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}
	if n, err := strconv.ParseInt(raw, 10, strconv.IntSize); err == nil {
		*q = Quantity(n)
		return nil
	}
	// JSON numbers such as 2.0 or 1e2 are fine as long as they are whole and fit an int.
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) ||
		f < math.MinInt || f >= math.MaxInt {
		return fmt.Errorf("invalid quantity %q", raw)
	}
	*q = Quantity(int(f))
	return nil
}

// Plus adds n, saturating at the largest int instead of wrapping.
func (q Quantity) Plus(n int) Quantity {
	if n > 0 && int(q) > math.MaxInt-n {
		return Quantity(math.MaxInt)
	}
	return q + Quantity(n)
}

// CartLine is the persisted record of one product variant in the cart.
type CartLine struct {
	ID       string   `json:"id"`
	Color    string   `json:"color"`
	Quantity Quantity `json:"quantity"`
}

func (l CartLine) Matches(id, color string) bool {
	return l.ID == id && l.Color == color
}

// EnrichedCartLine joins a CartLine with the catalog's display fields.
// It is only used for rendering and never persisted.
type EnrichedCartLine struct {
	CartLine
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"imageUrl"`
	AltTxt   string          `json:"altTxt"`
	Matched  bool            `json:"matched"`
}

// Subtotal is quantity × price for the line.
func (l EnrichedCartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
