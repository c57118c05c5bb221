package cart

import (
	"sort"

	"github.com/polynux/kanap-openclassrooms/models"
	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// View is everything a render target needs to draw the cart.
type View struct {
	Items              []models.EnrichedCartLine `json:"items"`
	TotalQuantity      int                       `json:"totalQuantity"`
	TotalPrice         decimal.Decimal           `json:"totalPrice"`
	Empty              bool                      `json:"empty"`
	ShowForm           bool                      `json:"showForm"`
	Enriched           bool                      `json:"enriched"`
	CatalogUnavailable bool                      `json:"catalogUnavailable"`
}

// Enrich joins each line with the product of the same id. Lines without a
// matching product are kept with empty display fields and Matched=false.
func Enrich(lines []models.CartLine, products []models.Product) []models.EnrichedCartLine {
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		if _, dup := byID[p.ID]; !dup {
			byID[p.ID] = p
		}
	}

	out := make([]models.EnrichedCartLine, 0, len(lines))
	for _, l := range lines {
		e := models.EnrichedCartLine{CartLine: l}
		if p, ok := byID[l.ID]; ok {
			e.Name = p.Name
			e.Price = p.Price
			e.ImageURL = p.ImageURL
			e.AltTxt = p.AltTxt
			e.Matched = true
		}
		out = append(out, e)
	}
	return out
}

// Bare wraps persisted lines without any catalog data.
func Bare(lines []models.CartLine) []models.EnrichedCartLine {
	return Enrich(lines, nil)
}

// SortByName orders lines by product name with French collation, ignoring
// case. The sort is stable: lines with equal names keep their order.
func SortByName(lines []models.EnrichedCartLine) {
	col := collate.New(language.French, collate.IgnoreCase)
	sort.SliceStable(lines, func(i, j int) bool {
		return col.CompareString(lines[i].Name, lines[j].Name) < 0
	})
}

// Totals returns the summed quantity and price of the lines.
func Totals(lines []models.EnrichedCartLine) (int, decimal.Decimal) {
	quantity := 0
	price := decimal.Zero
	for _, l := range lines {
		quantity += int(l.Quantity)
		price = price.Add(l.Subtotal())
	}
	return quantity, price
}

// Strip drops the enrichment fields, leaving the persisted shape.
func Strip(lines []models.EnrichedCartLine) []models.CartLine {
	out := make([]models.CartLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.CartLine)
	}
	return out
}

// BuildView computes the view model. It does not touch storage or the catalog.
func BuildView(lines []models.EnrichedCartLine, enriched, catalogUnavailable bool) View {
	items := make([]models.EnrichedCartLine, len(lines))
	copy(items, lines)

	quantity, price := Totals(items)
	return View{
		Items:              items,
		TotalQuantity:      quantity,
		TotalPrice:         price,
		Empty:              len(items) == 0,
		ShowForm:           len(items) > 0,
		Enriched:           enriched,
		CatalogUnavailable: catalogUnavailable,
	}
}
