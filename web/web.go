package web

import (
	"embed"
	"html/template"

	"github.com/shopspring/decimal"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

// Templates parses the embedded pages.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"euros": Euros,
	}).ParseFS(templateFS, "templates/*.gohtml")
}

// Euros formats an amount the way the shop displays prices.
func Euros(d decimal.Decimal) string {
	return d.StringFixedBank(2) + " €"
}
