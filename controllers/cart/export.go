package cartControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"go.uber.org/zap"
)

// GET /cart/export.xlsx
func ExportCartToExcel(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := d.viewStore(c, nil)
		_ = store.Refresh(c.Request.Context())
		view := store.View()

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Panier")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		headers := []string{"ID", "Produit", "Couleur", "Prix", "Quantité", "Sous-total"}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, l := range view.Items {
			row := sheet.AddRow()
			row.AddCell().SetValue(l.ID)
			row.AddCell().SetValue(l.Name)
			row.AddCell().SetValue(l.Color)
			row.AddCell().SetFloat(l.Price.InexactFloat64())
			row.AddCell().SetInt(int(l.Quantity))
			row.AddCell().SetFloat(l.Subtotal().InexactFloat64())
		}

		total := sheet.AddRow()
		total.AddCell().SetValue("Total")
		total.AddCell()
		total.AddCell()
		total.AddCell()
		total.AddCell().SetInt(view.TotalQuantity)
		total.AddCell().SetFloat(view.TotalPrice.InexactFloat64())

		c.Header("Content-Disposition", "attachment; filename=panier.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			d.Logger.Error("failed to write Excel file", zap.Error(err))
		}
	}
}
