package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/polynux/kanap-openclassrooms/controllers/cart"
)

func SetupOrderRoutes(r *gin.Engine, d *cartControllers.Deps) {
	r.POST("/cart/order", cartControllers.SubmitOrderForm(d))
	r.GET("/confirmation", cartControllers.ShowConfirmation())
}
