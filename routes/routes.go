package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	cartControllers "github.com/polynux/kanap-openclassrooms/controllers/cart"
)

// SetupRoutes is the single entry-point that wires up the cart page, checkout and JSON API groups.
func SetupRoutes(r *gin.Engine, d *cartControllers.Deps) {
	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/cart") })

	// 1️⃣ Cart page
	SetupCartRoutes(r, d)

	// 2️⃣ Checkout + confirmation
	SetupOrderRoutes(r, d)

	// 3️⃣ JSON API
	SetupAPIRoutes(r, d)
}
