package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/polynux/kanap-openclassrooms/controllers/cart"
)

// SetupCartRoutes registers the server-rendered cart page.
func SetupCartRoutes(r *gin.Engine, d *cartControllers.Deps) {
	cartGroup := r.Group("/cart")
	{
		cartGroup.GET("", cartControllers.ShowCart(d))                      // GET /cart
		cartGroup.POST("/quantity", cartControllers.UpdateQuantityForm(d))  // POST /cart/quantity
		cartGroup.POST("/delete", cartControllers.DeleteItemForm(d))        // POST /cart/delete
		cartGroup.POST("/validate", cartControllers.ValidateField(d))       // POST /cart/validate
		cartGroup.GET("/ws", cartControllers.CartUpdates(d))                // GET /cart/ws
		cartGroup.GET("/export.xlsx", cartControllers.ExportCartToExcel(d)) // GET /cart/export.xlsx
	}
}

// SetupAPIRoutes registers the JSON cart API.
func SetupAPIRoutes(r *gin.Engine, d *cartControllers.Deps) {
	api := r.Group("/api/cart")
	{
		api.GET("", cartControllers.GetCart(d))                 // GET /api/cart
		api.DELETE("", cartControllers.ClearCart(d))            // DELETE /api/cart
		api.POST("/items", cartControllers.AddItem(d))          // POST /api/cart/items
		api.PUT("/items", cartControllers.UpdateItem(d))        // PUT /api/cart/items
		api.DELETE("/items", cartControllers.DeleteItem(d))     // DELETE /api/cart/items
		api.POST("/validate", cartControllers.ValidateField(d)) // POST /api/cart/validate
		api.POST("/order", cartControllers.PlaceOrder(d))       // POST /api/cart/order
	}
}
