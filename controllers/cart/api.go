package cartControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/polynux/kanap-openclassrooms/cart"
	"github.com/polynux/kanap-openclassrooms/catalog"
	"github.com/polynux/kanap-openclassrooms/checkout"
	"github.com/polynux/kanap-openclassrooms/models"
	"go.uber.org/zap"
)

// GET /api/cart
func GetCart(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := d.viewStore(c, nil)
		// a catalog failure is reported through the view, not as an error
		_ = store.Refresh(c.Request.Context())
		c.JSON(http.StatusOK, store.View())
	}
}

type addInput struct {
	ID       string `json:"id" binding:"required"`
	Color    string `json:"color" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

// POST /api/cart/items
func AddItem(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input addInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		product, err := d.Catalog.Product(c.Request.Context(), input.ID)
		if err != nil {
			var apiErr *catalog.APIError
			if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not exist"})
				return
			}
			d.Logger.Error("failed to validate product", zap.String("product_id", input.ID), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to validate product"})
			return
		}
		if !product.HasColor(input.Color) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Color not available for this product"})
			return
		}

		store := d.store(c)
		if err := store.Add(c.Request.Context(), product, input.Color, input.Quantity); err != nil {
			d.Logger.Error("failed to add item to cart", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
			return
		}
		c.JSON(http.StatusCreated, store.View())
	}
}

type quantityInput struct {
	ID       string          `json:"id" binding:"required"`
	Color    string          `json:"color" binding:"required"`
	Quantity models.Quantity `json:"quantity"`
}

// PUT /api/cart/items
func UpdateItem(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input quantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		store := d.store(c)
		err := store.SetQuantity(c.Request.Context(), input.ID, input.Color, int(input.Quantity))
		if errors.Is(err, cart.ErrLineNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}
		if err != nil {
			d.Logger.Error("failed to update cart item", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
			return
		}
		c.JSON(http.StatusOK, store.View())
	}
}

// DELETE /api/cart/items?id=...&color=...
func DeleteItem(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, color := c.Query("id"), c.Query("color")
		if id == "" || color == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id and color are required"})
			return
		}

		store := d.store(c)
		if err := store.Remove(c.Request.Context(), id, color); err != nil {
			d.Logger.Error("failed to delete cart item", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}
		c.JSON(http.StatusOK, store.View())
	}
}

// DELETE /api/cart
func ClearCart(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := d.store(c)
		if err := store.Clear(c.Request.Context()); err != nil {
			d.Logger.Error("failed to clear cart", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

// POST /api/cart/order
func PlaceOrder(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var contact models.Contact
		if err := c.ShouldBindJSON(&contact); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		lines := d.viewStore(c, nil).Load(c.Request.Context())
		conf, err := d.Checkout.PlaceOrder(c.Request.Context(), contact, lines)

		var verr *checkout.ValidationError
		switch {
		case err == nil:
			c.JSON(http.StatusCreated, gin.H{"orderId": conf.OrderID})
		case errors.Is(err, checkout.ErrEmptyCart):
			c.JSON(http.StatusConflict, gin.H{"error": checkout.MsgEmptyCart})
		case errors.As(err, &verr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid contact", "fields": verr.Fields})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": checkout.MsgOrderFailed})
		}
	}
}
