package cartControllers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/polynux/kanap-openclassrooms/cart"
	"github.com/polynux/kanap-openclassrooms/checkout"
	"github.com/polynux/kanap-openclassrooms/middleware"
	"github.com/polynux/kanap-openclassrooms/models"
	"go.uber.org/zap"
)

type cartPage struct {
	View   cart.View
	Form   models.Contact
	Errors checkout.FieldErrors
	Alert  string
}

// renderCart draws the page from the guest's stored cart and the catalog.
func renderCart(c *gin.Context, d *Deps, status int, form models.Contact, errs checkout.FieldErrors, alert string) {
	snap := &cart.Snapshot{}
	d.viewStore(c, snap).Init(c.Request.Context())

	view, ok := snap.Last()
	if !ok {
		view = cart.BuildView(nil, false, false)
	}
	c.HTML(status, "cart.gohtml", cartPage{View: view, Form: form, Errors: errs, Alert: alert})
}

// GET /cart
func ShowCart(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		renderCart(c, d, http.StatusOK, models.Contact{}, nil, "")
	}
}

// POST /cart/quantity
func UpdateQuantityForm(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, color := c.PostForm("id"), c.PostForm("color")
		// non-numeric input is treated like any value below 1
		quantity, _ := strconv.Atoi(strings.TrimSpace(c.PostForm("quantity")))

		err := d.store(c).SetQuantity(c.Request.Context(), id, color, quantity)
		if err != nil && !errors.Is(err, cart.ErrLineNotFound) {
			d.Logger.Error("failed to update cart quantity", zap.Error(err))
			renderCart(c, d, http.StatusInternalServerError, models.Contact{}, nil, "Impossible de mettre à jour le panier")
			return
		}
		c.Redirect(http.StatusSeeOther, "/cart")
	}
}

// POST /cart/delete
func DeleteItemForm(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, color := c.PostForm("id"), c.PostForm("color")

		if err := d.store(c).Remove(c.Request.Context(), id, color); err != nil {
			d.Logger.Error("failed to delete cart item", zap.Error(err))
			renderCart(c, d, http.StatusInternalServerError, models.Contact{}, nil, "Impossible de mettre à jour le panier")
			return
		}
		c.Redirect(http.StatusSeeOther, "/cart")
	}
}

type fieldInput struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// POST /cart/validate
func ValidateField(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input fieldInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		state, msg, err := d.Validator.Check(checkout.Field(input.Field), input.Value)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown field"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"field": input.Field, "state": state, "error": msg})
	}
}

// POST /cart/order
func SubmitOrderForm(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form models.Contact
		if err := c.ShouldBind(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		lines := d.viewStore(c, nil).Load(c.Request.Context())
		conf, err := d.Checkout.PlaceOrder(c.Request.Context(), form, lines)

		var verr *checkout.ValidationError
		switch {
		case err == nil:
			c.Redirect(http.StatusSeeOther, "/confirmation?orderId="+url.QueryEscape(conf.OrderID))
		case errors.Is(err, checkout.ErrEmptyCart):
			renderCart(c, d, http.StatusConflict, form, nil, checkout.MsgEmptyCart)
		case errors.As(err, &verr):
			renderCart(c, d, http.StatusUnprocessableEntity, form, verr.Fields, "")
		default:
			renderCart(c, d, http.StatusBadGateway, form, nil, checkout.MsgOrderFailed)
		}
	}
}

// GET /confirmation
func ShowConfirmation() gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Query("orderId")
		if orderID == "" {
			c.Redirect(http.StatusSeeOther, "/cart")
			return
		}
		c.HTML(http.StatusOK, "confirmation.gohtml", gin.H{"OrderID": orderID})
	}
}

// GET /cart/ws
func CartUpdates(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		guestID := middleware.GuestID(c)
		if err := d.Hub.Serve(c.Writer, c.Request, guestID); err != nil {
			d.Logger.Debug("websocket upgrade failed", zap.String("guest_id", guestID), zap.Error(err))
		}
	}
}
