package cartControllers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/polynux/kanap-openclassrooms/cart"
	"github.com/polynux/kanap-openclassrooms/checkout"
	"github.com/polynux/kanap-openclassrooms/middleware"
	"github.com/polynux/kanap-openclassrooms/models"
	"github.com/polynux/kanap-openclassrooms/realtime"
	"github.com/polynux/kanap-openclassrooms/storage"
	"go.uber.org/zap"
)

// Catalog is what the cart pages need from the remote product API.
type Catalog interface {
	cart.Catalog
	Product(ctx context.Context, id string) (models.Product, error)
}

// Deps groups the collaborators shared by every cart handler.
type Deps struct {
	Storage   storage.Backend
	Catalog   Catalog
	Hub       *realtime.Hub
	Validator *checkout.Validator
	Checkout  *checkout.Service
	Logger    *zap.Logger
}

// store builds the guest's cart store. Mutations are pushed to the guest's
// open tabs; extra renderers also receive every view.
func (d *Deps) store(c *gin.Context, extra ...cart.Renderer) *cart.Store {
	guestID := middleware.GuestID(c)
	renderers := cart.Renderers(extra)
	if d.Hub != nil {
		renderers = append(renderers, d.Hub.Renderer(guestID))
	}
	return cart.NewStore(
		d.Storage.Namespace(guestID),
		d.Catalog,
		renderers,
		d.Logger.With(zap.String("guest_id", guestID)),
	)
}

// viewStore builds a store whose renders stay local to the request.
func (d *Deps) viewStore(c *gin.Context, target cart.Renderer) *cart.Store {
	guestID := middleware.GuestID(c)
	return cart.NewStore(
		d.Storage.Namespace(guestID),
		d.Catalog,
		target,
		d.Logger.With(zap.String("guest_id", guestID)),
	)
}
