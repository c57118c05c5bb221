package checkout

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/polynux/kanap-openclassrooms/models"
	"go.uber.org/zap"
)

// User-facing messages.
const (
	MsgEmptyCart   = "Votre panier est vide!"
	MsgOrderFailed = "Une erreur est survenue!"
)

var (
	ErrEmptyCart   = errors.New("cart is empty")
	ErrOrderFailed = errors.New("order submission failed")
)

// ValidationError blocks a submission; no request is sent.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return "invalid fields: " + strings.Join(names, ", ")
}

// OrderPlacer submits an order to the remote order endpoint.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, order models.OrderRequest) (models.OrderConfirmation, error)
}

type Service struct {
	validator *Validator
	orders    OrderPlacer
	logger    *zap.Logger
}

func NewService(validator *Validator, orders OrderPlacer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{validator: validator, orders: orders, logger: logger}
}

// BuildOrder assembles the payload: the contact plus one product id per
// cart line, in cart order. Colors and quantities are not part of it.
func BuildOrder(contact models.Contact, lines []models.CartLine) models.OrderRequest {
	products := make([]string, 0, len(lines))
	for _, l := range lines {
		products = append(products, l.ID)
	}
	return models.OrderRequest{Contact: Normalize(contact), Products: products}
}

// PlaceOrder validates the form and submits the order.
func (s *Service) PlaceOrder(ctx context.Context, contact models.Contact, lines []models.CartLine) (models.OrderConfirmation, error) {
	if len(lines) == 0 {
		return models.OrderConfirmation{}, ErrEmptyCart
	}
	if errs := s.validator.Validate(contact); len(errs) > 0 {
		return models.OrderConfirmation{}, &ValidationError{Fields: errs}
	}

	order := BuildOrder(contact, lines)
	conf, err := s.orders.PlaceOrder(ctx, order)
	if err != nil {
		s.logger.Error("order submission failed", zap.Int("products", len(order.Products)), zap.Error(err))
		return models.OrderConfirmation{}, fmt.Errorf("%w: %v", ErrOrderFailed, err)
	}

	s.logger.Info("order placed", zap.String("order_id", conf.OrderID), zap.Int("products", len(order.Products)))
	return conf, nil
}
