package models

// Contact is the checkout form. Field rules are registered by the checkout package.
type Contact struct {
	FirstName string `json:"firstName" form:"firstName" validate:"required,kanap_name"`
	LastName  string `json:"lastName" form:"lastName" validate:"required,kanap_name"`
	Address   string `json:"address" form:"address" validate:"required,kanap_address"`
	City      string `json:"city" form:"city" validate:"required,kanap_name"`
	Email     string `json:"email" form:"email" validate:"required,kanap_email"`
}

// OrderRequest is the body posted to the order endpoint.
// Products holds one product id per cart line; colors and quantities are not sent.
type OrderRequest struct {
	Contact  Contact  `json:"contact"`
	Products []string `json:"products"`
}

// OrderConfirmation is the order endpoint's success response.
type OrderConfirmation struct {
	OrderID  string    `json:"orderId"`
	Contact  Contact   `json:"contact"`
	Products []Product `json:"products,omitempty"`
}
