package order

import "errors"

var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrUnauthorized            = errors.New("unauthorized")
	ErrEmptyOrder              = errors.New("order must contain at least one item")
	ErrInvalidQuantity         = errors.New("quantity must be greater than 0")
	ErrShippingAddressRequired = errors.New("shipping address is required")
	ErrApproverRequired        = errors.New("approver is required")
	ErrOrderNotPending         = errors.New("only pending orders can be approved")
	ErrInvalidStatus           = errors.New("invalid order status")
)
