package payment

import "errors"

var (
	ErrMethodRequired        = errors.New("payment method cannot be empty")
	ErrUnsupportedMethod     = errors.New("unsupported payment method")
	ErrInvalidPaymentDetails = errors.New("invalid payment details")
)
