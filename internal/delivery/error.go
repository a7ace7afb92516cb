package delivery

import "errors"

var (
	ErrDeliveryNotFound     = errors.New("delivery not found")
	ErrDeliveryExists       = errors.New("delivery already exists for this order")
	ErrDeliveryNotDelivered = errors.New("only completed (DELIVERED) deliveries can be deleted")
	ErrInvalidStatus        = errors.New("invalid delivery status")
	ErrUnsupportedMethod    = errors.New("unsupported delivery method")
	ErrAddressRequired      = errors.New("delivery address is required")
)

const PgUniqueViolation = "23505"
