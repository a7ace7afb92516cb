package sparepart

import "errors"

var (
	ErrPartNotFound        = errors.New("spare part not found")
	ErrDuplicatePartNumber = errors.New("part number already exists")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrInvalidPart         = errors.New("invalid spare part")
	ErrPartInactive        = errors.New("spare part is not available")
)

const PgUniqueViolation = "23505"
