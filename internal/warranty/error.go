package warranty

import "errors"

var (
	ErrWarrantyNotFound   = errors.New("warranty not found")
	ErrNotOwner           = errors.New("unauthorized: this warranty does not belong to you")
	ErrWarrantyNotActive  = errors.New("warranty is not active")
	ErrWarrantyExpired    = errors.New("warranty has expired")
	ErrClaimExists        = errors.New("claim already filed for this warranty")
	ErrClaimNotPending    = errors.New("only pending claims can be processed")
	ErrWarrantyHasClaim   = errors.New("cannot delete warranty with active or approved claims")
	ErrCustomerRequired   = errors.New("customer is required")
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrInvalidPeriod      = errors.New("warranty period must be positive")
	ErrDuplicateReference = errors.New("warranty number already exists")

	ErrClaimNotFound          = errors.New("warranty claim not found")
	ErrClaimNotOwned          = errors.New("not authorized to modify this claim")
	ErrOrderNotOwned          = errors.New("order does not belong to customer")
	ErrOrderNotDelivered      = errors.New("order must be DELIVERED before claiming warranty")
	ErrProductNotInOrder      = errors.New("product is not part of this order")
	ErrNoCoverage             = errors.New("product was sold without warranty")
	ErrIssueRequired          = errors.New("issue description is required")
	ErrInvalidClaimStatus     = errors.New("invalid claim status")
	ErrInvalidClaimTransition = errors.New("illegal claim status transition")
)

const (
	PgUniqueViolation     = "23505"
	PgForeignKeyViolation = "23503"
)
