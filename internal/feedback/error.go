package feedback

import "errors"

var (
	ErrFeedbackNotFound = errors.New("Feedback not found")
	ErrSubjectRequired  = errors.New("Subject is required")
	ErrMessageRequired  = errors.New("Message is required")
	ErrInvalidRating    = errors.New("Rating must be between 1 and 5")
	ErrCustomerRequired = errors.New("Customer is required")
	ErrResponseRequired = errors.New("Response is required")
	ErrUnknownReference = errors.New("Referenced order or spare part does not exist")
)

const PgForeignKeyViolation = "23503"
