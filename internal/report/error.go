package report

import "errors"

var (
	ErrTypeRequired = errors.New("Report type cannot be empty")
	ErrUnknownType  = errors.New("Unknown report type")
)
