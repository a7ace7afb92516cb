package user

import "errors"

var (
	ErrUsernameTaken      = errors.New("Username is already taken")
	ErrEmailTaken         = errors.New("Email is already registered")
	ErrVehicleTaken       = errors.New("Vehicle number already registered")
	ErrLicenseTaken       = errors.New("License number already registered")
	ErrInvalidCredentials = errors.New("Invalid username or password")
	ErrUserInactive       = errors.New("User account is deactivated")
	ErrUserNotFound       = errors.New("User not found")
	ErrStaffNotFound      = errors.New("Delivery staff details not found")
	ErrInvalidRole        = errors.New("Role not found")
	ErrRoleNotAllowed     = errors.New("Self-registration is limited to customer accounts")
	ErrNotDeliveryStaff   = errors.New("User is not delivery staff")
	ErrMissingField       = errors.New("Username, email and password are required")
	ErrInvalidExperience  = errors.New("Driving experience cannot be negative")
	ErrUserInUse          = errors.New("Cannot delete user with existing orders or deliveries")
)

const (
	PgUniqueViolation     = "23505"
	PgForeignKeyViolation = "23503"
)
