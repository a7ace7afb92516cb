package user

import (
	"context"
	"fmt"
	"strings"

	"spareparts-be/internal/auth"
	"spareparts-be/internal/logger"

	"go.uber.org/zap"
)

var descriptions = map[Role]string{
	RoleAdmin:         "Administrator with full system access",
	RoleCustomer:      "Customer with shopping and order tracking privileges",
	RoleDeliveryStaff: "Delivery personnel with delivery management access",
	RoleStoreOwner:    "Store owner with inventory and order management access",
}

// Describe returns the human readable summary of a role name.
func Describe(role string) string {
	r, ok := ParseRole(role)
	if !ok {
		return "Unknown user type"
	}
	return descriptions[r]
}

// Factory builds new accounts for a role with the password already hashed.
type Factory struct {
	hash func(string) (string, error)
}

func NewFactory() *Factory {
	return &Factory{hash: auth.HashPassword}
}

func (f *Factory) New(ctx context.Context, role string, p Params) (*User, error) {
	r, ok := ParseRole(role)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRole, role)
	}

	username := strings.TrimSpace(p.Username)
	email := strings.TrimSpace(p.Email)
	if username == "" || email == "" || p.Password == "" {
		return nil, ErrMissingField
	}

	hashed, err := f.hash(p.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	logger.FromCtx(ctx).Info("building user account",
		zap.String("username", username),
		zap.String("role", r.String()),
		zap.String("description", descriptions[r]),
	)

	return &User{
		Username: username,
		Email:    strings.ToLower(email),
		Password: hashed,
		FullName: strings.TrimSpace(p.FullName),
		Phone:    strings.TrimSpace(p.Phone),
		Address:  strings.TrimSpace(p.Address),
		Role:     r,
		IsActive: true,
	}, nil
}
