package user

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin         Role = "ADMIN"
	RoleCustomer      Role = "CUSTOMER"
	RoleDeliveryStaff Role = "DELIVERY_STAFF"
	RoleStoreOwner    Role = "STORE_OWNER"
)

var roles = []Role{RoleAdmin, RoleCustomer, RoleDeliveryStaff, RoleStoreOwner}

// ParseRole accepts a role name in any case.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range roles {
		if r == known {
			return r, true
		}
	}
	return "", false
}

func (r Role) String() string { return string(r) }

type User struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Password  string     `json:"-"`
	FullName  string     `json:"full_name"`
	Phone     string     `json:"phone"`
	Address   string     `json:"address"`
	Role      Role       `json:"role"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Params carries the fields used to build or update a user account.
type Params struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Role     string `json:"role"`
}

// UpdateParams holds optional changes; nil fields are left untouched.
type UpdateParams struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

type LoginResult struct {
	Token    string `json:"token"`
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
}

// VehicleDetails describes the vehicle and licence of a delivery staff member.
type VehicleDetails struct {
	VehicleMake       string `json:"vehicle_make"`
	VehicleModel      string `json:"vehicle_model"`
	VehicleNumber     string `json:"vehicle_number"`
	LicenseNumber     string `json:"license_number"`
	DrivingExperience int    `json:"driving_experience"`
}

type StaffProfile struct {
	UserID int64 `json:"-"`
	VehicleDetails
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// DeliveryStaff is a staff account joined with its profile. Profile fields
// are empty for accounts created without one.
type DeliveryStaff struct {
	User
	VehicleDetails
	HasProfile bool `json:"-"`
}

type StaffRegistration struct {
	Params
	VehicleDetails
}

type StaffProfileUpdate struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	VehicleDetails
}
