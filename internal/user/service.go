package user

import (
	"context"
	"fmt"
	"strings"

	"spareparts-be/internal/auth"
	"spareparts-be/internal/db"
	"spareparts-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Register(ctx context.Context, p Params) (*User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)

	List(ctx context.Context) ([]*User, error)
	Get(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, p Params) (*User, error)
	Update(ctx context.Context, id int64, p UpdateParams) (*User, error)
	Delete(ctx context.Context, id int64) error
	ListByRole(ctx context.Context, role string) ([]*User, error)
	Activate(ctx context.Context, id int64) (*User, error)
	Deactivate(ctx context.Context, id int64) (*User, error)

	RegisterDeliveryStaff(ctx context.Context, in StaffRegistration) (*DeliveryStaff, error)
	GetDeliveryStaff(ctx context.Context, id int64) (*DeliveryStaff, error)
	ListDeliveryStaff(ctx context.Context) ([]*DeliveryStaff, error)
	UpdateDeliveryStaff(ctx context.Context, id int64, in StaffProfileUpdate) (*DeliveryStaff, error)
	VerifyDeliveryStaff(ctx context.Context, userID int64) error
}

type service struct {
	repo    Repository
	factory *Factory
	tx      db.Transactor
}

func NewService(repo Repository, factory *Factory, tx db.Transactor) Service {
	return &service{repo: repo, factory: factory, tx: tx}
}

// checkAvailable reports ErrUsernameTaken or ErrEmailTaken before an insert.
func (s *service) checkAvailable(ctx context.Context, username, email string) error {
	taken, err := s.repo.ExistsByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return err
	}
	if taken {
		return ErrUsernameTaken
	}

	taken, err = s.repo.ExistsByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return err
	}
	if taken {
		return ErrEmailTaken
	}
	return nil
}

// Register is the public sign-up path. Only CUSTOMER accounts can be
// self-registered; an empty role means CUSTOMER.
func (s *service) Register(ctx context.Context, p Params) (*User, error) {
	if strings.TrimSpace(p.Role) != "" {
		r, ok := ParseRole(p.Role)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidRole, p.Role)
		}
		if r != RoleCustomer {
			logger.FromCtx(ctx).Warn("self-registration with privileged role rejected",
				zap.String("username", p.Username),
				zap.String("role", r.String()),
			)
			return nil, ErrRoleNotAllowed
		}
	}
	return s.create(ctx, RoleCustomer, p)
}

func (s *service) create(ctx context.Context, role Role, p Params) (*User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "create"),
		zap.String("username", p.Username),
	)

	if err := s.checkAvailable(ctx, p.Username, p.Email); err != nil {
		log.Warn("registration rejected", zap.Error(err))
		return nil, err
	}

	u, err := s.factory.New(ctx, role.String(), p)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, u)
	if err != nil {
		log.Error("failed to create user", zap.Error(err))
		return nil, err
	}

	log.Info("user registered",
		zap.Int64("user_id", created.ID),
		zap.String("role", created.Role.String()),
	)
	return created, nil
}

func (s *service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Login"),
		zap.String("username", username),
	)

	u, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		log.Warn("login failed: unknown user", zap.Error(err))
		return nil, ErrInvalidCredentials
	}
	if !auth.CheckPasswordHash(password, u.Password) {
		log.Warn("login failed: password mismatch")
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrUserInactive
	}

	token, err := auth.GenerateJWT(u.ID, u.Username, u.Email, u.Role.String())
	if err != nil {
		log.Error("failed to generate jwt", zap.Error(err))
		return nil, err
	}

	log.Info("login successful", zap.String("role", u.Role.String()))
	return &LoginResult{
		Token:    token,
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
	}, nil
}

func (s *service) List(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx, nil)
}

func (s *service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// Create is the administrative path; the role is required.
func (s *service) Create(ctx context.Context, p Params) (*User, error) {
	r, ok := ParseRole(p.Role)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRole, p.Role)
	}
	return s.create(ctx, r, p)
}

func (s *service) Update(ctx context.Context, id int64, p UpdateParams) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Email != nil && strings.TrimSpace(*p.Email) != "" {
		email := strings.ToLower(strings.TrimSpace(*p.Email))
		if !strings.EqualFold(email, u.Email) {
			taken, err := s.repo.ExistsByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrEmailTaken
			}
		}
		u.Email = email
	}
	if p.Password != nil && *p.Password != "" {
		hashed, err := s.factory.hash(*p.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.Password = hashed
	}
	if p.FullName != nil {
		u.FullName = strings.TrimSpace(*p.FullName)
	}
	if p.Phone != nil {
		u.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.Address != nil {
		u.Address = strings.TrimSpace(*p.Address)
	}
	if p.Role != nil {
		r, ok := ParseRole(*p.Role)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidRole, *p.Role)
		}
		u.Role = r
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}

	return s.repo.Update(ctx, u)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.FromCtx(ctx).Info("user deleted", zap.Int64("user_id", id))
	return nil
}

func (s *service) ListByRole(ctx context.Context, role string) ([]*User, error) {
	r, ok := ParseRole(role)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRole, role)
	}
	return s.repo.List(ctx, &r)
}

func (s *service) setActive(ctx context.Context, id int64, active bool) (*User, error) {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	logger.FromCtx(ctx).Info("user activation changed",
		zap.Int64("user_id", id),
		zap.Bool("active", active),
	)
	return s.repo.GetByID(ctx, id)
}

func (s *service) Activate(ctx context.Context, id int64) (*User, error) {
	return s.setActive(ctx, id, true)
}

func (s *service) Deactivate(ctx context.Context, id int64) (*User, error) {
	return s.setActive(ctx, id, false)
}

func validateVehicle(v VehicleDetails) error {
	if strings.TrimSpace(v.VehicleNumber) == "" || strings.TrimSpace(v.LicenseNumber) == "" {
		return fmt.Errorf("%w: vehicle number and license number", ErrMissingField)
	}
	if v.DrivingExperience < 0 {
		return ErrInvalidExperience
	}
	return nil
}

// RegisterDeliveryStaff creates the account and its vehicle profile in one
// transaction.
func (s *service) RegisterDeliveryStaff(ctx context.Context, in StaffRegistration) (*DeliveryStaff, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "RegisterDeliveryStaff"),
		zap.String("username", in.Username),
	)

	if err := validateVehicle(in.VehicleDetails); err != nil {
		return nil, err
	}

	var staff *DeliveryStaff
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.checkAvailable(ctx, in.Username, in.Email); err != nil {
			return err
		}

		u, err := s.factory.New(ctx, RoleDeliveryStaff.String(), in.Params)
		if err != nil {
			return err
		}
		created, err := s.repo.Create(ctx, u)
		if err != nil {
			return err
		}

		profile := &StaffProfile{UserID: created.ID, VehicleDetails: in.VehicleDetails}
		if err := s.repo.CreateStaffProfile(ctx, profile); err != nil {
			return err
		}

		staff = &DeliveryStaff{User: *created, VehicleDetails: in.VehicleDetails, HasProfile: true}
		return nil
	})
	if err != nil {
		log.Warn("delivery staff registration failed", zap.Error(err))
		return nil, err
	}

	log.Info("delivery staff registered", zap.Int64("user_id", staff.ID))
	return staff, nil
}

func (s *service) staffUser(ctx context.Context, id int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Role != RoleDeliveryStaff {
		return nil, ErrNotDeliveryStaff
	}
	return u, nil
}

func (s *service) GetDeliveryStaff(ctx context.Context, id int64) (*DeliveryStaff, error) {
	u, err := s.staffUser(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.GetStaffProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	return &DeliveryStaff{User: *u, VehicleDetails: p.VehicleDetails, HasProfile: true}, nil
}

func (s *service) ListDeliveryStaff(ctx context.Context) ([]*DeliveryStaff, error) {
	return s.repo.ListDeliveryStaff(ctx)
}

func (s *service) UpdateDeliveryStaff(ctx context.Context, id int64, in StaffProfileUpdate) (*DeliveryStaff, error) {
	if err := validateVehicle(in.VehicleDetails); err != nil {
		return nil, err
	}

	var staff *DeliveryStaff
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		u, err := s.staffUser(ctx, id)
		if err != nil {
			return err
		}
		u.FullName = strings.TrimSpace(in.FullName)
		u.Phone = strings.TrimSpace(in.Phone)
		u.Address = strings.TrimSpace(in.Address)

		updated, err := s.repo.Update(ctx, u)
		if err != nil {
			return err
		}
		profile := &StaffProfile{UserID: id, VehicleDetails: in.VehicleDetails}
		if err := s.repo.UpdateStaffProfile(ctx, profile); err != nil {
			return err
		}

		staff = &DeliveryStaff{User: *updated, VehicleDetails: in.VehicleDetails, HasProfile: true}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return staff, nil
}

// VerifyDeliveryStaff fails unless userID is an active DELIVERY_STAFF account.
func (s *service) VerifyDeliveryStaff(ctx context.Context, userID int64) error {
	u, err := s.staffUser(ctx, userID)
	if err != nil {
		return err
	}
	if !u.IsActive {
		return ErrUserInactive
	}
	return nil
}
