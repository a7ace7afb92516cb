package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"spareparts-be/internal/db"
	"spareparts-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, u *User) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, role *Role) ([]*User, error)
	Update(ctx context.Context, u *User) (*User, error)
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error

	CreateStaffProfile(ctx context.Context, p *StaffProfile) error
	GetStaffProfile(ctx context.Context, userID int64) (*StaffProfile, error)
	UpdateStaffProfile(ctx context.Context, p *StaffProfile) error
	ListDeliveryStaff(ctx context.Context) ([]*DeliveryStaff, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const userColumns = `id, username, email, password, full_name, COALESCE(phone, ''), COALESCE(address, ''),
	role, is_active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.Password, &u.FullName, &u.Phone, &u.Address,
		&u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// uniqueErr maps a unique violation to the sentinel for the offending column.
func uniqueErr(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != PgUniqueViolation {
		return err
	}
	switch pqErr.Constraint {
	case "users_username_key":
		return ErrUsernameTaken
	case "users_email_key":
		return ErrEmailTaken
	case "delivery_staff_details_vehicle_number_key":
		return ErrVehicleTaken
	case "delivery_staff_details_license_number_key":
		return ErrLicenseTaken
	}
	return err
}

func (r *repository) Create(ctx context.Context, u *User) (*User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
	)

	created, err := scanUser(db.Conn(ctx, r.db).QueryRowContext(ctx, `
		INSERT INTO users (username, email, password, full_name, phone, address, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+userColumns,
		u.Username, u.Email, u.Password, u.FullName, u.Phone, u.Address, u.Role, u.IsActive,
	))
	if err != nil {
		log.Error("db: failed to insert user",
			zap.String("username", u.Username),
			zap.Error(err),
		)
		return nil, uniqueErr(err)
	}
	return created, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*User, error) {
	u, err := scanUser(db.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w with id: %d", ErrUserNotFound, id)
	}
	return u, err
}

func (r *repository) GetByUsername(ctx context.Context, username string) (*User, error) {
	u, err := scanUser(db.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (r *repository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var ok bool
	err := db.Conn(ctx, r.db).QueryRowContext(ctx, query, arg).Scan(&ok)
	return ok, err
}

func (r *repository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username)
}

func (r *repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`, email)
}

func (r *repository) List(ctx context.Context, role *Role) ([]*User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	args := []any{}
	if role != nil {
		query += ` WHERE role = $1`
		args = append(args, *role)
	}
	query += ` ORDER BY id`

	rows, err := db.Conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *repository) Update(ctx context.Context, u *User) (*User, error) {
	updated, err := scanUser(db.Conn(ctx, r.db).QueryRowContext(ctx, `
		UPDATE users SET
			email = $1, password = $2, full_name = $3, phone = $4, address = $5,
			role = $6, is_active = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING `+userColumns,
		u.Email, u.Password, u.FullName, u.Phone, u.Address, u.Role, u.IsActive, u.ID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w with id: %d", ErrUserNotFound, u.ID)
	}
	if err != nil {
		return nil, uniqueErr(err)
	}
	return updated, nil
}

func (r *repository) SetActive(ctx context.Context, id int64, active bool) error {
	res, err := db.Conn(ctx, r.db).ExecContext(ctx,
		`UPDATE users SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	return expectOne(res, id)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	res, err := db.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == PgForeignKeyViolation {
			return ErrUserInUse
		}
		return err
	}
	return expectOne(res, id)
}

func expectOne(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w with id: %d", ErrUserNotFound, id)
	}
	return nil
}

func (r *repository) CreateStaffProfile(ctx context.Context, p *StaffProfile) error {
	_, err := db.Conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO delivery_staff_details (
			user_id, vehicle_make, vehicle_model, vehicle_number, license_number, driving_experience
		) VALUES ($1, $2, $3, $4, $5, $6)`,
		p.UserID, p.VehicleMake, p.VehicleModel, p.VehicleNumber, p.LicenseNumber, p.DrivingExperience,
	)
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to insert delivery staff details",
			zap.Int64("user_id", p.UserID),
			zap.Error(err),
		)
		return uniqueErr(err)
	}
	return nil
}

func (r *repository) GetStaffProfile(ctx context.Context, userID int64) (*StaffProfile, error) {
	var p StaffProfile
	err := db.Conn(ctx, r.db).QueryRowContext(ctx, `
		SELECT user_id, vehicle_make, vehicle_model, vehicle_number, license_number,
			driving_experience, created_at, updated_at
		FROM delivery_staff_details WHERE user_id = $1`, userID,
	).Scan(
		&p.UserID, &p.VehicleMake, &p.VehicleModel, &p.VehicleNumber, &p.LicenseNumber,
		&p.DrivingExperience, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w for user id: %d", ErrStaffNotFound, userID)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) UpdateStaffProfile(ctx context.Context, p *StaffProfile) error {
	res, err := db.Conn(ctx, r.db).ExecContext(ctx, `
		UPDATE delivery_staff_details SET
			vehicle_make = $1, vehicle_model = $2, vehicle_number = $3,
			license_number = $4, driving_experience = $5, updated_at = NOW()
		WHERE user_id = $6`,
		p.VehicleMake, p.VehicleModel, p.VehicleNumber, p.LicenseNumber, p.DrivingExperience, p.UserID,
	)
	if err != nil {
		return uniqueErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w for user id: %d", ErrStaffNotFound, p.UserID)
	}
	return nil
}

func (r *repository) ListDeliveryStaff(ctx context.Context) ([]*DeliveryStaff, error) {
	rows, err := db.Conn(ctx, r.db).QueryContext(ctx, `
		SELECT u.id, u.username, u.email, u.password, u.full_name, COALESCE(u.phone, ''),
			COALESCE(u.address, ''), u.role, u.is_active, u.created_at, u.updated_at,
			d.vehicle_make, d.vehicle_model, d.vehicle_number, d.license_number, d.driving_experience
		FROM users u
		LEFT JOIN delivery_staff_details d ON d.user_id = u.id
		WHERE u.role = $1
		ORDER BY u.id`, RoleDeliveryStaff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	staff := []*DeliveryStaff{}
	for rows.Next() {
		var (
			s                              DeliveryStaff
			vMake, vModel, number, license sql.NullString
			experience                     sql.NullInt64
		)
		err := rows.Scan(
			&s.ID, &s.Username, &s.Email, &s.Password, &s.FullName, &s.Phone,
			&s.Address, &s.Role, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
			&vMake, &vModel, &number, &license, &experience,
		)
		if err != nil {
			return nil, err
		}
		if license.Valid {
			s.HasProfile = true
			s.VehicleMake = vMake.String
			s.VehicleModel = vModel.String
			s.VehicleNumber = number.String
			s.LicenseNumber = license.String
			s.DrivingExperience = int(experience.Int64)
		}
		staff = append(staff, &s)
	}
	return staff, rows.Err()
}
