package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"pasteleria-api/internal/auth"
	"pasteleria-api/internal/pricing"
)

// DateLayout is the wire format for birth dates.
const DateLayout = "2006-01-02"

var (
	ErrEmailTaken    = errors.New("email already registered")
	ErrNotFound      = errors.New("user not found")
	ErrBadCredential = errors.New("invalid email or password")
)

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (Conf, error) {
	if db == nil {
		return Conf{}, fmt.Errorf("db is nil")
	}
	return Conf{db: db}, nil
}

// InsertUser hashes the password and creates a CLIENT account. Redeeming the
// FELICES50 code at signup sets the lifetime promo flag.
func (c *Conf) InsertUser(ctx context.Context, nu NewUser) (User, error) {
	dob, err := time.Parse(DateLayout, nu.DateOfBirth)
	if err != nil {
		return User{}, fmt.Errorf("invalid date of birth %q: %w", nu.DateOfBirth, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hashing password: %w", err)
	}

	hasFelices50 := strings.EqualFold(strings.TrimSpace(nu.Code), pricing.CodeFelices50)

	query := `
		INSERT INTO users (name, email, password_hash, role, date_of_birth, is_duoc_student, has_felices50, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	user := User{
		Name:          nu.Name,
		Email:         strings.ToLower(nu.Email),
		Role:          auth.RoleClient,
		DateOfBirth:   &dob,
		IsDuocStudent: nu.IsDuocStudent,
		HasFelices50:  hasFelices50,
	}
	err = c.db.QueryRowContext(ctx, query,
		user.Name, user.Email, string(hash), user.Role, dob, user.IsDuocStudent, user.HasFelices50,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "users_email_key") {
			return User{}, ErrEmailTaken
		}
		return User{}, fmt.Errorf("inserting user: %w", err)
	}
	return user, nil
}

// Authenticate checks the email/password pair and returns the account.
func (c *Conf) Authenticate(ctx context.Context, email, password string) (User, error) {
	query := `
		SELECT id, name, email, password_hash, role, date_of_birth, is_duoc_student, has_felices50, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	var (
		user User
		hash string
		dob  sql.NullTime
	)
	err := c.db.QueryRowContext(ctx, query, strings.ToLower(email)).Scan(
		&user.ID, &user.Name, &user.Email, &hash, &user.Role, &dob,
		&user.IsDuocStudent, &user.HasFelices50, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrBadCredential
		}
		return User{}, fmt.Errorf("querying user by email: %w", err)
	}
	if dob.Valid {
		user.DateOfBirth = &dob.Time
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return User{}, ErrBadCredential
	}
	return user, nil
}

// GetByID fetches one account.
func (c *Conf) GetByID(ctx context.Context, id int64) (User, error) {
	query := `
		SELECT id, name, email, role, date_of_birth, is_duoc_student, has_felices50, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	var (
		user User
		dob  sql.NullTime
	)
	err := c.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Name, &user.Email, &user.Role, &dob,
		&user.IsDuocStudent, &user.HasFelices50, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("querying user %d: %w", id, err)
	}
	if dob.Valid {
		user.DateOfBirth = &dob.Time
	}
	return user, nil
}

// ListUsers returns all accounts, newest first.
func (c *Conf) ListUsers(ctx context.Context) ([]User, error) {
	query := `
		SELECT id, name, email, role, date_of_birth, is_duoc_student, has_felices50, created_at, updated_at
		FROM users
		ORDER BY created_at DESC
	`
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var (
			user User
			dob  sql.NullTime
		)
		if err := rows.Scan(
			&user.ID, &user.Name, &user.Email, &user.Role, &dob,
			&user.IsDuocStudent, &user.HasFelices50, &user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		if dob.Valid {
			user.DateOfBirth = &dob.Time
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}
	return users, nil
}

// UpdateUser applies the non-nil fields and returns the updated account.
func (c *Conf) UpdateUser(ctx context.Context, id int64, up UpdateUser) (User, error) {
	current, err := c.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	if up.Name != nil {
		current.Name = *up.Name
	}
	if up.DateOfBirth != nil {
		dob, err := time.Parse(DateLayout, *up.DateOfBirth)
		if err != nil {
			return User{}, fmt.Errorf("invalid date of birth %q: %w", *up.DateOfBirth, err)
		}
		current.DateOfBirth = &dob
	}
	if up.IsDuocStudent != nil {
		current.IsDuocStudent = *up.IsDuocStudent
	}

	query := `
		UPDATE users
		SET name = $1, date_of_birth = $2, is_duoc_student = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`
	var dob interface{}
	if current.DateOfBirth != nil {
		dob = *current.DateOfBirth
	}
	if err := c.db.QueryRowContext(ctx, query, current.Name, dob, current.IsDuocStudent, id).Scan(&current.UpdatedAt); err != nil {
		return User{}, fmt.Errorf("updating user %d: %w", id, err)
	}
	return current, nil
}

// DeleteUser removes an account.
func (c *Conf) DeleteUser(ctx context.Context, id int64) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting user %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
