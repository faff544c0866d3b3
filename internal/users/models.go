package users

import (
	"time"

	"pasteleria-api/internal/pricing"
)

// User is a stored account. DateOfBirth is nil when the customer never
// supplied one; benefit checks then fail closed.
type User struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Role          string     `json:"role"`
	DateOfBirth   *time.Time `json:"date_of_birth,omitempty"`
	IsDuocStudent bool       `json:"is_duoc_student"`
	HasFelices50  bool       `json:"has_felices50"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NewUser is the payload accepted at registration. DateOfBirth uses the
// YYYY-MM-DD wire format and is validated before it reaches the store.
type NewUser struct {
	Name          string `json:"name" validate:"required,min=2"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=8"`
	DateOfBirth   string `json:"date_of_birth" validate:"required"`
	IsDuocStudent bool   `json:"is_duoc_student"`
	Code          string `json:"code"`
}

// UpdateUser carries the fields an admin may change. Nil means unchanged.
type UpdateUser struct {
	Name          *string `json:"name"`
	DateOfBirth   *string `json:"date_of_birth"`
	IsDuocStudent *bool   `json:"is_duoc_student"`
}

// PricingProfile converts the stored account into the snapshot the discount
// engine consumes.
func (u *User) PricingProfile() *pricing.Profile {
	p := &pricing.Profile{
		IsDuocStudent: u.IsDuocStudent,
		HasFelices50:  u.HasFelices50,
	}
	if u.DateOfBirth != nil {
		p.DateOfBirth = *u.DateOfBirth
	}
	return p
}
