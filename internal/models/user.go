package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role is the closed set of authorization levels a user can hold.
// It is embedded in session tokens and checked by the role middleware.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// User is the credential store record. The password is stored as a bcrypt
// hash and is never serialized. The first user ever registered is promoted
// to admin; everyone after that defaults to user.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Role     Role   `gorm:"type:varchar(16);not null;default:'user'" json:"role"`

	IsVerified        bool       `json:"isVerified"`
	VerifiedAt        *time.Time `json:"verified,omitempty"`
	VerificationToken string     `json:"-"`

	// Single-use reset credentials, cleared on a successful password reset.
	ResetToken       string     `json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HashPassword replaces the plaintext password with its bcrypt hash.
func (u *User) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// CheckPassword compares a plaintext candidate against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}
