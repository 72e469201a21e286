package models

import (
	"errors"
	"time"

	"github.com/joshua-takyi/devevent/internal/errs"
	"github.com/joshua-takyi/devevent/internal/helpers"
	"github.com/joshua-takyi/devevent/internal/policy"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleUser  = policy.RoleUser
	RoleAdmin = policy.RoleAdmin

	passwordCost     = 10
	maxPasswordBytes = 72
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name" validate:"required,min=2,max=50"`
	Email     string             `bson:"email" json:"email" validate:"required,max=254"`
	Password  string             `bson:"password,omitempty" json:"-" validate:"required,min=8"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	Role      string             `bson:"role" json:"role" validate:"required,oneof=user admin"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) Sanitize() {
	u.Name = helpers.StringTrim(u.Name)
	u.Email = helpers.NormalizeEmail(u.Email)
	u.Image = helpers.StringTrim(u.Image)
	if u.Role == "" {
		u.Role = RoleUser
	}
}

func (u *User) ValidateUser() error {
	if err := Validate.Struct(u); err != nil {
		return validationError(err)
	}
	if !helpers.IsValidAccountEmail(u.Email) {
		return errs.Validation("email", "Please provide a valid email address")
	}
	return nil
}

// hashPassword replaces the plain password with its bcrypt hash. It always
// hashes; callers only pass freshly submitted passwords.
func (u *User) hashPassword() error {
	if len(u.Password) > maxPasswordBytes {
		return errs.Validation("password", "Password cannot exceed 72 bytes")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), passwordCost)
	if err != nil {
		return errs.Internal("failed to hash password", err)
	}
	u.Password = string(hash)
	return nil
}

// BeforeCreate sanitizes, validates and hashes a new user. Password must be
// the submitted plain text.
func (u *User) BeforeCreate() error {
	u.Sanitize()
	if err := u.ValidateUser(); err != nil {
		return err
	}
	if err := u.hashPassword(); err != nil {
		return err
	}
	u.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	return nil
}

// ComparePassword reports whether candidate matches the stored hash. It never
// fails on a mismatch.
func (u *User) ComparePassword(candidate string) bool {
	ok, err := u.ComparePasswordErr(candidate)
	return ok && err == nil
}

// ComparePasswordErr is ComparePassword but surfaces a malformed stored hash
// as an internal error.
func (u *User) ComparePasswordErr(candidate string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(candidate))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, errs.Internal("password comparison failed", err)
	}
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// NormalizeProfile trims and validates the self-editable profile fields.
func NormalizeProfile(name, email string) (string, string, error) {
	u := &User{Name: name, Email: email}
	u.Sanitize()
	if err := Validate.StructPartial(u, "Name", "Email"); err != nil {
		return "", "", validationError(err)
	}
	if !helpers.IsValidAccountEmail(u.Email) {
		return "", "", errs.Validation("email", "Invalid email format")
	}
	return u.Name, u.Email, nil
}

// UserSummary is the public projection of a user embedded in other payloads.
type UserSummary struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
}
