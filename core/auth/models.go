package auth

import (
	"github.com/volatiletech/null/v8"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/academia/core"
)

// Role is the closed set of roles an identity can hold.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStudent:
		return true
	}
	return false
}

// Identity is the current authenticated session. Exactly one identity is
// active at a time; its snapshot is persisted so a restart restores the session.
type Identity struct {
	ID    int64  `json:"id"`
	Email string `json:"email"` // lowercased
	Role  Role   `json:"role"`
	Token string `json:"token"` // opaque
	// StudentID links the identity to a Student record; set for student roles.
	StudentID null.Int64 `json:"student_id,omitempty"`
}

// Account is a dynamically registered account; disjoint from the fixed demo
// account set. Passwords are hashed at rest, matching stays exact.
type Account struct {
	Email        string     `json:"email"` // lowercased, unique
	PasswordHash []byte     `json:"password_hash"`
	StudentID    null.Int64 `json:"student_id,omitempty"`
}

func (a *Account) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

func (a *Account) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(pwd))
}

// RegisterAccount contains information needed to register a new account.
type RegisterAccount struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (ra *RegisterAccount) Validate() error {
	ra.Email = core.CleanString(ra.Email, true /* lower */)
	return core.Validate.Struct(ra)
}

type ResetAccountPassword struct {
	Token           string `json:"token,omitempty" validate:"required"`
	UID             string `json:"uid,omitempty" validate:"required"`
	Password        string `json:"password,omitempty" validate:"required"`
	PasswordConfirm string `json:"password_confirm,omitempty" validate:"required,eqfield=Password"`
}

func (rp ResetAccountPassword) Validate() error { return core.Validate.Struct(rp) }
