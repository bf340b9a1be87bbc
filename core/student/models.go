package student

import (
	"time"

	"github.com/trezcool/academia/core"
)

type Student struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	BirthDate string    `json:"birth_date"` // YYYY-MM-DD
	CreatedAt time.Time `json:"created_at"` // UTC
}

func (s Student) DisplayName() string {
	return s.FirstName + " " + s.LastName
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	BirthDate string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
}

func (ns *NewStudent) Validate() error {
	ns.FirstName = core.CleanString(ns.FirstName)
	ns.LastName = core.CleanString(ns.LastName)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	return core.Validate.Struct(ns)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
// Empty fields keep their current value.
type UpdateStudent struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" validate:"omitempty,email"`
	BirthDate string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
}

func (us *UpdateStudent) Validate(orig Student) error {
	if fname := core.CleanString(us.FirstName); fname != "" {
		us.FirstName = fname
	} else {
		us.FirstName = orig.FirstName
	}

	if lname := core.CleanString(us.LastName); lname != "" {
		us.LastName = lname
	} else {
		us.LastName = orig.LastName
	}

	if email := core.CleanString(us.Email, true /* lower */); email != "" {
		us.Email = email
	} else {
		us.Email = orig.Email
	}

	if us.BirthDate == "" {
		us.BirthDate = orig.BirthDate
	}

	return core.Validate.Struct(us)
}
