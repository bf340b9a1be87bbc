package grade

import (
	"errors"
	"math"
	"time"

	"github.com/trezcool/academia/core"
)

var errValueOutOfRange = errors.New("grade value must be a number between 0 and 20")

type Grade struct {
	ID        int64     `json:"id"`
	StudentID int64     `json:"student_id"`
	CourseID  int64     `json:"course_id"`
	Value     float64   `json:"value"` // 0..20 inclusive
	Date      string    `json:"date"`  // YYYY-MM-DD
	CreatedAt time.Time `json:"created_at"` // UTC
}

// EnrichedGrade is a read-only join projection combining a Grade with its
// student's display name and course's title.
type EnrichedGrade struct {
	Grade
	StudentName string `json:"student_name"`
	CourseTitle string `json:"course_title"`
}

// NewGrade contains information needed to create a new Grade.
type NewGrade struct {
	StudentID int64   `json:"student_id" validate:"required"`
	CourseID  int64   `json:"course_id" validate:"required"`
	Value     float64 `json:"value"`
	Date      string  `json:"date" validate:"omitempty,datetime=2006-01-02"` // default: today
}

func (ng *NewGrade) Validate() error {
	if err := core.Validate.Struct(ng); err != nil {
		return err
	}
	return validateValue(ng.Value)
}

// UpdateGrade defines what information may be provided to modify an existing
// Grade. Nil/empty fields keep their current value.
type UpdateGrade struct {
	StudentID *int64   `json:"student_id"`
	CourseID  *int64   `json:"course_id"`
	Value     *float64 `json:"value"`
	Date      string   `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

func (ug *UpdateGrade) Validate() error {
	if err := core.Validate.Struct(ug); err != nil {
		return err
	}
	if ug.Value != nil {
		return validateValue(*ug.Value)
	}
	return nil
}

// validateValue enforces the 0..20 inclusive range; NaN is rejected.
func validateValue(v float64) error {
	if math.IsNaN(v) || v < 0 || v > 20 {
		return core.NewValidationError(errValueOutOfRange, core.FieldError{Field: "value", Error: errValueOutOfRange.Error()})
	}
	return nil
}
