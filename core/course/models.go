package course

import (
	"github.com/trezcool/academia/core"
)

type Course struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Teacher string `json:"teacher"`
	ECTS    int    `json:"ects"`
	Date    string `json:"date"` // YYYY-MM-DD
	// Order is the manually managed display position; kept dense (0..n-1)
	// across all surviving courses.
	Order      int     `json:"order"`
	StudentIDs []int64 `json:"student_ids"`
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Title      string  `json:"title" validate:"required"`
	Teacher    string  `json:"teacher" validate:"required"`
	ECTS       int     `json:"ects" validate:"min=0"`
	Date       string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	StudentIDs []int64 `json:"student_ids"`
}

func (nc *NewCourse) Validate() error {
	nc.Title = core.CleanString(nc.Title)
	nc.Teacher = core.CleanString(nc.Teacher)
	return core.Validate.Struct(nc)
}

// UpdateCourse defines what information may be provided to modify an existing
// Course. Empty/nil fields keep their current value.
type UpdateCourse struct {
	Title      string  `json:"title"`
	Teacher    string  `json:"teacher"`
	ECTS       *int    `json:"ects" validate:"omitempty,min=0"`
	Date       string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Order      *int    `json:"order" validate:"omitempty,min=0"`
	StudentIDs []int64 `json:"student_ids"`
}

func (uc *UpdateCourse) Validate(orig Course) error {
	if title := core.CleanString(uc.Title); title != "" {
		uc.Title = title
	} else {
		uc.Title = orig.Title
	}

	if teacher := core.CleanString(uc.Teacher); teacher != "" {
		uc.Teacher = teacher
	} else {
		uc.Teacher = orig.Teacher
	}

	if uc.Date == "" {
		uc.Date = orig.Date
	}

	return core.Validate.Struct(uc)
}
