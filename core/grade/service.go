package grade

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/course"
	"github.com/trezcool/academia/core/student"
)

var (
	// errors
	ErrNotFound = errors.New("grade not found")

	nowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateGrade(g Grade) (Grade, error)
		QueryAllGrades() ([]Grade, error)
		GetGradeByID(id int64) (Grade, error)
		UpdateGrade(g Grade) (Grade, error)
		DeleteGrade(id int64) error
	}

	// Service owns the grades collection. It reads the student and course
	// collections (via their repositories) to enrich its output but never
	// mutates them.
	Service struct {
		repo     Repository
		students student.Repository
		courses  course.Repository
		delay    core.Delayer
		ops      *core.OpCounter
	}
)

func NewService(repo Repository, students student.Repository, courses course.Repository, delay core.Delayer, ops *core.OpCounter) *Service {
	return &Service{repo: repo, students: students, courses: courses, delay: delay, ops: ops}
}

// GetAll returns all grades sorted by creation time descending (most recent first).
func (svc *Service) GetAll(ctx context.Context) ([]Grade, error) {
	svc.ops.Start()
	defer svc.ops.Stop()
	if err := svc.delay.Delay(ctx); err != nil {
		return nil, err
	}

	grades, err := svc.repo.QueryAllGrades()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(grades, func(i, j int) bool { return grades[i].CreatedAt.After(grades[j].CreatedAt) })
	return grades, nil
}

func (svc *Service) GetByID(ctx context.Context, id int64) (Grade, error) {
	svc.ops.Start()
	defer svc.ops.Stop()
	if err := svc.delay.Delay(ctx); err != nil {
		return Grade{}, err
	}
	return svc.repo.GetGradeByID(id)
}

func (svc *Service) Create(ctx context.Context, ng NewGrade) (Grade, error) {
	svc.ops.Start()
	defer svc.ops.Stop()
	if err := svc.delay.Delay(ctx); err != nil {
		return Grade{}, err
	}

	if err := validateValue(ng.Value); err != nil {
		return Grade{}, err
	}

	now := nowFunc().UTC()
	date := ng.Date
	if date == "" {
		date = now.Format("2006-01-02")
	}
	return svc.repo.CreateGrade(Grade{
		StudentID: ng.StudentID,
		CourseID:  ng.CourseID,
		Value:     ng.Value,
		Date:      date,
		CreatedAt: now,
	})
}

func (svc *Service) Update(ctx context.Context, id int64, ug UpdateGrade) (Grade, error) {
	svc.ops.Start()
	defer svc.ops.Stop()
	if err := svc.delay.Delay(ctx); err != nil {
		return Grade{}, err
	}

	orig, err := svc.repo.GetGradeByID(id)
	if err != nil {
		return Grade{}, err
	}

	if ug.StudentID != nil {
		orig.StudentID = *ug.StudentID
	}
	if ug.CourseID != nil {
		orig.CourseID = *ug.CourseID
	}
	if ug.Value != nil {
		if err = validateValue(*ug.Value); err != nil {
			return Grade{}, err
		}
		orig.Value = *ug.Value
	}
	if ug.Date != "" {
		orig.Date = ug.Date
	}
	return svc.repo.UpdateGrade(orig)
}

func (svc *Service) Remove(ctx context.Context, id int64) error {
	svc.ops.Start()
	defer svc.ops.Stop()
	if err := svc.delay.Delay(ctx); err != nil {
		return err
	}
	return svc.repo.DeleteGrade(id)
}

// AvgByStudent returns the student's arithmetic mean rounded to 2 decimal
// places, or an invalid null.Float64 when the student has no grades.
func (svc *Service) AvgByStudent(studentID int64) (null.Float64, error) {
	return svc.avg(func(g Grade) bool { return g.StudentID == studentID })
}

// AvgByCourse returns the course's arithmetic mean rounded to 2 decimal
// places, or an invalid null.Float64 when the course has no grades.
func (svc *Service) AvgByCourse(courseID int64) (null.Float64, error) {
	return svc.avg(func(g Grade) bool { return g.CourseID == courseID })
}

func (svc *Service) avg(match func(Grade) bool) (null.Float64, error) {
	grades, err := svc.repo.QueryAllGrades()
	if err != nil {
		return null.Float64{}, err
	}

	var sum float64
	var n int
	for _, g := range grades {
		if match(g) {
			sum += g.Value
			n++
		}
	}
	if n == 0 {
		return null.Float64{}, nil
	}
	return null.Float64From(math.Round(sum/float64(n)*100) / 100), nil
}

// Enriched joins each grade with its student's display name and course's
// title. Lookups are built fresh from the current snapshots; missing
// references render as "#<id>" placeholders.
func (svc *Service) Enriched(ctx context.Context) ([]EnrichedGrade, error) {
	grades, err := svc.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	students, err := svc.students.QueryAllStudents()
	if err != nil {
		return nil, err
	}
	courses, err := svc.courses.QueryAllCourses()
	if err != nil {
		return nil, err
	}

	names := make(map[int64]string, len(students))
	for _, s := range students {
		names[s.ID] = s.DisplayName()
	}
	titles := make(map[int64]string, len(courses))
	for _, c := range courses {
		titles[c.ID] = c.Title
	}

	enriched := make([]EnrichedGrade, 0, len(grades))
	for _, g := range grades {
		name, ok := names[g.StudentID]
		if !ok {
			name = fmt.Sprintf("#%d", g.StudentID)
		}
		title, ok := titles[g.CourseID]
		if !ok {
			title = fmt.Sprintf("#%d", g.CourseID)
		}
		enriched = append(enriched, EnrichedGrade{Grade: g, StudentName: name, CourseTitle: title})
	}
	return enriched, nil
}
