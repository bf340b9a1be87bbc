package course

import (
	"context"
	"errors"
	"sort"

	"github.com/trezcool/academia/core"
)

var (
	// errors
	ErrNotFound = errors.New("course not found")
)

type (
	Repository interface {
		CreateCourse(c Course) (Course, error)
		QueryAllCourses() ([]Course, error)
		GetCourseByID(id int64) (Course, error)
		UpdateCourse(c Course) (Course, error)
		DeleteCourse(id int64) error
		// ReplaceCourses overwrites the whole collection; used when order
		// re-normalization touches every record.
		ReplaceCourses(courses []Course) error
	}

	Service struct {
		repo  Repository
		delay core.Delayer
		ops   *core.OpCounter
	}
)

func NewService(repo Repository, delay core.Delayer, ops *core.OpCounter) *Service {
	return &Service{repo: repo, delay: delay, ops: ops}
}

// GetAll returns all courses sorted by display order ascending.
func (svc *Service) GetAll(ctx context.Context) ([]Course, error) {
	svc.ops.Start()
	defer svc.ops.Stop()
	if err := svc.delay.Delay(ctx); err != nil {
		return nil, err
	}
	return svc.ordered()
}

func (svc *Service) GetByID(ctx context.Context, id int64) (Course, error) {
	svc.ops.Start()
	defer svc.ops.Stop()
	if err := svc.delay.Delay(ctx); err != nil {
		return Course{}, err
	}
	return svc.repo.GetCourseByID(id)
}

func (svc *Service) Create(ctx context.Context, nc NewCourse) (Course, error) {
	svc.ops.Start()
	defer svc.ops.Stop()
	if err := svc.delay.Delay(ctx); err != nil {
		return Course{}, err
	}

	existing, err := svc.repo.QueryAllCourses()
	if err != nil {
		return Course{}, err
	}

	studentIDs := nc.StudentIDs
	if studentIDs == nil {
		studentIDs = []int64{}
	}
	c, err := svc.repo.CreateCourse(Course{
		Title:      nc.Title,
		Teacher:    nc.Teacher,
		ECTS:       nc.ECTS,
		Date:       nc.Date,
		Order:      len(existing), // appended at the end
		StudentIDs: studentIDs,
	})
	if err != nil {
		return Course{}, err
	}
	if err = svc.renormalize(); err != nil {
		return Course{}, err
	}
	return svc.repo.GetCourseByID(c.ID)
}

func (svc *Service) Update(ctx context.Context, id int64, uc UpdateCourse) (Course, error) {
	svc.ops.Start()
	defer svc.ops.Stop()
	if err := svc.delay.Delay(ctx); err != nil {
		return Course{}, err
	}

	orig, err := svc.repo.GetCourseByID(id)
	if err != nil {
		return Course{}, err
	}
	if err = uc.Validate(orig); err != nil {
		return Course{}, err
	}

	orig.Title = uc.Title
	orig.Teacher = uc.Teacher
	orig.Date = uc.Date
	if uc.ECTS != nil {
		orig.ECTS = *uc.ECTS
	}
	if uc.Order != nil {
		orig.Order = *uc.Order
	}
	if uc.StudentIDs != nil {
		orig.StudentIDs = uc.StudentIDs
	}

	if _, err = svc.repo.UpdateCourse(orig); err != nil {
		return Course{}, err
	}
	if err = svc.renormalize(); err != nil {
		return Course{}, err
	}
	return svc.repo.GetCourseByID(id)
}

func (svc *Service) Remove(ctx context.Context, id int64) error {
	svc.ops.Start()
	defer svc.ops.Stop()
	if err := svc.delay.Delay(ctx); err != nil {
		return err
	}

	if err := svc.repo.DeleteCourse(id); err != nil {
		return err
	}
	return svc.renormalize()
}

// Reorder moves the course at fromIndex (in display order) to toIndex and
// re-normalizes every course's order to its new dense position. Indices
// outside [0, len) make the whole call a no-op.
func (svc *Service) Reorder(ctx context.Context, fromIndex, toIndex int) error {
	svc.ops.Start()
	defer svc.ops.Stop()
	if err := svc.delay.Delay(ctx); err != nil {
		return err
	}

	courses, err := svc.ordered()
	if err != nil {
		return err
	}
	n := len(courses)
	if fromIndex < 0 || fromIndex >= n || toIndex < 0 || toIndex >= n {
		return nil
	}

	moved := courses[fromIndex]
	courses = append(courses[:fromIndex], courses[fromIndex+1:]...)
	courses = append(courses, Course{})
	copy(courses[toIndex+1:], courses[toIndex:])
	courses[toIndex] = moved

	for i := range courses {
		courses[i].Order = i
	}
	return svc.repo.ReplaceCourses(courses)
}

// Enroll adds a student to the course's enrollment set; adding an already
// enrolled student is a no-op.
func (svc *Service) Enroll(ctx context.Context, courseID, studentID int64) (Course, error) {
	svc.ops.Start()
	defer svc.ops.Stop()
	if err := svc.delay.Delay(ctx); err != nil {
		return Course{}, err
	}

	c, err := svc.repo.GetCourseByID(courseID)
	if err != nil {
		return Course{}, err
	}
	for _, id := range c.StudentIDs {
		if id == studentID {
			return c, nil
		}
	}
	c.StudentIDs = append(c.StudentIDs, studentID)
	return svc.repo.UpdateCourse(c)
}

func (svc *Service) Unenroll(ctx context.Context, courseID, studentID int64) (Course, error) {
	svc.ops.Start()
	defer svc.ops.Stop()
	if err := svc.delay.Delay(ctx); err != nil {
		return Course{}, err
	}

	c, err := svc.repo.GetCourseByID(courseID)
	if err != nil {
		return Course{}, err
	}
	kept := c.StudentIDs[:0]
	for _, id := range c.StudentIDs {
		if id != studentID {
			kept = append(kept, id)
		}
	}
	c.StudentIDs = kept
	return svc.repo.UpdateCourse(c)
}

func (svc *Service) ordered() ([]Course, error) {
	courses, err := svc.repo.QueryAllCourses()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(courses, func(i, j int) bool { return courses[i].Order < courses[j].Order })
	return courses, nil
}

// renormalize rewrites every course's order to a contiguous 0-based sequence,
// preserving the current relative ordering.
func (svc *Service) renormalize() error {
	courses, err := svc.ordered()
	if err != nil {
		return err
	}
	for i := range courses {
		courses[i].Order = i
	}
	return svc.repo.ReplaceCourses(courses)
}
