package student

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/volatiletech/strmangle"

	"github.com/trezcool/academia/core"
)

var (
	// errors
	ErrNotFound = errors.New("student not found")

	nowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateStudent(st Student) (Student, error)
		QueryAllStudents() ([]Student, error)
		GetStudentByID(id int64) (Student, error)
		GetStudentByEmail(email string) (Student, error)
		UpdateStudent(st Student) (Student, error)
		DeleteStudent(id int64) error
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

// GetAll returns all students sorted by last name, then first name.
func (svc *Service) GetAll(ctx context.Context) ([]Student, error) {
	svc.ops.Start()
	defer svc.ops.Stop()
	if err := svc.delay.Delay(ctx); err != nil {
		return nil, err
	}

	students, err := svc.repo.QueryAllStudents()
	if err != nil {
		return nil, err
	}
	sort.Slice(students, func(i, j int) bool {
		ln := strings.Compare(students[i].LastName, students[j].LastName)
		if ln != 0 {
			return ln < 0
		}
		return students[i].FirstName < students[j].FirstName
	})
	return students, nil
}

func (svc *Service) GetByID(ctx context.Context, id int64) (Student, error) {
	svc.ops.Start()
	defer svc.ops.Stop()
	if err := svc.delay.Delay(ctx); err != nil {
		return Student{}, err
	}
	return svc.repo.GetStudentByID(id)
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	svc.ops.Start()
	defer svc.ops.Stop()
	if err := svc.delay.Delay(ctx); err != nil {
		return Student{}, err
	}

	return svc.repo.CreateStudent(Student{
		FirstName: ns.FirstName,
		LastName:  ns.LastName,
		Email:     ns.Email,
		BirthDate: ns.BirthDate,
		CreatedAt: nowFunc().UTC(),
	})
}

func (svc *Service) Update(ctx context.Context, id int64, us UpdateStudent) (Student, error) {
	svc.ops.Start()
	defer svc.ops.Stop()
	if err := svc.delay.Delay(ctx); err != nil {
		return Student{}, err
	}

	orig, err := svc.repo.GetStudentByID(id)
	if err != nil {
		return Student{}, err
	}
	if err = us.Validate(orig); err != nil {
		return Student{}, err
	}

	orig.FirstName = us.FirstName
	orig.LastName = us.LastName
	orig.Email = us.Email
	orig.BirthDate = us.BirthDate
	return svc.repo.UpdateStudent(orig)
}

func (svc *Service) Remove(ctx context.Context, id int64) error {
	svc.ops.Start()
	defer svc.ops.Stop()
	if err := svc.delay.Delay(ctx); err != nil {
		return err
	}
	return svc.repo.DeleteStudent(id)
}

// EnsureByEmail finds the student with the given email or creates one derived
// from it, and returns the student's ID. Used to link identities to student
// records; idempotent by email.
func (svc *Service) EnsureByEmail(ctx context.Context, email string) (int64, error) {
	svc.ops.Start()
	defer svc.ops.Stop()
	if err := svc.delay.Delay(ctx); err != nil {
		return 0, err
	}

	email = core.CleanString(email, true /* lower */)
	if st, err := svc.repo.GetStudentByEmail(email); err == nil {
		return st.ID, nil
	} else if err != ErrNotFound {
		return 0, err
	}

	first, last := namesFromEmail(email)
	now := nowFunc().UTC()
	st, err := svc.repo.CreateStudent(Student{
		FirstName: first,
		LastName:  last,
		Email:     email,
		BirthDate: now.AddDate(-20, 0, 0).Format("2006-01-02"),
		CreatedAt: now,
	})
	if err != nil {
		return 0, err
	}
	return st.ID, nil
}

// namesFromEmail derives a first and last name from the email's local part.
func namesFromEmail(email string) (string, string) {
	local := strings.SplitN(email, "@", 2)[0]
	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '-' || r == '_'
	})

	first, last := "User", "Demo"
	if len(parts) > 0 {
		first = strmangle.TitleCase(parts[0])
	}
	if len(parts) > 1 {
		last = strmangle.TitleCase(parts[1])
	}
	return first, last
}
