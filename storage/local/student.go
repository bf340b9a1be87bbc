package localdb

import (
	"encoding/json"
	"sync"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/student"
)

type studentRepository struct {
	mu       sync.RWMutex
	db       *DB
	students []student.Student
	nextID   int64
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *DB) student.Repository {
	repo := &studentRepository{db: db}

	if raw, ok := db.kv.Get(studentsKey); ok {
		if err := json.Unmarshal([]byte(raw), &repo.students); err != nil {
			repo.students = nil // unparseable data degrades to empty
		}
	} else {
		repo.students = SeedStudents()
		_ = repo.save()
	}

	repo.nextID = 1
	for _, st := range repo.students {
		if st.ID >= repo.nextID {
			repo.nextID = st.ID + 1
		}
	}
	return repo
}

// save serializes the full collection, overwriting prior contents. A write
// failure leaves the cache out of sync with storage, so it surfaces as a
// shutdown error.
func (repo *studentRepository) save() error {
	data, err := json.Marshal(repo.students)
	if err != nil {
		return err
	}
	if err = repo.db.kv.Set(studentsKey, string(data)); err != nil {
		return core.NewShutdownError("persisting students: " + err.Error())
	}
	return nil
}

func (repo *studentRepository) CreateStudent(st student.Student) (student.Student, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	st.ID = repo.nextID
	repo.nextID++
	repo.students = append(repo.students, st)
	if err := repo.save(); err != nil {
		return student.Student{}, err
	}
	return st, nil
}

func (repo *studentRepository) QueryAllStudents() ([]student.Student, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	students := make([]student.Student, len(repo.students))
	copy(students, repo.students)
	return students, nil
}

func (repo *studentRepository) GetStudentByID(id int64) (student.Student, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, st := range repo.students {
		if st.ID == id {
			return st, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentByEmail(email string) (student.Student, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, st := range repo.students {
		if st.Email == email {
			return st, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) UpdateStudent(st student.Student) (student.Student, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for i := range repo.students {
		if repo.students[i].ID == st.ID {
			st.CreatedAt = repo.students[i].CreatedAt // server-assigned, never patched
			repo.students[i] = st
			if err := repo.save(); err != nil {
				return student.Student{}, err
			}
			return st, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) DeleteStudent(id int64) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	kept := repo.students[:0]
	for _, st := range repo.students {
		if st.ID != id {
			kept = append(kept, st)
		}
	}
	if len(kept) == len(repo.students) {
		return student.ErrNotFound
	}
	repo.students = kept
	return repo.save()
}
