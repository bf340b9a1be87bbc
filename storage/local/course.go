package localdb

import (
	"encoding/json"
	"sync"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/course"
)

type courseRepository struct {
	mu      sync.RWMutex
	db      *DB
	courses []course.Course
	nextID  int64
}

var _ course.Repository = (*courseRepository)(nil)

func NewCourseRepository(db *DB) course.Repository {
	repo := &courseRepository{db: db}

	if raw, ok := db.kv.Get(coursesKey); ok {
		if err := json.Unmarshal([]byte(raw), &repo.courses); err != nil {
			repo.courses = nil // unparseable data degrades to empty
		}
		for i := range repo.courses {
			if repo.courses[i].StudentIDs == nil {
				repo.courses[i].StudentIDs = []int64{}
			}
		}
	} else {
		repo.courses = SeedCourses()
		_ = repo.save()
	}

	repo.nextID = 1
	for _, c := range repo.courses {
		if c.ID >= repo.nextID {
			repo.nextID = c.ID + 1
		}
	}
	return repo
}

func (repo *courseRepository) save() error {
	data, err := json.Marshal(repo.courses)
	if err != nil {
		return err
	}
	if err = repo.db.kv.Set(coursesKey, string(data)); err != nil {
		return core.NewShutdownError("persisting courses: " + err.Error())
	}
	return nil
}

func (repo *courseRepository) CreateCourse(c course.Course) (course.Course, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	c.ID = repo.nextID
	repo.nextID++
	repo.courses = append(repo.courses, c)
	if err := repo.save(); err != nil {
		return course.Course{}, err
	}
	return c, nil
}

func (repo *courseRepository) QueryAllCourses() ([]course.Course, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	courses := make([]course.Course, len(repo.courses))
	copy(courses, repo.courses)
	return courses, nil
}

func (repo *courseRepository) GetCourseByID(id int64) (course.Course, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, c := range repo.courses {
		if c.ID == id {
			return c, nil
		}
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) UpdateCourse(c course.Course) (course.Course, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for i := range repo.courses {
		if repo.courses[i].ID == c.ID {
			repo.courses[i] = c
			if err := repo.save(); err != nil {
				return course.Course{}, err
			}
			return c, nil
		}
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) DeleteCourse(id int64) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	kept := repo.courses[:0]
	for _, c := range repo.courses {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(repo.courses) {
		return course.ErrNotFound
	}
	repo.courses = kept
	return repo.save()
}

func (repo *courseRepository) ReplaceCourses(courses []course.Course) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	repo.courses = make([]course.Course, len(courses))
	copy(repo.courses, courses)
	return repo.save()
}
