package localdb

import (
	"encoding/json"
	"sync"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/grade"
)

type gradeRepository struct {
	mu     sync.RWMutex
	db     *DB
	grades []grade.Grade
	nextID int64
}

var _ grade.Repository = (*gradeRepository)(nil)

func NewGradeRepository(db *DB) grade.Repository {
	repo := &gradeRepository{db: db}

	if raw, ok := db.kv.Get(gradesKey); ok {
		if err := json.Unmarshal([]byte(raw), &repo.grades); err != nil {
			repo.grades = nil // unparseable data degrades to empty
		}
	} else {
		repo.grades = SeedGrades()
		_ = repo.save()
	}

	repo.nextID = 1
	for _, g := range repo.grades {
		if g.ID >= repo.nextID {
			repo.nextID = g.ID + 1
		}
	}
	return repo
}

func (repo *gradeRepository) save() error {
	data, err := json.Marshal(repo.grades)
	if err != nil {
		return err
	}
	if err = repo.db.kv.Set(gradesKey, string(data)); err != nil {
		return core.NewShutdownError("persisting grades: " + err.Error())
	}
	return nil
}

func (repo *gradeRepository) CreateGrade(g grade.Grade) (grade.Grade, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	g.ID = repo.nextID
	repo.nextID++
	repo.grades = append(repo.grades, g)
	if err := repo.save(); err != nil {
		return grade.Grade{}, err
	}
	return g, nil
}

func (repo *gradeRepository) QueryAllGrades() ([]grade.Grade, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	grades := make([]grade.Grade, len(repo.grades))
	copy(grades, repo.grades)
	return grades, nil
}

func (repo *gradeRepository) GetGradeByID(id int64) (grade.Grade, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, g := range repo.grades {
		if g.ID == id {
			return g, nil
		}
	}
	return grade.Grade{}, grade.ErrNotFound
}

func (repo *gradeRepository) UpdateGrade(g grade.Grade) (grade.Grade, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for i := range repo.grades {
		if repo.grades[i].ID == g.ID {
			g.CreatedAt = repo.grades[i].CreatedAt // server-assigned, never patched
			repo.grades[i] = g
			if err := repo.save(); err != nil {
				return grade.Grade{}, err
			}
			return g, nil
		}
	}
	return grade.Grade{}, grade.ErrNotFound
}

func (repo *gradeRepository) DeleteGrade(id int64) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	kept := repo.grades[:0]
	for _, g := range repo.grades {
		if g.ID != id {
			kept = append(kept, g)
		}
	}
	if len(kept) == len(repo.grades) {
		return grade.ErrNotFound
	}
	repo.grades = kept
	return repo.save()
}
