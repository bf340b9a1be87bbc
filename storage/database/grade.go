package sqldb

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/academia/core/grade"
)

type gradeRow struct {
	ID        int64     `db:"id"`
	StudentID int64     `db:"student_id"`
	CourseID  int64     `db:"course_id"`
	Value     float64   `db:"value"`
	Date      string    `db:"date"`
	CreatedAt time.Time `db:"created_at"`
}

func (r gradeRow) toGrade() grade.Grade {
	return grade.Grade{
		ID:        r.ID,
		StudentID: r.StudentID,
		CourseID:  r.CourseID,
		Value:     r.Value,
		Date:      r.Date,
		CreatedAt: r.CreatedAt,
	}
}

type gradeRepository struct {
	db *sqlx.DB
}

var _ grade.Repository = (*gradeRepository)(nil)

func NewGradeRepository(db *sqlx.DB) grade.Repository {
	return &gradeRepository{db: db}
}

func (repo *gradeRepository) CreateGrade(g grade.Grade) (grade.Grade, error) {
	err := repo.db.QueryRow(
		`INSERT INTO grades (student_id, course_id, value, date, created_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		g.StudentID, g.CourseID, g.Value, g.Date, g.CreatedAt,
	).Scan(&g.ID)
	if err != nil {
		return grade.Grade{}, err
	}
	return g, nil
}

func (repo *gradeRepository) QueryAllGrades() ([]grade.Grade, error) {
	var rows []gradeRow
	if err := repo.db.Select(&rows, `SELECT * FROM grades`); err != nil {
		return nil, err
	}
	grades := make([]grade.Grade, 0, len(rows))
	for _, r := range rows {
		grades = append(grades, r.toGrade())
	}
	return grades, nil
}

func (repo *gradeRepository) GetGradeByID(id int64) (grade.Grade, error) {
	var row gradeRow
	if err := repo.db.Get(&row, `SELECT * FROM grades WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return grade.Grade{}, grade.ErrNotFound
		}
		return grade.Grade{}, err
	}
	return row.toGrade(), nil
}

func (repo *gradeRepository) UpdateGrade(g grade.Grade) (grade.Grade, error) {
	res, err := repo.db.Exec(
		`UPDATE grades SET student_id = $1, course_id = $2, value = $3, date = $4 WHERE id = $5`,
		g.StudentID, g.CourseID, g.Value, g.Date, g.ID,
	)
	if err != nil {
		return grade.Grade{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return grade.Grade{}, grade.ErrNotFound
	}
	return repo.GetGradeByID(g.ID)
}

func (repo *gradeRepository) DeleteGrade(id int64) error {
	res, err := repo.db.Exec(`DELETE FROM grades WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return grade.ErrNotFound
	}
	return nil
}
