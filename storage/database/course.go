package sqldb

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/trezcool/academia/core/course"
)

type courseRow struct {
	ID         int64         `db:"id"`
	Title      string        `db:"title"`
	Teacher    string        `db:"teacher"`
	ECTS       int           `db:"ects"`
	Date       string        `db:"date"`
	Order      int           `db:"ord"`
	StudentIDs pq.Int64Array `db:"student_ids"`
}

func (r courseRow) toCourse() course.Course {
	return course.Course{
		ID:         r.ID,
		Title:      r.Title,
		Teacher:    r.Teacher,
		ECTS:       r.ECTS,
		Date:       r.Date,
		Order:      r.Order,
		StudentIDs: []int64(r.StudentIDs),
	}
}

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil)

func NewCourseRepository(db *sqlx.DB) course.Repository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) CreateCourse(c course.Course) (course.Course, error) {
	err := repo.db.QueryRow(
		`INSERT INTO courses (title, teacher, ects, date, ord, student_ids)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		c.Title, c.Teacher, c.ECTS, c.Date, c.Order, pq.Int64Array(c.StudentIDs),
	).Scan(&c.ID)
	if err != nil {
		return course.Course{}, err
	}
	return c, nil
}

func (repo *courseRepository) QueryAllCourses() ([]course.Course, error) {
	var rows []courseRow
	if err := repo.db.Select(&rows, `SELECT * FROM courses`); err != nil {
		return nil, err
	}
	courses := make([]course.Course, 0, len(rows))
	for _, r := range rows {
		courses = append(courses, r.toCourse())
	}
	return courses, nil
}

func (repo *courseRepository) GetCourseByID(id int64) (course.Course, error) {
	var row courseRow
	if err := repo.db.Get(&row, `SELECT * FROM courses WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return course.Course{}, course.ErrNotFound
		}
		return course.Course{}, err
	}
	return row.toCourse(), nil
}

func (repo *courseRepository) UpdateCourse(c course.Course) (course.Course, error) {
	res, err := repo.db.Exec(
		`UPDATE courses SET title = $1, teacher = $2, ects = $3, date = $4, ord = $5, student_ids = $6 WHERE id = $7`,
		c.Title, c.Teacher, c.ECTS, c.Date, c.Order, pq.Int64Array(c.StudentIDs), c.ID,
	)
	if err != nil {
		return course.Course{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return course.Course{}, course.ErrNotFound
	}
	return c, nil
}

func (repo *courseRepository) DeleteCourse(id int64) error {
	res, err := repo.db.Exec(`DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return course.ErrNotFound
	}
	return nil
}

// ReplaceCourses rewrites the whole collection in one transaction, preserving
// IDs, then realigns the sequence.
func (repo *courseRepository) ReplaceCourses(courses []course.Course) error {
	tx, err := repo.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.Exec(`DELETE FROM courses`); err != nil {
		return err
	}
	for _, c := range courses {
		if _, err = tx.Exec(
			`INSERT INTO courses (id, title, teacher, ects, date, ord, student_ids)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			c.ID, c.Title, c.Teacher, c.ECTS, c.Date, c.Order, pq.Int64Array(c.StudentIDs),
		); err != nil {
			return err
		}
	}
	if _, err = tx.Exec(`SELECT setval(pg_get_serial_sequence('courses', 'id'), COALESCE(MAX(id), 1)) FROM courses`); err != nil {
		return err
	}
	return tx.Commit()
}
