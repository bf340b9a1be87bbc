package sqldb

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/academia/core/student"
)

type studentRow struct {
	ID        int64     `db:"id"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	Email     string    `db:"email"`
	BirthDate string    `db:"birth_date"`
	CreatedAt time.Time `db:"created_at"`
}

func (r studentRow) toStudent() student.Student {
	return student.Student{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		BirthDate: r.BirthDate,
		CreatedAt: r.CreatedAt,
	}
}

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CreateStudent(st student.Student) (student.Student, error) {
	err := repo.db.QueryRow(
		`INSERT INTO students (first_name, last_name, email, birth_date, created_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		st.FirstName, st.LastName, st.Email, st.BirthDate, st.CreatedAt,
	).Scan(&st.ID)
	if err != nil {
		return student.Student{}, err
	}
	return st, nil
}

func (repo *studentRepository) QueryAllStudents() ([]student.Student, error) {
	var rows []studentRow
	if err := repo.db.Select(&rows, `SELECT * FROM students`); err != nil {
		return nil, err
	}
	students := make([]student.Student, 0, len(rows))
	for _, r := range rows {
		students = append(students, r.toStudent())
	}
	return students, nil
}

func (repo *studentRepository) GetStudentByID(id int64) (student.Student, error) {
	var row studentRow
	if err := repo.db.Get(&row, `SELECT * FROM students WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, err
	}
	return row.toStudent(), nil
}

func (repo *studentRepository) GetStudentByEmail(email string) (student.Student, error) {
	var row studentRow
	if err := repo.db.Get(&row, `SELECT * FROM students WHERE email = $1`, email); err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, err
	}
	return row.toStudent(), nil
}

func (repo *studentRepository) UpdateStudent(st student.Student) (student.Student, error) {
	res, err := repo.db.Exec(
		`UPDATE students SET first_name = $1, last_name = $2, email = $3, birth_date = $4 WHERE id = $5`,
		st.FirstName, st.LastName, st.Email, st.BirthDate, st.ID,
	)
	if err != nil {
		return student.Student{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return repo.GetStudentByID(st.ID)
}

func (repo *studentRepository) DeleteStudent(id int64) error {
	res, err := repo.db.Exec(`DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return student.ErrNotFound
	}
	return nil
}
