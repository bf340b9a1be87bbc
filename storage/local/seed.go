package localdb

import (
	"time"

	"github.com/trezcool/academia/core/course"
	"github.com/trezcool/academia/core/grade"
	"github.com/trezcool/academia/core/student"
)

// Deterministic demo data used when a collection's storage key is missing.
// Student IDs line up with the demo account table; course IDs with the grade
// seed.

func SeedStudents() []student.Student {
	now := time.Now().UTC()
	return []student.Student{
		{ID: 1, FirstName: "User", LastName: "Test", Email: "user@test.com", BirthDate: "2004-01-15", CreatedAt: now},
		{ID: 2, FirstName: "Alice", LastName: "Martin", Email: "alice@test.com", BirthDate: "2003-05-20", CreatedAt: now},
		{ID: 3, FirstName: "Bob", LastName: "Dupont", Email: "bob@test.com", BirthDate: "2003-09-10", CreatedAt: now},
	}
}

func SeedCourses() []course.Course {
	return []course.Course{
		{ID: 1, Title: "Advanced Programming", Teacher: "Dr. Martin", ECTS: 5, Date: "2025-09-10", Order: 0, StudentIDs: []int64{}},
		{ID: 2, Title: "Databases", Teacher: "Ms. Leroy", ECTS: 4, Date: "2025-09-12", Order: 1, StudentIDs: []int64{}},
	}
}

func SeedGrades() []grade.Grade {
	now := time.Now().UTC()
	today := now.Format("2006-01-02")
	return []grade.Grade{
		{ID: 1, StudentID: 1, CourseID: 1, Value: 12, Date: today, CreatedAt: now},
		{ID: 2, StudentID: 1, CourseID: 2, Value: 15.5, Date: today, CreatedAt: now},
		{ID: 3, StudentID: 2, CourseID: 1, Value: 17, Date: today, CreatedAt: now},
		{ID: 4, StudentID: 2, CourseID: 2, Value: 9, Date: today, CreatedAt: now},
		{ID: 5, StudentID: 3, CourseID: 1, Value: 14, Date: today, CreatedAt: now},
		{ID: 6, StudentID: 3, CourseID: 2, Value: 11, Date: today, CreatedAt: now},
	}
}
