package main

import (
	localdb "github.com/trezcool/academia/storage/local"
)

// seed loads the demo fixtures into each empty collection. Non-empty
// collections are left untouched so re-running is safe.
func (cli *commandLine) seed() error {
	if students, err := cli.studentRepo.QueryAllStudents(); err != nil {
		return err
	} else if len(students) == 0 {
		for _, st := range localdb.SeedStudents() {
			if _, err := cli.studentRepo.CreateStudent(st); err != nil {
				return err
			}
		}
	}

	if courses, err := cli.courseRepo.QueryAllCourses(); err != nil {
		return err
	} else if len(courses) == 0 {
		for _, c := range localdb.SeedCourses() {
			if _, err := cli.courseRepo.CreateCourse(c); err != nil {
				return err
			}
		}
	}

	if grades, err := cli.gradeRepo.QueryAllGrades(); err != nil {
		return err
	} else if len(grades) == 0 {
		for _, g := range localdb.SeedGrades() {
			if _, err := cli.gradeRepo.CreateGrade(g); err != nil {
				return err
			}
		}
	}
	return nil
}
