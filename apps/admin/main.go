package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/auth"
	"github.com/trezcool/academia/core/course"
	"github.com/trezcool/academia/core/grade"
	"github.com/trezcool/academia/core/student"
	sqldb "github.com/trezcool/academia/storage/database"
	"github.com/trezcool/academia/storage/kvstore"
	localdb "github.com/trezcool/academia/storage/local"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up storage
	cli, err := setUpCLI(core.Conf)
	errAndDie(err)
	defer cli.close()

	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func setUpCLI(conf *core.Config) (*commandLine, error) {
	switch conf.Storage.Backend {
	case "database":
		db, err := sqldb.Open(conf.Storage.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return &commandLine{
			db:          db,
			authRepo:    sqldb.NewAuthRepository(db),
			studentRepo: sqldb.NewStudentRepository(db),
			courseRepo:  sqldb.NewCourseRepository(db),
			gradeRepo:   sqldb.NewGradeRepository(db),
		}, nil

	default: // "local"
		kv, err := kvstore.NewFileStore(conf.Storage.Dir)
		if err != nil {
			return nil, err
		}
		db := localdb.Open(kv)
		return &commandLine{
			authRepo:    localdb.NewAuthRepository(db),
			studentRepo: localdb.NewStudentRepository(db),
			courseRepo:  localdb.NewCourseRepository(db),
			gradeRepo:   localdb.NewGradeRepository(db),
		}, nil
	}
}

type commandLine struct {
	db          *sqlx.DB // nil for the local backend
	authRepo    auth.Repository
	studentRepo student.Repository
	courseRepo  course.Repository
	gradeRepo   grade.Repository
}

func (cli *commandLine) close() {
	if cli.db != nil {
		if err := cli.db.Close(); err != nil {
			logger.Print(err)
		}
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
