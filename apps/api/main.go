package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	echoapi "github.com/trezcool/academia/apps/api/echo"
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/auth"
	"github.com/trezcool/academia/core/course"
	"github.com/trezcool/academia/core/grade"
	"github.com/trezcool/academia/core/student"
	emailsvc "github.com/trezcool/academia/services/email"
	logsvc "github.com/trezcool/academia/services/logger"
	sqldb "github.com/trezcool/academia/storage/database"
	"github.com/trezcool/academia/storage/kvstore"
	localdb "github.com/trezcool/academia/storage/local"
)

type repos struct {
	auth    auth.Repository
	student student.Repository
	course  course.Repository
	grade   grade.Repository
	close   func() error
}

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.Conf

	var logger core.Logger
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	if conf.Debug {
		logger = logsvc.NewStdLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
	}

	// set up storage
	r, err := setUpStorage(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up storage: %v", err), err)
	}
	defer func() {
		if err = r.close(); err != nil {
			logger.Error("closing storage", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	ops := core.NewOpCounter()
	ops.Subscribe(func(loading bool) {
		if loading {
			logger.Debug("operations in flight")
		} else {
			logger.Debug("idle")
		}
	})

	studentSvc := student.NewService(r.student, core.FixedDelayer(conf.Latency.Student), ops)
	courseSvc := course.NewService(r.course, core.FixedDelayer(conf.Latency.Course), ops)
	gradeSvc := grade.NewService(r.grade, r.student, r.course, core.FixedDelayer(conf.Latency.Grade), ops)
	authSvc := auth.NewService(r.auth, studentSvc, mailSvc, core.FixedDelayer(conf.Latency.Auth), ops)

	// =========================================================================
	// Start API Service

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	server := echoapi.NewServer(
		&echoapi.Options{
			Addr:       conf.Server.Addr,
			Logger:     logger,
			AuthSvc:    authSvc,
			StudentSvc: studentSvc,
			CourseSvc:  courseSvc,
			GradeSvc:   gradeSvc,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpStorage(conf *core.Config) (*repos, error) {
	switch conf.Storage.Backend {
	case "database":
		db, err := sqldb.Open(conf.Storage.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err = sqldb.Migrate(db, "storage/database/migrations"); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &repos{
			auth:    sqldb.NewAuthRepository(db),
			student: sqldb.NewStudentRepository(db),
			course:  sqldb.NewCourseRepository(db),
			grade:   sqldb.NewGradeRepository(db),
			close:   db.Close,
		}, nil

	default: // "local"
		kv, err := kvstore.NewFileStore(conf.Storage.Dir)
		if err != nil {
			return nil, err
		}
		db := localdb.Open(kv)
		return &repos{
			auth:    localdb.NewAuthRepository(db),
			student: localdb.NewStudentRepository(db),
			course:  localdb.NewCourseRepository(db),
			grade:   localdb.NewGradeRepository(db),
			close:   func() error { return nil },
		}, nil
	}
}
