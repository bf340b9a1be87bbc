package main

import (
	"database/sql"
	"errors"

	"github.com/pressly/goose/v3"
)

var gooseRunFunc = goose.Run // mockable

var errNoDatabase = errors.New("migrate requires the database storage backend")

func (cli *commandLine) migrate(args []string) error {
	if cli.db == nil {
		return errNoDatabase
	}
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return cli.migrateDB(args[0], cli.db.DB, arguments...)
}

func (cli *commandLine) migrateDB(command string, db *sql.DB, args ...string) error {
	return gooseRunFunc(command, db, "storage/database/migrations", args...)
}
