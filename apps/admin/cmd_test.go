package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/academia/core/auth"
	"github.com/trezcool/academia/storage/kvstore"
	localdb "github.com/trezcool/academia/storage/local"
)

func setup(t *testing.T, empty bool) *commandLine {
	t.Helper()
	kv := kvstore.NewMemStore()
	if empty {
		for _, key := range []string{"students", "courses", "notes_data"} {
			if err := kv.Set(key, "[]"); err != nil {
				t.Fatalf("kv.Set(%q) failed: %v", key, err)
			}
		}
	}
	db := localdb.Open(kv)
	return &commandLine{
		authRepo:    localdb.NewAuthRepository(db),
		studentRepo: localdb.NewStudentRepository(db),
		courseRepo:  localdb.NewCourseRepository(db),
		gradeRepo:   localdb.NewGradeRepository(db),
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func Test_commandLine_run(t *testing.T) {
	cli := setup(t, false)

	acct := auth.Account{Email: "jane@test.cd"}
	_ = acct.SetPassword("old-pwd")
	if _, err := cli.authRepo.CreateAccount(acct); err != nil {
		t.Fatalf("CreateAccount() failed: %v", err)
	}

	origReadPassword := readPasswordFunc
	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("new-pwd"), nil }
	defer func() { readPasswordFunc = origReadPassword }()

	tests := []cliTest{
		{name: "no subcommand", args: []string{}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"lol"}, wantErr: errHelp},
		{name: "resetpassword: no email", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "resetpassword: unknown account", args: []string{"resetpassword", "-email", "nobody@test.cd"}, wantErr: auth.ErrNoAccount},
		{name: "resetpassword", args: []string{"resetpassword", "-email", "jane@test.cd"}},
		{name: "migrate: no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "migrate: local backend", args: []string{"migrate", "up"}, wantErr: errNoDatabase},
		{name: "seed", args: []string{"seed"}},
		{name: "accounts", args: []string{"accounts"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if tt.wantErrStr != "" {
				if err == nil || err.Error() != tt.wantErrStr {
					t.Errorf("cli.run() error = %v, wantErrStr %s", err, tt.wantErrStr)
				}
				return
			}
			if err != nil {
				t.Errorf("cli.run() error = %v, want nil", err)
			}
		})
	}

	// the prompted password took effect
	got, err := cli.authRepo.GetAccountByEmail("jane@test.cd")
	if err != nil {
		t.Fatalf("GetAccountByEmail() failed: %v", err)
	}
	if err = got.CheckPassword("new-pwd"); err != nil {
		t.Errorf("CheckPassword(new-pwd) failed: %v", err)
	}
}

func Test_commandLine_listAccounts(t *testing.T) {
	cli := setup(t, false)

	acct := auth.Account{Email: "jane@test.cd", StudentID: null.Int64From(7)}
	_ = acct.SetPassword("pwd")
	if _, err := cli.authRepo.CreateAccount(acct); err != nil {
		t.Fatalf("CreateAccount() failed: %v", err)
	}

	var buf bytes.Buffer
	if err := cli.listAccounts(&buf); err != nil {
		t.Fatalf("listAccounts() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "jane@test.cd") || !strings.Contains(out, "7") {
		t.Errorf("listAccounts() output = %q, want the account and its student link", out)
	}
}

func Test_commandLine_seed(t *testing.T) {
	cli := setup(t, true)

	if err := cli.seed(); err != nil {
		t.Fatalf("seed() error = %v", err)
	}

	students, _ := cli.studentRepo.QueryAllStudents()
	courses, _ := cli.courseRepo.QueryAllCourses()
	grades, _ := cli.gradeRepo.QueryAllGrades()
	if len(students) != 3 || len(courses) != 2 || len(grades) != 6 {
		t.Errorf("seed() loaded %d/%d/%d records, want 3/2/6", len(students), len(courses), len(grades))
	}

	// re-running leaves populated collections untouched
	if err := cli.seed(); err != nil {
		t.Fatalf("seed() error = %v", err)
	}
	students, _ = cli.studentRepo.QueryAllStudents()
	if len(students) != 3 {
		t.Errorf("seed() re-run duplicated records: %d students", len(students))
	}
}
