package localdb

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/auth"
	"github.com/trezcool/academia/core/course"
	"github.com/trezcool/academia/core/student"
	"github.com/trezcool/academia/storage/kvstore"
)

func TestStudentRepository_seedsOnMissingKey(t *testing.T) {
	kv := kvstore.NewMemStore()
	repo := NewStudentRepository(Open(kv))

	students, err := repo.QueryAllStudents()
	if err != nil {
		t.Fatalf("QueryAllStudents() error = %v", err)
	}
	if len(students) != 3 {
		t.Fatalf("len(students) = %d, want the 3 seeded records", len(students))
	}
	if students[0].Email != "user@test.com" {
		t.Errorf("seed[0].Email = %q, want user@test.com", students[0].Email)
	}

	// the seed is persisted immediately
	if _, ok := kv.Get("students"); !ok {
		t.Error("seed was not written back to storage")
	}

	// IDs continue after the seeded maximum
	st, err := repo.CreateStudent(student.Student{FirstName: "New", LastName: "Kid"})
	if err != nil {
		t.Fatalf("CreateStudent() error = %v", err)
	}
	if st.ID != 4 {
		t.Errorf("new ID = %d, want 4", st.ID)
	}
}

func TestStudentRepository_corruptKeyDegradesToEmpty(t *testing.T) {
	kv := kvstore.NewMemStore()
	_ = kv.Set("students", "{not json!")
	repo := NewStudentRepository(Open(kv))

	students, err := repo.QueryAllStudents()
	if err != nil {
		t.Fatalf("QueryAllStudents() error = %v", err)
	}
	if len(students) != 0 {
		t.Errorf("len(students) = %d, want 0 (no re-seed on corrupt data)", len(students))
	}
}

func TestStudentRepository_persistsAcrossInstances(t *testing.T) {
	kv := kvstore.NewMemStore()
	_ = kv.Set("students", "[]")

	repo := NewStudentRepository(Open(kv))
	st, err := repo.CreateStudent(student.Student{FirstName: "Jane", LastName: "Doe"})
	if err != nil {
		t.Fatalf("CreateStudent() error = %v", err)
	}

	repo2 := NewStudentRepository(Open(kv))
	got, err := repo2.GetStudentByID(st.ID)
	if err != nil {
		t.Fatalf("GetStudentByID() error = %v", err)
	}
	if got.FirstName != "Jane" {
		t.Errorf("FirstName = %q, want Jane", got.FirstName)
	}
}

func TestCourseRepository_seedAndReplace(t *testing.T) {
	kv := kvstore.NewMemStore()
	repo := NewCourseRepository(Open(kv))

	courses, err := repo.QueryAllCourses()
	if err != nil {
		t.Fatalf("QueryAllCourses() error = %v", err)
	}
	if len(courses) != 2 {
		t.Fatalf("len(courses) = %d, want the 2 seeded records", len(courses))
	}
	for i, c := range courses {
		if c.Order != i {
			t.Errorf("seed[%d].Order = %d, want %d", i, c.Order, i)
		}
		if c.StudentIDs == nil {
			t.Errorf("seed[%d].StudentIDs = nil, want empty slice", i)
		}
	}

	// ReplaceCourses swaps the whole collection
	courses[0].Order, courses[1].Order = 1, 0
	if err = repo.ReplaceCourses([]course.Course{courses[1], courses[0]}); err != nil {
		t.Fatalf("ReplaceCourses() error = %v", err)
	}
	got, _ := repo.GetCourseByID(courses[0].ID)
	if got.Order != 1 {
		t.Errorf("Order after replace = %d, want 1", got.Order)
	}
}

func TestAuthRepository_identitySnapshot(t *testing.T) {
	kv := kvstore.NewMemStore()
	repo := NewAuthRepository(Open(kv))

	// nothing persisted
	if got := repo.LoadIdentity(); got != nil {
		t.Errorf("LoadIdentity() = %+v, want nil", got)
	}

	ident := auth.Identity{ID: 42, Email: "admin@test.com", Role: auth.RoleAdmin, Token: "tok"}
	if err := repo.SaveIdentity(ident); err != nil {
		t.Fatalf("SaveIdentity() error = %v", err)
	}
	got := repo.LoadIdentity()
	if got == nil || got.Email != ident.Email || got.Token != ident.Token {
		t.Errorf("LoadIdentity() = %+v, want %+v", got, ident)
	}

	if err := repo.ClearIdentity(); err != nil {
		t.Fatalf("ClearIdentity() error = %v", err)
	}
	if got = repo.LoadIdentity(); got != nil {
		t.Errorf("LoadIdentity() after clear = %+v, want nil", got)
	}
}

func TestAuthRepository_identityRevalidation(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantNil bool
		wantID  bool // expect a backfilled non-zero ID
	}{
		{name: "corrupt json", raw: "{oops", wantNil: true},
		{name: "missing email", raw: `{"id":1,"role":"admin","token":"t"}`, wantNil: true},
		{name: "invalid role", raw: `{"id":1,"email":"a@b.c","role":"root","token":"t"}`, wantNil: true},
		{name: "zero id backfilled", raw: `{"email":"a@b.c","role":"student","token":"t"}`, wantID: true},
		{name: "valid snapshot", raw: `{"id":7,"email":"a@b.c","role":"student","token":"t"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := kvstore.NewMemStore()
			_ = kv.Set("auth_user", tt.raw)
			repo := NewAuthRepository(Open(kv))

			got := repo.LoadIdentity()
			if tt.wantNil {
				if got != nil {
					t.Errorf("LoadIdentity() = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("LoadIdentity() = nil, want identity")
			}
			if tt.wantID && got.ID == 0 {
				t.Error("LoadIdentity() did not backfill a zero ID")
			}
		})
	}
}

func TestAuthRepository_accounts(t *testing.T) {
	kv := kvstore.NewMemStore()
	repo := NewAuthRepository(Open(kv))

	acct := auth.Account{Email: "jane@test.cd", PasswordHash: []byte("hash")}
	if _, err := repo.CreateAccount(acct); err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}
	if _, err := repo.CreateAccount(acct); err != auth.ErrEmailExists {
		t.Errorf("CreateAccount() duplicate error = %v, want %v", err, auth.ErrEmailExists)
	}

	got, err := repo.GetAccountByEmail("jane@test.cd")
	if err != nil {
		t.Fatalf("GetAccountByEmail() error = %v", err)
	}
	if string(got.PasswordHash) != "hash" {
		t.Errorf("PasswordHash = %q, want hash", got.PasswordHash)
	}

	if _, err = repo.GetAccountByEmail("nobody@test.cd"); err != auth.ErrNoAccount {
		t.Errorf("GetAccountByEmail(unknown) error = %v, want %v", err, auth.ErrNoAccount)
	}

	got.PasswordHash = []byte("newhash")
	if _, err = repo.UpdateAccount(got); err != nil {
		t.Fatalf("UpdateAccount() error = %v", err)
	}
	if _, err = repo.UpdateAccount(auth.Account{Email: "nobody@test.cd"}); err != auth.ErrNoAccount {
		t.Errorf("UpdateAccount(unknown) error = %v, want %v", err, auth.ErrNoAccount)
	}

	// accounts are persisted as JSON under their own key
	raw, ok := kv.Get("auth_users")
	if !ok {
		t.Fatal("accounts not persisted")
	}
	var accounts []auth.Account
	if err = json.Unmarshal([]byte(raw), &accounts); err != nil {
		t.Fatalf("persisted accounts not valid JSON: %v", err)
	}
	if len(accounts) != 1 || string(accounts[0].PasswordHash) != "newhash" {
		t.Errorf("persisted accounts = %+v", accounts)
	}
}

// failingStore rejects all writes, simulating unusable storage.
type failingStore struct {
	kvstore.Store
}

func (failingStore) Set(key, value string) error { return errors.New("disk full") }

func TestStudentRepository_persistFailureIsShutdown(t *testing.T) {
	kv := kvstore.NewMemStore()
	_ = kv.Set("students", "[]")
	repo := NewStudentRepository(Open(failingStore{kv}))

	_, err := repo.CreateStudent(student.Student{FirstName: "Jane", LastName: "Doe"})
	if err == nil {
		t.Fatal("CreateStudent() error = nil, want shutdown error")
	}
	if !core.IsShutdown(err) {
		t.Errorf("IsShutdown(%v) = false, want true", err)
	}
}

func TestGradeRepository_seed(t *testing.T) {
	kv := kvstore.NewMemStore()
	repo := NewGradeRepository(Open(kv))

	grades, err := repo.QueryAllGrades()
	if err != nil {
		t.Fatalf("QueryAllGrades() error = %v", err)
	}
	if len(grades) != 6 {
		t.Fatalf("len(grades) = %d, want the 6 seeded records", len(grades))
	}
	for _, g := range grades {
		if g.Value < 0 || g.Value > 20 {
			t.Errorf("seeded grade %d value %v out of range", g.ID, g.Value)
		}
	}
}
