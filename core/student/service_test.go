package student_test

import (
	"context"
	"testing"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/student"
	"github.com/trezcool/academia/storage/kvstore"
	localdb "github.com/trezcool/academia/storage/local"
)

func setup(t *testing.T) *student.Service {
	t.Helper()
	kv := kvstore.NewMemStore()
	// start from an empty collection rather than the demo seed
	if err := kv.Set("students", "[]"); err != nil {
		t.Fatalf("kv.Set() failed: %v", err)
	}
	repo := localdb.NewStudentRepository(localdb.Open(kv))
	return student.NewService(repo, core.NopDelayer, core.NewOpCounter())
}

func TestService_CreateGet(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	ns := student.NewStudent{FirstName: "Jane", LastName: "Doe", Email: "jane@test.cd", BirthDate: "2003-04-05"}
	if err := ns.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	st, err := svc.Create(ctx, ns)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if st.ID == 0 {
		t.Error("Create() did not assign an ID")
	}
	if st.CreatedAt.IsZero() {
		t.Error("Create() did not set CreatedAt")
	}

	got, err := svc.GetByID(ctx, st.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.FirstName != "Jane" || got.LastName != "Doe" || got.Email != "jane@test.cd" {
		t.Errorf("GetByID() = %+v, want the created student back", got)
	}
	if got.DisplayName() != "Jane Doe" {
		t.Errorf("DisplayName() = %q, want %q", got.DisplayName(), "Jane Doe")
	}

	if _, err = svc.GetByID(ctx, 999); err != student.ErrNotFound {
		t.Errorf("GetByID(999) error = %v, want %v", err, student.ErrNotFound)
	}
}

func TestService_GetAll_sorted(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	for _, ns := range []student.NewStudent{
		{FirstName: "Zoe", LastName: "Martin"},
		{FirstName: "Al", LastName: "Martin"},
		{FirstName: "Bob", LastName: "Dupont"},
	} {
		if _, err := svc.Create(ctx, ns); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	students, err := svc.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	want := []string{"Bob Dupont", "Al Martin", "Zoe Martin"}
	if len(students) != len(want) {
		t.Fatalf("GetAll() returned %d students, want %d", len(students), len(want))
	}
	for i, name := range want {
		if got := students[i].DisplayName(); got != name {
			t.Errorf("GetAll()[%d] = %q, want %q", i, got, name)
		}
	}
}

func TestService_Update_keepsOriginalOnEmpty(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	st, err := svc.Create(ctx, student.NewStudent{FirstName: "Jane", LastName: "Doe", Email: "jane@test.cd", BirthDate: "2003-04-05"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := svc.Update(ctx, st.ID, student.UpdateStudent{FirstName: "Janet"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.FirstName != "Janet" {
		t.Errorf("FirstName = %q, want %q", got.FirstName, "Janet")
	}
	if got.LastName != "Doe" || got.Email != "jane@test.cd" || got.BirthDate != "2003-04-05" {
		t.Errorf("Update() clobbered untouched fields: %+v", got)
	}
	if !got.CreatedAt.Equal(st.CreatedAt) {
		t.Errorf("Update() changed CreatedAt: %v -> %v", st.CreatedAt, got.CreatedAt)
	}

	if _, err = svc.Update(ctx, 999, student.UpdateStudent{FirstName: "X"}); err != student.ErrNotFound {
		t.Errorf("Update(999) error = %v, want %v", err, student.ErrNotFound)
	}
}

func TestService_Remove(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	st, err := svc.Create(ctx, student.NewStudent{FirstName: "Jane", LastName: "Doe"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err = svc.Remove(ctx, st.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err = svc.Remove(ctx, st.ID); err != student.ErrNotFound {
		t.Errorf("Remove() twice error = %v, want %v", err, student.ErrNotFound)
	}
}

func TestService_EnsureByEmail(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	id, err := svc.EnsureByEmail(ctx, "John.Smith@Test.cd")
	if err != nil {
		t.Fatalf("EnsureByEmail() error = %v", err)
	}

	st, err := svc.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if st.Email != "john.smith@test.cd" {
		t.Errorf("Email = %q, want lowercased", st.Email)
	}
	// names derived from the email's local part
	if st.FirstName != "John" || st.LastName != "Smith" {
		t.Errorf("derived names = %q %q, want John Smith", st.FirstName, st.LastName)
	}
	if st.BirthDate == "" {
		t.Error("BirthDate not defaulted")
	}

	// idempotent by email
	id2, err := svc.EnsureByEmail(ctx, "john.smith@test.cd")
	if err != nil {
		t.Fatalf("EnsureByEmail() error = %v", err)
	}
	if id2 != id {
		t.Errorf("EnsureByEmail() = %d, want %d", id2, id)
	}

	// single-word local part falls back to the default last name
	id3, err := svc.EnsureByEmail(ctx, "solo@test.cd")
	if err != nil {
		t.Fatalf("EnsureByEmail() error = %v", err)
	}
	st3, _ := svc.GetByID(ctx, id3)
	if st3.FirstName != "Solo" || st3.LastName != "Demo" {
		t.Errorf("derived names = %q %q, want Solo Demo", st3.FirstName, st3.LastName)
	}
}
