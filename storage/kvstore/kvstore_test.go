package kvstore

import "testing"

func testStore(t *testing.T, s Store) {
	t.Helper()

	if _, ok := s.Get("missing"); ok {
		t.Error("Get(missing) ok = true, want false")
	}

	if err := s.Set("k", "v1"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got, ok := s.Get("k"); !ok || got != "v1" {
		t.Errorf("Get() = %q, %v; want v1, true", got, ok)
	}

	// overwrite
	if err := s.Set("k", "v2"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got, _ := s.Get("k"); got != "v2" {
		t.Errorf("Get() = %q, want v2", got)
	}

	if err := s.Delete("k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := s.Get("k"); ok {
		t.Error("Get() ok = true after Delete")
	}

	// deleting a missing key is not an error
	if err := s.Delete("k"); err != nil {
		t.Errorf("Delete(missing) error = %v", err)
	}
}

func TestMemStore(t *testing.T) {
	testStore(t, NewMemStore())
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()

	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	testStore(t, fs)

	// values survive reopening the store
	if err = fs.Set("persisted", "hello"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	fs2, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	if got, ok := fs2.Get("persisted"); !ok || got != "hello" {
		t.Errorf("Get() after reopen = %q, %v; want hello, true", got, ok)
	}
}
