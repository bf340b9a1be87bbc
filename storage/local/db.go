// Package localdb implements the repository interfaces over whole-snapshot
// persistence: each repository exclusively owns one collection and one
// storage key, serializing the full collection back on every mutation.
package localdb

import (
	"github.com/trezcool/academia/storage/kvstore"
)

// storage keys, one JSON-serialized collection (or snapshot) per key
const (
	identityKey = "auth_user"
	accountsKey = "auth_users"
	studentsKey = "students"
	coursesKey  = "courses"
	gradesKey   = "notes_data"
)

type DB struct {
	kv kvstore.Store
}

func Open(kv kvstore.Store) *DB {
	return &DB{kv: kv}
}
