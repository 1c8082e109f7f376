// Package repository defines error values shared across repositories.
// Sentinel errors let handlers distinguish failure scenarios: ErrForbidden
// means the caller does not own the resource, ErrConflict means dependent
// records block the operation (e.g. deleting a performance that has sold
// tickets).
package repository

import (
	"errors"
	"strings"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot proceed because of
// conflicting state.  Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrBadReference is returned when an insert or update names a related
// record that does not exist (e.g. a genre ID on a play).  Handlers
// translate this into HTTP 400.
var ErrBadReference = errors.New("referenced record does not exist")

// isDuplicateKey reports whether err is a MySQL duplicate-key error (1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}

// isForeignKeyRestrict reports whether err is a MySQL "row is referenced"
// error (1451), raised when deleting a parent row with RESTRICT children.
func isForeignKeyRestrict(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1451")
}

// isForeignKeyMissing reports whether err is a MySQL "referenced row not
// found" error (1452), raised when inserting a child with a bad parent ID.
func isForeignKeyMissing(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1452")
}
