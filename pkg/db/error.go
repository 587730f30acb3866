package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Unique-violation message fragments for the three supported drivers:
// postgres (SQLSTATE 23505), mysql (error 1062) and sqlite (error 2067).
var duplicateKeyFragments = [...]string{
	"duplicate key value violates unique constraint",
	"Error 1062",
	"UNIQUE constraint failed",
}

// IsDuplicateKeyErr reports whether err is a unique-constraint violation.
// Drivers that gorm translates are caught by ErrDuplicatedKey; the fragment
// scan covers the ones that surface the raw driver message.
func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := err.Error()
	for _, fragment := range duplicateKeyFragments {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}
