package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Driver-specific fragments of unique-violation messages. gorm only maps
// some of these to ErrDuplicatedKey, so we also match on text.
var duplicateKeyFragments = []string{
	"duplicate key value violates unique constraint", // postgres 23505
	"Error 1062",                 // mysql
	"UNIQUE constraint failed",   // sqlite 2067
}

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
