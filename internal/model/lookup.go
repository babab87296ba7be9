package model

import (
	"strings"
	"time"
)

// LookupKind identifies one of the name-only reference tables.
type LookupKind string

const (
	KindDepartment LookupKind = "department"
	KindHobby      LookupKind = "hobby"
)

// Table returns the backing table name.
func (k LookupKind) Table() string {
	if k == KindHobby {
		return "hobbies"
	}
	return "departments"
}

// Lookup is a Department or Hobby row.
type Lookup struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Name length bounds for departments and hobbies, after normalization.
const (
	LookupNameMin = 2
	LookupNameMax = 100
)

// NormalizeName trims and collapses internal whitespace runs to one space.
func NormalizeName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ValidLookupName reports whether the normalized name has an allowed length.
func ValidLookupName(s string) bool {
	n := len([]rune(NormalizeName(s)))
	return n >= LookupNameMin && n <= LookupNameMax
}

// LookupRequest is the payload for creating or renaming a department or hobby.
type LookupRequest struct {
	Name string `json:"name" binding:"required,name"`
}
