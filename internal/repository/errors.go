package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stemsi/survey-analytics/internal/database"
)

// Shared repository errors. Callers match them with errors.Is.
var (
	ErrNotFound   = errors.New("record not found")
	ErrDuplicate  = errors.New("record already exists")
	ErrReferenced = errors.New("record is still referenced")
	ErrInvalidRef = errors.New("referenced record does not exist")
)

// Foreign key constraints on students, named in the schema migration.
const (
	fkStudentDepartment = "students_department_id_fkey"
	fkStudentHobby      = "students_hobby_id_fkey"
)

// InvalidRefError names the reference that pointed at a missing row.
// It matches ErrInvalidRef under errors.Is.
type InvalidRefError struct {
	Field string
}

func (e *InvalidRefError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, ErrInvalidRef)
}

func (e *InvalidRefError) Is(target error) bool { return target == ErrInvalidRef }

// translate maps driver errors onto the shared repository errors.
// Unknown errors are returned unchanged.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return ErrNotFound
	case database.HasCode(err, database.CodeUniqueViolation):
		return ErrDuplicate
	default:
		return err
	}
}
