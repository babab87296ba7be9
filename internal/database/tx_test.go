package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	fk := &pgconn.PgError{Code: CodeForeignKeyViolation}

	assert.True(t, HasCode(fk, CodeForeignKeyViolation))
	assert.True(t, HasCode(fmt.Errorf("delete department: %w", fk), CodeForeignKeyViolation))
	assert.False(t, HasCode(fk, CodeUniqueViolation))
	assert.False(t, HasCode(errors.New("plain"), CodeUniqueViolation))
	assert.False(t, HasCode(nil, CodeUniqueViolation))
}
