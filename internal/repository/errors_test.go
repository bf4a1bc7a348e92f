package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"record not found", gorm.ErrRecordNotFound, ErrNotFound},
		{"wrapped record not found", fmt.Errorf("find: %w", gorm.ErrRecordNotFound), ErrNotFound},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, ErrForeignKeyViolation},
		{"unique violation", &pgconn.PgError{Code: "23505"}, ErrDuplicateKey},
		{"invalid text representation", &pgconn.PgError{Code: "22P02"}, ErrInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translate(tt.in), tt.want)
		})
	}
}

func TestTranslate_KeepsDriverError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"}

	err := translate(pgErr)

	var got *pgconn.PgError
	assert.True(t, errors.As(err, &got))
	assert.Equal(t, "idx_users_email", got.ConstraintName)
}

func TestTranslate_PassesThroughUnknown(t *testing.T) {
	assert.NoError(t, translate(nil))

	serialization := &pgconn.PgError{Code: "40001"}
	err := translate(serialization)
	assert.Same(t, serialization, err)
	for _, sentinel := range []error{ErrNotFound, ErrForeignKeyViolation, ErrDuplicateKey, ErrInvalidValue} {
		assert.NotErrorIs(t, err, sentinel)
	}

	plain := errors.New("connection reset")
	assert.Same(t, plain, translate(plain))
}

func TestValidID(t *testing.T) {
	assert.True(t, validID("6f1c1f8e-2b7a-4c55-9d2e-1f3a5b7c9d01"))
	assert.False(t, validID(""))
	assert.False(t, validID("abc"))
	assert.False(t, validID("lead-1"))
}
