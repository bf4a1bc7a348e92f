package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Repository errors. Callers match them with errors.Is.
var (
	ErrNotFound            = errors.New("record not found")
	ErrForeignKeyViolation = errors.New("referenced record does not exist")
	ErrDuplicateKey        = errors.New("duplicate key")
	ErrUnsupportedFilter   = errors.New("unsupported filter")
	ErrInvalidValue        = errors.New("invalid value")
)

const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgInvalidText         = "22P02"
)

// validID reports whether id can name a row. Every primary key is a uuid.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// translate maps driver and GORM errors onto the repository sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return errors.Join(ErrForeignKeyViolation, err)
		case pgUniqueViolation:
			return errors.Join(ErrDuplicateKey, err)
		case pgInvalidText:
			return errors.Join(ErrInvalidValue, err)
		}
	}
	return err
}
