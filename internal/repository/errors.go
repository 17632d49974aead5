package repository

import (
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when no row matches the lookup.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when an email unique constraint rejects a write.
	ErrDuplicateEmail = errors.New("email already in use")
	// ErrDuplicateName is returned when a name unique constraint rejects a write.
	ErrDuplicateName = errors.New("name already in use")
	// ErrInvalidReference is returned when a foreign key points at a missing row.
	ErrInvalidReference = errors.New("referenced record does not exist")
)

const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
	sqlStateInvalidText         = "22P02"
)

// translate maps driver errors onto repository sentinels. duplicate is the
// sentinel reported for unique violations on the table being written.
func translate(err error, duplicate error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateUniqueViolation:
			if duplicate != nil {
				return duplicate
			}
		case sqlStateForeignKeyViolation:
			return ErrInvalidReference
		case sqlStateInvalidText:
			// malformed uuid literal: nothing can match it
			return ErrNotFound
		}
	}
	return errors.Wrap(err, op)
}
