// Package repository is the gorm-backed record store. It translates driver
// failures into the apperr taxonomy; callers never see raw gorm errors.
package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"blogdeck/internal/apperr"
)

const pgUniqueViolation = "23505"

// translate maps err onto the taxonomy. notFound and duplicate replace
// record-not-found and unique-violation errors when non-nil.
func translate(err error, op string, notFound, duplicate *apperr.Error) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	if notFound != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	if duplicate != nil && isDuplicate(err) {
		return duplicate
	}
	if isConnection(err) {
		return apperr.Wrap(err, apperr.CodeConnection, op)
	}
	return apperr.Wrap(err, apperr.CodeQuery, op)
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isConnection(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// inTx runs fn in a transaction. Errors already in the taxonomy pass
// through; anything else is reported as a transaction failure.
func inTx(ctx context.Context, db *gorm.DB, op string, fn func(tx *gorm.DB) error) error {
	err := db.WithContext(ctx).Transaction(fn)
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	if isConnection(err) {
		return apperr.Wrap(err, apperr.CodeConnection, op)
	}
	return apperr.Wrap(err, apperr.CodeTransaction, op)
}
