package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Códigos SQLSTATE que el libro distingue.
const (
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03" // lock_timeout agotado
)

func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation código de producto repetido.
func isUniqueViolation(err error) bool {
	return sqlState(err) == codeUniqueViolation
}

// isSerializationFailure deadlock o fallo de serialización: el cliente puede reintentar.
func isSerializationFailure(err error) bool {
	code := sqlState(err)
	return code == codeSerializationFailure || code == codeDeadlockDetected
}

// isLockTimeout otra transacción retuvo el lote más allá de lock_timeout.
func isLockTimeout(err error) bool {
	return sqlState(err) == codeLockNotAvailable
}
