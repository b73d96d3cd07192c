package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestSQLState_ErroresEnvueltos(t *testing.T) {
	wrapped := fmt.Errorf("lock lot: %w", &pgconn.PgError{Code: codeLockNotAvailable})
	assert.True(t, isLockTimeout(wrapped))
	assert.False(t, isSerializationFailure(wrapped))

	assert.True(t, isSerializationFailure(&pgconn.PgError{Code: codeDeadlockDetected}))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert product: %w", &pgconn.PgError{Code: codeUniqueViolation})))
	assert.False(t, isUniqueViolation(errors.New("23505 en el texto no cuenta")))
}
