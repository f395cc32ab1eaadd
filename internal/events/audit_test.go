package events

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditLog_EnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS roster_audit_log`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, NewAuditLog(db).EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditLog_Publish(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	event := createTestEvent()
	mock.ExpectExec(`INSERT INTO roster_audit_log`).
		WithArgs(event.ID, "participant.signed_up", "Chess Club", "test@example.com", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	assert.NoError(t, NewAuditLog(db).Publish(context.Background(), event))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditLog_PublishError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO roster_audit_log`).
		WillReturnError(errors.New("connection reset"))

	err = NewAuditLog(db).Publish(context.Background(), createTestEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "audit insert")
	assert.NoError(t, mock.ExpectationsWereMet())
}
