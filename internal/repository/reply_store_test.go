package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockStore(t *testing.T) (*GormReplyStore, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewReplyStore(db), mock
}

func TestFindLedger(t *testing.T) {
	reportID := uuid.New()
	ledgerID := uuid.New()

	tests := []struct {
		name      string
		setupMock func(sqlmock.Sqlmock)
		wantErr   error
	}{
		{
			name: "found",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "report_id", "body", "version", "replied_at", "created_at"}).
					AddRow(ledgerID.String(), reportID.String(), "first", 3, time.Now(), time.Now())
				mock.ExpectQuery(`SELECT \* FROM "reply_ledgers"`).WillReturnRows(rows)
			},
		},
		{
			name: "not found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT \* FROM "reply_ledgers"`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
			},
			wantErr: ErrLedgerNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newMockStore(t)
			tt.setupMock(mock)

			ledger, err := store.FindLedger(context.Background(), reportID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, ledger)
			} else {
				require.NoError(t, err)
				assert.Equal(t, ledgerID, ledger.ID)
				assert.Equal(t, 3, ledger.Version)
				assert.Equal(t, "first", ledger.Body)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUpdateLedger(t *testing.T) {
	tests := []struct {
		name        string
		setupMock   func(sqlmock.Sqlmock)
		wantErr     error
		wantVersion int
	}{
		{
			name: "version matches",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE "reply_ledgers" SET .*version"?=version \+ 1`).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantVersion: 3,
		},
		{
			name: "stale version",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE "reply_ledgers"`).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr:     ErrStaleLedger,
			wantVersion: 2,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE "reply_ledgers"`).WillReturnError(sql.ErrConnDone)
			},
			wantErr:     sql.ErrConnDone,
			wantVersion: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newMockStore(t)
			tt.setupMock(mock)

			ledger := &models.ReplyLedger{ID: uuid.New(), Body: "a", Version: 2, RepliedAt: time.Now()}
			err := store.UpdateLedger(context.Background(), ledger, 2)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantVersion, ledger.Version)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDeleteLedger_StaleVersion(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(`DELETE FROM "reply_ledgers"`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.DeleteLedger(context.Background(), uuid.New(), 4)
	assert.ErrorIs(t, err, ErrStaleLedger)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteLedger(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(`DELETE FROM "reply_ledgers"`).WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, store.DeleteLedger(context.Background(), uuid.New(), 4))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateLedger_DuplicateReportIsStale(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`INSERT INTO "reply_ledgers"`).WillReturnError(gorm.ErrDuplicatedKey)

	ledger := &models.ReplyLedger{ReportID: uuid.New(), Body: "first", RepliedAt: time.Now()}
	err := store.CreateLedger(context.Background(), ledger)
	assert.ErrorIs(t, err, ErrStaleLedger)
	assert.NotEqual(t, uuid.Nil, ledger.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetReportStatus_UnknownReport(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(`UPDATE "reports" SET`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.SetReportStatus(context.Background(), uuid.New(), models.ReportStatusAnswered, time.Now())
	assert.ErrorIs(t, err, ErrReportNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransaction_RollsBackOnConflict(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "reply_ledgers"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := store.Transaction(context.Background(), func(tx ReplyStore) error {
		ledger := &models.ReplyLedger{ID: uuid.New(), Body: "b", RepliedAt: time.Now()}
		if err := tx.UpdateLedger(context.Background(), ledger, 1); err != nil {
			return err
		}
		return tx.SetReportStatus(context.Background(), uuid.New(), models.ReportStatusAnswered, time.Now())
	})
	assert.ErrorIs(t, err, ErrStaleLedger)
	assert.NoError(t, mock.ExpectationsWereMet())
}
