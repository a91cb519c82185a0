// Package repository persists reply ledgers and the report state they drive.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrLedgerNotFound = errors.New("reply ledger not found")
	ErrReportNotFound = errors.New("report not found")
	// ErrStaleLedger is returned when a conditional write finds the ledger
	// at a different version, or a second ledger is created for a report.
	ErrStaleLedger = errors.New("reply ledger was modified by another session")
)

// ReplyStore is the persistence the reply service needs. Every ledger write
// is conditional on the version the caller read.
type ReplyStore interface {
	FindLedger(ctx context.Context, reportID uuid.UUID) (*models.ReplyLedger, error)
	CreateLedger(ctx context.Context, ledger *models.ReplyLedger) error
	UpdateLedger(ctx context.Context, ledger *models.ReplyLedger, expectedVersion int) error
	DeleteLedger(ctx context.Context, id uuid.UUID, expectedVersion int) error
	FindReport(ctx context.Context, id uuid.UUID) (*models.Report, error)
	SetReportStatus(ctx context.Context, id uuid.UUID, status string, at time.Time) error
	Transaction(ctx context.Context, fn func(store ReplyStore) error) error
}

type GormReplyStore struct {
	db *gorm.DB
}

func NewReplyStore(db *gorm.DB) *GormReplyStore {
	return &GormReplyStore{db: db}
}

func (s *GormReplyStore) FindLedger(ctx context.Context, reportID uuid.UUID) (*models.ReplyLedger, error) {
	var ledger models.ReplyLedger
	err := s.db.WithContext(ctx).Where("report_id = ?", reportID).First(&ledger).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLedgerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load reply ledger: %w", err)
	}
	return &ledger, nil
}

func (s *GormReplyStore) CreateLedger(ctx context.Context, ledger *models.ReplyLedger) error {
	if ledger.ID == uuid.Nil {
		ledger.ID = uuid.New()
	}
	ledger.Version = 1

	err := s.db.WithContext(ctx).Omit(clause.Associations).Create(ledger).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrStaleLedger
	}
	if err != nil {
		return fmt.Errorf("failed to create reply ledger: %w", err)
	}
	return nil
}

func (s *GormReplyStore) UpdateLedger(ctx context.Context, ledger *models.ReplyLedger, expectedVersion int) error {
	result := s.db.WithContext(ctx).Model(&models.ReplyLedger{}).
		Where("id = ? AND version = ?", ledger.ID, expectedVersion).
		Updates(map[string]interface{}{
			"body":       ledger.Body,
			"version":    gorm.Expr("version + 1"),
			"replied_at": ledger.RepliedAt,
			"editor_id":  ledger.EditorID,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update reply ledger: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrStaleLedger
	}
	ledger.Version = expectedVersion + 1
	return nil
}

func (s *GormReplyStore) DeleteLedger(ctx context.Context, id uuid.UUID, expectedVersion int) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND version = ?", id, expectedVersion).
		Delete(&models.ReplyLedger{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete reply ledger: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrStaleLedger
	}
	return nil
}

func (s *GormReplyStore) FindReport(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	var report models.Report
	err := s.db.WithContext(ctx).First(&report, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	return &report, nil
}

func (s *GormReplyStore) SetReportStatus(ctx context.Context, id uuid.UUID, status string, at time.Time) error {
	result := s.db.WithContext(ctx).Model(&models.Report{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": at})
	if result.Error != nil {
		return fmt.Errorf("failed to update report status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrReportNotFound
	}
	return nil
}

// Transaction runs fn against a store bound to a single database transaction.
// Returning an error from fn rolls back every write made through that store.
func (s *GormReplyStore) Transaction(ctx context.Context, fn func(store ReplyStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormReplyStore{db: tx})
	})
}
