package services

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/models"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/repository"
	"github.com/google/uuid"
)

// fakeReplyStore keeps reports and ledgers in memory and mirrors the
// conditional writes of the gorm store.
type fakeReplyStore struct {
	reports   map[uuid.UUID]models.Report
	ledgers   map[uuid.UUID]models.ReplyLedger
	createErr error
	writes    int
}

func newFakeReplyStore(reports ...models.Report) *fakeReplyStore {
	f := &fakeReplyStore{
		reports: make(map[uuid.UUID]models.Report),
		ledgers: make(map[uuid.UUID]models.ReplyLedger),
	}
	for _, r := range reports {
		f.reports[r.ID] = r
	}
	return f
}

func (f *fakeReplyStore) FindLedger(_ context.Context, reportID uuid.UUID) (*models.ReplyLedger, error) {
	l, ok := f.ledgers[reportID]
	if !ok {
		return nil, repository.ErrLedgerNotFound
	}
	return &l, nil
}

func (f *fakeReplyStore) CreateLedger(_ context.Context, l *models.ReplyLedger) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, exists := f.ledgers[l.ReportID]; exists {
		return repository.ErrStaleLedger
	}
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	l.Version = 1
	f.ledgers[l.ReportID] = *l
	f.writes++
	return nil
}

func (f *fakeReplyStore) UpdateLedger(_ context.Context, l *models.ReplyLedger, expectedVersion int) error {
	stored, ok := f.ledgers[l.ReportID]
	if !ok || stored.ID != l.ID || stored.Version != expectedVersion {
		return repository.ErrStaleLedger
	}
	l.Version = expectedVersion + 1
	f.ledgers[l.ReportID] = *l
	f.writes++
	return nil
}

func (f *fakeReplyStore) DeleteLedger(_ context.Context, id uuid.UUID, expectedVersion int) error {
	for reportID, l := range f.ledgers {
		if l.ID == id && l.Version == expectedVersion {
			delete(f.ledgers, reportID)
			f.writes++
			return nil
		}
	}
	return repository.ErrStaleLedger
}

func (f *fakeReplyStore) FindReport(_ context.Context, id uuid.UUID) (*models.Report, error) {
	r, ok := f.reports[id]
	if !ok {
		return nil, repository.ErrReportNotFound
	}
	return &r, nil
}

func (f *fakeReplyStore) SetReportStatus(_ context.Context, id uuid.UUID, status string, at time.Time) error {
	r, ok := f.reports[id]
	if !ok {
		return repository.ErrReportNotFound
	}
	r.Status, r.UpdatedAt = status, at
	f.reports[id] = r
	f.writes++
	return nil
}

// Transaction restores the previous state when fn fails.
func (f *fakeReplyStore) Transaction(_ context.Context, fn func(store repository.ReplyStore) error) error {
	reports := make(map[uuid.UUID]models.Report, len(f.reports))
	for k, v := range f.reports {
		reports[k] = v
	}
	ledgers := make(map[uuid.UUID]models.ReplyLedger, len(f.ledgers))
	for k, v := range f.ledgers {
		ledgers[k] = v
	}
	writes := f.writes

	if err := fn(f); err != nil {
		f.reports, f.ledgers, f.writes = reports, ledgers, writes
		return err
	}
	return nil
}
