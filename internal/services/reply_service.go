package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/ledger"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/models"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/repository"
	"github.com/google/uuid"
)

var (
	ErrLedgerConflict = errors.New("ledger changed concurrently, reload and retry")
	ErrEmptyReply     = errors.New("reply text must not be empty")
	ErrReplyNotFound  = errors.New("reply not found")
	ErrReservedMarker = errors.New("reply text must not contain a reply marker line")
)

// ReplyService reads and writes the replies of a report. Each write is one
// transaction covering the ledger row and the report status.
type ReplyService struct {
	store repository.ReplyStore
	loc   *time.Location
	now   func() time.Time
}

func NewReplyService(store repository.ReplyStore, loc *time.Location) *ReplyService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReplyService{store: store, loc: loc, now: time.Now}
}

func (s *ReplyService) ListReplies(ctx context.Context, reportID uuid.UUID) (*dto.ReplyThreadResponse, error) {
	report, err := s.store.FindReport(ctx, reportID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	l, err := s.store.FindLedger(ctx, reportID)
	if errors.Is(err, repository.ErrLedgerNotFound) {
		return s.thread(report.ID, report.Status, nil), nil
	}
	if err != nil {
		return nil, err
	}
	return s.thread(report.ID, report.Status, l), nil
}

// AddReply appends text to the report's ledger, creating the ledger on the
// first reply, and marks the report answered. A nil expectedVersion skips the
// version check.
func (s *ReplyService) AddReply(ctx context.Context, reportID, adminID uuid.UUID, text string, expectedVersion *int) (*dto.ReplyThreadResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyReply
	}

	var result *dto.ReplyThreadResponse
	err := s.store.Transaction(ctx, func(tx repository.ReplyStore) error {
		report, err := tx.FindReport(ctx, reportID)
		if err != nil {
			return err
		}

		now := s.now()
		l, err := tx.FindLedger(ctx, reportID)
		switch {
		case errors.Is(err, repository.ErrLedgerNotFound):
			if expectedVersion != nil && *expectedVersion != 0 {
				return ErrLedgerConflict
			}
			body, err := ledger.Append("", text, now.In(s.loc))
			if err != nil {
				return err
			}
			l = &models.ReplyLedger{ReportID: report.ID, Body: body, RepliedAt: now, EditorID: editorRef(adminID), CreatedAt: now}
			if err := tx.CreateLedger(ctx, l); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if expectedVersion != nil && *expectedVersion != l.Version {
				return ErrLedgerConflict
			}
			body, err := ledger.Append(l.Body, text, now.In(s.loc))
			if err != nil {
				return err
			}
			l.Body, l.RepliedAt, l.EditorID = body, now, editorRef(adminID)
			if err := tx.UpdateLedger(ctx, l, l.Version); err != nil {
				return err
			}
		}

		if err := tx.SetReportStatus(ctx, report.ID, models.ReportStatusAnswered, now); err != nil {
			return err
		}
		result = s.thread(report.ID, models.ReportStatusAnswered, l)
		return nil
	})
	if err != nil {
		return nil, mapStoreError(err)
	}

	slog.Info("reply added", "report_id", reportID.String(), "admin_id", adminID.String(), "version", result.Version)
	return result, nil
}

// EditReply rewrites one reply in place. The report status is left alone.
func (s *ReplyService) EditReply(ctx context.Context, reportID, adminID uuid.UUID, replyID, text string, expectedVersion int) (*dto.ReplyThreadResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyReply
	}

	var result *dto.ReplyThreadResponse
	err := s.store.Transaction(ctx, func(tx repository.ReplyStore) error {
		report, l, err := s.loadForWrite(ctx, tx, reportID, expectedVersion)
		if err != nil {
			return err
		}

		body, err := ledger.EditOne(l.Body, l.ID.String(), replyID, text)
		if err != nil {
			return err
		}
		l.Body, l.RepliedAt, l.EditorID = body, s.now(), editorRef(adminID)
		if err := tx.UpdateLedger(ctx, l, l.Version); err != nil {
			return err
		}
		result = s.thread(report.ID, report.Status, l)
		return nil
	})
	if err != nil {
		return nil, mapStoreError(err)
	}

	slog.Info("reply edited", "report_id", reportID.String(), "admin_id", adminID.String(), "reply_id", replyID)
	return result, nil
}

// DeleteReply removes one reply. Removing the last one deletes the ledger and
// puts the report back to pending.
func (s *ReplyService) DeleteReply(ctx context.Context, reportID uuid.UUID, replyID string, expectedVersion int) (*dto.ReplyThreadResponse, error) {
	var result *dto.ReplyThreadResponse
	err := s.store.Transaction(ctx, func(tx repository.ReplyStore) error {
		report, l, err := s.loadForWrite(ctx, tx, reportID, expectedVersion)
		if err != nil {
			return err
		}

		body, remaining, err := ledger.DeleteOne(l.Body, l.ID.String(), replyID)
		if err != nil {
			return err
		}

		now := s.now()
		if remaining == 0 {
			if err := tx.DeleteLedger(ctx, l.ID, l.Version); err != nil {
				return err
			}
			if err := tx.SetReportStatus(ctx, report.ID, models.ReportStatusPending, now); err != nil {
				return err
			}
			result = s.thread(report.ID, models.ReportStatusPending, nil)
			return nil
		}

		l.Body, l.RepliedAt = body, now
		if err := tx.UpdateLedger(ctx, l, l.Version); err != nil {
			return err
		}
		result = s.thread(report.ID, report.Status, l)
		return nil
	})
	if err != nil {
		return nil, mapStoreError(err)
	}

	slog.Info("reply deleted", "report_id", reportID.String(), "reply_id", replyID, "remaining", len(result.Replies))
	return result, nil
}

func (s *ReplyService) loadForWrite(ctx context.Context, tx repository.ReplyStore, reportID uuid.UUID, expectedVersion int) (*models.Report, *models.ReplyLedger, error) {
	report, err := tx.FindReport(ctx, reportID)
	if err != nil {
		return nil, nil, err
	}
	l, err := tx.FindLedger(ctx, reportID)
	if errors.Is(err, repository.ErrLedgerNotFound) {
		return nil, nil, ErrReplyNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	if l.Version != expectedVersion {
		return nil, nil, ErrLedgerConflict
	}
	return report, l, nil
}

func (s *ReplyService) thread(reportID uuid.UUID, status string, l *models.ReplyLedger) *dto.ReplyThreadResponse {
	resp := &dto.ReplyThreadResponse{
		ReportID: reportID,
		Status:   status,
		Replies:  decodeLedger(l, s.loc, s.now()),
	}
	if l != nil {
		resp.Version = l.Version
	}
	return resp
}

// decodeLedger splits l for display. The first reply is dated by the
// ledger's last write, later ones by their markers.
func decodeLedger(l *models.ReplyLedger, loc *time.Location, now time.Time) []ledger.Reply {
	if l == nil {
		return []ledger.Reply{}
	}
	replies := ledger.Decode(l.ID.String(), l.Body, l.RepliedAt.In(loc), now.In(loc))
	if replies == nil {
		return []ledger.Reply{}
	}
	return replies
}

func mapStoreError(err error) error {
	switch {
	case errors.Is(err, repository.ErrReportNotFound):
		return ErrReportNotFound
	case errors.Is(err, repository.ErrStaleLedger), errors.Is(err, ledger.ErrIndexOutOfRange):
		return ErrLedgerConflict
	case errors.Is(err, ledger.ErrEmptyReply):
		return ErrEmptyReply
	case errors.Is(err, ledger.ErrReservedMarker):
		return ErrReservedMarker
	case errors.Is(err, ledger.ErrInvalidReplyID):
		return ErrReplyNotFound
	case errors.Is(err, ErrLedgerConflict), errors.Is(err, ErrReplyNotFound), errors.Is(err, ErrEmptyReply):
		return err
	}
	return fmt.Errorf("reply ledger write failed: %w", err)
}

// editorRef returns nil for requests made with the static admin token.
func editorRef(adminID uuid.UUID) *uuid.UUID {
	if adminID == uuid.Nil {
		return nil
	}
	return &adminID
}
