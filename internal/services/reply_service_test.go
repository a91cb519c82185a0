package services

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/ledger"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/models"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clockStart = time.Date(2024, time.May, 2, 13, 0, 0, 0, time.UTC)

func newReplyFixture(t *testing.T, status string) (*ReplyService, *fakeReplyStore, uuid.UUID) {
	t.Helper()
	report := models.Report{ID: uuid.New(), Protocol: "DENABC123WXYZ", Status: status}
	store := newFakeReplyStore(report)

	svc := NewReplyService(store, time.UTC)
	svc.now = func() time.Time { return clockStart }
	return svc, store, report.ID
}

func texts(replies []ledger.Reply) []string {
	out := make([]string, len(replies))
	for i, r := range replies {
		out[i] = r.Text
	}
	return out
}

func intPtr(v int) *int { return &v }

func TestAddReply_FirstReplyCreatesLedgerAndAnswers(t *testing.T) {
	for _, status := range []string{models.ReportStatusPending, models.ReportStatusInReview} {
		t.Run(status, func(t *testing.T) {
			svc, store, reportID := newReplyFixture(t, status)
			admin := uuid.New()

			resp, err := svc.AddReply(context.Background(), reportID, admin, "  Recebemos sua denúncia.  ", intPtr(0))
			require.NoError(t, err)

			assert.Equal(t, models.ReportStatusAnswered, resp.Status)
			assert.Equal(t, 1, resp.Version)
			assert.Equal(t, []string{"Recebemos sua denúncia."}, texts(resp.Replies))
			assert.Equal(t, models.ReportStatusAnswered, store.reports[reportID].Status)
			assert.Equal(t, "Recebemos sua denúncia.", store.ledgers[reportID].Body)
			assert.Equal(t, admin, *store.ledgers[reportID].EditorID)
		})
	}
}

func TestAddReply_AppendsAndKeepsPriorReplies(t *testing.T) {
	svc, store, reportID := newReplyFixture(t, models.ReportStatusPending)
	ctx := context.Background()

	_, err := svc.AddReply(ctx, reportID, uuid.New(), "first", nil)
	require.NoError(t, err)
	resp, err := svc.AddReply(ctx, reportID, uuid.New(), "second", intPtr(1))
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Version)
	assert.Equal(t, []string{"first", "second"}, texts(resp.Replies))
	ledgerID := store.ledgers[reportID].ID.String()
	assert.Equal(t, ledgerID+"-1", resp.Replies[1].ID)
	assert.True(t, resp.Replies[1].Approximate)
	assert.Contains(t, store.ledgers[reportID].Body, "--- Nova resposta em 02/05/2024 ---")
}

func TestAddReply_EmptyTextIsRejectedBeforeAnyWrite(t *testing.T) {
	svc, store, reportID := newReplyFixture(t, models.ReportStatusPending)

	_, err := svc.AddReply(context.Background(), reportID, uuid.New(), " \n ", nil)
	assert.ErrorIs(t, err, ErrEmptyReply)
	assert.Zero(t, store.writes)
	assert.Equal(t, models.ReportStatusPending, store.reports[reportID].Status)
}

func TestAddReply_MarkerTextIsRejected(t *testing.T) {
	svc, store, reportID := newReplyFixture(t, models.ReportStatusPending)
	ctx := context.Background()
	quoted := "quoting --- Nova resposta em 01/02/2024 --- inside"

	_, err := svc.AddReply(ctx, reportID, uuid.New(), quoted, nil)
	assert.ErrorIs(t, err, ErrReservedMarker)
	assert.Zero(t, store.writes)
	assert.Equal(t, models.ReportStatusPending, store.reports[reportID].Status)

	_, err = svc.AddReply(ctx, reportID, uuid.New(), "first", nil)
	require.NoError(t, err)
	_, err = svc.AddReply(ctx, reportID, uuid.New(), quoted, intPtr(1))
	assert.ErrorIs(t, err, ErrReservedMarker)
	_, err = svc.AddReply(ctx, reportID, uuid.New(), "third", intPtr(1))
	require.NoError(t, err)

	resp, err := svc.ListReplies(ctx, reportID)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "third"}, texts(resp.Replies))
	ledgerID := store.ledgers[reportID].ID.String()
	assert.Equal(t, ledgerID+"-1", resp.Replies[1].ID)

	_, err = svc.EditReply(ctx, reportID, uuid.New(), ledgerID+"-1", quoted, 2)
	assert.ErrorIs(t, err, ErrReservedMarker)
	assert.Equal(t, 2, store.ledgers[reportID].Version)
}

func TestListReplies_FirstReplyDatedByLastWrite(t *testing.T) {
	svc, store, reportID := newReplyFixture(t, models.ReportStatusPending)
	ctx := context.Background()

	_, err := svc.AddReply(ctx, reportID, uuid.New(), "only", nil)
	require.NoError(t, err)
	ledgerID := store.ledgers[reportID].ID.String()

	later := clockStart.Add(26 * time.Hour)
	svc.now = func() time.Time { return later }
	resp, err := svc.EditReply(ctx, reportID, uuid.New(), ledgerID, "only, revised", 1)
	require.NoError(t, err)

	require.Len(t, resp.Replies, 1)
	assert.True(t, later.Equal(resp.Replies[0].RepliedAt))
	assert.True(t, clockStart.Equal(store.ledgers[reportID].CreatedAt))
	assert.False(t, resp.Replies[0].Approximate)
}

func TestAddReply_StaleVersion(t *testing.T) {
	svc, store, reportID := newReplyFixture(t, models.ReportStatusPending)
	ctx := context.Background()

	_, err := svc.AddReply(ctx, reportID, uuid.New(), "first", nil)
	require.NoError(t, err)

	// a second admin still looking at the empty thread
	_, err = svc.AddReply(ctx, reportID, uuid.New(), "second", intPtr(0))
	assert.ErrorIs(t, err, ErrLedgerConflict)
	assert.Equal(t, "first", store.ledgers[reportID].Body)
}

func TestAddReply_ConcurrentFirstReplyRollsBack(t *testing.T) {
	svc, store, reportID := newReplyFixture(t, models.ReportStatusPending)
	store.createErr = repository.ErrStaleLedger

	_, err := svc.AddReply(context.Background(), reportID, uuid.New(), "first", nil)
	assert.ErrorIs(t, err, ErrLedgerConflict)
	assert.Equal(t, models.ReportStatusPending, store.reports[reportID].Status)
}

func TestAddReply_UnknownReport(t *testing.T) {
	svc, _, _ := newReplyFixture(t, models.ReportStatusPending)
	_, err := svc.AddReply(context.Background(), uuid.New(), uuid.New(), "hello", nil)
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestListReplies_NoLedger(t *testing.T) {
	svc, _, reportID := newReplyFixture(t, models.ReportStatusPending)

	resp, err := svc.ListReplies(context.Background(), reportID)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Version)
	assert.NotNil(t, resp.Replies)
	assert.Empty(t, resp.Replies)
}

func TestEditReply_TargetsOneReply(t *testing.T) {
	svc, store, reportID := newReplyFixture(t, models.ReportStatusPending)
	ctx := context.Background()
	for _, text := range []string{"a", "b", "c"} {
		_, err := svc.AddReply(ctx, reportID, uuid.New(), text, nil)
		require.NoError(t, err)
	}
	ledgerID := store.ledgers[reportID].ID.String()

	resp, err := svc.EditReply(ctx, reportID, uuid.New(), ledgerID+"-1", "b2", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b2", "c"}, texts(resp.Replies))
	assert.Equal(t, 4, resp.Version)
	assert.Equal(t, models.ReportStatusAnswered, resp.Status)
}

func TestEditReply_StaleSessionGetsConflict(t *testing.T) {
	svc, store, reportID := newReplyFixture(t, models.ReportStatusPending)
	ctx := context.Background()
	for _, text := range []string{"a", "b"} {
		_, err := svc.AddReply(ctx, reportID, uuid.New(), text, nil)
		require.NoError(t, err)
	}
	ledgerID := store.ledgers[reportID].ID.String()

	// both sessions rendered version 2
	_, err := svc.DeleteReply(ctx, reportID, ledgerID, 2)
	require.NoError(t, err)
	body := store.ledgers[reportID].Body

	_, err = svc.EditReply(ctx, reportID, uuid.New(), ledgerID+"-1", "b2", 2)
	assert.ErrorIs(t, err, ErrLedgerConflict)
	assert.Equal(t, body, store.ledgers[reportID].Body)
}

func TestEditReply_Errors(t *testing.T) {
	svc, store, reportID := newReplyFixture(t, models.ReportStatusPending)
	ctx := context.Background()

	_, err := svc.EditReply(ctx, reportID, uuid.New(), "whatever", "x", 1)
	assert.ErrorIs(t, err, ErrReplyNotFound)

	_, err = svc.AddReply(ctx, reportID, uuid.New(), "only", nil)
	require.NoError(t, err)
	ledgerID := store.ledgers[reportID].ID.String()

	_, err = svc.EditReply(ctx, reportID, uuid.New(), ledgerID, "   ", 1)
	assert.ErrorIs(t, err, ErrEmptyReply)

	_, err = svc.EditReply(ctx, reportID, uuid.New(), uuid.NewString(), "x", 1)
	assert.ErrorIs(t, err, ErrReplyNotFound)

	_, err = svc.EditReply(ctx, reportID, uuid.New(), ledgerID+"-3", "x", 1)
	assert.ErrorIs(t, err, ErrLedgerConflict)
	assert.Equal(t, "only", store.ledgers[reportID].Body)
	assert.Equal(t, 1, store.ledgers[reportID].Version)
}

func TestDeleteReply_LastReplyRevertsToPending(t *testing.T) {
	svc, store, reportID := newReplyFixture(t, models.ReportStatusPending)
	ctx := context.Background()

	_, err := svc.AddReply(ctx, reportID, uuid.New(), "only", nil)
	require.NoError(t, err)
	ledgerID := store.ledgers[reportID].ID.String()

	resp, err := svc.DeleteReply(ctx, reportID, ledgerID, 1)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusPending, resp.Status)
	assert.Equal(t, 0, resp.Version)
	assert.Empty(t, resp.Replies)
	assert.NotContains(t, store.ledgers, reportID)
	assert.Equal(t, models.ReportStatusPending, store.reports[reportID].Status)
}

func TestDeleteReply_PartialKeepsAnswered(t *testing.T) {
	svc, store, reportID := newReplyFixture(t, models.ReportStatusPending)
	ctx := context.Background()
	for _, text := range []string{"a", "b", "c"} {
		_, err := svc.AddReply(ctx, reportID, uuid.New(), text, nil)
		require.NoError(t, err)
	}
	ledgerID := store.ledgers[reportID].ID.String()

	resp, err := svc.DeleteReply(ctx, reportID, ledgerID+"-1", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, texts(resp.Replies))
	assert.Equal(t, models.ReportStatusAnswered, store.reports[reportID].Status)

	resp, err = svc.DeleteReply(ctx, reportID, ledgerID, 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, texts(resp.Replies))
	assert.Equal(t, models.ReportStatusAnswered, resp.Status)
}
