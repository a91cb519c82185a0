package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/ledger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteThread(t *testing.T) {
	reportID := uuid.MustParse("1b4e28ba-2fa1-11d2-883f-0016cb0e8a7c")
	thread := &dto.ReplyThreadResponse{
		ReportID: reportID,
		Status:   "answered",
		Version:  2,
		Replies: []ledger.Reply{
			{ID: "abc", Text: "Recebemos <sua> denúncia", RepliedAt: time.Date(2024, time.May, 2, 13, 0, 0, 0, time.UTC)},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, writeThread(&buf, thread))
	assert.Contains(t, buf.String(), `"report_id": "1b4e28ba-2fa1-11d2-883f-0016cb0e8a7c"`)
	assert.Contains(t, buf.String(), "Recebemos <sua> denúncia")
	assert.Contains(t, buf.String(), `"version": 2`)
}

func TestExportReplies_RejectsInvalidID(t *testing.T) {
	err := runExportReplies(exportRepliesCmd, []string{"not-a-uuid"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid report id")
}

func TestCreateMaster_RequiresPassword(t *testing.T) {
	t.Setenv("PORTAL_MASTER_PASSWORD", "")
	createMasterFlags.password = ""
	err := runCreateMaster(createMasterCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password is required")
}
