package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/database"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/repository"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/services"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var exportRepliesFlags struct {
	out string
}

var exportRepliesCmd = &cobra.Command{
	Use:   "export-replies <report-id>",
	Short: "Print the decoded reply thread of a report as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runExportReplies,
}

func init() {
	exportRepliesCmd.Flags().StringVarP(&exportRepliesFlags.out, "out", "o", "", "Write to this file instead of stdout")
}

func runExportReplies(cmd *cobra.Command, args []string) error {
	reportID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid report id %q: %w", args[0], err)
	}

	cfg, err := connect()
	if err != nil {
		return err
	}
	defer database.Close()

	replies := services.NewReplyService(repository.NewReplyStore(database.DB), cfg.Location())
	thread, err := replies.ListReplies(cmd.Context(), reportID)
	if err != nil {
		return fmt.Errorf("load replies: %w", err)
	}

	w := cmd.OutOrStdout()
	if exportRepliesFlags.out != "" {
		f, err := os.Create(exportRepliesFlags.out)
		if err != nil {
			return fmt.Errorf("create %s: %w", exportRepliesFlags.out, err)
		}
		defer f.Close()
		w = f
	}
	return writeThread(w, thread)
}

func writeThread(w io.Writer, thread *dto.ReplyThreadResponse) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(thread)
}
