package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediaup/internal/journal"
	"mediaup/internal/upload"
)

type statusResult struct {
	UploadID      string `json:"uploadId"`
	FileName      string `json:"fileName,omitempty"`
	State         string `json:"state"`
	Percent       *int   `json:"percent,omitempty"`
	Message       string `json:"message,omitempty"`
	MediaURL      string `json:"mediaUrl,omitempty"`
	ThumbnailURL  string `json:"thumbnailUrl,omitempty"`
	Duration      string `json:"duration,omitempty"`
	FailureReason string `json:"failureReason,omitempty"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status <uploadId>",
		Short: "Fetch the current processing status of an upload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := ctx.orchestrator()
			if err != nil {
				return err
			}

			status, err := orch.Status(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			// Fold the fresh snapshot into the journal when we know the upload.
			if journalErr := ctx.withJournal(func(store *journal.Store) error {
				attempt, err := store.GetByUploadID(cmd.Context(), status.UploadID)
				if err != nil || attempt == nil {
					return err
				}
				return store.UpdateFromStatus(cmd.Context(), status)
			}); journalErr != nil {
				return journalErr
			}

			return printStatus(cmd, status, jsonOut)
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}

func printStatus(cmd *cobra.Command, status upload.Status, jsonOut bool) error {
	if jsonOut {
		return writeJSON(cmd, statusResult{
			UploadID:      status.UploadID,
			FileName:      status.FileName,
			State:         string(status.State),
			Percent:       status.Percent,
			Message:       status.Message,
			MediaURL:      status.MediaURL,
			ThumbnailURL:  status.ThumbnailURL,
			Duration:      status.Duration,
			FailureReason: status.FailureReason,
		})
	}

	rows := [][]string{
		{"Upload ID", status.UploadID},
		{"File", orDash(status.FileName)},
		{"State", string(status.State)},
		{"Message", orDash(status.Message)},
	}
	if status.Percent != nil {
		rows = append(rows, []string{"Progress", fmt.Sprintf("%d%%", *status.Percent)})
	}
	if status.MediaURL != "" {
		rows = append(rows, []string{"Media URL", status.MediaURL})
	}
	if status.ThumbnailURL != "" {
		rows = append(rows, []string{"Thumbnail URL", status.ThumbnailURL})
	}
	if status.Duration != "" {
		rows = append(rows, []string{"Duration", status.Duration})
	}
	if status.FailureReason != "" {
		rows = append(rows, []string{"Failure", status.FailureReason})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows))
	return nil
}
