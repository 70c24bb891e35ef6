package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"mediaup/internal/journal"
	"mediaup/internal/services"
	"mediaup/internal/title"
	"mediaup/internal/upload"
)

// uploadForContent runs the full upload pipeline for a file that will back a
// post or reel: initiate, journal, poll to completion, and gate on the
// profile's required URLs. The derived title is returned for use as a default
// post title or caption.
func uploadForContent(ctx *commandContext, cmd *cobra.Command, path string, profile upload.Profile, flags uploadFlags) (*upload.FinalizedMedia, string, error) {
	absPath, size, contentType, err := inspectMediaFile(path)
	if err != nil {
		return nil, "", err
	}

	orch, err := ctx.orchestrator()
	if err != nil {
		return nil, "", err
	}

	file, err := os.Open(absPath)
	if err != nil {
		return nil, "", fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	derivedTitle := title.FromPath(absPath)
	req := upload.Request{
		Profile:     profile,
		FileName:    filepath.Base(absPath),
		ContentType: contentType,
		Size:        size,
		Body:        file,
	}

	var media *upload.FinalizedMedia
	journalErr := ctx.withJournal(func(store *journal.Store) error {
		var printer *progressPrinter
		var observer upload.ProgressObserver
		if !flags.jsonOut {
			printer = newProgressPrinter(cmd.OutOrStdout())
			observer = printer
		}

		finalized, handle, err := orch.UploadAndWait(cmd.Context(), req, upload.WaitOptions{
			PollOptions: upload.PollOptions{
				Deadline: flags.timeout,
				Interval: flags.interval,
				Observer: observer,
			},
			OnInitiated: func(h *upload.Handle) {
				_ = store.Record(cmd.Context(), &journal.Attempt{
					UploadID:  h.UploadID,
					Profile:   profile,
					FileName:  h.FileName,
					Title:     derivedTitle,
					SizeBytes: size,
					State:     h.InitialState,
					Message:   h.Message,
				})
			},
		})
		if printer != nil {
			printer.Finish()
		}
		if err != nil {
			if handle != nil {
				recordWaitFailure(cmd, store, handle.UploadID, err)
				return decorateWaitError(err, handle.UploadID)
			}
			return err
		}

		if updateErr := store.UpdateFromStatus(cmd.Context(), upload.Status{
			UploadID:     handle.UploadID,
			State:        upload.StateCompleted,
			MediaURL:     finalized.MediaURL,
			ThumbnailURL: finalized.ThumbnailURL,
			Duration:     finalized.Duration,
		}); updateErr != nil {
			return updateErr
		}
		media = finalized
		return nil
	})
	if journalErr != nil {
		return nil, "", journalErr
	}
	return media, derivedTitle, nil
}

// recordWaitFailure marks the journal entry failed for terminal processing
// errors. Recoverable errors leave the entry unresolved so `wait` can resume
// it.
func recordWaitFailure(cmd *cobra.Command, store *journal.Store, uploadID string, err error) {
	if !errors.Is(err, services.ErrProcessingFailed) {
		return
	}
	_ = store.UpdateFromStatus(cmd.Context(), upload.Status{
		UploadID:      uploadID,
		State:         upload.StateFailed,
		FailureReason: err.Error(),
	})
}
