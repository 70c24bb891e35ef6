package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mediaup/internal/journal"
	"mediaup/internal/upload"
)

func newWaitCommand(ctx *commandContext) *cobra.Command {
	var all bool
	var timeoutFlag, intervalFlag time.Duration
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "wait [uploadId]",
		Short: "Resume waiting for an upload that has not finished",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !all {
				return errors.New("provide an upload id or pass --all")
			}
			if len(args) == 1 && all {
				return errors.New("--all cannot be combined with an upload id")
			}

			orch, err := ctx.orchestrator()
			if err != nil {
				return err
			}
			flags := uploadFlags{timeout: timeoutFlag, interval: intervalFlag, jsonOut: jsonOut}

			return ctx.withJournal(func(store *journal.Store) error {
				if len(args) == 1 {
					return waitOne(ctx, cmd, orch, store, args[0], flags)
				}

				attempts, err := store.Unresolved(cmd.Context())
				if err != nil {
					return err
				}
				if len(attempts) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No unresolved uploads")
					return nil
				}
				for _, attempt := range attempts {
					if err := waitOne(ctx, cmd, orch, store, attempt.UploadID, flags); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Resume every unresolved upload in the journal")
	cmd.Flags().DurationVar(&timeoutFlag, "timeout", 0, "Maximum time to wait for processing")
	cmd.Flags().DurationVar(&intervalFlag, "interval", 0, "Pause between status checks")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}

func waitOne(ctx *commandContext, cmd *cobra.Command, orch *upload.Orchestrator, store *journal.Store, uploadID string, flags uploadFlags) error {
	attempt, err := store.GetByUploadID(cmd.Context(), uploadID)
	if err != nil {
		return err
	}

	var profile upload.Profile
	var known bool
	if attempt != nil {
		profile, known = upload.ParseProfile(string(attempt.Profile))
	}

	// Without a journal entry, or with a journaled profile this build does not
	// recognize, the wait reports the raw status instead of gating on
	// profile-specific URLs.
	if !known {
		status, pollErr := orch.PollUntilTerminal(cmd.Context(), uploadID, upload.PollOptions{
			Deadline: flags.timeout,
			Interval: flags.interval,
		})
		if pollErr != nil {
			return decorateWaitError(pollErr, uploadID)
		}
		return printStatus(cmd, status, flags.jsonOut)
	}

	status, media, err := waitAndFinalize(ctx, cmd, orch, store, uploadID, profile, flags)
	if err != nil {
		return err
	}

	result := uploadResult{
		UploadID:     status.UploadID,
		FileName:     status.FileName,
		Profile:      string(profile),
		State:        string(status.State),
		MediaURL:     media.MediaURL,
		ThumbnailURL: media.ThumbnailURL,
		Duration:     media.Duration,
	}
	if result.FileName == "" {
		result.FileName = attempt.FileName
	}
	if flags.jsonOut {
		return writeJSON(cmd, result)
	}
	printFinalizedMedia(cmd, result)
	return nil
}
