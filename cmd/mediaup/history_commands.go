package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediaup/internal/journal"
	"mediaup/internal/upload"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the local upload journal",
	}

	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryClearCommand(ctx))
	historyCmd.AddCommand(newHistoryRemoveCommand(ctx))

	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var stateFlag string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded upload attempts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var states []upload.State
			if stateFlag != "" {
				state, ok := upload.ParseState(stateFlag)
				if !ok {
					return fmt.Errorf("unknown state %q (use Pending, Processing, Completed, or Failed)", stateFlag)
				}
				states = append(states, state)
			}

			return ctx.withJournal(func(store *journal.Store) error {
				attempts, err := store.List(cmd.Context(), states...)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, attempts)
				}
				if len(attempts) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No recorded uploads")
					return nil
				}

				rows := make([][]string, 0, len(attempts))
				for _, attempt := range attempts {
					rows = append(rows, []string{
						attempt.UploadID,
						string(attempt.Profile),
						attempt.FileName,
						formatSize(attempt.SizeBytes),
						string(attempt.State),
						formatTimestamp(attempt.CreatedAt),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Upload ID", "Profile", "File", "Size", "State", "Created"},
					rows,
					3,
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&stateFlag, "state", "", "Only show attempts in this state")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <uploadId>",
		Short: "Show one recorded upload attempt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withJournal(func(store *journal.Store) error {
				attempt, err := store.GetByUploadID(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if attempt == nil {
					return fmt.Errorf("no recorded upload %s", args[0])
				}
				if jsonOut {
					return writeJSON(cmd, attempt)
				}

				rows := [][]string{
					{"Upload ID", attempt.UploadID},
					{"Profile", string(attempt.Profile)},
					{"File", attempt.FileName},
					{"Title", orDash(attempt.Title)},
					{"Size", formatSize(attempt.SizeBytes)},
					{"State", string(attempt.State)},
					{"Message", orDash(attempt.Message)},
					{"Media URL", orDash(attempt.MediaURL)},
					{"Thumbnail URL", orDash(attempt.ThumbnailURL)},
					{"Duration", orDash(attempt.Duration)},
					{"Failure", orDash(attempt.FailureReason)},
					{"Created", formatTimestamp(attempt.CreatedAt)},
					{"Updated", formatTimestamp(attempt.UpdatedAt)},
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove resolved attempts from the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withJournal(func(store *journal.Store) error {
				cleared, err := store.ClearResolved(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d resolved attempt(s)\n", cleared)
				return nil
			})
		},
	}
}

func newHistoryRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <uploadId>",
		Short: "Remove one attempt from the journal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withJournal(func(store *journal.Store) error {
				removed, err := store.Remove(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("no recorded upload %s", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
				return nil
			})
		},
	}
}
