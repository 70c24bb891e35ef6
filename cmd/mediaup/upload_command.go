package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"mediaup/internal/journal"
	"mediaup/internal/services"
	"mediaup/internal/title"
	"mediaup/internal/upload"
)

type uploadResult struct {
	UploadID     string `json:"uploadId"`
	FileName     string `json:"fileName"`
	Profile      string `json:"profile"`
	State        string `json:"state"`
	Message      string `json:"message,omitempty"`
	MediaURL     string `json:"mediaUrl,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Duration     string `json:"duration,omitempty"`
}

func newUploadCommand(ctx *commandContext) *cobra.Command {
	uploadCmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload media files to the CMS",
	}

	uploadCmd.AddCommand(newUploadVideoCommand(ctx))
	uploadCmd.AddCommand(newUploadImageCommand(ctx))

	return uploadCmd
}

func newUploadVideoCommand(ctx *commandContext) *cobra.Command {
	var profileFlag string
	var noWait bool
	var timeoutFlag, intervalFlag time.Duration
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "video <path>",
		Short: "Upload a video and wait for processing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, ok := parseVideoProfile(profileFlag)
			if !ok {
				return fmt.Errorf("unknown profile %q (use reel or post)", profileFlag)
			}
			return runUpload(ctx, cmd, args[0], profile, uploadFlags{
				noWait:   noWait,
				timeout:  timeoutFlag,
				interval: intervalFlag,
				jsonOut:  jsonOut,
			})
		},
	}

	cmd.Flags().StringVar(&profileFlag, "profile", "post", "Upload profile: reel or post")
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "Return after initiation without polling")
	cmd.Flags().DurationVar(&timeoutFlag, "timeout", 0, "Maximum time to wait for processing")
	cmd.Flags().DurationVar(&intervalFlag, "interval", 0, "Pause between status checks")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}

func newUploadImageCommand(ctx *commandContext) *cobra.Command {
	var noWait bool
	var timeoutFlag, intervalFlag time.Duration
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "image <path>",
		Short: "Upload an image and wait for processing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpload(ctx, cmd, args[0], upload.ProfileImage, uploadFlags{
				noWait:   noWait,
				timeout:  timeoutFlag,
				interval: intervalFlag,
				jsonOut:  jsonOut,
			})
		},
	}

	cmd.Flags().BoolVar(&noWait, "no-wait", false, "Return after initiation without polling")
	cmd.Flags().DurationVar(&timeoutFlag, "timeout", 0, "Maximum time to wait for processing")
	cmd.Flags().DurationVar(&intervalFlag, "interval", 0, "Pause between status checks")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}

type uploadFlags struct {
	noWait   bool
	timeout  time.Duration
	interval time.Duration
	jsonOut  bool
}

func parseVideoProfile(value string) (upload.Profile, bool) {
	switch value {
	case "reel", string(upload.ProfileReelVideo):
		return upload.ProfileReelVideo, true
	case "post", string(upload.ProfilePostVideo):
		return upload.ProfilePostVideo, true
	}
	return "", false
}

func runUpload(ctx *commandContext, cmd *cobra.Command, path string, profile upload.Profile, flags uploadFlags) error {
	absPath, size, contentType, err := inspectMediaFile(path)
	if err != nil {
		return err
	}

	orch, err := ctx.orchestrator()
	if err != nil {
		return err
	}

	file, err := os.Open(absPath)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	req := upload.Request{
		Profile:     profile,
		FileName:    filepath.Base(absPath),
		ContentType: contentType,
		Size:        size,
		Body:        file,
	}

	return ctx.withJournal(func(store *journal.Store) error {
		handle, err := orch.Initiate(cmd.Context(), req)
		if err != nil {
			return err
		}
		if err := store.Record(cmd.Context(), &journal.Attempt{
			UploadID:  handle.UploadID,
			Profile:   profile,
			FileName:  handle.FileName,
			Title:     title.FromPath(absPath),
			SizeBytes: size,
			State:     handle.InitialState,
			Message:   handle.Message,
		}); err != nil {
			return err
		}

		if flags.noWait {
			result := uploadResult{
				UploadID: handle.UploadID,
				FileName: handle.FileName,
				Profile:  string(profile),
				State:    string(handle.InitialState),
				Message:  handle.Message,
			}
			if flags.jsonOut {
				return writeJSON(cmd, result)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Upload %s accepted (%s, %s)\n", handle.UploadID, handle.FileName, formatSize(size))
			fmt.Fprintf(out, "Check progress with: mediaup wait %s\n", handle.UploadID)
			return nil
		}

		status, media, err := waitAndFinalize(ctx, cmd, orch, store, handle.UploadID, profile, flags)
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
			result.FileName = handle.FileName
		}
		if flags.jsonOut {
			return writeJSON(cmd, result)
		}
		printFinalizedMedia(cmd, result)
		return nil
	})
}

// waitAndFinalize polls until terminal, folds the outcome into the journal,
// and gates the completed status on the profile's required URLs.
func waitAndFinalize(
	ctx *commandContext,
	cmd *cobra.Command,
	orch *upload.Orchestrator,
	store *journal.Store,
	uploadID string,
	profile upload.Profile,
	flags uploadFlags,
) (upload.Status, *upload.FinalizedMedia, error) {
	var observer upload.ProgressObserver
	var printer *progressPrinter
	if !flags.jsonOut {
		printer = newProgressPrinter(cmd.OutOrStdout())
		observer = printer
	}

	status, pollErr := orch.PollUntilTerminal(cmd.Context(), uploadID, upload.PollOptions{
		Deadline: flags.timeout,
		Interval: flags.interval,
		Observer: observer,
	})
	if printer != nil {
		printer.Finish()
	}
	if status.UploadID != "" {
		if err := store.UpdateFromStatus(cmd.Context(), status); err != nil {
			return status, nil, err
		}
	}
	if pollErr != nil {
		return status, nil, decorateWaitError(pollErr, uploadID)
	}

	media, err := orch.Finalize(status, profile)
	if err != nil {
		return status, nil, err
	}
	return status, media, nil
}

// decorateWaitError adds a resume hint to recoverable poll errors; the upload
// may still finish server-side.
func decorateWaitError(err error, uploadID string) error {
	if services.IsRecoverable(err) && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w\nresume with: mediaup wait %s", err, uploadID)
	}
	return err
}

func printFinalizedMedia(cmd *cobra.Command, result uploadResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Upload %s completed (%s)\n", result.UploadID, result.FileName)
	fmt.Fprintf(out, "  Media URL:     %s\n", result.MediaURL)
	if result.ThumbnailURL != "" {
		fmt.Fprintf(out, "  Thumbnail URL: %s\n", result.ThumbnailURL)
	}
	if result.Duration != "" {
		fmt.Fprintf(out, "  Duration:      %s\n", result.Duration)
	}
}
