package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mediaup/internal/services/cms"
	"mediaup/internal/upload"
)

func newReelCommand(ctx *commandContext) *cobra.Command {
	reelCmd := &cobra.Command{
		Use:   "reel",
		Short: "Create and manage reels",
	}

	reelCmd.AddCommand(newReelCreateCommand(ctx))
	reelCmd.AddCommand(newReelPublishCommand(ctx))
	reelCmd.AddCommand(newReelUnpublishCommand(ctx))
	reelCmd.AddCommand(newReelListCommand(ctx))

	return reelCmd
}

func newReelCreateCommand(ctx *commandContext) *cobra.Command {
	var (
		caption      string
		tags         []string
		publish      bool
		timeoutFlag  time.Duration
		intervalFlag time.Duration
		jsonOut      bool
	)

	cmd := &cobra.Command{
		Use:   "create <path>",
		Short: "Upload a reel video and create the reel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.cmsClient()
			if err != nil {
				return err
			}

			flags := uploadFlags{timeout: timeoutFlag, interval: intervalFlag, jsonOut: jsonOut}
			media, derivedTitle, err := uploadForContent(ctx, cmd, args[0], upload.ProfileReelVideo, flags)
			if err != nil {
				return err
			}
			if caption == "" {
				caption = derivedTitle
			}

			reel, err := client.CreateReel(cmd.Context(), cms.ReelRequest{
				VideoURL:     media.MediaURL,
				ThumbnailURL: media.ThumbnailURL,
				Caption:      caption,
				Tags:         tags,
			})
			if err != nil {
				return err
			}

			if publish {
				reel, err = client.PublishReel(cmd.Context(), reel.ID)
				if err != nil {
					return err
				}
			}

			if jsonOut {
				return writeJSON(cmd, reel)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created reel %s (%s)\n", reel.ID, reel.Caption)
			fmt.Fprintf(out, "  Published: %s\n", yesNo(reel.IsPublished))
			return nil
		},
	}

	cmd.Flags().StringVar(&caption, "caption", "", "Reel caption (defaults to a title derived from the file name)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag to attach (repeatable)")
	cmd.Flags().BoolVar(&publish, "publish", false, "Publish the reel immediately after creating it")
	cmd.Flags().DurationVar(&timeoutFlag, "timeout", 0, "Maximum time to wait for processing")
	cmd.Flags().DurationVar(&intervalFlag, "interval", 0, "Pause between status checks")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}

func newReelPublishCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publish <reelId>",
		Short: "Make a reel visible to users",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.cmsClient()
			if err != nil {
				return err
			}
			reel, err := client.PublishReel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Published reel %s\n", reel.ID)
			return nil
		},
	}
}

func newReelUnpublishCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "unpublish <reelId>",
		Short: "Hide a reel from users",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.cmsClient()
			if err != nil {
				return err
			}
			reel, err := client.UnpublishReel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unpublished reel %s\n", reel.ID)
			return nil
		},
	}
}

func newReelListCommand(ctx *commandContext) *cobra.Command {
	var (
		pageNumber  int
		pageSize    int
		search      string
		publishedOn bool
		jsonOut     bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.cmsClient()
			if err != nil {
				return err
			}

			params := cms.ReelListParams{
				PageNumber:   pageNumber,
				PageSize:     pageSize,
				SearchPhrase: search,
			}
			if cmd.Flags().Changed("published") {
				params.IsPublished = &publishedOn
			}

			page, err := client.ListReels(cmd.Context(), params)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, page)
			}
			if len(page.Items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No reels found")
				return nil
			}

			rows := make([][]string, 0, len(page.Items))
			for _, reel := range page.Items {
				rows = append(rows, []string{
					reel.ID,
					reel.Caption,
					reel.Duration,
					yesNo(reel.IsPublished),
					fmt.Sprintf("%d", reel.ViewsCount),
					formatTimestamp(reel.CreatedAt),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Caption", "Duration", "Published", "Views", "Created"},
				rows,
				4,
			))
			fmt.Fprintf(out, "Page %d of %d (%d total)\n", page.PageNumber, page.TotalPages, page.TotalCount)
			return nil
		},
	}

	cmd.Flags().IntVar(&pageNumber, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "Items per page")
	cmd.Flags().StringVar(&search, "search", "", "Search phrase")
	cmd.Flags().BoolVar(&publishedOn, "published", false, "Filter by published state")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
