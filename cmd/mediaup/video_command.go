package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mediaup/internal/services/cms"
	"mediaup/internal/upload"
)

func newVideoCommand(ctx *commandContext) *cobra.Command {
	videoCmd := &cobra.Command{
		Use:   "video",
		Short: "Create video posts from uploaded or external videos",
	}

	videoCmd.AddCommand(newVideoCreateCommand(ctx))

	return videoCmd
}

func newVideoCreateCommand(ctx *commandContext) *cobra.Command {
	var (
		categoryID   string
		titleFlag    string
		contentFlag  string
		languageFlag string
		statusFlag   string
		tagIDs       []string
		externalURL  string
		thumbnailURL string
		timeoutFlag  time.Duration
		intervalFlag time.Duration
		jsonOut      bool
	)

	cmd := &cobra.Command{
		Use:   "create [path]",
		Short: "Upload a video and create a post, or post an external video",
		Long: `Create a video post in a category.

With a file argument the video is uploaded through the post-video profile and
the post is created from the processed URLs. With --external-url the post
embeds a YouTube or Vimeo video instead; --thumbnail is then required.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 0) == (externalURL == "") {
				return errors.New("provide either a video file or --external-url")
			}

			client, err := ctx.cmsClient()
			if err != nil {
				return err
			}

			req := cms.VideoPostRequest{
				Title:    titleFlag,
				Content:  contentFlag,
				Language: languageFlag,
				Status:   statusFlag,
				TagIDs:   tagIDs,
			}
			if req.TagIDs == nil {
				req.TagIDs = []string{}
			}

			if externalURL != "" {
				embed, ok := cms.EmbedCode(externalURL, 0, 0)
				if !ok {
					return fmt.Errorf("cannot derive an embed code for %s (only YouTube and Vimeo are supported)", externalURL)
				}
				if strings.TrimSpace(thumbnailURL) == "" {
					return errors.New("--thumbnail is required with --external-url")
				}
				req.VideoURL = externalURL
				req.VideoEmbedCode = embed
				req.VideoThumbnailURL = thumbnailURL
				req.VideoFileURLs = []string{}
			} else {
				flags := uploadFlags{timeout: timeoutFlag, interval: intervalFlag, jsonOut: jsonOut}
				media, derivedTitle, err := uploadForContent(ctx, cmd, args[0], upload.ProfilePostVideo, flags)
				if err != nil {
					return err
				}
				if req.Title == "" {
					req.Title = derivedTitle
				}
				req.VideoFileURLs = []string{media.MediaURL}
				req.VideoThumbnailURL = media.ThumbnailURL
				req.Duration = media.Duration
			}
			if req.Content == "" {
				req.Content = req.Title
			}

			post, err := client.CreateVideoPost(cmd.Context(), categoryID, req)
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, post)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created video post %s (%s)\n", post.ID, post.Title)
			fmt.Fprintf(out, "  Status: %s\n", post.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&categoryID, "category", "", "Category to create the post in (required)")
	cmd.Flags().StringVar(&titleFlag, "title", "", "Post title (defaults to a title derived from the file name)")
	cmd.Flags().StringVar(&contentFlag, "content", "", "Post body (defaults to the title)")
	cmd.Flags().StringVar(&languageFlag, "language", cms.LanguageEnglish, "Post language: English or Arabic")
	cmd.Flags().StringVar(&statusFlag, "post-status", cms.PostStatusDraft, "Post status: Draft, Scheduled, or Published")
	cmd.Flags().StringSliceVar(&tagIDs, "tag", nil, "Tag id to attach (repeatable)")
	cmd.Flags().StringVar(&externalURL, "external-url", "", "Embed an external YouTube or Vimeo video instead of uploading")
	cmd.Flags().StringVar(&thumbnailURL, "thumbnail", "", "Thumbnail URL for an external video")
	cmd.Flags().DurationVar(&timeoutFlag, "timeout", 0, "Maximum time to wait for processing")
	cmd.Flags().DurationVar(&intervalFlag, "interval", 0, "Pause between status checks")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}
