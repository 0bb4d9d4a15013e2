package cmd

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/giantswarm/linkedin-mcp/internal/cli"
	"github.com/giantswarm/linkedin-mcp/internal/linkedin"
)

const visibilityUsage = "Who can see the post: PUBLIC, CONNECTIONS or LOGGED_IN"

func newPostCmd(flags *cli.CommandFlags) *cobra.Command {
	var visibility string

	cmd := &cobra.Command{
		Use:   "post TEXT...",
		Short: "Publish a text post",
		Long: `Publishes a text post to the feed of the signed-in member.
Arguments are joined with single spaces. Posts are limited to 3000 characters.`,
		Example: `  linkedin-mcp post "Shipped a new release today"
  linkedin-mcp post --visibility CONNECTIONS Hello network`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if err := linkedin.ValidatePostText(text); err != nil {
				return err
			}
			vis, err := linkedin.ParseVisibility(visibility)
			if err != nil {
				return err
			}

			a, err := newApp(cmd, flags)
			if err != nil {
				return err
			}
			var result *linkedin.PostResult
			err = cli.RunWithSpinner(cmd.ErrOrStderr(), flags.Quiet, "Publishing post...", func() error {
				var postErr error
				result, postErr = a.client.CreatePost(cmd.Context(), text, vis)
				return postErr
			})
			if err != nil {
				return a.fail(err)
			}
			return a.printPostResult(result)
		},
	}
	cmd.Flags().StringVar(&visibility, "visibility", linkedin.VisibilityPublic, visibilityUsage)
	return cmd
}

func newArticleCmd(flags *cli.CommandFlags) *cobra.Command {
	var (
		articleURL  string
		title       string
		description string
		visibility  string
	)

	cmd := &cobra.Command{
		Use:   "article TEXT...",
		Short: "Publish a post that shares a link",
		Example: `  linkedin-mcp article --url https://example.com/blog/release "Our release notes"
  linkedin-mcp article --url https://example.com --title "Example" --description "A site" Check this out`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if err := linkedin.ValidatePostText(text); err != nil {
				return err
			}
			if err := linkedin.ValidateArticleURL(articleURL); err != nil {
				return err
			}
			vis, err := linkedin.ParseVisibility(visibility)
			if err != nil {
				return err
			}

			a, err := newApp(cmd, flags)
			if err != nil {
				return err
			}
			article := linkedin.Article{
				Text:        text,
				URL:         articleURL,
				Title:       title,
				Description: description,
				Visibility:  vis,
			}
			var result *linkedin.PostResult
			err = cli.RunWithSpinner(cmd.ErrOrStderr(), flags.Quiet, "Publishing article...", func() error {
				var postErr error
				result, postErr = a.client.CreateArticlePost(cmd.Context(), article)
				return postErr
			})
			if err != nil {
				return a.fail(err)
			}
			return a.printPostResult(result)
		},
	}
	cmd.Flags().StringVar(&articleURL, "url", "", "URL of the shared article (required)")
	cmd.Flags().StringVar(&title, "title", "", "Title shown on the link preview")
	cmd.Flags().StringVar(&description, "description", "", "Description shown on the link preview")
	cmd.Flags().StringVar(&visibility, "visibility", linkedin.VisibilityPublic, visibilityUsage)
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func (a *app) printPostResult(result *linkedin.PostResult) error {
	if handled, err := a.printer.Structured(result); handled {
		return err
	}
	if result.ID == "" {
		a.printer.Success("Post published")
		return nil
	}
	a.printer.Success("Post published: %s", result.ID)
	return nil
}

func newPostsCmd(flags *cli.CommandFlags) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "posts",
		Short: "List recent posts of the signed-in member",
		Long: `Lists recent posts of the signed-in member, newest first.

Reading posts needs the r_member_social scope, which LinkedIn grants only to
approved partner applications. Without it a warning is printed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, flags)
			if err != nil {
				return err
			}
			result, err := a.client.ListPosts(cmd.Context(), linkedin.ClampCount(count))
			if err != nil {
				return a.fail(err)
			}
			if !result.OK() {
				return a.printSoftFailure(result.Failure)
			}
			if handled, err := a.printer.Structured(result.Value); handled {
				return err
			}

			rows := make([][]string, 0, len(result.Value.Posts))
			for _, p := range result.Value.Posts {
				rows = append(rows, []string{p.ID, formatMillis(p.CreatedAt), p.Visibility, p.Text})
			}
			a.printer.Rows([]string{"ID", "CREATED", "VISIBILITY", "TEXT"}, rows)
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", linkedin.DefaultListCount,
		"Number of posts to list, 1 to "+strconv.Itoa(linkedin.MaxListCount))
	return cmd
}

func formatMillis(ms int64) string {
	if ms <= 0 {
		return ""
	}
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04")
}

func newDeleteCmd(flags *cli.CommandFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "delete POST_ID",
		Short:   "Delete a post",
		Example: `  linkedin-mcp delete urn:li:share:7123456789`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			postID := strings.TrimSpace(args[0])
			if postID == "" {
				return errors.New("POST_ID must not be empty")
			}

			a, err := newApp(cmd, flags)
			if err != nil {
				return err
			}
			result, err := a.client.DeletePost(cmd.Context(), postID)
			if err != nil {
				return a.fail(err)
			}
			if handled, err := a.printer.Structured(result); handled {
				return err
			}
			a.printer.Success("Post %s deleted", postID)
			return nil
		},
	}
}
