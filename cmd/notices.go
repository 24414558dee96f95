// ABOUTME: Notice management commands
// ABOUTME: Categorized announcements with create/update/delete

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/polarisoffice/secuone-console/internal/secuone"
	"github.com/spf13/cobra"
)

var noticesCmd = &cobra.Command{
	Use:     "notices",
	Aliases: []string{"notice"},
	Short:   "Manage notices",
}

var (
	noticeAuthor   string
	noticeCategory string
	noticeTitle    string
	noticeContent  string
	noticeDate     string
	noticeImageURL string
	noticeYes      bool
)

var noticesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notices",
	Run: func(cmd *cobra.Command, args []string) {
		runWrapped(runNoticesList)
	},
}

var noticesGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one notice",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWrapped(func(ctx context.Context, w io.Writer) int {
			return runNoticesGet(ctx, w, args[0])
		})
	},
}

var noticesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Publish a notice",
	Run: func(cmd *cobra.Command, args []string) {
		runWrapped(runNoticesCreate)
	},
}

var noticesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Replace a notice",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWrapped(func(ctx context.Context, w io.Writer) int {
			return runNoticesUpdate(ctx, w, args[0])
		})
	},
}

var noticesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a notice",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWrapped(func(ctx context.Context, w io.Writer) int {
			return runNoticesDelete(ctx, w, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(noticesCmd)
	noticesCmd.AddCommand(noticesListCmd, noticesGetCmd, noticesCreateCmd, noticesUpdateCmd, noticesDeleteCmd)

	for _, c := range []*cobra.Command{noticesCreateCmd, noticesUpdateCmd} {
		c.Flags().StringVar(&noticeAuthor, "author", "", "Author name")
		c.Flags().StringVar(&noticeCategory, "category", "", "EVENT, EMERGENCY, SERVICE_GUIDE or UPDATE")
		c.Flags().StringVar(&noticeTitle, "title", "", "Title")
		c.Flags().StringVar(&noticeContent, "content", "", "Body text")
		c.Flags().StringVar(&noticeDate, "date", "", "Display date yyyy.MM.dd (default today)")
		c.Flags().StringVar(&noticeImageURL, "image-url", "", "Header image URL")
	}
	noticesCreateCmd.MarkFlagRequired("category")
	noticesCreateCmd.MarkFlagRequired("title")

	noticesDeleteCmd.Flags().BoolVar(&noticeYes, "yes", false, "Skip confirmation")
}

func runNoticesList(ctx context.Context, w io.Writer) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	notices, err := c.client.Notices.List(ctx)
	if err != nil {
		return fail(w, err)
	}
	if IsJSONOutput() {
		printJSON(w, notices)
		return 0
	}
	if len(notices) == 0 {
		fmt.Fprintln(w, "No notices.")
		return 0
	}
	fmt.Fprintf(w, "%-12s %-14s %-12s %s\n", "ID", "CATEGORY", "DATE", "TITLE")
	for _, n := range notices {
		fmt.Fprintf(w, "%-12s %-14s %-12s %s\n", n.ID, n.Category, n.Date, truncate(n.Title, 48))
	}
	return 0
}

func runNoticesGet(ctx context.Context, w io.Writer, id string) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	notice, err := c.client.Notices.Get(ctx, id)
	if err != nil {
		return fail(w, err)
	}
	if IsJSONOutput() {
		printJSON(w, notice)
		return 0
	}
	fmt.Fprintf(w, "ID:       %s\n", notice.ID)
	fmt.Fprintf(w, "Category: %s\n", notice.Category)
	fmt.Fprintf(w, "Title:    %s\n", notice.Title)
	fmt.Fprintf(w, "Author:   %s\n", notice.Author)
	fmt.Fprintf(w, "Date:     %s\n", notice.Date)
	if notice.ImageURL != "" {
		fmt.Fprintf(w, "Image:    %s\n", notice.ImageURL)
	}
	if notice.Content != "" {
		fmt.Fprintf(w, "\n%s\n", notice.Content)
	}
	return 0
}

func runNoticesCreate(ctx context.Context, w io.Writer) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	created, err := c.client.Notices.Create(ctx, secuone.Notice{
		Author:   noticeAuthor,
		Category: noticeCategory,
		Title:    noticeTitle,
		Content:  noticeContent,
		Date:     noticeDate,
		ImageURL: noticeImageURL,
	})
	if err != nil {
		return fail(w, err)
	}
	if IsJSONOutput() {
		printJSON(w, created)
		return 0
	}
	fmt.Fprintf(w, "Published notice %s (%s).\n", created.ID, created.Title)
	return 0
}

func runNoticesUpdate(ctx context.Context, w io.Writer, id string) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	updated, err := c.client.Notices.Update(ctx, id, secuone.Notice{
		Author:   noticeAuthor,
		Category: noticeCategory,
		Title:    noticeTitle,
		Content:  noticeContent,
		Date:     noticeDate,
		ImageURL: noticeImageURL,
	})
	if err != nil {
		return fail(w, err)
	}
	if IsJSONOutput() {
		printJSON(w, updated)
		return 0
	}
	fmt.Fprintf(w, "Updated notice %s.\n", id)
	return 0
}

func runNoticesDelete(ctx context.Context, w io.Writer, id string) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	if !noticeYes {
		fmt.Fprintf(w, "Refusing to delete %s without --yes.\n", id)
		return 2
	}
	if err := c.client.Notices.Remove(ctx, id); err != nil {
		return fail(w, err)
	}
	fmt.Fprintf(w, "Deleted notice %s.\n", id)
	return 0
}
