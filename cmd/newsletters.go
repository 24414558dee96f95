// ABOUTME: Newsletter management commands
// ABOUTME: Create, list, show and delete newsletter entries

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/polarisoffice/secuone-console/internal/secuone"
	"github.com/spf13/cobra"
)

var newslettersCmd = &cobra.Command{
	Use:     "newsletters",
	Aliases: []string{"newsletter"},
	Short:   "Manage newsletter entries",
}

var (
	newsletterCategory  string
	newsletterDate      string
	newsletterThumbnail string
	newsletterTitle     string
	newsletterURL       string
	newsletterYes       bool
)

var newslettersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List newsletter entries",
	Run: func(cmd *cobra.Command, args []string) {
		runWrapped(runNewslettersList)
	},
}

var newslettersGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one entry",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWrapped(func(ctx context.Context, w io.Writer) int {
			return runNewslettersGet(ctx, w, args[0])
		})
	},
}

var newslettersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Publish a newsletter entry",
	Run: func(cmd *cobra.Command, args []string) {
		runWrapped(runNewslettersCreate)
	},
}

var newslettersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an entry",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWrapped(func(ctx context.Context, w io.Writer) int {
			return runNewslettersDelete(ctx, w, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(newslettersCmd)
	newslettersCmd.AddCommand(newslettersListCmd, newslettersGetCmd, newslettersCreateCmd, newslettersDeleteCmd)

	newslettersCreateCmd.Flags().StringVar(&newsletterCategory, "category", "", "Category label")
	newslettersCreateCmd.Flags().StringVar(&newsletterDate, "date", "", "Date 2006-01-02")
	newslettersCreateCmd.Flags().StringVar(&newsletterThumbnail, "thumbnail", "", "Thumbnail URL")
	newslettersCreateCmd.Flags().StringVar(&newsletterTitle, "title", "", "Title (required)")
	newslettersCreateCmd.Flags().StringVar(&newsletterURL, "url", "", "Article URL (required)")
	newslettersCreateCmd.MarkFlagRequired("title")
	newslettersCreateCmd.MarkFlagRequired("url")

	newslettersDeleteCmd.Flags().BoolVar(&newsletterYes, "yes", false, "Skip confirmation")
}

func runNewslettersList(ctx context.Context, w io.Writer) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	entries, err := c.client.Newsletters.List(ctx)
	if err != nil {
		return fail(w, err)
	}
	if IsJSONOutput() {
		printJSON(w, entries)
		return 0
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "No newsletter entries.")
		return 0
	}
	fmt.Fprintf(w, "%-12s %-12s %-12s %s\n", "ID", "CATEGORY", "DATE", "TITLE")
	for _, e := range entries {
		fmt.Fprintf(w, "%-12s %-12s %-12s %s\n", e.ID, e.Category, e.Date, truncate(e.Title, 48))
	}
	return 0
}

func runNewslettersGet(ctx context.Context, w io.Writer, id string) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	entry, err := c.client.Newsletters.Get(ctx, id)
	if err != nil {
		return fail(w, err)
	}
	if IsJSONOutput() {
		printJSON(w, entry)
		return 0
	}
	fmt.Fprintf(w, "ID:        %s\n", entry.ID)
	fmt.Fprintf(w, "Category:  %s\n", entry.Category)
	fmt.Fprintf(w, "Date:      %s\n", entry.Date)
	fmt.Fprintf(w, "Title:     %s\n", entry.Title)
	fmt.Fprintf(w, "URL:       %s\n", entry.URL)
	if entry.Thumbnail != "" {
		fmt.Fprintf(w, "Thumbnail: %s\n", entry.Thumbnail)
	}
	return 0
}

func runNewslettersCreate(ctx context.Context, w io.Writer) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	created, err := c.client.Newsletters.Create(ctx, secuone.Newsletter{
		Category:  newsletterCategory,
		Date:      newsletterDate,
		Thumbnail: newsletterThumbnail,
		Title:     newsletterTitle,
		URL:       newsletterURL,
	})
	if err != nil {
		return fail(w, err)
	}
	if IsJSONOutput() {
		printJSON(w, created)
		return 0
	}
	fmt.Fprintf(w, "Published newsletter entry %s (%s).\n", created.ID, created.Title)
	return 0
}

func runNewslettersDelete(ctx context.Context, w io.Writer, id string) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	if !newsletterYes {
		fmt.Fprintf(w, "Refusing to delete %s without --yes.\n", id)
		return 2
	}
	if err := c.client.Newsletters.Remove(ctx, id); err != nil {
		return fail(w, err)
	}
	fmt.Fprintf(w, "Deleted newsletter entry %s.\n", id)
	return 0
}
