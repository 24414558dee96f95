// ABOUTME: PolarLetter management commands
// ABOUTME: Editorial letters with create/update/delete

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/polarisoffice/secuone-console/internal/secuone"
	"github.com/spf13/cobra"
)

var polarlettersCmd = &cobra.Command{
	Use:     "polarletters",
	Aliases: []string{"letters"},
	Short:   "Manage PolarLetters",
}

var (
	letterAuthor    string
	letterTitle     string
	letterContent   string
	letterURL       string
	letterThumbnail string
	letterYes       bool
)

var polarlettersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List letters",
	Run: func(cmd *cobra.Command, args []string) {
		runWrapped(runPolarLettersList)
	},
}

var polarlettersGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one letter",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWrapped(func(ctx context.Context, w io.Writer) int {
			return runPolarLettersGet(ctx, w, args[0])
		})
	},
}

var polarlettersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Publish a letter",
	Run: func(cmd *cobra.Command, args []string) {
		runWrapped(runPolarLettersCreate)
	},
}

var polarlettersUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Replace a letter",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWrapped(func(ctx context.Context, w io.Writer) int {
			return runPolarLettersUpdate(ctx, w, args[0])
		})
	},
}

var polarlettersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a letter",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWrapped(func(ctx context.Context, w io.Writer) int {
			return runPolarLettersDelete(ctx, w, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(polarlettersCmd)
	polarlettersCmd.AddCommand(polarlettersListCmd, polarlettersGetCmd, polarlettersCreateCmd,
		polarlettersUpdateCmd, polarlettersDeleteCmd)

	for _, c := range []*cobra.Command{polarlettersCreateCmd, polarlettersUpdateCmd} {
		c.Flags().StringVar(&letterAuthor, "author", "", "Author name")
		c.Flags().StringVar(&letterTitle, "title", "", "Title")
		c.Flags().StringVar(&letterContent, "content", "", "Body text")
		c.Flags().StringVar(&letterURL, "url", "", "External article URL")
		c.Flags().StringVar(&letterThumbnail, "thumbnail", "", "Thumbnail URL")
	}
	polarlettersCreateCmd.MarkFlagRequired("title")

	polarlettersDeleteCmd.Flags().BoolVar(&letterYes, "yes", false, "Skip confirmation")
}

func letterFromFlags() secuone.PolarLetter {
	return secuone.PolarLetter{
		Author:    letterAuthor,
		Title:     letterTitle,
		Content:   letterContent,
		URL:       letterURL,
		Thumbnail: letterThumbnail,
	}
}

func runPolarLettersList(ctx context.Context, w io.Writer) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	letters, err := c.client.PolarLetters.List(ctx)
	if err != nil {
		return fail(w, err)
	}
	if IsJSONOutput() {
		printJSON(w, letters)
		return 0
	}
	if len(letters) == 0 {
		fmt.Fprintln(w, "No letters.")
		return 0
	}
	fmt.Fprintf(w, "%-12s %-16s %-20s %s\n", "ID", "AUTHOR", "CREATED", "TITLE")
	for _, l := range letters {
		fmt.Fprintf(w, "%-12s %-16s %-20s %s\n", l.ID, truncate(l.Author, 16), l.CreateTime, truncate(l.Title, 40))
	}
	return 0
}

func runPolarLettersGet(ctx context.Context, w io.Writer, id string) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	letter, err := c.client.PolarLetters.Get(ctx, id)
	if err != nil {
		return fail(w, err)
	}
	if IsJSONOutput() {
		printJSON(w, letter)
		return 0
	}
	fmt.Fprintf(w, "ID:      %s\n", letter.ID)
	fmt.Fprintf(w, "Author:  %s\n", letter.Author)
	fmt.Fprintf(w, "Title:   %s\n", letter.Title)
	fmt.Fprintf(w, "Created: %s\n", letter.CreateTime)
	if letter.URL != "" {
		fmt.Fprintf(w, "URL:     %s\n", letter.URL)
	}
	if letter.Content != "" {
		fmt.Fprintf(w, "\n%s\n", letter.Content)
	}
	return 0
}

func runPolarLettersCreate(ctx context.Context, w io.Writer) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	id, err := c.client.PolarLetters.Create(ctx, letterFromFlags())
	if err != nil {
		return fail(w, err)
	}
	if IsJSONOutput() {
		printJSON(w, map[string]string{"id": id})
		return 0
	}
	fmt.Fprintf(w, "Published letter %s.\n", id)
	return 0
}

func runPolarLettersUpdate(ctx context.Context, w io.Writer, id string) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	if err := c.client.PolarLetters.Update(ctx, id, letterFromFlags()); err != nil {
		return fail(w, err)
	}
	fmt.Fprintf(w, "Updated letter %s.\n", id)
	return 0
}

func runPolarLettersDelete(ctx context.Context, w io.Writer, id string) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	if !letterYes {
		fmt.Fprintf(w, "Refusing to delete %s without --yes.\n", id)
		return 2
	}
	if err := c.client.PolarLetters.Remove(ctx, id); err != nil {
		return fail(w, err)
	}
	fmt.Fprintf(w, "Deleted letter %s.\n", id)
	return 0
}
