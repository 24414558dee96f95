// ABOUTME: Play Store referral link commands
// ABOUTME: Builds UTM-tagged install links for one or many company codes

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/polarisoffice/secuone-console/internal/utm"
	"github.com/spf13/cobra"
)

var (
	linkMedium   string
	linkCampaign string
	linkPackage  string
	linkFile     string
)

var linkCmd = &cobra.Command{
	Use:   "link [company]...",
	Short: "Build Play Store referral links",
	Long: `Build Play Store install links tagged with UTM parameters.

Company codes come from the arguments, or line by line from --file
(use --file - for stdin). Each code becomes utm_source after
normalization.`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWrapped(func(ctx context.Context, w io.Writer) int {
			return runLink(ctx, w, args)
		})
	},
}

func init() {
	rootCmd.AddCommand(linkCmd)
	linkCmd.Flags().StringVar(&linkMedium, "medium", "", "utm_medium (default "+utm.DefaultMedium+")")
	linkCmd.Flags().StringVar(&linkCampaign, "campaign", "", "utm_campaign (default "+utm.DefaultCampaign+")")
	linkCmd.Flags().StringVar(&linkPackage, "package", "", "Android package id (default from config)")
	linkCmd.Flags().StringVar(&linkFile, "file", "", "Read company codes from a file, one per line")
}

func runLink(ctx context.Context, w io.Writer, args []string) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	companies := append([]string(nil), args...)
	if linkFile != "" {
		fromFile, err := readCompanyLines(linkFile)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
		companies = append(companies, fromFile...)
	}
	if len(companies) == 0 {
		fmt.Fprintln(w, "Error: no company codes given.")
		return 2
	}

	pkg := linkPackage
	if pkg == "" {
		pkg = c.cfg.PlayPackage
	}

	links, err := utm.BuildBulk(pkg, companies, linkMedium, linkCampaign)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}
	if IsJSONOutput() {
		out := make([]map[string]string, 0, len(links))
		for _, l := range links {
			out = append(out, map[string]string{"company": l.Company, "url": l.URL})
		}
		printJSON(w, out)
		return 0
	}
	for _, l := range links {
		fmt.Fprintf(w, "%s\t%s\n", l.Company, l.URL)
	}
	return 0
}

func readCompanyLines(path string) ([]string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}
