// ABOUTME: Direct ad placement commands
// ABOUTME: CRUD plus per-ad impression/click metrics

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/polarisoffice/secuone-console/internal/secuone"
	"github.com/spf13/cobra"
)

var directadsCmd = &cobra.Command{
	Use:     "directads",
	Aliases: []string{"ads"},
	Short:   "Manage direct ad placements",
}

var (
	adType       string
	adAdvertiser string
	adImageURL   string
	adTargetURL  string
	adBackground string
	adStatus     string
	adLocales    []string
	adLimit      int
	adYes        bool
)

var directadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ad placements",
	Run: func(cmd *cobra.Command, args []string) {
		runWrapped(runDirectAdsList)
	},
}

var directadsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one ad",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWrapped(func(ctx context.Context, w io.Writer) int {
			return runDirectAdsGet(ctx, w, args[0])
		})
	},
}

var directadsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an ad placement",
	Run: func(cmd *cobra.Command, args []string) {
		runWrapped(runDirectAdsCreate)
	},
}

var directadsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Replace an ad placement",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWrapped(func(ctx context.Context, w io.Writer) int {
			return runDirectAdsUpdate(ctx, w, args[0])
		})
	},
}

var directadsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an ad placement",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWrapped(func(ctx context.Context, w io.Writer) int {
			return runDirectAdsDelete(ctx, w, args[0])
		})
	},
}

var directadsMetricsCmd = &cobra.Command{
	Use:   "metrics <id>",
	Short: "Show impression/click counters for an ad",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWrapped(func(ctx context.Context, w io.Writer) int {
			return runDirectAdsMetrics(ctx, w, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(directadsCmd)
	directadsCmd.AddCommand(directadsListCmd, directadsGetCmd, directadsCreateCmd,
		directadsUpdateCmd, directadsDeleteCmd, directadsMetricsCmd)

	directadsListCmd.Flags().IntVar(&adLimit, "limit", 200, "Maximum rows")

	for _, c := range []*cobra.Command{directadsCreateCmd, directadsUpdateCmd} {
		c.Flags().StringVar(&adType, "type", "", "BANNER, BOTTOM, EVENT or EVENT_FAB")
		c.Flags().StringVar(&adAdvertiser, "advertiser", "", "Advertiser name")
		c.Flags().StringVar(&adImageURL, "image-url", "", "Creative image URL")
		c.Flags().StringVar(&adTargetURL, "target-url", "", "Click-through URL")
		c.Flags().StringVar(&adBackground, "background", "", "Background color, e.g. #FFFFFF")
		c.Flags().StringVar(&adStatus, "status", "", "ACTIVE or INACTIVE")
		c.Flags().StringSliceVar(&adLocales, "locales", nil, "Locales, e.g. ko,en")
	}
	directadsCreateCmd.MarkFlagRequired("type")
	directadsCreateCmd.MarkFlagRequired("advertiser")
	directadsCreateCmd.MarkFlagRequired("image-url")
	directadsCreateCmd.MarkFlagRequired("target-url")

	directadsDeleteCmd.Flags().BoolVar(&adYes, "yes", false, "Skip confirmation")
}

func adFromFlags() secuone.DirectAd {
	return secuone.DirectAd{
		AdType:          strings.ToUpper(adType),
		AdvertiserName:  adAdvertiser,
		ImageURL:        adImageURL,
		TargetURL:       adTargetURL,
		BackgroundColor: adBackground,
		Status:          strings.ToUpper(adStatus),
		Locales:         adLocales,
	}
}

func runDirectAdsList(ctx context.Context, w io.Writer) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	ads, err := c.client.DirectAds.List(ctx, adLimit)
	if err != nil {
		return fail(w, err)
	}
	if IsJSONOutput() {
		printJSON(w, ads)
		return 0
	}
	if len(ads) == 0 {
		fmt.Fprintln(w, "No ad placements.")
		return 0
	}
	fmt.Fprintf(w, "%-26s %-10s %-22s %-9s %10s %10s\n", "ID", "TYPE", "ADVERTISER", "STATUS", "VIEWS", "CLICKS")
	for _, ad := range ads {
		fmt.Fprintf(w, "%-26s %-10s %-22s %-9s %10d %10d\n",
			ad.ID, ad.AdType, truncate(ad.AdvertiserName, 22), ad.Status, ad.ViewCount, ad.ClickCount)
	}
	return 0
}

func runDirectAdsGet(ctx context.Context, w io.Writer, id string) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	ad, err := c.client.DirectAds.Get(ctx, id)
	if err != nil {
		return fail(w, err)
	}
	if IsJSONOutput() {
		printJSON(w, ad)
		return 0
	}
	fmt.Fprintf(w, "ID:         %s\n", ad.ID)
	fmt.Fprintf(w, "Type:       %s\n", ad.AdType)
	fmt.Fprintf(w, "Advertiser: %s\n", ad.AdvertiserName)
	fmt.Fprintf(w, "Status:     %s\n", ad.Status)
	fmt.Fprintf(w, "Image:      %s\n", ad.ImageURL)
	fmt.Fprintf(w, "Target:     %s\n", ad.TargetURL)
	if len(ad.Locales) > 0 {
		fmt.Fprintf(w, "Locales:    %s\n", strings.Join(ad.Locales, ", "))
	}
	fmt.Fprintf(w, "Views:      %d\n", ad.ViewCount)
	fmt.Fprintf(w, "Clicks:     %d\n", ad.ClickCount)
	return 0
}

func runDirectAdsCreate(ctx context.Context, w io.Writer) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	id, err := c.client.DirectAds.Create(ctx, adFromFlags())
	if err != nil {
		return fail(w, err)
	}
	if IsJSONOutput() {
		printJSON(w, map[string]string{"id": id})
		return 0
	}
	fmt.Fprintf(w, "Created ad %s.\n", id)
	return 0
}

func runDirectAdsUpdate(ctx context.Context, w io.Writer, id string) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	if err := c.client.DirectAds.Update(ctx, id, adFromFlags()); err != nil {
		return fail(w, err)
	}
	fmt.Fprintf(w, "Updated ad %s.\n", id)
	return 0
}

func runDirectAdsDelete(ctx context.Context, w io.Writer, id string) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	if !adYes {
		fmt.Fprintf(w, "Refusing to delete %s without --yes.\n", id)
		return 2
	}
	if err := c.client.DirectAds.Remove(ctx, id); err != nil {
		return fail(w, err)
	}
	fmt.Fprintf(w, "Deleted ad %s.\n", id)
	return 0
}

func runDirectAdsMetrics(ctx context.Context, w io.Writer, id string) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	metrics, err := c.client.DirectAds.Metrics(ctx, id)
	if err != nil {
		return fail(w, err)
	}
	if IsJSONOutput() {
		printJSON(w, metrics)
		return 0
	}
	fmt.Fprintf(w, "Ad:     %s\n", metrics.ID)
	fmt.Fprintf(w, "Views:  %d\n", metrics.ViewCount)
	fmt.Fprintf(w, "Clicks: %d\n", metrics.ClickCount)
	return 0
}
