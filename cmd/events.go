// ABOUTME: Security event commands
// ABOUTME: Report device-side events and browse the event feed

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/polarisoffice/secuone-console/internal/secuone"
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Report and browse security events",
}

var (
	eventPackage string
	eventDomain  string
	eventDevice  string
	eventType    string
	eventData    map[string]string
	eventSince   string
	eventLimit   int
)

var eventsReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Submit a security event",
	Run: func(cmd *cobra.Command, args []string) {
		runWrapped(runEventsReport)
	},
}

var eventsFeedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Show recent security events",
	Run: func(cmd *cobra.Command, args []string) {
		runWrapped(runEventsFeed)
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsReportCmd, eventsFeedCmd)

	eventsReportCmd.Flags().StringVar(&eventPackage, "package", "", "App package name")
	eventsReportCmd.Flags().StringVar(&eventDomain, "domain", "", "Customer domain")
	eventsReportCmd.Flags().StringVar(&eventDevice, "device", "", "Device id")
	eventsReportCmd.Flags().StringVar(&eventType, "type", "", "MALWARES_APP, ROOTING_DETECTED or REMOTE_CONTROL_APP")
	eventsReportCmd.Flags().StringToStringVar(&eventData, "data", nil, "Extra payload entries")
	eventsReportCmd.MarkFlagRequired("type")

	eventsFeedCmd.Flags().StringVar(&eventSince, "since", "", "Only events after this ISO timestamp")
	eventsFeedCmd.Flags().IntVar(&eventLimit, "limit", 100, "Maximum rows")
}

func runEventsReport(ctx context.Context, w io.Writer) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	if eventPackage == "" && eventDomain == "" {
		fmt.Fprintln(w, "Error: set --package or --domain so the backend can resolve the customer.")
		return 2
	}
	data := map[string]any{}
	for k, v := range eventData {
		data[k] = v
	}
	err = c.client.Events.Report(ctx, secuone.EventReport{
		PackageName: eventPackage,
		Domain:      eventDomain,
		DeviceID:    eventDevice,
		EventType:   strings.ToUpper(eventType),
		Data:        data,
	})
	if err != nil {
		return fail(w, err)
	}
	fmt.Fprintln(w, "Event reported.")
	return 0
}

func runEventsFeed(ctx context.Context, w io.Writer) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	events, err := c.client.Events.Feed(ctx, eventSince, eventLimit)
	if err != nil {
		return fail(w, err)
	}
	if IsJSONOutput() {
		printJSON(w, events)
		return 0
	}
	if len(events) == 0 {
		fmt.Fprintln(w, "No events.")
		return 0
	}
	fmt.Fprintf(w, "%-8s %-14s %-20s %-20s %s\n", "ID", "CUSTOMER", "TYPE", "DEVICE", "AT")
	for _, e := range events {
		fmt.Fprintf(w, "%-8d %-14s %-20s %-20s %s\n",
			e.ID, e.CustomerCode, e.EventType, truncate(e.DeviceID, 20), e.CreatedAt)
	}
	return 0
}
