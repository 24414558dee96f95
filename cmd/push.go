// ABOUTME: Push notification commands
// ABOUTME: Send to a device token, a token batch or a topic

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/polarisoffice/secuone-console/internal/secuone"
	"github.com/spf13/cobra"
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Send push notifications",
}

var (
	pushTitle    string
	pushBody     string
	pushPriority string
	pushData     map[string]string
)

var pushTokenCmd = &cobra.Command{
	Use:   "token <device-token>",
	Short: "Send to one device",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWrapped(func(ctx context.Context, w io.Writer) int {
			return runPushToken(ctx, w, args[0])
		})
	},
}

var pushTokensCmd = &cobra.Command{
	Use:   "tokens <device-token>...",
	Short: "Send to many devices",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWrapped(func(ctx context.Context, w io.Writer) int {
			return runPushTokens(ctx, w, args)
		})
	},
}

var pushTopicCmd = &cobra.Command{
	Use:   "topic <topic>",
	Short: "Send to a topic",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWrapped(func(ctx context.Context, w io.Writer) int {
			return runPushTopic(ctx, w, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(pushCmd)
	pushCmd.AddCommand(pushTokenCmd, pushTokensCmd, pushTopicCmd)

	for _, c := range []*cobra.Command{pushTokenCmd, pushTokensCmd, pushTopicCmd} {
		c.Flags().StringVar(&pushTitle, "title", "", "Notification title (required)")
		c.Flags().StringVar(&pushBody, "body", "", "Notification body (required)")
		c.Flags().StringVar(&pushPriority, "priority", "", "high or normal")
		c.Flags().StringToStringVar(&pushData, "data", nil, "Payload entries, e.g. --data screen=notice")
		c.MarkFlagRequired("title")
		c.MarkFlagRequired("body")
	}
}

func pushMessageFromFlags() secuone.PushMessage {
	return secuone.PushMessage{
		Title:    pushTitle,
		Body:     pushBody,
		Priority: pushPriority,
		Data:     pushData,
	}
}

func runPushToken(ctx context.Context, w io.Writer, token string) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	result, err := c.client.Push.SendToken(ctx, token, pushMessageFromFlags())
	if err != nil {
		return fail(w, err)
	}
	if IsJSONOutput() {
		printJSON(w, result)
		return 0
	}
	fmt.Fprintf(w, "Sent: %s", result.Status)
	if result.MessageID != "" {
		fmt.Fprintf(w, " (message %s)", result.MessageID)
	}
	fmt.Fprintln(w)
	return 0
}

func runPushTokens(ctx context.Context, w io.Writer, tokens []string) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	result, err := c.client.Push.SendTokens(ctx, tokens, pushMessageFromFlags())
	if err != nil {
		return fail(w, err)
	}
	if IsJSONOutput() {
		printJSON(w, result)
		return 0
	}
	fmt.Fprintf(w, "Sent: %s (%d ok, %d failed)\n", result.Status, result.Success, result.Failure)
	for _, token := range result.InvalidTokens {
		fmt.Fprintf(w, "Invalid token: %s\n", token)
	}
	if result.Failure > 0 {
		return 1
	}
	return 0
}

func runPushTopic(ctx context.Context, w io.Writer, topic string) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	result, err := c.client.Push.SendTopic(ctx, topic, pushMessageFromFlags())
	if err != nil {
		return fail(w, err)
	}
	if IsJSONOutput() {
		printJSON(w, result)
		return 0
	}
	fmt.Fprintf(w, "Sent to topic %s: %s\n", topic, result.Status)
	return 0
}
