// ABOUTME: Customer management commands
// ABOUTME: List/get/create/update/delete plus settlement stats, keyed by customer code

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/polarisoffice/secuone-console/internal/secuone"
	"github.com/spf13/cobra"
)

var customersCmd = &cobra.Command{
	Use:     "customers",
	Aliases: []string{"customer"},
	Short:   "Manage customer accounts",
}

var (
	customerQuery    string
	customerName     string
	customerIntegr   string
	customerRS       float64
	customerCPI      float64
	customerNote     string
	customerFrom     string
	customerTo       string
	customerSetName  string
	customerSetNote  string
	customerSetRS    float64
	customerSetCPI   float64
	customerRSSet    bool
	customerCPISet   bool
	customerForceDel bool
)

var customersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List customers",
	Run: func(cmd *cobra.Command, args []string) {
		runWrapped(runCustomersList)
	},
}

var customersGetCmd = &cobra.Command{
	Use:   "get <code>",
	Short: "Show one customer",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWrapped(func(ctx context.Context, w io.Writer) int {
			return runCustomersGet(ctx, w, args[0])
		})
	},
}

var customersCreateCmd = &cobra.Command{
	Use:   "create <code>",
	Short: "Create a customer",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWrapped(func(ctx context.Context, w io.Writer) int {
			return runCustomersCreate(ctx, w, args[0])
		})
	},
}

var customersUpdateCmd = &cobra.Command{
	Use:   "update <code>",
	Short: "Update customer fields",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWrapped(func(ctx context.Context, w io.Writer) int {
			return runCustomersUpdate(ctx, w, args[0], cmd)
		})
	},
}

var customersDeleteCmd = &cobra.Command{
	Use:   "delete <code>",
	Short: "Delete a customer",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWrapped(func(ctx context.Context, w io.Writer) int {
			return runCustomersDelete(ctx, w, args[0])
		})
	},
}

var customersStatsCmd = &cobra.Command{
	Use:   "stats <code>",
	Short: "Show settlement stats for a customer",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWrapped(func(ctx context.Context, w io.Writer) int {
			return runCustomersStats(ctx, w, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(customersCmd)
	customersCmd.AddCommand(customersListCmd, customersGetCmd, customersCreateCmd,
		customersUpdateCmd, customersDeleteCmd, customersStatsCmd)

	customersListCmd.Flags().StringVarP(&customerQuery, "query", "q", "", "Filter by code or name")

	customersCreateCmd.Flags().StringVar(&customerName, "name", "", "Customer name (required)")
	customersCreateCmd.Flags().StringVar(&customerIntegr, "integration", "", "Integration type (API, FILE, MANUAL)")
	customersCreateCmd.Flags().Float64Var(&customerRS, "rs-percent", 0, "Revenue share percentage")
	customersCreateCmd.Flags().Float64Var(&customerCPI, "cpi-value", 0, "Cost per install amount")
	customersCreateCmd.Flags().StringVar(&customerNote, "note", "", "Free-form note")
	customersCreateCmd.MarkFlagRequired("name")

	customersUpdateCmd.Flags().StringVar(&customerSetName, "name", "", "New name")
	customersUpdateCmd.Flags().StringVar(&customerSetNote, "note", "", "New note")
	customersUpdateCmd.Flags().Float64Var(&customerSetRS, "rs-percent", 0, "New revenue share percentage")
	customersUpdateCmd.Flags().Float64Var(&customerSetCPI, "cpi-value", 0, "New cost per install amount")

	customersDeleteCmd.Flags().BoolVar(&customerForceDel, "yes", false, "Skip confirmation")

	customersStatsCmd.Flags().StringVar(&customerFrom, "from", "", "First month (YYYY-MM)")
	customersStatsCmd.Flags().StringVar(&customerTo, "to", "", "Last month (YYYY-MM)")
}

// runWrapped is the shared signal-context harness every subcommand
// body runs under.
func runWrapped(fn func(ctx context.Context, w io.Writer) int) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if exitCode := fn(ctx, os.Stdout); exitCode != 0 {
		os.Exit(exitCode)
	}
}

func runCustomersList(ctx context.Context, w io.Writer) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	customers, err := c.client.Customers.List(ctx, customerQuery)
	if err != nil {
		return fail(w, err)
	}
	if IsJSONOutput() {
		printJSON(w, customers)
		return 0
	}
	if len(customers) == 0 {
		fmt.Fprintln(w, "No customers.")
		return 0
	}
	fmt.Fprintf(w, "%-16s %-24s %-10s %10s %10s\n", "CODE", "NAME", "TYPE", "RS%", "CPI")
	for _, cust := range customers {
		fmt.Fprintf(w, "%-16s %-24s %-10s %10.2f %10.2f\n",
			cust.Code, truncate(cust.Name, 24), cust.IntegrationType, cust.RSPercent, cust.CPIValue)
	}
	return 0
}

func runCustomersGet(ctx context.Context, w io.Writer, code string) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	cust, err := c.client.Customers.Get(ctx, code)
	if err != nil {
		return fail(w, err)
	}
	if IsJSONOutput() {
		printJSON(w, cust)
		return 0
	}
	fmt.Fprintf(w, "Code:        %s\n", cust.Code)
	fmt.Fprintf(w, "Name:        %s\n", cust.Name)
	fmt.Fprintf(w, "Integration: %s\n", cust.IntegrationType)
	fmt.Fprintf(w, "RS:          %.2f%%\n", cust.RSPercent)
	fmt.Fprintf(w, "CPI:         %.2f\n", cust.CPIValue)
	if cust.Note != "" {
		fmt.Fprintf(w, "Note:        %s\n", cust.Note)
	}
	return 0
}

func runCustomersCreate(ctx context.Context, w io.Writer, code string) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	taken, err := c.client.Customers.Exists(ctx, code)
	if err != nil {
		return fail(w, err)
	}
	if taken {
		fmt.Fprintf(w, "Error: customer code %q is already in use.\n", code)
		return 1
	}

	created, err := c.client.Customers.Create(ctx, secuone.Customer{
		Code:            code,
		Name:            customerName,
		IntegrationType: strings.ToUpper(customerIntegr),
		RSPercent:       customerRS,
		CPIValue:        customerCPI,
		Note:            customerNote,
	})
	if err != nil {
		return fail(w, err)
	}
	if IsJSONOutput() {
		printJSON(w, created)
		return 0
	}
	fmt.Fprintf(w, "Created customer %s (%s).\n", created.Code, created.Name)
	return 0
}

func runCustomersUpdate(ctx context.Context, w io.Writer, code string, cmd *cobra.Command) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	// Only send what the operator asked to change; the backend PATCHes.
	patch := map[string]any{}
	if cmd.Flags().Changed("name") {
		patch["name"] = customerSetName
	}
	if cmd.Flags().Changed("note") {
		patch["note"] = customerSetNote
	}
	if cmd.Flags().Changed("rs-percent") {
		patch["rsPercent"] = customerSetRS
	}
	if cmd.Flags().Changed("cpi-value") {
		patch["cpiValue"] = customerSetCPI
	}
	if len(patch) == 0 {
		fmt.Fprintln(w, "Error: nothing to update (set --name, --note, --rs-percent or --cpi-value).")
		return 2
	}

	updated, err := c.client.Customers.Update(ctx, code, patch)
	if err != nil {
		return fail(w, err)
	}
	if IsJSONOutput() {
		printJSON(w, updated)
		return 0
	}
	fmt.Fprintf(w, "Updated customer %s.\n", updated.Code)
	return 0
}

func runCustomersDelete(ctx context.Context, w io.Writer, code string) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	if !customerForceDel {
		fmt.Fprintf(w, "Refusing to delete %s without --yes.\n", code)
		return 2
	}
	if err := c.client.Customers.Remove(ctx, code); err != nil {
		return fail(w, err)
	}
	fmt.Fprintf(w, "Deleted customer %s.\n", code)
	return 0
}

func runCustomersStats(ctx context.Context, w io.Writer, code string) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	stats, err := c.client.Customers.Stats(ctx, code, customerFrom, customerTo)
	if err != nil {
		return fail(w, err)
	}
	if IsJSONOutput() {
		printJSON(w, stats)
		return 0
	}
	fmt.Fprintf(w, "Customer:  %s (%s)\n", stats.Code, stats.Name)
	fmt.Fprintf(w, "Downloads: %d\n", stats.TotalDownloads)
	fmt.Fprintf(w, "Deletes:   %d\n", stats.TotalDeletes)
	fmt.Fprintf(w, "Amount:    %.2f\n\n", stats.TotalAmountDue)
	if len(stats.Monthly) > 0 {
		fmt.Fprintf(w, "%-8s %12s %10s %14s %s\n", "MONTH", "DOWNLOADS", "DELETES", "AMOUNT", "CCY")
		for _, m := range stats.Monthly {
			fmt.Fprintf(w, "%-8s %12d %10d %14.2f %s\n", m.Month, m.Downloads, m.Deletes, m.AmountDue, m.Currency)
		}
	}
	return 0
}

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v any) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(data))
}

// truncate shortens s to max runes with an ellipsis
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}
