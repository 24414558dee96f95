// ABOUTME: Customer contact commands
// ABOUTME: Upsert-style writes, per-customer listing and self-service profile

package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/polarisoffice/secuone-console/internal/secuone"
	"github.com/spf13/cobra"
)

var contactsCmd = &cobra.Command{
	Use:     "contacts",
	Aliases: []string{"contact"},
	Short:   "Manage customer contacts",
}

var (
	contactCustomer string
	contactName     string
	contactEmail    string
	contactPhone    string
	contactNote     string
	contactInvite   bool
	contactYes      bool
)

var contactsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List contacts",
	Run: func(cmd *cobra.Command, args []string) {
		runWrapped(runContactsList)
	},
}

var contactsUpsertCmd = &cobra.Command{
	Use:   "upsert",
	Short: "Create or update a contact",
	Run: func(cmd *cobra.Command, args []string) {
		runWrapped(runContactsUpsert)
	},
}

var contactsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a contact",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWrapped(func(ctx context.Context, w io.Writer) int {
			return runContactsDelete(ctx, w, args[0])
		})
	},
}

var contactsMeCmd = &cobra.Command{
	Use:   "me",
	Short: "Show or update your own contact record (customer login)",
	Run: func(cmd *cobra.Command, args []string) {
		runWrapped(func(ctx context.Context, w io.Writer) int {
			return runContactsMe(ctx, w, cmd)
		})
	},
}

func init() {
	rootCmd.AddCommand(contactsCmd)
	contactsCmd.AddCommand(contactsListCmd, contactsUpsertCmd, contactsDeleteCmd, contactsMeCmd)

	contactsListCmd.Flags().StringVar(&contactCustomer, "customer", "", "Restrict to one customer code")

	contactsUpsertCmd.Flags().StringVar(&contactCustomer, "customer", "", "Customer code (required)")
	contactsUpsertCmd.Flags().StringVar(&contactName, "name", "", "Contact name (required)")
	contactsUpsertCmd.Flags().StringVar(&contactEmail, "email", "", "Email (required for invites)")
	contactsUpsertCmd.Flags().StringVar(&contactPhone, "phone", "", "Phone")
	contactsUpsertCmd.Flags().StringVar(&contactNote, "note", "", "Note")
	contactsUpsertCmd.Flags().BoolVar(&contactInvite, "invite", false, "Send an invite mail")
	contactsUpsertCmd.MarkFlagRequired("customer")
	contactsUpsertCmd.MarkFlagRequired("name")

	contactsDeleteCmd.Flags().BoolVar(&contactYes, "yes", false, "Skip confirmation")

	contactsMeCmd.Flags().StringVar(&contactName, "name", "", "New name")
	contactsMeCmd.Flags().StringVar(&contactPhone, "phone", "", "New phone")
	contactsMeCmd.Flags().StringVar(&contactEmail, "email", "", "New email")
}

func runContactsList(ctx context.Context, w io.Writer) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	contacts, err := c.client.Contacts.List(ctx, contactCustomer)
	if err != nil {
		return fail(w, err)
	}
	if IsJSONOutput() {
		printJSON(w, contacts)
		return 0
	}
	if len(contacts) == 0 {
		fmt.Fprintln(w, "No contacts.")
		return 0
	}
	fmt.Fprintf(w, "%-8s %-14s %-20s %-28s %s\n", "ID", "CUSTOMER", "NAME", "EMAIL", "PHONE")
	for _, ct := range contacts {
		fmt.Fprintf(w, "%-8d %-14s %-20s %-28s %s\n", ct.ID, ct.CustomerCode, truncate(ct.Name, 20), ct.Email, ct.Phone)
	}
	return 0
}

func runContactsUpsert(ctx context.Context, w io.Writer) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	if contactInvite && contactEmail == "" {
		fmt.Fprintln(w, "Error: --invite needs --email.")
		return 2
	}
	contact, err := c.client.Contacts.Upsert(ctx, secuone.ContactUpsert{
		CustomerCode: contactCustomer,
		Name:         contactName,
		Email:        contactEmail,
		Phone:        contactPhone,
		Note:         contactNote,
		SendInvite:   contactInvite,
	})
	if err != nil {
		return fail(w, err)
	}
	if IsJSONOutput() {
		printJSON(w, contact)
		return 0
	}
	fmt.Fprintf(w, "Saved contact %s for customer %s.\n", contact.Name, contact.CustomerCode)
	if contactInvite {
		fmt.Fprintln(w, "Invite mail queued.")
	}
	return 0
}

func runContactsDelete(ctx context.Context, w io.Writer, rawID string) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	if !contactYes {
		fmt.Fprintf(w, "Refusing to delete %s without --yes.\n", rawID)
		return 2
	}
	id, err := parseID(rawID)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	if err := c.client.Contacts.Remove(ctx, id); err != nil {
		return fail(w, err)
	}
	fmt.Fprintf(w, "Deleted contact %s.\n", rawID)
	return 0
}

func runContactsMe(ctx context.Context, w io.Writer, cmd *cobra.Command) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	updating := cmd.Flags().Changed("name") || cmd.Flags().Changed("phone") || cmd.Flags().Changed("email")
	var contact *secuone.Contact
	if updating {
		contact, err = c.client.Contacts.UpdateMe(ctx, contactName, contactPhone, contactEmail)
	} else {
		contact, err = c.client.Contacts.Me(ctx)
	}
	if err != nil {
		return fail(w, err)
	}
	if IsJSONOutput() {
		printJSON(w, contact)
		return 0
	}
	fmt.Fprintf(w, "Customer: %s\n", contact.CustomerCode)
	fmt.Fprintf(w, "Name:     %s\n", contact.Name)
	fmt.Fprintf(w, "Email:    %s\n", contact.Email)
	fmt.Fprintf(w, "Phone:    %s\n", contact.Phone)
	return 0
}

// parseID parses a numeric record id argument
func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: must be numeric", raw)
	}
	return id, nil
}
