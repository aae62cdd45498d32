package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"lylebot/internal/contacts"
)

var (
	contactFirst   string
	contactLast    string
	contactEmail   string
	contactPage    int
	contactPurpose string
)

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Manage the contact list",
}

var contactsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List contacts, one page at a time",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := contactClient()
		list, err := client.List(cmd.Context())
		if err != nil {
			return err
		}

		pager := contacts.NewPager(cfg.UI.PageSize)
		pager.Page = contactPage
		pager = pager.Clamp(len(list))

		fmt.Printf("%-4s %-16s %-16s %s\n", "ID", "FIRST", "LAST", "EMAIL")
		for _, c := range pager.Slice(list) {
			fmt.Printf("%-4d %-16s %-16s %s\n", c.ID, c.FirstName, c.LastName, c.Email)
		}
		fmt.Printf("\nPage %d of %d (%d contacts)\n",
			pager.Page, contacts.TotalPages(len(list), pager.PerPage), len(list))
		return nil
	},
}

var contactsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a contact",
	Example: `  lylebot contacts add --first Jane --last Doe --email jane@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := contactClient()
		fields := contacts.Fields{FirstName: contactFirst, LastName: contactLast, Email: contactEmail}
		if err := client.Save(cmd.Context(), 0, fields); err != nil {
			return err
		}
		fmt.Println("Contact created.")
		return nil
	},
}

var contactsEditCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Update a contact by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil || id < 1 {
			return fmt.Errorf("invalid contact id %q", args[0])
		}

		client := contactClient()
		fields := contacts.Fields{FirstName: contactFirst, LastName: contactLast, Email: contactEmail}
		if err := client.Save(cmd.Context(), id, fields); err != nil {
			return err
		}
		fmt.Printf("Contact %d updated.\n", id)
		return nil
	},
}

var contactsRmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Delete a contact by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil || id < 1 {
			return fmt.Errorf("invalid contact id %q", args[0])
		}

		client := contactClient()
		if err := client.Delete(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("Contact %d deleted.\n", id)
		return nil
	},
}

var contactsEmailCmd = &cobra.Command{
	Use:   "email [recipient query]",
	Short: "Draft an email for a contact",
	Long: `Asks the backend to resolve the recipient from a free-form query and
draft an email about the given purpose.`,
	Example: `  lylebot contacts email "jane from acme" --purpose "quarterly review invite"`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := args[0]
		client := contactClient()

		draft, err := client.GenerateEmail(cmd.Context(), query, contactPurpose)
		if err != nil {
			return err
		}

		fmt.Printf("To: %s %s <%s>\n\n%s\n",
			draft.Contact.FirstName, draft.Contact.LastName, draft.Contact.Email, draft.Content)
		return nil
	},
}

var contactsLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the contact service activity log",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := contactClient()
		lines, err := client.Logs(cmd.Context())
		if err != nil {
			return err
		}
		for _, line := range lines {
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	contactsListCmd.Flags().IntVarP(&contactPage, "page", "p", 1, "page number")

	for _, c := range []*cobra.Command{contactsAddCmd, contactsEditCmd} {
		c.Flags().StringVar(&contactFirst, "first", "", "first name")
		c.Flags().StringVar(&contactLast, "last", "", "last name")
		c.Flags().StringVar(&contactEmail, "email", "", "email address")
	}

	contactsEmailCmd.Flags().StringVar(&contactPurpose, "purpose", "", "what the email is about")
	_ = contactsEmailCmd.MarkFlagRequired("purpose")

	contactsCmd.AddCommand(contactsListCmd)
	contactsCmd.AddCommand(contactsAddCmd)
	contactsCmd.AddCommand(contactsEditCmd)
	contactsCmd.AddCommand(contactsRmCmd)
	contactsCmd.AddCommand(contactsEmailCmd)
	contactsCmd.AddCommand(contactsLogsCmd)
}
