package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	outreachCompany string
	outreachJob     string
)

var outreachCmd = &cobra.Command{
	Use:   "outreach",
	Short: "Draft or send a grounded outreach email",
	Long: `The outreach email is generated from the uploaded document corpus for
a specific company and job description.`,
}

var outreachDraftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Generate the email and print it",
	Example: `  lylebot outreach draft --company Acme --job "Senior Go engineer, Platform team"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := documentClient()
		content, err := client.GenerateOutreach(cmd.Context(), outreachCompany, outreachJob)
		if err != nil {
			return err
		}
		fmt.Println(content)
		return nil
	},
}

var outreachSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Generate the email and send it server-side",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := documentClient()
		status, err := client.SendOutreach(cmd.Context(), outreachCompany, outreachJob)
		if err != nil {
			return err
		}
		fmt.Println(status.Message)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{outreachDraftCmd, outreachSendCmd} {
		c.Flags().StringVar(&outreachCompany, "company", "", "target company name")
		c.Flags().StringVar(&outreachJob, "job", "", "job description text")
		_ = c.MarkFlagRequired("company")
		_ = c.MarkFlagRequired("job")
	}

	outreachCmd.AddCommand(outreachDraftCmd)
	outreachCmd.AddCommand(outreachSendCmd)
}
