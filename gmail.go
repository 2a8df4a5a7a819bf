package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var gmailCmd = &cobra.Command{
	Use:   "gmail",
	Short: "Fetch CV attachments from Gmail and analyse the batch",
	Long: "Fetch attachments of messages whose subject matches --subject into the uploads " +
		"directory, analyse every CV and print the candidates ranked by best match.",
	RunE: runGmail,
}

var (
	gmailSubject string
	gmailFormat  string
	gmailOut     string
)

func init() {
	gmailCmd.Flags().StringVarP(&gmailSubject, "subject", "s", "", "Subject filter for Gmail messages")
	gmailCmd.Flags().StringVarP(&gmailFormat, "format", "f", "table", "Output format: table, json or xlsx")
	gmailCmd.Flags().StringVarP(&gmailOut, "out", "o", "", "Output file (required for xlsx)")
	_ = gmailCmd.MarkFlagRequired("subject")

	rootCmd.AddCommand(gmailCmd)
}

func runGmail(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	_, _, a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	a.SetProgressCallback(func(current, total int, message string) {
		fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", current, total, message)
	})

	batch, err := a.IngestFromGmail(ctx, gmailSubject)
	if err != nil {
		return err
	}
	return writeReports(cmd.OutOrStdout(), batch.Reports, gmailFormat, gmailOut)
}
