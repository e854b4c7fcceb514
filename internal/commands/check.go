package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/heiberg/ofxify/internal/ofx"
)

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Read an OFX statement back and summarize it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening statement: %w", err)
			}
			defer f.Close()

			s, err := ofx.Verify(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "bank:         %s\n", s.BankID)
			fmt.Fprintf(out, "account:      %s\n", s.AccountID)
			fmt.Fprintf(out, "currency:     %s\n", s.Currency)
			fmt.Fprintf(out, "transactions: %d\n", s.Transactions)
			fmt.Fprintf(out, "period:       %s - %s\n", s.Start.Format("2006-01-02"), s.End.Format("2006-01-02"))
			return nil
		},
	}
}
