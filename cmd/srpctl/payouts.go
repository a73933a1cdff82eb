package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"alliance-srp/internal/adapters/export"
	"alliance-srp/internal/adapters/http/routes"

	"github.com/spf13/cobra"
)

var payoutsOutput string

var payoutsCmd = &cobra.Command{
	Use:   "payouts",
	Short: "Payment queue operations",
}

var payoutsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the payment queue of approved claims to an xlsx workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(c *routes.Container) error {
			queue, err := c.Reports.PaymentQueue(context.Background())
			if err != nil {
				return err
			}

			path := payoutsOutput
			if path == "" {
				path = export.Filename(time.Now().UTC())
			}
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			if err := export.WritePaymentQueue(f, queue); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d claims for %d payees, total %s ISK -> %s\n",
				queue.ClaimCount, len(queue.Payees), queue.GrandTotal.StringFixed(2), path)
			return nil
		})
	},
}

func init() {
	payoutsExportCmd.Flags().StringVarP(&payoutsOutput, "output", "o", "", "Output file (default srp-payment-queue-<date>.xlsx)")
	payoutsCmd.AddCommand(payoutsExportCmd)
}
