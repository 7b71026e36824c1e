package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate <assessment-id>",
	Short: "Print the IRT ability estimate of an assessment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		svc, err := e.service()
		if err != nil {
			return err
		}
		est, err := svc.Estimate(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "level=%.6f error_rate=%.6f\n", est.Level, est.ErrorRate)
		return nil
	},
}
