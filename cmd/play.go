package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/pixengine/internal/play"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Run an assessment interactively in the terminal",
	Long: `Start an assessment (or resume one with --resume) and record each answer
with a key press. The engine chooses every challenge.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		resume, _ := cmd.Flags().GetString("resume")

		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		id := resume
		if id == "" {
			a, err := startAssessment(cmd, e)
			if err != nil {
				return err
			}
			id = a.ID
		}

		a, err := e.store.AssessmentRepo().Get(cmd.Context(), id)
		if err != nil {
			return err
		}
		svc, err := e.serviceFor(cmd.Context(), id)
		if err != nil {
			return err
		}

		if err := play.Run(cmd.Context(), svc, id, a.Method); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "assessment", id)
		return nil
	},
}

func init() {
	addStartFlags(playCmd)
	playCmd.Flags().String("resume", "", "ID of an assessment to resume")
}
