package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/pixengine/internal/assessment"
	"github.com/abhisek/pixengine/internal/selector"
	"github.com/abhisek/pixengine/internal/session"
	"github.com/abhisek/pixengine/internal/store"
)

var assessmentCmd = &cobra.Command{
	Use:     "assessment",
	Aliases: []string{"a"},
	Short:   "Run an assessment step by step",
}

var assessmentStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a new assessment and print its ID",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		a, err := startAssessment(cmd, e)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), a.ID)
		return nil
	},
}

var assessmentNextCmd = &cobra.Command{
	Use:   "next <assessment-id>",
	Short: "Print the next challenge to ask",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		svc, err := e.serviceFor(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		step, err := svc.Next(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if step.Ended {
			fmt.Fprintf(out, "assessment ended after %d answers\n", step.Answered)
			return nil
		}
		c := step.Challenge
		fmt.Fprintf(out, "%s  skills=%s  level=%.3f", c.ID, strings.Join(skillNames(*c), ","), step.EstimatedLevel)
		if c.IsTimed() {
			fmt.Fprintf(out, "  timer=%ds", c.Timer)
		}
		fmt.Fprintln(out)
		return nil
	},
}

var assessmentAnswerCmd = &cobra.Command{
	Use:   "answer <assessment-id> <challenge-id> <ok|ko|partially|skipped>",
	Short: "Record the result of a challenge",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := assessment.ParseResult(args[2])
		if err != nil {
			return err
		}

		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		svc, err := e.serviceFor(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		kes, err := svc.Answer(cmd.Context(), args[0], args[1], result)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, ke := range kes {
			fmt.Fprintf(out, "%-12s  %-11s  %s\n", ke.SkillID, ke.Status, ke.Source)
		}
		return nil
	},
}

var assessmentShowCmd = &cobra.Command{
	Use:   "show <assessment-id>",
	Short: "Show the answers and knowledge of an assessment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		svc, err := e.serviceFor(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		sum, err := svc.Show(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(sum)
		}
		printSummary(cmd.OutOrStdout(), sum)
		return nil
	},
}

// startAssessment starts an assessment from the start flags.
func startAssessment(cmd *cobra.Command, e *env) (*store.Assessment, error) {
	bankName, _ := cmd.Flags().GetString("bank")
	user, _ := cmd.Flags().GetString("user")
	profile, _ := cmd.Flags().GetString("profile")
	skills, _ := cmd.Flags().GetStringSlice("skills")
	method, _ := cmd.Flags().GetString("method")

	sc := e.cfg.Strategy()
	if method != "" {
		m, err := selector.ParseMethod(method)
		if err != nil {
			return nil, err
		}
		sc.Method = m
	}
	svc, err := e.serviceWith(sc)
	if err != nil {
		return nil, err
	}

	return svc.Start(cmd.Context(), session.StartInput{
		UserID:          user,
		Bank:            bankName,
		TargetProfileID: profile,
		SkillIDs:        skills,
	})
}

func addStartFlags(cmd *cobra.Command) {
	cmd.Flags().String("bank", "default", "Name of the imported bank")
	cmd.Flags().String("user", "", "User ID")
	cmd.Flags().String("profile", "", "Target profile ID (default: every skill of the bank)")
	cmd.Flags().StringSlice("skills", nil, "Explicit target skill IDs (overrides --profile)")
	cmd.Flags().String("method", "", "Selection method: flash or smart-random (overrides config)")
}

func printSummary(out io.Writer, sum *session.Summary) {
	a := sum.Assessment
	fmt.Fprintf(out, "Assessment %s (%s, %s)\n", a.ID, a.Method, a.State)
	fmt.Fprintf(out, "Answers: %d, correct: %d (%.0f%%)\n", sum.TotalQuestions, sum.TotalCorrect, sum.Accuracy*100)
	if sum.Duration > 0 {
		fmt.Fprintf(out, "Duration: %s\n", sum.Duration.Round(time.Second))
	}

	fmt.Fprintln(out)
	for i, ans := range sum.Answers {
		fmt.Fprintf(out, "%3d. %-20s %s\n", i+1, ans.ChallengeID, ans.Result)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%-12s  %-12s  %-11s  %s\n", "Skill", "Name", "Status", "Source")
	fmt.Fprintln(out, strings.Repeat("─", 52))
	for _, r := range sum.SkillResults {
		status := string(r.Status)
		if status == "" {
			status = "-"
		}
		fmt.Fprintf(out, "%-12s  %-12s  %-11s  %s\n", r.SkillID, r.SkillName, status, r.Source)
	}
}

func skillNames(c assessment.Challenge) []string {
	names := make([]string, len(c.Skills))
	for i, s := range c.Skills {
		names[i] = s.Name
	}
	return names
}

func init() {
	addStartFlags(assessmentStartCmd)
	assessmentShowCmd.Flags().Bool("json", false, "Print the summary as JSON")

	assessmentCmd.AddCommand(assessmentStartCmd)
	assessmentCmd.AddCommand(assessmentNextCmd)
	assessmentCmd.AddCommand(assessmentAnswerCmd)
	assessmentCmd.AddCommand(assessmentShowCmd)
}
