package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/pixengine/internal/bank"
	"github.com/abhisek/pixengine/internal/skillgraph"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Validate, import and browse item banks",
}

var bankValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a bank file (YAML or JSON) without importing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := bank.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (version %s, %d skills, %d challenges, %d target profiles)\n",
			args[0], b.Version(), len(b.Graph().AllSkills()), len(b.Challenges()), len(b.TargetProfiles()))
		return nil
	},
}

var bankImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a bank file into the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")

		b, err := bank.Load(args[0])
		if err != nil {
			return err
		}

		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.store.BankRepo().SaveBank(cmd.Context(), name, b); err != nil {
			return err
		}
		e.log.Info("bank imported", "name", name, "version", b.Version(), "challenges", len(b.Challenges()))
		fmt.Fprintf(cmd.OutOrStdout(), "imported %s as %q\n", args[0], name)
		return nil
	},
}

var bankListCmd = &cobra.Command{
	Use:   "list",
	Short: "List imported banks",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		banks, err := e.store.BankRepo().ListBanks(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-20s  %-10s  %s\n", "Name", "Version", "Imported")
		fmt.Fprintln(out, strings.Repeat("─", 56))
		for _, bi := range banks {
			fmt.Fprintf(out, "%-20s  %-10s  %s\n", bi.Name, bi.Version, bi.ImportedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var bankTubesCmd = &cobra.Command{
	Use:   "tubes",
	Short: "Show the tubes of an imported bank (optionally of one target profile)",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		profile, _ := cmd.Flags().GetString("profile")

		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		b, err := e.store.BankRepo().LoadBank(cmd.Context(), name)
		if err != nil {
			return err
		}
		tp, err := b.TargetProfile(profile)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		tubes := skillgraph.GroupByTube(tp.Skills)
		fmt.Fprintf(out, "%-24s  %-10s  %s\n", "Tube", "Competence", "Levels")
		fmt.Fprintln(out, strings.Repeat("─", 60))
		for _, t := range tubes {
			levels := make([]string, len(t.Skills))
			for i, s := range t.Skills {
				levels[i] = fmt.Sprint(s.Difficulty)
			}
			fmt.Fprintf(out, "%-24s  %-10s  %s\n", t.Name, t.CompetenceID, strings.Join(levels, " "))
		}
		fmt.Fprintf(out, "\n%d tubes, %d skills\n", len(tubes), len(tp.Skills))
		return nil
	},
}

func init() {
	bankImportCmd.Flags().String("name", "default", "Name to store the bank under")
	bankTubesCmd.Flags().String("name", "default", "Name of the imported bank")
	bankTubesCmd.Flags().String("profile", "", "Target profile ID (default: every skill)")

	bankCmd.AddCommand(bankValidateCmd)
	bankCmd.AddCommand(bankImportCmd)
	bankCmd.AddCommand(bankListCmd)
	bankCmd.AddCommand(bankTubesCmd)
}
