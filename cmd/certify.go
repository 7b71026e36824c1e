package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/pixengine/internal/certification"
)

// positioningFile lists the competences a certification tests, with the
// level and score reached before the test.
type positioningFile struct {
	Competences []struct {
		ID       string `yaml:"id"`
		Index    string `yaml:"index"`
		Name     string `yaml:"name"`
		AreaCode string `yaml:"area_code"`
		Level    int    `yaml:"level"`
		PixScore int    `yaml:"pix_score"`
	} `yaml:"competences"`
}

func loadPositioning(path string) ([]certification.TestedCompetence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read competences: %w", err)
	}
	var f positioningFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse competences %s: %w", path, err)
	}
	if len(f.Competences) == 0 {
		return nil, fmt.Errorf("%s: no competences listed", path)
	}

	out := make([]certification.TestedCompetence, len(f.Competences))
	for i, c := range f.Competences {
		out[i] = certification.TestedCompetence{
			ID:             c.ID,
			Index:          c.Index,
			Name:           c.Name,
			AreaCode:       c.AreaCode,
			EstimatedLevel: c.Level,
			PixScore:       c.PixScore,
		}
	}
	return out, nil
}

var certifyCmd = &cobra.Command{
	Use:   "certify <assessment-id>",
	Short: "Score an assessment as a certification test",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("competences")
		strict, _ := cmd.Flags().GetBool("strict")
		asJSON, _ := cmd.Flags().GetBool("json")

		competences, err := loadPositioning(path)
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
		res, err := svc.Certify(cmd.Context(), args[0], competences, certification.Options{Strict: strict})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}

		fmt.Fprintf(out, "%-8s  %-32s  %5s  %5s\n", "Index", "Competence", "Level", "Score")
		fmt.Fprintln(out, strings.Repeat("─", 56))
		for _, m := range res.CompetencesWithMark {
			fmt.Fprintf(out, "%-8s  %-32s  %5d  %5d\n", m.Index, m.Name, m.Level, m.Score)
		}
		fmt.Fprintf(out, "\nTotal: %d pix, %.1f%% correct answers, %s\n",
			res.TotalScore, res.PercentageCorrectAnswers, certification.StatusOf(res))
		return nil
	},
}

func init() {
	certifyCmd.Flags().String("competences", "", "YAML file with the positioned competences (required)")
	certifyCmd.Flags().Bool("strict", false, "Fail when a competence has unanswered challenges")
	certifyCmd.Flags().Bool("json", false, "Print the result as JSON")
	_ = certifyCmd.MarkFlagRequired("competences")
}
