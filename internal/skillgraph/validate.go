package skillgraph

import (
	"fmt"
	"strings"
)

// validateReferential performs all structural checks on the given referential.
// Returns a combined error describing all problems found, or nil if valid.
func validateReferential(areas []Area, skills []Skill) error {
	var errs []string

	competenceSet := make(map[string]bool)
	areaSet := make(map[string]bool, len(areas))
	for _, a := range areas {
		if areaSet[a.Code] {
			errs = append(errs, fmt.Sprintf("duplicate area code: %q", a.Code))
		}
		areaSet[a.Code] = true
		for _, c := range a.Competences {
			if competenceSet[c.ID] {
				errs = append(errs, fmt.Sprintf("duplicate competence ID: %q", c.ID))
			}
			competenceSet[c.ID] = true
		}
	}

	errs = append(errs, checkSkills(skills)...)

	// Check for dangling competences
	for _, s := range skills {
		if !competenceSet[s.CompetenceID] {
			errs = append(errs, fmt.Sprintf("skill %q references nonexistent competence %q", s.ID, s.CompetenceID))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("referential validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// checkSkills validates skills independently of the competence tree.
func checkSkills(skills []Skill) []string {
	var errs []string

	idSet := make(map[string]bool, len(skills))
	levelSet := make(map[string]string, len(skills))
	tubeCompetence := make(map[string]string)

	for _, s := range skills {
		if s.ID == "" {
			errs = append(errs, fmt.Sprintf("skill %q has an empty ID", s.Name))
			continue
		}
		if idSet[s.ID] {
			errs = append(errs, fmt.Sprintf("duplicate skill ID: %q", s.ID))
		}
		idSet[s.ID] = true

		if s.Difficulty < MinDifficulty || s.Difficulty > MaxDifficulty {
			errs = append(errs, fmt.Sprintf("skill %q: difficulty must be in [%d, %d], got %d",
				s.ID, MinDifficulty, MaxDifficulty, s.Difficulty))
		}

		key := fmt.Sprintf("%s/%d", s.TubeName, s.Difficulty)
		if other, ok := levelSet[key]; ok && other != s.ID {
			errs = append(errs, fmt.Sprintf("skills %q and %q share tube %q level %d",
				other, s.ID, s.TubeName, s.Difficulty))
		}
		levelSet[key] = s.ID

		if c, ok := tubeCompetence[s.TubeName]; ok && c != s.CompetenceID {
			errs = append(errs, fmt.Sprintf("tube %q spans competences %q and %q", s.TubeName, c, s.CompetenceID))
		}
		tubeCompetence[s.TubeName] = s.CompetenceID
	}
	return errs
}
