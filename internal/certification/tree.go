package certification

import "github.com/abhisek/pixengine/internal/skillgraph"

// CompetenceResult is a competence of the result tree.
type CompetenceResult struct {
	ID    string
	Index string
	Name  string
	Level int
	Score int
}

// AreaResult groups the competence results of an area.
type AreaResult struct {
	Code        string
	Title       string
	Competences []CompetenceResult
}

// CompetenceTree is the certification result laid out along the referential.
type CompetenceTree struct {
	Areas []AreaResult
}

// BuildCompetenceTree lays the marks out along the referential. Competences
// without a mark are reported as not passed.
func BuildCompetenceTree(areas []skillgraph.Area, marks []CompetenceMark) CompetenceTree {
	byID := make(map[string]CompetenceMark, len(marks))
	for _, m := range marks {
		byID[m.CompetenceID] = m
	}

	tree := CompetenceTree{Areas: make([]AreaResult, 0, len(areas))}
	for _, a := range areas {
		ar := AreaResult{Code: a.Code, Title: a.Title}
		for _, c := range a.Competences {
			cr := CompetenceResult{ID: c.ID, Index: c.Index, Name: c.Name, Level: UncertifiedLevel}
			if m, ok := byID[c.ID]; ok {
				cr.Level = m.Level
				cr.Score = m.Score
			}
			ar.Competences = append(ar.Competences, cr)
		}
		tree.Areas = append(tree.Areas, ar)
	}
	return tree
}
