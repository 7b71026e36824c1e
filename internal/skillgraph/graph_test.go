package skillgraph

import (
	"testing"
)

func mustSkill(t *testing.T, id, name, competenceID string) Skill {
	t.Helper()
	s, err := NewSkill(id, name, competenceID)
	if err != nil {
		t.Fatalf("NewSkill(%q): %v", name, err)
	}
	return s
}

func testReferential(t *testing.T) ([]Area, []Skill) {
	t.Helper()
	areas := []Area{
		{Code: "1", Title: "Information et données", Competences: []Competence{
			{ID: "rec1", Index: "1.1", Name: "Mener une recherche"},
			{ID: "rec2", Index: "1.2", Name: "Gérer des données"},
		}},
		{Code: "2", Title: "Communication", Competences: []Competence{
			{ID: "rec3", Index: "2.1", Name: "Interagir"},
		}},
	}
	skills := []Skill{
		mustSkill(t, "s-web3", "@web3", "rec1"),
		mustSkill(t, "s-web1", "@web1", "rec1"),
		mustSkill(t, "s-url2", "@url2", "rec1"),
		mustSkill(t, "s-web2", "@web2", "rec1"),
		mustSkill(t, "s-file4", "@file4", "rec2"),
		mustSkill(t, "s-mail1", "@mail1", "rec3"),
	}
	return areas, skills
}

func TestParseSkillName(t *testing.T) {
	tests := []struct {
		name      string
		wantTube  string
		wantLevel int
		wantErr   bool
	}{
		{"@web3", "@web", 3, false},
		{"@recherche8", "@recherche", 8, false},
		{"@tri2Col1", "@tri2Col", 1, false},
		{"web3", "", 0, true},
		{"@web", "", 0, true},
		{"@3", "", 0, true},
	}
	for _, tt := range tests {
		tube, level, err := ParseSkillName(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseSkillName(%q): expected error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSkillName(%q): unexpected error: %v", tt.name, err)
			continue
		}
		if tube != tt.wantTube || level != tt.wantLevel {
			t.Errorf("ParseSkillName(%q) = (%q, %d), want (%q, %d)", tt.name, tube, level, tt.wantTube, tt.wantLevel)
		}
	}
}

func TestBuild_Skill(t *testing.T) {
	areas, skills := testReferential(t)
	g, err := Build(areas, skills)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s, err := g.Skill("s-web3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.TubeName != "@web" || s.Difficulty != 3 {
		t.Errorf("got tube %q level %d, want @web level 3", s.TubeName, s.Difficulty)
	}

	if _, err := g.Skill("nonexistent"); err == nil {
		t.Fatal("expected error for nonexistent skill, got nil")
	}
}

func TestTubes_OrderedByDifficulty(t *testing.T) {
	areas, skills := testReferential(t)
	g, err := Build(areas, skills)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	web, ok := g.Tube("@web")
	if !ok {
		t.Fatal("expected @web tube")
	}
	if len(web.Skills) != 3 {
		t.Fatalf("got %d skills, want 3", len(web.Skills))
	}
	for i := 1; i < len(web.Skills); i++ {
		if web.Skills[i].Difficulty < web.Skills[i-1].Difficulty {
			t.Errorf("skill %q (level %d) appears after %q (level %d)",
				web.Skills[i].ID, web.Skills[i].Difficulty, web.Skills[i-1].ID, web.Skills[i-1].Difficulty)
		}
	}
	if web.Hardest().ID != "s-web3" {
		t.Errorf("hardest = %q, want s-web3", web.Hardest().ID)
	}

	tubes := g.Tubes()
	var names []string
	for _, tb := range tubes {
		names = append(names, tb.Name)
	}
	want := []string{"@web", "@url", "@file", "@mail"}
	if len(names) != len(want) {
		t.Fatalf("tubes = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("tube[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestTube_EasierAndHarder(t *testing.T) {
	tube := GroupByTube([]Skill{
		{ID: "a1", TubeName: "@a", Difficulty: 1},
		{ID: "a2", TubeName: "@a", Difficulty: 2},
		{ID: "a4", TubeName: "@a", Difficulty: 4},
	})[0]

	ref := Skill{ID: "a2", TubeName: "@a", Difficulty: 2}
	if got := len(tube.EasierThan(ref)); got != 2 {
		t.Errorf("EasierThan: got %d skills, want 2", got)
	}
	if got := len(tube.HarderThan(ref)); got != 2 {
		t.Errorf("HarderThan: got %d skills, want 2", got)
	}
	if tube.HasSkillUpTo(0) {
		t.Error("HasSkillUpTo(0): tube starts at level 1")
	}
	if !tube.HasSkillUpTo(1) {
		t.Error("HasSkillUpTo(1): want the level 1 skill")
	}
	if !tube.HasSkillUpTo(3) {
		t.Error("HasSkillUpTo(3): want the level 1 and 2 skills")
	}
}

func TestByCompetence(t *testing.T) {
	areas, skills := testReferential(t)
	g, err := Build(areas, skills)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		competence string
		want       int
	}{
		{"rec1", 4},
		{"rec2", 1},
		{"rec3", 1},
		{"unknown", 0},
	}
	for _, tt := range tests {
		if got := len(g.ByCompetence(tt.competence)); got != tt.want {
			t.Errorf("ByCompetence(%q): got %d skills, want %d", tt.competence, got, tt.want)
		}
	}

	c, ok := g.Competence("rec3")
	if !ok {
		t.Fatal("expected competence rec3")
	}
	if c.AreaCode != "2" {
		t.Errorf("area code = %q, want 2", c.AreaCode)
	}
}

func TestTargetProfile(t *testing.T) {
	areas, skills := testReferential(t)
	g, err := Build(areas, skills)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all, err := g.TargetProfile("tp-all", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all.Skills) != len(skills) {
		t.Errorf("got %d skills, want %d", len(all.Skills), len(skills))
	}

	tp, err := g.TargetProfile("tp", []string{"s-web1", "s-mail1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids := tp.SkillIDs()
	if len(ids) != 2 || ids[0] != "s-web1" || ids[1] != "s-mail1" {
		t.Errorf("SkillIDs() = %v", ids)
	}

	if _, err := g.TargetProfile("tp", []string{"missing"}); err == nil {
		t.Fatal("expected error for unknown skill in profile")
	}
}
