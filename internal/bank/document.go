package bank

// Document is the on-disk form of an item bank, in YAML or JSON.
type Document struct {
	Version        string             `json:"version"`
	Areas          []AreaDoc          `json:"areas"`
	Skills         []SkillDoc         `json:"skills"`
	Challenges     []ChallengeDoc     `json:"challenges"`
	TargetProfiles []TargetProfileDoc `json:"target_profiles,omitempty"`
}

type AreaDoc struct {
	Code        string          `json:"code"`
	Title       string          `json:"title"`
	Competences []CompetenceDoc `json:"competences"`
}

type CompetenceDoc struct {
	ID    string `json:"id"`
	Index string `json:"index"`
	Name  string `json:"name"`
}

type SkillDoc struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CompetenceID string `json:"competence_id"`
}

type ChallengeDoc struct {
	ID           string   `json:"id"`
	Skills       []string `json:"skills"`
	Status       string   `json:"status,omitempty"`
	Type         string   `json:"type,omitempty"`
	Timer        int      `json:"timer,omitempty"`
	Discriminant float64  `json:"discriminant"`
	Difficulty   float64  `json:"difficulty"`
}

type TargetProfileDoc struct {
	ID     string   `json:"id"`
	Skills []string `json:"skills,omitempty"`
}
