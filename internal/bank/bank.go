// Package bank loads and validates item banks: the referential of areas,
// competences and skills, the challenges testing them and the target
// profiles assessments are run against.
package bank

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/pixengine/internal/assessment"
	"github.com/abhisek/pixengine/internal/skillgraph"
)

// Format is the encoding of a bank document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

const (
	minVersion = "v1.0.0"
	schemaURL  = "schema://pixengine/bank.json"
)

//go:embed schema.json
var schemaJSON []byte

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// FormatFromPath guesses the format from a file extension. Anything but
// .json is read as YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// ValidationError lists every problem found in a bank document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("bank validation failed:\n  %s", strings.Join(e.Problems, "\n  "))
}

// Bank is a validated item bank.
type Bank struct {
	doc        Document
	graph      *skillgraph.Graph
	challenges []assessment.Challenge
	byID       map[string]assessment.Challenge
	profiles   []skillgraph.TargetProfile
}

// Load reads and parses the bank file at path.
func Load(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bank: %w", err)
	}
	b, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Parse decodes a bank document, validates it against the bank schema and
// checks its cross references.
func Parse(data []byte, format Format) (*Bank, error) {
	var raw any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported bank format %q", format)
	}

	// Round-trip through JSON so YAML and JSON documents validate alike.
	normalized, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("normalize document: %w", err)
	}
	var parsed any
	if err := json.Unmarshal(normalized, &parsed); err != nil {
		return nil, fmt.Errorf("normalize document: %w", err)
	}

	schema, err := bankSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(normalized, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return FromDocument(doc)
}

func bankSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		var def any
		if err := json.Unmarshal(schemaJSON, &def); err != nil {
			schemaErr = fmt.Errorf("parse bank schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, def); err != nil {
			schemaErr = fmt.Errorf("add bank schema: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// FromDocument builds a bank from an already decoded document.
func FromDocument(doc Document) (*Bank, error) {
	var problems []string

	problems = append(problems, checkVersion(doc.Version)...)

	areas := make([]skillgraph.Area, 0, len(doc.Areas))
	for _, a := range doc.Areas {
		area := skillgraph.Area{Code: a.Code, Title: a.Title}
		for _, c := range a.Competences {
			area.Competences = append(area.Competences, skillgraph.Competence{
				ID: c.ID, Index: c.Index, Name: c.Name, AreaCode: a.Code,
			})
		}
		areas = append(areas, area)
	}

	skills := make([]skillgraph.Skill, 0, len(doc.Skills))
	skillByID := make(map[string]skillgraph.Skill, len(doc.Skills))
	for _, sd := range doc.Skills {
		s, err := skillgraph.NewSkill(sd.ID, sd.Name, sd.CompetenceID)
		if err != nil {
			problems = append(problems, err.Error())
			continue
		}
		skills = append(skills, s)
		skillByID[s.ID] = s
	}

	graph, err := skillgraph.Build(areas, skills)
	if err != nil {
		problems = append(problems, err.Error())
	}

	challenges, cp := buildChallenges(doc.Challenges, skillByID)
	problems = append(problems, cp...)

	profiles, pp := buildProfiles(doc.TargetProfiles, skillByID)
	problems = append(problems, pp...)

	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	return &Bank{
		doc:        doc,
		graph:      graph,
		challenges: challenges,
		byID:       assessment.IndexChallenges(challenges),
		profiles:   profiles,
	}, nil
}

func checkVersion(v string) []string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	switch {
	case !semver.IsValid(v):
		return []string{fmt.Sprintf("version %q is not a semantic version", v)}
	case semver.Compare(v, minVersion) < 0 || semver.Major(v) != semver.Major(minVersion):
		return []string{fmt.Sprintf("unsupported bank version %s (want %s.x)", v, semver.Major(minVersion))}
	}
	return nil
}

func buildChallenges(docs []ChallengeDoc, skills map[string]skillgraph.Skill) ([]assessment.Challenge, []string) {
	var problems []string
	seen := make(map[string]bool, len(docs))
	out := make([]assessment.Challenge, 0, len(docs))

	for _, cd := range docs {
		if seen[cd.ID] {
			problems = append(problems, fmt.Sprintf("duplicate challenge ID: %q", cd.ID))
			continue
		}
		seen[cd.ID] = true

		c := assessment.Challenge{
			ID:           cd.ID,
			Type:         cd.Type,
			Status:       assessment.ChallengeStatus(cd.Status),
			Timer:        cd.Timer,
			Discriminant: cd.Discriminant,
			Difficulty:   cd.Difficulty,
		}
		if c.Status == "" {
			c.Status = assessment.StatusActive
		}
		if c.Type == "" {
			c.Type = assessment.TypeQCM
		}
		for _, sid := range cd.Skills {
			s, ok := skills[sid]
			if !ok {
				problems = append(problems, fmt.Sprintf("challenge %q references unknown skill %q", cd.ID, sid))
				continue
			}
			c.Skills = append(c.Skills, s)
		}
		out = append(out, c)
	}
	return out, problems
}

func buildProfiles(docs []TargetProfileDoc, skills map[string]skillgraph.Skill) ([]skillgraph.TargetProfile, []string) {
	var problems []string
	seen := make(map[string]bool, len(docs))
	var out []skillgraph.TargetProfile

	for _, pd := range docs {
		if seen[pd.ID] {
			problems = append(problems, fmt.Sprintf("duplicate target profile ID: %q", pd.ID))
			continue
		}
		seen[pd.ID] = true

		tp := skillgraph.TargetProfile{ID: pd.ID}
		for _, sid := range pd.Skills {
			sk, ok := skills[sid]
			if !ok {
				problems = append(problems, fmt.Sprintf("target profile %q: skill not found: %q", pd.ID, sid))
				continue
			}
			tp.Skills = append(tp.Skills, sk)
		}
		out = append(out, tp)
	}
	return out, problems
}

// Version returns the document version.
func (b *Bank) Version() string {
	return b.doc.Version
}

// Document returns the document the bank was built from.
func (b *Bank) Document() Document {
	return b.doc
}

// Graph returns the referential.
func (b *Bank) Graph() *skillgraph.Graph {
	return b.graph
}

// Challenges returns every challenge, archived ones included.
func (b *Bank) Challenges() []assessment.Challenge {
	return b.challenges
}

// Challenge returns a challenge by ID.
func (b *Bank) Challenge(id string) (assessment.Challenge, bool) {
	c, ok := b.byID[id]
	return c, ok
}

// TargetProfiles returns the declared target profiles.
func (b *Bank) TargetProfiles() []skillgraph.TargetProfile {
	return b.profiles
}

// TargetProfile returns a declared profile. An empty id selects every skill
// of the bank.
func (b *Bank) TargetProfile(id string) (skillgraph.TargetProfile, error) {
	if id == "" {
		return b.graph.TargetProfile("", nil)
	}
	for _, tp := range b.profiles {
		if tp.ID == id {
			return tp, nil
		}
	}
	return skillgraph.TargetProfile{}, fmt.Errorf("target profile not found: %q", id)
}

// ChallengesFor returns the challenges testing at least one skill of the
// profile, in bank order.
func (b *Bank) ChallengesFor(tp skillgraph.TargetProfile) []assessment.Challenge {
	inProfile := make(map[string]bool, len(tp.Skills))
	for _, s := range tp.Skills {
		inProfile[s.ID] = true
	}
	var out []assessment.Challenge
	for _, c := range b.challenges {
		for _, s := range c.Skills {
			if inProfile[s.ID] {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// Encode serialises the bank document as JSON.
func (b *Bank) Encode() ([]byte, error) {
	return json.Marshal(b.doc)
}
