package bank

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pixengine/internal/assessment"
)

func TestLoad(t *testing.T) {
	b, err := Load(filepath.Join("testdata", "bank.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "v1.2.0", b.Version())
	assert.Len(t, b.Challenges(), 5)
	assert.Len(t, b.Graph().AllSkills(), 4)

	c, ok := b.Challenge("chWeb2")
	require.True(t, ok)
	assert.Equal(t, assessment.TypeQROCMDep, c.Type)
	assert.Equal(t, assessment.StatusActive, c.Status)
	assert.True(t, c.IsTimed())
	require.Len(t, c.Skills, 1)
	assert.Equal(t, "@web", c.Skills[0].TubeName)
	assert.Equal(t, 2, c.Skills[0].Difficulty)

	old, ok := b.Challenge("chWeb2old")
	require.True(t, ok)
	assert.True(t, old.IsArchived())

	web3, _ := b.Challenge("chWeb3")
	assert.Equal(t, assessment.TypeQCM, web3.Type)

	comp, ok := b.Graph().Competence("rec1.2")
	require.True(t, ok)
	assert.Equal(t, "1", comp.AreaCode)
}

func TestTargetProfile(t *testing.T) {
	b, err := Load(filepath.Join("testdata", "bank.yaml"))
	require.NoError(t, err)

	tp, err := b.TargetProfile("web")
	require.NoError(t, err)
	assert.Equal(t, []string{"skWeb1", "skWeb2", "skWeb3"}, tp.SkillIDs())

	var ids []string
	for _, c := range b.ChallengesFor(tp) {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"chWeb1", "chWeb2", "chWeb2old", "chWeb3"}, ids)

	all, err := b.TargetProfile("")
	require.NoError(t, err)
	assert.Len(t, all.Skills, 4)

	_, err = b.TargetProfile("nope")
	assert.Error(t, err)
}

func TestParse_JSON(t *testing.T) {
	doc := `{
		"version": "1.0.0",
		"areas": [{"code": "1", "title": "Info", "competences": [{"id": "c1", "index": "1.1", "name": "Search"}]}],
		"skills": [{"id": "s1", "name": "@url1", "competence_id": "c1"}],
		"challenges": [{"id": "ch1", "skills": ["s1"], "discriminant": 1, "difficulty": 0}]
	}`
	b, err := Parse([]byte(doc), FormatJSON)
	require.NoError(t, err)
	assert.Len(t, b.Challenges(), 1)

	encoded, err := b.Encode()
	require.NoError(t, err)
	again, err := Parse(encoded, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, b.Document(), again.Document())
}

func TestParse_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing challenges", "version: v1.0.0\nareas: []\nskills: []\n"},
		{"unknown field", "version: v1.0.0\nareas: []\nskills: []\nchallenges: []\nextra: 1\n"},
		{"bad status", "version: v1.0.0\nareas: []\nskills: []\nchallenges: [{id: c, skills: [s], status: live}]\n"},
		{"negative timer", "version: v1.0.0\nareas: []\nskills: []\nchallenges: [{id: c, skills: [s], timer: -5}]\n"},
		{"bad skill name", "version: v1.0.0\nareas: []\nskills: [{id: s, name: web1, competence_id: c}]\nchallenges: []\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), FormatYAML)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "schema validation failed")
		})
	}
}

func TestParse_CrossReferences(t *testing.T) {
	doc := `
version: v1.0.0
areas:
  - code: "1"
    title: Info
    competences: [{id: c1, index: "1.1", name: Search}]
skills:
  - {id: s1, name: "@web1", competence_id: c1}
  - {id: s2, name: "@web9", competence_id: c1}
  - {id: s3, name: "@url1", competence_id: missing}
challenges:
  - {id: ch1, skills: [s1]}
  - {id: ch1, skills: [s1]}
  - {id: ch2, skills: [ghost]}
target_profiles:
  - {id: tp, skills: [s1, phantom]}
`
	_, err := Parse([]byte(doc), FormatYAML)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	joined := verr.Error()
	for _, want := range []string{
		`difficulty must be in [1, 8]`,
		`references nonexistent competence "missing"`,
		`duplicate challenge ID: "ch1"`,
		`references unknown skill "ghost"`,
		`skill not found: "phantom"`,
	} {
		assert.Contains(t, joined, want)
	}
}

func TestParse_Version(t *testing.T) {
	base := "areas: []\nskills: []\nchallenges: []\n"
	tests := []struct {
		version string
		wantErr bool
	}{
		{"v1.0.0", false},
		{"1.4.2", false},
		{"v0.9.0", true},
		{"v2.0.0", true},
		{"latest", true},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			_, err := Parse([]byte("version: \""+tt.version+"\"\n"+base), FormatYAML)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParse_UnsupportedFormat(t *testing.T) {
	_, err := Parse([]byte("{}"), Format("toml"))
	assert.Error(t, err)
	assert.Equal(t, FormatJSON, FormatFromPath("bank.JSON"))
	assert.Equal(t, FormatYAML, FormatFromPath("bank.yml"))
}
