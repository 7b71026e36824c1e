package flash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pixengine/internal/assessment"
	"github.com/abhisek/pixengine/internal/irt"
	"github.com/abhisek/pixengine/internal/skillgraph"
)

func skill(id string) skillgraph.Skill {
	return skillgraph.Skill{ID: id, Name: "@" + id + "1", TubeName: "@" + id, Difficulty: 1}
}

func challenge(id string, discriminant, difficulty float64, skills ...string) assessment.Challenge {
	c := assessment.Challenge{
		ID:           id,
		Status:       assessment.StatusActive,
		Discriminant: discriminant,
		Difficulty:   difficulty,
	}
	for _, s := range skills {
		c.Skills = append(c.Skills, skill(s))
	}
	return c
}

func ids(challenges []assessment.Challenge) []string {
	out := make([]string, len(challenges))
	for i, c := range challenges {
		out[i] = c.ID
	}
	return out
}

func TestNonAnsweredChallenges(t *testing.T) {
	challenges := []assessment.Challenge{
		challenge("c1", 1, 0, "s1"),
		challenge("c2", 1, 0, "s2"),
		challenge("c3", 1, 0, "s1", "s3"),
		challenge("c4", 1, 0, "s4"),
		challenge("c5", 1, 0, "s3"),
	}

	tests := []struct {
		name    string
		answers []assessment.Answer
		want    []string
	}{
		{"no answers keeps everything", nil, []string{"c1", "c2", "c3", "c4", "c5"}},
		{
			name:    "answered skill removes every challenge testing it",
			answers: []assessment.Answer{{ChallengeID: "c1", Result: assessment.ResultKO}},
			want:    []string{"c2", "c4", "c5"},
		},
		{
			name:    "multi-skill answer removes challenges of each skill",
			answers: []assessment.Answer{{ChallengeID: "c3", Result: assessment.ResultOK}},
			want:    []string{"c2", "c4"},
		},
		{
			name:    "answer to an unknown challenge is ignored",
			answers: []assessment.Answer{{ChallengeID: "gone", Result: assessment.ResultOK}},
			want:    []string{"c1", "c2", "c3", "c4", "c5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NonAnsweredChallenges(tt.answers, challenges)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestPossibleNextChallenges_NoChallenges(t *testing.T) {
	res, err := PossibleNextChallenges(nil, nil, DefaultConfig())
	require.NoError(t, err)
	assert.True(t, res.HasAssessmentEnded)
	assert.Empty(t, res.PossibleChallenges)
	assert.NotNil(t, res.PossibleChallenges)
}

func TestPossibleNextChallenges_MaxChallengesReached(t *testing.T) {
	challenges := []assessment.Challenge{
		challenge("c1", 1, 0, "s1"),
		challenge("c2", 1, 0, "s2"),
		challenge("c3", 1, 0, "s3"),
	}
	answers := []assessment.Answer{
		{ChallengeID: "c1", Result: assessment.ResultOK},
		{ChallengeID: "c2", Result: assessment.ResultKO},
	}

	res, err := PossibleNextChallenges(answers, challenges, Config{MaxChallenges: 2})
	require.NoError(t, err)
	assert.True(t, res.HasAssessmentEnded)
	assert.Empty(t, res.PossibleChallenges)

	res, err = PossibleNextChallenges(answers, challenges, Config{MaxChallenges: 3})
	require.NoError(t, err)
	assert.False(t, res.HasAssessmentEnded)
	assert.Equal(t, []string{"c3"}, ids(res.PossibleChallenges))
}

func TestPossibleNextChallenges_AllSkillsAnswered(t *testing.T) {
	challenges := []assessment.Challenge{
		challenge("c1", 1, 0, "s1"),
		challenge("c2", 2, 1, "s1"),
	}
	answers := []assessment.Answer{{ChallengeID: "c1", Result: assessment.ResultOK}}

	res, err := PossibleNextChallenges(answers, challenges, DefaultConfig())
	require.NoError(t, err)
	assert.True(t, res.HasAssessmentEnded)
}

func TestPossibleNextChallenges_MostInformative(t *testing.T) {
	challenges := []assessment.Challenge{
		challenge("first", 1.86350005965093, 0.194712138508747, "s0"),
		challenge("too-easy", 1.5, -2, "s1"),
		challenge("matching", 1.5, 0.86, "s2"),
		challenge("too-hard", 1.5, 3, "s3"),
	}
	answers := []assessment.Answer{{ChallengeID: "first", Result: assessment.ResultOK}}

	res, err := PossibleNextChallenges(answers, challenges, DefaultConfig())
	require.NoError(t, err)
	assert.False(t, res.HasAssessmentEnded)
	assert.InDelta(t, 0.859419960298745, res.EstimatedLevel, 1e-11)
	assert.Equal(t, []string{"matching"}, ids(res.PossibleChallenges))
}

func TestPossibleNextChallenges_Ties(t *testing.T) {
	challenges := []assessment.Challenge{
		challenge("a", 2, 0, "s1"),
		challenge("b", 2, 0, "s2"),
		challenge("c", 1, 0, "s3"),
		challenge("d", 2, 0, "s4"),
	}

	res, err := PossibleNextChallenges(nil, challenges, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "d"}, ids(res.PossibleChallenges))
}

func TestPossibleNextChallenges_SkipsArchived(t *testing.T) {
	archived := challenge("archived", 2, 0, "s1")
	archived.Status = assessment.StatusArchived
	challenges := []assessment.Challenge{archived, challenge("active", 1, 0, "s2")}

	res, err := PossibleNextChallenges(nil, challenges, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, []string{"active"}, ids(res.PossibleChallenges))

	res, err = PossibleNextChallenges(nil, []assessment.Challenge{archived}, DefaultConfig())
	require.NoError(t, err)
	assert.True(t, res.HasAssessmentEnded)
}

func TestPossibleNextChallenges_InvalidItem(t *testing.T) {
	challenges := []assessment.Challenge{challenge("broken", 0, 1, "s1")}

	_, err := PossibleNextChallenges(nil, challenges, DefaultConfig())
	var invalid *irt.ErrInvalidItem
	require.ErrorAs(t, err, &invalid)

	answers := []assessment.Answer{{ChallengeID: "broken", Result: assessment.ResultOK}}
	challenges = append(challenges, challenge("ok", 1, 0, "s2"))
	_, err = PossibleNextChallenges(answers, challenges, DefaultConfig())
	require.ErrorAs(t, err, &invalid)
}

func TestPossibleNextChallenges_Idempotent(t *testing.T) {
	challenges := []assessment.Challenge{
		challenge("c1", 1.2, -0.5, "s1"),
		challenge("c2", 0.9, 0.3, "s2"),
		challenge("c3", 1.7, 1.1, "s3"),
		challenge("c4", 1.1, 2.0, "s4"),
	}
	answers := []assessment.Answer{{ChallengeID: "c2", Result: assessment.ResultOK}}

	first, err := PossibleNextChallenges(answers, challenges, DefaultConfig())
	require.NoError(t, err)
	second, err := PossibleNextChallenges(answers, challenges, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	for _, c := range first.PossibleChallenges {
		assert.NotEqual(t, "c2", c.ID)
	}
}
