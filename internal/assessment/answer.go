package assessment

import "fmt"

// Result is the outcome of an answer.
type Result string

const (
	ResultOK        Result = "ok"
	ResultKO        Result = "ko"
	ResultPartially Result = "partially"
	ResultSkipped   Result = "skipped"
)

// ParseResult converts a string into a Result.
func ParseResult(s string) (Result, error) {
	switch r := Result(s); r {
	case ResultOK, ResultKO, ResultPartially, ResultSkipped:
		return r, nil
	default:
		return "", fmt.Errorf("unknown answer result %q", s)
	}
}

// Answer records the result of a challenge. Order of answers is meaningful.
type Answer struct {
	ChallengeID string
	Result      Result
}

// IsOK reports whether the answer counts as correct.
func (a Answer) IsOK() bool {
	return a.Result == ResultOK
}

// IsPartially reports whether the answer was partially correct.
func (a Answer) IsPartially() bool {
	return a.Result == ResultPartially
}

// AnsweredSkillIDs returns the set of skills covered by the answers. Answers
// referencing challenges absent from the index are ignored.
func AnsweredSkillIDs(answers []Answer, index map[string]Challenge) map[string]bool {
	out := make(map[string]bool)
	for _, a := range answers {
		c, ok := index[a.ChallengeID]
		if !ok {
			continue
		}
		for _, s := range c.Skills {
			out[s.ID] = true
		}
	}
	return out
}
