package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/abhisek/pixengine/internal/assessment"
	"github.com/abhisek/pixengine/internal/bank"
	"github.com/abhisek/pixengine/internal/certification"
	"github.com/abhisek/pixengine/internal/logger"
	"github.com/abhisek/pixengine/internal/selector"
	"github.com/abhisek/pixengine/internal/store"
)

func testBank(t *testing.T) *bank.Bank {
	t.Helper()
	b, err := bank.FromDocument(bank.Document{
		Version: "v1.0.0",
		Areas: []bank.AreaDoc{{
			Code:        "1",
			Title:       "Information",
			Competences: []bank.CompetenceDoc{{ID: "c1", Index: "1.1", Name: "Search"}},
		}},
		Skills: []bank.SkillDoc{
			{ID: "web1", Name: "@web1", CompetenceID: "c1"},
			{ID: "web2", Name: "@web2", CompetenceID: "c1"},
			{ID: "web3", Name: "@web3", CompetenceID: "c1"},
		},
		Challenges: []bank.ChallengeDoc{
			{ID: "ch1", Skills: []string{"web1"}, Discriminant: 1, Difficulty: -1},
			{ID: "ch2", Skills: []string{"web2"}, Discriminant: 1.5, Difficulty: 0},
			{ID: "ch3", Skills: []string{"web3"}, Discriminant: 1.2, Difficulty: 1},
		},
		TargetProfiles: []bank.TargetProfileDoc{{ID: "basics", Skills: []string{"web1", "web2"}}},
	})
	if err != nil {
		t.Fatalf("build bank: %v", err)
	}
	return b
}

func newTestService(t *testing.T, method selector.Method) *Service {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "pixengine.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	if err := st.BankRepo().SaveBank(context.Background(), "default", testBank(t)); err != nil {
		t.Fatalf("save bank: %v", err)
	}

	cfg := selector.DefaultConfig()
	cfg.Method = method
	strategy, err := selector.New(cfg)
	if err != nil {
		t.Fatalf("new strategy: %v", err)
	}
	return NewService(st.BankRepo(), st.AssessmentRepo(), st.ResultRepo(), strategy, logger.Nop())
}

func start(t *testing.T, svc *Service, in StartInput) *store.Assessment {
	t.Helper()
	if in.Bank == "" {
		in.Bank = "default"
	}
	a, err := svc.Start(context.Background(), in)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	return a
}

func next(t *testing.T, svc *Service, id string) Step {
	t.Helper()
	step, err := svc.Next(context.Background(), id)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	return step
}

func answer(t *testing.T, svc *Service, id, challengeID string, r assessment.Result) []assessment.KnowledgeElement {
	t.Helper()
	kes, err := svc.Answer(context.Background(), id, challengeID, r)
	if err != nil {
		t.Fatalf("Answer(%s): %v", challengeID, err)
	}
	return kes
}

func TestStart(t *testing.T) {
	svc := newTestService(t, selector.MethodSmartRandom)

	a := start(t, svc, StartInput{UserID: "user-1"})
	if a.ID == "" {
		t.Fatal("expected a generated ID")
	}
	if a.Method != string(selector.MethodSmartRandom) {
		t.Errorf("Method = %q", a.Method)
	}
	if len(a.SkillIDs) != 3 || a.State != store.StateStarted {
		t.Errorf("assessment = %+v", a)
	}

	p := start(t, svc, StartInput{UserID: "user-1", TargetProfileID: "basics"})
	if len(p.SkillIDs) != 2 || p.TargetProfileID != "basics" {
		t.Errorf("profile assessment = %+v", p)
	}

	s := start(t, svc, StartInput{UserID: "user-1", SkillIDs: []string{"web3"}})
	if len(s.SkillIDs) != 1 || s.SkillIDs[0] != "web3" {
		t.Errorf("SkillIDs = %v", s.SkillIDs)
	}
}

func TestStart_Errors(t *testing.T) {
	svc := newTestService(t, selector.MethodFlash)
	ctx := context.Background()

	if _, err := svc.Start(ctx, StartInput{Bank: "missing"}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown bank: err = %v", err)
	}
	if _, err := svc.Start(ctx, StartInput{Bank: "default", TargetProfileID: "nope"}); err == nil {
		t.Error("expected error for unknown target profile")
	}
	if _, err := svc.Start(ctx, StartInput{Bank: "default", SkillIDs: []string{"ghost"}}); err == nil {
		t.Error("expected error for unknown skill")
	}
}

func TestSmartRandomRun(t *testing.T) {
	svc := newTestService(t, selector.MethodSmartRandom)
	a := start(t, svc, StartInput{UserID: "user-1"})

	step := next(t, svc, a.ID)
	if step.Ended || step.Challenge == nil || step.Challenge.ID != "ch2" {
		t.Fatalf("first step = %+v", step)
	}

	kes := answer(t, svc, a.ID, "ch2", assessment.ResultOK)
	if len(kes) != 2 {
		t.Fatalf("knowledge elements = %+v", kes)
	}
	if kes[0].SkillID != "web2" || !kes[0].IsDirect() || !kes[0].IsValidated() {
		t.Errorf("direct element = %+v", kes[0])
	}
	if kes[1].SkillID != "web1" || kes[1].IsDirect() || !kes[1].IsValidated() {
		t.Errorf("inferred element = %+v", kes[1])
	}

	step = next(t, svc, a.ID)
	if step.Ended || step.Challenge == nil || step.Challenge.ID != "ch3" {
		t.Fatalf("second step = %+v", step)
	}
	if step.Answered != 1 {
		t.Errorf("Answered = %d, want 1", step.Answered)
	}

	kes = answer(t, svc, a.ID, "ch3", assessment.ResultKO)
	if len(kes) != 1 || kes[0].SkillID != "web3" || kes[0].IsValidated() {
		t.Errorf("knowledge elements = %+v", kes)
	}

	step = next(t, svc, a.ID)
	if !step.Ended || step.Challenge != nil {
		t.Fatalf("final step = %+v", step)
	}

	if _, err := svc.Answer(context.Background(), a.ID, "ch1", assessment.ResultOK); !errors.Is(err, ErrAssessmentCompleted) {
		t.Errorf("answer after completion: err = %v", err)
	}

	// A completed assessment stays ended.
	step = next(t, svc, a.ID)
	if !step.Ended || step.Answered != 2 {
		t.Errorf("step after completion = %+v", step)
	}
}

func TestAnswer_KnownSkillsNotRepeated(t *testing.T) {
	svc := newTestService(t, selector.MethodSmartRandom)
	a := start(t, svc, StartInput{UserID: "user-1"})

	answer(t, svc, a.ID, "ch2", assessment.ResultOK)
	kes := answer(t, svc, a.ID, "ch1", assessment.ResultOK)
	if len(kes) != 0 {
		t.Errorf("expected no new knowledge elements, got %+v", kes)
	}
}

func TestAnswer_Errors(t *testing.T) {
	svc := newTestService(t, selector.MethodSmartRandom)
	ctx := context.Background()
	a := start(t, svc, StartInput{UserID: "user-1", TargetProfileID: "basics"})

	if _, err := svc.Answer(ctx, a.ID, "ch3", assessment.ResultOK); !errors.Is(err, ErrChallengeNotInPool) {
		t.Errorf("out of profile: err = %v", err)
	}
	if _, err := svc.Answer(ctx, "missing", "ch1", assessment.ResultOK); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown assessment: err = %v", err)
	}

	answer(t, svc, a.ID, "ch1", assessment.ResultOK)
	if _, err := svc.Answer(ctx, a.ID, "ch1", assessment.ResultKO); !errors.Is(err, store.ErrAnswerExists) {
		t.Errorf("repeated answer: err = %v", err)
	}
}

func TestAnswer_SkillAlreadyAnswered(t *testing.T) {
	svc := newTestService(t, selector.MethodSmartRandom)
	ctx := context.Background()

	b, err := bank.FromDocument(bank.Document{
		Version: "v1.0.0",
		Areas: []bank.AreaDoc{{
			Code:        "1",
			Title:       "Information",
			Competences: []bank.CompetenceDoc{{ID: "c1", Index: "1.1", Name: "Search"}},
		}},
		Skills: []bank.SkillDoc{
			{ID: "web1", Name: "@web1", CompetenceID: "c1"},
			{ID: "web2", Name: "@web2", CompetenceID: "c1"},
		},
		Challenges: []bank.ChallengeDoc{
			{ID: "ch1", Skills: []string{"web1"}, Discriminant: 1, Difficulty: -1},
			{ID: "ch1bis", Skills: []string{"web1"}, Discriminant: 1.1, Difficulty: -0.8},
			{ID: "both", Skills: []string{"web1", "web2"}, Discriminant: 1.3, Difficulty: 0.2},
			{ID: "ch2", Skills: []string{"web2"}, Discriminant: 1.5, Difficulty: 0},
		},
	})
	if err != nil {
		t.Fatalf("build bank: %v", err)
	}
	if err := svc.banks.SaveBank(ctx, "variants", b); err != nil {
		t.Fatalf("save bank: %v", err)
	}

	a := start(t, svc, StartInput{UserID: "user-1", Bank: "variants"})
	answer(t, svc, a.ID, "ch1", assessment.ResultKO)

	for _, id := range []string{"ch1bis", "both"} {
		if _, err := svc.Answer(ctx, a.ID, id, assessment.ResultOK); !errors.Is(err, ErrSkillAlreadyAnswered) {
			t.Errorf("%s: err = %v, want ErrSkillAlreadyAnswered", id, err)
		}
	}

	answers, err := svc.assessments.Answers(ctx, a.ID)
	if err != nil {
		t.Fatalf("Answers: %v", err)
	}
	if len(answers) != 1 {
		t.Errorf("answers = %+v, want only ch1", answers)
	}

	answer(t, svc, a.ID, "ch2", assessment.ResultOK)
}

func TestFlashRunAndEstimate(t *testing.T) {
	svc := newTestService(t, selector.MethodFlash)
	ctx := context.Background()
	a := start(t, svc, StartInput{UserID: "user-1"})

	est, err := svc.Estimate(ctx, a.ID)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if est.Level != 0 {
		t.Errorf("initial level = %v, want 0", est.Level)
	}

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		step := next(t, svc, a.ID)
		if step.Ended {
			t.Fatalf("ended after %d answers", i)
		}
		if seen[step.Challenge.ID] {
			t.Fatalf("challenge %s asked twice", step.Challenge.ID)
		}
		seen[step.Challenge.ID] = true
		answer(t, svc, a.ID, step.Challenge.ID, assessment.ResultOK)
	}

	if step := next(t, svc, a.ID); !step.Ended {
		t.Errorf("expected the assessment to end, got %+v", step)
	}

	est, err = svc.Estimate(ctx, a.ID)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if est.Level <= 0 {
		t.Errorf("level after three correct answers = %v, want > 0", est.Level)
	}
}

func TestCertify(t *testing.T) {
	svc := newTestService(t, selector.MethodSmartRandom)
	ctx := context.Background()
	a := start(t, svc, StartInput{UserID: "user-1"})

	for _, id := range []string{"ch1", "ch2", "ch3"} {
		answer(t, svc, a.ID, id, assessment.ResultOK)
	}

	competences := []certification.TestedCompetence{
		{ID: "c1", Index: "1.1", Name: "Search", AreaCode: "1", EstimatedLevel: 3, PixScore: 26},
	}
	res, err := svc.Certify(ctx, a.ID, competences, certification.Options{})
	if err != nil {
		t.Fatalf("Certify: %v", err)
	}
	if res.TotalScore != 26 || res.PercentageCorrectAnswers != 100 {
		t.Errorf("result = %+v", res)
	}
	if len(res.CompetencesWithMark) != 1 || res.CompetencesWithMark[0].Level != 3 {
		t.Errorf("marks = %+v", res.CompetencesWithMark)
	}

	st := svc.results
	rec, err := st.LatestCertificationResult(ctx, a.ID)
	if err != nil {
		t.Fatalf("LatestCertificationResult: %v", err)
	}
	if rec == nil || rec.Status != certification.StatusValidated {
		t.Errorf("record = %+v", rec)
	}
}

func TestCertify_Strict(t *testing.T) {
	svc := newTestService(t, selector.MethodSmartRandom)
	a := start(t, svc, StartInput{UserID: "user-1"})
	answer(t, svc, a.ID, "ch1", assessment.ResultOK)

	competences := []certification.TestedCompetence{{ID: "c1", EstimatedLevel: 2, PixScore: 16}}
	_, err := svc.Certify(context.Background(), a.ID, competences, certification.Options{Strict: true})
	var notEnough *certification.ErrNotEnoughAnswers
	if !errors.As(err, &notEnough) {
		t.Fatalf("err = %v, want ErrNotEnoughAnswers", err)
	}
}

func TestShow(t *testing.T) {
	svc := newTestService(t, selector.MethodSmartRandom)
	a := start(t, svc, StartInput{UserID: "user-1"})
	answer(t, svc, a.ID, "ch2", assessment.ResultOK)
	answer(t, svc, a.ID, "ch3", assessment.ResultKO)

	sum, err := svc.Show(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("Show: %v", err)
	}
	if sum.TotalQuestions != 2 || sum.TotalCorrect != 1 || sum.Accuracy != 0.5 {
		t.Errorf("summary = %+v", sum)
	}
	want := map[string]assessment.KnowledgeStatus{
		"web1": assessment.KnowledgeValidated,
		"web2": assessment.KnowledgeValidated,
		"web3": assessment.KnowledgeInvalidated,
	}
	if len(sum.SkillResults) != len(want) {
		t.Fatalf("skill results = %+v", sum.SkillResults)
	}
	for _, r := range sum.SkillResults {
		if r.Status != want[r.SkillID] {
			t.Errorf("%s: status %q, want %q", r.SkillID, r.Status, want[r.SkillID])
		}
	}
}
