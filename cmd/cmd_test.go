package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("pixengine %s: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

func TestLoadPositioning(t *testing.T) {
	path := writeFile(t, "competences.yaml", `
competences:
  - id: rec1.1
    index: "1.1"
    name: Mener une recherche
    area_code: "1"
    level: 3
    pix_score: 26
`)
	got, err := loadPositioning(path)
	if err != nil {
		t.Fatalf("loadPositioning: %v", err)
	}
	if len(got) != 1 || got[0].ID != "rec1.1" || got[0].EstimatedLevel != 3 || got[0].PixScore != 26 {
		t.Errorf("competences = %+v", got)
	}

	empty := writeFile(t, "empty.yaml", "competences: []\n")
	if _, err := loadPositioning(empty); err == nil {
		t.Error("expected error for an empty competence list")
	}
}

func TestCLI_AssessmentFlow(t *testing.T) {
	db := filepath.Join(t.TempDir(), "pixengine.db")
	common := []string{"--db", db, "--log-mode", "prod"}
	with := func(args ...string) []string { return append(args, common...) }

	out := run(t, "bank", "validate", "../internal/bank/testdata/bank.yaml")
	if !strings.Contains(out, "ok (version v1.2.0") {
		t.Errorf("validate output = %q", out)
	}

	run(t, with("bank", "import", "../internal/bank/testdata/bank.yaml")...)

	out = run(t, with("bank", "tubes", "--profile", "web")...)
	if !strings.Contains(out, "@web") || !strings.Contains(out, "1 tubes, 3 skills") {
		t.Errorf("tubes output = %q", out)
	}

	id := strings.TrimSpace(run(t, with("assessment", "start", "--profile", "web", "--method", "smart-random", "--user", "u1")...))
	if id == "" {
		t.Fatal("expected an assessment ID")
	}

	// The level 2 challenge is timed, so the untimed level 1 one comes first.
	out = run(t, with("assessment", "next", id)...)
	if !strings.HasPrefix(out, "chWeb1 ") {
		t.Errorf("next output = %q", out)
	}

	out = run(t, with("assessment", "answer", id, "chWeb1", "ok")...)
	if !strings.Contains(out, "skWeb1") || !strings.Contains(out, "validated") {
		t.Errorf("answer output = %q", out)
	}

	out = run(t, with("assessment", "show", id)...)
	if !strings.Contains(out, "Answers: 1, correct: 1") {
		t.Errorf("show output = %q", out)
	}

	out = run(t, with("estimate", id)...)
	if !strings.HasPrefix(out, "level=") {
		t.Errorf("estimate output = %q", out)
	}

	competences := writeFile(t, "competences.yaml", `
competences:
  - {id: rec1.1, index: "1.1", name: Mener une recherche, area_code: "1", level: 2, pix_score: 16}
`)
	out = run(t, with("certify", id, "--competences", competences)...)
	if !strings.Contains(out, "Total: 0 pix") || !strings.Contains(out, "rejected") {
		t.Errorf("certify output = %q", out)
	}
}

func TestVersion(t *testing.T) {
	out := run(t, "version")
	if !strings.HasPrefix(out, "pixengine ") {
		t.Errorf("version output = %q", out)
	}
}
