package scoring

import (
	"testing"

	"github.com/evosynth/evosynth/internal/tasks"
)

func TestScoreCorrectProgramReason(t *testing.T) {
	task := tasks.NewReverseTask(256, 3, 3, 1, 1)
	cfg := DefaultConfig(20)
	cfg.RequireCorrectSyntax = true
	m := New(task, cfg)

	rec := m.Score(">,[>,]<[.<]")
	if rec.Reason != "correct" {
		t.Fatalf("reason = %q, want correct", rec.Reason)
	}
	last := rec.EpisodeRewards[len(rec.EpisodeRewards)-1]
	if last <= 0.9 {
		t.Errorf("normalized terminal reward = %f, want close to 1.0", last)
	}
	for _, r := range rec.EpisodeRewards[:len(rec.EpisodeRewards)-1] {
		if r != 0.0 {
			t.Errorf("non-terminal episode reward = %f, want 0.0", r)
		}
	}
}

func TestScoreSyntaxErrorSetsReason(t *testing.T) {
	task := tasks.NewEchoTask(27, 1, 3, 2, 5)
	cfg := DefaultConfig(10)
	cfg.RequireCorrectSyntax = true
	m := New(task, cfg)

	rec := m.Score("[[[")
	if rec.Reason != string("syntax-error") {
		t.Fatalf("reason = %q, want syntax-error", rec.Reason)
	}
	last := rec.EpisodeRewards[len(rec.EpisodeRewards)-1]
	wantNormalized := cfg.FailureReward / m.BestReward
	if last != wantNormalized {
		t.Errorf("terminal reward = %f, want %f", last, wantNormalized)
	}
}

func TestScoreWrongOutputSetsReason(t *testing.T) {
	task := tasks.NewAddModBaseTask(5, 10, 2)
	cfg := DefaultConfig(10)
	m := New(task, cfg)

	// A no-op program always outputs nothing, which never matches the
	// expected [sum mod base] output.
	rec := m.Score("+")
	if rec.Reason != "wrong" {
		t.Fatalf("reason = %q, want wrong", rec.Reason)
	}
}

func TestBestRewardPositive(t *testing.T) {
	task := tasks.NewBooleanTruthTableTask()
	cfg := DefaultConfig(10)
	m := New(task, cfg)
	if m.BestReward <= 0 {
		t.Errorf("BestReward = %f, want > 0", m.BestReward)
	}
	if m.GoodReward != 0.75*m.BestReward {
		t.Errorf("GoodReward = %f, want 0.75*BestReward", m.GoodReward)
	}
}
