package domain

import "testing"

func TestCharToToken(t *testing.T) {
	tests := []struct {
		c      byte
		code   int
		wantOK bool
	}{
		{'>', 0, true},
		{'<', 1, true},
		{'+', 2, true},
		{'-', 3, true},
		{'[', 4, true},
		{']', 5, true},
		{'.', 6, true},
		{',', 7, true},
		{'x', 0, false},
	}
	for _, tt := range tests {
		code, ok := CharToToken(tt.c)
		if ok != tt.wantOK {
			t.Errorf("CharToToken(%q) ok = %v, want %v", tt.c, ok, tt.wantOK)
			continue
		}
		if ok && code != tt.code {
			t.Errorf("CharToToken(%q) = %d, want %d", tt.c, code, tt.code)
		}
	}
}

func TestTokenToCharRoundTrip(t *testing.T) {
	for code := 0; code < 8; code++ {
		c := TokenToChar(code)
		got, ok := CharToToken(c)
		if !ok || got != code {
			t.Errorf("round trip failed for code %d: char=%q got=%d ok=%v", code, c, got, ok)
		}
	}
}

func TestScoringNamespaceRoundTrip(t *testing.T) {
	exec := []int{0, 1, 2, 7, 6, 5, 4}
	scoring := ExecutionTokensToScoringTokens(exec)
	for _, s := range scoring {
		if s == ScoringEOS {
			t.Fatalf("execution token should never map to EOS, got %v", scoring)
		}
	}
	back := ScoringTokensToExecutionTokens(scoring)
	if len(back) != len(exec) {
		t.Fatalf("round trip length mismatch: got %v, want %v", back, exec)
	}
	for i := range exec {
		if back[i] != exec[i] {
			t.Errorf("round trip[%d] = %d, want %d", i, back[i], exec[i])
		}
	}
}

func TestScoringTokensToExecutionTokensDropsEOS(t *testing.T) {
	in := []int{0, 1, 0, 2, 0}
	out := ScoringTokensToExecutionTokens(in)
	want := []int{0, 1}
	if len(out) != len(want) {
		t.Fatalf("got %v, want %v", out, want)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d] = %d, want %d", i, out[i], want[i])
		}
	}
}
