package attackpatterns

import "testing"

func TestDBCreation(t *testing.T) {
	db := NewDB()
	if got := len(db.AllPatterns()); got != 8 {
		t.Fatalf("got %d patterns, want 8", got)
	}
}

func TestGetPattern(t *testing.T) {
	db := NewDB()
	p, ok := db.GetPattern("reentrancy")
	if !ok {
		t.Fatal("expected reentrancy pattern to exist")
	}
	if p.Name != "Reentrancy" || p.Year != 2016 {
		t.Errorf("got %+v", p)
	}
}

func TestPatternsForChain(t *testing.T) {
	db := NewDB()
	evm := db.PatternsForChain("evm")
	if len(evm) == 0 {
		t.Fatal("expected non-empty evm pattern list")
	}

	solana := db.PatternsForChain("solana")
	found := false
	for _, p := range solana {
		if p.ID == "access_control_bypass" {
			found = true
		}
	}
	if !found {
		t.Error("expected access_control_bypass to affect solana")
	}
}

func TestCodeVulnerabilityCheck(t *testing.T) {
	db := NewDB()
	vulnerable := "transfer_funds(); /* state update after */"
	issues := db.CheckCode(vulnerable, "reentrancy")
	if len(issues) == 0 {
		t.Fatal("expected at least one issue")
	}
}

func TestCVSSScoresInRange(t *testing.T) {
	db := NewDB()
	for _, p := range db.AllPatterns() {
		if p.CVSSScore <= 0 || p.CVSSScore > 10 {
			t.Errorf("pattern %s has out-of-range CVSS score %v", p.ID, p.CVSSScore)
		}
	}
}

func TestSeverityForCVSS(t *testing.T) {
	cases := []struct {
		score float32
		want  Severity
	}{
		{9.8, Critical},
		{9.0, Critical},
		{8.9, High},
		{7.0, High},
		{6.9, Medium},
		{5.0, Medium},
		{4.9, Low},
	}
	for _, c := range cases {
		if got := SeverityForCVSS(c.score); got != c.want {
			t.Errorf("SeverityForCVSS(%v) = %v, want %v", c.score, got, c.want)
		}
	}
}

func TestPatternsOrderedByID(t *testing.T) {
	db := NewDB()
	patterns := db.AllPatterns()
	for i := 1; i < len(patterns); i++ {
		if patterns[i-1].ID >= patterns[i].ID {
			t.Errorf("expected ascending ID order, got %q before %q", patterns[i-1].ID, patterns[i].ID)
		}
	}
}

func TestUnknownAttackIDReturnsNoIssues(t *testing.T) {
	db := NewDB()
	if issues := db.CheckCode("whatever", "nonexistent"); issues != nil {
		t.Errorf("expected nil issues for unknown attack id, got %v", issues)
	}
}
