package models

import "testing"

func TestValidCriterion(t *testing.T) {
	for _, c := range []string{CriterionTotalMinutes, CriterionTotalWorkouts, CriterionThisWeekWorkouts, CriterionCompositeScore} {
		if !ValidCriterion(c) {
			t.Errorf("ValidCriterion(%q) = false; want true", c)
		}
	}
	for _, c := range []string{"", "composite", "CompositeScore", "total_minutes"} {
		if ValidCriterion(c) {
			t.Errorf("ValidCriterion(%q) = true; want false", c)
		}
	}
}

func TestRankEligible(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{"player", true},
		{"member", true},
		{"coach", false},
		{"staff", false},
		{"", false},
	}
	for _, tt := range tests {
		m := TeamMember{Role: tt.role}
		if got := m.RankEligible(); got != tt.want {
			t.Errorf("RankEligible(role=%q) = %v; want %v", tt.role, got, tt.want)
		}
	}
}
