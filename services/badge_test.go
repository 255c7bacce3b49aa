package services

import (
	"testing"

	"fitness-ranking-system/models"
)

func TestMeetsThreshold(t *testing.T) {
	svc := &BadgeService{}

	entry := &models.RankingEntry{
		Rank:         2,
		WorkoutCount: 12,
		StreakDays:   7,
		TotalMinutes: 480,
	}

	tests := []struct {
		name      string
		threshold map[string]int64
		want      bool
	}{
		{"first workout", map[string]int64{"workout_count": 1}, true},
		{"streak met exactly", map[string]int64{"streak_days": 7}, true},
		{"streak not met", map[string]int64{"streak_days": 30}, false},
		{"minutes not met", map[string]int64{"total_minutes": 1000}, false},
		{"rank 1 required but ranked 2nd", map[string]int64{"rank": 1}, false},
		{"top 3 includes rank 2", map[string]int64{"rank": 3}, true},
		{"combined, all met", map[string]int64{"workout_count": 10, "streak_days": 5}, true},
		{"combined, one short", map[string]int64{"workout_count": 10, "streak_days": 10}, false},
		{"empty threshold always met", map[string]int64{}, true},
	}

	for _, tt := range tests {
		if got := svc.meetsThreshold(entry, tt.threshold); got != tt.want {
			t.Errorf("%s: meetsThreshold = %v; want %v", tt.name, got, tt.want)
		}
	}
}

func TestMeetsThreshold_UnrankedEntry(t *testing.T) {
	svc := &BadgeService{}
	entry := &models.RankingEntry{Rank: 0}
	if svc.meetsThreshold(entry, map[string]int64{"rank": 1}) {
		t.Error("an unranked entry must never earn a rank-based badge")
	}
}
