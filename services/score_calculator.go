// services/score_calculator.go
package services

import (
	"log"
	"math"
	"strings"
	"time"

	"fitness-ranking-system/models"
)

// Scoring weights (tunable via config/env later)
const (
	AIWorkoutMultiplier = 1.10 // forced multiplier for AI-generated workouts
	IntensityMidpoint   = 5    // intensity at or below this adds nothing
	IntensityStepBonus  = 0.10 // +10% per intensity point above the midpoint
	RecencyWindowDays   = 3    // strictly-inside window for the recency bonus
	RecencyMultiplier   = 1.20
	StreakBonusRate     = 0.05 // 5% of base score per consecutive day
	WeeklyWindowDays    = 7
	WeeklyBonusRate     = 0.10 // 10% of the trailing week's raw score
	WeeklyBonusCap      = 0.30 // weekly bonus never exceeds 30% of base score
)

// typeRule maps an activity-type substring to a score multiplier.
type typeRule struct {
	Substr     string
	Multiplier float64
}

// typeRules is checked in order with LAST match winning. This is deliberate,
// not an accident: a label like "speed and agility conditioning" should land
// on the later, more specific row, so row order is significant. Keep new
// rules sorted from generic to specific.
var typeRules = []typeRule{
	{"cardio", 1.20},
	{"conditioning", 1.20},
	{"strength", 1.10},
	{"weight training", 1.10},
	{"weights", 1.10},
	{"skating", 1.15},
	{"speed", 1.15},
	{"agility", 1.15},
	{"skills", 1.05},
	{"stick handling", 1.05},
	{"shooting", 1.05},
	{"recovery", 0.90},
	{"flexibility", 0.90},
	{"stretching", 0.90},
}

// MemberScore is the derived score for one member. It has no lifecycle of its
// own — it is recomputed from the current ActivityLog set on every run and is
// only persisted as part of a Ranking snapshot.
type MemberScore struct {
	MemberID   string `json:"member_id"`
	MemberName string `json:"member_name"`

	TotalScore   float64 `json:"total_score"`
	BaseScore    float64 `json:"base_score"`
	StreakDays   int     `json:"streak_days"`
	StreakBonus  float64 `json:"streak_bonus"`
	WeeklyScore  float64 `json:"weekly_score"` // raw score of the trailing 7 days
	WeeklyBonus  float64 `json:"weekly_bonus"`
	WorkoutCount int     `json:"workout_count"`
	TotalMinutes int     `json:"total_minutes"`
	AverageScore float64 `json:"average_score"`
}

// ScoreCalculator turns activity logs into numeric scores. It is pure
// computation; Now is injected so the recency/weekly/streak windows are
// reproducible in tests.
type ScoreCalculator struct {
	Now func() time.Time
}

func NewScoreCalculator() *ScoreCalculator {
	return &ScoreCalculator{Now: time.Now}
}

// ResolveLogDate extracts the session date from a log, trying in order:
// the occurred_at timestamp, the legacy raw date string, then created_at.
// Returns false when none resolve.
func ResolveLogDate(l *models.ActivityLog) (time.Time, bool) {
	if l.OccurredAt != nil && !l.OccurredAt.IsZero() {
		return *l.OccurredAt, true
	}
	if l.RawDate != "" {
		if t, err := time.Parse(time.RFC3339, l.RawDate); err == nil {
			return t, true
		}
		if t, err := time.Parse("2006-01-02", l.RawDate); err == nil {
			return t, true
		}
	}
	if !l.CreatedAt.IsZero() {
		return l.CreatedAt, true
	}
	return time.Time{}, false
}

// ComputeLogScore maps one activity log to a numeric score.
// Malformed logs (zero duration, unresolvable date) score 0 rather than
// failing the whole run.
func (c *ScoreCalculator) ComputeLogScore(l *models.ActivityLog) float64 {
	if l.DurationMinutes <= 0 {
		return 0
	}

	date, ok := ResolveLogDate(l)
	if !ok {
		log.Printf("[SCORE] ⚠️ Log %s has no resolvable date — scoring 0", l.ID)
		return 0
	}

	base := float64(l.DurationMinutes)

	multiplier := 1.0
	lowType := strings.ToLower(l.Type)
	for _, rule := range typeRules {
		if strings.Contains(lowType, rule.Substr) {
			multiplier = rule.Multiplier // last match wins
		}
	}

	// AI-generated workouts get a fixed multiplier regardless of type
	if l.IsGeneratedByAI {
		multiplier = AIWorkoutMultiplier
	}

	score := base * multiplier

	if l.Intensity != nil && *l.Intensity > IntensityMidpoint {
		score *= 1 + float64(*l.Intensity-IntensityMidpoint)*IntensityStepBonus
	}

	// Recency: strictly inside the trailing 3-day window. Exactly 3 days ago
	// does NOT qualify.
	if date.After(c.Now().AddDate(0, 0, -RecencyWindowDays)) {
		score *= RecencyMultiplier
	}

	return round2(score)
}

// ComputeStreakDays counts consecutive calendar days of activity ending at
// today or yesterday. A gap before yesterday breaks the streak and returns 0.
func (c *ScoreCalculator) ComputeStreakDays(logs []models.ActivityLog) int {
	if len(logs) == 0 {
		return 0
	}

	now := c.Now()

	// Bucket every log into the reference zone's calendar. Offset-bearing
	// dates (RFC3339 from mobile clients) would otherwise render a different
	// day than the cursor below and break the streak.
	days := make(map[string]bool)
	for i := range logs {
		if date, ok := ResolveLogDate(&logs[i]); ok {
			days[dayKey(date.In(now.Location()))] = true
		}
	}
	if len(days) == 0 {
		return 0
	}

	cursor := now
	if !days[dayKey(cursor)] {
		cursor = now.AddDate(0, 0, -1)
		if !days[dayKey(cursor)] {
			return 0 // no activity today or yesterday — streak broken
		}
	}

	streak := 0
	for days[dayKey(cursor)] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

// ComputeMemberScore aggregates all of one member's logs into a MemberScore.
// The caller is responsible for having filtered logs to this member already.
func (c *ScoreCalculator) ComputeMemberScore(member *models.TeamMember, logs []models.ActivityLog) MemberScore {
	score := MemberScore{
		MemberID:   member.ID,
		MemberName: member.Name,
	}
	if len(logs) == 0 {
		return score
	}

	now := c.Now()
	weekAgo := now.AddDate(0, 0, -WeeklyWindowDays)

	var base, weeklyRaw float64
	for i := range logs {
		l := &logs[i]
		s := c.ComputeLogScore(l)
		base += s
		score.TotalMinutes += l.DurationMinutes

		// Same exclusive boundary as the recency rule: exactly 7 days ago
		// is outside the weekly window.
		if date, ok := ResolveLogDate(l); ok && date.After(weekAgo) {
			weeklyRaw += s
		}
	}

	streak := c.ComputeStreakDays(logs)
	streakBonus := base * (float64(streak) * StreakBonusRate)

	weeklyBonus := weeklyRaw * WeeklyBonusRate
	if maxBonus := base * WeeklyBonusCap; weeklyBonus > maxBonus {
		weeklyBonus = maxBonus
	}

	score.BaseScore = round2(base)
	score.StreakDays = streak
	score.StreakBonus = streakBonus
	score.WeeklyScore = round2(weeklyRaw)
	score.WeeklyBonus = weeklyBonus
	score.WorkoutCount = len(logs)
	score.TotalScore = round2(base + streakBonus + weeklyBonus)
	score.AverageScore = round2(base / float64(len(logs)))
	return score
}

// round2 rounds to 2 decimals, half-up on the cent digit.
func round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// dayKey renders a timestamp's calendar day. Callers convert t to the
// reference zone first so all buckets share one calendar.
func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
