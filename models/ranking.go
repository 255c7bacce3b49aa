package models

import "time"

// Ranking modes
const (
	RankingModeAutomatic = "automatic"
	RankingModeManual    = "manual"
)

// Ranking criteria accepted by the ranking sink.
const (
	CriterionTotalMinutes     = "totalMinutes"
	CriterionTotalWorkouts    = "totalWorkouts"
	CriterionThisWeekWorkouts = "thisWeekWorkouts"
	CriterionCompositeScore   = "compositeScore"
)

// ValidCriterion reports whether c is one of the supported ranking criteria.
func ValidCriterion(c string) bool {
	switch c {
	case CriterionTotalMinutes, CriterionTotalWorkouts, CriterionThisWeekWorkouts, CriterionCompositeScore:
		return true
	}
	return false
}

// Ranking is the persisted result of one ranking run for a team.
// It is created/overwritten wholesale on every run; entries are never
// mutated incrementally.
type Ranking struct {
	ID            string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	TeamID        string    `gorm:"uniqueIndex;not null" json:"team_id"`
	Mode          string    `gorm:"type:varchar(16);default:'automatic'" json:"mode"` // automatic | manual
	Criterion     string    `gorm:"type:varchar(32);default:'compositeScore'" json:"criterion"`
	LastUpdatedAt time.Time `json:"last_updated_at"`

	Entries []RankingEntry `gorm:"foreignKey:RankingID" json:"entries,omitempty"`

	Timestamps
}

// RankingEntry snapshots one member's computed score at ranking time.
type RankingEntry struct {
	ID        string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	RankingID string `gorm:"index;not null" json:"ranking_id"`
	TeamID    string `gorm:"index;not null" json:"team_id"`
	MemberID  string `gorm:"index;not null" json:"member_id"`

	MemberName string `json:"member_name"` // denormalized (safe copy at ranking time)
	Rank       int    `json:"rank"`        // 1-based position

	TotalScore   float64 `json:"total_score"`
	BaseScore    float64 `json:"base_score"`
	StreakDays   int     `json:"streak_days"`
	StreakBonus  float64 `json:"streak_bonus"`
	WeeklyScore  float64 `json:"weekly_score"`
	WeeklyBonus  float64 `json:"weekly_bonus"`
	WorkoutCount int     `json:"workout_count"`
	TotalMinutes int     `json:"total_minutes"`
	AverageScore float64 `json:"average_score"`

	Timestamps
}
