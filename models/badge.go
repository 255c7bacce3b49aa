package models

import (
	"time"
)

// BadgeType: static config (loaded from DB or JSON)
type BadgeType struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Code        string `gorm:"uniqueIndex;not null"` // e.g., "STREAK_7", "IRON_LUNGS"
	Name        string `gorm:"not null"`
	Description string
	IconURL     string           `gorm:"type:text"`
	Rarity      string           `gorm:"type:varchar(16);default:'common'"` // common, rare, epic, legendary
	Threshold   map[string]int64 `gorm:"serializer:json;type:jsonb"`        // e.g., {"streak_days": 7}
	CreatedAt   time.Time        `gorm:"autoCreateTime"`
}

// MemberBadge: awarded instance (many-to-many)
type MemberBadge struct {
	ID          string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	MemberID    string    `gorm:"index;not null"`
	BadgeTypeID string    `gorm:"index;not null"`
	AwardedAt   time.Time `gorm:"autoCreateTime"`
	Metadata    string    `gorm:"type:jsonb"` // e.g., {"team_id": "...", "streak_days": 9}
}

// Predefined badge triggers, checked against ranking snapshots
var BadgeTriggers = []BadgeType{
	{
		Code:        "FIRST_WORKOUT",
		Name:        "Off the Bench",
		Description: "Logged your first workout",
		Rarity:      "common",
		Threshold:   map[string]int64{"workout_count": 1},
	},
	{
		Code:        "STREAK_7",
		Name:        "Week Warrior",
		Description: "Trained 7 days in a row",
		Rarity:      "rare",
		Threshold:   map[string]int64{"streak_days": 7},
	},
	{
		Code:        "STREAK_30",
		Name:        "Unstoppable",
		Description: "Trained 30 days in a row",
		Rarity:      "legendary",
		Threshold:   map[string]int64{"streak_days": 30},
	},
	{
		Code:        "IRON_LUNGS",
		Name:        "Iron Lungs",
		Description: "1,000 total training minutes",
		Rarity:      "rare",
		Threshold:   map[string]int64{"total_minutes": 1000},
	},
	{
		Code:        "TEAM_FIRST",
		Name:        "Top of the Board",
		Description: "Finished a ranking run in first place",
		Rarity:      "epic",
		Threshold:   map[string]int64{"rank": 1},
	},
}
