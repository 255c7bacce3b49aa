package models

import (
	"time"

	"gorm.io/gorm"
)

// TeamMember is a local snapshot of roster data needed for rankings.
// Owned and managed solely by the Fitness Ranking service.
// Populated via sync worker from the Profile Service's user table.
type TeamMember struct {
	ID             string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	TeamID         string  `gorm:"index;not null" json:"team_id"`
	ExternalUserID string  `gorm:"uniqueIndex;not null" json:"external_user_id"` // The profile service's UUID
	Name           string  `gorm:"index;not null" json:"name"`
	Role           string  `gorm:"type:varchar(16);default:'player'" json:"role"` // player/member are rank-eligible; coach/staff are not
	AvatarURL      *string `json:"avatar_url,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	LastSeen *time.Time `json:"last_seen,omitempty"`

	// Soft delete (member left the team, history kept)
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// RankEligible reports whether this member's role participates in rankings.
func (m *TeamMember) RankEligible() bool {
	return m.Role == "player" || m.Role == "member"
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
