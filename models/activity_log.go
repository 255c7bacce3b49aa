package models

import "time"

// ActivityLog records a single workout session for a team member.
// Created once when a member submits a session; immutable afterward.
// The ranking engine reads these but never mutates or deletes them.
type ActivityLog struct {
	ID             string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	TeamID         string `gorm:"index;not null" json:"team_id"`
	MemberID       string `gorm:"index;not null" json:"member_id"` // TeamMember.ID

	Type            string `json:"type"` // free text, e.g., "Cardio", "Stick Handling"
	DurationMinutes int    `json:"duration_minutes" gorm:"default:0"`
	Intensity       *int   `json:"intensity,omitempty"` // 1–10 self-reported scale, optional
	IsGeneratedByAI bool   `json:"is_generated_by_ai" gorm:"default:false"`

	// OccurredAt is the preferred session timestamp. Legacy mobile clients send a
	// bare "2006-01-02" string instead, kept in RawDate; CreatedAt is the last resort.
	OccurredAt *time.Time `json:"occurred_at,omitempty"`
	RawDate    string     `json:"raw_date,omitempty" gorm:"type:varchar(32)"`

	PhotoURL string `json:"photo_url,omitempty" gorm:"type:text"` // R2 object URL
	Notes    string `json:"notes,omitempty"`

	Timestamps
}
