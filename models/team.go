package models

// Team groups members, activity logs, and a single current ranking.
type Team struct {
	ID      string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name    string `gorm:"not null" json:"name"`
	Slug    string `gorm:"uniqueIndex;not null" json:"slug"` // URL-safe handle derived from name
	Sport   string `json:"sport,omitempty"`                  // e.g., "hockey"
	LogoURL string `json:"logo_url,omitempty"`

	Members []TeamMember `gorm:"foreignKey:TeamID" json:"members,omitempty"`

	Timestamps
}
