package models

import "github.com/google/uuid"

// Social is an external link shown on the profile. Icon is the identifier
// the frontend uses to pick a badge (e.g. "mdi:github") and is always set.
type Social struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProfileID uuid.UUID `json:"profileId" db:"profile_id" gorm:"type:uuid;not null;index"`
	URL       string    `json:"url" db:"url" gorm:"type:varchar(255);not null"`
	Icon      string    `json:"icon" db:"icon" gorm:"type:varchar(255);not null"`
}

func (Social) TableName() string {
	return "socials"
}
