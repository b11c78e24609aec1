package models

import "github.com/google/uuid"

// Skill is a single named skill attached to a profile.
type Skill struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProfileID uuid.UUID `json:"profileId" db:"profile_id" gorm:"type:uuid;not null;index"`
	Name      string    `json:"name" db:"name" gorm:"type:varchar(100);not null"`
}

func (Skill) TableName() string {
	return "skills"
}
