package models

import "github.com/google/uuid"

// Project is a portfolio project entry.
type Project struct {
	ID          uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProfileID   uuid.UUID `json:"profileId" db:"profile_id" gorm:"type:uuid;not null;index"`
	Name        string    `json:"name" db:"name" gorm:"type:varchar(100);not null"`
	URL         *string   `json:"url" db:"url" gorm:"type:varchar(255)"`
	Description *string   `json:"description" db:"description" gorm:"type:text"`
}

func (Project) TableName() string {
	return "projects"
}
