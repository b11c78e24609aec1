package models

import (
	"time"

	"github.com/google/uuid"
)

// Education is one schooling entry.
type Education struct {
	ID          uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProfileID   uuid.UUID  `json:"profileId" db:"profile_id" gorm:"type:uuid;not null;index"`
	Degree      string     `json:"degree" db:"degree" gorm:"type:varchar(100);not null"`
	Institution string     `json:"institution" db:"institution" gorm:"type:varchar(100);not null"`
	From        time.Time  `json:"from" db:"from" gorm:"column:from;type:date;not null"`
	To          *time.Time `json:"to" db:"to" gorm:"column:to;type:date"`
	Location    *string    `json:"location" db:"location" gorm:"type:varchar(100)"`
	Description *string    `json:"description" db:"description" gorm:"type:text"`
}

func (Education) TableName() string {
	return "education"
}
