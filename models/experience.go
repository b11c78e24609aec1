package models

import (
	"time"

	"github.com/google/uuid"
)

// Experience is one work-history entry. A nil To together with IsCurrent
// marks an ongoing role.
type Experience struct {
	ID          uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProfileID   uuid.UUID  `json:"profileId" db:"profile_id" gorm:"type:uuid;not null;index"`
	Role        string     `json:"role" db:"role" gorm:"type:varchar(100);not null"`
	Company     *string    `json:"company" db:"company" gorm:"type:varchar(100)"`
	Description *string    `json:"description" db:"description" gorm:"type:text"`
	From        time.Time  `json:"from" db:"from" gorm:"column:from;type:date;not null"`
	To          *time.Time `json:"to" db:"to" gorm:"column:to;type:date"`
	Location    *string    `json:"location" db:"location" gorm:"type:varchar(100)"`
	IsCurrent   bool       `json:"isCurrent" db:"is_current" gorm:"not null;default:false"`
}

func (Experience) TableName() string {
	return "experiences"
}
