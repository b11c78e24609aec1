package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the root record for one user's public portfolio content.
// Each user owns at most one profile, enforced by the unique index on UserID.
type Profile struct {
	ID          uuid.UUID    `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	UserID      string       `json:"userId" db:"user_id" gorm:"type:varchar(64);not null;uniqueIndex"`
	Slug        string       `json:"slug" db:"slug" gorm:"type:varchar(64);not null;uniqueIndex"`
	Name        *string      `json:"name" db:"name" gorm:"type:varchar(100)"`
	Location    *string      `json:"location" db:"location" gorm:"type:varchar(100)"`
	Bio         *string      `json:"bio" db:"bio" gorm:"type:text"`
	About       *string      `json:"about" db:"about" gorm:"type:text"`
	CreatedAt   time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time    `json:"updatedAt" db:"updated_at" gorm:"not null"`
	IsPublished bool         `json:"isPublished" db:"is_published" gorm:"not null;default:false"`
	Skills      []Skill      `json:"skills" gorm:"foreignKey:ProfileID;references:ID;constraint:OnDelete:CASCADE"`
	Experiences []Experience `json:"experiences" gorm:"foreignKey:ProfileID;references:ID;constraint:OnDelete:CASCADE"`
	Projects    []Project    `json:"projects" gorm:"foreignKey:ProfileID;references:ID;constraint:OnDelete:CASCADE"`
	Socials     []Social     `json:"socials" gorm:"foreignKey:ProfileID;references:ID;constraint:OnDelete:CASCADE"`
	Education   []Education  `json:"education" gorm:"foreignKey:ProfileID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Profile) TableName() string {
	return "profiles"
}
