package database

import (
	"gorm.io/gorm"
)

type Database struct {
	profileRepo *ProfileRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		profileRepo: NewProfileRepo(db),
	}
}

func (d Database) ProfileRepo() *ProfileRepo {
	return d.profileRepo
}
