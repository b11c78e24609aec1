package database

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rpupo63/linkedfolio-backend/errs"
	"github.com/rpupo63/linkedfolio-backend/models"
)

type ProfileRepo struct {
	db *gorm.DB
}

func NewProfileRepo(db *gorm.DB) *ProfileRepo {
	return &ProfileRepo{db}
}

// preloaded returns a query that joins the profile with all five child
// collections. Every read of a profile goes through this; a profile without
// its children is not a useful unit anywhere in the system.
func (r *ProfileRepo) preloaded() *gorm.DB {
	return r.db.
		Preload("Skills").
		Preload("Experiences").
		Preload("Projects").
		Preload("Socials").
		Preload("Education")
}

// FindByUserID returns the profile graph owned by userID.
func (r *ProfileRepo) FindByUserID(userID string) (*models.Profile, error) {
	var profile models.Profile
	err := r.preloaded().Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindBySlug returns the profile graph addressed by slug, published or not.
// Callers serving the public page must check IsPublished themselves.
func (r *ProfileRepo) FindBySlug(slug string) (*models.Profile, error) {
	var profile models.Profile
	err := r.preloaded().Where("slug = ?", slug).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByID returns the profile graph by its identifier.
func (r *ProfileRepo) FindByID(id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := r.preloaded().Where("id = ?", id).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// ExistsForUser reports whether userID already owns a profile.
func (r *ProfileRepo) ExistsForUser(userID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Profile{}).Where("user_id = ?", userID).Count(&count).Error
	return count > 0, err
}

// SlugTaken reports whether any profile already uses slug.
func (r *ProfileRepo) SlugTaken(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Profile{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// CreateWithChildren inserts the profile row and every non-empty child
// collection as one transaction. Either the whole graph lands or none of it
// does. Fresh identifiers and timestamps are assigned here; IsPublished
// always starts false.
func (r *ProfileRepo) CreateWithChildren(profile *models.Profile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	profile.IsPublished = false
	assignChildKeys(profile)

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(profile).Error; err != nil {
			return translateWriteError("profiles", err)
		}
		return insertChildren(tx, profile)
	})
}

// ReplaceWithChildren applies one editor save: scalar fields are updated and
// each child collection is wholesale deleted and re-inserted inside one
// transaction. Child identifiers are not stable across saves.
func (r *ProfileRepo) ReplaceWithChildren(profile *models.Profile) error {
	assignChildKeys(profile)

	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Profile{}).Where("id = ?", profile.ID).Updates(map[string]any{
			"name":       profile.Name,
			"location":   profile.Location,
			"bio":        profile.Bio,
			"about":      profile.About,
			"updated_at": time.Now(),
		})
		if result.Error != nil {
			return translateWriteError("profiles", result.Error)
		}
		if result.RowsAffected == 0 {
			return errs.NewNotFound("profile")
		}

		if err := deleteChildren(tx, profile.ID); err != nil {
			return err
		}
		return insertChildren(tx, profile)
	})
}

// UpdateSlug sets a new slug for the profile. Availability is expected to be
// checked by the caller beforehand; a losing race ends in a conflict error
// from the unique index, never a duplicate slug.
func (r *ProfileRepo) UpdateSlug(id uuid.UUID, slug string) error {
	result := r.db.Model(&models.Profile{}).Where("id = ?", id).Updates(map[string]any{
		"slug":       slug,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return translateWriteError("profiles", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound("profile")
	}
	return nil
}

// TogglePublish flips the published flag and returns the new state. Toggling
// twice restores the original state; there is no other publication state.
func (r *ProfileRepo) TogglePublish(id uuid.UUID) (bool, error) {
	var published bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var profile models.Profile
		if err := tx.Select("id", "is_published").Where("id = ?", id).First(&profile).Error; err != nil {
			return err
		}
		published = !profile.IsPublished
		return tx.Model(&models.Profile{}).Where("id = ?", id).Updates(map[string]any{
			"is_published": published,
			"updated_at":   time.Now(),
		}).Error
	})
	return published, err
}

// Delete removes the profile and every row in every child table that
// references it, as one transaction.
func (r *ProfileRepo) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := deleteChildren(tx, id); err != nil {
			return err
		}
		result := tx.Delete(&models.Profile{}, id)
		if result.Error != nil {
			return translateWriteError("profiles", result.Error)
		}
		if result.RowsAffected == 0 {
			return errs.NewNotFound("profile")
		}
		return nil
	})
}

// assignChildKeys gives every child row a fresh identifier and the owning
// profile's foreign key.
func assignChildKeys(profile *models.Profile) {
	for i := range profile.Skills {
		profile.Skills[i].ID = uuid.New()
		profile.Skills[i].ProfileID = profile.ID
	}
	for i := range profile.Experiences {
		profile.Experiences[i].ID = uuid.New()
		profile.Experiences[i].ProfileID = profile.ID
	}
	for i := range profile.Projects {
		profile.Projects[i].ID = uuid.New()
		profile.Projects[i].ProfileID = profile.ID
	}
	for i := range profile.Socials {
		profile.Socials[i].ID = uuid.New()
		profile.Socials[i].ProfileID = profile.ID
	}
	for i := range profile.Education {
		profile.Education[i].ID = uuid.New()
		profile.Education[i].ProfileID = profile.ID
	}
}

func insertChildren(tx *gorm.DB, profile *models.Profile) error {
	if len(profile.Skills) > 0 {
		if err := tx.Create(&profile.Skills).Error; err != nil {
			return translateWriteError("skills", err)
		}
	}
	if len(profile.Experiences) > 0 {
		if err := tx.Create(&profile.Experiences).Error; err != nil {
			return translateWriteError("experiences", err)
		}
	}
	if len(profile.Projects) > 0 {
		if err := tx.Create(&profile.Projects).Error; err != nil {
			return translateWriteError("projects", err)
		}
	}
	if len(profile.Socials) > 0 {
		if err := tx.Create(&profile.Socials).Error; err != nil {
			return translateWriteError("socials", err)
		}
	}
	if len(profile.Education) > 0 {
		if err := tx.Create(&profile.Education).Error; err != nil {
			return translateWriteError("education", err)
		}
	}
	return nil
}

func deleteChildren(tx *gorm.DB, profileID uuid.UUID) error {
	for _, model := range []any{
		&models.Skill{}, &models.Experience{}, &models.Project{}, &models.Social{}, &models.Education{},
	} {
		if err := tx.Where("profile_id = ?", profileID).Delete(model).Error; err != nil {
			return translateWriteError("profile children", err)
		}
	}
	return nil
}

// translateWriteError maps driver failures onto the errs taxonomy. Unique
// violations name the column so callers can tell a slug collision (retryable
// with a new suffix) from a second profile for the same user (a 409).
func translateWriteError(entity string, err error) error {
	var apiErr *errs.ApiErr
	if errors.As(err, &apiErr) {
		return err
	}

	msg := err.Error()
	if strings.Contains(msg, "duplicate key") {
		switch {
		case strings.Contains(msg, "user_id"):
			return errs.NewUniqueConstraintViolationError(entity, "user_id", err)
		case strings.Contains(msg, "slug"):
			return errs.NewUniqueConstraintViolationError(entity, "slug", err)
		}
	}
	return errs.NewDatabaseError("write", entity, err)
}
