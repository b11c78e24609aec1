package database

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rpupo63/linkedfolio-backend/errs"
	"github.com/rpupo63/linkedfolio-backend/models"
)

// setupTestRepo connects to the database named by TEST_DATABASE_DSN and
// migrates the schema. Tests are skipped when the variable is unset so the
// suite stays runnable without infrastructure.
func setupTestRepo(t *testing.T) *ProfileRepo {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set, skipping database integration tests")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.Exec("CREATE EXTENSION IF NOT EXISTS \"pgcrypto\"").Error)
	require.NoError(t, db.AutoMigrate(
		&models.Profile{},
		&models.Skill{},
		&models.Experience{},
		&models.Project{},
		&models.Social{},
		&models.Education{},
	))

	return NewProfileRepo(db)
}

func strPtr(s string) *string { return &s }

// testProfile builds an unsaved profile graph with a unique owner and slug.
func testProfile(t *testing.T, repo *ProfileRepo) *models.Profile {
	t.Helper()

	userID := "test-user-" + uuid.NewString()
	name := "Jane Doe"
	profile := &models.Profile{
		UserID:   userID,
		Slug:     "jane-" + uuid.NewString()[:8],
		Name:     &name,
		Location: strPtr("Berlin"),
		Bio:      strPtr("short bio"),
		About:    strPtr("long about"),
		Skills: []models.Skill{
			{Name: "Go"}, {Name: "PostgreSQL"}, {Name: "Docker"},
		},
		Experiences: []models.Experience{
			{Role: "Engineer", Company: strPtr("Acme"), From: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
			{Role: "Senior Engineer", Company: strPtr("Initech"), From: time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC), IsCurrent: true},
		},
		Socials: []models.Social{
			{URL: "https://github.com/jane", Icon: "mdi:github"},
		},
	}

	t.Cleanup(func() {
		if stored, err := repo.FindByUserID(userID); err == nil {
			_ = repo.Delete(stored.ID)
		}
	})

	return profile
}

func TestCreateWithChildren(t *testing.T) {
	repo := setupTestRepo(t)
	profile := testProfile(t, repo)

	require.NoError(t, repo.CreateWithChildren(profile))

	stored, err := repo.FindByUserID(profile.UserID)
	require.NoError(t, err)

	assert.Equal(t, profile.Slug, stored.Slug)
	assert.False(t, stored.IsPublished, "new profiles start as drafts")
	assert.Len(t, stored.Skills, 3)
	assert.Len(t, stored.Experiences, 2)
	assert.Len(t, stored.Projects, 0)
	assert.Len(t, stored.Socials, 1)
	assert.Len(t, stored.Education, 0)

	exists, err := repo.ExistsForUser(profile.UserID)
	require.NoError(t, err)
	assert.True(t, exists)

	taken, err := repo.SlugTaken(profile.Slug)
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestCreateSecondProfileForUser(t *testing.T) {
	repo := setupTestRepo(t)
	profile := testProfile(t, repo)
	require.NoError(t, repo.CreateWithChildren(profile))

	second := testProfile(t, repo)
	second.UserID = profile.UserID

	err := repo.CreateWithChildren(second)
	require.Error(t, err)
	assert.True(t, errs.IsUniqueConstraintViolationError(err))

	var apiErr *errs.ApiErr
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "user_id", apiErr.Field)
}

func TestCreateDuplicateSlug(t *testing.T) {
	repo := setupTestRepo(t)
	profile := testProfile(t, repo)
	require.NoError(t, repo.CreateWithChildren(profile))

	second := testProfile(t, repo)
	second.Slug = profile.Slug

	err := repo.CreateWithChildren(second)
	require.Error(t, err)
	assert.True(t, errs.IsUniqueConstraintViolationError(err))

	var apiErr *errs.ApiErr
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "slug", apiErr.Field)
}

func TestReplaceWithChildren(t *testing.T) {
	repo := setupTestRepo(t)
	profile := testProfile(t, repo)
	require.NoError(t, repo.CreateWithChildren(profile))

	oldSkillIDs := make(map[uuid.UUID]bool)
	for _, skill := range profile.Skills {
		oldSkillIDs[skill.ID] = true
	}

	updated := &models.Profile{
		ID:       profile.ID,
		Name:     strPtr("Jane A. Doe"),
		Location: strPtr("Hamburg"),
		Bio:      strPtr("new bio"),
		About:    strPtr("new about"),
		Skills:   []models.Skill{{Name: "Rust"}},
		Projects: []models.Project{{Name: "new project"}},
	}
	require.NoError(t, repo.ReplaceWithChildren(updated))

	stored, err := repo.FindByID(profile.ID)
	require.NoError(t, err)

	require.NotNil(t, stored.Name)
	assert.Equal(t, "Jane A. Doe", *stored.Name)
	require.Len(t, stored.Skills, 1)
	assert.Equal(t, "Rust", stored.Skills[0].Name)
	assert.Len(t, stored.Experiences, 0, "collections absent from the save are emptied")
	assert.Len(t, stored.Projects, 1)
	assert.False(t, oldSkillIDs[stored.Skills[0].ID], "child identifiers are regenerated on save")

	assert.Equal(t, profile.Slug, stored.Slug, "an editor save never touches the slug")
}

func TestReplaceWithChildrenMissingProfile(t *testing.T) {
	repo := setupTestRepo(t)

	err := repo.ReplaceWithChildren(&models.Profile{ID: uuid.New()})
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestUpdateSlug(t *testing.T) {
	repo := setupTestRepo(t)
	profile := testProfile(t, repo)
	require.NoError(t, repo.CreateWithChildren(profile))

	newSlug := fmt.Sprintf("renamed-%s", uuid.NewString()[:8])
	require.NoError(t, repo.UpdateSlug(profile.ID, newSlug))

	stored, err := repo.FindBySlug(newSlug)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, stored.ID)

	taken, err := repo.SlugTaken(profile.Slug)
	require.NoError(t, err)
	assert.False(t, taken, "the old slug is released")
}

func TestUpdateSlugConflict(t *testing.T) {
	repo := setupTestRepo(t)
	first := testProfile(t, repo)
	require.NoError(t, repo.CreateWithChildren(first))
	second := testProfile(t, repo)
	require.NoError(t, repo.CreateWithChildren(second))

	err := repo.UpdateSlug(second.ID, first.Slug)
	require.Error(t, err)
	assert.True(t, errs.IsUniqueConstraintViolationError(err))
}

func TestTogglePublish(t *testing.T) {
	repo := setupTestRepo(t)
	profile := testProfile(t, repo)
	require.NoError(t, repo.CreateWithChildren(profile))

	published, err := repo.TogglePublish(profile.ID)
	require.NoError(t, err)
	assert.True(t, published)

	published, err = repo.TogglePublish(profile.ID)
	require.NoError(t, err)
	assert.False(t, published, "toggling twice restores the draft state")
}

func TestDelete(t *testing.T) {
	repo := setupTestRepo(t)
	profile := testProfile(t, repo)
	require.NoError(t, repo.CreateWithChildren(profile))

	require.NoError(t, repo.Delete(profile.ID))

	_, err := repo.FindByID(profile.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	exists, err := repo.ExistsForUser(profile.UserID)
	require.NoError(t, err)
	assert.False(t, exists)

	// Deleting again reports not found rather than succeeding silently.
	err = repo.Delete(profile.ID)
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}
