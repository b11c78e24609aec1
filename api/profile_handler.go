package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/linkedfolio-backend/errs"
	"github.com/rpupo63/linkedfolio-backend/ingestion"
	"github.com/rpupo63/linkedfolio-backend/models"
)

// profileStore is the slice of the persistence layer the profile routes
// need. Satisfied by *database.ProfileRepo; the indirection exists so handler
// behavior is testable without a database.
type profileStore interface {
	FindByUserID(userID string) (*models.Profile, error)
	FindBySlug(slug string) (*models.Profile, error)
	FindByID(id uuid.UUID) (*models.Profile, error)
	ExistsForUser(userID string) (bool, error)
	SlugTaken(slug string) (bool, error)
	UpdateSlug(id uuid.UUID, slug string) error
	TogglePublish(id uuid.UUID) (bool, error)
	ReplaceWithChildren(profile *models.Profile) error
	Delete(id uuid.UUID) error
}

type profileHandler struct {
	responder   Responder
	logger      zerolog.Logger
	profileRepo profileStore
}

func newProfileHandler(profileRepo profileStore) profileHandler {
	logger := log.With().Str("handlerName", "profileHandler").Logger()

	return profileHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		profileRepo: profileRepo,
	}
}

// getProfile returns the caller's own profile joined with all child
// collections, published or not.
func (h profileHandler) getProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		profile, err := h.profileRepo.FindByUserID(userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find profile", "profile", err))
			return
		}

		h.responder.WriteJSON(w, profile)
	}
}

// profileExists reports whether the caller already has a profile. The upload
// page uses this to redirect straight to the editor.
func (h profileHandler) profileExists() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		exists, err := h.profileRepo.ExistsForUser(userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("check profile", "profile", err))
			return
		}

		h.responder.WriteJSON(w, map[string]bool{"exists": exists})
	}
}

// slugAvailable answers whether a candidate slug is free. The interactive
// slug editor checks here before saving; the unique index still backs it up.
func (h profileHandler) slugAvailable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := r.URL.Query().Get("slug")
		if slug == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("slug"))
			return
		}

		taken, err := h.profileRepo.SlugTaken(slug)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("check slug", "profile", err))
			return
		}

		h.responder.WriteJSON(w, map[string]bool{"available": !taken})
	}
}

// updateSlug changes the caller's slug. Availability is assumed to have been
// checked via slugAvailable; losing the race yields a 409 from the unique
// index rather than a duplicate.
func (h profileHandler) updateSlug() http.HandlerFunc {
	type request struct {
		Slug string `json:"slug"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		profile, ok := h.requireOwnedProfile(w, r)
		if !ok {
			return
		}

		var body request
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("slug update", err))
			return
		}
		if body.Slug == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("slug"))
			return
		}
		if !ingestion.ValidSlug(body.Slug) {
			h.responder.WriteError(w, errs.NewInvalidFieldError("slug", "must contain only letters, digits, and interior hyphens"))
			return
		}

		if err := h.profileRepo.UpdateSlug(profile.ID, body.Slug); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status": "success",
			"slug":   body.Slug,
		})
	}
}

// togglePublish flips the published flag and reports the new state.
func (h profileHandler) togglePublish() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, ok := h.requireOwnedProfile(w, r)
		if !ok {
			return
		}

		published, err := h.profileRepo.TogglePublish(profile.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("toggle publish", "profile", err))
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"status":      "success",
			"isPublished": published,
		})
	}
}

// updateProfile applies one editor save: scalar fields plus a wholesale
// replacement of every child collection, atomically. Child identifiers are
// regenerated on every save.
func (h profileHandler) updateProfile() http.HandlerFunc {
	type request struct {
		Name        *string             `json:"name"`
		Location    *string             `json:"location"`
		Bio         *string             `json:"bio"`
		About       *string             `json:"about"`
		Skills      []models.Skill      `json:"skills"`
		Experiences []models.Experience `json:"experiences"`
		Projects    []models.Project    `json:"projects"`
		Socials     []models.Social     `json:"socials"`
		Education   []models.Education  `json:"education"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		profile, ok := h.requireOwnedProfile(w, r)
		if !ok {
			return
		}

		var body request
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode profile update body")
			h.responder.WriteError(w, errs.NewMalformedPayloadError("profile update", err))
			return
		}

		updated := &models.Profile{
			ID:          profile.ID,
			Name:        body.Name,
			Location:    body.Location,
			Bio:         body.Bio,
			About:       body.About,
			Skills:      body.Skills,
			Experiences: body.Experiences,
			Projects:    body.Projects,
			Socials:     body.Socials,
			Education:   body.Education,
		}

		if err := h.profileRepo.ReplaceWithChildren(updated); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		// Reload so the response carries the identifiers actually stored
		stored, err := h.profileRepo.FindByID(profile.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find updated profile", "profile", err))
			return
		}

		h.responder.WriteJSON(w, stored)
	}
}

// deleteProfile removes the caller's profile and every child row.
func (h profileHandler) deleteProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, ok := h.requireOwnedProfile(w, r)
		if !ok {
			return
		}

		if err := h.profileRepo.Delete(profile.ID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "profile deleted successfully",
		})
	}
}

// getPublicProfile serves the public page lookup: slug to profile graph,
// only while published. Draft profiles are indistinguishable from absent
// ones so unpublished content never leaks.
func (h profileHandler) getPublicProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if slug == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing slug"))
			return
		}

		// An absent row and a draft produce identical 404s; any other
		// repository failure keeps its own status so an outage does not
		// masquerade as a missing profile.
		profile, err := h.profileRepo.FindBySlug(slug)
		if err != nil {
			wrapped := wrapDatabaseError("find profile", "profile", err)
			if errs.IsNotFound(wrapped) {
				h.responder.WriteError(w, errs.NewNotFound("profile"))
				return
			}
			h.responder.WriteError(w, wrapped)
			return
		}
		if !profile.IsPublished {
			h.responder.WriteError(w, errs.NewNotFound("profile"))
			return
		}

		h.responder.WriteJSON(w, profile)
	}
}

// requireOwnedProfile resolves the route's profileID, loads the profile, and
// verifies the caller owns it. Mutating a profile you do not own is a 403,
// not a 404, because the route param is an opaque uuid, not the public slug.
func (h profileHandler) requireOwnedProfile(w http.ResponseWriter, r *http.Request) (*models.Profile, bool) {
	userID, err := ctxGetUserID(r.Context())
	if err != nil {
		h.responder.WriteError(w, errs.Unauthorized)
		return nil, false
	}

	profileIDStr := chi.URLParam(r, "profileID")
	if profileIDStr == "" {
		h.responder.WriteError(w, errs.NewBadRequestError("missing profileID"))
		return nil, false
	}

	profileID, err := uuid.Parse(profileIDStr)
	if err != nil {
		h.responder.WriteError(w, errs.NewBadRequestError("invalid profileID"))
		return nil, false
	}

	profile, err := h.profileRepo.FindByID(profileID)
	if err != nil {
		h.responder.WriteError(w, wrapDatabaseError("find profile", "profile", err))
		return nil, false
	}

	if profile.UserID != userID {
		h.responder.WriteError(w, errs.NewForbiddenError("profile belongs to another user"))
		return nil, false
	}

	return profile, true
}

// wrapDatabaseError wraps a database error with context information
func wrapDatabaseError(operation, entity string, cause error) error {
	return errs.NewDatabaseError(operation, entity, cause)
}
