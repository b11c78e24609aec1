package ingestion

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/linkedfolio-backend/errs"
	"github.com/rpupo63/linkedfolio-backend/models"
)

// slugCreateAttempts bounds how many times ingestion regenerates the slug
// suffix after losing a uniqueness race. With a 62^6 suffix space a second
// collision in a row means something is wrong beyond bad luck.
const slugCreateAttempts = 3

// ProfileStore is the slice of the persistence layer ingestion needs.
type ProfileStore interface {
	ExistsForUser(userID string) (bool, error)
	CreateWithChildren(profile *models.Profile) error
}

// Timing reports how long each ingestion phase took, in milliseconds. It is
// returned to the client for "generation took Ns" feedback and is populated
// as far as the pipeline got even when ingestion fails.
type Timing struct {
	TotalTime        int64 `json:"totalTime"`
	AIGenerationTime int64 `json:"aiGenerationTime"`
	DatabaseTime     int64 `json:"databaseTime"`
}

// Result is a completed ingestion: the stored profile graph, the slug it is
// addressable under, and the candidate the model produced (echoed back so
// the client can render a preview without refetching).
type Result struct {
	Slug      string
	Generated *CandidateProfile
	Profile   *models.Profile
	Timing    Timing
}

// Pipeline runs the end-to-end ingestion flow: PDF binary, extracted text,
// inferred candidate, unique slug, persisted profile graph.
type Pipeline struct {
	extractor *Extractor
	inference *InferenceService
	store     ProfileStore
	logger    zerolog.Logger
}

func NewPipeline(extractor *Extractor, inference *InferenceService, store ProfileStore) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		inference: inference,
		store:     store,
		logger:    log.With().Str("component", "ingestion").Logger(),
	}
}

// Ingest processes one uploaded PDF for userID. On failure the returned
// Timing still carries whatever phase durations were measured before the
// pipeline stopped; no partially written profile survives a failure.
func (p *Pipeline) Ingest(ctx context.Context, userID string, payload []byte) (*Result, Timing, error) {
	start := time.Now()
	var timing Timing

	// The unique index on user_id is what actually holds this invariant;
	// the check just turns the common case into a clean conflict before any
	// model spend.
	exists, err := p.store.ExistsForUser(userID)
	if err != nil {
		timing.TotalTime = time.Since(start).Milliseconds()
		return nil, timing, errs.NewDatabaseError("check existing", "profile", err)
	}
	if exists {
		timing.TotalTime = time.Since(start).Milliseconds()
		return nil, timing, errs.NewAlreadyExists("profile")
	}

	text, err := p.extractor.ExtractText(ctx, payload)
	if err != nil {
		timing.TotalTime = time.Since(start).Milliseconds()
		return nil, timing, err
	}

	aiStart := time.Now()
	candidate, err := p.inference.InferProfile(ctx, text)
	timing.AIGenerationTime = time.Since(aiStart).Milliseconds()
	if err != nil {
		timing.TotalTime = time.Since(start).Milliseconds()
		if parseErr, ok := errs.AsInferenceParse(err); ok {
			p.logger.Error().Str("raw", parseErr.Raw).Msg("model response did not parse")
		}
		return nil, timing, err
	}

	profile, err := candidate.ToProfile(userID)
	if err != nil {
		timing.TotalTime = time.Since(start).Milliseconds()
		return nil, timing, err
	}

	dbStart := time.Now()
	slug, err := p.createWithUniqueSlug(profile, candidate.SlugSeed())
	timing.DatabaseTime = time.Since(dbStart).Milliseconds()
	timing.TotalTime = time.Since(start).Milliseconds()
	if err != nil {
		return nil, timing, err
	}

	p.logger.Info().
		Str("slug", slug).
		Int64("totalMs", timing.TotalTime).
		Int64("aiMs", timing.AIGenerationTime).
		Msg("profile ingested")

	return &Result{
		Slug:      slug,
		Generated: candidate,
		Profile:   profile,
		Timing:    timing,
	}, timing, nil
}

// createWithUniqueSlug persists the graph, regenerating the slug suffix when
// an insert loses the uniqueness race on the slug column. Conflicts on the
// owning user are not retryable and pass through.
func (p *Pipeline) createWithUniqueSlug(profile *models.Profile, seed string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < slugCreateAttempts; attempt++ {
		profile.Slug = GenerateSlug(seed)
		err := p.store.CreateWithChildren(profile)
		if err == nil {
			return profile.Slug, nil
		}
		if !isSlugConflict(err) {
			return "", err
		}
		p.logger.Warn().Str("slug", profile.Slug).Int("attempt", attempt+1).Msg("slug collision, regenerating")
		lastErr = err
	}
	return "", lastErr
}

func isSlugConflict(err error) bool {
	if !errs.IsUniqueConstraintViolationError(err) {
		return false
	}
	var apiErr *errs.ApiErr
	return errors.As(err, &apiErr) && apiErr.Field == "slug"
}
