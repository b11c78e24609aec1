package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/rpupo63/linkedfolio-backend/config"
	"github.com/rpupo63/linkedfolio-backend/errs"
)

const defaultInferenceModel = "mistralai/mistral-small-3.2-24b-instruct-2506:free"

// extractionPrompt is the fixed instruction template sent with every
// document. The icon identifiers and date normalization rules here are load
// bearing: the frontend renders badges straight off the icon strings.
const extractionPrompt = `### Resume PDF to Structured JSON

**Task:** Extract and structure data from the resume text below into a clean JSON object matching the following schema. Only return the JSON, no explanations or additional text.

#### Required fields:
1. **name** - full name of the person.
2. **location** - location of the person (city/country).
3. **bio** - a short, catchy bio of the person in under 100 words, for the header section.
4. **about** - a long, detailed summary of the person, for the about section.
5. **slug** - just the first name, lowercase.
6. **skills** (array of objects)
   - name: skill name (e.g. "JavaScript", "React").
7. **experiences** (array of objects)
   - role: job title.
   - company: employer name.
   - description: job responsibilities (use the role if no description is available).
   - from: start date (YYYY-MM-DD).
   - to: end date (YYYY-MM-DD, null if current role).
   - isCurrent: boolean, true if current role.
   - location: work location (city/country).
8. **projects** (array of objects)
   - name: project title.
   - url: project link, if available.
   - description: brief explanation.
9. **socials** (array of objects) - check only for github, linkedin, portfolio, phone, mail
   - url: full link including https:// (or mailto:/tel: for mail and phone).
   - icon: one of {"github": "mdi:github", "linkedin": "mdi:linkedin", "portfolio": "mdi:globe", "mail": "mdi:email", "phone": "mdi:phone"}.
10. **education** (array of objects)
   - degree: degree name.
   - institution: institution name.
   - from: start date (YYYY-MM-DD).
   - to: end date (YYYY-MM-DD, null if ongoing).
   - location: education location (city/country).
   - description: education description.

#### Rules:
- Extract only the structured data. Ignore fillers (e.g. "See more", "Page 1 of 2").
- If a field is missing, use null, or [] for arrays.
- Normalize dates to YYYY-MM-DD.
- bio is short and catchy for the header; about is long and detailed for the about section.

---
The text to be processed is:
%s
---
`

// fencedJSONPattern matches a markdown code fence wrapping the payload,
// with or without a language tag.
var fencedJSONPattern = regexp.MustCompile("(?is)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// InferenceService turns extracted document text into a CandidateProfile by
// prompting a generative backend. The llms.Model is constructed once at
// startup and injected; the service holds no other state.
type InferenceService struct {
	model  llms.Model
	logger zerolog.Logger
}

func NewInferenceService(model llms.Model) *InferenceService {
	return &InferenceService{
		model:  model,
		logger: log.With().Str("component", "inference").Logger(),
	}
}

// NewOpenRouterModel builds the langchaingo client pointed at OpenRouter
// (an OpenAI-compatible API) from config.
func NewOpenRouterModel(c map[string]string) (llms.Model, error) {
	apiKey := config.GetString(c, "OPENROUTER_API_KEY", "")
	if apiKey == "" {
		return nil, errs.NewInternalError("OPENROUTER_API_KEY is not set")
	}

	return openai.New(
		openai.WithBaseURL(config.GetString(c, "OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1")),
		openai.WithToken(apiKey),
		openai.WithModel(config.GetString(c, "OPENROUTER_MODEL", defaultInferenceModel)),
	)
}

// InferProfile issues a single inference request for the given document text
// and parses the response into a validated CandidateProfile.
//
// Failure modes are distinct on purpose: a backend failure is a transport
// problem, a parse failure carries the raw response for diagnosis and is
// recoverable by re-uploading, and a validation failure names the fields the
// model got wrong.
func (s *InferenceService) InferProfile(ctx context.Context, documentText string) (*CandidateProfile, error) {
	prompt := fmt.Sprintf(extractionPrompt, documentText)

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(prompt)},
		},
	}

	response, err := s.model.GenerateContent(ctx, content, llms.WithTemperature(0.2))
	if err != nil {
		s.logger.Error().Err(err).Msg("inference backend request failed")
		return nil, errs.NewInferenceBackendError(err)
	}
	if len(response.Choices) == 0 {
		return nil, errs.NewInferenceParseError("", fmt.Errorf("backend returned no choices"))
	}

	raw := response.Choices[0].Content
	candidate, err := s.parseResponse(raw)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int("skills", len(candidate.Skills)).
		Int("experiences", len(candidate.Experiences)).
		Int("education", len(candidate.Education)).
		Msg("inferred candidate profile")

	return candidate, nil
}

// parseResponse extracts the JSON payload from the model's free text,
// validates it against the candidate schema, and builds the typed candidate.
func (s *InferenceService) parseResponse(raw string) (*CandidateProfile, error) {
	payload := extractJSONPayload(raw)
	payload = repairJSON(payload)

	if !json.Valid([]byte(payload)) {
		return nil, errs.NewInferenceParseError(raw, fmt.Errorf("payload is not valid JSON"))
	}

	if err := validateCandidateJSON([]byte(payload)); err != nil {
		return nil, err
	}

	var candidate CandidateProfile
	if err := json.Unmarshal([]byte(payload), &candidate); err != nil {
		return nil, errs.NewInferenceParseError(raw, err)
	}

	candidate.normalize()
	return &candidate, nil
}

// extractJSONPayload pulls the JSON object out of a response that may wrap it
// in a markdown code fence. A bare payload passes through untouched.
func extractJSONPayload(raw string) string {
	if match := fencedJSONPattern.FindStringSubmatch(raw); match != nil {
		return strings.TrimSpace(match[1])
	}

	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}

// repairJSON fixes the one malformation small instruct models produce often
// enough to matter: a trailing comma before a closing brace or bracket.
// Anything else still fails parsing and surfaces as a parse error.
func repairJSON(s string) string {
	var out strings.Builder
	out.Grow(len(s))

	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]

		if inString {
			out.WriteByte(ch)
			if escaped {
				escaped = false
			} else if ch == '\\' {
				escaped = true
			} else if ch == '"' {
				inString = false
			}
			continue
		}

		if ch == '"' {
			inString = true
			out.WriteByte(ch)
			continue
		}

		if ch == ',' {
			j := i + 1
			for j < len(s) && (s[j] == ' ' || s[j] == '\n' || s[j] == '\t' || s[j] == '\r') {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				continue // drop the trailing comma
			}
		}

		out.WriteByte(ch)
	}

	return out.String()
}
