package ingestion

import (
	"github.com/rpupo63/linkedfolio-backend/errs"
	"github.com/xeipuuv/gojsonschema"
)

// candidateSchema is the contract the model's JSON output must satisfy
// before anything typed is built from it. Nullable scalars, nullable arrays
// (normalized to empty later), and dates that are at least year-precise.
const candidateSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "name": {"type": ["string", "null"]},
    "location": {"type": ["string", "null"]},
    "bio": {"type": ["string", "null"]},
    "about": {"type": ["string", "null"]},
    "slug": {"type": ["string", "null"]},
    "skills": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string", "minLength": 1}
        }
      }
    },
    "experiences": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["role", "from"],
        "properties": {
          "role": {"type": "string", "minLength": 1},
          "company": {"type": ["string", "null"]},
          "description": {"type": ["string", "null"]},
          "from": {"type": "string", "pattern": "^\\d{4}(-\\d{2}(-\\d{2})?)?$"},
          "to": {"type": ["string", "null"], "pattern": "^\\d{4}(-\\d{2}(-\\d{2})?)?$"},
          "location": {"type": ["string", "null"]},
          "isCurrent": {"type": ["boolean", "null"]}
        }
      }
    },
    "projects": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "url": {"type": ["string", "null"]},
          "description": {"type": ["string", "null"]}
        }
      }
    },
    "socials": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["url", "icon"],
        "properties": {
          "url": {"type": "string", "minLength": 1},
          "icon": {"type": "string", "minLength": 1}
        }
      }
    },
    "education": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["degree", "institution", "from"],
        "properties": {
          "degree": {"type": "string", "minLength": 1},
          "institution": {"type": "string", "minLength": 1},
          "from": {"type": "string", "pattern": "^\\d{4}(-\\d{2}(-\\d{2})?)?$"},
          "to": {"type": ["string", "null"], "pattern": "^\\d{4}(-\\d{2}(-\\d{2})?)?$"},
          "location": {"type": ["string", "null"]},
          "description": {"type": ["string", "null"]}
        }
      }
    }
  }
}`

var candidateSchemaLoader = gojsonschema.NewStringLoader(candidateSchema)

// validateCandidateJSON checks a parsed-but-untyped model payload against the
// candidate schema. It returns nil when the payload conforms, or an error
// enumerating every failing field. Unchecked model output never reaches
// storage.
func validateCandidateJSON(payload []byte) error {
	result, err := gojsonschema.Validate(candidateSchemaLoader, gojsonschema.NewBytesLoader(payload))
	if err != nil {
		// The payload was already known to be valid JSON, so a failure here
		// is a schema-machinery problem, not a model problem.
		return errs.NewInternalErrorWithCause("candidate schema validation failed", err)
	}
	if result.Valid() {
		return nil
	}

	fieldErrors := make([]string, 0, len(result.Errors()))
	for _, resultErr := range result.Errors() {
		fieldErrors = append(fieldErrors, resultErr.String())
	}
	return errs.NewCandidateValidationError(fieldErrors)
}
