package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/linkedfolio-backend/errs"
)

func TestValidateCandidateJSON(t *testing.T) {
	valid := []string{
		`{}`,
		`{"name": null, "skills": null}`,
		`{"name": "Jane", "skills": [{"name": "Go"}]}`,
		`{"experiences": [{"role": "Engineer", "from": "2020"}]}`,
		`{"experiences": [{"role": "Engineer", "from": "2020-06"}]}`,
		`{"education": [{"degree": "BSc", "institution": "TU", "from": "2014-09-01", "to": null}]}`,
	}
	for _, payload := range valid {
		assert.NoError(t, validateCandidateJSON([]byte(payload)), "payload %s", payload)
	}
}

func TestValidateCandidateJSONRejections(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"skill without name", `{"skills": [{"level": "expert"}]}`},
		{"empty skill name", `{"skills": [{"name": ""}]}`},
		{"experience without role", `{"experiences": [{"from": "2020"}]}`},
		{"experience without from", `{"experiences": [{"role": "Engineer"}]}`},
		{"non-date from", `{"experiences": [{"role": "Engineer", "from": "June 2020"}]}`},
		{"social without icon", `{"socials": [{"url": "https://example.com"}]}`},
		{"education without institution", `{"education": [{"degree": "BSc", "from": "2014"}]}`},
		{"name as number", `{"name": 42}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCandidateJSON([]byte(tt.payload))
			require.Error(t, err)
			assert.True(t, errs.IsCandidateInvalidError(err))
		})
	}
}
