package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Ingestion Pipeline Errors
var (
	ErrExtraction       = errors.New("pdf text extraction failed")
	ErrEmptyDocument    = errors.New("document contains no extractable text")
	ErrInferenceBackend = errors.New("inference backend request failed")
	ErrInferenceParse   = errors.New("model response could not be parsed")
	ErrCandidateInvalid = errors.New("candidate profile failed validation")
)

// NewExtractionError wraps a PDF parser failure. The uploaded payload was
// either not a well-formed PDF or could not be read.
func NewExtractionError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrExtraction,
		Details:    "Could not extract text from the uploaded PDF",
		Cause:      cause,
		Field:      "file",
	}
}

// NewEmptyDocumentError signals a well-formed PDF that yielded no usable text
// (e.g. a scanned image with no text layer).
func NewEmptyDocumentError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrEmptyDocument,
		Details:    "The PDF parsed successfully but produced no text",
		Field:      "file",
	}
}

// NewInferenceBackendError wraps a transport or API failure talking to the
// model backend.
func NewInferenceBackendError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrInferenceBackend,
		Details:    "The model backend did not return a response",
		Cause:      cause,
	}
}

// InferenceParseErr is returned when the model's textual response cannot be
// parsed into the profile schema. It carries the raw response so callers can
// log it for diagnosis; this is a recoverable condition, not a panic.
type InferenceParseErr struct {
	Raw   string // the model output that failed to parse
	Cause error
}

func NewInferenceParseError(raw string, cause error) *InferenceParseErr {
	return &InferenceParseErr{Raw: raw, Cause: cause}
}

func (e *InferenceParseErr) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", ErrInferenceParse.Error(), e.Cause.Error())
	}
	return ErrInferenceParse.Error()
}

func (e *InferenceParseErr) Unwrap() error {
	return ErrInferenceParse
}

// NewCandidateValidationError reports which schema fields the model output
// violated.
func NewCandidateValidationError(fieldErrors []string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrCandidateInvalid,
		Details:    strings.Join(fieldErrors, "; "),
	}
}

// Ingestion Error Type Checkers
func IsExtractionError(err error) bool {
	return errors.Is(err, ErrExtraction) || errors.Is(err, ErrEmptyDocument)
}

func IsInferenceBackendError(err error) bool {
	return errors.Is(err, ErrInferenceBackend)
}

func IsInferenceParseError(err error) bool {
	return errors.Is(err, ErrInferenceParse)
}

func IsCandidateInvalidError(err error) bool {
	return errors.Is(err, ErrCandidateInvalid)
}

// AsInferenceParse unwraps err into an *InferenceParseErr when the chain
// contains one, giving access to the raw model output.
func AsInferenceParse(err error) (*InferenceParseErr, bool) {
	var parseErr *InferenceParseErr
	if errors.As(err, &parseErr) {
		return parseErr, true
	}
	return nil, false
}
