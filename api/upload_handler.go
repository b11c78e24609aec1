package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/linkedfolio-backend/errs"
	"github.com/rpupo63/linkedfolio-backend/ingestion"
)

// uploadFieldName is the multipart field the frontend submits the PDF under.
const uploadFieldName = "FILE"

// Ingestor runs the PDF-to-stored-profile pipeline. Satisfied by
// *ingestion.Pipeline; the indirection exists so handler behavior is
// testable without a database or a model backend.
type Ingestor interface {
	Ingest(ctx context.Context, userID string, payload []byte) (*ingestion.Result, ingestion.Timing, error)
}

type uploadHandler struct {
	responder      Responder
	logger         zerolog.Logger
	ingestor       Ingestor
	maxUploadBytes int64
}

func newUploadHandler(ingestor Ingestor, maxUploadBytes int64) uploadHandler {
	logger := log.With().Str("handlerName", "uploadHandler").Logger()

	return uploadHandler{
		responder:      NewResponder(logger),
		logger:         logger,
		ingestor:       ingestor,
		maxUploadBytes: maxUploadBytes,
	}
}

// uploadPDF accepts a single-file multipart upload and runs ingestion.
// Responses carry timing metadata on success and on failure alike, so the
// client can always show how long generation took.
func (h uploadHandler) uploadPDF() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
		if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(h.maxUploadBytes))
				return
			}
			h.responder.WriteError(w, errs.NewMalformedPayloadError("multipart form", err))
			return
		}

		files := r.MultipartForm.File[uploadFieldName]
		switch {
		case len(files) == 0:
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError(uploadFieldName))
			return
		case len(files) > 1:
			h.responder.WriteError(w, errs.NewInvalidFieldError(uploadFieldName, "exactly one file must be submitted"))
			return
		}

		file, err := files[0].Open()
		if err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("uploaded file", err))
			return
		}
		defer file.Close()

		payload, err := io.ReadAll(file)
		if err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("uploaded file", err))
			return
		}

		if contentType := http.DetectContentType(payload); contentType != "application/pdf" {
			h.responder.WriteError(w, errs.NewUnsupportedMediaTypeError(contentType, []string{"application/pdf"}))
			return
		}

		result, timing, err := h.ingestor.Ingest(r.Context(), userID, payload)
		if err != nil {
			h.writeIngestionError(w, err, timing)
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"success":   true,
			"slug":      result.Slug,
			"generated": result.Generated,
			"timing":    result.Timing,
		})
	}
}

// writeIngestionError reports a failed upload as one consolidated error plus
// whatever phase timings were measured before the pipeline stopped. Partial
// success is never reported as success.
func (h uploadHandler) writeIngestionError(w http.ResponseWriter, err error, timing ingestion.Timing) {
	h.logger.Error().Err(err).Int64("totalMs", timing.TotalTime).Msg("ingestion failed")

	h.responder.WriteJSONStatus(w, StatusCodeOf(err), map[string]any{
		"error":  err.Error(),
		"status": "error",
		"timing": timing,
	})
}
