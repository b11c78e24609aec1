package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/linkedfolio-backend/errs"
	"github.com/rpupo63/linkedfolio-backend/ingestion"
	"github.com/rpupo63/linkedfolio-backend/models"
)

// fakeIngestor returns canned results so upload handling can be tested
// without the pipeline.
type fakeIngestor struct {
	result   *ingestion.Result
	timing   ingestion.Timing
	err      error
	payloads [][]byte
	userIDs  []string
}

func (f *fakeIngestor) Ingest(_ context.Context, userID string, payload []byte) (*ingestion.Result, ingestion.Timing, error) {
	f.userIDs = append(f.userIDs, userID)
	f.payloads = append(f.payloads, payload)
	return f.result, f.timing, f.err
}

// multipartBody builds a multipart form with the payload under fieldName.
func multipartBody(t *testing.T, fieldName string, payloads ...[]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, payload := range payloads {
		part, err := writer.CreateFormFile(fieldName, "resume.pdf")
		require.NoError(t, err)
		_, err = part.Write(payload)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func uploadRequest(t *testing.T, userID string, body *bytes.Buffer, contentType string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/upload-pdf", body)
	req.Header.Set("Content-Type", contentType)
	if userID != "" {
		req = req.WithContext(ctxWithUserID(req.Context(), userID))
	}
	return req
}

var pdfPayload = []byte("%PDF-1.4\nfake document body")

func TestUploadPDF(t *testing.T) {
	name := "Jane Doe"
	ingestor := &fakeIngestor{
		result: &ingestion.Result{
			Slug:      "jane-Ab12Cd",
			Generated: &ingestion.CandidateProfile{Name: &name},
			Profile:   &models.Profile{},
			Timing:    ingestion.Timing{TotalTime: 1200, AIGenerationTime: 900, DatabaseTime: 50},
		},
	}
	handler := newUploadHandler(ingestor, defaultMaxUploadBytes)

	body, contentType := multipartBody(t, uploadFieldName, pdfPayload)
	rec := httptest.NewRecorder()
	handler.uploadPDF()(rec, uploadRequest(t, "user-123", body, contentType))

	require.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Success bool             `json:"success"`
		Slug    string           `json:"slug"`
		Timing  ingestion.Timing `json:"timing"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.Equal(t, "jane-Ab12Cd", response.Slug)
	assert.Equal(t, int64(1200), response.Timing.TotalTime)

	require.Len(t, ingestor.userIDs, 1)
	assert.Equal(t, "user-123", ingestor.userIDs[0])
	assert.Equal(t, pdfPayload, ingestor.payloads[0])
}

func TestUploadPDFUnauthenticated(t *testing.T) {
	handler := newUploadHandler(&fakeIngestor{}, defaultMaxUploadBytes)

	body, contentType := multipartBody(t, uploadFieldName, pdfPayload)
	rec := httptest.NewRecorder()
	handler.uploadPDF()(rec, uploadRequest(t, "", body, contentType))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUploadPDFMissingFile(t *testing.T) {
	ingestor := &fakeIngestor{}
	handler := newUploadHandler(ingestor, defaultMaxUploadBytes)

	body, contentType := multipartBody(t, "WRONG_FIELD", pdfPayload)
	rec := httptest.NewRecorder()
	handler.uploadPDF()(rec, uploadRequest(t, "user-123", body, contentType))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, ingestor.payloads)
}

func TestUploadPDFMultipleFiles(t *testing.T) {
	ingestor := &fakeIngestor{}
	handler := newUploadHandler(ingestor, defaultMaxUploadBytes)

	body, contentType := multipartBody(t, uploadFieldName, pdfPayload, pdfPayload)
	rec := httptest.NewRecorder()
	handler.uploadPDF()(rec, uploadRequest(t, "user-123", body, contentType))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, ingestor.payloads)
}

func TestUploadPDFNotAPDF(t *testing.T) {
	ingestor := &fakeIngestor{}
	handler := newUploadHandler(ingestor, defaultMaxUploadBytes)

	body, contentType := multipartBody(t, uploadFieldName, []byte("plain text pretending to be a resume"))
	rec := httptest.NewRecorder()
	handler.uploadPDF()(rec, uploadRequest(t, "user-123", body, contentType))

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Empty(t, ingestor.payloads, "content sniffing must reject the payload before ingestion")
}

func TestUploadPDFBodyTooLarge(t *testing.T) {
	ingestor := &fakeIngestor{}
	handler := newUploadHandler(ingestor, 512)

	oversized := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("a"), 2048)...)
	body, contentType := multipartBody(t, uploadFieldName, oversized)
	rec := httptest.NewRecorder()
	handler.uploadPDF()(rec, uploadRequest(t, "user-123", body, contentType))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Empty(t, ingestor.payloads)
}

func TestUploadPDFIngestionConflict(t *testing.T) {
	ingestor := &fakeIngestor{
		err:    errs.NewAlreadyExists("profile"),
		timing: ingestion.Timing{TotalTime: 3},
	}
	handler := newUploadHandler(ingestor, defaultMaxUploadBytes)

	body, contentType := multipartBody(t, uploadFieldName, pdfPayload)
	rec := httptest.NewRecorder()
	handler.uploadPDF()(rec, uploadRequest(t, "user-123", body, contentType))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"),
		"error bodies are JSON and must say so")

	var response struct {
		Status string           `json:"status"`
		Error  string           `json:"error"`
		Timing ingestion.Timing `json:"timing"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "error", response.Status)
	assert.NotEmpty(t, response.Error)
	assert.Equal(t, int64(3), response.Timing.TotalTime, "failure responses still carry timing")
}

func TestUploadPDFIngestionFailure(t *testing.T) {
	ingestor := &fakeIngestor{err: errors.New("backend exploded")}
	handler := newUploadHandler(ingestor, defaultMaxUploadBytes)

	body, contentType := multipartBody(t, uploadFieldName, pdfPayload)
	rec := httptest.NewRecorder()
	handler.uploadPDF()(rec, uploadRequest(t, "user-123", body, contentType))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
