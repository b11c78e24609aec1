package ingestion

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/linkedfolio-backend/errs"
)

// Extractor converts a PDF binary payload into plain text. Every invocation
// writes exactly one temporary file and removes it on every exit path,
// including parser errors and caller disconnects.
type Extractor struct {
	tempDir string
	logger  zerolog.Logger
}

func NewExtractor() *Extractor {
	return &Extractor{
		tempDir: os.TempDir(),
		logger:  log.With().Str("component", "extractor").Logger(),
	}
}

type parseOutcome struct {
	text string
	err  error
}

// ExtractText parses the payload and returns its plain text. The parse runs
// off the request goroutine so that a cancelled context returns promptly
// while temp-file cleanup still happens when the parse finishes.
func (e *Extractor) ExtractText(ctx context.Context, payload []byte) (string, error) {
	path := filepath.Join(e.tempDir, uuid.NewString()+".pdf")
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		return "", errs.NewExtractionError(err)
	}

	done := make(chan parseOutcome, 1)
	go func() {
		defer func() {
			if removeErr := os.Remove(path); removeErr != nil {
				e.logger.Error().Err(removeErr).Str("path", path).Msg("failed to remove temporary pdf")
			}
		}()
		text, err := parsePDFFile(path)
		done <- parseOutcome{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		// The goroutine above still owns the temp file and removes it once
		// the parser returns.
		return "", errs.NewExtractionError(ctx.Err())
	case outcome := <-done:
		if outcome.err != nil {
			return "", errs.NewExtractionError(outcome.err)
		}
		if strings.TrimSpace(outcome.text) == "" {
			return "", errs.NewEmptyDocumentError()
		}
		return outcome.text, nil
	}
}

// parsePDFFile reads the whole text layer of the PDF at path. The pdf
// package panics on some malformed inputs, so the panic is converted into an
// ordinary error here rather than taking the request down.
func parsePDFFile(path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	plainText, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plainText); err != nil {
		return "", err
	}
	return buf.String(), nil
}
