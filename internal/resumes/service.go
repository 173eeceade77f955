package resumes

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"smart-resume/internal/exports"
	"smart-resume/internal/extract"
	"smart-resume/internal/llm"
	"smart-resume/internal/preprocess"
	"smart-resume/internal/resume"
	"smart-resume/internal/shared/metrics"
	"smart-resume/internal/shared/telemetry"
	"smart-resume/internal/shared/util"
)

// Extractor turns uploaded bytes into plain text.
type Extractor func(ctx context.Context, fileName string, data []byte) (string, error)

// Service runs an upload through extraction, the model call, and persistence.
type Service struct {
	Extract Extractor
	LLM     llm.Client
	Exports *exports.Store
	NewID   func() string
}

// NewService constructs a Service using the package-level extractor and ids.
func NewService(client llm.Client, store *exports.Store) *Service {
	return &Service{
		Extract: extract.Text,
		LLM:     client,
		Exports: store,
		NewID:   exports.NewID,
	}
}

// Result is a persisted extraction.
type Result struct {
	ExportID string
	Record   resume.Record
}

// Parse takes one upload from receipt to persisted artifacts. Unsupported
// names and blank documents fail before the model is called.
func (s *Service) Parse(ctx context.Context, fileName string, data []byte) (Result, error) {
	metrics.IncUploadStarted()
	res, err := s.parse(ctx, fileName, data)
	if err != nil {
		metrics.IncUploadFailed(string(StageOf(err)))
		return Result{}, err
	}
	metrics.IncUploadSucceeded()
	return res, nil
}

func (s *Service) parse(ctx context.Context, fileName string, data []byte) (Result, error) {
	if !extract.Supported(fileName) {
		return Result{}, &StageError{Stage: StageValidate, Kind: ErrUnsupportedType}
	}

	logName := util.LogName(fileName)
	extractFn := s.Extract
	if extractFn == nil {
		extractFn = extract.Text
	}
	text, err := extractFn(ctx, fileName, data)
	if err != nil {
		if errors.Is(err, extract.ErrUnreadable) {
			telemetry.Warn("upload.unreadable", map[string]any{"file_name": logName, "error": err})
			return Result{}, &StageError{Stage: StageExtract, Kind: ErrUnreadable, Cause: err}
		}
		return Result{}, &StageError{Stage: StageExtract, Kind: errExtraction, Cause: err}
	}
	if strings.TrimSpace(text) == "" {
		return Result{}, &StageError{Stage: StageExtract, Kind: ErrNoText}
	}

	cleaned := preprocess.Clean(text)
	telemetry.Info("upload.normalized", map[string]any{
		"file_name":  logName,
		"size_bytes": len(data),
		"sha256":     util.Digest(data),
		"text_chars": len([]rune(cleaned)),
	})

	if s.LLM == nil {
		return Result{}, &StageError{Stage: StageAIParse, Kind: ErrAIParsing, Cause: llm.ErrNotConfigured}
	}
	start := time.Now()
	rec, err := s.LLM.ExtractResume(ctx, cleaned)
	metrics.ObserveLLMDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	if err != nil {
		return Result{}, &StageError{Stage: StageAIParse, Kind: ErrAIParsing, Cause: err}
	}
	if rec.IsFallback() {
		telemetry.Warn("upload.fallback", map[string]any{"file_name": logName, "reply_chars": len(rec.RawOutput)})
	}

	newID := s.NewID
	if newID == nil {
		newID = exports.NewID
	}
	id := newID()
	if s.Exports == nil {
		return Result{}, &StageError{Stage: StagePersist, Kind: ErrSave, Cause: errors.New("export store not configured")}
	}
	if err := s.Exports.Save(ctx, id, rec); err != nil {
		return Result{}, &StageError{Stage: StagePersist, Kind: ErrSave, Cause: err}
	}
	telemetry.Info("upload.persisted", map[string]any{"file_name": logName, "export_id": id, "kind": rec.Kind.String()})

	return Result{ExportID: id, Record: rec}, nil
}

// Open returns a stored artifact.
func (s *Service) Open(ctx context.Context, id string, kind exports.Kind) (io.ReadCloser, error) {
	if s.Exports == nil {
		return nil, ErrNotFound
	}
	rc, err := s.Exports.Open(ctx, id, kind)
	if err != nil {
		if errors.Is(err, exports.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rc, nil
}
