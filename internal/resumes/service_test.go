package resumes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"smart-resume/internal/exports"
	"smart-resume/internal/extract"
	"smart-resume/internal/llm"
	"smart-resume/internal/resume"
	"smart-resume/internal/shared/storage/object/local"
)

type recorder struct {
	extractCalls int
	llmCalls     int
	llmText      string
}

func newTestService(t *testing.T, text string, extractErr error, reply func(string) (resume.Record, error)) (*Service, *recorder) {
	t.Helper()
	objects, err := local.New(t.TempDir())
	if err != nil {
		t.Fatalf("local store: %v", err)
	}
	rec := &recorder{}
	svc := NewService(llm.ClientFunc(func(ctx context.Context, in string) (resume.Record, error) {
		rec.llmCalls++
		rec.llmText = in
		return reply(in)
	}), exports.NewStore(objects))
	svc.Extract = func(ctx context.Context, fileName string, data []byte) (string, error) {
		rec.extractCalls++
		return text, extractErr
	}
	return svc, rec
}

func structuredReply(string) (resume.Record, error) {
	return resume.ParseReply(`{"name":"Ann","skills":["Go","Rust"]}`), nil
}

func TestParseSuccessPersistsArtifacts(t *testing.T) {
	svc, rec := newTestService(t, "Ann\r\n  Go   engineer\n", nil, structuredReply)

	res, err := svc.Parse(context.Background(), "cv.PDF", []byte("%PDF"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !exports.ValidID(res.ExportID) {
		t.Fatalf("unexpected export id %q", res.ExportID)
	}
	if rec.llmText != "Ann Go engineer" {
		t.Fatalf("model received %q", rec.llmText)
	}
	if got := resume.String(res.Record.Profile.Name); got != "Ann" {
		t.Fatalf("unexpected record name %q", got)
	}
	for _, kind := range []exports.Kind{exports.KindJSON, exports.KindCSV} {
		rc, err := svc.Open(context.Background(), res.ExportID, kind)
		if err != nil {
			t.Fatalf("open %s: %v", kind, err)
		}
		data, _ := io.ReadAll(rc)
		rc.Close()
		if len(data) == 0 {
			t.Fatalf("empty %s artifact", kind)
		}
	}
}

func TestParseRejectsUnsupportedBeforeExtraction(t *testing.T) {
	for _, name := range []string{"resume.txt", "resume.doc", "resume", "resume.pdf.exe", ""} {
		svc, rec := newTestService(t, "text", nil, structuredReply)
		_, err := svc.Parse(context.Background(), name, []byte("data"))
		if !errors.Is(err, ErrUnsupportedType) {
			t.Fatalf("%q: expected ErrUnsupportedType, got %v", name, err)
		}
		if StageOf(err) != StageValidate {
			t.Fatalf("%q: unexpected stage %q", name, StageOf(err))
		}
		if rec.extractCalls != 0 || rec.llmCalls != 0 {
			t.Fatalf("%q: extraction or model call happened", name)
		}
	}
}

func TestParseBlankTextSkipsModel(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\r\t  "} {
		svc, rec := newTestService(t, text, nil, structuredReply)
		_, err := svc.Parse(context.Background(), "cv.docx", []byte("PK"))
		if !errors.Is(err, ErrNoText) {
			t.Fatalf("%q: expected ErrNoText, got %v", text, err)
		}
		if rec.llmCalls != 0 {
			t.Fatalf("%q: model was called", text)
		}
	}
}

func TestParseUnreadableDocument(t *testing.T) {
	svc, rec := newTestService(t, "", fmt.Errorf("%w: pdf: bad header", extract.ErrUnreadable), structuredReply)
	_, err := svc.Parse(context.Background(), "cv.pdf", []byte("junk"))
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable, got %v", err)
	}
	if !errors.Is(err, extract.ErrUnreadable) {
		t.Fatalf("expected extractor cause to be kept, got %v", err)
	}
	if rec.llmCalls != 0 {
		t.Fatal("model was called")
	}
}

func TestParseModelFailure(t *testing.T) {
	svc, _ := newTestService(t, "text", nil, func(string) (resume.Record, error) {
		return resume.Record{}, errors.New("chat completion status 503: overloaded")
	})
	_, err := svc.Parse(context.Background(), "cv.pdf", []byte("%PDF"))
	if !errors.Is(err, ErrAIParsing) {
		t.Fatalf("expected ErrAIParsing, got %v", err)
	}
	if got := causeText(err); got != "chat completion status 503: overloaded" {
		t.Fatalf("unexpected cause %q", got)
	}
	if StageOf(err) != StageAIParse {
		t.Fatalf("unexpected stage %q", StageOf(err))
	}
}

func TestParseFallbackIsPersisted(t *testing.T) {
	svc, _ := newTestService(t, "text", nil, func(string) (resume.Record, error) {
		return resume.ParseReply("Sure! Here is the JSON you asked for"), nil
	})
	res, err := svc.Parse(context.Background(), "cv.pdf", []byte("%PDF"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !res.Record.IsFallback() {
		t.Fatalf("expected fallback record, got %+v", res.Record)
	}
}

type failingStore struct{}

func (failingStore) Put(ctx context.Context, key, contentType string, r io.Reader) (int64, error) {
	return 0, errors.New("disk full")
}

func (failingStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, errors.New("disk gone")
}

func TestParseSaveFailure(t *testing.T) {
	svc, _ := newTestService(t, "text", nil, structuredReply)
	svc.Exports = exports.NewStore(failingStore{})

	_, err := svc.Parse(context.Background(), "cv.pdf", []byte("%PDF"))
	if !errors.Is(err, ErrSave) {
		t.Fatalf("expected ErrSave, got %v", err)
	}
	if StageOf(err) != StagePersist {
		t.Fatalf("unexpected stage %q", StageOf(err))
	}
}

func TestOpenUnknownExport(t *testing.T) {
	svc, _ := newTestService(t, "text", nil, structuredReply)
	for _, kind := range exports.Kinds {
		if _, err := svc.Open(context.Background(), exports.NewID(), kind); !errors.Is(err, ErrNotFound) {
			t.Fatalf("%s: expected ErrNotFound, got %v", kind, err)
		}
	}
}
