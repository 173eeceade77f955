package llm

import (
	"context"
	"errors"

	"smart-resume/internal/resume"
)

// Client abstracts the hosted model that turns résumé text into a record.
type Client interface {
	ExtractResume(ctx context.Context, text string) (resume.Record, error)
}

// ErrNotConfigured reports a service built without a model client.
var ErrNotConfigured = errors.New("llm client not configured")

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, text string) (resume.Record, error)

// ExtractResume calls f.
func (f ClientFunc) ExtractResume(ctx context.Context, text string) (resume.Record, error) {
	return f(ctx, text)
}
