package resumes

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrTooLarge        = errors.New("file too large")
	ErrUnreadable      = errors.New("unreadable file")
	ErrNoText          = errors.New("no text found")
	ErrAIParsing       = errors.New("ai parsing failed")
	ErrSave            = errors.New("save failed")
	ErrNotFound        = errors.New("export not found")

	errExtraction = errors.New("text extraction failed")
)

// Stage names the step of an upload that produced an error.
type Stage string

const (
	StageValidate Stage = "validate"
	StageExtract  Stage = "extract"
	StageAIParse  Stage = "ai_parse"
	StagePersist  Stage = "persist"
)

// StageError ties a failure kind, one of the sentinels above, to the stage it
// stopped at and the underlying cause, if any.
type StageError struct {
	Stage Stage
	Kind  error
	Cause error
}

func (e *StageError) Error() string {
	if e.Cause == nil {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Cause.Error()
}

func (e *StageError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// StageOf returns the stage recorded on err, or "" when there is none.
func StageOf(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}

// causeText returns the message of the error behind a stage failure.
func causeText(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		if se.Cause != nil {
			return se.Cause.Error()
		}
		return ""
	}
	return err.Error()
}
