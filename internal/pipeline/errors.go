package pipeline

import (
	"errors"
	"fmt"
)

// Kind names the stage a failure came from.
type Kind int

const (
	KindExtraction Kind = iota + 1
	KindRecognition
	KindTranslation
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindExtraction:
		return "extraction"
	case KindRecognition:
		return "recognition"
	case KindTranslation:
		return "translation"
	case KindIO:
		return "io"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

var (
	// ErrNoWorkItems is returned by Discover when nothing matches. It is
	// informational; callers treat it as an empty run.
	ErrNoWorkItems = errors.New("no work items")

	// ErrRunInProgress means another run holds the destination lock.
	ErrRunInProgress = errors.New("another run is using this output directory")

	errEmptyTranslation = errors.New("translator returned an empty result")
)

// StageError is a failure of one stage for one work item.
type StageError struct {
	Kind    Kind
	Item    string
	Message string
	Err     error
}

func (e *StageError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageError(kind Kind, item, message string, err error) *StageError {
	return &StageError{Kind: kind, Item: item, Message: message, Err: err}
}

// KindOf returns the stage kind carried by err, or 0 when err is not a
// StageError.
func KindOf(err error) Kind {
	var se *StageError
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}
