// Package errdefs defines the failure taxonomy of the detection pipeline.
//
// Every stage reports failures as *Error values carrying a Kind. The kinds exist
// for logging and tests; callers of the process only ever see the message, wrapped
// in a single {"error": "..."} envelope.
package errdefs

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind int

const (
	// KindUnknown is reported for errors that were never classified.
	KindUnknown Kind = iota
	// KindInvalidInput covers empty, oversized or undecodable image bytes.
	KindInvalidInput
	// KindModelNotFound means the model artifact is missing at the expected path.
	KindModelNotFound
	// KindInferenceFailure means the backend failed during load or forward pass.
	KindInferenceFailure
	// KindSerializationFailure means the result could not be encoded.
	KindSerializationFailure
)

// Sentinels usable with errors.Is.
var (
	ErrInvalidInput         = &Error{Kind: KindInvalidInput}
	ErrModelNotFound        = &Error{Kind: KindModelNotFound}
	ErrInferenceFailure     = &Error{Kind: KindInferenceFailure}
	ErrSerializationFailure = &Error{Kind: KindSerializationFailure}
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "InvalidInput"
	case KindModelNotFound:
		return "ModelNotFound"
	case KindInferenceFailure:
		return "InferenceFailure"
	case KindSerializationFailure:
		return "SerializationFailure"
	default:
		return "Unknown"
	}
}

// Error is a classified pipeline failure. Msg is the human-readable text reported
// to the host; Err is the underlying cause, kept for logs.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so sentinels compare by kind only.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// InvalidInput returns a KindInvalidInput error with a formatted message.
func InvalidInput(cause error, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// ModelNotFound reports a missing model artifact at path.
func ModelNotFound(path string) *Error {
	return &Error{Kind: KindModelNotFound, Msg: fmt.Sprintf("Model file not found at: %s", path)}
}

// InferenceFailure wraps a backend error.
func InferenceFailure(cause error) *Error {
	return &Error{Kind: KindInferenceFailure, Msg: fmt.Sprintf("Inference failed: %v", cause), Err: cause}
}

// SerializationFailure wraps an encoding error.
func SerializationFailure(cause error) *Error {
	return &Error{Kind: KindSerializationFailure, Msg: fmt.Sprintf("Failed to encode results: %v", cause), Err: cause}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
