package store

import "errors"

// Kind classifies an Error. The set is closed: response shaping handles every value.
type Kind int

const (
	// KindBackend is a failure of the underlying storage. It is also the kind of every error
	// that is not an *Error.
	KindBackend Kind = iota
	KindValidation
	KindNotFound
	KindMalformedID
	KindUnknownRoute
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	case KindMalformedID:
		return "malformed id"
	case KindUnknownRoute:
		return "unknown route"
	default:
		return "backend"
	}
}

// Error is the error type returned by all stores.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind, so that errors.Is(err, ErrNotFound)
// matches every not-found error regardless of its message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrMalformedID  = &Error{Kind: KindMalformedID, Message: "malformatted id"}
	ErrUnknownRoute = &Error{Kind: KindUnknownRoute, Message: "unknown endpoint"}
)

// ValidationError returns an error of kind KindValidation with the message shown to clients.
func ValidationError(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

// NotFoundError returns an error of kind KindNotFound whose message is shown to clients.
func NotFoundError(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

// MalformedIDError wraps the parse failure of an id.
func MalformedIDError(err error) error {
	return &Error{Kind: KindMalformedID, Message: ErrMalformedID.Message, Err: err}
}

// BackendError wraps a failure of the underlying storage.
func BackendError(message string, err error) error {
	return &Error{Kind: KindBackend, Message: message, Err: err}
}

// KindOf returns the kind of err. Errors that are not an *Error are backend failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindBackend
}

// MessageOf returns the client-visible message carried by err, or "" if there is none.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}
