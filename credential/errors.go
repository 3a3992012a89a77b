package credential

import (
	"errors"
	"fmt"
)

// Kind classifies a GetCredentialError
type Kind int

const (
	// KindCancelled means the user dismissed the picker or denied consent
	KindCancelled Kind = iota
	// KindNoCredential means no requested option could be satisfied
	KindNoCredential
	// KindInterrupted means the picker flow broke off before a credential was issued
	KindInterrupted
)

// String returns a human-readable representation of the kind
func (k Kind) String() string {
	switch k {
	case KindCancelled:
		return "cancelled"
	case KindNoCredential:
		return "no_credential"
	case KindInterrupted:
		return "interrupted"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Sentinels for errors.Is matching against GetCredentialError kinds
var (
	ErrCancelled    = errors.New("credential request cancelled")
	ErrNoCredential = errors.New("no credential available")
	ErrInterrupted  = errors.New("credential request interrupted")
)

// GetCredentialError is returned when the broker could not retrieve a
// credential. It is never retried.
type GetCredentialError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *GetCredentialError) Error() string {
	msg := "get credential: " + e.Kind.String()
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *GetCredentialError) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels
func (e *GetCredentialError) Is(target error) bool {
	switch target {
	case ErrCancelled:
		return e.Kind == KindCancelled
	case ErrNoCredential:
		return e.Kind == KindNoCredential
	case ErrInterrupted:
		return e.Kind == KindInterrupted
	}
	return false
}

// APIError reports a failure of the identity provider's API while the broker
// was acquiring a credential.
type APIError struct {
	Op         string // discovery, authorize, token, revoke
	StatusCode int
	Code       string // provider error code, e.g. invalid_grant
	Err        error
}

func (e *APIError) Error() string {
	msg := "provider api: " + e.Op
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Code != "" {
		msg += ": " + e.Code
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func cancelled(msg string, err error) error {
	return &GetCredentialError{Kind: KindCancelled, Message: msg, Err: err}
}

func noCredential(msg string) error {
	return &GetCredentialError{Kind: KindNoCredential, Message: msg}
}

func interrupted(msg string, err error) error {
	return &GetCredentialError{Kind: KindInterrupted, Message: msg, Err: err}
}
