package googleid

import "fmt"

// Result is the outcome of one sign-in attempt
type Result int

const (
	// Unset is the value before any attempt has finished
	Unset Result = iota
	// Success means the broker returned a Google ID token credential
	Success
	// GenericError means the broker returned some other kind of credential
	GenericError
	// ProviderAPIError means Google's API failed while the credential was acquired
	ProviderAPIError
	// CredentialRetrievalError means the broker could not retrieve a credential,
	// including the user cancelling the picker
	CredentialRetrievalError
	// UnexpectedError covers everything else
	UnexpectedError
)

// String returns a human-readable representation of the result
func (r Result) String() string {
	switch r {
	case Unset:
		return "Unset"
	case Success:
		return "Success"
	case GenericError:
		return "GenericError"
	case ProviderAPIError:
		return "ProviderAPIError"
	case CredentialRetrievalError:
		return "CredentialRetrievalError"
	case UnexpectedError:
		return "UnexpectedError"
	default:
		return fmt.Sprintf("Unknown(%d)", int(r))
	}
}

// Message is the text shown to the user for this result. Success and Unset
// have no message.
func (r Result) Message() string {
	switch r {
	case GenericError:
		return "Something went wrong with Google credentials"
	case ProviderAPIError:
		return "We encountered an issue with Google's servers."
	case CredentialRetrievalError:
		return "There was an issue retrieving your account information."
	case UnexpectedError:
		return "We encountered an unexpected issue."
	default:
		return ""
	}
}

// IsError reports whether the result is one of the failure variants
func (r Result) IsError() bool {
	return r >= GenericError && r <= UnexpectedError
}
