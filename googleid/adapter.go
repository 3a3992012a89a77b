// Package googleid adapts the credential broker to Google sign-in: it builds
// the Google request option and classifies what comes back.
package googleid

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"gsignin-cli/credential"
)

// Adapter builds Google sign-in requests and classifies broker responses
type Adapter struct {
	serverClientID string
	hostedDomain   string
	nonce          func() (string, error)
}

// NewAdapter creates an adapter for the given web (server) client ID.
// hostedDomain restricts the picker to one Workspace domain when set.
func NewAdapter(serverClientID, hostedDomain string) *Adapter {
	return &Adapter{
		serverClientID: serverClientID,
		hostedDomain:   hostedDomain,
		nonce:          GenerateNonce,
	}
}

// NewRequest builds a credential request with a freshly generated nonce
func (a *Adapter) NewRequest() (credential.Request, error) {
	nonce, err := a.nonce()
	if err != nil {
		return credential.Request{}, err
	}

	return credential.Request{
		Options: []credential.Option{
			credential.SignInWithGoogleOption{
				ServerClientID:     a.serverClientID,
				Nonce:              nonce,
				HostedDomainFilter: a.hostedDomain,
			},
		},
	}, nil
}

// Classify maps a successfully obtained response to a Result. It never panics
// and always returns one of the non-unset variants.
func (a *Adapter) Classify(resp *credential.Response) Result {
	if resp == nil || resp.Credential == nil {
		return UnexpectedError
	}

	switch c := resp.Credential.(type) {
	case credential.IDTokenCredential:
		if c.IDToken == "" {
			return GenericError
		}
		return Success
	case *credential.IDTokenCredential:
		if c == nil || c.IDToken == "" {
			return GenericError
		}
		return Success
	default:
		return GenericError
	}
}

// ClassifyError maps a failed acquisition to a Result. Provider API failures
// win over retrieval failures when an error wraps both.
func (a *Adapter) ClassifyError(err error) Result {
	var apiErr *credential.APIError
	var getErr *credential.GetCredentialError

	switch {
	case err == nil:
		return UnexpectedError
	case errors.As(err, &apiErr):
		return ProviderAPIError
	case errors.As(err, &getErr):
		return CredentialRetrievalError
	default:
		return UnexpectedError
	}
}

// GenerateNonce returns a single-use nonce: 32 random bytes hashed with
// SHA-256 and encoded as unpadded standard base64.
func GenerateNonce() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	hash := sha256.Sum256(raw)
	return base64.RawStdEncoding.EncodeToString(hash[:]), nil
}
