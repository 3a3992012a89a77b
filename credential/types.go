// Package credential is the client side of the credential broker: it issues
// sign-in and sign-out requests and hands back whatever credential the broker
// obtained from the identity provider.
package credential

import (
	"context"
)

// Manager is the credential broker contract. Implementations must be safe to
// call from several goroutines; no call keeps a session object alive after it
// returns.
type Manager interface {
	// GetCredential asks the broker for a credential matching one of the
	// request options. It blocks while the account picker is shown on the
	// surface. Cancelling ctx is treated as the user dismissing the picker.
	GetCredential(ctx context.Context, req Request, surface Surface) (*Response, error)

	// ClearCredentialState forgets any credential state the broker holds for
	// this application. Calling it with no active session is not an error.
	ClearCredentialState(ctx context.Context, req ClearCredentialStateRequest) error
}

// Surface anchors the account picker on screen. The broker only presents
// through it and never creates or owns one.
type Surface interface {
	Present(ctx context.Context, pickerURL string) error
}

// ActivityProvider hands out the surface that is currently in the foreground.
type ActivityProvider interface {
	Activity() Surface
}

// SurfaceFunc adapts a plain function to Surface
type SurfaceFunc func(ctx context.Context, pickerURL string) error

// Present calls f
func (f SurfaceFunc) Present(ctx context.Context, pickerURL string) error {
	return f(ctx, pickerURL)
}

// Request lists the credential options the caller accepts, in preference order.
type Request struct {
	Options []Option
}

// ClearCredentialStateRequest is the sign-out request. It carries no fields
// today; it exists so the call shape can grow without breaking callers.
type ClearCredentialStateRequest struct{}

// Option is one acceptable kind of credential. The set is closed.
type Option interface {
	optionType() string
}

// SignInWithGoogleOption requests a Google ID token through the explicit
// "Sign in with Google" button flow.
type SignInWithGoogleOption struct {
	ServerClientID     string
	Nonce              string
	HostedDomainFilter string
}

func (SignInWithGoogleOption) optionType() string { return "sign_in_with_google" }

// GoogleIDOption requests a Google ID token from accounts the user already
// authorized, optionally picking one automatically.
type GoogleIDOption struct {
	ServerClientID             string
	Nonce                      string
	FilterByAuthorizedAccounts bool
	AutoSelect                 bool
}

func (GoogleIDOption) optionType() string { return "google_id" }

// PasswordOption requests a saved username/password pair.
type PasswordOption struct{}

func (PasswordOption) optionType() string { return "password" }

// Response wraps the credential the broker returned.
type Response struct {
	Credential Credential
}

// Credential is a closed tagged union of everything a broker can return.
// Classification is a type switch over the variants below.
type Credential interface {
	// Type returns the wire type identifier of the credential
	Type() string
	isCredential()
}

// Credential type identifiers
const (
	TypeGoogleIDToken = "com.google.android.libraries.identity.googleid.TYPE_GOOGLE_ID_TOKEN_CREDENTIAL"
	TypePassword      = "android.credentials.TYPE_PASSWORD_CREDENTIAL"
	TypePublicKey     = "androidx.credentials.TYPE_PUBLIC_KEY_CREDENTIAL"
)

// IDTokenCredential is the provider token: a verified OpenID Connect ID token
// plus the profile claims it carried.
type IDTokenCredential struct {
	ID                string // usually the email address
	IDToken           string
	Subject           string
	DisplayName       string
	GivenName         string
	FamilyName        string
	ProfilePictureURI string
	HostedDomain      string
}

func (IDTokenCredential) Type() string  { return TypeGoogleIDToken }
func (IDTokenCredential) isCredential() {}

// PasswordCredential is a saved username/password pair.
type PasswordCredential struct {
	ID       string
	Password string
}

func (PasswordCredential) Type() string  { return TypePassword }
func (PasswordCredential) isCredential() {}

// PublicKeyCredential is a passkey assertion.
type PublicKeyCredential struct {
	AuthenticationResponseJSON string
}

func (PublicKeyCredential) Type() string  { return TypePublicKey }
func (PublicKeyCredential) isCredential() {}

// CustomCredential is anything the broker could not map to a known variant.
type CustomCredential struct {
	CredentialType string
	Data           map[string]string
}

func (c CustomCredential) Type() string { return c.CredentialType }
func (CustomCredential) isCredential()  {}
