package credential

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testClientID = "test-client.apps.googleusercontent.com"

// fakeProvider is a minimal OpenID Connect provider: discovery, authorize,
// token, JWKS and revocation endpoints.
type fakeProvider struct {
	t   *testing.T
	srv *httptest.Server
	key *rsa.PrivateKey

	mu            sync.Mutex
	nonce         string
	challenge     string
	authQuery     url.Values
	authError     string
	tokenStatus   int
	omitIDToken   bool
	nonceOverride string
	revoked       []string

	// hold makes the named endpoints ("discovery", "token") block until the
	// client gives up; each held request is announced on held
	hold map[string]bool
	held chan string
}

func newFakeProvider(t *testing.T, opts ...func(*fakeProvider)) *fakeProvider {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	p := &fakeProvider{t: t, key: key, held: make(chan string, 4)}
	for _, opt := range opts {
		opt(p)
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", p.discovery)
	mux.HandleFunc("/authorize", p.authorize)
	mux.HandleFunc("/token", p.token)
	mux.HandleFunc("/keys", p.keys)
	mux.HandleFunc("/revoke", p.revoke)
	p.srv = httptest.NewServer(mux)
	t.Cleanup(p.srv.Close)
	return p
}

// waitIfHeld blocks a held endpoint until the client request ends
func (p *fakeProvider) waitIfHeld(endpoint string, r *http.Request) bool {
	if !p.hold[endpoint] {
		return false
	}
	p.held <- endpoint
	<-r.Context().Done()
	return true
}

func (p *fakeProvider) discovery(w http.ResponseWriter, r *http.Request) {
	if p.waitIfHeld("discovery", r) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"issuer":                                p.srv.URL,
		"authorization_endpoint":                p.srv.URL + "/authorize",
		"token_endpoint":                        p.srv.URL + "/token",
		"jwks_uri":                              p.srv.URL + "/keys",
		"revocation_endpoint":                   p.srv.URL + "/revoke",
		"response_types_supported":              []string{"code"},
		"subject_types_supported":               []string{"public"},
		"id_token_signing_alg_values_supported": []string{"RS256"},
	})
}

func (p *fakeProvider) authorize(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	p.mu.Lock()
	p.nonce = q.Get("nonce")
	p.challenge = q.Get("code_challenge")
	p.authQuery = q
	authError := p.authError
	p.mu.Unlock()

	callback := url.Values{"state": {q.Get("state")}}
	if authError != "" {
		callback.Set("error", authError)
	} else {
		callback.Set("code", "test-code")
	}
	http.Redirect(w, r, q.Get("redirect_uri")+"?"+callback.Encode(), http.StatusFound)
}

func (p *fakeProvider) token(w http.ResponseWriter, r *http.Request) {
	if p.waitIfHeld("token", r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.tokenStatus != 0 {
		writeJSON(w, p.tokenStatus, map[string]string{"error": "server_error"})
		return
	}

	sum := sha256.Sum256([]byte(r.PostForm.Get("code_verifier")))
	if base64.RawURLEncoding.EncodeToString(sum[:]) != p.challenge {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_grant"})
		return
	}

	resp := map[string]any{
		"access_token":  "access-123",
		"refresh_token": "refresh-123",
		"token_type":    "Bearer",
		"expires_in":    3600,
	}
	if !p.omitIDToken {
		nonce := p.nonce
		if p.nonceOverride != "" {
			nonce = p.nonceOverride
		}
		resp["id_token"] = p.sign(map[string]any{
			"iss":         p.srv.URL,
			"sub":         "110169484474386276334",
			"aud":         testClientID,
			"exp":         time.Now().Add(time.Hour).Unix(),
			"iat":         time.Now().Unix(),
			"nonce":       nonce,
			"email":       "ada@example.com",
			"name":        "Ada Lovelace",
			"given_name":  "Ada",
			"family_name": "Lovelace",
			"picture":     "https://example.com/ada.png",
			"hd":          "example.com",
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (p *fakeProvider) keys(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"keys": []map[string]string{{
			"kty": "RSA",
			"kid": "test-key",
			"alg": "RS256",
			"use": "sig",
			"n":   base64.RawURLEncoding.EncodeToString(p.key.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(p.key.E)).Bytes()),
		}},
	})
}

func (p *fakeProvider) revoke(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	p.mu.Lock()
	p.revoked = append(p.revoked, r.PostForm.Get("token"))
	p.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func (p *fakeProvider) lastAuthQuery() url.Values {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.authQuery
}

func (p *fakeProvider) revokedTokens() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.revoked...)
}

func (p *fakeProvider) sign(claims map[string]any) string {
	header, err := json.Marshal(map[string]string{"alg": "RS256", "kid": "test-key", "typ": "JWT"})
	require.NoError(p.t, err)
	payload, err := json.Marshal(claims)
	require.NoError(p.t, err)

	input := base64.RawURLEncoding.EncodeToString(header) + "." + base64.RawURLEncoding.EncodeToString(payload)
	digest := sha256.Sum256([]byte(input))
	sig, err := rsa.SignPKCS1v15(rand.Reader, p.key, crypto.SHA256, digest[:])
	require.NoError(p.t, err)
	return input + "." + base64.RawURLEncoding.EncodeToString(sig)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// browserSurface plays the user's browser: it follows the picker URL through
// the provider's redirect back to the loopback callback.
func browserSurface() Surface {
	return SurfaceFunc(func(ctx context.Context, pickerURL string) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pickerURL, nil)
		if err != nil {
			return err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return err
		}
		return resp.Body.Close()
	})
}

// memoryAccounts implements AccountStore in memory
type memoryAccounts struct {
	hint    string
	saved   *IDTokenCredential
	cleared int
}

func (m *memoryAccounts) LoginHint() string { return m.hint }

func (m *memoryAccounts) SaveAccount(cred IDTokenCredential) error {
	m.saved = &cred
	m.hint = cred.ID
	return nil
}

func (m *memoryAccounts) ClearAccount() error {
	m.cleared++
	m.saved = nil
	m.hint = ""
	return nil
}

func googleRequest(nonce string) Request {
	return Request{Options: []Option{SignInWithGoogleOption{ServerClientID: testClientID, Nonce: nonce}}}
}

func newTestManager(p *fakeProvider, accounts AccountStore) *LoopbackManager {
	return NewLoopbackManager(LoopbackConfig{Issuer: p.srv.URL, ClientSecret: "secret"}, accounts)
}

func TestLoopbackManager_GetCredential_Success(t *testing.T) {
	p := newFakeProvider(t)
	accounts := &memoryAccounts{}
	m := newTestManager(p, accounts)

	resp, err := m.GetCredential(context.Background(), googleRequest("nonce-abc"), browserSurface())
	require.NoError(t, err)

	cred, ok := resp.Credential.(IDTokenCredential)
	require.True(t, ok, "expected IDTokenCredential, got %T", resp.Credential)
	assert.Equal(t, "ada@example.com", cred.ID)
	assert.Equal(t, "110169484474386276334", cred.Subject)
	assert.Equal(t, "Ada Lovelace", cred.DisplayName)
	assert.Equal(t, "example.com", cred.HostedDomain)
	assert.NotEmpty(t, cred.IDToken)

	require.NotNil(t, accounts.saved)
	assert.Equal(t, "ada@example.com", accounts.saved.ID)

	q := p.lastAuthQuery()
	assert.Equal(t, "nonce-abc", q.Get("nonce"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.Equal(t, "select_account", q.Get("prompt"))
	assert.Equal(t, testClientID, q.Get("client_id"))
}

func TestLoopbackManager_GetCredential_SendsLoginHint(t *testing.T) {
	p := newFakeProvider(t)
	accounts := &memoryAccounts{hint: "ada@example.com"}
	m := newTestManager(p, accounts)

	req := Request{Options: []Option{GoogleIDOption{
		ServerClientID:             testClientID,
		Nonce:                      "n",
		FilterByAuthorizedAccounts: true,
		AutoSelect:                 true,
	}}}
	_, err := m.GetCredential(context.Background(), req, browserSurface())
	require.NoError(t, err)

	q := p.lastAuthQuery()
	assert.Equal(t, "ada@example.com", q.Get("login_hint"))
	assert.Empty(t, q.Get("prompt"))
}

func TestLoopbackManager_GetCredential_NonceMismatch(t *testing.T) {
	p := newFakeProvider(t, func(p *fakeProvider) { p.nonceOverride = "replayed-nonce" })
	m := newTestManager(p, nil)

	_, err := m.GetCredential(context.Background(), googleRequest("fresh-nonce"), browserSurface())
	assert.ErrorIs(t, err, ErrNonceMismatch)
}

func TestLoopbackManager_GetCredential_ConsentDenied(t *testing.T) {
	p := newFakeProvider(t, func(p *fakeProvider) { p.authError = "access_denied" })
	m := newTestManager(p, nil)

	_, err := m.GetCredential(context.Background(), googleRequest("n"), browserSurface())
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestLoopbackManager_GetCredential_AuthorizeError(t *testing.T) {
	p := newFakeProvider(t, func(p *fakeProvider) { p.authError = "server_error" })
	m := newTestManager(p, nil)

	_, err := m.GetCredential(context.Background(), googleRequest("n"), browserSurface())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "authorize", apiErr.Op)
	assert.Equal(t, "server_error", apiErr.Code)
}

func TestLoopbackManager_GetCredential_TokenEndpointFailure(t *testing.T) {
	p := newFakeProvider(t, func(p *fakeProvider) { p.tokenStatus = http.StatusServiceUnavailable })
	m := newTestManager(p, nil)

	_, err := m.GetCredential(context.Background(), googleRequest("n"), browserSurface())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "token", apiErr.Op)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
}

func TestLoopbackManager_GetCredential_WithoutIDToken(t *testing.T) {
	p := newFakeProvider(t, func(p *fakeProvider) { p.omitIDToken = true })
	m := newTestManager(p, nil)

	resp, err := m.GetCredential(context.Background(), googleRequest("n"), browserSurface())
	require.NoError(t, err)

	custom, ok := resp.Credential.(CustomCredential)
	require.True(t, ok)
	assert.Equal(t, "oauth2_access_token", custom.Type())
}

func TestLoopbackManager_GetCredential_PickerDismissed(t *testing.T) {
	p := newFakeProvider(t)
	m := newTestManager(p, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dismiss := SurfaceFunc(func(ctx context.Context, pickerURL string) error {
		cancel()
		<-ctx.Done()
		return ctx.Err()
	})

	_, err := m.GetCredential(ctx, googleRequest("n"), dismiss)
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestLoopbackManager_GetCredential_CancelledDuringDiscovery(t *testing.T) {
	p := newFakeProvider(t, func(p *fakeProvider) {
		p.hold = map[string]bool{"discovery": true}
	})
	m := newTestManager(p, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-p.held
		cancel()
	}()

	_, err := m.GetCredential(ctx, googleRequest("n"), browserSurface())

	assert.ErrorIs(t, err, ErrCancelled)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr), "cancellation must not surface as a provider API error: %v", err)
}

func TestLoopbackManager_GetCredential_CancelledDuringTokenExchange(t *testing.T) {
	p := newFakeProvider(t, func(p *fakeProvider) {
		p.hold = map[string]bool{"token": true}
	})
	accounts := &memoryAccounts{}
	m := newTestManager(p, accounts)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-p.held
		cancel()
	}()

	_, err := m.GetCredential(ctx, googleRequest("n"), browserSurface())

	assert.ErrorIs(t, err, ErrCancelled)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr), "cancellation must not surface as a provider API error: %v", err)
	assert.Empty(t, accounts.LoginHint())
}

func TestLoopbackManager_GetCredential_NoSupportedOption(t *testing.T) {
	p := newFakeProvider(t)
	m := newTestManager(p, nil)

	_, err := m.GetCredential(context.Background(), Request{Options: []Option{PasswordOption{}}}, browserSurface())
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestLoopbackManager_GetCredential_NoAuthorizedAccount(t *testing.T) {
	p := newFakeProvider(t)
	m := newTestManager(p, &memoryAccounts{})

	req := Request{Options: []Option{GoogleIDOption{ServerClientID: testClientID, Nonce: "n", FilterByAuthorizedAccounts: true}}}
	_, err := m.GetCredential(context.Background(), req, browserSurface())
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestLoopbackManager_GetCredential_NoSurface(t *testing.T) {
	p := newFakeProvider(t)
	m := newTestManager(p, nil)

	_, err := m.GetCredential(context.Background(), googleRequest("n"), nil)
	assert.ErrorIs(t, err, ErrInterrupted)
}

func TestLoopbackManager_GetCredential_DiscoveryFailure(t *testing.T) {
	p := newFakeProvider(t)
	m := newTestManager(p, nil)
	p.srv.Close()

	_, err := m.GetCredential(context.Background(), googleRequest("n"), browserSurface())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "discovery", apiErr.Op)
}

func TestLoopbackManager_ClearCredentialState_NoSession(t *testing.T) {
	p := newFakeProvider(t)
	m := newTestManager(p, nil)

	assert.NoError(t, m.ClearCredentialState(context.Background(), ClearCredentialStateRequest{}))
	assert.NoError(t, m.ClearCredentialState(context.Background(), ClearCredentialStateRequest{}))
	assert.Empty(t, p.revokedTokens())
}

func TestLoopbackManager_ClearCredentialState_RevokesAndForgets(t *testing.T) {
	p := newFakeProvider(t)
	accounts := &memoryAccounts{}
	m := newTestManager(p, accounts)

	_, err := m.GetCredential(context.Background(), googleRequest("n"), browserSurface())
	require.NoError(t, err)

	require.NoError(t, m.ClearCredentialState(context.Background(), ClearCredentialStateRequest{}))
	assert.Equal(t, []string{"refresh-123"}, p.revokedTokens())
	assert.Nil(t, accounts.saved)

	// second sign-out has nothing left to revoke
	require.NoError(t, m.ClearCredentialState(context.Background(), ClearCredentialStateRequest{}))
	assert.Len(t, p.revokedTokens(), 1)
}

func TestParseCallback(t *testing.T) {
	tests := []struct {
		name    string
		query   url.Values
		wantErr error
		code    string
	}{
		{"ok", url.Values{"state": {"s"}, "code": {"c"}}, nil, "c"},
		{"state mismatch", url.Values{"state": {"other"}, "code": {"c"}}, ErrInterrupted, ""},
		{"missing code", url.Values{"state": {"s"}}, ErrInterrupted, ""},
		{"denied", url.Values{"error": {"access_denied"}}, ErrCancelled, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := parseCallback(tt.query, "s")
			if tt.wantErr != nil {
				assert.ErrorIs(t, res.err, tt.wantErr)
				return
			}
			require.NoError(t, res.err)
			assert.Equal(t, tt.code, res.code)
		})
	}
}

func TestGetCredentialError(t *testing.T) {
	cause := errors.New("socket closed")
	err := &GetCredentialError{Kind: KindInterrupted, Message: "callback lost", Err: cause}

	assert.ErrorIs(t, err, ErrInterrupted)
	assert.NotErrorIs(t, err, ErrCancelled)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "get credential: interrupted: callback lost: socket closed", err.Error())
}

func TestAPIError(t *testing.T) {
	err := &APIError{Op: "token", StatusCode: 400, Code: "invalid_grant"}
	assert.Equal(t, "provider api: token: status 400: invalid_grant", err.Error())
}
