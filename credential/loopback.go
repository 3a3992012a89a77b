package credential

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"gsignin-cli/log"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
)

// ErrNonceMismatch is returned when the ID token does not echo the nonce that
// was sent with the request.
var ErrNonceMismatch = errors.New("id token nonce does not match request nonce")

// AccountStore remembers the last account the broker authorized
type AccountStore interface {
	LoginHint() string
	SaveAccount(cred IDTokenCredential) error
	ClearAccount() error
}

// LoopbackConfig configures the loopback broker
type LoopbackConfig struct {
	Issuer       string
	ClientSecret string
	Scopes       []string
	CallbackHost string
	CallbackPort int
}

// LoopbackManager is a Manager that runs the OpenID Connect authorization code
// flow with PKCE. The account picker is the provider's authorization page,
// presented through the caller's surface, and the result comes back on a
// short-lived loopback HTTP server.
type LoopbackManager struct {
	cfg        LoopbackConfig
	accounts   AccountStore
	httpClient *http.Client

	mu        sync.Mutex
	token     *oauth2.Token
	revokeURL string
}

// NewLoopbackManager creates a loopback broker. accounts may be nil.
func NewLoopbackManager(cfg LoopbackConfig, accounts AccountStore) *LoopbackManager {
	if cfg.CallbackHost == "" {
		cfg.CallbackHost = "127.0.0.1"
	}
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = []string{oidc.ScopeOpenID, "profile", "email"}
	}
	return &LoopbackManager{
		cfg:        cfg,
		accounts:   accounts,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// WithHTTPClient replaces the client used to talk to the provider
func (m *LoopbackManager) WithHTTPClient(client *http.Client) *LoopbackManager {
	m.httpClient = client
	return m
}

type selectedOption struct {
	clientID         string
	nonce            string
	hostedDomain     string
	filterAuthorized bool
	autoSelect       bool
}

func selectOption(options []Option) (selectedOption, bool) {
	for _, o := range options {
		switch o := o.(type) {
		case SignInWithGoogleOption:
			return selectedOption{
				clientID:     o.ServerClientID,
				nonce:        o.Nonce,
				hostedDomain: o.HostedDomainFilter,
			}, true
		case GoogleIDOption:
			return selectedOption{
				clientID:         o.ServerClientID,
				nonce:            o.Nonce,
				filterAuthorized: o.FilterByAuthorizedAccounts,
				autoSelect:       o.AutoSelect,
			}, true
		}
	}
	return selectedOption{}, false
}

// GetCredential runs one sign-in attempt
func (m *LoopbackManager) GetCredential(ctx context.Context, req Request, surface Surface) (*Response, error) {
	if surface == nil {
		return nil, interrupted("no surface to present the account picker on", nil)
	}

	opt, ok := selectOption(req.Options)
	if !ok {
		return nil, noCredential("no supported credential option in request")
	}
	if opt.clientID == "" {
		return nil, errors.New("credential option has no server client id")
	}

	hint := ""
	if m.accounts != nil {
		hint = m.accounts.LoginHint()
	}
	if opt.filterAuthorized && hint == "" {
		return nil, noCredential("no previously authorized account")
	}

	ctx = oidc.ClientContext(ctx, m.httpClient)

	provider, err := oidc.NewProvider(ctx, m.cfg.Issuer)
	if err != nil {
		if ctx.Err() != nil {
			return nil, cancelled("sign-in cancelled during discovery", ctx.Err())
		}
		return nil, &APIError{Op: "discovery", Err: err}
	}

	ln, err := net.Listen("tcp", net.JoinHostPort(m.cfg.CallbackHost, strconv.Itoa(m.cfg.CallbackPort)))
	if err != nil {
		return nil, interrupted("failed to open loopback listener", err)
	}

	oauthCfg := oauth2.Config{
		ClientID:     opt.clientID,
		ClientSecret: m.cfg.ClientSecret,
		RedirectURL:  "http://" + ln.Addr().String() + "/callback",
		Endpoint:     provider.Endpoint(),
		Scopes:       m.cfg.Scopes,
	}

	state, err := randomState()
	if err != nil {
		ln.Close()
		return nil, err
	}
	verifier := oauth2.GenerateVerifier()

	authOpts := []oauth2.AuthCodeOption{
		oauth2.S256ChallengeOption(verifier),
		oidc.Nonce(opt.nonce),
	}
	if hint != "" {
		authOpts = append(authOpts, oauth2.SetAuthURLParam("login_hint", hint))
	}
	if opt.hostedDomain != "" {
		authOpts = append(authOpts, oauth2.SetAuthURLParam("hd", opt.hostedDomain))
	}
	if !(opt.autoSelect && hint != "") {
		authOpts = append(authOpts, oauth2.SetAuthURLParam("prompt", "select_account"))
	}
	pickerURL := oauthCfg.AuthCodeURL(state, authOpts...)

	log.LogDebugWithFields("credential", "Presenting account picker", map[string]any{
		"redirect_url": oauthCfg.RedirectURL,
		"login_hint":   hint != "",
	})

	code, err := awaitCallback(ctx, ln, state, pickerURL, surface)
	if err != nil {
		return nil, err
	}

	token, err := oauthCfg.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		if ctx.Err() != nil {
			return nil, cancelled("sign-in cancelled during token exchange", ctx.Err())
		}
		return nil, tokenError(err)
	}

	revokeURL := revocationEndpoint(provider)

	rawIDToken, _ := token.Extra("id_token").(string)
	if rawIDToken == "" {
		// The provider answered with a plain OAuth token, not the provider token.
		m.remember(token, revokeURL)
		return &Response{Credential: CustomCredential{
			CredentialType: "oauth2_access_token",
			Data:           map[string]string{"token_type": token.Type()},
		}}, nil
	}

	idToken, err := provider.Verifier(&oidc.Config{ClientID: opt.clientID}).Verify(ctx, rawIDToken)
	if err != nil {
		if ctx.Err() != nil {
			return nil, cancelled("sign-in cancelled during token verification", ctx.Err())
		}
		return nil, fmt.Errorf("failed to verify id token: %w", err)
	}
	if subtle.ConstantTimeCompare([]byte(idToken.Nonce), []byte(opt.nonce)) != 1 {
		return nil, ErrNonceMismatch
	}

	var claims idTokenClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to parse id token claims: %w", err)
	}

	cred := IDTokenCredential{
		ID:                claims.Email,
		IDToken:           rawIDToken,
		Subject:           idToken.Subject,
		DisplayName:       claims.Name,
		GivenName:         claims.GivenName,
		FamilyName:        claims.FamilyName,
		ProfilePictureURI: claims.Picture,
		HostedDomain:      claims.HostedDomain,
	}

	m.remember(token, revokeURL)
	if m.accounts != nil {
		if err := m.accounts.SaveAccount(cred); err != nil {
			log.LogWarnWithFields("credential", "Failed to remember account", map[string]any{"error": err.Error()})
		}
	}

	return &Response{Credential: cred}, nil
}

// ClearCredentialState revokes the token from the last attempt, if any, and
// forgets the remembered account
func (m *LoopbackManager) ClearCredentialState(ctx context.Context, _ ClearCredentialStateRequest) error {
	m.mu.Lock()
	token, revokeURL := m.token, m.revokeURL
	m.token, m.revokeURL = nil, ""
	m.mu.Unlock()

	var revokeErr error
	if token != nil && revokeURL != "" {
		revokeErr = m.revoke(ctx, revokeURL, token)
		if revokeErr != nil {
			log.LogWarnWithFields("credential", "Token revocation failed", map[string]any{"error": revokeErr.Error()})
		}
	}

	var clearErr error
	if m.accounts != nil {
		if err := m.accounts.ClearAccount(); err != nil {
			clearErr = fmt.Errorf("failed to clear stored account: %w", err)
		}
	}

	return errors.Join(revokeErr, clearErr)
}

func (m *LoopbackManager) remember(token *oauth2.Token, revokeURL string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.revokeURL = revokeURL
}

func (m *LoopbackManager) revoke(ctx context.Context, revokeURL string, token *oauth2.Token) error {
	value := token.RefreshToken
	if value == "" {
		value = token.AccessToken
	}
	form := url.Values{"token": {value}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, revokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build revoke request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := m.httpClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return &APIError{Op: "revoke", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &APIError{Op: "revoke", StatusCode: resp.StatusCode}
	}
	return nil
}

type idTokenClaims struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	GivenName    string `json:"given_name"`
	FamilyName   string `json:"family_name"`
	Picture      string `json:"picture"`
	HostedDomain string `json:"hd"`
}

type callbackResult struct {
	code string
	err  error
}

// awaitCallback presents the picker and waits for the provider to redirect
// back to the loopback listener. The listener is closed on return.
func awaitCallback(ctx context.Context, ln net.Listener, state, pickerURL string, surface Surface) (string, error) {
	results := make(chan callbackResult, 1)
	srv := &http.Server{
		Handler:           callbackHandler(state, results),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	log.LogTrace("Loopback callback server listening on %s", ln.Addr())

	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return interrupted("loopback server failed", err)
		}
		return nil
	})

	var code string
	g.Go(func() error {
		defer srv.Shutdown(context.Background())

		if err := surface.Present(gctx, pickerURL); err != nil {
			if ctx.Err() != nil {
				return cancelled("account picker dismissed", ctx.Err())
			}
			return interrupted("failed to present account picker", err)
		}

		select {
		case <-gctx.Done():
			if ctx.Err() != nil {
				return cancelled("account picker dismissed", ctx.Err())
			}
			return gctx.Err()
		case res := <-results:
			if res.err != nil {
				return res.err
			}
			code = res.code
			return nil
		}
	})

	if err := g.Wait(); err != nil {
		return "", err
	}
	return code, nil
}

func callbackHandler(state string, results chan<- callbackResult) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		res := parseCallback(r.URL.Query(), state)
		log.LogTraceWithFields("credential", "Callback received", map[string]any{
			"has_code": res.code != "",
			"failed":   res.err != nil,
		})

		select {
		case results <- res:
		default:
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if res.err != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, callbackFailurePage)
			return
		}
		fmt.Fprint(w, callbackSuccessPage)
	})
	return mux
}

func parseCallback(q url.Values, state string) callbackResult {
	if code := q.Get("error"); code != "" {
		if code == "access_denied" {
			return callbackResult{err: cancelled("consent denied", nil)}
		}
		apiErr := &APIError{Op: "authorize", Code: code}
		if desc := q.Get("error_description"); desc != "" {
			apiErr.Err = errors.New(desc)
		}
		return callbackResult{err: apiErr}
	}

	if subtle.ConstantTimeCompare([]byte(q.Get("state")), []byte(state)) != 1 {
		return callbackResult{err: interrupted("state mismatch in callback", nil)}
	}

	code := q.Get("code")
	if code == "" {
		return callbackResult{err: interrupted("callback without authorization code", nil)}
	}
	return callbackResult{code: code}
}

func tokenError(err error) error {
	apiErr := &APIError{Op: "token", Err: err}
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		apiErr.Code = re.ErrorCode
		if re.Response != nil {
			apiErr.StatusCode = re.Response.StatusCode
		}
	}
	return apiErr
}

func revocationEndpoint(provider *oidc.Provider) string {
	var claims struct {
		RevocationEndpoint string `json:"revocation_endpoint"`
	}
	if err := provider.Claims(&claims); err != nil {
		return ""
	}
	return claims.RevocationEndpoint
}

func randomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

const callbackSuccessPage = `<!DOCTYPE html>
<html><head><title>Signed in</title></head>
<body><p>Sign-in complete. You can close this window and return to the terminal.</p></body></html>`

const callbackFailurePage = `<!DOCTYPE html>
<html><head><title>Sign-in failed</title></head>
<body><p>Sign-in did not complete. Return to the terminal for details.</p></body></html>`
