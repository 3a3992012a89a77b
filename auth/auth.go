package auth

import (
	"context"
	"fmt"

	"gsignin-cli/credential"
	"gsignin-cli/googleid"
)

// ProviderAdapter builds provider-specific requests and classifies responses
type ProviderAdapter interface {
	NewRequest() (credential.Request, error)
	Classify(resp *credential.Response) googleid.Result
	ClassifyError(err error) googleid.Result
}

// Service sequences a sign-in: build the request, obtain the credential from
// the broker, classify the result. It holds no state of its own.
type Service struct {
	broker  credential.Manager
	adapter ProviderAdapter
}

// NewService creates a new login service with dependency injection
func NewService(broker credential.Manager, adapter ProviderAdapter) *Service {
	return &Service{
		broker:  broker,
		adapter: adapter,
	}
}

// ObtainCredential asks the broker for a credential, anchoring the picker on
// the activity provider's current surface
func (s *Service) ObtainCredential(ctx context.Context, activityProvider credential.ActivityProvider) (*credential.Response, error) {
	req, err := s.adapter.NewRequest()
	if err != nil {
		return nil, fmt.Errorf("failed to build credential request: %w", err)
	}

	var surface credential.Surface
	if activityProvider != nil {
		surface = activityProvider.Activity()
	}

	return s.broker.GetCredential(ctx, req, surface)
}

// Classify maps an obtained response to a sign-in result
func (s *Service) Classify(resp *credential.Response) googleid.Result {
	return s.adapter.Classify(resp)
}

// ClassifyError maps an acquisition failure to a sign-in result
func (s *Service) ClassifyError(err error) googleid.Result {
	return s.adapter.ClassifyError(err)
}

// SignOut clears the broker's credential state
func (s *Service) SignOut(ctx context.Context) error {
	if err := s.broker.ClearCredentialState(ctx, credential.ClearCredentialStateRequest{}); err != nil {
		return fmt.Errorf("failed to clear credential state: %w", err)
	}
	return nil
}
