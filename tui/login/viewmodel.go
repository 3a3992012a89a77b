package login

import (
	"context"
	"fmt"
	"sync/atomic"

	"gsignin-cli/credential"
	"gsignin-cli/googleid"
	"gsignin-cli/log"
	"gsignin-cli/tracing"
	"gsignin-cli/tui/state"
)

// SignInService is the part of auth.Service the login screen drives
type SignInService interface {
	ObtainCredential(ctx context.Context, activityProvider credential.ActivityProvider) (*credential.Response, error)
	Classify(resp *credential.Response) googleid.Result
	ClassifyError(err error) googleid.Result
	SignOut(ctx context.Context) error
}

// ViewState is what the login screen renders from
type ViewState struct {
	IsLoading bool
}

// ViewModel holds the login screen's observable state and turns every
// sign-in attempt into exactly one Result.
type ViewModel struct {
	service SignInService
	tracer  *tracing.Manager

	uiState *state.Flow[ViewState]
	result  *state.Flow[googleid.Result]

	inFlight atomic.Bool
}

// NewViewModel creates a view model. tracer may be nil.
func NewViewModel(service SignInService, tracer *tracing.Manager) *ViewModel {
	return &ViewModel{
		service: service,
		tracer:  tracer,
		uiState: state.NewFlow(ViewState{}),
		result:  state.NewFlow(googleid.Unset),
	}
}

// UIState publishes loading changes
func (vm *ViewModel) UIState() *state.Flow[ViewState] {
	return vm.uiState
}

// Result publishes one result per completed attempt
func (vm *ViewModel) Result() *state.Flow[googleid.Result] {
	return vm.result
}

// SignIn runs one attempt and blocks until it finishes. Loading is set before
// the broker is called and cleared on every exit path. A call made while
// another attempt is in flight is ignored and returns false.
func (vm *ViewModel) SignIn(ctx context.Context, activityProvider credential.ActivityProvider) bool {
	if !vm.inFlight.CompareAndSwap(false, true) {
		log.LogDebug("Ignoring sign-in request: attempt already in flight")
		return false
	}
	defer vm.inFlight.Store(false)

	vm.uiState.Set(ViewState{IsLoading: true})
	defer vm.uiState.Set(ViewState{IsLoading: false})

	vm.result.Set(vm.attempt(ctx, activityProvider))
	return true
}

// SignOut clears the broker's credential state and resets the result
func (vm *ViewModel) SignOut(ctx context.Context) error {
	vm.result.Set(googleid.Unset)
	return vm.service.SignOut(ctx)
}

func (vm *ViewModel) attempt(ctx context.Context, activityProvider credential.ActivityProvider) (result googleid.Result) {
	tracker := vm.tracer.StartSignIn()
	var attemptErr error

	defer func() {
		if r := recover(); r != nil {
			attemptErr = fmt.Errorf("panic during sign-in: %v", r)
			result = googleid.UnexpectedError
		}
		if result.IsError() {
			fields := map[string]any{"result": result.String()}
			if attemptErr != nil {
				fields["error"] = attemptErr.Error()
			}
			log.LogWarnWithFields("login", "Sign-in failed", fields)
		} else {
			log.LogInfoWithFields("login", "Sign-in finished", map[string]any{"result": result.String()})
		}
		_ = tracker.Complete(result.String(), attemptErr)
	}()

	resp, err := vm.service.ObtainCredential(ctx, activityProvider)
	if err != nil {
		attemptErr = err
		return vm.service.ClassifyError(err)
	}
	return vm.service.Classify(resp)
}
