package ciba

import (
	"context"
	"errors"
	"time"

	"aegis/internal/oauth/models"
	oerrors "aegis/pkg/oautherrors"
	"aegis/pkg/platform/sentinel"
)

// BCAuthorizeStore queries and atomically persists backchannel requests.
// UpdateAndSave must commit the record's state transition and its associated
// consumption mark as a single unit, or not at all.
type BCAuthorizeStore interface {
	GetByID(ctx context.Context, realm, id string) (*models.BCAuthorize, error)
	UpdateAndSave(ctx context.Context, request *models.BCAuthorize) error
}

// PollThrottle enforces the minimum delay between token endpoint polls for
// one backchannel request.
type PollThrottle interface {
	// Allow reports whether a poll for the request may proceed now; a
	// disallowed poll must be answered with slow_down.
	Allow(ctx context.Context, authReqID string, interval int) (bool, error)
}

// GrantValidator locates the backchannel request referenced by the token
// request and checks that it is ready for token issuance.
type GrantValidator struct {
	store    BCAuthorizeStore
	throttle PollThrottle
	now      func() time.Time
}

func NewGrantValidator(store BCAuthorizeStore, throttle PollThrottle) *GrantValidator {
	return &GrantValidator{store: store, throttle: throttle, now: time.Now}
}

// WithClock overrides the validator's time source. Test use only.
func (v *GrantValidator) WithClock(now func() time.Time) *GrantValidator {
	v.now = now
	return v
}

// Validate resolves the auth_req_id to a backchannel request approved by the
// end user. Error codes follow CIBA semantics: authorization_pending while
// the user has not decided, slow_down when the client polls too fast,
// expired_token past the request lifetime, access_denied on denial, and
// invalid_grant for everything unusable.
func (v *GrantValidator) Validate(ctx context.Context, rc *models.RequestContext) (*models.BCAuthorize, error) {
	authReqID := rc.Params.AuthReqID()
	if authReqID == "" {
		return nil, oerrors.Newf(oerrors.CodeInvalidRequest, "missing parameter %s", models.ParamAuthReqID)
	}

	request, err := v.store.GetByID(ctx, rc.Realm, authReqID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, oerrors.New(oerrors.CodeInvalidGrant, "auth_req_id is not valid")
		}
		return nil, err
	}
	if rc.Client == nil || request.ClientID != rc.Client.ClientID {
		return nil, oerrors.New(oerrors.CodeInvalidGrant, "auth_req_id was issued to another client")
	}

	allowed, err := v.throttle.Allow(ctx, authReqID, request.Interval)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, oerrors.New(oerrors.CodeSlowDown, "polling interval has not elapsed")
	}

	now := v.now()
	switch request.Status {
	case models.BCAuthorizePending:
		if request.IsExpired(now) {
			return nil, oerrors.New(oerrors.CodeExpiredToken, "backchannel request has expired")
		}
		return nil, oerrors.New(oerrors.CodeAuthorizationPending, "end user has not yet approved the request")
	case models.BCAuthorizeValidated:
		if request.IsExpired(now) {
			return nil, oerrors.New(oerrors.CodeExpiredToken, "backchannel request has expired")
		}
		return request, nil
	case models.BCAuthorizeDenied:
		return nil, oerrors.New(oerrors.CodeAccessDenied, "end user denied the request")
	case models.BCAuthorizeExpired:
		return nil, oerrors.New(oerrors.CodeExpiredToken, "backchannel request has expired")
	case models.BCAuthorizeCompleted:
		return nil, oerrors.New(oerrors.CodeInvalidGrant, "auth_req_id has already been used")
	default:
		return nil, oerrors.New(oerrors.CodeInvalidGrant, "backchannel request is in an unknown state")
	}
}
