package ciba

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aegis/internal/oauth/models"
	bcastore "aegis/internal/oauth/store/bcauthorize"
	"aegis/internal/oauth/store/pollwindow"
	oerrors "aegis/pkg/oautherrors"
)

const testRealm = "master"

var validatorNow = time.Date(2026, 6, 2, 15, 4, 5, 0, time.UTC)

func pendingRequest(t *testing.T, mutate func(*models.BCAuthorize)) *models.BCAuthorize {
	t.Helper()
	request, err := models.NewBCAuthorize("user-1", "client-1", testRealm,
		[]string{"openid", "profile"}, 5*time.Minute, 5, validatorNow)
	require.NoError(t, err)
	if mutate != nil {
		mutate(request)
	}
	return request
}

func tokenContext(authReqID string) *models.RequestContext {
	rc := models.NewRequestContext(testRealm, "http://issuer.local", models.Parameters{
		models.ParamAuthReqID: {authReqID},
	})
	rc.SetClient(&models.Client{ClientID: "client-1", Realm: testRealm})
	return rc
}

// validatorFixture wires the grant validator against the in-memory store and
// throttle under a controllable clock.
type validatorFixture struct {
	validator *GrantValidator
	store     *bcastore.InMemoryStore
	clock     *time.Time
}

func newValidatorFixture(t *testing.T) *validatorFixture {
	t.Helper()
	clock := validatorNow
	store := bcastore.NewInMemory()
	throttle := pollwindow.NewInMemory().WithClock(func() time.Time { return clock })
	return &validatorFixture{
		validator: NewGrantValidator(store, throttle).WithClock(func() time.Time { return clock }),
		store:     store,
		clock:     &clock,
	}
}

func (f *validatorFixture) save(t *testing.T, request *models.BCAuthorize) {
	t.Helper()
	require.NoError(t, f.store.Save(context.Background(), request))
}

func TestGrantValidator_MissingAuthReqID(t *testing.T) {
	f := newValidatorFixture(t)

	_, err := f.validator.Validate(context.Background(), tokenContext(""))
	require.Error(t, err)
	assert.True(t, oerrors.HasCode(err, oerrors.CodeInvalidRequest))
	assert.Contains(t, err.Error(), "missing parameter auth_req_id")
}

func TestGrantValidator_UnknownAuthReqID(t *testing.T) {
	f := newValidatorFixture(t)

	_, err := f.validator.Validate(context.Background(), tokenContext("nope"))
	require.Error(t, err)
	assert.True(t, oerrors.HasCode(err, oerrors.CodeInvalidGrant))
	assert.Contains(t, err.Error(), "auth_req_id is not valid")
}

func TestGrantValidator_WrongClient(t *testing.T) {
	f := newValidatorFixture(t)
	request := pendingRequest(t, nil)
	f.save(t, request)
	rc := tokenContext(request.ID)
	rc.SetClient(&models.Client{ClientID: "client-2", Realm: testRealm})

	_, err := f.validator.Validate(context.Background(), rc)
	require.Error(t, err)
	assert.True(t, oerrors.HasCode(err, oerrors.CodeInvalidGrant))
	assert.Contains(t, err.Error(), "auth_req_id was issued to another client")
}

func TestGrantValidator_PendingAndSlowDown(t *testing.T) {
	f := newValidatorFixture(t)
	request := pendingRequest(t, nil)
	f.save(t, request)

	// First poll: the user has not decided yet.
	_, err := f.validator.Validate(context.Background(), tokenContext(request.ID))
	assert.True(t, oerrors.HasCode(err, oerrors.CodeAuthorizationPending))
	assert.Contains(t, err.Error(), "end user has not yet approved the request")

	// Immediate second poll: inside the interval window.
	_, err = f.validator.Validate(context.Background(), tokenContext(request.ID))
	assert.True(t, oerrors.HasCode(err, oerrors.CodeSlowDown))
	assert.Contains(t, err.Error(), "polling interval has not elapsed")

	// After the interval the poll goes through again.
	*f.clock = validatorNow.Add(6 * time.Second)
	_, err = f.validator.Validate(context.Background(), tokenContext(request.ID))
	assert.True(t, oerrors.HasCode(err, oerrors.CodeAuthorizationPending))
}

func TestGrantValidator_ValidatedReturnsRequest(t *testing.T) {
	f := newValidatorFixture(t)
	request := pendingRequest(t, func(b *models.BCAuthorize) {
		require.NoError(t, b.Approve(validatorNow))
	})
	f.save(t, request)

	got, err := f.validator.Validate(context.Background(), tokenContext(request.ID))
	require.NoError(t, err)
	assert.Equal(t, request.ID, got.ID)
	assert.Equal(t, models.BCAuthorizeValidated, got.Status)
}

func TestGrantValidator_Expiry(t *testing.T) {
	t.Run("pending past lifetime", func(t *testing.T) {
		f := newValidatorFixture(t)
		request := pendingRequest(t, nil)
		f.save(t, request)
		*f.clock = validatorNow.Add(6 * time.Minute)

		_, err := f.validator.Validate(context.Background(), tokenContext(request.ID))
		assert.True(t, oerrors.HasCode(err, oerrors.CodeExpiredToken))
		assert.Contains(t, err.Error(), "backchannel request has expired")
	})

	t.Run("validated past lifetime", func(t *testing.T) {
		f := newValidatorFixture(t)
		request := pendingRequest(t, func(b *models.BCAuthorize) {
			require.NoError(t, b.Approve(validatorNow))
		})
		f.save(t, request)
		*f.clock = validatorNow.Add(6 * time.Minute)

		_, err := f.validator.Validate(context.Background(), tokenContext(request.ID))
		assert.True(t, oerrors.HasCode(err, oerrors.CodeExpiredToken))
	})

	t.Run("marked expired", func(t *testing.T) {
		f := newValidatorFixture(t)
		request := pendingRequest(t, func(b *models.BCAuthorize) {
			require.NoError(t, b.MarkExpired(validatorNow))
		})
		f.save(t, request)

		_, err := f.validator.Validate(context.Background(), tokenContext(request.ID))
		assert.True(t, oerrors.HasCode(err, oerrors.CodeExpiredToken))
	})
}

func TestGrantValidator_Denied(t *testing.T) {
	f := newValidatorFixture(t)
	request := pendingRequest(t, func(b *models.BCAuthorize) {
		require.NoError(t, b.Deny(validatorNow))
	})
	f.save(t, request)

	_, err := f.validator.Validate(context.Background(), tokenContext(request.ID))
	assert.True(t, oerrors.HasCode(err, oerrors.CodeAccessDenied))
	assert.Contains(t, err.Error(), "end user denied the request")
}

func TestGrantValidator_Completed(t *testing.T) {
	f := newValidatorFixture(t)
	request := pendingRequest(t, func(b *models.BCAuthorize) {
		require.NoError(t, b.Approve(validatorNow))
		require.NoError(t, b.Complete(validatorNow))
	})
	f.save(t, request)

	_, err := f.validator.Validate(context.Background(), tokenContext(request.ID))
	assert.True(t, oerrors.HasCode(err, oerrors.CodeInvalidGrant))
	assert.Contains(t, err.Error(), "auth_req_id has already been used")
}
