package models

import (
	"time"

	"github.com/google/uuid"

	oerrors "aegis/pkg/oautherrors"
	"aegis/pkg/platform/sentinel"
)

// BCAuthorizeStatus is the lifecycle state of a backchannel authentication
// request.
type BCAuthorizeStatus string

const (
	BCAuthorizePending   BCAuthorizeStatus = "pending"
	BCAuthorizeValidated BCAuthorizeStatus = "validated"
	BCAuthorizeDenied    BCAuthorizeStatus = "denied"
	BCAuthorizeExpired   BCAuthorizeStatus = "expired"
	BCAuthorizeCompleted BCAuthorizeStatus = "completed"
)

// BCAuthorize is one CIBA backchannel authentication attempt.
//
// State machine: Pending → {Validated, Denied, Expired}; Validated →
// Completed once tokens are issued. A record completes at most once: the
// transition to Completed plus the token issuance it authorizes must commit
// atomically at the repository boundary.
type BCAuthorize struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	ClientID  string            `json:"client_id"`
	Realm     string            `json:"realm"`
	Scopes    []string          `json:"scopes"`
	Status    BCAuthorizeStatus `json:"status"`
	ExpiresAt time.Time         `json:"expires_at"`
	// Interval is the minimum number of seconds a client must wait between
	// token endpoint polls for this request.
	Interval  int       `json:"interval"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewBCAuthorize(userID, clientID, realm string, scopes []string, lifetime time.Duration, interval int, now time.Time) (*BCAuthorize, error) {
	if userID == "" {
		return nil, oerrors.New(oerrors.CodeInvalidRequest, "backchannel request requires a user")
	}
	if clientID == "" {
		return nil, oerrors.New(oerrors.CodeInvalidRequest, "backchannel request requires a client")
	}
	if len(scopes) == 0 {
		return nil, oerrors.New(oerrors.CodeInvalidRequest, "backchannel request requires at least one scope")
	}
	if lifetime <= 0 {
		return nil, oerrors.New(oerrors.CodeInvalidRequest, "backchannel request lifetime must be positive")
	}
	return &BCAuthorize{
		ID:        uuid.NewString(),
		UserID:    userID,
		ClientID:  clientID,
		Realm:     realm,
		Scopes:    scopes,
		Status:    BCAuthorizePending,
		ExpiresAt: now.Add(lifetime),
		Interval:  interval,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsExpired reports whether the request lifetime has elapsed at now.
func (b *BCAuthorize) IsExpired(now time.Time) bool {
	return now.After(b.ExpiresAt)
}

// Approve transitions Pending → Validated (end user approved out-of-band).
func (b *BCAuthorize) Approve(now time.Time) error {
	if b.Status != BCAuthorizePending {
		return sentinel.ErrInvalidState
	}
	b.Status = BCAuthorizeValidated
	b.UpdatedAt = now
	return nil
}

// Deny transitions Pending → Denied.
func (b *BCAuthorize) Deny(now time.Time) error {
	if b.Status != BCAuthorizePending {
		return sentinel.ErrInvalidState
	}
	b.Status = BCAuthorizeDenied
	b.UpdatedAt = now
	return nil
}

// MarkExpired transitions Pending → Expired.
func (b *BCAuthorize) MarkExpired(now time.Time) error {
	if b.Status != BCAuthorizePending {
		return sentinel.ErrInvalidState
	}
	b.Status = BCAuthorizeExpired
	b.UpdatedAt = now
	return nil
}

// Complete transitions Validated → Completed. Called exactly once when the
// token response for this request is assembled; every later call fails.
func (b *BCAuthorize) Complete(now time.Time) error {
	switch b.Status {
	case BCAuthorizeValidated:
		if b.IsExpired(now) {
			return sentinel.ErrExpired
		}
		b.Status = BCAuthorizeCompleted
		b.UpdatedAt = now
		return nil
	case BCAuthorizeCompleted:
		return sentinel.ErrAlreadyConsumed
	default:
		return sentinel.ErrInvalidState
	}
}
