// Package audit captures key authorization decisions for later review.
package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by their primary purpose.
type EventCategory string

const (
	// CategoryCompliance covers events with legal/regulatory significance.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers events relevant to security monitoring.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers events useful for debugging and
	// operational visibility.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	Realm     string
	UserID    string
	ClientID  string
	Action    string
	Decision  string
	Reason    string
	// RequestID correlates the event with the originating HTTP request.
	RequestID string
}

type AuditEvent string

const (
	EventAuthorizationGranted  AuditEvent = "authorization_granted"
	EventAuthorizationRejected AuditEvent = "authorization_rejected"
	EventTokenIssued           AuditEvent = "token_issued"
	EventBackchannelRequested  AuditEvent = "backchannel_requested"
	EventBackchannelConsumed   AuditEvent = "backchannel_consumed"
	EventBackchannelRejected   AuditEvent = "backchannel_rejected"
	EventClientAuthFailed      AuditEvent = "client_auth_failed"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventAuthorizationGranted:  CategoryCompliance,
	EventAuthorizationRejected: CategorySecurity,
	EventTokenIssued:           CategoryOperations,
	EventBackchannelRequested:  CategoryOperations,
	EventBackchannelConsumed:   CategoryCompliance,
	EventBackchannelRejected:   CategorySecurity,
	EventClientAuthFailed:      CategorySecurity,
}

// Category returns the category an action belongs to; unknown actions
// default to operations.
func (e AuditEvent) Category() EventCategory {
	if category, ok := eventCategories[e]; ok {
		return category
	}
	return CategoryOperations
}

// Store persists audit events. Implementations must be safe for
// concurrent use.
type Store interface {
	Append(ctx context.Context, event Event) error
}
