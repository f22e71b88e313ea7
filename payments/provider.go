package payments

import (
	"context"
	"errors"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMalformedEvent   = errors.New("malformed webhook event")
)

// SessionRequest carries everything the provider needs to open a hosted
// checkout page for one class enrollment.
type SessionRequest struct {
	Amount      int64
	Currency    string
	ClassID     string
	UserID      string
	Description string
}

// Session is the provider-side checkout session. ID becomes the payment's
// externalSessionId; URL is where the user is redirected to pay.
type Session struct {
	ID  string
	URL string
}

type EventType string

const (
	EventPaymentSucceeded EventType = "payment_succeeded"
	EventPaymentFailed    EventType = "payment_failed"
	EventIgnored          EventType = "ignored"
)

// Event is a verified, normalized provider notification.
type Event struct {
	Type          EventType
	SessionID     string
	TransactionID string
}

// Provider is the external payment collaborator. Both methods are
// network-bound; constructors inject concrete implementations so the
// checkout and reconcile paths can be tested with fakes.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, req SessionRequest) (*Session, error)
	// VerifyEvent checks the raw payload against the shared secret before
	// anything is parsed or looked up. ErrInvalidSignature means the event
	// must be rejected without touching state.
	VerifyEvent(payload []byte, signatureHeader string) (Event, error)
}
