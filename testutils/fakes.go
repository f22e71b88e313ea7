package testutils

import (
	"context"
	"sync"
	"time"

	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/payments"
)

// ProviderFake stands in for the payment provider. Each field scripts one
// method; call counters let tests assert on interaction counts.
type ProviderFake struct {
	mu sync.Mutex

	Session   *payments.Session
	CreateErr error
	Event     payments.Event
	VerifyErr error

	CreateCalls int
	VerifyCalls int
}

func (f *ProviderFake) CreateCheckoutSession(ctx context.Context, req payments.SessionRequest) (*payments.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls++
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	if f.Session != nil {
		return f.Session, nil
	}
	return &payments.Session{ID: "cs_test_session", URL: "https://checkout.example/cs_test_session"}, nil
}

func (f *ProviderFake) VerifyEvent(payload []byte, signatureHeader string) (payments.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.VerifyCalls++
	if f.VerifyErr != nil {
		return payments.Event{}, f.VerifyErr
	}
	return f.Event, nil
}

// MailerSpy counts notifications per template. The webhook idempotence
// tests lean on these counters: N deliveries must still mean one
// confirmation email.
type MailerSpy struct {
	mu sync.Mutex

	Err error

	WelcomeCalls   int
	ConfirmedCalls int
	PendingCalls   int
}

func (m *MailerSpy) Welcome(to, userName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WelcomeCalls++
	return m.Err
}

func (m *MailerSpy) EnrollmentConfirmed(to, classTitle string, scheduledTime time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConfirmedCalls++
	return m.Err
}

func (m *MailerSpy) EnrollmentPending(to, classTitle string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PendingCalls++
	return m.Err
}

// AuditSpy collects recorded actions in order.
type AuditSpy struct {
	mu      sync.Mutex
	Actions []string
}

func (a *AuditSpy) Record(actor, action, entity, entityID, metadata string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Actions = append(a.Actions, action)
}

func (a *AuditSpy) Has(action string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, recorded := range a.Actions {
		if recorded == action {
			return true
		}
	}
	return false
}
