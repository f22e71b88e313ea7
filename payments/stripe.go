package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/utils"

	stripe "github.com/stripe/stripe-go/v82"
	session "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"
)

// sessionTimeout bounds the checkout-session call so a slow provider cannot
// stall an enrollment request.
const sessionTimeout = 10 * time.Second

type StripeProvider struct {
	webhookSecret string
	successURL    string
	cancelURL     string
}

func NewStripeProvider() *StripeProvider {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	return &StripeProvider{
		webhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		successURL:    os.Getenv("CHECKOUT_SUCCESS_URL"),
		cancelURL:     os.Getenv("CHECKOUT_CANCEL_URL"),
	}
}

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, req SessionRequest) (*Session, error) {
	ctx, cancel := context.WithTimeout(ctx, sessionTimeout)
	defer cancel()

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(req.Currency),
					UnitAmount: stripe.Int64(req.Amount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(p.successURL),
		CancelURL:  stripe.String(p.cancelURL),
		Metadata: map[string]string{
			"classId": req.ClassID,
			"userId":  req.UserID,
		},
	}
	params.Context = ctx

	s, err := session.New(params)
	if err != nil {
		utils.LogError(err, "Stripe checkout session creation failed")
		return nil, fmt.Errorf("creating checkout session: %w", err)
	}
	return &Session{ID: s.ID, URL: s.URL}, nil
}

func (p *StripeProvider) VerifyEvent(payload []byte, signatureHeader string) (Event, error) {
	event, err := webhook.ConstructEvent(payload, signatureHeader, p.webhookSecret)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	switch event.Type {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
		s, err := parseSession(event.Data.Raw)
		if err != nil {
			return Event{}, err
		}
		txn := ""
		if s.PaymentIntent != nil {
			txn = s.PaymentIntent.ID
		}
		return Event{Type: EventPaymentSucceeded, SessionID: s.ID, TransactionID: txn}, nil
	case "checkout.session.expired", "checkout.session.async_payment_failed":
		s, err := parseSession(event.Data.Raw)
		if err != nil {
			return Event{}, err
		}
		return Event{Type: EventPaymentFailed, SessionID: s.ID}, nil
	default:
		return Event{Type: EventIgnored}, nil
	}
}

func parseSession(raw json.RawMessage) (*stripe.CheckoutSession, error) {
	var s stripe.CheckoutSession
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if s.ID == "" {
		return nil, fmt.Errorf("%w: missing session id", ErrMalformedEvent)
	}
	return &s, nil
}
