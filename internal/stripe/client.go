// Package stripe defines the interface for Stripe API calls and webhook
// verification, and provides helpers used by the api package.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
)

// ─── TYPES ────────────────────────────────────────────────────────────────────

// CreateCheckoutSessionParams holds the inputs for creating a Stripe Checkout
// Session for one-time report access.
type CreateCheckoutSessionParams struct {
	CustomerID  string
	AmountCents int64
	Currency    string
	ProductName string // e.g. "CSRD Report Access"
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

// CheckoutSession is the subset of a Stripe Checkout Session that callers
// need: the id for diagnostics and the hosted payment page URL to redirect
// the browser to.
type CheckoutSession struct {
	ID  string
	URL string
}

// Event is a parsed Stripe webhook event. DataRaw contains the raw JSON of the
// event's data.object so handlers can unmarshal only what they need.
type Event struct {
	ID      string
	Type    string
	DataRaw json.RawMessage
}

// ─── CLIENT INTERFACE ─────────────────────────────────────────────────────────

// Client is the interface the api package uses for all Stripe calls.
// The concrete implementation wraps the official stripe-go SDK.
// Tests inject a stub.
type Client interface {
	// EnsureCustomer finds or creates a Stripe Customer for an email address
	// and returns its id. Purchases then show up per customer in the Stripe
	// dashboard, and the webhook can map the payment back to a user.
	EnsureCustomer(ctx context.Context, email string) (string, error)

	// CreateCheckoutSession creates a hosted Checkout Session for one-time
	// report access and returns its redirect URL.
	CreateCheckoutSession(ctx context.Context, p CreateCheckoutSessionParams) (CheckoutSession, error)

	// VerifyWebhook validates the Stripe-Signature header and returns the
	// parsed event. Returns an error if the signature is invalid or expired.
	VerifyWebhook(payload []byte, sigHeader string, secret string) (Event, error)
}

// ─── HELPERS USED BY api/ ────────────────────────────────────────────────────

// ExtractCustomerID pulls the customer field from the event's data.object.
// Works for checkout.session.* events.
func ExtractCustomerID(event Event) (string, error) {
	var obj struct {
		Customer string `json:"customer"`
	}
	if err := json.Unmarshal(event.DataRaw, &obj); err != nil {
		return "", fmt.Errorf("stripe: unmarshal checkout session: %w", err)
	}
	if obj.Customer == "" {
		return "", fmt.Errorf("stripe: customer is empty in event %s", event.ID)
	}
	return obj.Customer, nil
}

// ExtractCustomerEmail pulls the payer's email from a checkout session
// object, preferring customer_details.email over the legacy customer_email
// field. Returns "" when neither is present — receipts are optional.
func ExtractCustomerEmail(event Event) string {
	var obj struct {
		CustomerDetails struct {
			Email string `json:"email"`
		} `json:"customer_details"`
		CustomerEmail string `json:"customer_email"`
	}
	if err := json.Unmarshal(event.DataRaw, &obj); err != nil {
		return ""
	}
	if obj.CustomerDetails.Email != "" {
		return obj.CustomerDetails.Email
	}
	return obj.CustomerEmail
}
