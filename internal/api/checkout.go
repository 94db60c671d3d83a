package api

import (
	"fmt"
	"net/http"

	stripeinternal "github.com/verdanta/csrd-reporting-backend/internal/stripe"
)

// ─── GET /api/payment ─────────────────────────────────────────────────────────

// handleGetPayment reports the user's entitlement. The frontend polls this
// after the checkout redirect to learn when the webhook has landed.
func (s *Server) handleGetPayment(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	respond(w, http.StatusOK, map[string]any{"has_paid": user.HasPaid})
}

// ─── POST /api/checkout ───────────────────────────────────────────────────────

type createCheckoutResponse struct {
	// CheckoutURL is the Stripe-hosted payment page. The browser redirects
	// there; Stripe redirects back to success_url or cancel_url when done.
	CheckoutURL string `json:"checkout_url"`
	SessionID   string `json:"session_id"`
}

// handleCreateCheckout creates a Stripe Checkout Session for one-time report
// access and returns its redirect URL.
//
// The Stripe customer is found or created by email and attached to the user
// row before the session is created, so the webhook can map the completed
// payment back to the user by customer id alone. store.EnsureCustomer only
// writes the id once; concurrent calls settle on whichever id landed first.
func (s *Server) handleCreateCheckout(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	if user.HasPaid {
		respondErr(w, http.StatusConflict, "report access already purchased")
		return
	}

	customerID, err := s.stripe.EnsureCustomer(r.Context(), user.Email)
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("ensure stripe customer: %w", err))
		return
	}

	user, err = s.store.EnsureCustomer(r.Context(), user.Email, customerID)
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("attach stripe customer: %w", err))
		return
	}

	session, err := s.stripe.CreateCheckoutSession(r.Context(), stripeinternal.CreateCheckoutSessionParams{
		CustomerID:  user.StripeCustomerID.String,
		AmountCents: s.cfg.ReportPriceCents,
		Currency:    s.cfg.ReportCurrency,
		ProductName: "CSRD Report Access",
		SuccessURL:  s.cfg.BaseURL + "/checkout/success",
		CancelURL:   s.cfg.BaseURL + "/checkout/cancelled",
		Metadata: map[string]string{
			"user_id": user.ID.String(),
			"email":   user.Email,
		},
	})
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("create checkout session: %w", err))
		return
	}

	respond(w, http.StatusOK, createCheckoutResponse{
		CheckoutURL: session.URL,
		SessionID:   session.ID,
	})
}
