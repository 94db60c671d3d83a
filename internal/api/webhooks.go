package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/verdanta/csrd-reporting-backend/internal/email"
	"github.com/verdanta/csrd-reporting-backend/internal/store"
	stripeinternal "github.com/verdanta/csrd-reporting-backend/internal/stripe"
)

// ─── POST /api/webhooks/stripe ────────────────────────────────────────────────

// handleStripeWebhook is the entry point for all Stripe webhook deliveries.
//
// Stripe delivers events at-least-once and may retry on non-2xx responses.
// The handler must be idempotent: the stripe_events ledger is written in the
// same transaction as the payment flag, so a replayed event is detected and
// acked without acting twice.
//
// The only event we act on is checkout.session.completed → mark the user
// paid + send the receipt. charge.refunded is logged for manual follow-up.
func (s *Server) handleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	// ── 1. Read and size-limit the body ───────────────────────────────────────
	// Stripe recommends reading the raw body before any other processing so
	// the signature check runs against the exact bytes Stripe signed.
	r.Body = http.MaxBytesReader(w, r.Body, 65536) // 64 KB — generous for any Stripe event
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		respondErr(w, http.StatusBadRequest, "could not read request body")
		return
	}

	// ── 2. Verify the Stripe-Signature header ─────────────────────────────────
	sig := r.Header.Get("Stripe-Signature")
	event, err := s.stripe.VerifyWebhook(payload, sig, s.cfg.StripeWebhookSecret)
	if err != nil {
		s.logger.Warn("webhook: invalid signature", "error", err, logField(r))
		respondErr(w, http.StatusBadRequest, "invalid webhook signature")
		return
	}

	// ── 3. Dispatch by event type ─────────────────────────────────────────────
	var handlerErr error

	switch event.Type {
	case "checkout.session.completed":
		handlerErr = s.onCheckoutCompleted(r, event)

	case "charge.refunded":
		// Refunds are rare enough to handle manually; the log line carries
		// everything support needs to find the charge in the dashboard.
		s.logger.Info("webhook: charge refunded", "event_id", event.ID, logField(r))

	default:
		// Unknown event type — ack immediately so Stripe stops retrying.
		s.logger.Debug("webhook: unhandled event type", "type", event.Type, logField(r))
	}

	if handlerErr != nil {
		s.logger.Error("webhook: handler error",
			"event_id", event.ID,
			"type", event.Type,
			"error", handlerErr,
			logField(r),
		)
		// Return 500 so Stripe retries delivery.
		respondErr(w, http.StatusInternalServerError, "webhook handler failed")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// ─── EVENT HANDLERS ───────────────────────────────────────────────────────────

func (s *Server) onCheckoutCompleted(r *http.Request, event stripeinternal.Event) error {
	customerID, err := stripeinternal.ExtractCustomerID(event)
	if err != nil {
		return fmt.Errorf("onCheckoutCompleted: extract customer id: %w", err)
	}

	// GrantReportAccess atomically records the event in the ledger and marks
	// the user paid. ErrEventAlreadyProcessed means a duplicate delivery —
	// still a success, ack so Stripe stops retrying.
	user, err := s.store.GrantReportAccess(r.Context(), event.ID, event.Type, customerID)
	if errors.Is(err, store.ErrEventAlreadyProcessed) {
		s.logger.Debug("webhook: duplicate event, skipping", "event_id", event.ID, logField(r))
		return nil
	}
	if errors.Is(err, store.ErrUnknownCustomer) {
		// Returning the error would make Stripe retry forever against a
		// customer we will never know. Log loudly and ack.
		s.logger.Error("webhook: payment for unknown customer",
			"event_id", event.ID,
			"customer_id", customerID,
			logField(r),
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("onCheckoutCompleted: grant report access: %w", err)
	}

	// Send the receipt immediately. Prefer the email Stripe collected at
	// checkout; fall back to the account email.
	to := stripeinternal.ExtractCustomerEmail(event)
	if to == "" {
		to = user.Email
	}
	receiptErr := s.mailer.SendReceipt(r.Context(), email.ReceiptParams{
		To:          to,
		CompanyName: user.Name.String,
		AmountCents: s.cfg.ReportPriceCents,
		Currency:    s.cfg.ReportCurrency,
	})
	s.logAndIgnoreEmailErr(r, receiptErr, "send receipt")

	return nil
}
