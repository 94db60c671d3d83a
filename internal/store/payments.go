package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/verdanta/csrd-reporting-backend/internal/db"
)

// ─── ERRORS ──────────────────────────────────────────────────────────────────

// ErrEventAlreadyProcessed is returned by GrantReportAccess when the Stripe
// event id is already in the ledger. The webhook handler should treat this as
// idempotent success — a duplicate delivery of checkout.session.completed must
// not run the side effects a second time.
var ErrEventAlreadyProcessed = errors.New("store: stripe event already processed")

// ErrUnknownCustomer is returned when no user row carries the Stripe customer
// id the event references.
var ErrUnknownCustomer = errors.New("store: no user for stripe customer")

// ─── METHODS ─────────────────────────────────────────────────────────────────

// GrantReportAccess is called by the Stripe webhook handler on
// checkout.session.completed. It atomically:
//
//  1. Records the event id in the ledger (idempotency guard).
//  2. Marks the user owning the Stripe customer as paid.
//
// If the event was already recorded (duplicate webhook delivery),
// ErrEventAlreadyProcessed is returned. The caller should log this at debug
// level and return HTTP 200 to Stripe immediately.
//
// If the ledger insert succeeds but the user update fails, the whole
// transaction rolls back so the next delivery retries cleanly.
func (s *Store) GrantReportAccess(ctx context.Context, eventID, eventType, stripeCustomerID string) (db.User, error) {
	var user db.User

	err := s.withTx(ctx, func(ctx context.Context, q db.Querier) error {
		// 1. Idempotency guard.
		if _, err := q.GetStripeEvent(ctx, eventID); err == nil {
			return ErrEventAlreadyProcessed
		} else if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("GrantReportAccess: check event ledger: %w", err)
		}
		if err := q.InsertStripeEvent(ctx, db.InsertStripeEventParams{
			ID:   eventID,
			Type: eventType,
		}); err != nil {
			return fmt.Errorf("GrantReportAccess: record event: %w", err)
		}

		// 2. Flip the entitlement.
		updated, err := q.MarkUserPaidByCustomerID(ctx, sql.NullString{
			String: stripeCustomerID,
			Valid:  true,
		})
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("GrantReportAccess: customer %s: %w", stripeCustomerID, ErrUnknownCustomer)
		}
		if err != nil {
			return fmt.Errorf("GrantReportAccess: mark user paid: %w", err)
		}

		user = updated
		return nil
	})
	if err != nil {
		return db.User{}, err
	}
	return user, nil
}

// EnsureCustomer attaches a Stripe customer id to a user, guarding against a
// second checkout attempt overwriting the id created by the first.
//
// Race scenario without the guard:
//  1. Two browser tabs call POST /checkout simultaneously.
//  2. Both read the user, see no customer id, and call Stripe.
//  3. Both try to write — the second write silently overwrites the first,
//     orphaning a Stripe customer object.
//
// With serializable isolation the second concurrent transaction sees the
// first commit and returns the already-attached id instead.
func (s *Store) EnsureCustomer(ctx context.Context, email, stripeCustomerID string) (db.User, error) {
	var user db.User

	err := s.withTx(ctx, func(ctx context.Context, q db.Querier) error {
		existing, err := q.GetUserByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("EnsureCustomer: get user: %w", err)
		}
		if existing.StripeCustomerID.Valid && existing.StripeCustomerID.String != "" {
			user = existing
			return nil
		}
		updated, err := q.SetStripeCustomerID(ctx, db.SetStripeCustomerIDParams{
			ID: existing.ID,
			StripeCustomerID: sql.NullString{
				String: stripeCustomerID,
				Valid:  stripeCustomerID != "",
			},
		})
		if err != nil {
			return fmt.Errorf("EnsureCustomer: attach customer: %w", err)
		}
		user = updated
		return nil
	})
	if err != nil {
		return db.User{}, err
	}
	return user, nil
}

// EnsureUser returns the user row for an email, creating it on first sight.
// Concurrent first requests for the same email are serialized by the
// transaction isolation level; the loser of the race re-reads the row the
// winner created.
func (s *Store) EnsureUser(ctx context.Context, email string) (db.User, error) {
	user, err := s.q.GetUserByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return db.User{}, fmt.Errorf("EnsureUser: get user: %w", err)
	}

	err = s.withTx(ctx, func(ctx context.Context, q db.Querier) error {
		existing, err := q.GetUserByEmail(ctx, email)
		if err == nil {
			user = existing
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("EnsureUser: re-check user: %w", err)
		}
		created, err := q.CreateUser(ctx, db.CreateUserParams{Email: email})
		if err != nil {
			return fmt.Errorf("EnsureUser: create user: %w", err)
		}
		user = created
		return nil
	})
	if err != nil {
		return db.User{}, err
	}
	return user, nil
}
