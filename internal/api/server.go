// Package api implements the HTTP layer for the Verdanta CSRD reporting
// backend. Handlers are methods on *Server. Each handler file is responsible
// for one resource group and only imports the dependencies it actually uses.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/verdanta/csrd-reporting-backend/internal/ai"
	"github.com/verdanta/csrd-reporting-backend/internal/auth"
	"github.com/verdanta/csrd-reporting-backend/internal/db"
	"github.com/verdanta/csrd-reporting-backend/internal/email"
	stripeinternal "github.com/verdanta/csrd-reporting-backend/internal/stripe"
)

// Store is the multi-step atomic write surface the handlers need. The
// concrete implementation is *store.Store; tests inject an in-memory stub.
// Its method set covers session.Persister, so it doubles as the persister
// for save sessions.
type Store interface {
	EnsureUser(ctx context.Context, email string) (db.User, error)
	EnsureCustomer(ctx context.Context, email, stripeCustomerID string) (db.User, error)
	GrantReportAccess(ctx context.Context, eventID, eventType, stripeCustomerID string) (db.User, error)
	FetchAnswers(ctx context.Context, reportID uuid.UUID) (map[string]string, error)
	ReplaceResponses(ctx context.Context, reportID uuid.UUID, answers map[string]string) error
	MirrorReportContent(ctx context.Context, reportID uuid.UUID, answers map[string]string) error
}

// Config holds values read from environment variables at startup.
type Config struct {
	// BaseURL is used to construct the report link in delivery emails.
	// e.g. "https://app.verdanta.eu"
	BaseURL string

	// StripeWebhookSecret is the signing secret from the Stripe dashboard.
	StripeWebhookSecret string

	// Env is "production", "staging", or "development".
	Env string

	// ReportPriceCents and ReportCurrency describe the one-time report
	// access purchase created at checkout.
	ReportPriceCents int64
	ReportCurrency   string

	// SaveAckTTL is how long a successful save acknowledgement stays visible
	// before auto-clearing.
	SaveAckTTL time.Duration
}

// Server holds all shared dependencies. Each handler file attaches methods to
// this type and uses only the fields it needs.
type Server struct {
	// q handles all single-query reads. Injected directly — no repo wrapper.
	q db.Querier

	// store handles multi-step atomic writes.
	store Store

	// stripe creates Checkout Sessions and verifies webhook signatures.
	stripe stripeinternal.Client

	// generator produces the CSRD narrative. Nil when no AI key is
	// configured; the generate handler then always returns the plain
	// assembly.
	generator ai.Generator

	// mailer sends transactional emails (receipt + report delivery).
	mailer email.Sender

	// auth issues and validates the bearer tokens that identify users.
	auth *auth.Manager

	cfg    Config
	logger *slog.Logger
}

// NewServer constructs the Server and wires the chi router. The returned
// http.Handler is ready to pass to http.ListenAndServe.
func NewServer(
	q db.Querier,
	st Store,
	stripeClient stripeinternal.Client,
	generator ai.Generator,
	mailer email.Sender,
	authManager *auth.Manager,
	cfg Config,
	logger *slog.Logger,
) http.Handler {
	s := &Server{
		q:         q,
		store:     st,
		stripe:    stripeClient,
		generator: generator,
		mailer:    mailer,
		auth:      authManager,
		cfg:       cfg,
		logger:    logger,
	}

	return s.routes()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	// ── Global middleware ─────────────────────────────────────────────────────
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggerMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(s.corsMiddleware)
	r.Use(middleware.Timeout(30 * time.Second))

	// ── Health ────────────────────────────────────────────────────────────────
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// ── API v1 ────────────────────────────────────────────────────────────────
	r.Route("/api", func(r chi.Router) {

		// Login — no auth required (issues the bearer token).
		r.Post("/auth/login", s.handleLogin)

		// Stripe webhook — no auth (signature verification inside handler).
		r.Post("/webhooks/stripe", s.handleStripeWebhook)

		// Authenticated routes — require a valid bearer token.
		r.Group(func(r chi.Router) {
			r.Use(s.requireUser)

			r.Get("/me", s.handleGetMe)
			r.Get("/payment", s.handleGetPayment)
			r.Post("/checkout", s.handleCreateCheckout)

			// Creating questionnaires is admin-only; reading one requires a
			// completed purchase.
			r.Post("/questionnaire", s.handleCreateQuestionnaire)
			r.With(s.requirePaid).Get("/questionnaire", s.handleGetQuestionnaire)

			r.Route("/reports", func(r chi.Router) {
				r.Get("/", s.handleListReports)
				r.Post("/", s.handleCreateReport)

				r.Route("/{reportID}", func(r chi.Router) {
					r.Get("/", s.handleGetReport)
					r.Patch("/", s.handleUpdateReport)
					r.Delete("/", s.handleDeleteReport)

					r.Get("/responses", s.handleGetResponses)
					r.Put("/responses", s.handleSaveResponses)

					r.Get("/sections/{index}", s.handleGetSection)

					// Generation and downloads require a completed purchase.
					r.Group(func(r chi.Router) {
						r.Use(s.requirePaid)
						r.Post("/generate", s.handleGenerateReport)
						r.Get("/download", s.handleDownloadText)
						r.Get("/download/pdf", s.handleDownloadPDF)
					})
				})
			})
		})
	})

	return r
}
