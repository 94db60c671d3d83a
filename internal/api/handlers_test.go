package api_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
	"github.com/verdanta/csrd-reporting-backend/internal/api"
	"github.com/verdanta/csrd-reporting-backend/internal/auth"
	"github.com/verdanta/csrd-reporting-backend/internal/db"
	"github.com/verdanta/csrd-reporting-backend/internal/email"
	"github.com/verdanta/csrd-reporting-backend/internal/store"
	stripeinternal "github.com/verdanta/csrd-reporting-backend/internal/stripe"
)

// ─── STUBS ────────────────────────────────────────────────────────────────────

// stubQuerier satisfies db.Querier with in-memory state.
// Fields may be set per-test to control behaviour.
type stubQuerier struct {
	db.Querier // embedded to panic on unimplemented methods

	users         map[string]db.User // keyed by email
	questionnaire db.Questionnaire
	reports       map[uuid.UUID]db.Report
}

func newStubQuerier() *stubQuerier {
	return &stubQuerier{
		users:   make(map[string]db.User),
		reports: make(map[uuid.UUID]db.Report),
	}
}

func (q *stubQuerier) GetUserByEmail(_ context.Context, email string) (db.User, error) {
	u, ok := q.users[email]
	if !ok {
		return db.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (q *stubQuerier) GetLatestQuestionnaire(_ context.Context) (db.Questionnaire, error) {
	return q.questionnaire, nil
}

func (q *stubQuerier) CreateQuestionnaire(_ context.Context, p db.CreateQuestionnaireParams) (db.Questionnaire, error) {
	q.questionnaire = db.Questionnaire{
		ID:          uuid.New(),
		Title:       p.Title,
		Description: p.Description,
		Questions:   p.Questions,
		Sections:    p.Sections,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	return q.questionnaire, nil
}

func (q *stubQuerier) GetReportByID(_ context.Context, id uuid.UUID) (db.Report, error) {
	r, ok := q.reports[id]
	if !ok {
		return db.Report{}, sql.ErrNoRows
	}
	return r, nil
}

func (q *stubQuerier) ListReportsByUser(_ context.Context, userID uuid.UUID) ([]db.Report, error) {
	var out []db.Report
	for _, r := range q.reports {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (q *stubQuerier) CreateReport(_ context.Context, p db.CreateReportParams) (db.Report, error) {
	r := db.Report{
		ID:        uuid.New(),
		UserID:    p.UserID,
		Title:     p.Title,
		Status:    "draft",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	q.reports[r.ID] = r
	return r, nil
}

func (q *stubQuerier) UpdateReportTitle(_ context.Context, p db.UpdateReportTitleParams) (db.Report, error) {
	r, ok := q.reports[p.ID]
	if !ok {
		return db.Report{}, sql.ErrNoRows
	}
	r.Title = p.Title
	q.reports[p.ID] = r
	return r, nil
}

func (q *stubQuerier) UpdateReportStatus(_ context.Context, p db.UpdateReportStatusParams) (db.Report, error) {
	r, ok := q.reports[p.ID]
	if !ok {
		return db.Report{}, sql.ErrNoRows
	}
	r.Status = p.Status
	q.reports[p.ID] = r
	return r, nil
}

func (q *stubQuerier) UpdateReportGeneratedContent(_ context.Context, p db.UpdateReportGeneratedContentParams) (db.Report, error) {
	r, ok := q.reports[p.ID]
	if !ok {
		return db.Report{}, sql.ErrNoRows
	}
	r.GeneratedContent = p.GeneratedContent
	q.reports[p.ID] = r
	return r, nil
}

func (q *stubQuerier) DeleteReport(_ context.Context, id uuid.UUID) error {
	delete(q.reports, id)
	return nil
}

// stubStore satisfies api.Store with in-memory state.
type stubStore struct {
	q       *stubQuerier
	answers map[uuid.UUID]map[string]string

	replaceErr error
	mirrorErr  error
	grantErr   error

	mirrored []uuid.UUID
}

func newStubStore(q *stubQuerier) *stubStore {
	return &stubStore{q: q, answers: make(map[uuid.UUID]map[string]string)}
}

func (s *stubStore) EnsureUser(_ context.Context, email string) (db.User, error) {
	if u, ok := s.q.users[email]; ok {
		return u, nil
	}
	u := db.User{ID: uuid.New(), Email: email}
	s.q.users[email] = u
	return u, nil
}

func (s *stubStore) EnsureCustomer(_ context.Context, email, customerID string) (db.User, error) {
	u, ok := s.q.users[email]
	if !ok {
		return db.User{}, sql.ErrNoRows
	}
	if !u.StripeCustomerID.Valid {
		u.StripeCustomerID = sql.NullString{String: customerID, Valid: true}
		s.q.users[email] = u
	}
	return u, nil
}

func (s *stubStore) GrantReportAccess(_ context.Context, _, _, customerID string) (db.User, error) {
	if s.grantErr != nil {
		return db.User{}, s.grantErr
	}
	for email, u := range s.q.users {
		if u.StripeCustomerID.String == customerID {
			u.HasPaid = true
			s.q.users[email] = u
			return u, nil
		}
	}
	return db.User{}, store.ErrUnknownCustomer
}

func (s *stubStore) FetchAnswers(_ context.Context, reportID uuid.UUID) (map[string]string, error) {
	out := make(map[string]string)
	for id, v := range s.answers[reportID] {
		out[id] = v
	}
	return out, nil
}

func (s *stubStore) ReplaceResponses(_ context.Context, reportID uuid.UUID, answers map[string]string) error {
	if s.replaceErr != nil {
		return s.replaceErr
	}
	copied := make(map[string]string, len(answers))
	for id, v := range answers {
		copied[id] = v
	}
	s.answers[reportID] = copied
	return nil
}

func (s *stubStore) MirrorReportContent(_ context.Context, reportID uuid.UUID, _ map[string]string) error {
	if s.mirrorErr != nil {
		return s.mirrorErr
	}
	s.mirrored = append(s.mirrored, reportID)
	return nil
}

// stubStripe is a controllable Stripe client.
type stubStripe struct {
	customerID  string
	session     stripeinternal.CheckoutSession
	createErr   error
	verifyEvent stripeinternal.Event
	verifyErr   error
}

func (s *stubStripe) EnsureCustomer(_ context.Context, _ string) (string, error) {
	return s.customerID, nil
}

func (s *stubStripe) CreateCheckoutSession(_ context.Context, _ stripeinternal.CreateCheckoutSessionParams) (stripeinternal.CheckoutSession, error) {
	return s.session, s.createErr
}

func (s *stubStripe) VerifyWebhook(_ []byte, _ string, _ string) (stripeinternal.Event, error) {
	return s.verifyEvent, s.verifyErr
}

// stubGenerator returns a canned narrative or an error.
type stubGenerator struct {
	out     string
	err     error
	prompts []string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.out, nil
}

// stubMailer captures sent emails.
type stubMailer struct {
	receipts     []email.ReceiptParams
	reportReadys []email.ReportReadyParams
	err          error
}

func (m *stubMailer) SendReceipt(_ context.Context, p email.ReceiptParams) error {
	m.receipts = append(m.receipts, p)
	return m.err
}

func (m *stubMailer) SendReportReady(_ context.Context, p email.ReportReadyParams) error {
	m.reportReadys = append(m.reportReadys, p)
	return m.err
}

// ─── HELPERS ─────────────────────────────────────────────────────────────────

type testDeps struct {
	q       *stubQuerier
	store   *stubStore
	stripe  *stubStripe
	gen     *stubGenerator
	mailer  *stubMailer
	auth    *auth.Manager
	handler http.Handler
}

func newTestServer(t *testing.T, cfgOverrides ...func(*api.Config)) *testDeps {
	t.Helper()

	q := newStubQuerier()
	st := newStubStore(q)
	strp := &stubStripe{
		customerID: "cus_test",
		session:    stripeinternal.CheckoutSession{ID: "cs_test", URL: "https://checkout.stripe.com/pay/cs_test"},
	}
	gen := &stubGenerator{out: "Generated CSRD narrative."}
	ml := &stubMailer{}
	mgr := auth.NewManager("test-secret", time.Hour)

	cfg := api.Config{
		Env:                 "development",
		BaseURL:             "http://localhost:8080",
		StripeWebhookSecret: "whsec_test",
		ReportPriceCents:    19900,
		ReportCurrency:      "eur",
		SaveAckTTL:          50 * time.Millisecond,
	}
	for _, fn := range cfgOverrides {
		fn(&cfg)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handler := api.NewServer(q, st, strp, gen, ml, mgr, cfg, logger)

	return &testDeps{
		q:       q,
		store:   st,
		stripe:  strp,
		gen:     gen,
		mailer:  ml,
		auth:    mgr,
		handler: handler,
	}
}

func doRequest(t *testing.T, handler http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		bodyReader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, bodyReader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(dst); err != nil {
		t.Fatalf("decode response body: %v (raw: %s)", err, rr.Body.String())
	}
}

// seedUser registers a user row and returns an Authorization header for it.
func seedUser(t *testing.T, deps *testDeps, emailAddr string, paid bool) (db.User, map[string]string) {
	t.Helper()
	u := db.User{
		ID:      uuid.New(),
		Email:   emailAddr,
		Name:    sql.NullString{String: "Acme GmbH", Valid: true},
		HasPaid: paid,
	}
	deps.q.users[emailAddr] = u

	token, err := deps.auth.Issue(emailAddr)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return u, map[string]string{"Authorization": "Bearer " + token}
}

// seedQuestionnaire stores a raw record with one Energy section holding two
// questions, in the nested questions.sections shape.
func seedQuestionnaire(deps *testDeps) {
	raw := `{"sections":[{"section":"Energy","questions":[` +
		`{"question_id":"energy-consumption","question_text":"Total energy consumed?","question_type":"number","unit":"kWh"},` +
		`{"question_id":"renewable-share","question_text":"Share of renewables?","question_type":"number"}]}]}`
	deps.q.questionnaire = db.Questionnaire{
		ID:        uuid.New(),
		Title:     "CSRD Questionnaire",
		Questions: pqtype.NullRawMessage{RawMessage: json.RawMessage(raw), Valid: true},
	}
}

func seedReport(deps *testDeps, userID uuid.UUID) db.Report {
	r := db.Report{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     "FY2025 Sustainability Report",
		Status:    "draft",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	deps.q.reports[r.ID] = r
	return r
}

// ─── GET /healthz ─────────────────────────────────────────────────────────────

func TestHealthz(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodGet, "/healthz", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

// ─── POST /api/auth/login ─────────────────────────────────────────────────────

func TestLogin_IssuesTokenAndCreatesUser(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "Reporter@Example.com"}, nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Token   string `json:"token"`
		Email   string `json:"email"`
		HasPaid bool   `json:"has_paid"`
	}
	decodeJSON(t, rr, &resp)

	if resp.Token == "" {
		t.Error("token should not be empty")
	}
	if resp.Email != "reporter@example.com" {
		t.Errorf("email should be lowercased, got %q", resp.Email)
	}
	if _, ok := deps.q.users["reporter@example.com"]; !ok {
		t.Error("user row should have been created")
	}
}

func TestLogin_InvalidEmailReturns400(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "not-an-address"}, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestLogin_UnknownFieldsReturns400(t *testing.T) {
	// DisallowUnknownFields is set on the decoder.
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "a@b.co", "password": "nope"}, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d: %s", rr.Code, rr.Body.String())
	}
}

// ─── AUTH MIDDLEWARE ──────────────────────────────────────────────────────────

func TestRequireUser_MissingTokenReturns401(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodGet, "/api/me", nil, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestRequireUser_GarbageTokenReturns401(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodGet, "/api/me", nil,
		map[string]string{"Authorization": "Bearer not.a.jwt"})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestRequireUser_TokenForDeletedUserReturns401(t *testing.T) {
	deps := newTestServer(t)
	token, err := deps.auth.Issue("ghost@example.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	rr := doRequest(t, deps.handler, http.MethodGet, "/api/me", nil,
		map[string]string{"Authorization": "Bearer " + token})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestGetMe_ReturnsProfile(t *testing.T) {
	deps := newTestServer(t)
	_, headers := seedUser(t, deps, "me@example.com", true)

	rr := doRequest(t, deps.handler, http.MethodGet, "/api/me", nil, headers)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Email   string `json:"email"`
		HasPaid bool   `json:"has_paid"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Email != "me@example.com" {
		t.Errorf("email: got %q", resp.Email)
	}
	if !resp.HasPaid {
		t.Error("has_paid should be true")
	}
}

// ─── GET /api/questionnaire ───────────────────────────────────────────────────

func TestGetQuestionnaire_NormalizesStoredRecord(t *testing.T) {
	deps := newTestServer(t)
	_, headers := seedUser(t, deps, "q@example.com", true)
	seedQuestionnaire(deps)

	rr := doRequest(t, deps.handler, http.MethodGet, "/api/questionnaire", nil, headers)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Questionnaire struct {
			Title    string `json:"title"`
			Sections []struct {
				Title     string `json:"title"`
				Questions []struct {
					ID   string `json:"id"`
					Text string `json:"text"`
				} `json:"questions"`
			} `json:"sections"`
		} `json:"questionnaire"`
		HelpText map[string]string `json:"help_text"`
	}
	decodeJSON(t, rr, &resp)

	if len(resp.Questionnaire.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(resp.Questionnaire.Sections))
	}
	sec := resp.Questionnaire.Sections[0]
	if sec.Title != "Energy" {
		t.Errorf("section title: got %q", sec.Title)
	}
	if len(sec.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(sec.Questions))
	}
	if sec.Questions[0].ID != "energy-consumption" {
		t.Errorf("first question id: got %q", sec.Questions[0].ID)
	}
	// Help text is served only for question ids present in the questionnaire.
	if _, ok := resp.HelpText["energy-consumption"]; !ok {
		t.Error("expected help text for energy-consumption")
	}
	if _, ok := resp.HelpText["board-independence"]; ok {
		t.Error("help text must not include questions absent from the questionnaire")
	}
}

func TestGetQuestionnaire_UnrecognizedFormatReturns422WithRawRecord(t *testing.T) {
	deps := newTestServer(t)
	_, headers := seedUser(t, deps, "q@example.com", true)
	deps.q.questionnaire = db.Questionnaire{
		ID:        uuid.New(),
		Title:     "Broken",
		Questions: pqtype.NullRawMessage{RawMessage: json.RawMessage(`{}`), Valid: true},
	}

	rr := doRequest(t, deps.handler, http.MethodGet, "/api/questionnaire", nil, headers)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "raw_record") {
		t.Error("response should echo the raw record for diagnosis")
	}
}

func TestGetQuestionnaire_EmptyStructureReturns422(t *testing.T) {
	deps := newTestServer(t)
	_, headers := seedUser(t, deps, "q@example.com", true)
	deps.q.questionnaire = db.Questionnaire{ID: uuid.New(), Title: "Empty"}

	rr := doRequest(t, deps.handler, http.MethodGet, "/api/questionnaire", nil, headers)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestGetQuestionnaire_UnpaidReturns402(t *testing.T) {
	deps := newTestServer(t)
	_, headers := seedUser(t, deps, "q@example.com", false)
	seedQuestionnaire(deps)

	rr := doRequest(t, deps.handler, http.MethodGet, "/api/questionnaire", nil, headers)
	if rr.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d: %s", rr.Code, rr.Body.String())
	}
}

// ─── POST /api/questionnaire ──────────────────────────────────────────────────

func TestCreateQuestionnaire_NonAdminReturns403(t *testing.T) {
	deps := newTestServer(t)
	_, headers := seedUser(t, deps, "q@example.com", true)

	rr := doRequest(t, deps.handler, http.MethodPost, "/api/questionnaire",
		map[string]string{"title": "CSRD v2"}, headers)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestCreateQuestionnaire_AdminStoresRecord(t *testing.T) {
	deps := newTestServer(t)
	u, headers := seedUser(t, deps, "admin@example.com", true)
	u.IsAdmin = true
	deps.q.users[u.Email] = u

	body := map[string]any{
		"title":       "CSRD v2",
		"description": "Updated disclosure set",
		"questions": json.RawMessage(`{"sections":[{"section":"Energy","questions":[` +
			`{"question_id":"energy-consumption","question_text":"Total energy consumed?","question_type":"number"}]}]}`),
	}
	rr := doRequest(t, deps.handler, http.MethodPost, "/api/questionnaire", body, headers)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Title != "CSRD v2" {
		t.Errorf("title: got %q", resp.Title)
	}
	if resp.ID == "" {
		t.Error("expected a questionnaire id")
	}

	// The stored record becomes the latest revision served to companies.
	got := doRequest(t, deps.handler, http.MethodGet, "/api/questionnaire", nil, headers)
	if got.Code != http.StatusOK {
		t.Fatalf("expected 200 reading back, got %d: %s", got.Code, got.Body.String())
	}
	if !strings.Contains(got.Body.String(), "energy-consumption") {
		t.Error("read-back should serve the new revision")
	}
}

func TestCreateQuestionnaire_MissingTitleReturns400(t *testing.T) {
	deps := newTestServer(t)
	u, headers := seedUser(t, deps, "admin@example.com", true)
	u.IsAdmin = true
	deps.q.users[u.Email] = u

	rr := doRequest(t, deps.handler, http.MethodPost, "/api/questionnaire",
		map[string]string{"title": "   "}, headers)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

// ─── GET /api/payment ─────────────────────────────────────────────────────────

func TestGetPayment_ReportsEntitlement(t *testing.T) {
	deps := newTestServer(t)

	for _, paid := range []bool{false, true} {
		_, headers := seedUser(t, deps, "pay@example.com", paid)
		rr := doRequest(t, deps.handler, http.MethodGet, "/api/payment", nil, headers)
		if rr.Code != http.StatusOK {
			t.Fatalf("paid=%v: expected 200, got %d: %s", paid, rr.Code, rr.Body.String())
		}
		var resp struct {
			HasPaid bool `json:"has_paid"`
		}
		decodeJSON(t, rr, &resp)
		if resp.HasPaid != paid {
			t.Errorf("paid=%v: has_paid mismatch, got %v", paid, resp.HasPaid)
		}
	}
}

// ─── REPORTS CRUD ─────────────────────────────────────────────────────────────

func TestCreateReport_Returns201(t *testing.T) {
	deps := newTestServer(t)
	user, headers := seedUser(t, deps, "r@example.com", false)

	rr := doRequest(t, deps.handler, http.MethodPost, "/api/reports",
		map[string]string{"title": "FY2025"}, headers)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		ID     string `json:"id"`
		Title  string `json:"title"`
		Status string `json:"status"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Title != "FY2025" {
		t.Errorf("title: got %q", resp.Title)
	}
	if resp.Status != "draft" {
		t.Errorf("status: got %q", resp.Status)
	}

	id, err := uuid.Parse(resp.ID)
	if err != nil {
		t.Fatalf("parse report id: %v", err)
	}
	if deps.q.reports[id].UserID != user.ID {
		t.Error("report should belong to the authenticated user")
	}
}

func TestCreateReport_EmptyTitleReturns400(t *testing.T) {
	deps := newTestServer(t)
	_, headers := seedUser(t, deps, "r@example.com", false)

	rr := doRequest(t, deps.handler, http.MethodPost, "/api/reports",
		map[string]string{"title": "   "}, headers)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestListReports_OnlyOwnReports(t *testing.T) {
	deps := newTestServer(t)
	user, headers := seedUser(t, deps, "mine@example.com", false)
	other, _ := seedUser(t, deps, "other@example.com", false)
	seedReport(deps, user.ID)
	seedReport(deps, other.ID)

	rr := doRequest(t, deps.handler, http.MethodGet, "/api/reports", nil, headers)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Reports []struct {
			ID string `json:"id"`
		} `json:"reports"`
	}
	decodeJSON(t, rr, &resp)
	if len(resp.Reports) != 1 {
		t.Fatalf("expected 1 report, got %d", len(resp.Reports))
	}
}

func TestGetReport_OtherUsersReportReturns404(t *testing.T) {
	deps := newTestServer(t)
	_, headers := seedUser(t, deps, "mine@example.com", false)
	other, _ := seedUser(t, deps, "other@example.com", false)
	rep := seedReport(deps, other.ID)

	rr := doRequest(t, deps.handler, http.MethodGet, "/api/reports/"+rep.ID.String(), nil, headers)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign report, got %d", rr.Code)
	}
}

func TestUpdateReport_RenamesAndSubmits(t *testing.T) {
	deps := newTestServer(t)
	user, headers := seedUser(t, deps, "r@example.com", false)
	rep := seedReport(deps, user.ID)

	rr := doRequest(t, deps.handler, http.MethodPatch, "/api/reports/"+rep.ID.String(),
		map[string]string{"title": "Renamed", "status": "submitted"}, headers)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Title  string `json:"title"`
		Status string `json:"status"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Title != "Renamed" {
		t.Errorf("title: got %q", resp.Title)
	}
	if resp.Status != "submitted" {
		t.Errorf("status: got %q", resp.Status)
	}
}

func TestUpdateReport_InvalidStatusReturns400(t *testing.T) {
	deps := newTestServer(t)
	user, headers := seedUser(t, deps, "r@example.com", false)
	rep := seedReport(deps, user.ID)

	rr := doRequest(t, deps.handler, http.MethodPatch, "/api/reports/"+rep.ID.String(),
		map[string]string{"status": "archived"}, headers)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestDeleteReport_Returns204(t *testing.T) {
	deps := newTestServer(t)
	user, headers := seedUser(t, deps, "r@example.com", false)
	rep := seedReport(deps, user.ID)

	rr := doRequest(t, deps.handler, http.MethodDelete, "/api/reports/"+rep.ID.String(), nil, headers)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if _, ok := deps.q.reports[rep.ID]; ok {
		t.Error("report should have been deleted")
	}
}

// ─── RESPONSES ────────────────────────────────────────────────────────────────

func TestGetResponses_ReconcilesStoredAnswers(t *testing.T) {
	deps := newTestServer(t)
	user, headers := seedUser(t, deps, "r@example.com", false)
	seedQuestionnaire(deps)
	rep := seedReport(deps, user.ID)

	// One current answer, one stale answer to a removed question.
	deps.store.answers[rep.ID] = map[string]string{
		"energy-consumption": "1200",
		"retired-question":   "stale",
	}

	rr := doRequest(t, deps.handler, http.MethodGet,
		"/api/reports/"+rep.ID.String()+"/responses", nil, headers)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Answers map[string]string `json:"answers"`
	}
	decodeJSON(t, rr, &resp)

	want := map[string]string{
		"energy-consumption": "1200",
		"renewable-share":    "",
	}
	if len(resp.Answers) != len(want) {
		t.Fatalf("answers: got %v, want %v", resp.Answers, want)
	}
	for id, v := range want {
		if resp.Answers[id] != v {
			t.Errorf("answers[%s]: got %q, want %q", id, resp.Answers[id], v)
		}
	}
}

func TestSaveResponses_PersistsFullStateAndAcks(t *testing.T) {
	deps := newTestServer(t)
	user, headers := seedUser(t, deps, "r@example.com", false)
	seedQuestionnaire(deps)
	rep := seedReport(deps, user.ID)

	rr := doRequest(t, deps.handler, http.MethodPut,
		"/api/reports/"+rep.ID.String()+"/responses",
		map[string]any{"answers": map[string]string{
			"energy-consumption": "1500",
			"unknown-question":   "ignored",
		}}, headers)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Answers map[string]string `json:"answers"`
		Ack     struct {
			Kind    string `json:"kind"`
			Message string `json:"message"`
		} `json:"ack"`
	}
	decodeJSON(t, rr, &resp)

	if resp.Ack.Kind != "success" {
		t.Errorf("ack kind: got %q", resp.Ack.Kind)
	}
	if _, ok := resp.Answers["unknown-question"]; ok {
		t.Error("unknown question ids must be dropped")
	}

	persisted := deps.store.answers[rep.ID]
	if persisted["energy-consumption"] != "1500" {
		t.Errorf("persisted energy-consumption: got %q", persisted["energy-consumption"])
	}
	if v, ok := persisted["renewable-share"]; !ok || v != "" {
		t.Error("unanswered questions must persist as empty strings")
	}
	if len(deps.store.mirrored) != 1 {
		t.Errorf("expected 1 mirror write, got %d", len(deps.store.mirrored))
	}
}

func TestSaveResponses_PersistFailureReturns500WithErrorAck(t *testing.T) {
	deps := newTestServer(t)
	user, headers := seedUser(t, deps, "r@example.com", false)
	seedQuestionnaire(deps)
	rep := seedReport(deps, user.ID)
	deps.store.replaceErr = errors.New("db connection lost")

	rr := doRequest(t, deps.handler, http.MethodPut,
		"/api/reports/"+rep.ID.String()+"/responses",
		map[string]any{"answers": map[string]string{"energy-consumption": "1"}}, headers)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Ack struct {
			Kind string `json:"kind"`
		} `json:"ack"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Ack.Kind != "error" {
		t.Errorf("ack kind: got %q, want error", resp.Ack.Kind)
	}
}

func TestSaveResponses_MirrorFailureStillSucceeds(t *testing.T) {
	deps := newTestServer(t)
	user, headers := seedUser(t, deps, "r@example.com", false)
	seedQuestionnaire(deps)
	rep := seedReport(deps, user.ID)
	deps.store.mirrorErr = errors.New("jsonb write failed")

	rr := doRequest(t, deps.handler, http.MethodPut,
		"/api/reports/"+rep.ID.String()+"/responses",
		map[string]any{"answers": map[string]string{"energy-consumption": "1"}}, headers)
	if rr.Code != http.StatusOK {
		t.Fatalf("mirror failure must not fail the save, got %d: %s", rr.Code, rr.Body.String())
	}
}

// ─── SECTIONS ─────────────────────────────────────────────────────────────────

func TestGetSection_ReturnsSectionWithAnswers(t *testing.T) {
	deps := newTestServer(t)
	user, headers := seedUser(t, deps, "r@example.com", false)
	seedQuestionnaire(deps)
	rep := seedReport(deps, user.ID)
	deps.store.answers[rep.ID] = map[string]string{"energy-consumption": "900"}

	rr := doRequest(t, deps.handler, http.MethodGet,
		"/api/reports/"+rep.ID.String()+"/sections/0", nil, headers)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Index   int               `json:"index"`
		Total   int               `json:"total"`
		Answers map[string]string `json:"answers"`
		Section struct {
			Title string `json:"title"`
		} `json:"section"`
	}
	decodeJSON(t, rr, &resp)

	if resp.Index != 0 || resp.Total != 1 {
		t.Errorf("index/total: got %d/%d", resp.Index, resp.Total)
	}
	if resp.Section.Title != "Energy" {
		t.Errorf("section title: got %q", resp.Section.Title)
	}
	if resp.Answers["energy-consumption"] != "900" {
		t.Errorf("answer: got %q", resp.Answers["energy-consumption"])
	}
}

func TestGetSection_OutOfRangeFallsBackToFirst(t *testing.T) {
	deps := newTestServer(t)
	user, headers := seedUser(t, deps, "r@example.com", false)
	seedQuestionnaire(deps)
	rep := seedReport(deps, user.ID)

	rr := doRequest(t, deps.handler, http.MethodGet,
		"/api/reports/"+rep.ID.String()+"/sections/99", nil, headers)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Index int `json:"index"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Index != 0 {
		t.Errorf("out-of-range index should serve section 0, got %d", resp.Index)
	}
}

func TestGetSection_NonNumericIndexReturns400(t *testing.T) {
	deps := newTestServer(t)
	user, headers := seedUser(t, deps, "r@example.com", false)
	seedQuestionnaire(deps)
	rep := seedReport(deps, user.ID)

	rr := doRequest(t, deps.handler, http.MethodGet,
		"/api/reports/"+rep.ID.String()+"/sections/abc", nil, headers)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

// ─── GENERATE ─────────────────────────────────────────────────────────────────

func TestGenerate_UnpaidUserReturns402(t *testing.T) {
	deps := newTestServer(t)
	user, headers := seedUser(t, deps, "r@example.com", false)
	seedQuestionnaire(deps)
	rep := seedReport(deps, user.ID)

	rr := doRequest(t, deps.handler, http.MethodPost,
		"/api/reports/"+rep.ID.String()+"/generate", nil, headers)
	if rr.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestGenerate_AIPathPersistsNarrative(t *testing.T) {
	deps := newTestServer(t)
	user, headers := seedUser(t, deps, "r@example.com", true)
	seedQuestionnaire(deps)
	rep := seedReport(deps, user.ID)
	deps.store.answers[rep.ID] = map[string]string{"energy-consumption": "1200"}

	rr := doRequest(t, deps.handler, http.MethodPost,
		"/api/reports/"+rep.ID.String()+"/generate", nil, headers)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Content  string `json:"content"`
		Source   string `json:"source"`
		AIFailed bool   `json:"ai_failed"`
	}
	decodeJSON(t, rr, &resp)

	if resp.Source != "ai" {
		t.Errorf("source: got %q", resp.Source)
	}
	if resp.Content != "Generated CSRD narrative." {
		t.Errorf("content: got %q", resp.Content)
	}
	if resp.AIFailed {
		t.Error("ai_failed should be false")
	}

	// Unanswered questions must not appear in the prompt.
	if len(deps.gen.prompts) != 1 {
		t.Fatalf("expected 1 AI call, got %d", len(deps.gen.prompts))
	}
	if strings.Contains(deps.gen.prompts[0], "renewable-share") ||
		strings.Contains(deps.gen.prompts[0], "Share of renewables?") {
		t.Error("prompt must omit unanswered questions")
	}

	if got := deps.q.reports[rep.ID].GeneratedContent.String; got != "Generated CSRD narrative." {
		t.Errorf("persisted content: got %q", got)
	}
	if len(deps.mailer.reportReadys) != 1 {
		t.Errorf("expected 1 report-ready email, got %d", len(deps.mailer.reportReadys))
	}
}

func TestGenerate_PlainModeSkipsModel(t *testing.T) {
	deps := newTestServer(t)
	user, headers := seedUser(t, deps, "r@example.com", true)
	seedQuestionnaire(deps)
	rep := seedReport(deps, user.ID)
	deps.store.answers[rep.ID] = map[string]string{"energy-consumption": "1200"}

	rr := doRequest(t, deps.handler, http.MethodPost,
		"/api/reports/"+rep.ID.String()+"/generate",
		map[string]string{"mode": "plain"}, headers)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Content string `json:"content"`
		Source  string `json:"source"`
	}
	decodeJSON(t, rr, &resp)

	if resp.Source != "plain" {
		t.Errorf("source: got %q", resp.Source)
	}
	if !strings.Contains(resp.Content, "## Energy") {
		t.Errorf("plain content should carry the section layout, got %q", resp.Content)
	}
	if !strings.Contains(resp.Content, "A: N/A") {
		t.Error("plain rendering keeps unanswered questions as N/A")
	}
	if len(deps.gen.prompts) != 0 {
		t.Errorf("plain mode must not call the model, got %d calls", len(deps.gen.prompts))
	}
}

func TestGenerate_AIFailureFallsBackToPlain(t *testing.T) {
	deps := newTestServer(t)
	user, headers := seedUser(t, deps, "r@example.com", true)
	seedQuestionnaire(deps)
	rep := seedReport(deps, user.ID)
	deps.gen.err = errors.New("model overloaded")

	rr := doRequest(t, deps.handler, http.MethodPost,
		"/api/reports/"+rep.ID.String()+"/generate", nil, headers)
	if rr.Code != http.StatusOK {
		t.Fatalf("AI failure must not fail generation, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Source   string `json:"source"`
		AIFailed bool   `json:"ai_failed"`
	}
	decodeJSON(t, rr, &resp)

	if resp.Source != "plain" {
		t.Errorf("source: got %q", resp.Source)
	}
	if !resp.AIFailed {
		t.Error("ai_failed should be flagged")
	}
}

// ─── DOWNLOADS ────────────────────────────────────────────────────────────────

func TestDownloadText_NotGeneratedReturns409(t *testing.T) {
	deps := newTestServer(t)
	user, headers := seedUser(t, deps, "r@example.com", true)
	rep := seedReport(deps, user.ID)

	rr := doRequest(t, deps.handler, http.MethodGet,
		"/api/reports/"+rep.ID.String()+"/download", nil, headers)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}

func TestDownloadText_ServesNarrative(t *testing.T) {
	deps := newTestServer(t)
	user, headers := seedUser(t, deps, "r@example.com", true)
	rep := seedReport(deps, user.ID)
	rep.GeneratedContent = sql.NullString{String: "# Report\n\nBody.", Valid: true}
	deps.q.reports[rep.ID] = rep

	rr := doRequest(t, deps.handler, http.MethodGet,
		"/api/reports/"+rep.ID.String()+"/download", nil, headers)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type: got %q", ct)
	}
	if rr.Body.String() != "# Report\n\nBody." {
		t.Errorf("body: got %q", rr.Body.String())
	}
}

func TestDownloadPDF_ServesPDF(t *testing.T) {
	deps := newTestServer(t)
	user, headers := seedUser(t, deps, "r@example.com", true)
	rep := seedReport(deps, user.ID)
	rep.GeneratedContent = sql.NullString{String: "# Report\n\nBody.", Valid: true}
	deps.q.reports[rep.ID] = rep

	rr := doRequest(t, deps.handler, http.MethodGet,
		"/api/reports/"+rep.ID.String()+"/download/pdf", nil, headers)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type: got %q", ct)
	}
	if !bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF")) {
		t.Error("body should start with the PDF magic bytes")
	}
}

// ─── CHECKOUT ─────────────────────────────────────────────────────────────────

func TestCreateCheckout_ReturnsRedirectURL(t *testing.T) {
	deps := newTestServer(t)
	_, headers := seedUser(t, deps, "buyer@example.com", false)

	rr := doRequest(t, deps.handler, http.MethodPost, "/api/checkout", nil, headers)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		CheckoutURL string `json:"checkout_url"`
		SessionID   string `json:"session_id"`
	}
	decodeJSON(t, rr, &resp)
	if resp.CheckoutURL != "https://checkout.stripe.com/pay/cs_test" {
		t.Errorf("checkout_url: got %q", resp.CheckoutURL)
	}

	// The Stripe customer id must have been attached to the user.
	if got := deps.q.users["buyer@example.com"].StripeCustomerID.String; got != "cus_test" {
		t.Errorf("stripe customer id: got %q", got)
	}
}

func TestCreateCheckout_AlreadyPaidReturns409(t *testing.T) {
	deps := newTestServer(t)
	_, headers := seedUser(t, deps, "buyer@example.com", true)

	rr := doRequest(t, deps.handler, http.MethodPost, "/api/checkout", nil, headers)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}

func TestCreateCheckout_StripeErrorReturns500(t *testing.T) {
	deps := newTestServer(t)
	_, headers := seedUser(t, deps, "buyer@example.com", false)
	deps.stripe.createErr = errors.New("stripe unavailable")

	rr := doRequest(t, deps.handler, http.MethodPost, "/api/checkout", nil, headers)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", rr.Code, rr.Body.String())
	}
}

// ─── POST /api/webhooks/stripe ────────────────────────────────────────────────

func checkoutCompletedEvent(customerID string) stripeinternal.Event {
	return stripeinternal.Event{
		ID:      "evt_test_1",
		Type:    "checkout.session.completed",
		DataRaw: json.RawMessage(`{"customer":"` + customerID + `","customer_details":{"email":"buyer@example.com"}}`),
	}
}

func TestStripeWebhook_InvalidSignatureReturns400(t *testing.T) {
	deps := newTestServer(t)
	deps.stripe.verifyErr = errors.New("invalid signature")

	rr := doRequest(t, deps.handler, http.MethodPost, "/api/webhooks/stripe",
		map[string]string{"type": "checkout.session.completed"}, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestStripeWebhook_CheckoutCompletedMarksUserPaid(t *testing.T) {
	deps := newTestServer(t)
	user, _ := seedUser(t, deps, "buyer@example.com", false)
	user.StripeCustomerID = sql.NullString{String: "cus_paid", Valid: true}
	deps.q.users[user.Email] = user
	deps.stripe.verifyEvent = checkoutCompletedEvent("cus_paid")

	rr := doRequest(t, deps.handler, http.MethodPost, "/api/webhooks/stripe",
		map[string]string{}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	if !deps.q.users[user.Email].HasPaid {
		t.Error("user should be marked paid")
	}
	if len(deps.mailer.receipts) != 1 {
		t.Fatalf("expected 1 receipt, got %d", len(deps.mailer.receipts))
	}
	if deps.mailer.receipts[0].To != "buyer@example.com" {
		t.Errorf("receipt recipient: got %q", deps.mailer.receipts[0].To)
	}
	if deps.mailer.receipts[0].AmountCents != 19900 {
		t.Errorf("receipt amount: got %d", deps.mailer.receipts[0].AmountCents)
	}
}

func TestStripeWebhook_DuplicateEventReturns200(t *testing.T) {
	deps := newTestServer(t)
	deps.store.grantErr = store.ErrEventAlreadyProcessed
	deps.stripe.verifyEvent = checkoutCompletedEvent("cus_any")

	rr := doRequest(t, deps.handler, http.MethodPost, "/api/webhooks/stripe",
		map[string]string{}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("duplicate delivery must be acked, got %d: %s", rr.Code, rr.Body.String())
	}
	if len(deps.mailer.receipts) != 0 {
		t.Error("duplicate delivery must not resend the receipt")
	}
}

func TestStripeWebhook_UnknownCustomerReturns200(t *testing.T) {
	// Retrying against a customer we will never know is pointless; the
	// handler logs and acks.
	deps := newTestServer(t)
	deps.stripe.verifyEvent = checkoutCompletedEvent("cus_stranger")

	rr := doRequest(t, deps.handler, http.MethodPost, "/api/webhooks/stripe",
		map[string]string{}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestStripeWebhook_HandlerErrorReturns500ForRetry(t *testing.T) {
	deps := newTestServer(t)
	deps.store.grantErr = errors.New("db down")
	deps.stripe.verifyEvent = checkoutCompletedEvent("cus_any")

	rr := doRequest(t, deps.handler, http.MethodPost, "/api/webhooks/stripe",
		map[string]string{}, nil)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 so Stripe retries, got %d", rr.Code)
	}
}

func TestStripeWebhook_UnknownEventTypeReturns200(t *testing.T) {
	deps := newTestServer(t)
	deps.stripe.verifyEvent = stripeinternal.Event{
		ID:   "evt_test_unknown",
		Type: "customer.created", // not handled
	}

	rr := doRequest(t, deps.handler, http.MethodPost, "/api/webhooks/stripe",
		map[string]string{}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for unknown event type, got %d: %s", rr.Code, rr.Body.String())
	}
}

// ─── CORS ─────────────────────────────────────────────────────────────────────

func TestCORS_PreflightReturns204(t *testing.T) {
	deps := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	deps.handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("missing Access-Control-Allow-Origin header")
	}
	if rr.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("missing Access-Control-Allow-Methods header")
	}
}

func TestCORS_NoOriginHeader_SkipsCORSHeaders(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodGet, "/healthz", nil, nil)
	if rr.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("should not set CORS headers when no Origin present")
	}
}
