// Package email defines the interface for transactional email delivery and
// provides a Resend-backed implementation.
package email

import "context"

// ReportReadyParams holds the data needed to send the report delivery email.
type ReportReadyParams struct {
	To          string // recipient email address
	CompanyName string // used in the subject line; may be empty
	ReportID    string // inserted into the report URL
	ReportTitle string
}

// ReceiptParams holds the data for the post-payment receipt email.
type ReceiptParams struct {
	To          string
	CompanyName string
	AmountCents int64  // e.g. 19900 for €199.00
	Currency    string // e.g. "eur"
}

// Sender is the interface the webhook and generate handlers use to send
// email. Tests inject a stub that records calls without hitting the network.
type Sender interface {
	// SendReportReady sends the "your report is ready" email with a link to
	// the generated report. Called after narrative generation succeeds.
	SendReportReady(ctx context.Context, p ReportReadyParams) error

	// SendReceipt sends the payment receipt. Called by the webhook handler
	// immediately after checkout completes.
	SendReceipt(ctx context.Context, p ReceiptParams) error
}
