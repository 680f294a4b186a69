package payment

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"

	"github.com/codebluemti/tiba/core"
)

// Sources
const (
	SourceMpesa = "mpesa"
	SourceNCBA  = "ncba"
)

// Statuses
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusDeclined = "declined"
)

// allowedTransitions drives the review state machine. A declined payment may
// be re-approved; an approved one is final.
var allowedTransitions = map[string][]string{
	StatusPending:  {StatusApproved, StatusDeclined},
	StatusDeclined: {StatusApproved},
}

// CanTransition reports whether a payment status may move from `from` to `to`.
func CanTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// FeePayment is a fee payment recorded from a student-submitted provider SMS.
// RawMessage retains the original text for audit.
type FeePayment struct {
	ID            string          `json:"id"`
	StudentID     string          `json:"student_id"`
	Amount        decimal.Decimal `json:"amount"`
	Reference     string          `json:"reference"`
	Institution   string          `json:"institution"`
	AccountNumber string          `json:"account_number"`
	RawMessage    string          `json:"raw_message"`
	ParsedDate    string          `json:"parsed_date"` // YYYY-MM-DD
	ParsedTime    string          `json:"parsed_time"` // HH:MM:SS
	Source        string          `json:"source"`
	Status        string          `json:"status"`
	ReviewedBy    null.String     `json:"reviewed_by"`
	ReviewedAt    null.Time       `json:"reviewed_at"` // UTC
	RecordedAt    time.Time       `json:"recorded_at"` // UTC
}

// SubmitPayment contains information needed to record a new FeePayment.
type SubmitPayment struct {
	StudentID  string `json:"student_id" validate:"required"`
	RawMessage string `json:"raw_message" validate:"required"`
}

func (sp *SubmitPayment) Validate(validate Validator) error {
	sp.StudentID = core.CleanString(sp.StudentID)
	sp.RawMessage = core.CleanString(sp.RawMessage)
	return validate.Struct(sp)
}

// ReviewPayment defines what a reviewer may change on an existing FeePayment.
type ReviewPayment struct {
	Status string `json:"status" validate:"required,oneof=approved declined"`
}

func (rp *ReviewPayment) Validate(validate Validator) error {
	rp.Status = core.CleanString(rp.Status, true /* lower */)
	return validate.Struct(rp)
}

// Validator is the subset of validator.Validate the payment inputs need.
type Validator interface {
	Struct(s interface{}) error
}

type QueryFilter struct {
	StudentID    string    `query:"student_id"`
	Status       string    `query:"status"`
	Source       string    `query:"source"`
	RecordedFrom time.Time `query:"recorded_from"`
	RecordedTo   time.Time `query:"recorded_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.StudentID == "" && qf.Status == "" && qf.Source == "" &&
		qf.RecordedFrom.IsZero() && qf.RecordedTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.StudentID = core.CleanString(qf.StudentID)
	qf.Status = core.CleanString(qf.Status, true)
	qf.Source = core.CleanString(qf.Source, true)
}
