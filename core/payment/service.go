package payment

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"

	"github.com/codebluemti/tiba/core"
)

var (
	// errors
	ErrNotFound          = errors.New("payment not found")
	ErrUnparsableMessage = errors.New("payment message could not be parsed")
	ErrDuplicatePayment  = errors.New("duplicate payment: an identical payment has already been recorded")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

type (
	Repository interface {
		CreateFeePayment(ctx context.Context, pmt FeePayment, exec ...core.DBExecutor) (FeePayment, error)
		// FeePaymentExists reports whether the owner already has a payment with
		// the exact same (reference, parsedDate, parsedTime, amount).
		FeePaymentExists(ctx context.Context, studentID, reference, parsedDate, parsedTime string, amount decimal.Decimal, exec ...core.DBExecutor) (bool, error)
		GetFeePaymentByID(ctx context.Context, id string, exec ...core.DBExecutor) (FeePayment, error)
		// QueryFeePayments applies AND operation on available QueryFilter fields.
		QueryFeePayments(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]FeePayment, error)
		UpdateFeePayment(ctx context.Context, pmt FeePayment, exec ...core.DBExecutor) (FeePayment, error)
	}

	// Contact is a payment owner's notification address.
	Contact struct {
		Name  string
		Email string
	}

	// Directory resolves payment owners; apps wire the student service in.
	Directory interface {
		GetStudentContact(ctx context.Context, studentID string) (Contact, error)
	}

	Service struct {
		db      core.DB
		repo    Repository
		dir     Directory
		mailSvc core.EmailService
		conf    *core.Config
	}
)

func NewService(db core.DB, repo Repository, dir Directory, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{
		db:      db,
		repo:    repo,
		dir:     dir,
		mailSvc: mailSvc,
		conf:    conf,
	}
}

// Submit interprets a raw provider SMS and records it as a pending FeePayment.
// Interpreter failures and duplicates come back as ValidationErrors for the
// caller to re-prompt on; the duplicate check and the insert are two separate
// round trips, so two racing identical submissions can both pass the check.
func (svc *Service) Submit(ctx context.Context, sp SubmitPayment) (FeePayment, error) {
	parsed := Interpret(sp.RawMessage)
	if !parsed.IsValid {
		return FeePayment{}, core.NewValidationError(ErrUnparsableMessage, core.FieldError{
			Field: "raw_message",
			Error: strings.Join(parsed.Errors, " "),
		})
	}

	if _, err := svc.dir.GetStudentContact(ctx, sp.StudentID); err != nil {
		return FeePayment{}, core.NewValidationError(nil, core.FieldError{
			Field: "student_id",
			Error: "student not found",
		})
	}

	exists, err := svc.repo.FeePaymentExists(ctx, sp.StudentID, parsed.Reference, parsed.Date, parsed.Time, parsed.Amount)
	if err != nil {
		return FeePayment{}, errors.Wrap(err, "checking for duplicate payment")
	}
	if exists {
		return FeePayment{}, core.NewValidationError(ErrDuplicatePayment)
	}

	pmt := FeePayment{
		StudentID:     sp.StudentID,
		Amount:        parsed.Amount,
		Reference:     parsed.Reference,
		Institution:   parsed.Institution,
		AccountNumber: parsed.AccountNumber,
		RawMessage:    sp.RawMessage,
		ParsedDate:    parsed.Date,
		ParsedTime:    parsed.Time,
		Source:        parsed.Source,
		Status:        StatusPending,
		RecordedAt:    time.Now().UTC(),
	}
	pmt, err = svc.repo.CreateFeePayment(ctx, pmt)
	return pmt, errors.Wrap(err, "creating payment")
}

// Review transitions a payment's status on behalf of a reviewer.
// Allowed: pending -> approved | declined, declined -> approved.
func (svc *Service) Review(ctx context.Context, id string, rp ReviewPayment, reviewerID string) (FeePayment, error) {
	pmt, err := svc.repo.GetFeePaymentByID(ctx, id)
	if err != nil {
		return FeePayment{}, err
	}

	if !CanTransition(pmt.Status, rp.Status) {
		return FeePayment{}, core.NewValidationError(ErrInvalidTransition, core.FieldError{
			Field: "status",
			Error: fmt.Sprintf("cannot transition from %q to %q", pmt.Status, rp.Status),
		})
	}

	pmt.Status = rp.Status
	pmt.ReviewedBy = null.StringFrom(reviewerID)
	pmt.ReviewedAt = null.TimeFrom(time.Now().UTC())
	pmt, err = svc.repo.UpdateFeePayment(ctx, pmt)
	if err != nil {
		return FeePayment{}, errors.Wrap(err, "updating payment")
	}

	svc.notifyOwner(ctx, pmt)
	return pmt, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (FeePayment, error) {
	return svc.repo.GetFeePaymentByID(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]FeePayment, error) {
	return svc.repo.QueryFeePayments(ctx, filter, ordering)
}

// notifyOwner emails the student their payment's review outcome. Best effort;
// lookup failures are swallowed since the review itself already succeeded.
func (svc *Service) notifyOwner(ctx context.Context, pmt FeePayment) {
	if svc.mailSvc == nil {
		return
	}
	contact, err := svc.dir.GetStudentContact(ctx, pmt.StudentID)
	if err != nil || contact.Email == "" {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: contact.Name, Address: contact.Email}},
		Subject: fmt.Sprintf("Fee payment %s %s", pmt.Reference, pmt.Status),
		BodyStr: fmt.Sprintf(
			"Hello %s,\n\nYour fee payment of %s (ref %s, paid on %s %s) has been %s.\n",
			contact.Name, pmt.Amount.StringFixed(2), pmt.Reference, pmt.ParsedDate, pmt.ParsedTime, pmt.Status,
		),
	})
}
