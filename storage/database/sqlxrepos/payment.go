package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"

	"github.com/codebluemti/tiba/core"
	"github.com/codebluemti/tiba/core/payment"
)

type feePaymentRow struct {
	ID            string          `db:"id"`
	StudentID     string          `db:"student_id"`
	Amount        decimal.Decimal `db:"amount"`
	Reference     string          `db:"reference"`
	Institution   string          `db:"institution"`
	AccountNumber string          `db:"account_number"`
	RawMessage    string          `db:"raw_message"`
	ParsedDate    string          `db:"parsed_date"`
	ParsedTime    string          `db:"parsed_time"`
	Source        string          `db:"source"`
	Status        string          `db:"status"`
	ReviewedBy    null.String     `db:"reviewed_by"`
	ReviewedAt    null.Time       `db:"reviewed_at"`
	RecordedAt    time.Time       `db:"recorded_at"`
}

func (r feePaymentRow) payment() payment.FeePayment {
	return payment.FeePayment{
		ID:            r.ID,
		StudentID:     r.StudentID,
		Amount:        r.Amount,
		Reference:     r.Reference,
		Institution:   r.Institution,
		AccountNumber: r.AccountNumber,
		RawMessage:    r.RawMessage,
		ParsedDate:    r.ParsedDate,
		ParsedTime:    r.ParsedTime,
		Source:        r.Source,
		Status:        r.Status,
		ReviewedBy:    r.ReviewedBy,
		ReviewedAt:    r.ReviewedAt,
		RecordedAt:    r.RecordedAt,
	}
}

func newFeePaymentRow(pmt payment.FeePayment) feePaymentRow {
	return feePaymentRow{
		ID:            pmt.ID,
		StudentID:     pmt.StudentID,
		Amount:        pmt.Amount,
		Reference:     pmt.Reference,
		Institution:   pmt.Institution,
		AccountNumber: pmt.AccountNumber,
		RawMessage:    pmt.RawMessage,
		ParsedDate:    pmt.ParsedDate,
		ParsedTime:    pmt.ParsedTime,
		Source:        pmt.Source,
		Status:        pmt.Status,
		ReviewedBy:    pmt.ReviewedBy,
		ReviewedAt:    pmt.ReviewedAt,
		RecordedAt:    pmt.RecordedAt.UTC(),
	}
}

// columns clients may order query results by
var feePaymentOrderable = map[string]bool{
	"amount":      true,
	"reference":   true,
	"source":      true,
	"status":      true,
	"parsed_date": true,
	"recorded_at": true,
}

type feePaymentRepository struct {
	db *sqlx.DB
}

var _ payment.Repository = (*feePaymentRepository)(nil) // interface compliance check

func NewFeePaymentRepository(db *sqlx.DB) *feePaymentRepository {
	return &feePaymentRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to payment.ErrNotFound
func (repo feePaymentRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return payment.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo feePaymentRepository) CreateFeePayment(ctx context.Context, pmt payment.FeePayment, exec ...core.DBExecutor) (payment.FeePayment, error) {
	pmt.ID = uuid.New().String()
	row := newFeePaymentRow(pmt)
	q := `INSERT INTO fee_payment (
			id, student_id, amount, reference, institution, account_number,
			raw_message, parsed_date, parsed_time, source, status,
			reviewed_by, reviewed_at, recorded_at
		) VALUES (
			:id, :student_id, :amount, :reference, :institution, :account_number,
			:raw_message, :parsed_date, :parsed_time, :source, :status,
			:reviewed_by, :reviewed_at, :recorded_at
		)`
	if _, err := sqlx.NamedExecContext(ctx, getExec(repo.db, exec), q, row); err != nil {
		return payment.FeePayment{}, errors.Wrap(err, "inserting fee payment")
	}
	return row.payment(), nil
}

func (repo feePaymentRepository) FeePaymentExists(
	ctx context.Context, studentID, reference, parsedDate, parsedTime string,
	amount decimal.Decimal, exec ...core.DBExecutor,
) (bool, error) {
	var exists bool
	q := `SELECT EXISTS (
			SELECT 1 FROM fee_payment
			WHERE student_id = $1 AND reference = $2 AND parsed_date = $3 AND parsed_time = $4 AND amount = $5
		)`
	err := sqlx.GetContext(ctx, getExec(repo.db, exec), &exists, q, studentID, reference, parsedDate, parsedTime, amount)
	if err != nil {
		return false, errors.Wrap(err, "checking fee payment existence")
	}
	return exists, nil
}

func (repo feePaymentRepository) GetFeePaymentByID(ctx context.Context, id string, exec ...core.DBExecutor) (payment.FeePayment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return payment.FeePayment{}, payment.ErrNotFound
	}

	var row feePaymentRow
	q := `SELECT * FROM fee_payment WHERE id = $1`
	if err := sqlx.GetContext(ctx, getExec(repo.db, exec), &row, q, id); err != nil {
		return payment.FeePayment{}, repo.trapNoRowsErr(err, "finding fee payment by ID")
	}
	return row.payment(), nil
}

func (repo feePaymentRepository) QueryFeePayments(
	ctx context.Context, filter *payment.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor,
) ([]payment.FeePayment, error) {
	q := `SELECT * FROM fee_payment`
	var clauses []string
	var args []interface{}

	if filter != nil {
		add := func(clause string, arg interface{}) {
			args = append(args, arg)
			clauses = append(clauses, fmt.Sprintf(clause, len(args)))
		}
		if filter.StudentID != "" {
			add("student_id = $%d", filter.StudentID)
		}
		if filter.Status != "" {
			add("status = $%d", filter.Status)
		}
		if filter.Source != "" {
			add("source = $%d", filter.Source)
		}
		if !filter.RecordedFrom.IsZero() {
			add("recorded_at >= $%d", filter.RecordedFrom.UTC())
		}
		if !filter.RecordedTo.IsZero() {
			add("recorded_at <= $%d", filter.RecordedTo.UTC())
		}
	}
	if len(clauses) > 0 {
		q += " WHERE " + strings.Join(clauses, " AND ")
	}
	q += orderClause(ordering, feePaymentOrderable)

	var rows []feePaymentRow
	if err := sqlx.SelectContext(ctx, getExec(repo.db, exec), &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying fee payments")
	}

	pmts := make([]payment.FeePayment, 0, len(rows))
	for _, row := range rows {
		pmts = append(pmts, row.payment())
	}
	return pmts, nil
}

func (repo feePaymentRepository) UpdateFeePayment(ctx context.Context, pmt payment.FeePayment, exec ...core.DBExecutor) (payment.FeePayment, error) {
	row := newFeePaymentRow(pmt)
	q := `UPDATE fee_payment
		SET status = :status, reviewed_by = :reviewed_by, reviewed_at = :reviewed_at
		WHERE id = :id`
	if _, err := sqlx.NamedExecContext(ctx, getExec(repo.db, exec), q, row); err != nil {
		return payment.FeePayment{}, errors.Wrap(err, "updating fee payment")
	}
	return row.payment(), nil
}
