package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/codebluemti/tiba/core"
	"github.com/codebluemti/tiba/core/payment"
)

type feePaymentRepository struct {
	db *feePaymentTable
}

var _ payment.Repository = (*feePaymentRepository)(nil) // interface compliance check

func NewFeePaymentRepository(db *DB) *feePaymentRepository {
	return &feePaymentRepository{db: db.feePayment}
}

func (repo *feePaymentRepository) query() []payment.FeePayment {
	pmts := make([]payment.FeePayment, 0, len(repo.db.table))
	for _, pmt := range repo.db.table {
		pmts = append(pmts, *pmt)
	}
	sort.Slice(pmts, func(i, j int) bool { return pmts[i].RecordedAt.Before(pmts[j].RecordedAt) })
	return pmts
}

func (repo *feePaymentRepository) CreateFeePayment(ctx context.Context, pmt payment.FeePayment, exec ...core.DBExecutor) (payment.FeePayment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	pmt.ID = uuid.New().String()
	repo.db.table[pmt.ID] = &pmt
	return pmt, nil
}

func (repo *feePaymentRepository) FeePaymentExists(
	ctx context.Context, studentID, reference, parsedDate, parsedTime string,
	amount decimal.Decimal, exec ...core.DBExecutor,
) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, pmt := range repo.db.table {
		if pmt.StudentID == studentID && pmt.Reference == reference &&
			pmt.ParsedDate == parsedDate && pmt.ParsedTime == parsedTime &&
			pmt.Amount.Equal(amount) {
			return true, nil
		}
	}
	return false, nil
}

func (repo *feePaymentRepository) GetFeePaymentByID(ctx context.Context, id string, exec ...core.DBExecutor) (payment.FeePayment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if pmt, ok := repo.db.table[id]; ok {
		return *pmt, nil
	}
	return payment.FeePayment{}, payment.ErrNotFound
}

func (repo *feePaymentRepository) QueryFeePayments(
	ctx context.Context, filter *payment.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor,
) ([]payment.FeePayment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	pmts := make([]payment.FeePayment, 0, len(repo.db.table))
	for _, pmt := range repo.query() {
		if filter != nil {
			if filter.StudentID != "" && pmt.StudentID != filter.StudentID {
				continue
			}
			if filter.Status != "" && pmt.Status != filter.Status {
				continue
			}
			if filter.Source != "" && pmt.Source != filter.Source {
				continue
			}
			if !filter.RecordedFrom.IsZero() && pmt.RecordedAt.Before(filter.RecordedFrom) {
				continue
			}
			if !filter.RecordedTo.IsZero() && pmt.RecordedAt.After(filter.RecordedTo) {
				continue
			}
		}
		pmts = append(pmts, pmt)
	}
	return pmts, nil
}

func (repo *feePaymentRepository) UpdateFeePayment(ctx context.Context, pmt payment.FeePayment, exec ...core.DBExecutor) (payment.FeePayment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[pmt.ID]; !ok {
		return payment.FeePayment{}, payment.ErrNotFound
	}
	repo.db.table[pmt.ID] = &pmt
	return pmt, nil
}
