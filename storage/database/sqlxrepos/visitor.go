package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/codebluemti/tiba/core"
	"github.com/codebluemti/tiba/core/visitor"
)

type visitRow struct {
	ID           string    `db:"id"`
	VisitorName  string    `db:"visitor_name"`
	Phone        string    `db:"phone"`
	Purpose      string    `db:"purpose"`
	Host         string    `db:"host"`
	CheckedInAt  time.Time `db:"checked_in_at"`
	CheckedOutAt null.Time `db:"checked_out_at"`
}

func (r visitRow) visit() visitor.Visit {
	return visitor.Visit{
		ID:           r.ID,
		Name:         r.VisitorName,
		Phone:        r.Phone,
		Purpose:      r.Purpose,
		HostName:     r.Host,
		CheckedInAt:  r.CheckedInAt,
		CheckedOutAt: r.CheckedOutAt,
	}
}

func newVisitRow(v visitor.Visit) visitRow {
	return visitRow{
		ID:           v.ID,
		VisitorName:  v.Name,
		Phone:        v.Phone,
		Purpose:      v.Purpose,
		Host:         v.HostName,
		CheckedInAt:  v.CheckedInAt.UTC(),
		CheckedOutAt: v.CheckedOutAt,
	}
}

type visitRepository struct {
	db *sqlx.DB
}

var _ visitor.Repository = (*visitRepository)(nil) // interface compliance check

func NewVisitRepository(db *sqlx.DB) *visitRepository {
	return &visitRepository{db: db}
}

func (repo visitRepository) CreateVisit(ctx context.Context, v visitor.Visit, exec ...core.DBExecutor) (visitor.Visit, error) {
	v.ID = uuid.New().String()
	row := newVisitRow(v)
	q := `INSERT INTO visit (id, visitor_name, phone, purpose, host, checked_in_at, checked_out_at)
		VALUES (:id, :visitor_name, :phone, :purpose, :host, :checked_in_at, :checked_out_at)`
	if _, err := sqlx.NamedExecContext(ctx, getExec(repo.db, exec), q, row); err != nil {
		return visitor.Visit{}, errors.Wrap(err, "inserting visit")
	}
	return row.visit(), nil
}

func (repo visitRepository) GetVisitByID(ctx context.Context, id string, exec ...core.DBExecutor) (visitor.Visit, error) {
	if _, err := uuid.Parse(id); err != nil {
		return visitor.Visit{}, visitor.ErrNotFound
	}

	var row visitRow
	q := `SELECT * FROM visit WHERE id = $1`
	if err := sqlx.GetContext(ctx, getExec(repo.db, exec), &row, q, id); err != nil {
		if err == sql.ErrNoRows {
			return visitor.Visit{}, visitor.ErrNotFound
		}
		return visitor.Visit{}, errors.Wrap(err, "finding visit by ID")
	}
	return row.visit(), nil
}

func (repo visitRepository) QueryVisits(ctx context.Context, openOnly bool, exec ...core.DBExecutor) ([]visitor.Visit, error) {
	q := `SELECT * FROM visit`
	if openOnly {
		q += ` WHERE checked_out_at IS NULL`
	}
	q += ` ORDER BY checked_in_at DESC`

	var rows []visitRow
	if err := sqlx.SelectContext(ctx, getExec(repo.db, exec), &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying visits")
	}

	visits := make([]visitor.Visit, 0, len(rows))
	for _, row := range rows {
		visits = append(visits, row.visit())
	}
	return visits, nil
}

func (repo visitRepository) UpdateVisit(ctx context.Context, v visitor.Visit, exec ...core.DBExecutor) (visitor.Visit, error) {
	row := newVisitRow(v)
	q := `UPDATE visit SET checked_out_at = :checked_out_at WHERE id = :id`
	if _, err := sqlx.NamedExecContext(ctx, getExec(repo.db, exec), q, row); err != nil {
		return visitor.Visit{}, errors.Wrap(err, "updating visit")
	}
	return row.visit(), nil
}
