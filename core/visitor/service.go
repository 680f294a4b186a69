package visitor

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/codebluemti/tiba/core"
)

var (
	// errors
	ErrNotFound          = errors.New("visit not found")
	ErrAlreadyCheckedOut = errors.New("visit already checked out")
)

type (
	Repository interface {
		CreateVisit(ctx context.Context, v Visit, exec ...core.DBExecutor) (Visit, error)
		GetVisitByID(ctx context.Context, id string, exec ...core.DBExecutor) (Visit, error)
		// QueryVisits returns all visits; openOnly restricts to those not yet checked out.
		QueryVisits(ctx context.Context, openOnly bool, exec ...core.DBExecutor) ([]Visit, error)
		UpdateVisit(ctx context.Context, v Visit, exec ...core.DBExecutor) (Visit, error)
	}

	Service struct {
		db   core.DB
		repo Repository
	}
)

func NewService(db core.DB, repo Repository) *Service {
	return &Service{db: db, repo: repo}
}

func (svc *Service) CheckIn(ctx context.Context, nv NewVisit) (Visit, error) {
	v := Visit{
		Name:        nv.Name,
		Phone:       nv.Phone,
		Purpose:     nv.Purpose,
		HostName:    nv.HostName,
		CheckedInAt: time.Now().UTC(),
	}
	return svc.repo.CreateVisit(ctx, v)
}

func (svc *Service) CheckOut(ctx context.Context, id string) (Visit, error) {
	v, err := svc.repo.GetVisitByID(ctx, id)
	if err != nil {
		return Visit{}, err
	}
	if v.CheckedOutAt.Valid {
		return Visit{}, ErrAlreadyCheckedOut
	}
	v.CheckedOutAt = null.TimeFrom(time.Now().UTC())
	return svc.repo.UpdateVisit(ctx, v)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Visit, error) {
	return svc.repo.GetVisitByID(ctx, id)
}

func (svc *Service) Query(ctx context.Context, openOnly bool) ([]Visit, error) {
	return svc.repo.QueryVisits(ctx, openOnly)
}
