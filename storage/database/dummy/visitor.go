package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/codebluemti/tiba/core"
	"github.com/codebluemti/tiba/core/visitor"
)

type visitRepository struct {
	db *visitTable
}

var _ visitor.Repository = (*visitRepository)(nil) // interface compliance check

func NewVisitRepository(db *DB) *visitRepository {
	return &visitRepository{db: db.visit}
}

func (repo *visitRepository) CreateVisit(ctx context.Context, v visitor.Visit, exec ...core.DBExecutor) (visitor.Visit, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	v.ID = uuid.New().String()
	repo.db.table[v.ID] = &v
	return v, nil
}

func (repo *visitRepository) GetVisitByID(ctx context.Context, id string, exec ...core.DBExecutor) (visitor.Visit, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if v, ok := repo.db.table[id]; ok {
		return *v, nil
	}
	return visitor.Visit{}, visitor.ErrNotFound
}

func (repo *visitRepository) QueryVisits(ctx context.Context, openOnly bool, exec ...core.DBExecutor) ([]visitor.Visit, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	visits := make([]visitor.Visit, 0, len(repo.db.table))
	for _, v := range repo.db.table {
		if openOnly && v.CheckedOutAt.Valid {
			continue
		}
		visits = append(visits, *v)
	}
	sort.Slice(visits, func(i, j int) bool { return visits[i].CheckedInAt.After(visits[j].CheckedInAt) })
	return visits, nil
}

func (repo *visitRepository) UpdateVisit(ctx context.Context, v visitor.Visit, exec ...core.DBExecutor) (visitor.Visit, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[v.ID]; !ok {
		return visitor.Visit{}, visitor.ErrNotFound
	}
	repo.db.table[v.ID] = &v
	return v, nil
}
