package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/codebluemti/tiba/core"
	"github.com/codebluemti/tiba/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) query() []student.Student {
	students := make([]student.Student, 0, len(repo.db.table))
	for _, stu := range repo.db.table {
		students = append(students, *stu)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].AdmissionNo < students[j].AdmissionNo })
	return students
}

func isExcluded(stu student.Student, excluded []student.Student) bool {
	for _, ex := range excluded {
		if ex.ID == stu.ID {
			return true
		}
	}
	return false
}

func (repo *studentRepository) CheckStudentUniqueness(
	ctx context.Context, admissionNo, email string, excludedStudents []student.Student, exec ...core.DBExecutor,
) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, stu := range repo.query() {
		if isExcluded(stu, excludedStudents) {
			continue
		}
		if stu.AdmissionNo == admissionNo {
			return student.ErrAdmissionNoExists
		}
		if email != "" && stu.Email == email {
			return student.ErrEmailExists
		}
	}
	return nil
}

func (repo *studentRepository) CreateStudent(ctx context.Context, stu student.Student, exec ...core.DBExecutor) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	stu.ID = uuid.New().String()
	repo.db.table[stu.ID] = &stu
	return stu, nil
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id string, exec ...core.DBExecutor) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if stu, ok := repo.db.table[id]; ok {
		return *stu, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentByAdmissionNo(ctx context.Context, admissionNo string, exec ...core.DBExecutor) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, stu := range repo.query() {
		if stu.AdmissionNo == admissionNo {
			return stu, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) QueryStudents(
	ctx context.Context, filter *student.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor,
) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := make([]student.Student, 0, len(repo.db.table))
	for _, stu := range repo.query() {
		if filter != nil {
			if filter.Search != "" {
				kw := strings.ToLower(filter.Search)
				if !strings.Contains(strings.ToLower(stu.Name), kw) &&
					!strings.Contains(stu.AdmissionNo, kw) &&
					!strings.Contains(stu.Email, kw) {
					continue
				}
			}
			if filter.CourseID != "" && stu.CourseID != filter.CourseID {
				continue
			}
			if filter.IntakeID != "" && stu.IntakeID != filter.IntakeID {
				continue
			}
			if filter.IsActive != nil && stu.IsActive != *filter.IsActive {
				continue
			}
			if !filter.CreatedFrom.IsZero() && stu.CreatedAt.Before(filter.CreatedFrom) {
				continue
			}
			if !filter.CreatedTo.IsZero() && stu.CreatedAt.After(filter.CreatedTo) {
				continue
			}
		}
		students = append(students, stu)
	}
	return students, nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, stu student.Student, exec ...core.DBExecutor) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[stu.ID]; !ok {
		return student.Student{}, student.ErrNotFound
	}
	repo.db.table[stu.ID] = &stu
	return stu, nil
}

func (repo *studentRepository) DeleteStudentsByID(ctx context.Context, ids []string, exec ...core.DBExecutor) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	var cnt int
	for _, id := range ids {
		if _, ok := repo.db.table[id]; ok {
			delete(repo.db.table, id)
			cnt++
		}
	}
	return cnt, nil
}
