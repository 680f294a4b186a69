package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/codebluemti/tiba/core"
	"github.com/codebluemti/tiba/core/course"
)

type courseRepository struct {
	courses *courseTable
	intakes *intakeTable
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) *courseRepository {
	return &courseRepository{courses: db.course, intakes: db.intake}
}

func (repo *courseRepository) CheckCourseCodeUniqueness(ctx context.Context, code string, exec ...core.DBExecutor) error {
	repo.courses.RLock()
	defer repo.courses.RUnlock()

	for _, crs := range repo.courses.table {
		if crs.Code == code {
			return course.ErrCodeExists
		}
	}
	return nil
}

func (repo *courseRepository) CreateCourse(ctx context.Context, crs course.Course, exec ...core.DBExecutor) (course.Course, error) {
	repo.courses.Lock()
	defer repo.courses.Unlock()

	crs.ID = uuid.New().String()
	repo.courses.table[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) GetCourseByID(ctx context.Context, id string, exec ...core.DBExecutor) (course.Course, error) {
	repo.courses.RLock()
	defer repo.courses.RUnlock()

	if crs, ok := repo.courses.table[id]; ok {
		return *crs, nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) QueryAllCourses(ctx context.Context, exec ...core.DBExecutor) ([]course.Course, error) {
	repo.courses.RLock()
	defer repo.courses.RUnlock()

	courses := make([]course.Course, 0, len(repo.courses.table))
	for _, crs := range repo.courses.table {
		courses = append(courses, *crs)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].Name < courses[j].Name })
	return courses, nil
}

func (repo *courseRepository) UpdateCourse(ctx context.Context, crs course.Course, exec ...core.DBExecutor) (course.Course, error) {
	repo.courses.Lock()
	defer repo.courses.Unlock()

	if _, ok := repo.courses.table[crs.ID]; !ok {
		return course.Course{}, course.ErrNotFound
	}
	repo.courses.table[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) CreateIntake(ctx context.Context, ntk course.Intake, exec ...core.DBExecutor) (course.Intake, error) {
	repo.intakes.Lock()
	defer repo.intakes.Unlock()

	ntk.ID = uuid.New().String()
	repo.intakes.table[ntk.ID] = &ntk
	return ntk, nil
}

func (repo *courseRepository) GetIntakeByID(ctx context.Context, id string, exec ...core.DBExecutor) (course.Intake, error) {
	repo.intakes.RLock()
	defer repo.intakes.RUnlock()

	if ntk, ok := repo.intakes.table[id]; ok {
		return *ntk, nil
	}
	return course.Intake{}, course.ErrIntakeNotFound
}

func (repo *courseRepository) QueryIntakesByCourseID(ctx context.Context, courseID string, exec ...core.DBExecutor) ([]course.Intake, error) {
	repo.intakes.RLock()
	defer repo.intakes.RUnlock()

	intakes := make([]course.Intake, 0, len(repo.intakes.table))
	for _, ntk := range repo.intakes.table {
		if ntk.CourseID == courseID {
			intakes = append(intakes, *ntk)
		}
	}
	sort.Slice(intakes, func(i, j int) bool { return intakes[i].StartDate.After(intakes[j].StartDate) })
	return intakes, nil
}

func (repo *courseRepository) UpdateIntake(ctx context.Context, ntk course.Intake, exec ...core.DBExecutor) (course.Intake, error) {
	repo.intakes.Lock()
	defer repo.intakes.Unlock()

	if _, ok := repo.intakes.table[ntk.ID]; !ok {
		return course.Intake{}, course.ErrIntakeNotFound
	}
	repo.intakes.table[ntk.ID] = &ntk
	return ntk, nil
}
