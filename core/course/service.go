package course

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/codebluemti/tiba/core"
)

var (
	// errors
	ErrNotFound       = errors.New("course not found")
	ErrIntakeNotFound = errors.New("intake not found")
	ErrCodeExists     = errors.New("a course with this code already exists")
)

type (
	Repository interface {
		CheckCourseCodeUniqueness(ctx context.Context, code string, exec ...core.DBExecutor) error
		CreateCourse(ctx context.Context, crs Course, exec ...core.DBExecutor) (Course, error)
		GetCourseByID(ctx context.Context, id string, exec ...core.DBExecutor) (Course, error)
		QueryAllCourses(ctx context.Context, exec ...core.DBExecutor) ([]Course, error)
		UpdateCourse(ctx context.Context, crs Course, exec ...core.DBExecutor) (Course, error)

		CreateIntake(ctx context.Context, ntk Intake, exec ...core.DBExecutor) (Intake, error)
		GetIntakeByID(ctx context.Context, id string, exec ...core.DBExecutor) (Intake, error)
		QueryIntakesByCourseID(ctx context.Context, courseID string, exec ...core.DBExecutor) ([]Intake, error)
		UpdateIntake(ctx context.Context, ntk Intake, exec ...core.DBExecutor) (Intake, error)
	}

	Service struct {
		db   core.DB
		repo Repository
		conf *core.Config
	}
)

func NewService(db core.DB, repo Repository, conf *core.Config) *Service {
	return &Service{db: db, repo: repo, conf: conf}
}

func (svc *Service) CheckCodeUniqueness(code string) error {
	if err := svc.repo.CheckCourseCodeUniqueness(context.Background(), code); err != nil {
		if errors.Cause(err) == ErrCodeExists {
			return core.NewValidationError(err, core.FieldError{Field: "code", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nc NewCourse) (Course, error) {
	now := time.Now().UTC()
	crs := Course{
		Name:           nc.Name,
		Code:           nc.Code,
		DurationMonths: nc.DurationMonths,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return svc.repo.CreateCourse(ctx, crs)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Course, error) {
	return svc.repo.GetCourseByID(ctx, id)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Course, error) {
	return svc.repo.QueryAllCourses(ctx)
}

func (svc *Service) Update(ctx context.Context, id string, uc UpdateCourse) (Course, error) {
	crs, err := svc.repo.GetCourseByID(ctx, id)
	if err != nil {
		return Course{}, err
	}
	if uc.Name != "" {
		crs.Name = uc.Name
	}
	if uc.DurationMonths > 0 {
		crs.DurationMonths = uc.DurationMonths
	}
	if uc.IsActive != nil {
		crs.IsActive = *uc.IsActive
	}
	crs.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateCourse(ctx, crs)
}

func (svc *Service) CreateIntake(ctx context.Context, courseID string, ni NewIntake) (Intake, error) {
	if _, err := svc.repo.GetCourseByID(ctx, courseID); err != nil {
		return Intake{}, err
	}
	now := time.Now().UTC()
	ntk := Intake{
		CourseID:  courseID,
		Name:      ni.Name,
		StartDate: ni.StartDate,
		EndDate:   ni.EndDate,
		Capacity:  ni.Capacity,
		IsOpen:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateIntake(ctx, ntk)
}

func (svc *Service) GetIntakeByID(ctx context.Context, id string) (Intake, error) {
	return svc.repo.GetIntakeByID(ctx, id)
}

func (svc *Service) QueryIntakes(ctx context.Context, courseID string) ([]Intake, error) {
	return svc.repo.QueryIntakesByCourseID(ctx, courseID)
}

// CloseIntake closes an intake to new admissions. Existing students are unaffected.
func (svc *Service) CloseIntake(ctx context.Context, id string) (Intake, error) {
	ntk, err := svc.repo.GetIntakeByID(ctx, id)
	if err != nil {
		return Intake{}, err
	}
	ntk.IsOpen = false
	ntk.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateIntake(ctx, ntk)
}
