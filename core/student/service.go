package student

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/codebluemti/tiba/core"
)

var (
	// errors
	ErrNotFound          = errors.New("student not found")
	ErrAdmissionNoExists = errors.New("a student with this admission number already exists")
	ErrEmailExists       = errors.New("a student with this email already exists")
)

type (
	Repository interface {
		CheckStudentUniqueness(ctx context.Context, admissionNo, email string, excludedStudents []Student, exec ...core.DBExecutor) error
		CreateStudent(ctx context.Context, stu Student, exec ...core.DBExecutor) (Student, error)
		GetStudentByID(ctx context.Context, id string, exec ...core.DBExecutor) (Student, error)
		GetStudentByAdmissionNo(ctx context.Context, admissionNo string, exec ...core.DBExecutor) (Student, error)
		// QueryStudents applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of Name, AdmissionNo or Email.
		QueryStudents(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Student, error)
		UpdateStudent(ctx context.Context, stu Student, exec ...core.DBExecutor) (Student, error)
		DeleteStudentsByID(ctx context.Context, ids []string, exec ...core.DBExecutor) (int, error)
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

func (svc *Service) CheckUniqueness(admissionNo, email string, exclStudents ...Student) error {
	if err := svc.repo.CheckStudentUniqueness(context.Background(), admissionNo, email, exclStudents); err != nil {
		var field string
		switch errors.Cause(err) {
		case ErrAdmissionNoExists:
			field = "admission_no"
		case ErrEmailExists:
			field = "email"
		default:
			return err
		}
		return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	stu := Student{
		Name:        ns.Name,
		AdmissionNo: ns.AdmissionNo,
		Email:       ns.Email,
		Phone:       ns.Phone,
		CourseID:    ns.CourseID,
		IntakeID:    ns.IntakeID,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateStudent(ctx, stu)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) GetByAdmissionNo(ctx context.Context, admissionNo string) (Student, error) {
	return svc.repo.GetStudentByAdmissionNo(ctx, core.CleanString(admissionNo, true /* lower */))
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Student, error) {
	return svc.repo.QueryStudents(ctx, filter, ordering)
}

func (svc *Service) Update(ctx context.Context, id string, us UpdateStudent) (Student, error) {
	stu, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	stu.Name = us.Name
	stu.AdmissionNo = us.AdmissionNo
	stu.Email = us.Email
	if us.Phone != "" {
		stu.Phone = us.Phone
	}
	stu.CourseID = us.CourseID
	stu.IntakeID = us.IntakeID
	if us.IsActive != nil {
		stu.IsActive = *us.IsActive
	}
	stu.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(ctx, stu)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	_, err := svc.repo.DeleteStudentsByID(ctx, ids)
	return err
}
