package student

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/codebluemti/tiba/core"
)

type Student struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	AdmissionNo string    `json:"admission_no"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	CourseID    string    `json:"course_id"`
	IntakeID    string    `json:"intake_id"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// NewStudent contains information needed to admit a new Student.
type NewStudent struct {
	Name        string `json:"name" validate:"required"`
	AdmissionNo string `json:"admission_no" validate:"required,admno"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone"`
	CourseID    string `json:"course_id" validate:"required"`
	IntakeID    string `json:"intake_id" validate:"required"`
}

func (ns *NewStudent) Validate(validate *validator.Validate, svc *Service) error {
	ns.Name = core.CleanString(ns.Name)
	ns.AdmissionNo = core.CleanString(ns.AdmissionNo, true /* lower */)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Phone = core.CleanString(ns.Phone)

	if err := validate.Struct(ns); err != nil {
		return err
	}
	return svc.CheckUniqueness(ns.AdmissionNo, ns.Email)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
type UpdateStudent struct {
	Name        string `json:"name"`
	AdmissionNo string `json:"admission_no" validate:"omitempty,admno"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone"`
	CourseID    string `json:"course_id"`
	IntakeID    string `json:"intake_id"`
	IsActive    *bool  `json:"is_active"`
}

func (us *UpdateStudent) Validate(origStu Student, validate *validator.Validate, svc *Service) error {
	name := core.CleanString(us.Name)
	if name != "" {
		us.Name = name
	} else {
		us.Name = origStu.Name
	}

	admNo := core.CleanString(us.AdmissionNo, true /* lower */)
	if admNo != "" {
		us.AdmissionNo = admNo
	} else {
		us.AdmissionNo = origStu.AdmissionNo
	}

	email := core.CleanString(us.Email, true /* lower */)
	if email != "" {
		us.Email = email
	} else {
		us.Email = origStu.Email
	}

	if us.CourseID == "" {
		us.CourseID = origStu.CourseID
	}
	if us.IntakeID == "" {
		us.IntakeID = origStu.IntakeID
	}

	if err := validate.Struct(us); err != nil {
		return err
	}
	return svc.CheckUniqueness(us.AdmissionNo, us.Email, origStu)
}

type QueryFilter struct {
	Search      string    `query:"search"`
	CourseID    string    `query:"course_id"`
	IntakeID    string    `query:"intake_id"`
	IsActive    *bool     `query:"is_active"`
	CreatedFrom time.Time `query:"created_from"`
	CreatedTo   time.Time `query:"created_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.CourseID == "" && qf.IntakeID == "" &&
		qf.IsActive == nil && qf.CreatedFrom.IsZero() && qf.CreatedTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
