package course

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/codebluemti/tiba/core"
)

type Course struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Code           string    `json:"code"`
	DurationMonths int       `json:"duration_months"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"` // UTC
	UpdatedAt      time.Time `json:"updated_at"` // UTC
}

// Intake is one enrollment window of a Course, e.g. "Sept 2025".
type Intake struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"course_id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Capacity  int       `json:"capacity"`
	IsOpen    bool      `json:"is_open"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

type NewCourse struct {
	Name           string `json:"name" validate:"required"`
	Code           string `json:"code" validate:"required,alphanum_"`
	DurationMonths int    `json:"duration_months" validate:"required,gt=0"`
}

func (nc *NewCourse) Validate(validate *validator.Validate, svc *Service) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Code = core.CleanString(nc.Code, true /* lower */)

	if err := validate.Struct(nc); err != nil {
		return err
	}
	return svc.CheckCodeUniqueness(nc.Code)
}

type UpdateCourse struct {
	Name           string `json:"name"`
	DurationMonths int    `json:"duration_months" validate:"omitempty,gt=0"`
	IsActive       *bool  `json:"is_active"`
}

func (uc *UpdateCourse) Validate(validate *validator.Validate) error {
	uc.Name = core.CleanString(uc.Name)
	return validate.Struct(uc)
}

type NewIntake struct {
	Name      string    `json:"name" validate:"required"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
	Capacity  int       `json:"capacity" validate:"omitempty,gt=0"`
}

func (ni *NewIntake) Validate(validate *validator.Validate) error {
	ni.Name = core.CleanString(ni.Name)
	return validate.Struct(ni)
}
