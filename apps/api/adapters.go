package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/codebluemti/tiba/core/payment"
	"github.com/codebluemti/tiba/core/student"
)

// studentDirectory adapts the student service for payment owner lookups.
type studentDirectory struct {
	svc *student.Service
}

var _ payment.Directory = (*studentDirectory)(nil)

func (d studentDirectory) GetStudentContact(ctx context.Context, studentID string) (payment.Contact, error) {
	stu, err := d.svc.GetByID(ctx, studentID)
	if err != nil {
		return payment.Contact{}, err
	}
	return payment.Contact{Name: stu.Name, Email: stu.Email}, nil
}

// studentRoster adapts the student service for enrollment checks. A student
// counts as enrolled when active and admitted into the session's intake.
type studentRoster struct {
	svc *student.Service
}

func (r studentRoster) IsEnrolled(ctx context.Context, studentID, intakeID string) (bool, error) {
	stu, err := r.svc.GetByID(ctx, studentID)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return stu.IsActive && stu.IntakeID == intakeID, nil
}
