package main

import (
	"context"
	"time"

	"github.com/codebluemti/tiba/core"
	"github.com/codebluemti/tiba/core/student"
)

// addStudent admits a student into an existing intake.
func (cli *commandLine) addStudent(name, admNo, intakeID, email, phone string) error {
	ctx := context.Background()
	name = core.CleanString(name)
	admNo = core.CleanString(admNo, true /* lower */)
	email = core.CleanString(email, true /* lower */)
	phone = core.CleanString(phone)

	ntk, err := cli.crsRepo.GetIntakeByID(ctx, intakeID)
	if err != nil {
		return err
	}

	if err := cli.stuRepo.CheckStudentUniqueness(ctx, admNo, email, nil); err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = cli.stuRepo.CreateStudent(ctx, student.Student{
		Name:        name,
		AdmissionNo: admNo,
		Email:       email,
		Phone:       phone,
		CourseID:    ntk.CourseID,
		IntakeID:    ntk.ID,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	return err
}
