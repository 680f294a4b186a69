package main

import (
	"context"
	"time"

	"github.com/codebluemti/tiba/core"
	"github.com/codebluemti/tiba/core/course"
)

// addCourse registers a course if its code is not already taken.
func (cli *commandLine) addCourse(name, code string, months int) error {
	ctx := context.Background()
	name = core.CleanString(name)
	code = core.CleanString(code, true /* lower */)

	if err := cli.crsRepo.CheckCourseCodeUniqueness(ctx, code); err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err := cli.crsRepo.CreateCourse(ctx, course.Course{
		Name:           name,
		Code:           code,
		DurationMonths: months,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	return err
}
