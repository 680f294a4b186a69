package main

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/codebluemti/tiba/core/course"
	"github.com/codebluemti/tiba/core/student"
	dummydb "github.com/codebluemti/tiba/storage/database/dummy"
)

func setup(t *testing.T) *commandLine {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup(): %v", err)
	}
	return &commandLine{
		stuRepo: dummydb.NewStudentRepository(db),
		crsRepo: dummydb.NewCourseRepository(db),
	}
}

func seedIntake(t *testing.T, cli *commandLine) course.Intake {
	t.Helper()
	ctx := context.Background()

	crs, err := cli.crsRepo.CreateCourse(ctx, course.Course{Name: "Community Health", Code: "ch", DurationMonths: 24, IsActive: true})
	if err != nil {
		t.Fatalf("seedIntake(): creating course: %v", err)
	}
	ntk, err := cli.crsRepo.CreateIntake(ctx, course.Intake{
		CourseID:  crs.ID,
		Name:      "Jan 2026",
		StartDate: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2028, 1, 5, 0, 0, 0, 0, time.UTC),
		IsOpen:    true,
	})
	if err != nil {
		t.Fatalf("seedIntake(): creating intake: %v", err)
	}
	return ntk
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s requires a VERSION argument", command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to requires a VERSION argument"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}

func Test_commandLine_addCourse(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no args", args: []string{"addcourse"}, wantErr: errHelp},
		{name: "missing months", args: []string{"addcourse", "-name", "Nursing", "-code", "nur"}, wantErr: errHelp},
		{name: "ok", args: []string{"addcourse", "-name", "Nursing", "-code", "nur", "-months", "36"}},
		{name: "duplicate code", args: []string{"addcourse", "-name", "Nursing II", "-code", "nur", "-months", "36"}, wantErr: course.ErrCodeExists},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Errorf("cli.run() unexpected error = %v", err)
			}
		})
	}
}

func Test_commandLine_addStudent(t *testing.T) {
	cli := setup(t)
	ntk := seedIntake(t, cli)

	tests := []cliTest{
		{name: "no args", args: []string{"addstudent"}, wantErr: errHelp},
		{name: "missing intake", args: []string{"addstudent", "-name", "Kendi Mutua", "-admno", "ch001"}, wantErr: errHelp},
		{name: "unknown intake", args: []string{"addstudent", "-name", "Kendi Mutua", "-admno", "ch001", "-intake", "nope"}, wantErr: course.ErrIntakeNotFound},
		{name: "ok", args: []string{"addstudent", "-name", "Kendi Mutua", "-admno", "ch001", "-intake", ntk.ID, "-email", "kendi@test.cd"}},
		{name: "duplicate admno", args: []string{"addstudent", "-name", "Copy Cat", "-admno", "ch001", "-intake", ntk.ID}, wantErr: student.ErrAdmissionNoExists},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Errorf("cli.run() unexpected error = %v", err)
			}
		})
	}

	stu, err := cli.stuRepo.GetStudentByAdmissionNo(context.Background(), "ch001")
	if err != nil {
		t.Fatalf("GetStudentByAdmissionNo() error = %v", err)
	}
	if stu.CourseID != ntk.CourseID {
		t.Errorf("CourseID = %q; want %q", stu.CourseID, ntk.CourseID)
	}
	if !stu.IsActive {
		t.Error("IsActive = false; want true")
	}
}
