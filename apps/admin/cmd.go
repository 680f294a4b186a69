package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/codebluemti/tiba/core/course"
	"github.com/codebluemti/tiba/core/student"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db      *sqlx.DB
	stuRepo student.Repository
	crsRepo course.Repository
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run a migration command (up, down, status, ...)")
	fmt.Println("  addcourse -name NAME -code CODE -months N - register a course")
	fmt.Println("  addstudent -name NAME -admno ADMNO -intake INTAKE_ID [-email EMAIL] [-phone PHONE] - admit a student")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addCourseCmd := flag.NewFlagSet("addcourse", flag.ExitOnError)
	addCourseName := addCourseCmd.String("name", "", "The course name.")
	addCourseCode := addCourseCmd.String("code", "", "A unique short code for the course.")
	addCourseMonths := addCourseCmd.Int("months", 0, "The course duration in months.")

	addStudentCmd := flag.NewFlagSet("addstudent", flag.ExitOnError)
	addStudentName := addStudentCmd.String("name", "", "The student's full name.")
	addStudentAdmNo := addStudentCmd.String("admno", "", "The student's admission number.")
	addStudentIntake := addStudentCmd.String("intake", "", "The intake ID to admit the student into.")
	addStudentEmail := addStudentCmd.String("email", "", "The student's email address.")
	addStudentPhone := addStudentCmd.String("phone", "", "The student's phone number.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "addcourse":
		if err := addCourseCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addCourseName == "" || *addCourseCode == "" || *addCourseMonths <= 0 {
			addCourseCmd.Usage()
			return errHelp
		}
		return cli.addCourse(*addCourseName, *addCourseCode, *addCourseMonths)
	case "addstudent":
		if err := addStudentCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addStudentName == "" || *addStudentAdmNo == "" || *addStudentIntake == "" {
			addStudentCmd.Usage()
			return errHelp
		}
		return cli.addStudent(*addStudentName, *addStudentAdmNo, *addStudentIntake, *addStudentEmail, *addStudentPhone)
	default:
		cli.printUsage()
		return errHelp
	}
}
