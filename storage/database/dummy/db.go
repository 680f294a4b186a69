// Package dummydb provides in-memory repositories for tests and local runs.
package dummydb

import (
	"sync"

	"github.com/codebluemti/tiba/core/attendance"
	"github.com/codebluemti/tiba/core/course"
	"github.com/codebluemti/tiba/core/payment"
	"github.com/codebluemti/tiba/core/student"
	"github.com/codebluemti/tiba/core/visitor"
)

type (
	DB struct {
		feePayment       *feePaymentTable
		student          *studentTable
		course           *courseTable
		intake           *intakeTable
		classSession     *classSessionTable
		attendanceRecord *attendanceRecordTable
		visit            *visitTable
	}

	feePaymentTable struct {
		sync.RWMutex
		table map[string]*payment.FeePayment
	}

	studentTable struct {
		sync.RWMutex
		table map[string]*student.Student
	}

	courseTable struct {
		sync.RWMutex
		table map[string]*course.Course
	}

	intakeTable struct {
		sync.RWMutex
		table map[string]*course.Intake
	}

	classSessionTable struct {
		sync.RWMutex
		table map[string]*attendance.ClassSession
	}

	attendanceRecordTable struct {
		sync.RWMutex
		table map[string]*attendance.AttendanceRecord
	}

	visitTable struct {
		sync.RWMutex
		table map[string]*visitor.Visit
	}
)

func Open() (*DB, error) {
	db := &DB{
		feePayment:       &feePaymentTable{table: make(map[string]*payment.FeePayment)},
		student:          &studentTable{table: make(map[string]*student.Student)},
		course:           &courseTable{table: make(map[string]*course.Course)},
		intake:           &intakeTable{table: make(map[string]*course.Intake)},
		classSession:     &classSessionTable{table: make(map[string]*attendance.ClassSession)},
		attendanceRecord: &attendanceRecordTable{table: make(map[string]*attendance.AttendanceRecord)},
		visit:            &visitTable{table: make(map[string]*visitor.Visit)},
	}
	return db, nil
}
