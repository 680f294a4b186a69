package attendance

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/codebluemti/tiba/core"
)

// ClassSession is one sitting of a class during which attendance is taken by
// scanning the session's rotating QR code.
type ClassSession struct {
	ID         string    `json:"id"`
	CourseID   string    `json:"course_id"`
	IntakeID   string    `json:"intake_id"`
	LecturerID string    `json:"lecturer_id"`
	Topic      string    `json:"topic"`
	IsActive   bool      `json:"is_active"`
	StartedAt  time.Time `json:"started_at"` // UTC
	EndedAt    null.Time `json:"ended_at"`   // UTC
}

type AttendanceRecord struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	StudentID string    `json:"student_id"`
	MarkedAt  time.Time `json:"marked_at"` // UTC
}

// NewClassSession contains information needed to start a ClassSession.
type NewClassSession struct {
	CourseID string `json:"course_id" validate:"required"`
	IntakeID string `json:"intake_id" validate:"required"`
	Topic    string `json:"topic" validate:"required"`
}

func (ns *NewClassSession) Validate(validate *validator.Validate) error {
	ns.CourseID = core.CleanString(ns.CourseID)
	ns.IntakeID = core.CleanString(ns.IntakeID)
	ns.Topic = core.CleanString(ns.Topic)
	return validate.Struct(ns)
}

// CodePayload is what the lecturer's screen renders as a QR code.
type CodePayload struct {
	SessionID        string `json:"session_id"`
	Code             string `json:"code"`
	SecondsRemaining int    `json:"seconds_remaining"`
}

// ScanRequest is a student's attempt to mark attendance.
type ScanRequest struct {
	Code string `json:"code" validate:"required"`
}

func (sr *ScanRequest) Validate(validate *validator.Validate) error {
	sr.Code = core.CleanString(sr.Code)
	return validate.Struct(sr)
}
