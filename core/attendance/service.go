package attendance

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/codebluemti/tiba/core"
)

var (
	// errors
	ErrNotFound       = errors.New("class session not found")
	ErrSessionClosed  = errors.New("class session is not active")
	ErrInvalidCode    = errors.New("invalid or expired session code")
	ErrNotEnrolled    = errors.New("student is not enrolled in this intake")
	ErrAlreadyMarked  = errors.New("attendance already marked for this session")
	ErrRecordNotFound = errors.New("attendance record not found")
)

type (
	Repository interface {
		CreateClassSession(ctx context.Context, ses ClassSession, exec ...core.DBExecutor) (ClassSession, error)
		GetClassSessionByID(ctx context.Context, id string, exec ...core.DBExecutor) (ClassSession, error)
		QueryClassSessionsByLecturerID(ctx context.Context, lecturerID string, exec ...core.DBExecutor) ([]ClassSession, error)
		UpdateClassSession(ctx context.Context, ses ClassSession, exec ...core.DBExecutor) (ClassSession, error)

		CreateAttendanceRecord(ctx context.Context, rec AttendanceRecord, exec ...core.DBExecutor) (AttendanceRecord, error)
		// AttendanceExists reports whether the student already scanned into the session.
		AttendanceExists(ctx context.Context, sessionID, studentID string, exec ...core.DBExecutor) (bool, error)
		QueryAttendanceBySessionID(ctx context.Context, sessionID string, exec ...core.DBExecutor) ([]AttendanceRecord, error)
	}

	// Roster answers enrollment questions; apps wire the student service in.
	Roster interface {
		IsEnrolled(ctx context.Context, studentID, intakeID string) (bool, error)
	}

	Service struct {
		db     core.DB
		repo   Repository
		roster Roster
		conf   *core.Config
	}
)

func NewService(db core.DB, repo Repository, roster Roster, conf *core.Config) *Service {
	return &Service{db: db, repo: repo, roster: roster, conf: conf}
}

// Start creates and activates a class session for the lecturer.
func (svc *Service) Start(ctx context.Context, lecturerID string, ns NewClassSession) (ClassSession, error) {
	ses := ClassSession{
		CourseID:   ns.CourseID,
		IntakeID:   ns.IntakeID,
		LecturerID: lecturerID,
		Topic:      ns.Topic,
		IsActive:   true,
		StartedAt:  NowFunc().UTC(),
	}
	return svc.repo.CreateClassSession(ctx, ses)
}

func (svc *Service) GetByID(ctx context.Context, id string) (ClassSession, error) {
	return svc.repo.GetClassSessionByID(ctx, id)
}

func (svc *Service) QueryByLecturer(ctx context.Context, lecturerID string) ([]ClassSession, error) {
	return svc.repo.QueryClassSessionsByLecturerID(ctx, lecturerID)
}

// End closes an active session. Ended sessions cannot be reactivated.
func (svc *Service) End(ctx context.Context, id string) (ClassSession, error) {
	ses, err := svc.repo.GetClassSessionByID(ctx, id)
	if err != nil {
		return ClassSession{}, err
	}
	if !ses.IsActive {
		return ClassSession{}, ErrSessionClosed
	}
	ses.IsActive = false
	ses.EndedAt = null.TimeFrom(NowFunc().UTC())
	return svc.repo.UpdateClassSession(ctx, ses)
}

// CurrentCode returns the QR payload the lecturer's screen should be showing now.
func (svc *Service) CurrentCode(ctx context.Context, sessionID string) (CodePayload, error) {
	ses, err := svc.repo.GetClassSessionByID(ctx, sessionID)
	if err != nil {
		return CodePayload{}, err
	}
	if !ses.IsActive {
		return CodePayload{}, ErrSessionClosed
	}

	now := NowFunc()
	code, err := MakeCode(ses.ID, now, svc.conf.Attendance.RotationPeriod, svc.conf.SecretKey)
	if err != nil {
		return CodePayload{}, errors.Wrap(err, "making session code")
	}
	return CodePayload{
		SessionID:        ses.ID,
		Code:             code,
		SecondsRemaining: SecondsRemaining(now, svc.conf.Attendance.RotationPeriod),
	}, nil
}

// Scan validates a student's scanned code and marks attendance.
// The session must be active, the code current (or one window old), the
// student enrolled in the session's intake, and not already marked.
func (svc *Service) Scan(ctx context.Context, sessionID, studentID, code string) (AttendanceRecord, error) {
	ses, err := svc.repo.GetClassSessionByID(ctx, sessionID)
	if err != nil {
		return AttendanceRecord{}, err
	}
	if !ses.IsActive {
		return AttendanceRecord{}, ErrSessionClosed
	}

	if err = VerifyCode(ses.ID, code, NowFunc(), svc.conf.Attendance.RotationPeriod, svc.conf.SecretKey); err != nil {
		return AttendanceRecord{}, ErrInvalidCode
	}

	enrolled, err := svc.roster.IsEnrolled(ctx, studentID, ses.IntakeID)
	if err != nil {
		return AttendanceRecord{}, errors.Wrap(err, "checking enrollment")
	}
	if !enrolled {
		return AttendanceRecord{}, ErrNotEnrolled
	}

	exists, err := svc.repo.AttendanceExists(ctx, ses.ID, studentID)
	if err != nil {
		return AttendanceRecord{}, errors.Wrap(err, "checking for duplicate scan")
	}
	if exists {
		return AttendanceRecord{}, ErrAlreadyMarked
	}

	rec := AttendanceRecord{
		SessionID: ses.ID,
		StudentID: studentID,
		MarkedAt:  NowFunc().UTC(),
	}
	rec, err = svc.repo.CreateAttendanceRecord(ctx, rec)
	return rec, errors.Wrap(err, "creating attendance record")
}

func (svc *Service) SessionAttendance(ctx context.Context, sessionID string) ([]AttendanceRecord, error) {
	if _, err := svc.repo.GetClassSessionByID(ctx, sessionID); err != nil {
		return nil, err
	}
	return svc.repo.QueryAttendanceBySessionID(ctx, sessionID)
}
