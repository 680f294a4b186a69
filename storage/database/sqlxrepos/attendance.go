package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/codebluemti/tiba/core"
	"github.com/codebluemti/tiba/core/attendance"
)

type classSessionRow struct {
	ID         string    `db:"id"`
	CourseID   string    `db:"course_id"`
	IntakeID   string    `db:"intake_id"`
	LecturerID string    `db:"lecturer_id"`
	Topic      string    `db:"topic"`
	IsActive   bool      `db:"is_active"`
	StartedAt  time.Time `db:"started_at"`
	EndedAt    null.Time `db:"ended_at"`
}

func (r classSessionRow) session() attendance.ClassSession {
	return attendance.ClassSession{
		ID:         r.ID,
		CourseID:   r.CourseID,
		IntakeID:   r.IntakeID,
		LecturerID: r.LecturerID,
		Topic:      r.Topic,
		IsActive:   r.IsActive,
		StartedAt:  r.StartedAt,
		EndedAt:    r.EndedAt,
	}
}

func newClassSessionRow(ses attendance.ClassSession) classSessionRow {
	return classSessionRow{
		ID:         ses.ID,
		CourseID:   ses.CourseID,
		IntakeID:   ses.IntakeID,
		LecturerID: ses.LecturerID,
		Topic:      ses.Topic,
		IsActive:   ses.IsActive,
		StartedAt:  ses.StartedAt.UTC(),
		EndedAt:    ses.EndedAt,
	}
}

type attendanceRecordRow struct {
	ID        string    `db:"id"`
	SessionID string    `db:"session_id"`
	StudentID string    `db:"student_id"`
	MarkedAt  time.Time `db:"marked_at"`
}

func (r attendanceRecordRow) record() attendance.AttendanceRecord {
	return attendance.AttendanceRecord{
		ID:        r.ID,
		SessionID: r.SessionID,
		StudentID: r.StudentID,
		MarkedAt:  r.MarkedAt,
	}
}

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) *attendanceRepository {
	return &attendanceRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to attendance.ErrNotFound
func (repo attendanceRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return attendance.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo attendanceRepository) CreateClassSession(ctx context.Context, ses attendance.ClassSession, exec ...core.DBExecutor) (attendance.ClassSession, error) {
	ses.ID = uuid.New().String()
	row := newClassSessionRow(ses)
	q := `INSERT INTO class_session (id, course_id, intake_id, lecturer_id, topic, is_active, started_at, ended_at)
		VALUES (:id, :course_id, :intake_id, :lecturer_id, :topic, :is_active, :started_at, :ended_at)`
	if _, err := sqlx.NamedExecContext(ctx, getExec(repo.db, exec), q, row); err != nil {
		return attendance.ClassSession{}, errors.Wrap(err, "inserting class session")
	}
	return row.session(), nil
}

func (repo attendanceRepository) GetClassSessionByID(ctx context.Context, id string, exec ...core.DBExecutor) (attendance.ClassSession, error) {
	if _, err := uuid.Parse(id); err != nil {
		return attendance.ClassSession{}, attendance.ErrNotFound
	}

	var row classSessionRow
	q := `SELECT * FROM class_session WHERE id = $1`
	if err := sqlx.GetContext(ctx, getExec(repo.db, exec), &row, q, id); err != nil {
		return attendance.ClassSession{}, repo.trapNoRowsErr(err, "finding class session by ID")
	}
	return row.session(), nil
}

func (repo attendanceRepository) QueryClassSessionsByLecturerID(ctx context.Context, lecturerID string, exec ...core.DBExecutor) ([]attendance.ClassSession, error) {
	var rows []classSessionRow
	q := `SELECT * FROM class_session WHERE lecturer_id = $1 ORDER BY started_at DESC`
	if err := sqlx.SelectContext(ctx, getExec(repo.db, exec), &rows, q, lecturerID); err != nil {
		return nil, errors.Wrap(err, "querying class sessions")
	}

	sessions := make([]attendance.ClassSession, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, row.session())
	}
	return sessions, nil
}

func (repo attendanceRepository) UpdateClassSession(ctx context.Context, ses attendance.ClassSession, exec ...core.DBExecutor) (attendance.ClassSession, error) {
	row := newClassSessionRow(ses)
	q := `UPDATE class_session
		SET topic = :topic, is_active = :is_active, ended_at = :ended_at
		WHERE id = :id`
	if _, err := sqlx.NamedExecContext(ctx, getExec(repo.db, exec), q, row); err != nil {
		return attendance.ClassSession{}, errors.Wrap(err, "updating class session")
	}
	return row.session(), nil
}

func (repo attendanceRepository) CreateAttendanceRecord(ctx context.Context, rec attendance.AttendanceRecord, exec ...core.DBExecutor) (attendance.AttendanceRecord, error) {
	rec.ID = uuid.New().String()
	row := attendanceRecordRow{
		ID:        rec.ID,
		SessionID: rec.SessionID,
		StudentID: rec.StudentID,
		MarkedAt:  rec.MarkedAt.UTC(),
	}
	q := `INSERT INTO attendance_record (id, session_id, student_id, marked_at)
		VALUES (:id, :session_id, :student_id, :marked_at)`
	if _, err := sqlx.NamedExecContext(ctx, getExec(repo.db, exec), q, row); err != nil {
		return attendance.AttendanceRecord{}, errors.Wrap(err, "inserting attendance record")
	}
	return row.record(), nil
}

func (repo attendanceRepository) AttendanceExists(ctx context.Context, sessionID, studentID string, exec ...core.DBExecutor) (bool, error) {
	var exists bool
	q := `SELECT EXISTS (SELECT 1 FROM attendance_record WHERE session_id = $1 AND student_id = $2)`
	if err := sqlx.GetContext(ctx, getExec(repo.db, exec), &exists, q, sessionID, studentID); err != nil {
		return false, errors.Wrap(err, "checking attendance existence")
	}
	return exists, nil
}

func (repo attendanceRepository) QueryAttendanceBySessionID(ctx context.Context, sessionID string, exec ...core.DBExecutor) ([]attendance.AttendanceRecord, error) {
	var rows []attendanceRecordRow
	q := `SELECT * FROM attendance_record WHERE session_id = $1 ORDER BY marked_at ASC`
	if err := sqlx.SelectContext(ctx, getExec(repo.db, exec), &rows, q, sessionID); err != nil {
		return nil, errors.Wrap(err, "querying attendance records")
	}

	recs := make([]attendance.AttendanceRecord, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, row.record())
	}
	return recs, nil
}
