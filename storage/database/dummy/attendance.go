package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/codebluemti/tiba/core"
	"github.com/codebluemti/tiba/core/attendance"
)

type attendanceRepository struct {
	sessions *classSessionTable
	records  *attendanceRecordTable
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) *attendanceRepository {
	return &attendanceRepository{sessions: db.classSession, records: db.attendanceRecord}
}

func (repo *attendanceRepository) CreateClassSession(ctx context.Context, ses attendance.ClassSession, exec ...core.DBExecutor) (attendance.ClassSession, error) {
	repo.sessions.Lock()
	defer repo.sessions.Unlock()

	ses.ID = uuid.New().String()
	repo.sessions.table[ses.ID] = &ses
	return ses, nil
}

func (repo *attendanceRepository) GetClassSessionByID(ctx context.Context, id string, exec ...core.DBExecutor) (attendance.ClassSession, error) {
	repo.sessions.RLock()
	defer repo.sessions.RUnlock()

	if ses, ok := repo.sessions.table[id]; ok {
		return *ses, nil
	}
	return attendance.ClassSession{}, attendance.ErrNotFound
}

func (repo *attendanceRepository) QueryClassSessionsByLecturerID(ctx context.Context, lecturerID string, exec ...core.DBExecutor) ([]attendance.ClassSession, error) {
	repo.sessions.RLock()
	defer repo.sessions.RUnlock()

	sessions := make([]attendance.ClassSession, 0, len(repo.sessions.table))
	for _, ses := range repo.sessions.table {
		if ses.LecturerID == lecturerID {
			sessions = append(sessions, *ses)
		}
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].StartedAt.After(sessions[j].StartedAt) })
	return sessions, nil
}

func (repo *attendanceRepository) UpdateClassSession(ctx context.Context, ses attendance.ClassSession, exec ...core.DBExecutor) (attendance.ClassSession, error) {
	repo.sessions.Lock()
	defer repo.sessions.Unlock()

	if _, ok := repo.sessions.table[ses.ID]; !ok {
		return attendance.ClassSession{}, attendance.ErrNotFound
	}
	repo.sessions.table[ses.ID] = &ses
	return ses, nil
}

func (repo *attendanceRepository) CreateAttendanceRecord(ctx context.Context, rec attendance.AttendanceRecord, exec ...core.DBExecutor) (attendance.AttendanceRecord, error) {
	repo.records.Lock()
	defer repo.records.Unlock()

	rec.ID = uuid.New().String()
	repo.records.table[rec.ID] = &rec
	return rec, nil
}

func (repo *attendanceRepository) AttendanceExists(ctx context.Context, sessionID, studentID string, exec ...core.DBExecutor) (bool, error) {
	repo.records.RLock()
	defer repo.records.RUnlock()

	for _, rec := range repo.records.table {
		if rec.SessionID == sessionID && rec.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (repo *attendanceRepository) QueryAttendanceBySessionID(ctx context.Context, sessionID string, exec ...core.DBExecutor) ([]attendance.AttendanceRecord, error) {
	repo.records.RLock()
	defer repo.records.RUnlock()

	recs := make([]attendance.AttendanceRecord, 0, len(repo.records.table))
	for _, rec := range repo.records.table {
		if rec.SessionID == sessionID {
			recs = append(recs, *rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].MarkedAt.Before(recs[j].MarkedAt) })
	return recs, nil
}
