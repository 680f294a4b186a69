package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/codebluemti/tiba/core"
	"github.com/codebluemti/tiba/core/attendance"
)

func startSession(t *testing.T, lecturerID, courseID, intakeID string) attendance.ClassSession {
	t.Helper()
	body := marshallObj(t, attendance.NewClassSession{CourseID: courseID, IntakeID: intakeID, Topic: "Anatomy I"})
	req, rec := newIdentityRequest(http.MethodPost, "/v1/attendance/sessions", lecturerID, core.RoleLecturer, body)
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("startSession(): code = %v; body: %s", rec.Code, rec.Body.String())
	}
	var ses attendance.ClassSession
	if err := json.Unmarshal(rec.Body.Bytes(), &ses); err != nil {
		t.Fatalf("startSession(): %v", err)
	}
	return ses
}

func currentCode(t *testing.T, sessionID string) attendance.CodePayload {
	t.Helper()
	payload, err := attendanceSvc.CurrentCode(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("currentCode(): %v", err)
	}
	return payload
}

func Test_attendanceApi_lifecycle(t *testing.T) {
	stu := seedStudent(t, "Eunice Wafula", "adm010", "eunice@test.cd")

	ses := startSession(t, "lec-1", stu.CourseID, stu.IntakeID)

	t.Run("student cannot start a session", func(t *testing.T) {
		body := marshallObj(t, attendance.NewClassSession{CourseID: stu.CourseID, IntakeID: stu.IntakeID, Topic: "Anatomy I"})
		req, rec := newIdentityRequest(http.MethodPost, "/v1/attendance/sessions", stu.ID, core.RoleStudent, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("code = %v; want %v", rec.Code, http.StatusForbidden)
		}
	})

	t.Run("lecturer fetches rotating code", func(t *testing.T) {
		req, rec := newIdentityRequest(http.MethodGet, "/v1/attendance/sessions/"+ses.ID+"/code", "lec-1", core.RoleLecturer)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body: %s", rec.Code, rec.Body.String())
		}
		var payload attendance.CodePayload
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("unmarshalling code payload: %v", err)
		}
		if payload.SessionID != ses.ID {
			t.Errorf("SessionID = %q; want %q", payload.SessionID, ses.ID)
		}
		if payload.Code == "" {
			t.Error("Code is empty")
		}
		if payload.SecondsRemaining <= 0 {
			t.Errorf("SecondsRemaining = %d; want > 0", payload.SecondsRemaining)
		}
	})

	t.Run("another lecturer cannot fetch the code", func(t *testing.T) {
		req, rec := newIdentityRequest(http.MethodGet, "/v1/attendance/sessions/"+ses.ID+"/code", "lec-2", core.RoleLecturer)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("code = %v; want %v", rec.Code, http.StatusForbidden)
		}
	})

	t.Run("student scans successfully", func(t *testing.T) {
		payload := currentCode(t, ses.ID)
		body := marshallObj(t, attendance.ScanRequest{Code: payload.Code})

		req, rec := newIdentityRequest(http.MethodPost, "/v1/attendance/sessions/"+ses.ID+"/scan", stu.ID, core.RoleStudent, body)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; body: %s", rec.Code, rec.Body.String())
		}
		var rec2 attendance.AttendanceRecord
		if err := json.Unmarshal(rec.Body.Bytes(), &rec2); err != nil {
			t.Fatalf("unmarshalling attendance record: %v", err)
		}
		if rec2.StudentID != stu.ID {
			t.Errorf("StudentID = %q; want %q", rec2.StudentID, stu.ID)
		}
	})

	t.Run("second scan conflicts", func(t *testing.T) {
		payload := currentCode(t, ses.ID)
		body := marshallObj(t, attendance.ScanRequest{Code: payload.Code})

		req, rec := newIdentityRequest(http.MethodPost, "/v1/attendance/sessions/"+ses.ID+"/scan", stu.ID, core.RoleStudent, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusConflict {
			t.Errorf("code = %v; want %v", rec.Code, http.StatusConflict)
		}
	})

	t.Run("bogus code is rejected", func(t *testing.T) {
		other := seedStudent(t, "Fatma Noor", "adm011", "fatma@test.cd")
		body := marshallObj(t, attendance.ScanRequest{Code: "NOPE-NOPE"})

		req, rec := newIdentityRequest(http.MethodPost, "/v1/attendance/sessions/"+ses.ID+"/scan", other.ID, core.RoleStudent, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %v; want %v", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("unenrolled student is denied", func(t *testing.T) {
		outsider := seedStudent(t, "Gitonga Njeri", "adm012", "gitonga@test.cd") // different intake
		payload := currentCode(t, ses.ID)
		body := marshallObj(t, attendance.ScanRequest{Code: payload.Code})

		req, rec := newIdentityRequest(http.MethodPost, "/v1/attendance/sessions/"+ses.ID+"/scan", outsider.ID, core.RoleStudent, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("code = %v; want %v", rec.Code, http.StatusForbidden)
		}
	})

	t.Run("lecturer lists attendance", func(t *testing.T) {
		req, rec := newIdentityRequest(http.MethodGet, "/v1/attendance/sessions/"+ses.ID+"/records", "lec-1", core.RoleLecturer)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body: %s", rec.Code, rec.Body.String())
		}
		var recs []attendance.AttendanceRecord
		if err := json.Unmarshal(rec.Body.Bytes(), &recs); err != nil {
			t.Fatalf("unmarshalling attendance records: %v", err)
		}
		if len(recs) != 1 {
			t.Errorf("len(records) = %d; want 1", len(recs))
		}
	})

	t.Run("ending the session stops scans", func(t *testing.T) {
		payload := currentCode(t, ses.ID)

		req, rec := newIdentityRequest(http.MethodPut, "/v1/attendance/sessions/"+ses.ID+"/end", "lec-1", core.RoleLecturer)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("ending session: code = %v; body: %s", rec.Code, rec.Body.String())
		}

		other := seedStudent(t, "Halima Juma", "adm013", "halima@test.cd")
		body := marshallObj(t, attendance.ScanRequest{Code: payload.Code})
		req, rec = newIdentityRequest(http.MethodPost, "/v1/attendance/sessions/"+ses.ID+"/scan", other.ID, core.RoleStudent, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusConflict {
			t.Errorf("code = %v; want %v", rec.Code, http.StatusConflict)
		}

		// ending twice conflicts too
		req, rec = newIdentityRequest(http.MethodPut, "/v1/attendance/sessions/"+ses.ID+"/end", "lec-1", core.RoleLecturer)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusConflict {
			t.Errorf("second end: code = %v; want %v", rec.Code, http.StatusConflict)
		}
	})
}
