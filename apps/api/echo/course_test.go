package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/codebluemti/tiba/core"
	"github.com/codebluemti/tiba/core/course"
)

func Test_courseApi_create(t *testing.T) {
	body := marshallObj(t, course.NewCourse{Name: "Pharmaceutical Technology", Code: "pharm_tech", DurationMonths: 36})

	t.Run("lecturer cannot create", func(t *testing.T) {
		req, rec := newIdentityRequest(http.MethodPost, "/v1/courses", "lec-1", core.RoleLecturer, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("code = %v; want %v", rec.Code, http.StatusForbidden)
		}
	})

	req, rec := newIdentityRequest(http.MethodPost, "/v1/courses", "admin-1", core.RoleAdmin, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %v; body: %s", rec.Code, rec.Body.String())
	}
	var crs course.Course
	if err := json.Unmarshal(rec.Body.Bytes(), &crs); err != nil {
		t.Fatalf("unmarshalling course: %v", err)
	}
	if !crs.IsActive {
		t.Error("new course should be active")
	}

	t.Run("duplicate code is rejected", func(t *testing.T) {
		dup := marshallObj(t, course.NewCourse{Name: "Pharm Tech Again", Code: "pharm_tech", DurationMonths: 24})
		req, rec := newIdentityRequest(http.MethodPost, "/v1/courses", "admin-1", core.RoleAdmin, dup)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("code = %v; body: %s", rec.Code, rec.Body.String())
		}
		var fldErrs map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &fldErrs); err != nil {
			t.Fatalf("unmarshalling field errors: %v", err)
		}
		if _, ok := fldErrs["code"]; !ok {
			t.Errorf("field errors = %v; want code key", fldErrs)
		}
	})
}

func Test_courseApi_intakes(t *testing.T) {
	body := marshallObj(t, course.NewCourse{Name: "Community Health", Code: "comm_health", DurationMonths: 24})
	req, rec := newIdentityRequest(http.MethodPost, "/v1/courses", "admin-1", core.RoleAdmin, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("creating course: code = %v; body: %s", rec.Code, rec.Body.String())
	}
	var crs course.Course
	if err := json.Unmarshal(rec.Body.Bytes(), &crs); err != nil {
		t.Fatalf("unmarshalling course: %v", err)
	}

	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	t.Run("end date must follow start date", func(t *testing.T) {
		bad := marshallObj(t, course.NewIntake{
			Name:      "Backwards",
			StartDate: start,
			EndDate:   start.AddDate(0, -6, 0),
		})
		req, rec := newIdentityRequest(http.MethodPost, "/v1/courses/"+crs.ID+"/intakes", "admin-1", core.RoleAdmin, bad)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("code = %v; body: %s", rec.Code, rec.Body.String())
		}
		var fldErrs map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &fldErrs); err != nil {
			t.Fatalf("unmarshalling field errors: %v", err)
		}
		if _, ok := fldErrs["end_date"]; !ok {
			t.Errorf("field errors = %v; want end_date key", fldErrs)
		}
	})

	good := marshallObj(t, course.NewIntake{
		Name:      "Jan 2026",
		StartDate: start,
		EndDate:   start.AddDate(2, 0, 0),
		Capacity:  50,
	})
	req, rec = newIdentityRequest(http.MethodPost, "/v1/courses/"+crs.ID+"/intakes", "admin-1", core.RoleAdmin, good)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("creating intake: code = %v; body: %s", rec.Code, rec.Body.String())
	}
	var ntk course.Intake
	if err := json.Unmarshal(rec.Body.Bytes(), &ntk); err != nil {
		t.Fatalf("unmarshalling intake: %v", err)
	}
	if !ntk.IsOpen {
		t.Error("new intake should be open")
	}

	t.Run("close intake", func(t *testing.T) {
		req, rec := newIdentityRequest(http.MethodPut, "/v1/intakes/"+ntk.ID+"/close", "admin-1", core.RoleAdmin)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body: %s", rec.Code, rec.Body.String())
		}
		var closed course.Intake
		if err := json.Unmarshal(rec.Body.Bytes(), &closed); err != nil {
			t.Fatalf("unmarshalling intake: %v", err)
		}
		if closed.IsOpen {
			t.Error("IsOpen = true; want false")
		}

		// the parent course stays active
		req, rec = newIdentityRequest(http.MethodGet, "/v1/courses/"+crs.ID, "admin-1", core.RoleAdmin)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("retrieving course: code = %v", rec.Code)
		}
		var gotCrs course.Course
		if err := json.Unmarshal(rec.Body.Bytes(), &gotCrs); err != nil {
			t.Fatalf("unmarshalling course: %v", err)
		}
		if !gotCrs.IsActive {
			t.Error("course deactivated by intake close")
		}
	})

	t.Run("unknown intake returns 404", func(t *testing.T) {
		req, rec := newIdentityRequest(http.MethodPut, "/v1/intakes/00000000-0000-0000-0000-000000000000/close", "admin-1", core.RoleAdmin)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("code = %v; want %v", rec.Code, http.StatusNotFound)
		}
	})
}
