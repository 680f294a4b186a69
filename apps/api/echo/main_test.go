package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/codebluemti/tiba/core"
	"github.com/codebluemti/tiba/core/attendance"
	"github.com/codebluemti/tiba/core/course"
	"github.com/codebluemti/tiba/core/payment"
	"github.com/codebluemti/tiba/core/student"
	"github.com/codebluemti/tiba/core/visitor"
	dummydb "github.com/codebluemti/tiba/storage/database/dummy"
)

var (
	app Server

	conf          *core.Config
	paymentSvc    *payment.Service
	studentSvc    *student.Service
	courseSvc     *course.Service
	attendanceSvc *attendance.Service
	visitorSvc    *visitor.Service

	errNoIdentity = httpErr{Error: "caller not authenticated"}
)

// testLogger keeps logged messages out of test output.
type testLogger struct{}

func (testLogger) Debug(msg string, args ...interface{}) {}
func (testLogger) Info(msg string, args ...interface{})  {}
func (testLogger) Warn(msg string, args ...interface{})  {}
func (testLogger) Error(msg string, args ...interface{}) {}
func (testLogger) Fatal(msg string, args ...interface{}) {}

// mailRecorder satisfies core.EmailService without sending anything.
type mailRecorder struct {
	messages []core.EmailMessage
}

func (m *mailRecorder) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		m.messages = append(m.messages, *msg)
	}
}

// studentDirectory adapts the student service for payment owner lookups.
type studentDirectory struct {
	svc *student.Service
}

func (d studentDirectory) GetStudentContact(ctx context.Context, studentID string) (payment.Contact, error) {
	stu, err := d.svc.GetByID(ctx, studentID)
	if err != nil {
		return payment.Contact{}, err
	}
	return payment.Contact{Name: stu.Name, Email: stu.Email}, nil
}

// studentRoster adapts the student service for enrollment checks.
type studentRoster struct {
	svc *student.Service
}

func (r studentRoster) IsEnrolled(ctx context.Context, studentID, intakeID string) (bool, error) {
	stu, err := r.svc.GetByID(ctx, studentID)
	if err != nil {
		if err == student.ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return stu.IsActive && stu.IntakeID == intakeID, nil
}

func TestMain(m *testing.M) {
	conf = &core.Config{
		TestMode:   true,
		Env:        "TEST",
		AppName:    "Tiba",
		SecretKey:  "sssshh",
		Attendance: core.AttendanceConfig{RotationPeriod: 30 * time.Second},
	}

	db, _ := dummydb.Open()

	mailSvc := &mailRecorder{}
	studentSvc = student.NewService(nil, dummydb.NewStudentRepository(db), conf)
	courseSvc = course.NewService(nil, dummydb.NewCourseRepository(db), conf)
	paymentSvc = payment.NewService(nil, dummydb.NewFeePaymentRepository(db), studentDirectory{studentSvc}, mailSvc, conf)
	attendanceSvc = attendance.NewService(nil, dummydb.NewAttendanceRepository(db), studentRoster{studentSvc}, conf)
	visitorSvc = visitor.NewService(nil, dummydb.NewVisitRepository(db))

	validate := validator.New()
	translator := newTestTranslator()
	core.InitValidators(validate, translator)
	student.InitValidators(validate, translator)

	app = NewServer(ServerDeps{
		Conf:          conf,
		Logger:        testLogger{},
		PaymentSvc:    paymentSvc,
		StudentSvc:    studentSvc,
		CourseSvc:     courseSvc,
		AttendanceSvc: attendanceSvc,
		VisitorSvc:    visitorSvc,
		Validate:      validate,
		Translator:    translator,
	})

	os.Exit(m.Run())
}

func newTestTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	userID   string
	roles    string
	wantCode int
	wantData []byte
}

func newIdentityRequest(method, path, userID, roles string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-Auth-User", userID)
	}
	if roles != "" {
		req.Header.Set("X-Auth-Roles", roles)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newIdentityRequest(method, path, "", "", data...)
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj(): %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

// seedStudent provisions a course, an intake and an admitted student.
func seedStudent(t *testing.T, name, admNo, email string) student.Student {
	t.Helper()
	ctx := context.Background()

	crs, err := courseSvc.Create(ctx, course.NewCourse{Name: "Clinical Medicine " + admNo, Code: "cm_" + admNo, DurationMonths: 36})
	if err != nil {
		t.Fatalf("seedStudent(): creating course: %v", err)
	}
	ntk, err := courseSvc.CreateIntake(ctx, crs.ID, course.NewIntake{
		Name:      "Sept 2025",
		StartDate: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2028, 8, 31, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("seedStudent(): creating intake: %v", err)
	}
	stu, err := studentSvc.Create(ctx, student.NewStudent{
		Name:        name,
		AdmissionNo: admNo,
		Email:       email,
		CourseID:    crs.ID,
		IntakeID:    ntk.ID,
	})
	if err != nil {
		t.Fatalf("seedStudent(): admitting student: %v", err)
	}
	return stu
}
