package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/codebluemti/tiba/core"
	"github.com/codebluemti/tiba/core/course"
)

type courseRow struct {
	ID             string    `db:"id"`
	Name           string    `db:"name"`
	Code           string    `db:"code"`
	DurationMonths int       `db:"duration_months"`
	IsActive       bool      `db:"is_active"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r courseRow) course() course.Course {
	return course.Course{
		ID:             r.ID,
		Name:           r.Name,
		Code:           r.Code,
		DurationMonths: r.DurationMonths,
		IsActive:       r.IsActive,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func newCourseRow(crs course.Course) courseRow {
	return courseRow{
		ID:             crs.ID,
		Name:           crs.Name,
		Code:           crs.Code,
		DurationMonths: crs.DurationMonths,
		IsActive:       crs.IsActive,
		CreatedAt:      crs.CreatedAt.UTC(),
		UpdatedAt:      crs.UpdatedAt.UTC(),
	}
}

type intakeRow struct {
	ID        string    `db:"id"`
	CourseID  string    `db:"course_id"`
	Name      string    `db:"name"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	Capacity  int       `db:"capacity"`
	IsOpen    bool      `db:"is_open"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r intakeRow) intake() course.Intake {
	return course.Intake{
		ID:        r.ID,
		CourseID:  r.CourseID,
		Name:      r.Name,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Capacity:  r.Capacity,
		IsOpen:    r.IsOpen,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func newIntakeRow(ntk course.Intake) intakeRow {
	return intakeRow{
		ID:        ntk.ID,
		CourseID:  ntk.CourseID,
		Name:      ntk.Name,
		StartDate: ntk.StartDate.UTC(),
		EndDate:   ntk.EndDate.UTC(),
		Capacity:  ntk.Capacity,
		IsOpen:    ntk.IsOpen,
		CreatedAt: ntk.CreatedAt.UTC(),
		UpdatedAt: ntk.UpdatedAt.UTC(),
	}
}

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *sqlx.DB) *courseRepository {
	return &courseRepository{db: db}
}

func (repo courseRepository) CheckCourseCodeUniqueness(ctx context.Context, code string, exec ...core.DBExecutor) error {
	var exists bool
	q := `SELECT EXISTS (SELECT 1 FROM course WHERE code = $1)`
	if err := sqlx.GetContext(ctx, getExec(repo.db, exec), &exists, q, code); err != nil {
		return errors.Wrap(err, "checking course code uniqueness")
	}
	if exists {
		return course.ErrCodeExists
	}
	return nil
}

func (repo courseRepository) CreateCourse(ctx context.Context, crs course.Course, exec ...core.DBExecutor) (course.Course, error) {
	crs.ID = uuid.New().String()
	row := newCourseRow(crs)
	q := `INSERT INTO course (id, name, code, duration_months, is_active, created_at, updated_at)
		VALUES (:id, :name, :code, :duration_months, :is_active, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, getExec(repo.db, exec), q, row); err != nil {
		return course.Course{}, errors.Wrap(err, "inserting course")
	}
	return row.course(), nil
}

func (repo courseRepository) GetCourseByID(ctx context.Context, id string, exec ...core.DBExecutor) (course.Course, error) {
	if _, err := uuid.Parse(id); err != nil {
		return course.Course{}, course.ErrNotFound
	}

	var row courseRow
	q := `SELECT * FROM course WHERE id = $1`
	if err := sqlx.GetContext(ctx, getExec(repo.db, exec), &row, q, id); err != nil {
		if err == sql.ErrNoRows {
			return course.Course{}, course.ErrNotFound
		}
		return course.Course{}, errors.Wrap(err, "finding course by ID")
	}
	return row.course(), nil
}

func (repo courseRepository) QueryAllCourses(ctx context.Context, exec ...core.DBExecutor) ([]course.Course, error) {
	var rows []courseRow
	q := `SELECT * FROM course ORDER BY name ASC`
	if err := sqlx.SelectContext(ctx, getExec(repo.db, exec), &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}

	courses := make([]course.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, row.course())
	}
	return courses, nil
}

func (repo courseRepository) UpdateCourse(ctx context.Context, crs course.Course, exec ...core.DBExecutor) (course.Course, error) {
	row := newCourseRow(crs)
	q := `UPDATE course
		SET name = :name, duration_months = :duration_months, is_active = :is_active, updated_at = :updated_at
		WHERE id = :id`
	if _, err := sqlx.NamedExecContext(ctx, getExec(repo.db, exec), q, row); err != nil {
		return course.Course{}, errors.Wrap(err, "updating course")
	}
	return row.course(), nil
}

func (repo courseRepository) CreateIntake(ctx context.Context, ntk course.Intake, exec ...core.DBExecutor) (course.Intake, error) {
	ntk.ID = uuid.New().String()
	row := newIntakeRow(ntk)
	q := `INSERT INTO intake (id, course_id, name, start_date, end_date, capacity, is_open, created_at, updated_at)
		VALUES (:id, :course_id, :name, :start_date, :end_date, :capacity, :is_open, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, getExec(repo.db, exec), q, row); err != nil {
		return course.Intake{}, errors.Wrap(err, "inserting intake")
	}
	return row.intake(), nil
}

func (repo courseRepository) GetIntakeByID(ctx context.Context, id string, exec ...core.DBExecutor) (course.Intake, error) {
	if _, err := uuid.Parse(id); err != nil {
		return course.Intake{}, course.ErrIntakeNotFound
	}

	var row intakeRow
	q := `SELECT * FROM intake WHERE id = $1`
	if err := sqlx.GetContext(ctx, getExec(repo.db, exec), &row, q, id); err != nil {
		if err == sql.ErrNoRows {
			return course.Intake{}, course.ErrIntakeNotFound
		}
		return course.Intake{}, errors.Wrap(err, "finding intake by ID")
	}
	return row.intake(), nil
}

func (repo courseRepository) QueryIntakesByCourseID(ctx context.Context, courseID string, exec ...core.DBExecutor) ([]course.Intake, error) {
	var rows []intakeRow
	q := `SELECT * FROM intake WHERE course_id = $1 ORDER BY start_date DESC`
	if err := sqlx.SelectContext(ctx, getExec(repo.db, exec), &rows, q, courseID); err != nil {
		return nil, errors.Wrap(err, "querying intakes")
	}

	intakes := make([]course.Intake, 0, len(rows))
	for _, row := range rows {
		intakes = append(intakes, row.intake())
	}
	return intakes, nil
}

func (repo courseRepository) UpdateIntake(ctx context.Context, ntk course.Intake, exec ...core.DBExecutor) (course.Intake, error) {
	row := newIntakeRow(ntk)
	q := `UPDATE intake
		SET name = :name, start_date = :start_date, end_date = :end_date,
			capacity = :capacity, is_open = :is_open, updated_at = :updated_at
		WHERE id = :id`
	if _, err := sqlx.NamedExecContext(ctx, getExec(repo.db, exec), q, row); err != nil {
		return course.Intake{}, errors.Wrap(err, "updating intake")
	}
	return row.intake(), nil
}
