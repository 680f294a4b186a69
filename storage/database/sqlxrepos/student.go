package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/codebluemti/tiba/core"
	"github.com/codebluemti/tiba/core/student"
)

type studentRow struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	AdmissionNo string    `db:"admission_no"`
	Email       string    `db:"email"`
	Phone       string    `db:"phone"`
	CourseID    string    `db:"course_id"`
	IntakeID    string    `db:"intake_id"`
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r studentRow) student() student.Student {
	return student.Student{
		ID:          r.ID,
		Name:        r.Name,
		AdmissionNo: r.AdmissionNo,
		Email:       r.Email,
		Phone:       r.Phone,
		CourseID:    r.CourseID,
		IntakeID:    r.IntakeID,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func newStudentRow(stu student.Student) studentRow {
	return studentRow{
		ID:          stu.ID,
		Name:        stu.Name,
		AdmissionNo: stu.AdmissionNo,
		Email:       stu.Email,
		Phone:       stu.Phone,
		CourseID:    stu.CourseID,
		IntakeID:    stu.IntakeID,
		IsActive:    stu.IsActive,
		CreatedAt:   stu.CreatedAt.UTC(),
		UpdatedAt:   stu.UpdatedAt.UTC(),
	}
}

// columns clients may order query results by
var studentOrderable = map[string]bool{
	"name":         true,
	"admission_no": true,
	"email":        true,
	"created_at":   true,
	"updated_at":   true,
}

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to student.ErrNotFound
func (repo studentRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return student.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo studentRepository) CheckStudentUniqueness(
	ctx context.Context, admissionNo, email string, excludedStudents []student.Student, exec ...core.DBExecutor,
) error {
	q := `SELECT admission_no, email FROM student WHERE (admission_no = ? OR (email <> '' AND email = ?))`
	args := []interface{}{admissionNo, email}

	if len(excludedStudents) > 0 {
		ids := make([]string, 0, len(excludedStudents))
		for _, stu := range excludedStudents {
			ids = append(ids, stu.ID)
		}
		q += ` AND id NOT IN (?)`
		args = append(args, ids)
	}
	q, args, err := sqlx.In(q, args...)
	if err != nil {
		return errors.Wrap(err, "checking student uniqueness")
	}

	exe := getExec(repo.db, exec)
	rows := []studentRow{}
	if err := sqlx.SelectContext(ctx, exe, &rows, exe.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "checking student uniqueness")
	}
	for _, row := range rows {
		if row.AdmissionNo == admissionNo {
			return student.ErrAdmissionNoExists
		}
	}
	if len(rows) > 0 {
		return student.ErrEmailExists
	}
	return nil
}

func (repo studentRepository) CreateStudent(ctx context.Context, stu student.Student, exec ...core.DBExecutor) (student.Student, error) {
	stu.ID = uuid.New().String()
	row := newStudentRow(stu)
	q := `INSERT INTO student (id, name, admission_no, email, phone, course_id, intake_id, is_active, created_at, updated_at)
		VALUES (:id, :name, :admission_no, :email, :phone, :course_id, :intake_id, :is_active, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, getExec(repo.db, exec), q, row); err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return row.student(), nil
}

func (repo studentRepository) GetStudentByID(ctx context.Context, id string, exec ...core.DBExecutor) (student.Student, error) {
	if _, err := uuid.Parse(id); err != nil {
		return student.Student{}, student.ErrNotFound
	}

	var row studentRow
	q := `SELECT * FROM student WHERE id = $1`
	if err := sqlx.GetContext(ctx, getExec(repo.db, exec), &row, q, id); err != nil {
		return student.Student{}, repo.trapNoRowsErr(err, "finding student by ID")
	}
	return row.student(), nil
}

func (repo studentRepository) GetStudentByAdmissionNo(ctx context.Context, admissionNo string, exec ...core.DBExecutor) (student.Student, error) {
	var row studentRow
	q := `SELECT * FROM student WHERE admission_no = $1`
	if err := sqlx.GetContext(ctx, getExec(repo.db, exec), &row, q, admissionNo); err != nil {
		return student.Student{}, repo.trapNoRowsErr(err, "finding student by admission number")
	}
	return row.student(), nil
}

func (repo studentRepository) QueryStudents(
	ctx context.Context, filter *student.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor,
) ([]student.Student, error) {
	q := `SELECT * FROM student`
	var clauses []string
	var args []interface{}

	if filter != nil {
		add := func(clause string, arg interface{}) {
			args = append(args, arg)
			clauses = append(clauses, fmt.Sprintf(clause, len(args)))
		}
		// students with Name, AdmissionNo or Email matching the search keyword
		if filter.Search != "" {
			val := "%" + filter.Search + "%"
			args = append(args, val)
			clauses = append(clauses, fmt.Sprintf(
				"(name ILIKE $%d OR admission_no ILIKE $%d OR email ILIKE $%d)",
				len(args), len(args), len(args)))
		}
		if filter.CourseID != "" {
			add("course_id = $%d", filter.CourseID)
		}
		if filter.IntakeID != "" {
			add("intake_id = $%d", filter.IntakeID)
		}
		if filter.IsActive != nil {
			add("is_active = $%d", *filter.IsActive)
		}
		if !filter.CreatedFrom.IsZero() {
			add("created_at >= $%d", filter.CreatedFrom.UTC())
		}
		if !filter.CreatedTo.IsZero() {
			add("created_at <= $%d", filter.CreatedTo.UTC())
		}
	}
	if len(clauses) > 0 {
		q += " WHERE " + strings.Join(clauses, " AND ")
	}
	q += orderClause(ordering, studentOrderable)

	var rows []studentRow
	if err := sqlx.SelectContext(ctx, getExec(repo.db, exec), &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}

	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.student())
	}
	return students, nil
}

func (repo studentRepository) UpdateStudent(ctx context.Context, stu student.Student, exec ...core.DBExecutor) (student.Student, error) {
	row := newStudentRow(stu)
	q := `UPDATE student
		SET name = :name, admission_no = :admission_no, email = :email, phone = :phone,
			course_id = :course_id, intake_id = :intake_id, is_active = :is_active, updated_at = :updated_at
		WHERE id = :id`
	if _, err := sqlx.NamedExecContext(ctx, getExec(repo.db, exec), q, row); err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	return row.student(), nil
}

func (repo studentRepository) DeleteStudentsByID(ctx context.Context, ids []string, exec ...core.DBExecutor) (int, error) {
	q, args, err := sqlx.In(`DELETE FROM student WHERE id IN (?)`, ids)
	if err != nil {
		return 0, errors.Wrap(err, "deleting students")
	}
	exe := getExec(repo.db, exec)
	res, err := exe.ExecContext(ctx, exe.Rebind(q), args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting students")
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "deleting students")
	}
	return int(cnt), nil
}
