package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/codebluemti/tiba/core"
	"github.com/codebluemti/tiba/core/attendance"
)

type attendanceApi struct {
	svc      *attendance.Service
	validate *validator.Validate
}

func registerAttendanceAPI(g *echo.Group, svc *attendance.Service, validate *validator.Validate) {
	api := attendanceApi{svc: svc, validate: validate}

	sg := g.Group("/attendance/sessions")
	sg.POST("", api.start, lecturerMiddleware())
	sg.GET("", api.queryMine, lecturerMiddleware())

	dg := sg.Group("/:id")
	dg.GET("", api.retrieve, lecturerMiddleware())
	dg.GET("/code", api.currentCode, lecturerMiddleware())
	dg.PUT("/end", api.end, lecturerMiddleware())
	dg.POST("/scan", api.scan, studentMiddleware())
	dg.GET("/records", api.records, lecturerMiddleware())
}

func (api *attendanceApi) start(ctx echo.Context) error {
	var data attendance.NewClassSession
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClassSession")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	id, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	ses, err := api.svc.Start(ctx.Request().Context(), id.ID, data)
	if err != nil {
		return errors.Wrap(err, "starting class session")
	}
	return ctx.JSON(http.StatusCreated, ses)
}

func (api *attendanceApi) queryMine(ctx echo.Context) error {
	id, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	sessions, err := api.svc.QueryByLecturer(ctx.Request().Context(), id.ID)
	if err != nil {
		return errors.Wrap(err, "querying class sessions")
	}
	if sessions == nil {
		sessions = []attendance.ClassSession{}
	}
	return ctx.JSON(http.StatusOK, sessions)
}

func (api *attendanceApi) retrieve(ctx echo.Context) error {
	ses, err := api.getOwnedSession(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ses)
}

func (api *attendanceApi) currentCode(ctx echo.Context) error {
	if _, err := api.getOwnedSession(ctx); err != nil {
		return err
	}

	payload, err := api.svc.CurrentCode(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == attendance.ErrSessionClosed {
			return echo.NewHTTPError(http.StatusConflict, attendance.ErrSessionClosed.Error())
		}
		return errors.Wrap(err, "getting session code")
	}
	return ctx.JSON(http.StatusOK, payload)
}

func (api *attendanceApi) end(ctx echo.Context) error {
	if _, err := api.getOwnedSession(ctx); err != nil {
		return err
	}

	ses, err := api.svc.End(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == attendance.ErrSessionClosed {
			return echo.NewHTTPError(http.StatusConflict, attendance.ErrSessionClosed.Error())
		}
		return errors.Wrap(err, "ending class session")
	}
	return ctx.JSON(http.StatusOK, ses)
}

func (api *attendanceApi) scan(ctx echo.Context) error {
	var data attendance.ScanRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ScanRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	id, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	rec, err := api.svc.Scan(ctx.Request().Context(), ctx.Param("id"), id.ID, data.Code)
	if err != nil {
		switch errors.Cause(err) {
		case attendance.ErrNotFound:
			return errHttpNotFound
		case attendance.ErrSessionClosed, attendance.ErrAlreadyMarked:
			return echo.NewHTTPError(http.StatusConflict, errors.Cause(err).Error())
		case attendance.ErrInvalidCode:
			return core.NewValidationError(nil, core.FieldError{Field: "code", Error: attendance.ErrInvalidCode.Error()})
		case attendance.ErrNotEnrolled:
			return errHttpForbidden
		}
		return errors.Wrap(err, "scanning session code")
	}
	return ctx.JSON(http.StatusCreated, rec)
}

func (api *attendanceApi) records(ctx echo.Context) error {
	if _, err := api.getOwnedSession(ctx); err != nil {
		return err
	}

	recs, err := api.svc.SessionAttendance(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying session attendance")
	}
	if recs == nil {
		recs = []attendance.AttendanceRecord{}
	}
	return ctx.JSON(http.StatusOK, recs)
}

// getOwnedSession loads the session and checks the caller runs it (or is admin).
func (api *attendanceApi) getOwnedSession(ctx echo.Context) (attendance.ClassSession, error) {
	ses, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == attendance.ErrNotFound {
			return attendance.ClassSession{}, errHttpNotFound
		}
		return attendance.ClassSession{}, errors.Wrap(err, "finding class session")
	}

	id, err := getContextIdentity(ctx)
	if err != nil {
		return attendance.ClassSession{}, err
	}
	if !id.IsAdmin() && ses.LecturerID != id.ID {
		return attendance.ClassSession{}, errHttpForbidden
	}
	return ses, nil
}
