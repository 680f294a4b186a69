package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/codebluemti/tiba/core/visitor"
)

type visitorApi struct {
	svc      *visitor.Service
	validate *validator.Validate
}

func registerVisitorAPI(g *echo.Group, svc *visitor.Service, validate *validator.Validate) {
	api := visitorApi{svc: svc, validate: validate}

	vg := g.Group("/visits", adminMiddleware())
	vg.POST("", api.checkIn)
	vg.GET("", api.query)

	dg := vg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("/checkout", api.checkOut)
}

func (api *visitorApi) checkIn(ctx echo.Context) error {
	var data visitor.NewVisit
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewVisit")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	v, err := api.svc.CheckIn(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "checking in visitor")
	}
	return ctx.JSON(http.StatusCreated, v)
}

func (api *visitorApi) query(ctx echo.Context) error {
	openOnly := ctx.QueryParam("open") == "true"

	visits, err := api.svc.Query(ctx.Request().Context(), openOnly)
	if err != nil {
		return errors.Wrap(err, "querying visits")
	}
	if visits == nil {
		visits = []visitor.Visit{}
	}
	return ctx.JSON(http.StatusOK, visits)
}

func (api *visitorApi) retrieve(ctx echo.Context) error {
	v, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == visitor.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding visit")
	}
	return ctx.JSON(http.StatusOK, v)
}

func (api *visitorApi) checkOut(ctx echo.Context) error {
	v, err := api.svc.CheckOut(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		switch errors.Cause(err) {
		case visitor.ErrNotFound:
			return errHttpNotFound
		case visitor.ErrAlreadyCheckedOut:
			return echo.NewHTTPError(http.StatusConflict, visitor.ErrAlreadyCheckedOut.Error())
		}
		return errors.Wrap(err, "checking out visitor")
	}
	return ctx.JSON(http.StatusOK, v)
}
