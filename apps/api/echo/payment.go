package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/codebluemti/tiba/core/payment"
)

type paymentApi struct {
	svc      *payment.Service
	validate *validator.Validate
}

func registerPaymentAPI(g *echo.Group, svc *payment.Service, validate *validator.Validate) {
	api := paymentApi{svc: svc, validate: validate}

	pg := g.Group("/payments")
	pg.POST("", api.submit, studentMiddleware())
	pg.GET("", api.query, adminMiddleware())

	dg := pg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("/review", api.review, adminMiddleware())
}

// submit records a fee payment from a provider SMS. Students may only submit
// for themselves; admin may record on a student's behalf.
func (api *paymentApi) submit(ctx echo.Context) error {
	var data payment.SubmitPayment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubmitPayment")
	}

	id, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}
	if !id.IsAdmin() {
		data.StudentID = id.ID
	}

	if err := data.Validate(api.validate); err != nil {
		return err
	}

	pmt, err := api.svc.Submit(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "submitting payment")
	}
	return ctx.JSON(http.StatusCreated, pmt)
}

func (api *paymentApi) query(ctx echo.Context) error {
	filter := new(payment.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []payment.FeePayment{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	pmts, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying payments")
	}
	if pmts == nil {
		pmts = []payment.FeePayment{}
	}
	return ctx.JSON(http.StatusOK, pmts)
}

func (api *paymentApi) retrieve(ctx echo.Context) error {
	pmt, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == payment.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding payment")
	}

	id, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}
	// owners see their own payments; everything else is admin-only
	if !id.IsAdmin() && pmt.StudentID != id.ID {
		return errHttpForbidden
	}
	return ctx.JSON(http.StatusOK, pmt)
}

func (api *paymentApi) review(ctx echo.Context) error {
	var data payment.ReviewPayment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReviewPayment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	id, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	pmt, err := api.svc.Review(ctx.Request().Context(), ctx.Param("id"), data, id.ID)
	if err != nil {
		if errors.Cause(err) == payment.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "reviewing payment")
	}
	return ctx.JSON(http.StatusOK, pmt)
}
