package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/the-user01/Study-Platform-Server/core/booking"
	"github.com/the-user01/Study-Platform-Server/core/user"
)

type bookingApi struct {
	svc      *booking.Service
	validate *validator.Validate
}

func registerBookingAPI(e *echo.Echo, guards authMiddlewares, svc *booking.Service, validate *validator.Validate) {
	api := bookingApi{svc: svc, validate: validate}

	bg := e.Group("/booked-session")
	bg.GET("", api.query, guards.role(user.RoleStudent)...)
	bg.POST("", api.create, guards.role(user.RoleStudent)...)
	bg.GET("/:id", api.retrieve, guards.role(user.RoleStudent)...)
}

func (api *bookingApi) create(ctx echo.Context) error {
	var data booking.NewBooking
	if err := bindBody(ctx, &data); err != nil {
		return err
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	b, err := api.svc.Create(ctx.Request().Context(), claims.Email, data)
	if err != nil {
		return errors.Wrap(err, "booking session")
	}
	return ctx.JSON(http.StatusCreated, inserted(b.ID))
}

func (api *bookingApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	bookings, err := api.svc.Query(ctx.Request().Context(), claims.Email)
	if err != nil {
		return errors.Wrap(err, "querying bookings")
	}
	return ctx.JSON(http.StatusOK, bookings)
}

// retrieve answers null for unknown bookings and for other students' bookings.
func (api *bookingApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	b, err := api.svc.Get(ctx.Request().Context(), claims.Email, id)
	if err != nil {
		if errors.Cause(err) == booking.ErrNotFound {
			return ctx.JSON(http.StatusOK, nil)
		}
		return errors.Wrap(err, "finding booking")
	}
	return ctx.JSON(http.StatusOK, b)
}
