package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/the-user01/Study-Platform-Server/core/payment"
	"github.com/the-user01/Study-Platform-Server/services/metrics"
)

type paymentApi struct {
	svc      *payment.Service
	validate *validator.Validate
	metrics  *metrics.Metrics
}

func registerPaymentAPI(
	e *echo.Echo,
	guards authMiddlewares,
	svc *payment.Service,
	validate *validator.Validate,
	m *metrics.Metrics,
) {
	api := paymentApi{svc: svc, validate: validate, metrics: m}
	e.POST("/create-payment-intent", api.createIntent, guards.token)
}

func (api *paymentApi) createIntent(ctx echo.Context) error {
	var data payment.IntentRequest
	if err := bindBody(ctx, &data); err != nil {
		return err
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	intent, err := api.svc.CreateIntent(ctx.Request().Context(), data.Price)
	if api.metrics != nil {
		api.metrics.ObservePaymentIntent(err)
	}
	if err != nil {
		return errors.Wrap(err, "creating payment intent")
	}
	return ctx.JSON(http.StatusOK, intent)
}
