package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/the-user01/Study-Platform-Server/core"
	"github.com/the-user01/Study-Platform-Server/core/auth"
	"github.com/the-user01/Study-Platform-Server/core/booking"
	"github.com/the-user01/Study-Platform-Server/core/payment"
	"github.com/the-user01/Study-Platform-Server/core/session"
	"github.com/the-user01/Study-Platform-Server/core/user"
)

const errPaymentUnavailable = "payment provider unavailable"

// sentinelStatus maps domain sentinel errors to HTTP statuses. Their messages are safe to return.
func sentinelStatus(err error) (int, bool) {
	switch err {
	case auth.ErrUnauthorized, auth.ErrInvalidToken:
		return http.StatusUnauthorized, true
	case auth.ErrForbidden, session.ErrNotOwner:
		return http.StatusForbidden, true
	case user.ErrNotFound, session.ErrNotFound, booking.ErrNotFound:
		return http.StatusNotFound, true
	case session.ErrInvalidTransition, booking.ErrAlreadyBooked:
		return http.StatusConflict, true
	}
	return 0, false
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		cause := errors.Cause(err)
		if c, ok := sentinelStatus(cause); ok {
			code = c
			message = cause.Error()
		} else {
			switch origErr := cause.(type) {
			case *echo.HTTPError:
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
				code = origErr.Code
				message = origErr.Message
			case validator.ValidationErrors:
				fldErrs := make(map[string]string, len(origErr))
				for _, vErr := range origErr {
					fldErrs[vErr.Field()] = vErr.Translate(translator)
				}
				code = http.StatusBadRequest
				message = fldErrs
			case *core.ValidationError:
				if origErr.Fields != nil {
					fldErrs := make(map[string]string, len(origErr.Fields))
					for _, fErr := range origErr.Fields {
						fldErrs[fErr.Field] = fErr.Error
					}
					message = fldErrs
				} else {
					message = origErr.Error()
				}
				code = http.StatusBadRequest
			case *payment.UpstreamError:
				code = http.StatusBadGateway
				message = errPaymentUnavailable
				logger.Error(errPaymentUnavailable, err, requestUser(ctx))
			default: // any other error is a server error
				code = http.StatusInternalServerError
				msg := http.StatusText(http.StatusInternalServerError)
				message = msg
				logger.Error(msg, errors.Wrap(err, msg), requestUser(ctx))

				if ctx.Echo().Debug {
					message = err.Error()
				}

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

// requestUser is the best known identity of the request, for error reports.
func requestUser(ctx echo.Context) user.User {
	if usr, ok := getContextUser(ctx); ok {
		return usr
	}
	var usr user.User
	if claims, err := getContextClaims(ctx); err == nil {
		usr.Email = claims.Email
		usr.Name = claims.Name
	}
	return usr
}
