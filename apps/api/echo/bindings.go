package echoapi

import (
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/the-user01/Study-Platform-Server/core"
)

var queryBinder = new(echo.DefaultBinder)

// pathID parses the named path parameter as a document ID.
func pathID(ctx echo.Context, name string) (primitive.ObjectID, error) {
	return core.ParseID(ctx.Param(name), name)
}

// pathEmail returns the named path parameter percent-decoded, e.g. "a%40x.com" as "a@x.com".
// echo leaves params as they appear in the raw path.
func pathEmail(ctx echo.Context, name string) (string, error) {
	email, err := url.PathUnescape(ctx.Param(name))
	if err != nil {
		return "", core.NewValidationError(err, core.FieldError{Field: name, Error: "invalid email"})
	}
	return email, nil
}

// bindQuery binds the query string only, whatever the request method.
func bindQuery(ctx echo.Context, dst interface{}) error {
	if err := queryBinder.BindQueryParams(ctx, dst); err != nil {
		return errors.Wrap(err, "binding query params")
	}
	return nil
}

// bindBody binds the JSON body only, so path parameters never leak into it.
func bindBody(ctx echo.Context, dst interface{}) error {
	if err := queryBinder.BindBody(ctx, dst); err != nil {
		return errors.Wrap(err, "binding request body")
	}
	return nil
}
