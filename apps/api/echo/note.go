package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/the-user01/Study-Platform-Server/core/note"
	"github.com/the-user01/Study-Platform-Server/core/user"
)

type noteApi struct {
	svc      *note.Service
	validate *validator.Validate
}

func registerNoteAPI(e *echo.Echo, guards authMiddlewares, svc *note.Service, validate *validator.Validate) {
	api := noteApi{svc: svc, validate: validate}

	e.GET("/notes", api.query, guards.role(user.RoleStudent)...)
	e.POST("/notes", api.create, guards.role(user.RoleStudent)...)
}

func (api *noteApi) create(ctx echo.Context) error {
	var data note.NewNote
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

	n, err := api.svc.Create(ctx.Request().Context(), claims.Email, data)
	if err != nil {
		return errors.Wrap(err, "creating note")
	}
	return ctx.JSON(http.StatusCreated, inserted(n.ID))
}

// query lists the caller's own notes.
func (api *noteApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	notes, err := api.svc.Query(ctx.Request().Context(), claims.Email)
	if err != nil {
		return errors.Wrap(err, "querying notes")
	}
	return ctx.JSON(http.StatusOK, notes)
}
