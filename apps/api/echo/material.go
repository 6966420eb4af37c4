package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/the-user01/Study-Platform-Server/core/material"
	"github.com/the-user01/Study-Platform-Server/core/user"
)

type materialApi struct {
	svc      *material.Service
	validate *validator.Validate
}

func registerMaterialAPI(e *echo.Echo, guards authMiddlewares, svc *material.Service, validate *validator.Validate) {
	api := materialApi{svc: svc, validate: validate}

	e.GET("/study-material", api.query, guards.token)
	e.POST("/study-material", api.create, guards.role(user.RoleTeacher)...)
}

func (api *materialApi) create(ctx echo.Context) error {
	var data material.NewMaterial
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

	m, err := api.svc.Create(ctx.Request().Context(), claims.Email, data)
	if err != nil {
		return errors.Wrap(err, "creating material")
	}
	return ctx.JSON(http.StatusCreated, inserted(m.ID))
}

func (api *materialApi) query(ctx echo.Context) error {
	var filter material.QueryFilter
	if err := bindQuery(ctx, &filter); err != nil {
		return err
	}

	materials, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying materials")
	}
	return ctx.JSON(http.StatusOK, materials)
}
