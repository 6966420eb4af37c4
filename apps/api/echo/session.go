package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/the-user01/Study-Platform-Server/core/session"
	"github.com/the-user01/Study-Platform-Server/core/user"
	"github.com/the-user01/Study-Platform-Server/services/metrics"
)

type sessionApi struct {
	svc      session.Service
	validate *validator.Validate
	metrics  *metrics.Metrics
}

func registerSessionAPI(
	e *echo.Echo,
	guards authMiddlewares,
	svc session.Service,
	validate *validator.Validate,
	m *metrics.Metrics,
) {
	api := sessionApi{svc: svc, validate: validate, metrics: m}

	sg := e.Group("/create-session")

	// public endpoints
	sg.GET("/approved", api.queryByStatus(session.StatusApproved))

	// authed endpoints
	sg.GET("", api.queryByStatus(""), guards.token)
	sg.GET("/pending", api.queryByStatus(session.StatusPending), guards.token)
	sg.GET("/rejected", api.queryByStatus(session.StatusRejected), guards.token)
	sg.GET("/approved/:id", api.retrieveApproved, guards.token)

	// teacher endpoints
	sg.POST("", api.create, guards.role(user.RoleTeacher)...)
	sg.PATCH("/pending/:id", api.resubmit, guards.role(user.RoleTeacher)...)

	// admin endpoints
	sg.PATCH("/approve/:id", api.approve, guards.role(user.RoleAdmin)...)
	sg.PATCH("/reject/:id", api.reject, guards.role(user.RoleAdmin)...)
}

// Handlers

func (api *sessionApi) create(ctx echo.Context) error {
	var data session.NewSession
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

	s, err := api.svc.Create(ctx.Request().Context(), claims.Email, data)
	if err != nil {
		return errors.Wrap(err, "creating session")
	}
	return ctx.JSON(http.StatusCreated, inserted(s.ID))
}

func (api *sessionApi) queryByStatus(status session.Status) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		var filter session.QueryFilter
		if err := bindQuery(ctx, &filter); err != nil {
			return err
		}
		filter.Status = status

		sessions, err := api.svc.Query(ctx.Request().Context(), filter)
		if err != nil {
			return errors.Wrap(err, "querying sessions")
		}
		return ctx.JSON(http.StatusOK, sessions)
	}
}

// retrieveApproved answers null when the Session does not exist or is not approved.
func (api *sessionApi) retrieveApproved(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	s, err := api.svc.GetApproved(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == session.ErrNotFound {
			return ctx.JSON(http.StatusOK, nil)
		}
		return errors.Wrap(err, "finding approved session")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *sessionApi) resubmit(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	s, err := api.svc.Resubmit(ctx.Request().Context(), id, claims.Email)
	api.observe(session.StatusPending, err)
	if err != nil {
		return errors.Wrap(err, "resubmitting session")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *sessionApi) approve(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	var data session.ApproveSession
	if err := bindBody(ctx, &data); err != nil {
		return err
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	s, err := api.svc.Approve(ctx.Request().Context(), id, data)
	api.observe(session.StatusApproved, err)
	if err != nil {
		return errors.Wrap(err, "approving session")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *sessionApi) reject(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	var data session.RejectSession
	if err := bindBody(ctx, &data); err != nil {
		return err
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	s, err := api.svc.Reject(ctx.Request().Context(), id, data)
	api.observe(session.StatusRejected, err)
	if err != nil {
		return errors.Wrap(err, "rejecting session")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *sessionApi) observe(to session.Status, err error) {
	if api.metrics == nil {
		return
	}
	api.metrics.ObserveTransition(string(to), err)
	if err == nil && to != session.StatusPending {
		api.metrics.ObserveNotification()
	}
}
