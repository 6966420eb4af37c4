package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/the-user01/Study-Platform-Server/core/user"
)

const msgUserAlreadyExists = "user already exists"

type (
	InsertResponse struct {
		InsertedID *primitive.ObjectID `json:"insertedId"`
		Message    string              `json:"message,omitempty"`
	}

	DeleteResponse struct {
		DeletedCount int64 `json:"deletedCount"`
	}
)

func inserted(id primitive.ObjectID) InsertResponse {
	return InsertResponse{InsertedID: &id}
}

type userApi struct {
	svc      user.Service
	validate *validator.Validate
}

func registerUserAPI(e *echo.Echo, guards authMiddlewares, svc user.Service, validate *validator.Validate) {
	api := userApi{svc: svc, validate: validate}

	ug := e.Group("/users")

	// public endpoints
	ug.GET("/tutor", api.queryTutors)
	ug.POST("", api.create)

	// role lookups, for the caller's own email only
	ug.GET("/admin/:email", api.hasRole(user.RoleAdmin, "admin"), guards.token, selfMiddleware("email"))
	ug.GET("/tutor/:email", api.hasRole(user.RoleTeacher, "tutor"), guards.token, selfMiddleware("email"))
	ug.GET("/student/:email", api.hasRole(user.RoleStudent, "student"), guards.token, selfMiddleware("email"))

	// admin endpoints
	ug.GET("", api.query, guards.role(user.RoleAdmin)...)
	ug.DELETE("/:id", api.destroy, guards.role(user.RoleAdmin)...)
}

// Handlers

func (api *userApi) create(ctx echo.Context) error {
	var data user.NewUser
	if err := bindBody(ctx, &data); err != nil {
		return err
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == user.ErrAlreadyExists {
			return ctx.JSON(http.StatusOK, InsertResponse{Message: msgUserAlreadyExists})
		}
		return errors.Wrap(err, "creating user")
	}
	return ctx.JSON(http.StatusOK, inserted(usr.ID))
}

func (api *userApi) query(ctx echo.Context) error {
	var filter user.QueryFilter
	if err := bindQuery(ctx, &filter); err != nil {
		return ctx.JSON(http.StatusOK, []user.User{})
	}
	filter.Clean()
	if filter.Role != "" && !filter.Role.IsValid() {
		return ctx.JSON(http.StatusOK, []user.User{})
	}

	users, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *userApi) queryTutors(ctx echo.Context) error {
	users, err := api.svc.QueryTutors(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying tutors")
	}
	return ctx.JSON(http.StatusOK, users)
}

// hasRole answers {<key>: bool} for the email in the path.
func (api *userApi) hasRole(role user.Role, key string) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		email, err := pathEmail(ctx, "email")
		if err != nil {
			return err
		}
		ok, err := api.svc.HasRole(ctx.Request().Context(), email, role)
		if err != nil {
			return errors.Wrapf(err, "checking %s role", role)
		}
		return ctx.JSON(http.StatusOK, echo.Map{key: ok})
	}
}

func (api *userApi) destroy(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	n, err := api.svc.Delete(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "deleting user")
	}
	return ctx.JSON(http.StatusOK, DeleteResponse{DeletedCount: n})
}
