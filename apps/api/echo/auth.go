package echoapi

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/the-user01/Study-Platform-Server/core/auth"
	"github.com/the-user01/Study-Platform-Server/core/user"
)

const (
	contextClaimsKey = "claims"
	contextUserKey   = "user"
	bearerScheme     = "Bearer "
)

type TokenResponse struct {
	Token string `json:"token"`
}

// authMiddlewares adapts the auth policies to echo middleware.
type authMiddlewares struct {
	token   echo.MiddlewareFunc
	admin   echo.MiddlewareFunc
	teacher echo.MiddlewareFunc
	student echo.MiddlewareFunc
}

func newAuthMiddlewares(tokens *auth.TokenService, users auth.IdentityStore) authMiddlewares {
	return authMiddlewares{
		token:   tokenMiddleware(auth.NewTokenPolicy(tokens)),
		admin:   roleMiddleware(auth.NewRolePolicy(users, user.RoleAdmin)),
		teacher: roleMiddleware(auth.NewRolePolicy(users, user.RoleTeacher)),
		student: roleMiddleware(auth.NewRolePolicy(users, user.RoleStudent)),
	}
}

// role returns the token check followed by the role check for r.
func (m authMiddlewares) role(r user.Role) []echo.MiddlewareFunc {
	switch r {
	case user.RoleAdmin:
		return []echo.MiddlewareFunc{m.token, m.admin}
	case user.RoleTeacher:
		return []echo.MiddlewareFunc{m.token, m.teacher}
	default:
		return []echo.MiddlewareFunc{m.token, m.student}
	}
}

func bearerToken(ctx echo.Context) string {
	header := ctx.Request().Header.Get(echo.HeaderAuthorization)
	if len(header) <= len(bearerScheme) || !strings.EqualFold(header[:len(bearerScheme)], bearerScheme) {
		return ""
	}
	return strings.TrimSpace(header[len(bearerScheme):])
}

func tokenMiddleware(policy auth.TokenPolicy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := policy.Authenticate(bearerToken(ctx))
			if err != nil {
				return err
			}
			ctx.Set(contextClaimsKey, claims)
			return next(ctx)
		}
	}
}

func roleMiddleware(policy auth.RolePolicy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			usr, err := policy.Authorize(ctx.Request().Context(), claims)
			if err != nil {
				return errors.Wrapf(err, "authorizing %s", policy.Role())
			}
			ctx.Set(contextUserKey, usr)
			return next(ctx)
		}
	}
}

// selfMiddleware rejects requests whose `param` path email is not the token's email.
func selfMiddleware(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			email, err := pathEmail(ctx, param)
			if err != nil {
				return err
			}
			if err := auth.SelfPolicy(claims, email); err != nil {
				return err
			}
			return next(ctx)
		}
	}
}

func getContextClaims(ctx echo.Context) (auth.Claims, error) {
	if claims, ok := ctx.Get(contextClaimsKey).(auth.Claims); ok {
		return claims, nil
	}
	return auth.Claims{}, auth.ErrUnauthorized
}

// getContextUser returns the User loaded by a role check, if any ran.
func getContextUser(ctx echo.Context) (user.User, bool) {
	usr, ok := ctx.Get(contextUserKey).(user.User)
	return usr, ok
}

type authApi struct {
	tokens   *auth.TokenService
	validate *validator.Validate
}

func registerAuthAPI(e *echo.Echo, tokens *auth.TokenService, validate *validator.Validate) {
	api := authApi{tokens: tokens, validate: validate}
	e.POST("/jwt", api.issueToken)
}

func (api *authApi) issueToken(ctx echo.Context) error {
	var data auth.Identity
	if err := bindBody(ctx, &data); err != nil {
		return err
	}
	data.Clean()
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	token, err := api.tokens.Issue(data)
	if err != nil {
		return errors.Wrap(err, "issuing token")
	}
	return ctx.JSON(http.StatusOK, TokenResponse{Token: token})
}
