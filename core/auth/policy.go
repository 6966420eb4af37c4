package auth

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/the-user01/Study-Platform-Server/core"
	"github.com/the-user01/Study-Platform-Server/core/user"
)

// IdentityStore resolves a verified email to the stored User.
type IdentityStore interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

// TokenPolicy checks that a token was supplied and that it verifies.
type TokenPolicy struct {
	tokens *TokenService
}

func NewTokenPolicy(tokens *TokenService) TokenPolicy {
	return TokenPolicy{tokens: tokens}
}

func (p TokenPolicy) Authenticate(token string) (Claims, error) {
	if strings.TrimSpace(token) == "" {
		return Claims{}, ErrUnauthorized
	}
	return p.tokens.Verify(token)
}

// RolePolicy checks that the verified identity maps to a stored User holding the required role.
type RolePolicy struct {
	users IdentityStore
	role  user.Role
}

func NewRolePolicy(users IdentityStore, role user.Role) RolePolicy {
	return RolePolicy{users: users, role: role}
}

func (p RolePolicy) Role() user.Role { return p.role }

// Authorize returns the stored User when it holds the required role, ErrForbidden otherwise.
func (p RolePolicy) Authorize(ctx context.Context, claims Claims) (user.User, error) {
	usr, err := p.users.GetByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return user.User{}, ErrForbidden
		}
		return user.User{}, errors.Wrap(err, "finding user by email")
	}
	if usr.Role != p.role {
		return user.User{}, ErrForbidden
	}
	return usr, nil
}

// SelfPolicy checks that a client supplied email is the verified identity's own.
func SelfPolicy(claims Claims, email string) error {
	if claims.Email == "" || core.CleanString(email, true /* lower */) != core.CleanString(claims.Email, true) {
		return ErrForbidden
	}
	return nil
}
