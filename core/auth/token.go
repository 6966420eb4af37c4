package auth

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"github.com/the-user01/Study-Platform-Server/core"
)

var (
	// errors
	ErrUnauthorized = errors.New("missing or malformed jwt")
	ErrInvalidToken = errors.New("invalid or expired jwt")
	ErrForbidden    = errors.New("permission denied")

	errTokenSigningFailed = errors.New("failed to sign token")
)

// Identity is the claim a client exchanges for a token.
type Identity struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"`
}

func (id *Identity) Clean() {
	id.Email = core.CleanString(id.Email, true /* lower */)
	id.Name = core.CleanString(id.Name)
}

// Claims represents the identity transmitted via a JWT. It carries no authority: roles are always
// read from the store.
type Claims struct {
	jwt.StandardClaims
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// TokenService issues and verifies HS256 signed identity tokens.
type TokenService struct {
	issuer  string
	key     []byte
	ttl     time.Duration
	nowFunc func() time.Time // mockable
}

func NewTokenService(conf *core.Config) *TokenService {
	return NewTokenServiceWithKey(conf.AppName, []byte(conf.SecretKey), conf.JWTExpirationDelta)
}

func NewTokenServiceWithKey(issuer string, key []byte, ttl time.Duration) *TokenService {
	return &TokenService{
		issuer:  issuer,
		key:     key,
		ttl:     ttl,
		nowFunc: time.Now,
	}
}

// TTL is the lifetime of issued tokens.
func (ts *TokenService) TTL() time.Duration { return ts.ttl }

// Issue generates a signed token for id, valid for TTL.
func (ts *TokenService) Issue(id Identity) (string, error) {
	id.Clean()
	if id.Email == "" {
		return "", ErrUnauthorized
	}

	now := ts.nowFunc()
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    ts.issuer,
			Subject:   id.Email,
			ExpiresAt: now.Add(ts.ttl).Unix(),
			IssuedAt:  now.Unix(),
		},
		Email: id.Email,
		Name:  id.Name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(ts.key)
	if err != nil {
		return "", errors.Wrap(errTokenSigningFailed, err.Error())
	}
	return ss, nil
}

// Verify parses token and returns its Claims.
// Any bad signature, unexpected algorithm, malformed or expired token yields ErrInvalidToken.
func (ts *TokenService) Verify(token string) (Claims, error) {
	claims := new(Claims)
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return ts.key, nil
	})
	if err != nil || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}
	if claims.ExpiresAt == 0 || claims.Email == "" {
		return Claims{}, ErrInvalidToken
	}
	return *claims, nil
}
