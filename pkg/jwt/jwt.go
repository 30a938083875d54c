package jwt

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/gohornet/verdict/pkg/model/address"
)

const (
	// Issuer is the issuer and audience of all tokens.
	Issuer = "verdict"

	contextKeyJWT      = "jwt"
	contextKeyIdentity = "identity"

	// MinSecretLength is the minimum length of the HMAC secret.
	MinSecretLength = 32
)

var (
	ErrJWTInvalidClaims = echo.NewHTTPError(http.StatusUnauthorized, "invalid jwt claims")
)

// Auth issues and verifies tokens whose subject is the identity key of the caller.
type Auth struct {
	sessionTimeout time.Duration
	secret         []byte
}

func NewAuth(sessionTimeout time.Duration, secret []byte) (*Auth, error) {

	if len(secret) < MinSecretLength {
		return nil, errors.Errorf("jwt secret must have at least %d bytes", MinSecretLength)
	}

	return &Auth{
		sessionTimeout: sessionTimeout,
		secret:         secret,
	}, nil
}

type AuthClaims struct {
	jwt.StandardClaims
}

func (c *AuthClaims) compare(field string, expected string) bool {
	if field == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(field), []byte(expected)) != 0
}

// VerifySubject checks the subject in constant time.
func (c *AuthClaims) VerifySubject(expected string) bool {
	return c.compare(c.Subject, expected)
}

// Identity returns the identity key in the subject.
func (c *AuthClaims) Identity() (address.Address, error) {
	return address.Parse(c.Subject)
}

// Middleware verifies the bearer token and stores the caller identity in the context.
// Requests for which skipper returns true pass without a token.
func (j *Auth) Middleware(skipper middleware.Skipper) echo.MiddlewareFunc {

	config := middleware.JWTConfig{
		ContextKey: contextKeyJWT,
		Claims:     &AuthClaims{},
		SigningKey: j.secret,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {

		return func(c echo.Context) error {

			// skip unprotected endpoints
			if skipper(c) {
				return next(c)
			}

			// use the default JWT middleware to verify and extract the JWT
			handler := middleware.JWTWithConfig(config)(func(c echo.Context) error {
				return nil
			})

			if err := handler(c); err != nil {
				return err
			}

			token, ok := c.Get(contextKeyJWT).(*jwt.Token)
			if !ok {
				return fmt.Errorf("expected *jwt.Token, got %T", c.Get(contextKeyJWT))
			}

			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}

			claims, ok := token.Claims.(*AuthClaims)
			if !ok || !claims.VerifyAudience(Issuer, true) {
				return ErrJWTInvalidClaims
			}

			identity, err := claims.Identity()
			if err != nil {
				return errors.WithMessagef(ErrJWTInvalidClaims, "invalid subject: %s", err)
			}

			c.Set(contextKeyIdentity, identity)

			return next(c)
		}
	}
}

// IdentityFromContext returns the identity stored by the middleware.
func IdentityFromContext(c echo.Context) (address.Address, bool) {
	identity, ok := c.Get(contextKeyIdentity).(address.Address)
	return identity, ok
}

// IssueJWT issues a token for the given identity key.
func (j *Auth) IssueJWT(identity address.Address) (string, error) {

	now := time.Now()

	stdClaims := jwt.StandardClaims{
		Subject:   identity.String(),
		Issuer:    Issuer,
		Audience:  Issuer,
		Id:        uuid.NewString(),
		IssuedAt:  now.Unix(),
		NotBefore: now.Unix(),
	}

	if j.sessionTimeout > 0 {
		stdClaims.ExpiresAt = now.Add(j.sessionTimeout).Unix()
	}

	claims := &AuthClaims{
		StandardClaims: stdClaims,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(j.secret)
}

// VerifyJWT verifies a token and returns the identity key in its subject.
func (j *Auth) VerifyJWT(token string) (address.Address, error) {

	t, err := jwt.ParseWithClaims(token, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return j.secret, nil
	})
	if err != nil {
		return address.NullAddress, errors.WithMessage(ErrJWTInvalidClaims, err.Error())
	}
	if !t.Valid {
		return address.NullAddress, ErrJWTInvalidClaims
	}

	claims, ok := t.Claims.(*AuthClaims)
	if !ok || !claims.VerifyAudience(Issuer, true) {
		return address.NullAddress, ErrJWTInvalidClaims
	}

	return claims.Identity()
}
