package jwt_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/gohornet/verdict/pkg/jwt"
	"github.com/gohornet/verdict/pkg/model/address"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func testIdentity(t *testing.T) address.Address {
	identity, err := address.FromBytes([]byte("identity-key-of-the-test-caller!"))
	require.NoError(t, err)
	return identity
}

func TestNewAuth(t *testing.T) {
	_, err := jwt.NewAuth(time.Hour, []byte("short"))
	require.Error(t, err)

	_, err = jwt.NewAuth(time.Hour, testSecret)
	require.NoError(t, err)
}

func TestIssueAndVerify(t *testing.T) {
	auth, err := jwt.NewAuth(time.Hour, testSecret)
	require.NoError(t, err)

	identity := testIdentity(t)

	token, err := auth.IssueJWT(identity)
	require.NoError(t, err)

	verified, err := auth.VerifyJWT(token)
	require.NoError(t, err)
	require.Equal(t, identity, verified)

	// a token signed with another secret is rejected
	otherAuth, err := jwt.NewAuth(time.Hour, []byte("fedcba9876543210fedcba9876543210"))
	require.NoError(t, err)
	_, err = otherAuth.VerifyJWT(token)
	require.Error(t, err)

	_, err = auth.VerifyJWT("not-a-token")
	require.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	auth, err := jwt.NewAuth(0, testSecret)
	require.NoError(t, err)

	identity := testIdentity(t)
	token, err := auth.IssueJWT(identity)
	require.NoError(t, err)

	e := echo.New()
	e.Use(auth.Middleware(func(c echo.Context) bool {
		return c.Request().Method == http.MethodGet
	}))

	handler := func(c echo.Context) error {
		caller, ok := jwt.IdentityFromContext(c)
		if !ok {
			return c.String(http.StatusOK, "anonymous")
		}
		return c.String(http.StatusOK, caller.String())
	}
	e.GET("/", handler)
	e.POST("/", handler)

	tests := []struct {
		name       string
		method     string
		token      string
		wantStatus int
		wantBody   string
	}{
		{"skipped", http.MethodGet, "", http.StatusOK, "anonymous"},
		{"missing token", http.MethodPost, "", http.StatusBadRequest, ""},
		{"invalid token", http.MethodPost, "invalid", http.StatusUnauthorized, ""},
		{"valid token", http.MethodPost, token, http.StatusOK, identity.String()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", nil)
			if tt.token != "" {
				req.Header.Set(echo.HeaderAuthorization, "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				require.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}
