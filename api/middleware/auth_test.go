package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgAuth "github.com/angelmondragon/rateboard-backend/pkg/auth"
	"github.com/angelmondragon/rateboard-backend/pkg/config"
	"github.com/angelmondragon/rateboard-backend/pkg/db/models"
	"github.com/angelmondragon/rateboard-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/rateboard-backend/pkg/errors"
	"github.com/angelmondragon/rateboard-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var jwtCfg = config.JWTConfig{Secret: "middleware-secret", Issuer: "rateboard", Expiration: time.Hour}

type stubLookup struct {
	users map[uuid.UUID]*models.User
	err   error
}

func (s stubLookup) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func seededLookup(role enums.Role) (stubLookup, *models.User) {
	user := &models.User{ID: uuid.New(), Name: "Caller", Email: "caller@example.com", Role: role}
	return stubLookup{users: map[uuid.UUID]*models.User{user.ID: user}}, user
}

func bearer(t *testing.T, userID uuid.UUID, role enums.Role, now time.Time) string {
	t.Helper()
	token, err := pkgAuth.IssueToken(jwtCfg, now, userID, role)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAuthenticate(t *testing.T) {
	lookup, user := seededLookup(enums.RoleOwner)
	a, err := NewAuthenticator(jwtCfg, lookup)
	require.NoError(t, err)

	identity, err := a.Authenticate(context.Background(), bearer(t, user.ID, enums.RoleOwner, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: user.ID, Role: enums.RoleOwner, Name: "Caller", Email: "caller@example.com"}, identity)

	cases := map[string]string{
		"missing":      "",
		"no scheme":    "abc",
		"garbage":      "Bearer not-a-jwt",
		"expired":      bearer(t, user.ID, enums.RoleOwner, time.Now().Add(-2*time.Hour)),
		"unknown user": bearer(t, uuid.New(), enums.RoleUser, time.Now()),
	}
	for name, header := range cases {
		_, err := a.Authenticate(context.Background(), header)
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized), name)
	}

	_, errExpired := a.Authenticate(context.Background(), cases["expired"])
	_, errGarbage := a.Authenticate(context.Background(), cases["garbage"])
	assert.Equal(t, pkgerrors.As(errExpired).Message(), pkgerrors.As(errGarbage).Message())
}

func TestAuthenticateUsesStoredRole(t *testing.T) {
	lookup, user := seededLookup(enums.RoleUser)
	a, err := NewAuthenticator(jwtCfg, lookup)
	require.NoError(t, err)

	identity, err := a.Authenticate(context.Background(), bearer(t, user.ID, enums.RoleAdmin, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, enums.RoleUser, identity.Role)
}

func TestAuthenticateLookupFailure(t *testing.T) {
	a, err := NewAuthenticator(jwtCfg, stubLookup{err: errors.New("db down")})
	require.NoError(t, err)
	_, err = a.Authenticate(context.Background(), bearer(t, uuid.New(), enums.RoleUser, time.Now()))
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInternal))
}

func TestNewAuthenticatorRequiresLookup(t *testing.T) {
	_, err := NewAuthenticator(jwtCfg, nil)
	require.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	lookup, user := seededLookup(enums.RoleUser)
	a, err := NewAuthenticator(jwtCfg, lookup)
	require.NoError(t, err)

	var seen Identity
	handler := Auth(a, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", bearer(t, user.ID, enums.RoleUser, time.Now()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, user.ID, seen.UserID)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, string(pkgerrors.CodeUnauthorized), body.Code)
}

func TestAuthorizeRoles(t *testing.T) {
	assert.True(t, pkgerrors.HasCode(AuthorizeRoles(context.Background(), enums.RoleAdmin), pkgerrors.CodeForbidden))

	ctx := WithIdentity(context.Background(), Identity{UserID: uuid.New(), Role: enums.RoleOwner})
	assert.NoError(t, AuthorizeRoles(ctx, enums.RoleAdmin, enums.RoleOwner))
	assert.True(t, pkgerrors.HasCode(AuthorizeRoles(ctx, enums.RoleAdmin), pkgerrors.CodeForbidden))
}

func TestAuthorizeMiddleware(t *testing.T) {
	handler := Authorize(nil, enums.RoleAdmin)(okHandler())

	cases := []struct {
		name   string
		ctx    context.Context
		status int
	}{
		{"no identity", context.Background(), http.StatusForbidden},
		{"wrong role", WithIdentity(context.Background(), Identity{Role: enums.RoleUser}), http.StatusForbidden},
		{"admin", WithIdentity(context.Background(), Identity{Role: enums.RoleAdmin}), http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil).WithContext(tc.ctx)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, tc.status, rec.Code, tc.name)
	}
}
