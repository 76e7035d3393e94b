package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/rateboard-backend/api/middleware"
	"github.com/angelmondragon/rateboard-backend/internal/auth"
	"github.com/angelmondragon/rateboard-backend/internal/blogs"
	"github.com/angelmondragon/rateboard-backend/internal/ratings"
	"github.com/angelmondragon/rateboard-backend/internal/stores"
	"github.com/angelmondragon/rateboard-backend/internal/users"
	"github.com/angelmondragon/rateboard-backend/pkg/config"
	"github.com/angelmondragon/rateboard-backend/pkg/db/dbtest"
	"github.com/angelmondragon/rateboard-backend/pkg/logger"
	"github.com/angelmondragon/rateboard-backend/pkg/metrics"
	"github.com/angelmondragon/rateboard-backend/pkg/security"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminEmail    = "admin@rateboard.test"
	adminPassword = "Admin@1234"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	ctx := context.Background()

	cfg := &config.Config{
		App:  config.AppConfig{Env: "test"},
		JWT:  config.JWTConfig{Secret: "router-secret", Issuer: "rateboard", Expiration: time.Hour},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
	}
	client := dbtest.Open(t)
	hasher := security.NewHasher(config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	userRepo := users.NewRepository(client.DB())

	userSvc, err := users.NewService(users.ServiceParams{DB: client, Hasher: hasher, ProvisionOwner: stores.ProvisionOwnerStore})
	require.NoError(t, err)
	storeSvc, err := stores.NewService(stores.ServiceParams{DB: client, Users: userSvc})
	require.NoError(t, err)
	reg := prometheus.NewRegistry()
	ratingSvc, err := ratings.NewService(ratings.ServiceParams{DB: client, Metrics: metrics.NewRatingMetrics(reg)})
	require.NoError(t, err)
	authSvc, err := auth.NewService(auth.ServiceParams{Users: userSvc, UserRepo: userRepo, JWTConfig: cfg.JWT})
	require.NoError(t, err)
	blogSvc, err := blogs.NewService(client)
	require.NoError(t, err)
	authenticator, err := middleware.NewAuthenticator(cfg.JWT, userRepo)
	require.NoError(t, err)

	created, err := auth.BootstrapAdmin(ctx, userSvc, userRepo, config.AdminConfig{
		Email:    adminEmail,
		Password: adminPassword,
		Name:     "Site Admin",
		Address:  "HQ",
	})
	require.NoError(t, err)
	require.True(t, created)

	return NewRouter(cfg, logger.Nop(), Deps{
		DB:            client,
		Gatherer:      reg,
		HTTPMetrics:   metrics.NewHTTPMetrics(reg),
		Authenticator: authenticator,
		AuthService:   authSvc,
		UserService:   userSvc,
		StoreService:  storeSvc,
		RatingService: ratingSvc,
		BlogService:   blogSvc,
	})
}

func call(t *testing.T, h http.Handler, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

func decode(t *testing.T, raw json.RawMessage, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, dest), string(raw))
}

func login(t *testing.T, h http.Handler, email, password, role string) string {
	t.Helper()
	status, env := call(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": email, "password": password, "role": role,
	})
	require.Equal(t, http.StatusOK, status, env.Message)
	var out auth.AuthResponse
	decode(t, env.Data, &out)
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestHealthEndpoints(t *testing.T) {
	h := newTestRouter(t)

	status, env := call(t, h, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)

	status, env = call(t, h, http.MethodGet, "/health/ready", "", nil)
	require.Equal(t, http.StatusOK, status)
	var ready struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	decode(t, env.Data, &ready)
	assert.Equal(t, "ready", ready.Status)
	assert.Equal(t, map[string]string{"database": "ok", "redis": "skipped"}, ready.Checks)
}

func TestRegisterRequiresAddress(t *testing.T) {
	h := newTestRouter(t)

	for name, address := range map[string]string{"absent": "", "too long": strings.Repeat("a", 401)} {
		t.Run(name, func(t *testing.T) {
			body := map[string]string{"name": "Nora Nowhere", "email": "nora@example.com", "password": "Rater@123"}
			if address != "" {
				body["address"] = address
			}
			status, env := call(t, h, http.MethodPost, "/api/auth/register", "", body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.False(t, env.Success)
		})
	}
}

func TestRatingFlowEndToEnd(t *testing.T) {
	h := newTestRouter(t)

	status, env := call(t, h, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Rita Rater", "email": "rita@example.com", "password": "Rater@123", "address": "5 Elm Road",
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var registered auth.AuthResponse
	decode(t, env.Data, &registered)
	userToken := registered.Token
	assert.Equal(t, "user", string(registered.User.Role))

	adminToken := login(t, h, adminEmail, adminPassword, "admin")

	status, _ = call(t, h, http.MethodGet, "/api/stores", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	storeBody := map[string]string{
		"name": "Corner Deli", "email": "deli@example.com", "address": "9 Market Lane", "password": "Owner@123",
	}
	status, _ = call(t, h, http.MethodPost, "/api/stores", userToken, storeBody)
	assert.Equal(t, http.StatusForbidden, status)

	status, env = call(t, h, http.MethodPost, "/api/stores", adminToken, storeBody)
	require.Equal(t, http.StatusCreated, status, env.Message)
	var store stores.StoreDTO
	decode(t, env.Data, &store)
	assert.Equal(t, "0.00", store.AverageRating)

	status, env = call(t, h, http.MethodPost, "/api/ratings", userToken, map[string]any{
		"storeId": store.ID.String(), "rating": 4,
	})
	require.Equal(t, http.StatusOK, status, env.Message)
	var submitted ratings.SubmitResult
	decode(t, env.Data, &submitted)
	assert.Equal(t, "4.00", submitted.AverageRating)
	assert.EqualValues(t, 1, submitted.RatingCount)

	status, env = call(t, h, http.MethodPost, "/api/ratings", userToken, map[string]any{
		"storeId": store.ID.String(), "rating": 6,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)

	status, env = call(t, h, http.MethodGet, "/api/ratings/user-rating?storeId="+store.ID.String(), userToken, nil)
	require.Equal(t, http.StatusOK, status)
	var mine ratings.RatingDTO
	decode(t, env.Data, &mine)
	assert.Equal(t, 4, mine.Rating)

	status, env = call(t, h, http.MethodGet, "/api/stores?search=deli", userToken, nil)
	require.Equal(t, http.StatusOK, status)
	var listed []stores.StoreDTO
	decode(t, env.Data, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, "4.00", listed[0].AverageRating)
	assert.EqualValues(t, 1, listed[0].RatingCount)

	ownerToken := login(t, h, "deli@example.com", "Owner@123", "owner")
	status, env = call(t, h, http.MethodGet, "/api/stores/owner/dashboard", ownerToken, nil)
	require.Equal(t, http.StatusOK, status, env.Message)
	var dashboard stores.OwnerDashboard
	decode(t, env.Data, &dashboard)
	assert.Equal(t, "4.00", dashboard.AverageRating)
	require.Len(t, dashboard.Ratings, 1)
	assert.Equal(t, "rita@example.com", dashboard.Ratings[0].User.Email)

	status, _ = call(t, h, http.MethodGet, "/api/stores/owner/dashboard", userToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, env = call(t, h, http.MethodGet, "/api/users/admin/dashboard", adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	var totals users.AdminDashboard
	decode(t, env.Data, &totals)
	assert.Equal(t, users.AdminDashboard{TotalUsers: 3, TotalStores: 1, TotalRatings: 1}, totals)

	status, _ = call(t, h, http.MethodGet, "/api/users", userToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestAuthMeRoundTrip(t *testing.T) {
	h := newTestRouter(t)
	adminToken := login(t, h, adminEmail, adminPassword, "")

	status, env := call(t, h, http.MethodPut, "/api/auth/me", adminToken, map[string]string{"address": "New HQ"})
	require.Equal(t, http.StatusOK, status, env.Message)

	status, env = call(t, h, http.MethodGet, "/api/auth/me", adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	var me auth.UserResponse
	decode(t, env.Data, &me)
	assert.Equal(t, "New HQ", me.User.Address)
	assert.Equal(t, "admin", string(me.User.Role))
}

func TestBlogRoutes(t *testing.T) {
	h := newTestRouter(t)
	adminToken := login(t, h, adminEmail, adminPassword, "")

	status, _ := call(t, h, http.MethodPost, "/api/blogs", "", map[string]string{"title": "Hi", "content": "x"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env := call(t, h, http.MethodPost, "/api/blogs", adminToken, map[string]string{
		"title": "Launch week", "content": "We are live.",
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var blog blogs.BlogDTO
	decode(t, env.Data, &blog)

	status, env = call(t, h, http.MethodGet, "/api/blogs/"+blog.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, status)

	status, env = call(t, h, http.MethodGet, "/api/blogs?page=1&limit=5", "", nil)
	require.Equal(t, http.StatusOK, status)
	var page blogs.Page
	decode(t, env.Data, &page)
	assert.EqualValues(t, 1, page.TotalBlogs)

	status, _ = call(t, h, http.MethodGet, "/api/blogs?limit=500", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = call(t, h, http.MethodGet, "/api/blogs/user/blogs", adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	decode(t, env.Data, &page)
	assert.Len(t, page.Blogs, 1)

	status, _ = call(t, h, http.MethodDelete, "/api/blogs/"+blog.ID.String(), adminToken, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = call(t, h, http.MethodGet, "/api/blogs/"+blog.ID.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestMetricsEndpointExposesRequests(t *testing.T) {
	h := newTestRouter(t)
	call(t, h, http.MethodGet, "/health/live", "", nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",route="/health/live",status="200"} 1`)
}
