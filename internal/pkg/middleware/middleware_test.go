package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"uaifood/internal/domain"
	"uaifood/internal/pkg/logger"
	"uaifood/internal/pkg/middleware"
	"uaifood/internal/pkg/token"
)

// MockCache implementa cache.Client para o rate limiter.
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

func (m *MockCache) Incr(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCache) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return m.Called(ctx, key, expiration).Error(0)
}

func (m *MockCache) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *MockCache) DeleteByPrefix(ctx context.Context, prefix string) error {
	return m.Called(ctx, prefix).Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func okHandler(t *testing.T, wantRole domain.UserType) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middleware.CallerFromContext(r.Context())
		assert.True(t, ok)
		assert.Equal(t, wantRole, caller.Role)
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	tokenSvc := token.NewService("segredo", time.Hour)
	valid, _ := tokenSvc.GenerateToken("u-1", "CLIENT", "31999998888")
	unknownRole, _ := tokenSvc.GenerateToken("u-1", "ROOT", "31999998888")

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"invalid token", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"unknown role", "Bearer " + unknownRole, http.StatusUnauthorized},
		{"valid", "Bearer " + valid, http.StatusOK},
	}

	mw := middleware.NewAuthMiddleware(tokenSvc, logger.NewNopLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			mw(okHandler(t, domain.UserTypeClient)).ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestOptionalAuthMiddleware_Anonymous(t *testing.T) {
	mw := middleware.NewOptionalAuthMiddleware(token.NewService("segredo", time.Hour), logger.NewNopLogger())
	rec := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := middleware.CallerFromContext(r.Context())
		assert.False(t, ok)
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/users/create", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireRoles(t *testing.T) {
	gate := middleware.RequireRoles(logger.NewNopLogger(), domain.UserTypeAdmin)

	admin := httptest.NewRequest(http.MethodPatch, "/", nil)
	admin = admin.WithContext(middleware.WithCaller(admin.Context(), domain.Caller{ID: "a", Role: domain.UserTypeAdmin}))
	rec := httptest.NewRecorder()
	gate(okHandler(t, domain.UserTypeAdmin)).ServeHTTP(rec, admin)
	assert.Equal(t, http.StatusOK, rec.Code)

	client := httptest.NewRequest(http.MethodPatch, "/", nil)
	client = client.WithContext(middleware.WithCaller(client.Context(), domain.Caller{ID: "c", Role: domain.UserTypeClient}))
	rec = httptest.NewRecorder()
	gate(okHandler(t, domain.UserTypeClient)).ServeHTTP(rec, client)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	gate(okHandler(t, "")).ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	mockCache := new(MockCache)
	key := "rate-limit:login:10.0.0.1"
	mockCache.On("Incr", mock.Anything, key).Return(int64(1), nil).Once()
	mockCache.On("Expire", mock.Anything, key, time.Minute).Return(nil).Once()
	mockCache.On("Incr", mock.Anything, key).Return(int64(3), nil).Once()

	limiter := middleware.RateLimiter(mockCache, "login", 2, time.Minute, logger.NewNopLogger())
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.1:5555"

	rec := httptest.NewRecorder()
	limiter(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))

	rec = httptest.NewRecorder()
	limiter(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	mockCache.AssertExpectations(t)
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	mockCache := new(MockCache)
	mockCache.On("Incr", mock.Anything, mock.Anything).Return(int64(0), errors.New("redis fora"))

	limiter := middleware.RateLimiter(mockCache, "api", 1, time.Minute, logger.NewNopLogger())
	rec := httptest.NewRecorder()
	limiter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
