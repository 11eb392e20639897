package user_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"uaifood/internal/api/user"
	"uaifood/internal/domain"
	apperror "uaifood/internal/errors"
	"uaifood/internal/pkg/logger"
	"uaifood/internal/pkg/middleware"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, creator *domain.Caller, req domain.RegisterUserRequest) (domain.User, error) {
	args := m.Called(ctx, creator, req)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.LoginResponse), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context, caller domain.Caller) ([]domain.User, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserService) Profile(ctx context.Context, caller domain.Caller) (domain.User, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserService) ChangePassword(ctx context.Context, caller domain.Caller, req domain.ChangePasswordRequest) error {
	return m.Called(ctx, caller, req).Error(0)
}

func (m *MockUserService) UpdateType(ctx context.Context, caller domain.Caller, userID string, req domain.UpdateUserTypeRequest) (domain.User, error) {
	args := m.Called(ctx, caller, userID, req)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, caller domain.Caller, userID string) error {
	return m.Called(ctx, caller, userID).Error(0)
}

func withCaller(caller domain.Caller) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithCaller(r.Context(), caller)))
		})
	}
}

const registerBody = `{"nome":"Maria Silva","phone":"31999998888","password":"segredo1"}`

func TestRegisterHandler_Anonymous(t *testing.T) {
	svc := new(MockUserService)
	h := user.NewHandler(svc, logger.NewNopLogger())
	svc.On("Register", mock.Anything, (*domain.Caller)(nil), mock.Anything).Return(domain.User{ID: "u-1"}, nil)

	rec := httptest.NewRecorder()
	h.RegisterHandler(rec, httptest.NewRequest(http.MethodPost, "/users/create", strings.NewReader(registerBody)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	svc.AssertExpectations(t)
}

func TestRegisterHandler_PassesAuthenticatedCreator(t *testing.T) {
	svc := new(MockUserService)
	h := user.NewHandler(svc, logger.NewNopLogger())
	admin := domain.Caller{ID: "u-admin", Role: domain.UserTypeAdmin}
	svc.On("Register", mock.Anything, mock.MatchedBy(func(c *domain.Caller) bool {
		return c != nil && c.ID == admin.ID
	}), mock.Anything).Return(domain.User{ID: "u-2", Type: domain.UserTypeAdmin}, nil)

	r := chi.NewRouter()
	r.With(withCaller(admin)).Post("/users/create", h.RegisterHandler)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users/create", strings.NewReader(registerBody)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestLoginHandler_Unauthorized(t *testing.T) {
	svc := new(MockUserService)
	h := user.NewHandler(svc, logger.NewNopLogger())
	svc.On("Login", mock.Anything, domain.LoginRequest{Phone: "31999998888", Password: "errada1"}).
		Return(domain.LoginResponse{}, apperror.NewUnauthorizedError("Credenciais inválidas."))

	rec := httptest.NewRecorder()
	h.LoginHandler(rec, httptest.NewRequest(http.MethodPost, "/users/login",
		strings.NewReader(`{"phone":"31999998888","password":"errada1"}`)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Credenciais inválidas")
}

func TestUpdateTypeHandler_UsesPathID(t *testing.T) {
	svc := new(MockUserService)
	h := user.NewHandler(svc, logger.NewNopLogger())
	admin := domain.Caller{ID: "u-admin", Role: domain.UserTypeAdmin}
	svc.On("UpdateType", mock.Anything, admin, "u-admin", domain.UpdateUserTypeRequest{Type: domain.UserTypeClient}).
		Return(domain.User{}, apperror.NewForbiddenError("Não é permitido alterar o próprio tipo de usuário."))

	r := chi.NewRouter()
	r.With(withCaller(admin)).Patch("/users/{id}/type", h.UpdateTypeHandler)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/users/u-admin/type", strings.NewReader(`{"type":"CLIENT"}`)))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	svc.AssertExpectations(t)
}

func TestChangePasswordHandler_NoContent(t *testing.T) {
	svc := new(MockUserService)
	h := user.NewHandler(svc, logger.NewNopLogger())
	maria := domain.Caller{ID: "u-maria", Role: domain.UserTypeClient}
	svc.On("ChangePassword", mock.Anything, maria, mock.Anything).Return(nil)

	r := chi.NewRouter()
	r.With(withCaller(maria)).Put("/users/change-password", h.ChangePasswordHandler)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/users/change-password",
		strings.NewReader(`{"currentPassword":"antiga1","newPassword":"nova123","confirmPassword":"nova123"}`)))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
