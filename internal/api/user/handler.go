package user

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"uaifood/internal/api/response"
	"uaifood/internal/domain"
	"uaifood/internal/pkg/logger"
	"uaifood/internal/pkg/middleware"
	"uaifood/internal/pkg/validation"
)

// UserService define o contrato que o Handler espera da camada de Serviço.
type UserService interface {
	Register(ctx context.Context, creator *domain.Caller, req domain.RegisterUserRequest) (domain.User, error)
	Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
	ListUsers(ctx context.Context, caller domain.Caller) ([]domain.User, error)
	Profile(ctx context.Context, caller domain.Caller) (domain.User, error)
	ChangePassword(ctx context.Context, caller domain.Caller, req domain.ChangePasswordRequest) error
	UpdateType(ctx context.Context, caller domain.Caller, userID string, req domain.UpdateUserTypeRequest) (domain.User, error)
	Delete(ctx context.Context, caller domain.Caller, userID string) error
}

// Handler lida com as requisições HTTP relacionadas a usuários.
type Handler struct {
	Service UserService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler de usuários.
func NewHandler(svc UserService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// RegisterHandler lida com a requisição POST /api/v1/users/create.
// @Summary Cadastra um usuário
// @Description Auto-cadastro como CLIENT. Somente um ADMIN autenticado pode criar outro ADMIN.
// @Tags users
// @Accept json
// @Produce json
// @Param user body domain.RegisterUserRequest true "Dados do usuário"
// @Success 201 {object} domain.User "Usuário criado"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 403 {object} domain.ErrorResponse "Criação de ADMIN sem permissão"
// @Failure 409 {object} domain.ErrorResponse "Telefone já cadastrado"
// @Router /users/create [post]
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterUserRequest
	if err := validation.DecodeJSON(r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	var creator *domain.Caller
	if caller, ok := middleware.CallerFromContext(r.Context()); ok {
		creator = &caller
	}

	user, err := h.Service.Register(r.Context(), creator, req)
	response.Handle(w, r, h.Logger, user, err, http.StatusCreated)
}

// LoginHandler lida com a requisição POST /api/v1/users/login.
// @Summary Autentica um usuário
// @Tags users
// @Accept json
// @Produce json
// @Param credentials body domain.LoginRequest true "Telefone e senha"
// @Success 200 {object} domain.LoginResponse "Token JWT"
// @Failure 401 {object} domain.ErrorResponse "Credenciais inválidas"
// @Failure 429 {object} domain.ErrorResponse "Muitas tentativas"
// @Router /users/login [post]
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := validation.DecodeJSON(r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	resp, err := h.Service.Login(r.Context(), req)
	response.Handle(w, r, h.Logger, resp, err, http.StatusOK)
}

// ListUsersHandler lida com a requisição GET /api/v1/users.
// @Summary Lista usuários
// @Tags users
// @Produce json
// @Success 200 {array} domain.User
// @Failure 403 {object} domain.ErrorResponse "Apenas administradores"
// @Security ApiKeyAuth
// @Router /users [get]
func (h *Handler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	users, err := h.Service.ListUsers(r.Context(), caller)
	response.Handle(w, r, h.Logger, users, err, http.StatusOK)
}

// ProfileHandler lida com a requisição GET /api/v1/users/profile.
// @Summary Perfil do usuário autenticado
// @Tags users
// @Produce json
// @Success 200 {object} domain.User
// @Security ApiKeyAuth
// @Router /users/profile [get]
func (h *Handler) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	user, err := h.Service.Profile(r.Context(), caller)
	response.Handle(w, r, h.Logger, user, err, http.StatusOK)
}

// ChangePasswordHandler lida com a requisição PUT /api/v1/users/change-password.
// @Summary Troca a senha do usuário autenticado
// @Tags users
// @Accept json
// @Param passwords body domain.ChangePasswordRequest true "Senha atual e nova senha"
// @Success 204
// @Failure 400 {object} domain.ErrorResponse "Senhas não coincidem"
// @Failure 401 {object} domain.ErrorResponse "Senha atual incorreta"
// @Security ApiKeyAuth
// @Router /users/change-password [put]
func (h *Handler) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	var req domain.ChangePasswordRequest
	if err := validation.DecodeJSON(r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	err = h.Service.ChangePassword(r.Context(), caller, req)
	response.Handle(w, r, h.Logger, nil, err, http.StatusNoContent)
}

// UpdateTypeHandler lida com a requisição PATCH /api/v1/users/{id}/type.
// @Summary Altera o tipo de um usuário
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "ID do Usuário"
// @Param type body domain.UpdateUserTypeRequest true "Novo tipo"
// @Success 200 {object} domain.User
// @Failure 403 {object} domain.ErrorResponse "Sem permissão ou alteração do próprio tipo"
// @Security ApiKeyAuth
// @Router /users/{id}/type [patch]
func (h *Handler) UpdateTypeHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	var req domain.UpdateUserTypeRequest
	if err := validation.DecodeJSON(r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	user, err := h.Service.UpdateType(r.Context(), caller, chi.URLParam(r, "id"), req)
	response.Handle(w, r, h.Logger, user, err, http.StatusOK)
}

// DeleteHandler lida com a requisição DELETE /api/v1/users/{id}.
// @Summary Exclui um usuário
// @Tags users
// @Param id path string true "ID do Usuário"
// @Success 204
// @Failure 409 {object} domain.ErrorResponse "Usuário possui pedidos"
// @Security ApiKeyAuth
// @Router /users/{id} [delete]
func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	err = h.Service.Delete(r.Context(), caller, chi.URLParam(r, "id"))
	response.Handle(w, r, h.Logger, nil, err, http.StatusNoContent)
}
