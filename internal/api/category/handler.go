package category

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"uaifood/internal/api/response"
	"uaifood/internal/domain"
	"uaifood/internal/pkg/logger"
	"uaifood/internal/pkg/validation"
)

// CategoryService define o contrato que o Handler espera da camada de Serviço.
type CategoryService interface {
	CreateCategory(ctx context.Context, req domain.CategoryRequest) (domain.Category, error)
	GetCategoryByID(ctx context.Context, id string) (domain.Category, error)
	GetAllCategories(ctx context.Context) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, id string, req domain.CategoryRequest) (domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// Handler agrupa todos os métodos de Handler de categorias.
type Handler struct {
	Service CategoryService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc CategoryService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// CreateCategoryHandler lida com a requisição POST /api/v1/categories.
// @Summary Cria uma categoria
// @Tags categories
// @Accept json
// @Produce json
// @Param category body domain.CategoryRequest true "Descrição da categoria"
// @Success 201 {object} domain.Category "Categoria criada com sucesso"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 403 {object} domain.ErrorResponse "Apenas administradores"
// @Security ApiKeyAuth
// @Router /categories [post]
func (h *Handler) CreateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.CategoryRequest
	if err := validation.DecodeJSON(r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	created, err := h.Service.CreateCategory(r.Context(), req)
	response.Handle(w, r, h.Logger, created, err, http.StatusCreated)
}

// GetCategoryByIDHandler lida com a requisição GET /api/v1/categories/{id}.
// @Summary Obtém uma categoria com seus itens
// @Tags categories
// @Produce json
// @Param id path string true "ID da Categoria"
// @Success 200 {object} domain.Category "Categoria encontrada"
// @Failure 404 {object} domain.ErrorResponse "Categoria não encontrada"
// @Router /categories/{id} [get]
func (h *Handler) GetCategoryByIDHandler(w http.ResponseWriter, r *http.Request) {
	category, err := h.Service.GetCategoryByID(r.Context(), chi.URLParam(r, "id"))
	response.Handle(w, r, h.Logger, category, err, http.StatusOK)
}

// GetAllCategoriesHandler lida com a requisição GET /api/v1/categories.
// @Summary Lista as categorias
// @Tags categories
// @Produce json
// @Success 200 {array} domain.Category "Lista de categorias"
// @Router /categories [get]
func (h *Handler) GetAllCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Service.GetAllCategories(r.Context())
	response.Handle(w, r, h.Logger, categories, err, http.StatusOK)
}

// UpdateCategoryHandler lida com a requisição PUT /api/v1/categories/{id}.
// @Summary Atualiza uma categoria
// @Tags categories
// @Accept json
// @Produce json
// @Param id path string true "ID da Categoria"
// @Param category body domain.CategoryRequest true "Nova descrição"
// @Success 200 {object} domain.Category "Categoria atualizada"
// @Failure 404 {object} domain.ErrorResponse "Categoria não encontrada"
// @Security ApiKeyAuth
// @Router /categories/{id} [put]
func (h *Handler) UpdateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.CategoryRequest
	if err := validation.DecodeJSON(r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	updated, err := h.Service.UpdateCategory(r.Context(), chi.URLParam(r, "id"), req)
	response.Handle(w, r, h.Logger, updated, err, http.StatusOK)
}

// DeleteCategoryHandler lida com a requisição DELETE /api/v1/categories/{id}.
// @Summary Remove uma categoria
// @Tags categories
// @Param id path string true "ID da Categoria"
// @Success 204 "Categoria removida"
// @Failure 409 {object} domain.ErrorResponse "Categoria com itens vinculados"
// @Security ApiKeyAuth
// @Router /categories/{id} [delete]
func (h *Handler) DeleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	err := h.Service.DeleteCategory(r.Context(), chi.URLParam(r, "id"))
	response.Handle(w, r, h.Logger, nil, err, http.StatusNoContent)
}
