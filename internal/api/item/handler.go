package item

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"uaifood/internal/api/response"
	"uaifood/internal/domain"
	"uaifood/internal/pkg/logger"
	"uaifood/internal/pkg/validation"
)

// ItemService define o contrato que o Handler espera da camada de Serviço.
type ItemService interface {
	CreateItem(ctx context.Context, req domain.ItemRequest) (domain.Item, error)
	GetItem(ctx context.Context, id string) (domain.Item, error)
	ListItems(ctx context.Context, filter domain.ItemFilter) ([]domain.Item, error)
	UpdateItem(ctx context.Context, id string, req domain.ItemRequest) (domain.Item, error)
	DeleteItem(ctx context.Context, id string) error
}

// Handler agrupa os métodos de Handler do cardápio.
type Handler struct {
	Service ItemService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler de itens.
func NewHandler(svc ItemService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// CreateItemHandler lida com a requisição POST /api/v1/items.
// @Summary Cria um item do cardápio
// @Tags items
// @Accept json
// @Produce json
// @Param item body domain.ItemRequest true "Descrição, preço e categoria"
// @Success 201 {object} domain.Item "Item criado"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 404 {object} domain.ErrorResponse "Categoria não encontrada"
// @Security ApiKeyAuth
// @Router /items [post]
func (h *Handler) CreateItemHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.ItemRequest
	if err := validation.DecodeJSON(r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	created, err := h.Service.CreateItem(r.Context(), req)
	response.Handle(w, r, h.Logger, created, err, http.StatusCreated)
}

// ListItemsHandler lida com a requisição GET /api/v1/items.
// @Summary Lista o cardápio
// @Tags items
// @Produce json
// @Param categoryId query string false "Filtra por categoria"
// @Param search query string false "Trecho da descrição"
// @Success 200 {array} domain.Item "Itens"
// @Router /items [get]
func (h *Handler) ListItemsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.Service.ListItems(r.Context(), domain.ItemFilter{
		CategoryID: q.Get("categoryId"),
		Search:     q.Get("search"),
	})
	response.Handle(w, r, h.Logger, items, err, http.StatusOK)
}

// GetItemHandler lida com a requisição GET /api/v1/items/{id}.
// @Summary Obtém um item por ID
// @Tags items
// @Produce json
// @Param id path string true "ID do Item"
// @Success 200 {object} domain.Item "Item encontrado"
// @Failure 404 {object} domain.ErrorResponse "Item não encontrado"
// @Router /items/{id} [get]
func (h *Handler) GetItemHandler(w http.ResponseWriter, r *http.Request) {
	item, err := h.Service.GetItem(r.Context(), chi.URLParam(r, "id"))
	response.Handle(w, r, h.Logger, item, err, http.StatusOK)
}

// UpdateItemHandler lida com a requisição PUT /api/v1/items/{id}.
// @Summary Atualiza um item
// @Description Pedidos já realizados mantêm o preço da época da compra.
// @Tags items
// @Accept json
// @Produce json
// @Param id path string true "ID do Item"
// @Param item body domain.ItemRequest true "Dados do item"
// @Success 200 {object} domain.Item "Item atualizado"
// @Failure 404 {object} domain.ErrorResponse "Item ou categoria não encontrados"
// @Security ApiKeyAuth
// @Router /items/{id} [put]
func (h *Handler) UpdateItemHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.ItemRequest
	if err := validation.DecodeJSON(r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	updated, err := h.Service.UpdateItem(r.Context(), chi.URLParam(r, "id"), req)
	response.Handle(w, r, h.Logger, updated, err, http.StatusOK)
}

// DeleteItemHandler lida com a requisição DELETE /api/v1/items/{id}.
// @Summary Remove um item
// @Tags items
// @Param id path string true "ID do Item"
// @Success 204 "Item removido"
// @Failure 409 {object} domain.ErrorResponse "Item presente em pedidos"
// @Security ApiKeyAuth
// @Router /items/{id} [delete]
func (h *Handler) DeleteItemHandler(w http.ResponseWriter, r *http.Request) {
	err := h.Service.DeleteItem(r.Context(), chi.URLParam(r, "id"))
	response.Handle(w, r, h.Logger, nil, err, http.StatusNoContent)
}
