package order

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

// OrderService define o contrato que o Handler espera da camada de Serviço.
type OrderService interface {
	PlaceOrder(ctx context.Context, caller domain.Caller, req domain.PlaceOrderRequest) (domain.Order, error)
	ListOrders(ctx context.Context, caller domain.Caller) ([]domain.Order, error)
	ListMyOrders(ctx context.Context, caller domain.Caller) ([]domain.MyOrder, error)
	GetOrder(ctx context.Context, caller domain.Caller, orderID string) (domain.Order, error)
	UpdateOrderStatus(ctx context.Context, caller domain.Caller, orderID string, newStatus domain.OrderStatus) (domain.Order, error)
}

// Handler agrupa todos os métodos de Handler de pedidos.
type Handler struct {
	Service OrderService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc OrderService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	response.Handle(w, r, h.Logger, data, err, successStatus)
}

// PlaceOrderHandler lida com a requisição POST /api/v1/orders.
// @Summary Cria um pedido
// @Description Cria um pedido para o usuário autenticado. Os preços vêm do cardápio; o total é calculado no servidor.
// @Tags orders
// @Accept json
// @Produce json
// @Param order body domain.PlaceOrderRequest true "Itens, forma de pagamento e endereço opcional"
// @Success 201 {object} domain.Order "Pedido criado"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido, sem endereço ou item inexistente"
// @Failure 401 {object} domain.ErrorResponse "Não autenticado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Security ApiKeyAuth
// @Router /orders [post]
func (h *Handler) PlaceOrderHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, 0)
		return
	}

	var req domain.PlaceOrderRequest
	if err := validation.DecodeJSON(r, &req); err != nil {
		h.handleServiceResponse(w, r, nil, err, 0)
		return
	}

	order, err := h.Service.PlaceOrder(r.Context(), caller, req)
	h.handleServiceResponse(w, r, order, err, http.StatusCreated)
}

// ListOrdersHandler lida com a requisição GET /api/v1/orders.
// @Summary Lista pedidos
// @Description ADMIN recebe todos os pedidos; CLIENT recebe apenas os seus. Mais recentes primeiro.
// @Tags orders
// @Produce json
// @Success 200 {array} domain.Order "Lista de pedidos"
// @Failure 401 {object} domain.ErrorResponse "Não autenticado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Security ApiKeyAuth
// @Router /orders [get]
func (h *Handler) ListOrdersHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, 0)
		return
	}

	orders, err := h.Service.ListOrders(r.Context(), caller)
	h.handleServiceResponse(w, r, orders, err, http.StatusOK)
}

// ListMyOrdersHandler lida com a requisição GET /api/v1/orders/my-orders.
// @Summary Lista os pedidos do usuário autenticado
// @Tags orders
// @Produce json
// @Success 200 {array} domain.MyOrder "Pedidos do usuário"
// @Failure 401 {object} domain.ErrorResponse "Não autenticado"
// @Security ApiKeyAuth
// @Router /orders/my-orders [get]
func (h *Handler) ListMyOrdersHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, 0)
		return
	}

	orders, err := h.Service.ListMyOrders(r.Context(), caller)
	h.handleServiceResponse(w, r, orders, err, http.StatusOK)
}

// GetOrderHandler lida com a requisição GET /api/v1/orders/{id}.
// @Summary Obtém um pedido por ID
// @Tags orders
// @Produce json
// @Param id path string true "ID do Pedido"
// @Success 200 {object} domain.Order "Pedido encontrado"
// @Failure 404 {object} domain.ErrorResponse "Pedido não encontrado"
// @Security ApiKeyAuth
// @Router /orders/{id} [get]
func (h *Handler) GetOrderHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, 0)
		return
	}

	order, err := h.Service.GetOrder(r.Context(), caller, chi.URLParam(r, "id"))
	h.handleServiceResponse(w, r, order, err, http.StatusOK)
}

// UpdateOrderStatusHandler lida com a requisição PATCH /api/v1/orders/{id}/status.
// @Summary Altera o status de um pedido
// @Description Apenas ADMIN. Transições: PENDING→PREPARING→DELIVERING→DELIVERED; CANCELLED a partir de qualquer estado não terminal.
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "ID do Pedido"
// @Param status body domain.UpdateOrderStatusRequest true "Novo status"
// @Success 200 {object} domain.Order "Pedido atualizado"
// @Failure 400 {object} domain.ErrorResponse "Status inválido"
// @Failure 403 {object} domain.ErrorResponse "Apenas administradores"
// @Failure 404 {object} domain.ErrorResponse "Pedido não encontrado"
// @Failure 409 {object} domain.ErrorResponse "Transição não permitida"
// @Security ApiKeyAuth
// @Router /orders/{id}/status [patch]
func (h *Handler) UpdateOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, 0)
		return
	}

	var req domain.UpdateOrderStatusRequest
	if err := validation.DecodeJSON(r, &req); err != nil {
		h.handleServiceResponse(w, r, nil, err, 0)
		return
	}

	order, err := h.Service.UpdateOrderStatus(r.Context(), caller, chi.URLParam(r, "id"), req.Status)
	h.handleServiceResponse(w, r, order, err, http.StatusOK)
}
