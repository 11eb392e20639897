package address

import (
	"context"
	"net/http"

	"uaifood/internal/api/response"
	"uaifood/internal/domain"
	"uaifood/internal/pkg/logger"
	"uaifood/internal/pkg/middleware"
	"uaifood/internal/pkg/validation"
)

// AddressService define o contrato que o Handler espera da camada de Serviço.
type AddressService interface {
	Create(ctx context.Context, caller domain.Caller, req domain.AddressRequest) (domain.Address, error)
	Get(ctx context.Context, caller domain.Caller) (domain.Address, error)
	Update(ctx context.Context, caller domain.Caller, req domain.AddressRequest) (domain.Address, error)
	Delete(ctx context.Context, caller domain.Caller) error
}

// Handler lida com o endereço do usuário autenticado.
type Handler struct {
	Service AddressService
	Logger  logger.Logger
}

func NewHandler(svc AddressService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// CreateHandler lida com a requisição POST /api/v1/address.
// @Summary Cadastra o endereço de entrega
// @Tags address
// @Accept json
// @Produce json
// @Param address body domain.AddressRequest true "Endereço"
// @Success 201 {object} domain.Address
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 409 {object} domain.ErrorResponse "Usuário já possui endereço"
// @Security ApiKeyAuth
// @Router /address [post]
func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	var req domain.AddressRequest
	if err := validation.DecodeJSON(r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	address, err := h.Service.Create(r.Context(), caller, req)
	response.Handle(w, r, h.Logger, address, err, http.StatusCreated)
}

// GetHandler lida com a requisição GET /api/v1/address.
// @Summary Obtém o endereço de entrega
// @Tags address
// @Produce json
// @Success 200 {object} domain.Address
// @Failure 404 {object} domain.ErrorResponse "Endereço não cadastrado"
// @Security ApiKeyAuth
// @Router /address [get]
func (h *Handler) GetHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	address, err := h.Service.Get(r.Context(), caller)
	response.Handle(w, r, h.Logger, address, err, http.StatusOK)
}

// UpdateHandler lida com a requisição PUT /api/v1/address.
// @Summary Atualiza o endereço de entrega
// @Tags address
// @Accept json
// @Produce json
// @Param address body domain.AddressRequest true "Endereço"
// @Success 200 {object} domain.Address
// @Failure 404 {object} domain.ErrorResponse "Endereço não cadastrado"
// @Security ApiKeyAuth
// @Router /address [put]
func (h *Handler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	var req domain.AddressRequest
	if err := validation.DecodeJSON(r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	address, err := h.Service.Update(r.Context(), caller, req)
	response.Handle(w, r, h.Logger, address, err, http.StatusOK)
}

// DeleteHandler lida com a requisição DELETE /api/v1/address.
// @Summary Remove o endereço de entrega
// @Tags address
// @Success 204
// @Failure 404 {object} domain.ErrorResponse "Endereço não encontrado"
// @Security ApiKeyAuth
// @Router /address [delete]
func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.RequireCaller(r.Context())
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	err = h.Service.Delete(r.Context(), caller)
	response.Handle(w, r, h.Logger, nil, err, http.StatusNoContent)
}
