package order_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"uaifood/internal/api/order"
	"uaifood/internal/domain"
	apperror "uaifood/internal/errors"
	"uaifood/internal/pkg/logger"
	"uaifood/internal/pkg/middleware"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, caller domain.Caller, req domain.PlaceOrderRequest) (domain.Order, error) {
	args := m.Called(ctx, caller, req)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, caller domain.Caller) ([]domain.Order, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderService) ListMyOrders(ctx context.Context, caller domain.Caller) ([]domain.MyOrder, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).([]domain.MyOrder), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, caller domain.Caller, orderID string) (domain.Order, error) {
	args := m.Called(ctx, caller, orderID)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *MockOrderService) UpdateOrderStatus(ctx context.Context, caller domain.Caller, orderID string, newStatus domain.OrderStatus) (domain.Order, error) {
	args := m.Called(ctx, caller, orderID, newStatus)
	return args.Get(0).(domain.Order), args.Error(1)
}

var maria = domain.Caller{ID: "u-maria", Role: domain.UserTypeClient}

// newTestRouter monta as rotas de pedido com um chamador já autenticado (ou nenhum).
func newTestRouter(svc order.OrderService, caller *domain.Caller) http.Handler {
	h := order.NewHandler(svc, logger.NewNopLogger())
	r := chi.NewRouter()
	if caller != nil {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(middleware.WithCaller(req.Context(), *caller)))
			})
		})
	}
	r.Post("/orders", h.PlaceOrderHandler)
	r.Get("/orders", h.ListOrdersHandler)
	r.Get("/orders/my-orders", h.ListMyOrdersHandler)
	r.Get("/orders/{id}", h.GetOrderHandler)
	r.Patch("/orders/{id}/status", h.UpdateOrderStatusHandler)
	return r
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) domain.ErrorResponse {
	var body domain.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestPlaceOrderHandler_Created(t *testing.T) {
	svc := new(MockOrderService)
	expectedReq := domain.PlaceOrderRequest{
		PaymentMethod: domain.PaymentPix,
		Items:         []domain.OrderLineRequest{{ItemID: "1", Quantity: 2}, {ItemID: "3", Quantity: 1}},
	}
	svc.On("PlaceOrder", mock.Anything, maria, expectedReq).Return(domain.Order{
		ID: "o-1", ClientID: maria.ID, Status: domain.StatusPending, PaymentMethod: domain.PaymentPix,
		Total: decimal.RequireFromString("45.80"),
	}, nil)

	body := `{"paymentMethod":"PIX","items":[{"itemId":"1","quantity":2},{"itemId":"3","quantity":1}]}`
	rec := httptest.NewRecorder()
	newTestRouter(svc, &maria).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	var got map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "45.8", got["total"])
	assert.Equal(t, "PENDING", got["status"])
	svc.AssertExpectations(t)
}

func TestPlaceOrderHandler_RejectsUnknownFields(t *testing.T) {
	svc := new(MockOrderService)

	body := `{"paymentMethod":"PIX","total":"0.01","items":[{"itemId":"1","quantity":1}]}`
	rec := httptest.NewRecorder()
	newTestRouter(svc, &maria).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, rec).Category)
	svc.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestPlaceOrderHandler_ValidationDetails(t *testing.T) {
	svc := new(MockOrderService)
	svc.On("PlaceOrder", mock.Anything, maria, mock.Anything).Return(domain.Order{},
		apperror.NewFieldValidationError("Dados inválidos.", map[string]string{"items[0].quantity": "deve ser maior que 0"}))

	body := `{"paymentMethod":"PIX","items":[{"itemId":"1","quantity":-1}]}`
	rec := httptest.NewRecorder()
	newTestRouter(svc, &maria).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, 400, resp.Code)
	assert.Contains(t, resp.Details, "items[0].quantity")
}

func TestPlaceOrderHandler_AddressRequired(t *testing.T) {
	svc := new(MockOrderService)
	svc.On("PlaceOrder", mock.Anything, maria, mock.Anything).Return(domain.Order{},
		apperror.NewAddressRequiredError("Usuário não possui endereço cadastrado."))

	body := `{"paymentMethod":"CASH","items":[{"itemId":"1","quantity":1}]}`
	rec := httptest.NewRecorder()
	newTestRouter(svc, &maria).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apperror.CategoryAddressRequired, decodeError(t, rec).Category)
}

func TestPlaceOrderHandler_Unauthenticated(t *testing.T) {
	svc := new(MockOrderService)

	rec := httptest.NewRecorder()
	newTestRouter(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPlaceOrderHandler_InternalErrorHidesCause(t *testing.T) {
	svc := new(MockOrderService)
	svc.On("PlaceOrder", mock.Anything, maria, mock.Anything).Return(domain.Order{},
		apperror.NewInternalError("Falha ao criar pedido.", assert.AnError))

	body := `{"paymentMethod":"CASH","items":[{"itemId":"1","quantity":1}]}`
	rec := httptest.NewRecorder()
	newTestRouter(svc, &maria).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}

func TestUpdateOrderStatusHandler(t *testing.T) {
	admin := domain.Caller{ID: "u-admin", Role: domain.UserTypeAdmin}

	cases := []struct {
		name       string
		caller     domain.Caller
		err        error
		wantStatus int
	}{
		{"admin avança o pedido", admin, nil, http.StatusOK},
		{"cliente é barrado", maria, apperror.NewForbiddenError("Apenas administradores."), http.StatusForbidden},
		{"transição inválida", admin, apperror.NewInvalidTransitionError("DELIVERED", "PREPARING"), http.StatusConflict},
		{"pedido inexistente", admin, apperror.NewNotFoundError("Pedido não encontrado."), http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(MockOrderService)
			svc.On("UpdateOrderStatus", mock.Anything, tc.caller, "o-1", domain.StatusPreparing).
				Return(domain.Order{ID: "o-1", Status: domain.StatusPreparing}, tc.err)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPatch, "/orders/o-1/status", strings.NewReader(`{"status":"PREPARING"}`))
			newTestRouter(svc, &tc.caller).ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestListMyOrdersHandler(t *testing.T) {
	svc := new(MockOrderService)
	svc.On("ListMyOrders", mock.Anything, maria).Return([]domain.MyOrder{{ID: "o-2"}, {ID: "o-1"}}, nil)

	rec := httptest.NewRecorder()
	newTestRouter(svc, &maria).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/my-orders", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var got []map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 2)
	assert.Equal(t, "o-2", got[0]["id"])
	assert.NotContains(t, got[0], "client")
	svc.AssertNotCalled(t, "GetOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetOrderHandler_PassesPathID(t *testing.T) {
	svc := new(MockOrderService)
	svc.On("GetOrder", mock.Anything, maria, "o-77").Return(domain.Order{ID: "o-77"}, nil)

	rec := httptest.NewRecorder()
	newTestRouter(svc, &maria).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/o-77", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}
