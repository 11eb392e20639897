package item_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"uaifood/internal/api/item"
	"uaifood/internal/domain"
	apperror "uaifood/internal/errors"
	"uaifood/internal/pkg/logger"
)

type MockItemService struct {
	mock.Mock
}

func (m *MockItemService) CreateItem(ctx context.Context, req domain.ItemRequest) (domain.Item, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.Item), args.Error(1)
}

func (m *MockItemService) GetItem(ctx context.Context, id string) (domain.Item, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Item), args.Error(1)
}

func (m *MockItemService) ListItems(ctx context.Context, filter domain.ItemFilter) ([]domain.Item, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *MockItemService) UpdateItem(ctx context.Context, id string, req domain.ItemRequest) (domain.Item, error) {
	args := m.Called(ctx, id, req)
	return args.Get(0).(domain.Item), args.Error(1)
}

func (m *MockItemService) DeleteItem(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func newRouter(svc item.ItemService) http.Handler {
	h := item.NewHandler(svc, logger.NewNopLogger())
	r := chi.NewRouter()
	r.Get("/items", h.ListItemsHandler)
	r.Post("/items", h.CreateItemHandler)
	r.Get("/items/{id}", h.GetItemHandler)
	r.Delete("/items/{id}", h.DeleteItemHandler)
	return r
}

func TestListItemsHandler_QueryFilters(t *testing.T) {
	svc := new(MockItemService)
	svc.On("ListItems", mock.Anything, domain.ItemFilter{CategoryID: "c-1", Search: "burger"}).
		Return([]domain.Item{{ID: "1", Description: "X-Burger", UnitPrice: decimal.RequireFromString("15.90")}}, nil)

	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items?categoryId=c-1&search=burger", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"unitPrice":"15.9"`)
	svc.AssertExpectations(t)
}

func TestCreateItemHandler_AcceptsNumericPrice(t *testing.T) {
	svc := new(MockItemService)
	svc.On("CreateItem", mock.Anything, mock.MatchedBy(func(req domain.ItemRequest) bool {
		return req.UnitPrice.Equal(decimal.RequireFromString("14.00"))
	})).Return(domain.Item{ID: "3"}, nil)

	rec := httptest.NewRecorder()
	body := `{"description":"Suco de Laranja","unitPrice":14.00,"categoryId":"c-1"}`
	newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestDeleteItemHandler_Conflict(t *testing.T) {
	svc := new(MockItemService)
	svc.On("DeleteItem", mock.Anything, "1").Return(apperror.NewConflictError("Item presente em pedidos não pode ser excluído."))

	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/items/1", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
}
