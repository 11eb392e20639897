package categoryservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"uaifood/internal/domain"
	apperror "uaifood/internal/errors"
	"uaifood/internal/pkg/logger"
	"uaifood/internal/service/categoryservice"
)

// MockCategoryRepository é uma implementação mock da interface CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Save(ctx context.Context, category domain.Category) (domain.Category, error) {
	args := m.Called(ctx, category)
	return args.Get(0).(domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id string) (domain.Category, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category domain.Category) (domain.Category, error) {
	args := m.Called(ctx, category)
	return args.Get(0).(domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestLogger() logger.Logger {
	return logger.NewLogger("debug")
}

// --- Testes para CreateCategory ---

func TestCreateCategory_Success(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc := categoryservice.NewService(mockRepo, newTestLogger())

	expected := domain.Category{ID: uuid.NewString(), Description: "Lanches", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	mockRepo.On("Save", mock.Anything, domain.Category{Description: "Lanches"}).Return(expected, nil)

	result, err := svc.CreateCategory(context.Background(), domain.CategoryRequest{Description: "  Lanches "})

	assert.NoError(t, err)
	assert.Equal(t, expected.ID, result.ID)
	mockRepo.AssertExpectations(t)
}

func TestCreateCategory_Fail_ShortDescription(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc := categoryservice.NewService(mockRepo, newTestLogger())

	_, err := svc.CreateCategory(context.Background(), domain.CategoryRequest{Description: "ab"})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, apperror.FieldDetails(err), "description")
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// --- Testes para GetCategoryByID ---

func TestGetCategoryByID_Fail_InvalidUUID(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc := categoryservice.NewService(mockRepo, newTestLogger())

	_, err := svc.GetCategoryByID(context.Background(), "invalid-uuid")

	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestGetCategoryByID_NotFound(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc := categoryservice.NewService(mockRepo, newTestLogger())

	id := uuid.NewString()
	mockRepo.On("FindByID", mock.Anything, id).Return(domain.Category{}, apperror.NewNotFoundError("Categoria não encontrada."))

	_, err := svc.GetCategoryByID(context.Background(), id)

	assert.IsType(t, &apperror.NotFoundError{}, err)
	mockRepo.AssertExpectations(t)
}

// --- Testes para UpdateCategory ---

func TestUpdateCategory_Success(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc := categoryservice.NewService(mockRepo, newTestLogger())

	id := uuid.NewString()
	mockRepo.On("Update", mock.Anything, domain.Category{ID: id, Description: "Bebidas"}).
		Return(domain.Category{ID: id, Description: "Bebidas"}, nil)

	result, err := svc.UpdateCategory(context.Background(), id, domain.CategoryRequest{Description: "Bebidas"})

	assert.NoError(t, err)
	assert.Equal(t, "Bebidas", result.Description)
	mockRepo.AssertExpectations(t)
}

// --- Testes para DeleteCategory ---

func TestDeleteCategory_Fail_HasItems(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc := categoryservice.NewService(mockRepo, newTestLogger())

	id := uuid.NewString()
	mockRepo.On("Delete", mock.Anything, id).Return(apperror.NewConflictError("violates foreign key constraint"))

	err := svc.DeleteCategory(context.Background(), id)

	assert.IsType(t, &apperror.ConflictError{}, err)
	assert.Contains(t, err.Error(), "itens vinculados")
}

func TestDeleteCategory_Success(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc := categoryservice.NewService(mockRepo, newTestLogger())

	id := uuid.NewString()
	mockRepo.On("Delete", mock.Anything, id).Return(nil)

	assert.NoError(t, svc.DeleteCategory(context.Background(), id))
	mockRepo.AssertExpectations(t)
}
