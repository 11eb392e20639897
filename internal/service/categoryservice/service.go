package categoryservice

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"uaifood/internal/domain"
	apperror "uaifood/internal/errors"
	"uaifood/internal/pkg/logger"
	"uaifood/internal/pkg/validation"
)

// Service implementa as regras de negócio das categorias do cardápio.
type Service struct {
	repo   domain.CategoryRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Categorias.
func NewService(repo domain.CategoryRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateCategory cria uma nova categoria após validações de negócio.
func (s *Service) CreateCategory(ctx context.Context, req domain.CategoryRequest) (domain.Category, error) {
	s.logger.Debug("Iniciando criação de categoria no serviço.", map[string]interface{}{"description": req.Description})

	req.Description = strings.TrimSpace(req.Description)
	if err := validation.Struct(req); err != nil {
		s.logger.Warn("Falha na validação da categoria.", map[string]interface{}{"error": err.Error()})
		return domain.Category{}, err
	}

	created, err := s.repo.Save(ctx, domain.Category{Description: req.Description})
	if err != nil {
		s.logger.Error("Falha ao criar categoria no repositório.", err)
		return domain.Category{}, err
	}

	s.logger.Info("Categoria criada com sucesso.", map[string]interface{}{"id": created.ID, "description": created.Description})
	return created, nil
}

// GetCategoryByID busca uma categoria com seus itens.
func (s *Service) GetCategoryByID(ctx context.Context, id string) (domain.Category, error) {
	if err := validateID(id); err != nil {
		return domain.Category{}, err
	}
	return s.repo.FindByID(ctx, id)
}

// GetAllCategories lista todas as categorias.
func (s *Service) GetAllCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Falha ao buscar categorias no repositório.", err)
		return nil, err
	}
	return categories, nil
}

// UpdateCategory altera a descrição de uma categoria existente.
func (s *Service) UpdateCategory(ctx context.Context, id string, req domain.CategoryRequest) (domain.Category, error) {
	s.logger.Debug("Iniciando atualização de categoria no serviço.", map[string]interface{}{"id": id})

	if err := validateID(id); err != nil {
		return domain.Category{}, err
	}
	req.Description = strings.TrimSpace(req.Description)
	if err := validation.Struct(req); err != nil {
		return domain.Category{}, err
	}

	updated, err := s.repo.Update(ctx, domain.Category{ID: id, Description: req.Description})
	if err != nil {
		return domain.Category{}, err
	}

	s.logger.Info("Categoria atualizada com sucesso.", map[string]interface{}{"id": updated.ID})
	return updated, nil
}

// DeleteCategory remove uma categoria sem itens vinculados.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		var conflict *apperror.ConflictError
		if errors.As(err, &conflict) {
			return apperror.NewConflictError("Categoria possui itens vinculados e não pode ser excluída.")
		}
		return err
	}

	s.logger.Info("Categoria deletada com sucesso.", map[string]interface{}{"id": id})
	return nil
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID da categoria deve ser um UUID válido.")
	}
	return nil
}
