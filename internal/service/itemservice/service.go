package itemservice

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

const (
	msgInvalidItemID     = "O ID do item deve ser um UUID válido."
	msgInvalidCategoryID = "O ID da categoria deve ser um UUID válido."
)

// Service implementa as regras de negócio dos itens do cardápio.
type Service struct {
	repo         domain.ItemRepository
	categoryRepo domain.CategoryRepository
	logger       logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Itens.
func NewService(repo domain.ItemRepository, categoryRepo domain.CategoryRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, categoryRepo: categoryRepo, logger: logger}
}

// CreateItem cria um item numa categoria existente.
func (s *Service) CreateItem(ctx context.Context, req domain.ItemRequest) (domain.Item, error) {
	s.logger.Debug("Iniciando criação de item no serviço.", map[string]interface{}{"description": req.Description})

	item, err := s.checkRequest(ctx, req)
	if err != nil {
		return domain.Item{}, err
	}

	created, err := s.repo.Save(ctx, item)
	if err != nil {
		return domain.Item{}, err
	}
	created.CategoryDescription = item.CategoryDescription

	s.logger.Info("Item criado com sucesso.", map[string]interface{}{"id": created.ID, "unit_price": created.UnitPrice.String()})
	return created, nil
}

func (s *Service) GetItem(ctx context.Context, id string) (domain.Item, error) {
	if err := validateID(id, msgInvalidItemID); err != nil {
		return domain.Item{}, err
	}
	return s.repo.FindByID(ctx, id)
}

// ListItems lista o cardápio. categoryId, quando informado, precisa ser um UUID.
func (s *Service) ListItems(ctx context.Context, filter domain.ItemFilter) ([]domain.Item, error) {
	if filter.CategoryID != "" {
		if err := validateID(filter.CategoryID, msgInvalidCategoryID); err != nil {
			return nil, err
		}
	}
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.FindAll(ctx, filter)
}

// UpdateItem altera descrição, preço e categoria. Pedidos já feitos mantêm o preço antigo.
func (s *Service) UpdateItem(ctx context.Context, id string, req domain.ItemRequest) (domain.Item, error) {
	if err := validateID(id, msgInvalidItemID); err != nil {
		return domain.Item{}, err
	}

	item, err := s.checkRequest(ctx, req)
	if err != nil {
		return domain.Item{}, err
	}
	item.ID = id

	updated, err := s.repo.Update(ctx, item)
	if err != nil {
		return domain.Item{}, err
	}

	s.logger.Info("Item atualizado com sucesso.", map[string]interface{}{"id": id, "unit_price": updated.UnitPrice.String()})
	return updated, nil
}

// DeleteItem remove um item que nunca foi pedido.
func (s *Service) DeleteItem(ctx context.Context, id string) error {
	if err := validateID(id, msgInvalidItemID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		var conflict *apperror.ConflictError
		if errors.As(err, &conflict) {
			return apperror.NewConflictError("Item presente em pedidos não pode ser excluído.")
		}
		return err
	}
	return nil
}

// checkRequest valida o payload e confirma que a categoria existe.
func (s *Service) checkRequest(ctx context.Context, req domain.ItemRequest) (domain.Item, error) {
	req.Description = strings.TrimSpace(req.Description)
	if err := validation.Struct(req); err != nil {
		return domain.Item{}, err
	}
	if !req.UnitPrice.Equal(req.UnitPrice.Round(2)) {
		return domain.Item{}, apperror.NewFieldValidationError("Dados inválidos.", map[string]string{
			"unitPrice": "deve ter no máximo 2 casas decimais",
		})
	}
	if err := validateID(req.CategoryID, msgInvalidCategoryID); err != nil {
		return domain.Item{}, err
	}

	category, err := s.categoryRepo.FindByID(ctx, req.CategoryID)
	if err != nil {
		s.logger.Warn("Categoria do item não encontrada.", map[string]interface{}{"category_id": req.CategoryID})
		return domain.Item{}, err
	}

	return domain.Item{
		Description:         req.Description,
		UnitPrice:           req.UnitPrice,
		CategoryID:          category.ID,
		CategoryDescription: category.Description,
	}, nil
}

func validateID(id, msg string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError(msg)
	}
	return nil
}
