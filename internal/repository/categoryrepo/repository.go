package categoryrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"uaifood/internal/domain"
	apperror "uaifood/internal/errors"
	"uaifood/internal/pkg/cache"
	"uaifood/internal/pkg/logger"
)

// CategoryRepository implementa domain.CategoryRepository.
// Alterações invalidam o cache do cardápio, que carrega a descrição da categoria.
type CategoryRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewCategoryRepository cria e retorna uma nova instância do repositório de categorias.
func NewCategoryRepository(db *sql.DB, cacheClient cache.Client, dbTimeout time.Duration, logger logger.Logger) *CategoryRepository {
	return &CategoryRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// Save insere uma nova categoria.
func (r *CategoryRepository) Save(ctx context.Context, category domain.Category) (domain.Category, error) {
	r.logger.Debug("Iniciando Save de categoria.", map[string]interface{}{"description": category.Description})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	now := time.Now().UTC()
	query := `
		INSERT INTO categories (id, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, description, created_at, updated_at`

	err := r.DB.QueryRowContext(ctxTimeout, query, uuid.NewString(), category.Description, now, now).Scan(
		&category.ID, &category.Description, &category.CreatedAt, &category.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir categoria no DB.", err)
		return domain.Category{}, apperror.NewDBError("Falha ao criar categoria", err)
	}

	r.logger.Info("Categoria criada com sucesso.", map[string]interface{}{"id": category.ID})
	return category, nil
}

// FindByID busca a categoria com seus itens.
func (r *CategoryRepository) FindByID(ctx context.Context, id string) (domain.Category, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
		SELECT c.id, c.description, c.created_at, c.updated_at,
		       i.id, i.description, i.unit_price, i.created_at, i.updated_at
		FROM categories c
		LEFT JOIN items i ON i.category_id = c.id
		WHERE c.id = $1
		ORDER BY i.description`

	rows, err := r.DB.QueryContext(ctxTimeout, query, id)
	if err != nil {
		r.logger.Error("Falha ao buscar categoria no DB.", err)
		return domain.Category{}, apperror.NewDBError("Falha ao buscar categoria", err)
	}
	defer rows.Close()

	var (
		category domain.Category
		found    bool
	)
	for rows.Next() {
		var (
			itemID, itemDesc             sql.NullString
			itemPrice                    decimal.NullDecimal
			itemCreatedAt, itemUpdatedAt sql.NullTime
		)
		if err := rows.Scan(
			&category.ID, &category.Description, &category.CreatedAt, &category.UpdatedAt,
			&itemID, &itemDesc, &itemPrice, &itemCreatedAt, &itemUpdatedAt,
		); err != nil {
			return domain.Category{}, apperror.NewDBError("Falha ao ler categoria", err)
		}
		found = true
		if itemID.Valid {
			category.Items = append(category.Items, domain.Item{
				ID:                  itemID.String,
				Description:         itemDesc.String,
				UnitPrice:           itemPrice.Decimal,
				CategoryID:          category.ID,
				CategoryDescription: category.Description,
				CreatedAt:           itemCreatedAt.Time,
				UpdatedAt:           itemUpdatedAt.Time,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return domain.Category{}, apperror.NewDBError("Falha ao iterar categoria", err)
	}
	if !found {
		r.logger.Info("Categoria não encontrada.", map[string]interface{}{"id": id})
		return domain.Category{}, apperror.NewNotFoundError(fmt.Sprintf("Categoria com ID %s não encontrada.", id))
	}
	if category.Items == nil {
		category.Items = []domain.Item{}
	}
	return category, nil
}

// FindAll lista as categorias em ordem alfabética.
func (r *CategoryRepository) FindAll(ctx context.Context) ([]domain.Category, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, `SELECT id, description, created_at, updated_at FROM categories ORDER BY description`)
	if err != nil {
		r.logger.Error("Falha ao listar categorias.", err)
		return nil, apperror.NewDBError("Falha ao listar categorias", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, apperror.NewDBError("Falha ao ler categoria", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar categorias", err)
	}
	return categories, nil
}

// Update altera a descrição da categoria.
func (r *CategoryRepository) Update(ctx context.Context, category domain.Category) (domain.Category, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
		UPDATE categories SET description = $1, updated_at = $2
		WHERE id = $3
		RETURNING id, description, created_at, updated_at`

	err := r.DB.QueryRowContext(ctxTimeout, query, category.Description, time.Now().UTC(), category.ID).Scan(
		&category.ID, &category.Description, &category.CreatedAt, &category.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Category{}, apperror.NewNotFoundError(fmt.Sprintf("Categoria com ID %s não encontrada.", category.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar categoria.", err)
		return domain.Category{}, apperror.NewDBError("Falha ao atualizar categoria", err)
	}

	r.invalidateCatalog(ctx)
	r.logger.Info("Categoria atualizada.", map[string]interface{}{"id": category.ID})
	return category, nil
}

// Delete remove a categoria. Itens vinculados bloqueiam a exclusão (FK RESTRICT -> ConflictError).
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar categoria.", err)
		return apperror.NewDBError("Não é possível deletar a categoria", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		r.logger.Info("Categoria não encontrada para exclusão.", map[string]interface{}{"id": id})
		return apperror.NewNotFoundError(fmt.Sprintf("Categoria com ID %s não encontrada.", id))
	}

	r.invalidateCatalog(ctx)
	r.logger.Info("Categoria deletada.", map[string]interface{}{"id": id})
	return nil
}

func (r *CategoryRepository) invalidateCatalog(ctx context.Context) {
	if r.Cache == nil {
		return
	}
	if err := r.Cache.DeleteByPrefix(ctx, cache.CatalogPrefix); err != nil {
		r.logger.Warn("Falha ao invalidar cache do cardápio.", map[string]interface{}{"error": err.Error()})
	}
}
