package itemrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"uaifood/internal/domain"
	apperror "uaifood/internal/errors"
	"uaifood/internal/pkg/cache"
	"uaifood/internal/pkg/logger"
)

const itemSelect = `
	SELECT i.id, i.description, i.unit_price, i.category_id, c.description, i.created_at, i.updated_at
	FROM items i
	JOIN categories c ON c.id = i.category_id`

// ItemRepository implementa domain.ItemRepository com cache-aside no Redis
// para as leituras públicas do cardápio.
type ItemRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	CacheTTL  time.Duration
	logger    logger.Logger
}

// NewItemRepository cria e retorna uma nova instância do repositório de itens.
func NewItemRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, logger logger.Logger) *ItemRepository {
	return &ItemRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
		logger:    logger,
	}
}

func scanItem(row interface{ Scan(...any) error }) (domain.Item, error) {
	var it domain.Item
	err := row.Scan(&it.ID, &it.Description, &it.UnitPrice, &it.CategoryID, &it.CategoryDescription, &it.CreatedAt, &it.UpdatedAt)
	return it, err
}

// Save insere um novo item. Categoria inexistente é verificada pelo serviço antes.
func (r *ItemRepository) Save(ctx context.Context, item domain.Item) (domain.Item, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	item.ID = uuid.NewString()
	item.CreatedAt = time.Now().UTC()
	item.UpdatedAt = item.CreatedAt

	_, err := r.DB.ExecContext(ctxTimeout,
		`INSERT INTO items (id, description, unit_price, category_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		item.ID, item.Description, item.UnitPrice, item.CategoryID, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir item no DB.", err)
		return domain.Item{}, apperror.NewDBError("Falha ao criar item", err)
	}

	r.invalidate(ctx)
	r.logger.Info("Item criado com sucesso.", map[string]interface{}{"item_id": item.ID})
	return item, nil
}

// FindByID usa cache-aside: tenta o Redis, cai para o PostgreSQL e popula o cache.
func (r *ItemRepository) FindByID(ctx context.Context, id string) (domain.Item, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := cache.ItemKey(id)
	var item domain.Item
	if r.readCache(ctxTimeout, key, &item) {
		return item, nil
	}

	item, err := scanItem(r.DB.QueryRowContext(ctxTimeout, itemSelect+` WHERE i.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Info("Item não encontrado.", map[string]interface{}{"item_id": id})
		return domain.Item{}, apperror.NewNotFoundError(fmt.Sprintf("Item com ID %s não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar item no DB.", err)
		return domain.Item{}, apperror.NewDBError("Falha ao buscar item", err)
	}

	r.writeCache(ctxTimeout, key, item)
	return item, nil
}

// FindAll lista o cardápio filtrando por categoria e por trecho da descrição.
func (r *ItemRepository) FindAll(ctx context.Context, filter domain.ItemFilter) ([]domain.Item, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := cache.ItemListKey(filter.CategoryID, filter.Search)
	var cached []domain.Item
	if r.readCache(ctxTimeout, key, &cached) {
		return cached, nil
	}

	var (
		conds []string
		args  []any
	)
	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		conds = append(conds, fmt.Sprintf("i.category_id = $%d", len(args)))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, "%"+s+"%")
		conds = append(conds, fmt.Sprintf("i.description ILIKE $%d", len(args)))
	}
	query := itemSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY c.description, i.description"

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao listar itens.", err)
		return nil, apperror.NewDBError("Falha ao listar itens", err)
	}
	defer rows.Close()

	items, err := r.collect(rows)
	if err != nil {
		return nil, err
	}
	r.writeCache(ctxTimeout, key, items)
	return items, nil
}

// Update altera o item e invalida o cache do cardápio. Pedidos existentes não
// são afetados porque guardam o preço da época da compra.
func (r *ItemRepository) Update(ctx context.Context, item domain.Item) (domain.Item, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout,
		`UPDATE items SET description = $1, unit_price = $2, category_id = $3, updated_at = $4 WHERE id = $5`,
		item.Description, item.UnitPrice, item.CategoryID, time.Now().UTC(), item.ID,
	)
	if err != nil {
		r.logger.Error("Falha ao atualizar item.", err)
		return domain.Item{}, apperror.NewDBError("Falha ao atualizar item", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return domain.Item{}, apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	} else if n == 0 {
		return domain.Item{}, apperror.NewNotFoundError(fmt.Sprintf("Item com ID %s não encontrado.", item.ID))
	}

	r.invalidate(ctx)

	updated, err := scanItem(r.DB.QueryRowContext(ctxTimeout, itemSelect+` WHERE i.id = $1`, item.ID))
	if err != nil {
		return domain.Item{}, apperror.NewDBError("Falha ao reler item", err)
	}
	r.logger.Info("Item atualizado.", map[string]interface{}{"item_id": item.ID})
	return updated, nil
}

// Delete remove o item. Itens presentes em pedidos são protegidos pela FK (ConflictError).
func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar item.", err)
		return apperror.NewDBError("Não é possível deletar o item", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if n == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Item com ID %s não encontrado.", id))
	}

	r.invalidate(ctx)
	r.logger.Info("Item deletado.", map[string]interface{}{"item_id": id})
	return nil
}

func (r *ItemRepository) collect(rows *sql.Rows) ([]domain.Item, error) {
	items := []domain.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, apperror.NewDBError("Falha ao ler item", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar itens", err)
	}
	return items, nil
}

// readCache devolve true em cache HIT. Falhas do Redis são apenas registradas.
func (r *ItemRepository) readCache(ctx context.Context, key string, dest any) bool {
	if r.Cache == nil {
		return false
	}
	data, err := r.Cache.Get(ctx, key)
	if err != nil {
		if err != cache.ErrCacheMiss {
			r.logger.Warn("Falha ao ler do cache.", map[string]interface{}{"key": key, "error": err.Error()})
		}
		return false
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		r.logger.Warn("Entrada de cache corrompida.", map[string]interface{}{"key": key})
		return false
	}
	r.logger.Debug("Cache HIT.", map[string]interface{}{"key": key})
	return true
}

func (r *ItemRepository) writeCache(ctx context.Context, key string, value any) {
	if r.Cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, r.CacheTTL); err != nil {
		r.logger.Warn("Falha ao gravar no cache.", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

func (r *ItemRepository) invalidate(ctx context.Context) {
	if r.Cache == nil {
		return
	}
	if err := r.Cache.DeleteByPrefix(ctx, cache.CatalogPrefix); err != nil {
		r.logger.Warn("Falha ao invalidar cache do cardápio.", map[string]interface{}{"error": err.Error()})
	}
}
