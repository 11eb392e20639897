package orderrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"uaifood/internal/domain"
	apperror "uaifood/internal/errors"
	"uaifood/internal/pkg/database"
	"uaifood/internal/pkg/logger"
)

const orderSelect = `
	SELECT o.id, o.client_id, o.created_by_id, o.address_id,
	       o.delivery_street, o.delivery_number, o.delivery_district, o.delivery_city, o.delivery_state, o.delivery_zip_code,
	       o.payment_method, o.status, o.total, o.created_at, o.updated_at, u.nome, u.phone
	FROM orders o
	JOIN users u ON u.id = o.client_id`

const orderItemsSelect = `
	SELECT oi.id, oi.order_id, oi.item_id, i.description, oi.quantity, oi.unit_price
	FROM order_items oi
	JOIN items i ON i.id = oi.item_id
	WHERE oi.order_id = ANY($1)
	ORDER BY oi.order_id, oi.line_no`

// OrderRepository implementa domain.OrderRepository sobre o PostgreSQL.
type OrderRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewOrderRepository cria e retorna uma nova instância do repositório de pedidos.
func NewOrderRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *OrderRepository {
	return &OrderRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// WithinTransaction executa fn numa única transação do banco. O prazo da
// transação vem do ctx recebido; DBTimeout não é aplicado aqui.
func (r *OrderRepository) WithinTransaction(ctx context.Context, fn func(tx domain.OrderTx) error) error {
	return database.WithTransaction(ctx, r.DB, func(tx *sql.Tx) error {
		return fn(&orderTx{tx: tx, logger: r.logger})
	})
}

// orderTx implementa domain.OrderTx sobre um *sql.Tx.
type orderTx struct {
	tx     *sql.Tx
	logger logger.Logger
}

// LockItemPrices lê os preços com FOR SHARE: um UPDATE concorrente no item
// espera o commit do pedido, então o total usa um único retrato do catálogo.
// IDs que não são UUID não vão ao banco e ficam fora do mapa.
func (t *orderTx) LockItemPrices(ctx context.Context, itemIDs []string) (map[string]domain.ItemPrice, error) {
	ids := make([]string, 0, len(itemIDs))
	for _, raw := range itemIDs {
		if id, err := uuid.Parse(raw); err == nil {
			ids = append(ids, id.String())
		}
	}
	prices := make(map[string]domain.ItemPrice, len(ids))
	if len(ids) == 0 {
		return prices, nil
	}

	rows, err := t.tx.QueryContext(ctx,
		`SELECT id, description, unit_price FROM items WHERE id = ANY($1::uuid[]) FOR SHARE`,
		pq.Array(ids),
	)
	if err != nil {
		t.logger.Error("Falha ao ler preços dos itens na transação do pedido.", err)
		return nil, apperror.NewDBError("Falha ao ler preços dos itens", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.ItemPrice
		if err := rows.Scan(&p.ItemID, &p.Description, &p.UnitPrice); err != nil {
			return nil, apperror.NewDBError("Falha ao ler preço do item", err)
		}
		prices[p.ItemID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar preços dos itens", err)
	}
	return prices, nil
}

// InsertOrder grava o cabeçalho e preenche ID e timestamps em order.
func (t *orderTx) InsertOrder(ctx context.Context, order *domain.Order) error {
	order.ID = uuid.NewString()
	order.CreatedAt = time.Now().UTC()
	order.UpdatedAt = order.CreatedAt
	d := order.DeliveryAddress

	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO orders (id, client_id, created_by_id, address_id,
			delivery_street, delivery_number, delivery_district, delivery_city, delivery_state, delivery_zip_code,
			payment_method, status, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		order.ID, order.ClientID, order.CreatedByID, order.AddressID,
		d.Street, d.Number, d.District, d.City, d.State, d.ZipCode,
		order.PaymentMethod, order.Status, order.Total, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		t.logger.Error("Falha ao inserir cabeçalho do pedido.", err)
		return apperror.NewDBError("Falha ao criar pedido", err)
	}
	return nil
}

// InsertOrderItems grava as linhas na ordem recebida, preenchendo ID e OrderID.
func (t *orderTx) InsertOrderItems(ctx context.Context, orderID string, items []domain.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, line_no, item_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for i := range items {
		items[i].ID = uuid.NewString()
		items[i].OrderID = orderID
		_, err := t.tx.ExecContext(ctx, query,
			items[i].ID, orderID, i+1, items[i].ItemID, items[i].Quantity, items[i].UnitPrice,
		)
		if err != nil {
			t.logger.Error("Falha ao inserir linha do pedido.", err)
			return apperror.NewDBError(fmt.Sprintf("Falha ao inserir item %s do pedido", items[i].ItemID), err)
		}
	}
	return nil
}

// FindByID busca o pedido com suas linhas.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (domain.Order, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	order, err := scanOrder(r.DB.QueryRowContext(ctxTimeout, orderSelect+` WHERE o.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Info("Pedido não encontrado.", map[string]interface{}{"order_id": id})
		return domain.Order{}, apperror.NewNotFoundError(fmt.Sprintf("Pedido com ID %s não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar pedido no DB.", err)
		return domain.Order{}, apperror.NewDBError("Falha ao buscar pedido", err)
	}

	orders := []domain.Order{order}
	if err := r.attachItems(ctxTimeout, orders); err != nil {
		return domain.Order{}, err
	}
	return orders[0], nil
}

// List devolve os pedidos do filtro, mais recentes primeiro. O desempate por id
// mantém a ordem estável entre chamadas.
func (r *OrderRepository) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var (
		query strings.Builder
		args  []any
	)
	query.WriteString(orderSelect)
	if filter.ClientID != "" {
		args = append(args, filter.ClientID)
		query.WriteString(` WHERE o.client_id = $1`)
	}
	query.WriteString(` ORDER BY o.created_at DESC, o.id DESC`)

	rows, err := r.DB.QueryContext(ctxTimeout, query.String(), args...)
	if err != nil {
		r.logger.Error("Falha ao listar pedidos.", err)
		return nil, apperror.NewDBError("Falha ao listar pedidos", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, apperror.NewDBError("Falha ao ler pedido", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar pedidos", err)
	}

	if err := r.attachItems(ctxTimeout, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus aplica from -> to apenas se o pedido ainda estiver em from.
// Se outra requisição mudou o status antes, devolve ConflictError.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) (domain.Order, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout,
		`UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`,
		to, time.Now().UTC(), id, from,
	)
	if err != nil {
		r.logger.Error("Falha ao atualizar status do pedido.", err)
		return domain.Order{}, apperror.NewDBError("Falha ao atualizar status do pedido", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.Order{}, apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		var exists bool
		if err := r.DB.QueryRowContext(ctxTimeout, `SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
			return domain.Order{}, apperror.NewDBError("Falha ao verificar pedido", err)
		}
		if !exists {
			return domain.Order{}, apperror.NewNotFoundError(fmt.Sprintf("Pedido com ID %s não encontrado.", id))
		}
		r.logger.Warn("Status do pedido alterado por outra operação.", map[string]interface{}{"order_id": id, "expected_status": from})
		return domain.Order{}, apperror.NewConflictError("O status do pedido foi alterado por outra operação. Tente novamente.")
	}

	r.logger.Info("Status do pedido atualizado.", map[string]interface{}{"order_id": id, "from": from, "to": to})
	return r.FindByID(ctx, id)
}

func scanOrder(row interface{ Scan(...any) error }) (domain.Order, error) {
	var (
		o         domain.Order
		d         = &o.DeliveryAddress
		addressID sql.NullString
		client    domain.OrderClient
	)
	err := row.Scan(
		&o.ID, &o.ClientID, &o.CreatedByID, &addressID,
		&d.Street, &d.Number, &d.District, &d.City, &d.State, &d.ZipCode,
		&o.PaymentMethod, &o.Status, &o.Total, &o.CreatedAt, &o.UpdatedAt, &client.Nome, &client.Phone,
	)
	if err != nil {
		return domain.Order{}, err
	}
	o.AddressID = addressID.String
	o.Client = &client
	o.Items = []domain.OrderItem{}
	return o, nil
}

// attachItems carrega as linhas de todos os pedidos numa única consulta.
func (r *OrderRepository) attachItems(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, len(orders))
	index := make(map[string]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
	}

	rows, err := r.DB.QueryContext(ctx, orderItemsSelect, pq.Array(ids))
	if err != nil {
		r.logger.Error("Falha ao buscar linhas dos pedidos.", err)
		return apperror.NewDBError("Falha ao buscar itens dos pedidos", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			it        domain.OrderItem
			unitPrice decimal.Decimal
		)
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ItemID, &it.Description, &it.Quantity, &unitPrice); err != nil {
			return apperror.NewDBError("Falha ao ler linha do pedido", err)
		}
		it.UnitPrice = unitPrice
		it.Subtotal = unitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		if i, ok := index[it.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, it)
		}
	}
	if err := rows.Err(); err != nil {
		return apperror.NewDBError("Falha ao iterar linhas dos pedidos", err)
	}
	return nil
}
