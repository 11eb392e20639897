package orderservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"uaifood/internal/domain"
	apperror "uaifood/internal/errors"
	"uaifood/internal/pkg/logger"
	"uaifood/internal/pkg/metrics"
	"uaifood/internal/pkg/validation"
)

// OrderService concentra a criação de pedidos, a listagem por papel e a
// máquina de estados do status.
type OrderService struct {
	OrderRepo   domain.OrderRepository
	AddressRepo domain.AddressRepository
	TxTimeout   time.Duration
	metrics     *metrics.Metrics
	logger      logger.Logger
}

// NewService cria uma nova instância do OrderService.
func NewService(orderRepo domain.OrderRepository, addressRepo domain.AddressRepository, txTimeout time.Duration, m *metrics.Metrics, logger logger.Logger) *OrderService {
	return &OrderService{
		OrderRepo:   orderRepo,
		AddressRepo: addressRepo,
		TxTimeout:   txTimeout,
		metrics:     m,
		logger:      logger,
	}
}

// PlaceOrder valida o pedido, confere o endereço de entrega e, numa única
// transação, lê os preços atuais, calcula o total e grava cabeçalho e linhas.
func (s *OrderService) PlaceOrder(ctx context.Context, caller domain.Caller, req domain.PlaceOrderRequest) (domain.Order, error) {
	order, err := s.placeOrder(ctx, caller, req)
	if err != nil {
		_, category, _ := apperror.MapToHTTPStatus(err)
		s.metrics.OrderFailed(category)
		return domain.Order{}, err
	}

	s.metrics.OrderPlaced(string(order.PaymentMethod), order.Total)
	s.logger.Info("Pedido criado com sucesso.", map[string]interface{}{
		"order_id":  order.ID,
		"client_id": order.ClientID,
		"total":     order.Total.String(),
		"lines":     len(order.Items),
	})
	return order, nil
}

func (s *OrderService) placeOrder(ctx context.Context, caller domain.Caller, req domain.PlaceOrderRequest) (domain.Order, error) {
	// 1. Validação do payload (antes de qualquer escrita)
	if err := validation.Struct(req); err != nil {
		return domain.Order{}, err
	}

	// 2. Endereço de entrega
	address, err := s.resolveAddress(ctx, caller.ID, req.AddressID)
	if err != nil {
		return domain.Order{}, err
	}
	cart := normalizeItemIDs(req.Items)

	// 3. Transação única: preços + cabeçalho + linhas
	txCtx, cancel := context.WithTimeout(ctx, s.TxTimeout)
	defer cancel()

	var order domain.Order
	err = s.OrderRepo.WithinTransaction(txCtx, func(tx domain.OrderTx) error {
		prices, err := tx.LockItemPrices(txCtx, distinctItemIDs(cart))
		if err != nil {
			return err
		}

		lines, total, missing := priceLines(cart, prices)
		if len(missing) > 0 {
			return apperror.NewItemNotFoundError(missing)
		}
		if total.GreaterThan(domain.MaxOrderTotal) {
			return apperror.NewFieldValidationError("Total do pedido excede o limite permitido.", map[string]string{
				"items": fmt.Sprintf("o total %s ultrapassa o máximo de %s", total.StringFixed(2), domain.MaxOrderTotal.StringFixed(2)),
			})
		}

		order = domain.Order{
			ClientID:        caller.ID,
			CreatedByID:     caller.ID,
			AddressID:       address.ID,
			DeliveryAddress: domain.SnapshotOf(address),
			PaymentMethod:   req.PaymentMethod,
			Status:          domain.StatusPending,
			Total:           total,
		}
		if err := tx.InsertOrder(txCtx, &order); err != nil {
			return err
		}
		if err := tx.InsertOrderItems(txCtx, order.ID, lines); err != nil {
			return err
		}
		order.Items = lines
		return nil
	})
	if err != nil {
		return domain.Order{}, s.translateTxError(txCtx, err)
	}
	return order, nil
}

// resolveAddress devolve o endereço informado (se for do chamador) ou o endereço cadastrado.
func (s *OrderService) resolveAddress(ctx context.Context, callerID, addressID string) (domain.Address, error) {
	if addressID == "" {
		address, err := s.AddressRepo.FindByUserID(ctx, callerID)
		if err != nil {
			var notFound *apperror.NotFoundError
			if errors.As(err, &notFound) {
				return domain.Address{}, apperror.NewAddressRequiredError("Usuário não possui endereço cadastrado.")
			}
			return domain.Address{}, err
		}
		return address, nil
	}

	address, err := s.AddressRepo.FindByID(ctx, addressID)
	if err != nil {
		var notFound *apperror.NotFoundError
		if errors.As(err, &notFound) {
			return domain.Address{}, apperror.NewAddressRequiredError("Endereço de entrega não encontrado para este usuário.")
		}
		return domain.Address{}, err
	}
	if address.UserID != callerID {
		return domain.Address{}, apperror.NewAddressRequiredError("Endereço de entrega não encontrado para este usuário.")
	}
	return address, nil
}

func (s *OrderService) translateTxError(txCtx context.Context, err error) error {
	if errors.Is(txCtx.Err(), context.DeadlineExceeded) {
		s.logger.Error("Tempo limite da transação do pedido excedido; rollback executado.", err)
		return apperror.NewInternalError("Tempo limite excedido ao criar o pedido. Nenhuma alteração foi gravada.", err)
	}

	var appErr apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	s.logger.Error("Falha na transação do pedido.", err)
	return apperror.NewInternalError("Falha ao criar pedido.", err)
}

// normalizeItemIDs devolve uma cópia do carrinho com os IDs em forma canônica
// (UUID minúsculo). IDs que não são UUID seguem como vieram e resultam em item
// não encontrado.
func normalizeItemIDs(lines []domain.OrderLineRequest) []domain.OrderLineRequest {
	out := make([]domain.OrderLineRequest, len(lines))
	for i, l := range lines {
		if id, err := uuid.Parse(l.ItemID); err == nil {
			l.ItemID = id.String()
		}
		out[i] = l
	}
	return out
}

// distinctItemIDs devolve os IDs sem repetição, na ordem do carrinho.
func distinctItemIDs(lines []domain.OrderLineRequest) []string {
	seen := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ItemID]; ok {
			continue
		}
		seen[l.ItemID] = struct{}{}
		ids = append(ids, l.ItemID)
	}
	return ids
}

// priceLines congela o preço de cada linha e soma o total.
// missing lista os IDs sem preço no catálogo, sem repetição.
func priceLines(lines []domain.OrderLineRequest, prices map[string]domain.ItemPrice) ([]domain.OrderItem, decimal.Decimal, []string) {
	var (
		items       = make([]domain.OrderItem, 0, len(lines))
		total       = decimal.Zero
		missing     []string
		seenMissing = map[string]bool{}
	)
	for _, l := range lines {
		p, ok := prices[l.ItemID]
		if !ok {
			if !seenMissing[l.ItemID] {
				seenMissing[l.ItemID] = true
				missing = append(missing, l.ItemID)
			}
			continue
		}
		subtotal := p.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
		total = total.Add(subtotal)
		items = append(items, domain.OrderItem{
			ItemID:      l.ItemID,
			Description: p.Description,
			Quantity:    l.Quantity,
			UnitPrice:   p.UnitPrice,
			Subtotal:    subtotal,
		})
	}
	return items, total, missing
}

// ListOrders devolve todos os pedidos para ADMIN e apenas os do próprio cliente para CLIENT.
func (s *OrderService) ListOrders(ctx context.Context, caller domain.Caller) ([]domain.Order, error) {
	var filter domain.OrderFilter
	switch caller.Role {
	case domain.UserTypeAdmin:
	case domain.UserTypeClient:
		filter.ClientID = caller.ID
	default:
		return nil, apperror.NewForbiddenError("Tipo de usuário sem acesso a pedidos.")
	}

	orders, err := s.OrderRepo.List(ctx, filter)
	if err != nil {
		return nil, wrapRepoError("Falha interna ao listar pedidos.", err)
	}
	return orders, nil
}

// ListMyOrders lista sempre os pedidos do próprio chamador, sem os dados do cliente.
func (s *OrderService) ListMyOrders(ctx context.Context, caller domain.Caller) ([]domain.MyOrder, error) {
	orders, err := s.OrderRepo.List(ctx, domain.OrderFilter{ClientID: caller.ID})
	if err != nil {
		return nil, wrapRepoError("Falha interna ao listar pedidos.", err)
	}

	mine := make([]domain.MyOrder, 0, len(orders))
	for _, o := range orders {
		mine = append(mine, o.ToMyOrder())
	}
	return mine, nil
}

// GetOrder busca um pedido. Clientes só enxergam os próprios pedidos; os demais
// são reportados como inexistentes.
func (s *OrderService) GetOrder(ctx context.Context, caller domain.Caller, orderID string) (domain.Order, error) {
	order, err := s.OrderRepo.FindByID(ctx, orderID)
	if err != nil {
		return domain.Order{}, wrapRepoError("Falha interna ao buscar pedido.", err)
	}
	if !caller.IsAdmin() && order.ClientID != caller.ID {
		return domain.Order{}, apperror.NewNotFoundError(fmt.Sprintf("Pedido com ID %s não encontrado.", orderID))
	}
	return order, nil
}

// UpdateOrderStatus aplica uma transição da máquina de estados. Apenas ADMIN.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, caller domain.Caller, orderID string, newStatus domain.OrderStatus) (domain.Order, error) {
	// 1. Autorização
	if !caller.IsAdmin() {
		s.logger.Warn("Tentativa de alterar status sem permissão.", map[string]interface{}{"user_id": caller.ID, "order_id": orderID})
		return domain.Order{}, apperror.NewForbiddenError("Apenas administradores podem alterar o status do pedido.")
	}

	// 2. Validação do valor
	if err := validation.Struct(domain.UpdateOrderStatusRequest{Status: newStatus}); err != nil {
		return domain.Order{}, err
	}

	// 3. Estado atual e legalidade da transição
	current, err := s.OrderRepo.FindByID(ctx, orderID)
	if err != nil {
		return domain.Order{}, wrapRepoError("Falha interna ao buscar pedido.", err)
	}
	if !current.Status.CanTransitionTo(newStatus) {
		return domain.Order{}, apperror.NewInvalidTransitionError(current.Status.String(), newStatus.String())
	}

	// 4. Atualização condicional ao status lido
	updated, err := s.OrderRepo.UpdateStatus(ctx, orderID, current.Status, newStatus)
	if err != nil {
		return domain.Order{}, wrapRepoError("Falha interna ao atualizar status do pedido.", err)
	}

	s.metrics.StatusTransition(current.Status.String(), newStatus.String())
	s.logger.Info("Status do pedido alterado.", map[string]interface{}{
		"order_id": orderID,
		"from":     current.Status,
		"to":       newStatus,
		"admin_id": caller.ID,
	})
	return updated, nil
}

// wrapRepoError mantém erros tipados e encapsula o resto como InternalError.
func wrapRepoError(msg string, err error) error {
	var appErr apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.NewInternalError(msg, err)
}
