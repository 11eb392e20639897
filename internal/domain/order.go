package domain

import (
	"context"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod é a forma de pagamento registrada no pedido.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "CASH"
	PaymentDebit  PaymentMethod = "DEBIT"
	PaymentCredit PaymentMethod = "CREDIT"
	PaymentPix    PaymentMethod = "PIX"
)

// IsValid indica se a forma de pagamento é conhecida.
func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentCash, PaymentDebit, PaymentCredit, PaymentPix:
		return true
	}
	return false
}

// OrderStatus é o estado do pedido no ciclo de vida.
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusPreparing  OrderStatus = "PREPARING"
	StatusDelivering OrderStatus = "DELIVERING"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// orderStatusTransitions lista os destinos permitidos a partir de cada estado.
// DELIVERED e CANCELLED são terminais.
var orderStatusTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusPreparing, StatusCancelled},
	StatusPreparing:  {StatusDelivering, StatusCancelled},
	StatusDelivering: {StatusDelivered, StatusCancelled},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

func (s OrderStatus) String() string { return string(s) }

// IsValid indica se o status é um dos cinco valores conhecidos.
func (s OrderStatus) IsValid() bool {
	_, ok := orderStatusTransitions[s]
	return ok
}

// IsTerminal indica que nenhuma transição é permitida a partir de s.
func (s OrderStatus) IsTerminal() bool {
	return s.IsValid() && len(orderStatusTransitions[s]) == 0
}

// CanTransitionTo indica se a máquina de estados permite s -> target.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	return slices.Contains(orderStatusTransitions[s], target)
}

// MaxLineQuantity é a quantidade máxima de um item numa linha do carrinho.
const MaxLineQuantity = 1000

// MaxOrderTotal é o maior total aceito para um pedido.
var MaxOrderTotal = decimal.NewFromInt(1_000_000)

// Order é o cabeçalho do pedido junto com suas linhas (o agregado).
// Total e DeliveryAddress são gravados na criação e nunca recalculados.
// AddressID fica vazio depois que o endereço de origem é excluído.
type Order struct {
	ID              string          `json:"id"`
	ClientID        string          `json:"clientId"`
	CreatedByID     string          `json:"createdById"`
	AddressID       string          `json:"addressId,omitempty"`
	DeliveryAddress DeliveryAddress `json:"deliveryAddress"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	Status          OrderStatus     `json:"status"`
	Total           decimal.Decimal `json:"total" swaggertype:"string" example:"45.8"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	Client          *OrderClient    `json:"client,omitempty"`
	Items           []OrderItem     `json:"orderItems"`
}

// DeliveryAddress é a cópia do endereço de entrega feita quando o pedido é criado.
type DeliveryAddress struct {
	Street   string `json:"street"`
	Number   string `json:"number"`
	District string `json:"district"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zipCode"`
}

// SnapshotOf copia os campos de entrega de um endereço cadastrado.
func SnapshotOf(a Address) DeliveryAddress {
	return DeliveryAddress{
		Street:   a.Street,
		Number:   a.Number,
		District: a.District,
		City:     a.City,
		State:    a.State,
		ZipCode:  a.ZipCode,
	}
}

// OrderClient é a identificação do comprador exibida para administradores.
type OrderClient struct {
	Nome  string `json:"nome"`
	Phone string `json:"phone"`
}

// OrderItem é uma linha do pedido. UnitPrice é o preço do item no momento da compra.
type OrderItem struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"orderId"`
	ItemID      string          `json:"itemId"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice" swaggertype:"string" example:"15.9"`
	Subtotal    decimal.Decimal `json:"subtotal" swaggertype:"string" example:"31.8"`
}

// MyOrder é a projeção reduzida devolvida ao próprio cliente.
type MyOrder struct {
	ID              string          `json:"id"`
	DeliveryAddress DeliveryAddress `json:"deliveryAddress"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	Status          OrderStatus     `json:"status"`
	Total           decimal.Decimal `json:"total" swaggertype:"string" example:"45.8"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	Items           []OrderItem     `json:"orderItems"`
}

// ToMyOrder remove do pedido os dados de identificação do cliente.
func (o Order) ToMyOrder() MyOrder {
	return MyOrder{
		ID:              o.ID,
		DeliveryAddress: o.DeliveryAddress,
		PaymentMethod:   o.PaymentMethod,
		Status:          o.Status,
		Total:           o.Total,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Items:           o.Items,
	}
}

// PlaceOrderRequest é o payload de criação de pedido.
type PlaceOrderRequest struct {
	AddressID     string             `json:"addressId,omitempty"`
	PaymentMethod PaymentMethod      `json:"paymentMethod" validate:"required,oneof=CASH DEBIT CREDIT PIX"`
	Items         []OrderLineRequest `json:"items" validate:"required,min=1,dive"`
}

// OrderLineRequest é uma linha do carrinho.
type OrderLineRequest struct {
	ItemID   string `json:"itemId" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0,lte=1000"`
}

// UpdateOrderStatusRequest é o payload de mudança de status.
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=PENDING PREPARING DELIVERING DELIVERED CANCELLED"`
}

// ItemPrice é o preço de um item lido dentro da transação do pedido.
type ItemPrice struct {
	ItemID      string
	Description string
	UnitPrice   decimal.Decimal
}

// OrderFilter restringe a listagem. ClientID vazio lista todos os pedidos.
type OrderFilter struct {
	ClientID string
}

// OrderTx é a visão transacional usada na criação do pedido. Tudo que for
// executado por ela é confirmado ou desfeito em conjunto.
type OrderTx interface {
	// LockItemPrices lê os preços atuais bloqueando alterações concorrentes até o fim da transação.
	// IDs que não são UUID válidos ficam fora do mapa, como itens inexistentes.
	LockItemPrices(ctx context.Context, itemIDs []string) (map[string]ItemPrice, error)
	InsertOrder(ctx context.Context, order *Order) error
	InsertOrderItems(ctx context.Context, orderID string, items []OrderItem) error
}

// OrderRepository define o contrato de persistência do agregado Order.
type OrderRepository interface {
	WithinTransaction(ctx context.Context, fn func(tx OrderTx) error) error
	FindByID(ctx context.Context, id string) (Order, error)
	List(ctx context.Context, filter OrderFilter) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, from, to OrderStatus) (Order, error)
}
