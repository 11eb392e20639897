package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Category agrupa itens do cardápio.
type Category struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Items       []Item    `json:"items,omitempty"`
}

// CategoryRequest é o payload de criação e atualização de categoria.
type CategoryRequest struct {
	Description string `json:"description" validate:"required,min=3,max=100"`
}

// Item é um produto do cardápio. UnitPrice é o preço vigente; pedidos guardam
// a sua própria cópia do preço no momento da compra.
type Item struct {
	ID                  string          `json:"id"`
	Description         string          `json:"description"`
	UnitPrice           decimal.Decimal `json:"unitPrice" swaggertype:"string" example:"15.9"`
	CategoryID          string          `json:"categoryId"`
	CategoryDescription string          `json:"categoryDescription,omitempty"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}

// ItemRequest é o payload de criação e atualização de item.
type ItemRequest struct {
	Description string          `json:"description" validate:"required,min=3,max=200"`
	UnitPrice   decimal.Decimal `json:"unitPrice" validate:"required,gt=0" swaggertype:"string" example:"15.9"`
	CategoryID  string          `json:"categoryId" validate:"required"`
}

// ItemFilter define os filtros da listagem pública do cardápio.
type ItemFilter struct {
	CategoryID string
	Search     string
}

// CategoryRepository define o contrato de persistência de categorias.
type CategoryRepository interface {
	Save(ctx context.Context, category Category) (Category, error)
	FindByID(ctx context.Context, id string) (Category, error)
	FindAll(ctx context.Context) ([]Category, error)
	Update(ctx context.Context, category Category) (Category, error)
	Delete(ctx context.Context, id string) error
}

// ItemRepository define o contrato de persistência de itens.
type ItemRepository interface {
	Save(ctx context.Context, item Item) (Item, error)
	FindByID(ctx context.Context, id string) (Item, error)
	FindAll(ctx context.Context, filter ItemFilter) ([]Item, error)
	Update(ctx context.Context, item Item) (Item, error)
	Delete(ctx context.Context, id string) error
}
