package domain

import (
	"context"
	"time"
)

// Address é o endereço de entrega de um usuário. Cada usuário possui no máximo um.
type Address struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Street    string    `json:"street"`
	Number    string    `json:"number"`
	District  string    `json:"district"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	ZipCode   string    `json:"zipCode"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AddressRequest é o payload de criação e atualização de endereço.
type AddressRequest struct {
	Street   string `json:"street" validate:"required,min=5,max=200"`
	Number   string `json:"number" validate:"required,min=2,max=10"`
	District string `json:"district" validate:"required,min=3,max=100"`
	City     string `json:"city" validate:"required,min=2,max=100"`
	State    string `json:"state" validate:"required,len=2,uf"`
	ZipCode  string `json:"zipCode" validate:"required,zipcode"`
}

// AddressRepository define o contrato de persistência de endereços.
type AddressRepository interface {
	Save(ctx context.Context, address Address) (Address, error)
	FindByID(ctx context.Context, id string) (Address, error)
	FindByUserID(ctx context.Context, userID string) (Address, error)
	Update(ctx context.Context, address Address) (Address, error)
	DeleteByUserID(ctx context.Context, userID string) error
}
