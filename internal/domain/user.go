package domain

import (
	"context"
	"time"
)

// User representa a entidade do usuário no sistema.
type User struct {
	ID           string    `json:"id"`
	Nome         string    `json:"nome"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	Type         UserType  `json:"type"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Address      *Address  `json:"address,omitempty"`
}

// UserType é o papel do usuário no sistema.
type UserType string

const (
	UserTypeClient UserType = "CLIENT"
	UserTypeAdmin  UserType = "ADMIN"
)

// IsValid indica se o tipo é um dos papéis conhecidos.
func (t UserType) IsValid() bool {
	return t == UserTypeClient || t == UserTypeAdmin
}

// Caller é a identidade já autenticada de quem faz a requisição.
type Caller struct {
	ID    string
	Role  UserType
	Phone string
}

// IsAdmin indica se o chamador é administrador.
func (c Caller) IsAdmin() bool { return c.Role == UserTypeAdmin }

// RegisterUserRequest é o payload de cadastro.
type RegisterUserRequest struct {
	Nome     string   `json:"nome" validate:"required,min=4,max=100,personname"`
	Phone    string   `json:"phone" validate:"required,br_phone"`
	Password string   `json:"password" validate:"required,min=6,max=100,password"`
	Type     UserType `json:"type,omitempty" validate:"omitempty,oneof=CLIENT ADMIN"`
}

// LoginRequest é o payload de login.
type LoginRequest struct {
	Phone    string `json:"phone" validate:"required,br_phone"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse devolve o token emitido e o usuário autenticado.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ChangePasswordRequest é o payload de troca de senha.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=100,password"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

// UpdateUserTypeRequest é o payload de alteração de papel.
type UpdateUserTypeRequest struct {
	Type UserType `json:"type" validate:"required,oneof=CLIENT ADMIN"`
}

// UserRepository define o contrato de persistência para a entidade User.
type UserRepository interface {
	Save(ctx context.Context, user User) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
	FindByPhone(ctx context.Context, phone string) (User, error)
	FindAll(ctx context.Context) ([]User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateType(ctx context.Context, id string, userType UserType) (User, error)
	Delete(ctx context.Context, id string) error
}
