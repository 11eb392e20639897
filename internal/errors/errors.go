package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/lib/pq"
)

// AppError é a interface central para todos os erros customizados do UaiFood.
// Ela permite que o Handler acesse a Categoria, o status HTTP e a Mensagem do erro.
type AppError interface {
	Error() string
	Category() string
	HTTPStatus() int
	Unwrap() error
}

// Códigos de erro de pré-condição expostos ao cliente.
const (
	CategoryAddressRequired = "ADDRESS_REQUIRED"
	CategoryItemNotFound    = "ITEM_NOT_FOUND"
)

// Códigos SQLSTATE do PostgreSQL traduzidos para erros de domínio.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqInvalidText         = "22P02"
)

// --- Erros de Domínio ---

// ValidationError representa falhas de validação de dados de entrada.
// Fields carrega o detalhe por campo (nome do campo JSON -> motivo).
type ValidationError struct {
	Msg    string
	Fields map[string]string
}

func (e *ValidationError) Error() string    { return fmt.Sprintf("Erro de Validação: %s", e.Msg) }
func (e *ValidationError) Category() string { return "VALIDATION_ERROR" }
func (e *ValidationError) HTTPStatus() int  { return http.StatusBadRequest }
func (e *ValidationError) Unwrap() error    { return nil }

// NewValidationError cria um novo erro de validação.
func NewValidationError(msg string) AppError {
	return &ValidationError{Msg: msg}
}

// NewFieldValidationError cria um erro de validação com detalhes por campo.
func NewFieldValidationError(msg string, fields map[string]string) AppError {
	return &ValidationError{Msg: msg, Fields: fields}
}

// PreconditionError indica que a requisição é bem formada, mas o estado atual
// do sistema impede a operação (sem endereço, item inexistente).
type PreconditionError struct {
	Code string
	Msg  string
}

func (e *PreconditionError) Error() string    { return e.Msg }
func (e *PreconditionError) Category() string { return e.Code }
func (e *PreconditionError) HTTPStatus() int  { return http.StatusBadRequest }
func (e *PreconditionError) Unwrap() error    { return nil }

// NewAddressRequiredError sinaliza que o cliente não possui endereço de entrega.
func NewAddressRequiredError(msg string) AppError {
	return &PreconditionError{Code: CategoryAddressRequired, Msg: msg}
}

// NewItemNotFoundError lista os itens do pedido que não existem no catálogo.
func NewItemNotFoundError(missingIDs []string) AppError {
	return &PreconditionError{
		Code: CategoryItemNotFound,
		Msg:  fmt.Sprintf("Um ou mais itens do pedido não foram encontrados: %s", strings.Join(missingIDs, ", ")),
	}
}

// NotFoundError representa a ausência de um recurso solicitado.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string    { return fmt.Sprintf("Recurso não encontrado: %s", e.Msg) }
func (e *NotFoundError) Category() string { return "NOT_FOUND" }
func (e *NotFoundError) HTTPStatus() int  { return http.StatusNotFound }
func (e *NotFoundError) Unwrap() error    { return nil }

func NewNotFoundError(msg string) AppError {
	return &NotFoundError{Msg: msg}
}

// ConflictError representa um conflito na regra de negócio (recurso duplicado,
// exclusão bloqueada por dependentes).
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string    { return fmt.Sprintf("Conflito de estado: %s", e.Msg) }
func (e *ConflictError) Category() string { return "CONFLICT" }
func (e *ConflictError) HTTPStatus() int  { return http.StatusConflict }
func (e *ConflictError) Unwrap() error    { return nil }

func NewConflictError(msg string) AppError {
	return &ConflictError{Msg: msg}
}

// InvalidTransitionError é retornado quando a máquina de estados do pedido
// não permite a mudança de From para To.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("Transição de status inválida: %s → %s", e.From, e.To)
}
func (e *InvalidTransitionError) Category() string { return "INVALID_TRANSITION" }
func (e *InvalidTransitionError) HTTPStatus() int  { return http.StatusConflict }
func (e *InvalidTransitionError) Unwrap() error    { return nil }

func NewInvalidTransitionError(from, to string) AppError {
	return &InvalidTransitionError{From: from, To: to}
}

// UnauthorizedError representa falha de autenticação (token ausente, inválido ou credenciais erradas).
type UnauthorizedError struct {
	Msg string
}

func (e *UnauthorizedError) Error() string    { return fmt.Sprintf("Não autorizado: %s", e.Msg) }
func (e *UnauthorizedError) Category() string { return "UNAUTHORIZED" }
func (e *UnauthorizedError) HTTPStatus() int  { return http.StatusUnauthorized }
func (e *UnauthorizedError) Unwrap() error    { return nil }

func NewUnauthorizedError(msg string) AppError {
	return &UnauthorizedError{Msg: msg}
}

// ForbiddenError representa um usuário autenticado sem a permissão necessária.
type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string    { return fmt.Sprintf("Acesso negado: %s", e.Msg) }
func (e *ForbiddenError) Category() string { return "FORBIDDEN" }
func (e *ForbiddenError) HTTPStatus() int  { return http.StatusForbidden }
func (e *ForbiddenError) Unwrap() error    { return nil }

func NewForbiddenError(msg string) AppError {
	return &ForbiddenError{Msg: msg}
}

// --- Erros de Infraestrutura ---

// InternalError representa falhas inesperadas no servidor, serviço ou repositório.
// Err guarda o erro original para os logs; ele nunca é enviado ao cliente.
type InternalError struct {
	Msg string
	Err error
}

func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Erro Interno: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("Erro Interno: %s", e.Msg)
}
func (e *InternalError) Category() string { return "INTERNAL_ERROR" }
func (e *InternalError) HTTPStatus() int  { return http.StatusInternalServerError }
func (e *InternalError) Unwrap() error    { return e.Err }

func NewInternalError(msg string, err error) AppError {
	return &InternalError{Msg: msg, Err: err}
}

// NewDBError traduz um erro do driver. Violações de unicidade e de chave
// estrangeira viram ConflictError; o resto vira InternalError.
func NewDBError(msg string, err error) AppError {
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUniqueViolation:
			return NewConflictError(fmt.Sprintf("%s: registro duplicado", msg))
		case pqForeignKeyViolation:
			return NewConflictError(fmt.Sprintf("%s: registro referenciado por outros dados", msg))
		case pqInvalidText:
			// ID malformado numa coluna UUID: o registro não existe.
			return NewNotFoundError(fmt.Sprintf("%s: registro não encontrado", msg))
		}
	}
	return NewInternalError(msg, err)
}

// --- Helpers para o Handler ---

// MapToHTTPStatus traduz um erro para o código HTTP, a categoria e a mensagem pública.
func MapToHTTPStatus(err error) (int, string, string) {
	var internalErr *InternalError
	if stderrors.As(err, &internalErr) {
		return internalErr.HTTPStatus(), internalErr.Category(), fmt.Sprintf("Erro Interno: %s", internalErr.Msg)
	}

	var appErr AppError
	if stderrors.As(err, &appErr) {
		return appErr.HTTPStatus(), appErr.Category(), appErr.Error()
	}

	return http.StatusInternalServerError, "UNKNOWN_ERROR", "Ocorreu um erro inesperado."
}

// FieldDetails devolve os detalhes por campo de um ValidationError, se houver.
func FieldDetails(err error) map[string]string {
	var vErr *ValidationError
	if stderrors.As(err, &vErr) {
		return vErr.Fields
	}
	return nil
}
