package addressrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"uaifood/internal/domain"
	apperror "uaifood/internal/errors"
	"uaifood/internal/pkg/logger"
)

const addressColumns = `id, user_id, street, number, district, city, state, zip_code, created_at, updated_at`

// AddressRepository implementa domain.AddressRepository.
type AddressRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

func NewAddressRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *AddressRepository {
	return &AddressRepository{DB: db, DBTimeout: dbTimeout, logger: logger}
}

func scanAddress(row interface{ Scan(...any) error }) (domain.Address, error) {
	var a domain.Address
	err := row.Scan(&a.ID, &a.UserID, &a.Street, &a.Number, &a.District, &a.City, &a.State, &a.ZipCode, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// Save cria o endereço. A restrição UNIQUE(user_id) garante um endereço por usuário.
func (r *AddressRepository) Save(ctx context.Context, address domain.Address) (domain.Address, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	address.ID = uuid.NewString()
	address.CreatedAt = time.Now().UTC()
	address.UpdatedAt = address.CreatedAt

	query := `INSERT INTO addresses (` + addressColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.DB.ExecContext(ctxTimeout, query,
		address.ID, address.UserID, address.Street, address.Number, address.District,
		address.City, address.State, address.ZipCode, address.CreatedAt, address.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir endereço.", err)
		return domain.Address{}, apperror.NewDBError("Falha ao salvar endereço", err)
	}

	r.logger.Info("Endereço criado.", map[string]interface{}{"address_id": address.ID, "user_id": address.UserID})
	return address, nil
}

func (r *AddressRepository) FindByID(ctx context.Context, id string) (domain.Address, error) {
	return r.findOne(ctx, `SELECT `+addressColumns+` FROM addresses WHERE id = $1`, id)
}

// FindByUserID devolve o endereço do usuário ou NotFoundError.
func (r *AddressRepository) FindByUserID(ctx context.Context, userID string) (domain.Address, error) {
	return r.findOne(ctx, `SELECT `+addressColumns+` FROM addresses WHERE user_id = $1`, userID)
}

func (r *AddressRepository) findOne(ctx context.Context, query string, arg string) (domain.Address, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	a, err := scanAddress(r.DB.QueryRowContext(ctxTimeout, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Address{}, apperror.NewNotFoundError("Endereço não encontrado.")
	}
	if err != nil {
		r.logger.Error("Falha ao buscar endereço.", err)
		return domain.Address{}, apperror.NewDBError("Falha ao buscar endereço", err)
	}
	return a, nil
}

// Update sobrescreve o endereço do usuário dono.
func (r *AddressRepository) Update(ctx context.Context, address domain.Address) (domain.Address, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
		UPDATE addresses
		SET street = $1, number = $2, district = $3, city = $4, state = $5, zip_code = $6, updated_at = $7
		WHERE user_id = $8
		RETURNING ` + addressColumns

	a, err := scanAddress(r.DB.QueryRowContext(ctxTimeout, query,
		address.Street, address.Number, address.District, address.City, address.State, address.ZipCode,
		time.Now().UTC(), address.UserID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Address{}, apperror.NewNotFoundError("Endereço não encontrado.")
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar endereço.", err)
		return domain.Address{}, apperror.NewDBError("Falha ao atualizar endereço", err)
	}
	return a, nil
}

// DeleteByUserID remove o endereço. Pedidos que o usavam ficam com address_id nulo
// e mantêm a cópia do endereço de entrega.
func (r *AddressRepository) DeleteByUserID(ctx context.Context, userID string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM addresses WHERE user_id = $1`, userID)
	if err != nil {
		r.logger.Error("Falha ao deletar endereço.", err)
		return apperror.NewDBError("Falha ao deletar endereço", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if n == 0 {
		return apperror.NewNotFoundError("Endereço não encontrado.")
	}
	return nil
}
