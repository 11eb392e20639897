package userrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"uaifood/internal/domain"
	apperror "uaifood/internal/errors"
	"uaifood/internal/pkg/logger"
)

const userColumns = `id, nome, phone, password_hash, type, created_at, updated_at`

// UserRepository implementa domain.UserRepository sobre o PostgreSQL.
type UserRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewUserRepository cria uma nova instância do UserRepository.
func NewUserRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *UserRepository {
	return &UserRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Nome, &u.Phone, &u.PasswordHash, &u.Type, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Save insere um novo usuário. Telefone duplicado vira ConflictError.
func (r *UserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	r.logger.Debug("Iniciando Save de usuário no repositório.", map[string]interface{}{"phone": user.Phone})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt

	query := `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.DB.ExecContext(ctxTimeout, query,
		user.ID, user.Nome, user.Phone, user.PasswordHash, user.Type, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir usuário no DB.", err)
		return domain.User{}, apperror.NewDBError("Falha ao salvar usuário", err)
	}

	r.logger.Info("Usuário salvo com sucesso.", map[string]interface{}{"user_id": user.ID})
	return user, nil
}

// FindByID busca um usuário pelo ID, incluindo o endereço quando existir.
func (r *UserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
		SELECT u.id, u.nome, u.phone, u.password_hash, u.type, u.created_at, u.updated_at,
		       a.id, a.street, a.number, a.district, a.city, a.state, a.zip_code, a.created_at, a.updated_at
		FROM users u
		LEFT JOIN addresses a ON a.user_id = u.id
		WHERE u.id = $1`

	var (
		u                                                      domain.User
		addrID, street, number, district, city, state, zipCode sql.NullString
		addrCreatedAt, addrUpdatedAt                           sql.NullTime
	)
	err := r.DB.QueryRowContext(ctxTimeout, query, id).Scan(
		&u.ID, &u.Nome, &u.Phone, &u.PasswordHash, &u.Type, &u.CreatedAt, &u.UpdatedAt,
		&addrID, &street, &number, &district, &city, &state, &zipCode, &addrCreatedAt, &addrUpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário com ID %s não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar usuário por ID no DB.", err)
		return domain.User{}, apperror.NewDBError("Falha ao buscar usuário", err)
	}

	if addrID.Valid {
		u.Address = &domain.Address{
			ID: addrID.String, UserID: u.ID, Street: street.String, Number: number.String,
			District: district.String, City: city.String, State: state.String, ZipCode: zipCode.String,
			CreatedAt: addrCreatedAt.Time, UpdatedAt: addrUpdatedAt.Time,
		}
	}
	return u, nil
}

// FindByPhone busca um usuário pelo telefone (login).
func (r *UserRepository) FindByPhone(ctx context.Context, phone string) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE phone = $1`
	u, err := scanUser(r.DB.QueryRowContext(ctxTimeout, query, phone))
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Info("Usuário não encontrado por telefone.", map[string]interface{}{"phone": phone})
		return domain.User{}, apperror.NewNotFoundError("Usuário não encontrado.")
	}
	if err != nil {
		r.logger.Error("Falha ao buscar usuário por telefone no DB.", err)
		return domain.User{}, apperror.NewDBError("Falha ao buscar usuário", err)
	}
	return u, nil
}

// FindAll lista todos os usuários, mais recentes primeiro.
func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id`)
	if err != nil {
		r.logger.Error("Falha ao listar usuários.", err)
		return nil, apperror.NewDBError("Falha ao listar usuários", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, apperror.NewDBError("Falha ao ler usuário", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar usuários", err)
	}
	return users, nil
}

// UpdatePassword grava um novo hash de senha.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout,
		`UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`,
		passwordHash, time.Now().UTC(), id,
	)
	if err != nil {
		r.logger.Error("Falha ao atualizar senha.", err)
		return apperror.NewDBError("Falha ao atualizar senha", err)
	}
	return r.requireAffected(result, id)
}

// UpdateType altera o papel do usuário e devolve o registro atualizado.
func (r *UserRepository) UpdateType(ctx context.Context, id string, userType domain.UserType) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `UPDATE users SET type = $1, updated_at = $2 WHERE id = $3 RETURNING ` + userColumns
	u, err := scanUser(r.DB.QueryRowContext(ctxTimeout, query, userType, time.Now().UTC(), id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário com ID %s não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar tipo do usuário.", err)
		return domain.User{}, apperror.NewDBError("Falha ao atualizar tipo do usuário", err)
	}

	r.logger.Info("Tipo de usuário atualizado.", map[string]interface{}{"user_id": id, "type": userType})
	return u, nil
}

// Delete remove o usuário. Usuários com pedidos são protegidos pela FK (ConflictError).
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar usuário.", err)
		return apperror.NewDBError("Falha ao deletar usuário", err)
	}
	return r.requireAffected(result, id)
}

func (r *UserRepository) requireAffected(result sql.Result, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		r.logger.Info("Usuário não encontrado.", map[string]interface{}{"user_id": id})
		return apperror.NewNotFoundError(fmt.Sprintf("Usuário com ID %s não encontrado.", id))
	}
	return nil
}
