package userservice

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"uaifood/internal/domain"
	apperror "uaifood/internal/errors"
	"uaifood/internal/pkg/logger"
	"uaifood/internal/pkg/validation"
)

// UserService define o serviço de lógica de negócio para a entidade User.
type UserService struct {
	UserRepo domain.UserRepository
	TokenSvc TokenService
	logger   logger.Logger
}

// TokenService é o contrato da camada de token (internal/pkg/token).
type TokenService interface {
	GenerateToken(userID, role, phone string) (string, error)
}

// NewService cria uma nova instância do UserService, injetando o Repositório.
func NewService(repo domain.UserRepository, tokenSvc TokenService, logger logger.Logger) *UserService {
	return &UserService{
		UserRepo: repo,
		TokenSvc: tokenSvc,
		logger:   logger,
	}
}

// Register registra um novo usuário no sistema.
// creator é nil no auto-cadastro; somente um ADMIN autenticado cria outro ADMIN.
func (s *UserService) Register(ctx context.Context, creator *domain.Caller, req domain.RegisterUserRequest) (domain.User, error) {
	// 1. Validação
	if err := validation.Struct(req); err != nil {
		return domain.User{}, err
	}

	userType := req.Type
	if userType == "" {
		userType = domain.UserTypeClient
	}
	if userType == domain.UserTypeAdmin && (creator == nil || !creator.IsAdmin()) {
		return domain.User{}, apperror.NewForbiddenError("Apenas administradores podem criar outro administrador.")
	}

	// 2. Hashing da Senha
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}

	// 3. Persistência (telefone duplicado chega como ConflictError)
	user, err := s.UserRepo.Save(ctx, domain.User{
		Nome:         req.Nome,
		Phone:        req.Phone,
		PasswordHash: string(hashedPassword),
		Type:         userType,
	})
	if err != nil {
		var conflict *apperror.ConflictError
		if errors.As(err, &conflict) {
			return domain.User{}, apperror.NewConflictError("Telefone já cadastrado.")
		}
		return domain.User{}, err
	}

	s.logger.Info("Usuário registrado.", map[string]interface{}{"user_id": user.ID, "type": user.Type})
	return user, nil
}

// Login autentica um usuário, verifica a senha e gera um JWT.
func (s *UserService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	if err := validation.Struct(req); err != nil {
		return domain.LoginResponse{}, err
	}

	user, err := s.UserRepo.FindByPhone(ctx, req.Phone)
	if err != nil {
		// NotFound vira 401 para não revelar quais telefones existem.
		var notFoundErr *apperror.NotFoundError
		if errors.As(err, &notFoundErr) {
			return domain.LoginResponse{}, apperror.NewUnauthorizedError("Credenciais inválidas.")
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("Tentativa de login com senha incorreta.", map[string]interface{}{"user_id": user.ID})
		return domain.LoginResponse{}, apperror.NewUnauthorizedError("Credenciais inválidas.")
	}

	tokenString, err := s.TokenSvc.GenerateToken(user.ID, string(user.Type), user.Phone)
	if err != nil {
		return domain.LoginResponse{}, apperror.NewInternalError("Falha ao gerar token de autenticação.", err)
	}

	return domain.LoginResponse{Token: tokenString, User: user}, nil
}

// ListUsers lista todos os usuários. Apenas ADMIN.
func (s *UserService) ListUsers(ctx context.Context, caller domain.Caller) ([]domain.User, error) {
	if !caller.IsAdmin() {
		return nil, apperror.NewForbiddenError("Apenas administradores podem listar usuários.")
	}
	return s.UserRepo.FindAll(ctx)
}

// Profile devolve o próprio usuário com o endereço.
func (s *UserService) Profile(ctx context.Context, caller domain.Caller) (domain.User, error) {
	return s.UserRepo.FindByID(ctx, caller.ID)
}

// ChangePassword troca a senha do chamador após conferir a senha atual.
func (s *UserService) ChangePassword(ctx context.Context, caller domain.Caller, req domain.ChangePasswordRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}

	user, err := s.UserRepo.FindByID(ctx, caller.ID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return apperror.NewUnauthorizedError("Senha atual incorreta.")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}
	if err := s.UserRepo.UpdatePassword(ctx, caller.ID, string(hashed)); err != nil {
		return err
	}

	s.logger.Info("Senha alterada.", map[string]interface{}{"user_id": caller.ID})
	return nil
}

// UpdateType altera o papel de outro usuário. Um ADMIN não altera o próprio papel.
func (s *UserService) UpdateType(ctx context.Context, caller domain.Caller, userID string, req domain.UpdateUserTypeRequest) (domain.User, error) {
	if !caller.IsAdmin() {
		return domain.User{}, apperror.NewForbiddenError("Apenas administradores podem alterar o tipo de usuário.")
	}
	if err := validation.Struct(req); err != nil {
		return domain.User{}, err
	}
	if userID == caller.ID {
		return domain.User{}, apperror.NewForbiddenError("Não é permitido alterar o próprio tipo de usuário.")
	}

	user, err := s.UserRepo.UpdateType(ctx, userID, req.Type)
	if err != nil {
		return domain.User{}, err
	}
	s.logger.Info("Tipo de usuário alterado.", map[string]interface{}{"user_id": userID, "type": req.Type, "admin_id": caller.ID})
	return user, nil
}

// Delete remove um usuário. Usuários com pedidos são preservados (ConflictError).
func (s *UserService) Delete(ctx context.Context, caller domain.Caller, userID string) error {
	if !caller.IsAdmin() {
		return apperror.NewForbiddenError("Apenas administradores podem excluir usuários.")
	}

	if err := s.UserRepo.Delete(ctx, userID); err != nil {
		var conflict *apperror.ConflictError
		if errors.As(err, &conflict) {
			return apperror.NewConflictError("Usuário possui pedidos e não pode ser excluído.")
		}
		return err
	}
	s.logger.Info("Usuário excluído.", map[string]interface{}{"user_id": userID, "admin_id": caller.ID})
	return nil
}
