package addressservice

import (
	"context"
	"errors"
	"strings"

	"uaifood/internal/domain"
	apperror "uaifood/internal/errors"
	"uaifood/internal/pkg/logger"
	"uaifood/internal/pkg/validation"
)

const msgAlreadyHasAddress = "Usuário já possui um endereço cadastrado."

// AddressService gerencia o endereço de entrega do próprio usuário.
type AddressService struct {
	Repo   domain.AddressRepository
	logger logger.Logger
}

func NewService(repo domain.AddressRepository, logger logger.Logger) *AddressService {
	return &AddressService{Repo: repo, logger: logger}
}

// Create cadastra o endereço do chamador. Cada usuário tem no máximo um.
func (s *AddressService) Create(ctx context.Context, caller domain.Caller, req domain.AddressRequest) (domain.Address, error) {
	if err := validation.Struct(req); err != nil {
		return domain.Address{}, err
	}

	_, err := s.Repo.FindByUserID(ctx, caller.ID)
	if err == nil {
		return domain.Address{}, apperror.NewConflictError(msgAlreadyHasAddress)
	}
	var notFound *apperror.NotFoundError
	if !errors.As(err, &notFound) {
		return domain.Address{}, err
	}

	address, err := s.Repo.Save(ctx, toAddress(caller.ID, req))
	if err != nil {
		// Duas requisições simultâneas: a UNIQUE(user_id) barra a segunda.
		var conflict *apperror.ConflictError
		if errors.As(err, &conflict) {
			return domain.Address{}, apperror.NewConflictError(msgAlreadyHasAddress)
		}
		return domain.Address{}, err
	}
	return address, nil
}

func (s *AddressService) Get(ctx context.Context, caller domain.Caller) (domain.Address, error) {
	return s.Repo.FindByUserID(ctx, caller.ID)
}

// Update substitui o endereço do chamador.
func (s *AddressService) Update(ctx context.Context, caller domain.Caller, req domain.AddressRequest) (domain.Address, error) {
	if err := validation.Struct(req); err != nil {
		return domain.Address{}, err
	}
	return s.Repo.Update(ctx, toAddress(caller.ID, req))
}

// Delete remove o endereço do chamador. Pedidos anteriores guardam a própria
// cópia do endereço de entrega e não são afetados.
func (s *AddressService) Delete(ctx context.Context, caller domain.Caller) error {
	if err := s.Repo.DeleteByUserID(ctx, caller.ID); err != nil {
		return err
	}
	s.logger.Info("Endereço removido.", map[string]interface{}{"user_id": caller.ID})
	return nil
}

func toAddress(userID string, req domain.AddressRequest) domain.Address {
	return domain.Address{
		UserID:   userID,
		Street:   strings.TrimSpace(req.Street),
		Number:   strings.TrimSpace(req.Number),
		District: strings.TrimSpace(req.District),
		City:     strings.TrimSpace(req.City),
		State:    strings.ToUpper(req.State),
		ZipCode:  validation.NormalizeZipCode(req.ZipCode),
	}
}
