package middleware

import (
	"context"
	"net/http"
	"strings"

	"uaifood/internal/api/response"
	"uaifood/internal/domain"
	apperror "uaifood/internal/errors"
	"uaifood/internal/pkg/logger"
	"uaifood/internal/pkg/token"
)

// ContextKey é o tipo das chaves que este pacote grava no contexto.
type ContextKey int

const (
	callerKey ContextKey = iota
)

// TokenValidator define o contrato de validação necessário para o middleware.
type TokenValidator interface {
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// NewAuthMiddleware valida o Bearer token e anexa o domain.Caller ao contexto.
func NewAuthMiddleware(tokenSvc TokenValidator, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, err := callerFromRequest(r, tokenSvc)
			if err != nil {
				response.Error(w, r, log, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

// NewOptionalAuthMiddleware anexa o Caller quando há um token válido e segue
// anonimamente quando não há header. Um token presente e inválido é rejeitado.
func NewOptionalAuthMiddleware(tokenSvc TokenValidator, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}
			caller, err := callerFromRequest(r, tokenSvc)
			if err != nil {
				response.Error(w, r, log, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

func callerFromRequest(r *http.Request, tokenSvc TokenValidator) (domain.Caller, error) {
	authHeader := r.Header.Get("Authorization")
	tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found || strings.TrimSpace(tokenString) == "" {
		return domain.Caller{}, apperror.NewUnauthorizedError("Token de autorização ausente ou malformado.")
	}

	claims, err := tokenSvc.ValidateToken(strings.TrimSpace(tokenString))
	if err != nil {
		return domain.Caller{}, apperror.NewUnauthorizedError("Token inválido ou expirado.")
	}

	role := domain.UserType(claims.Role)
	if !role.IsValid() {
		return domain.Caller{}, apperror.NewUnauthorizedError("Token com tipo de usuário desconhecido.")
	}

	return domain.Caller{ID: claims.UserID, Role: role, Phone: claims.Phone}, nil
}

// WithCaller grava o chamador autenticado no contexto.
func WithCaller(ctx context.Context, caller domain.Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// CallerFromContext extrai o chamador autenticado.
func CallerFromContext(ctx context.Context) (domain.Caller, bool) {
	caller, ok := ctx.Value(callerKey).(domain.Caller)
	return caller, ok
}

// RequireCaller é o CallerFromContext para handlers de rotas autenticadas.
func RequireCaller(ctx context.Context) (domain.Caller, error) {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		return domain.Caller{}, apperror.NewUnauthorizedError("Autorização necessária. Token não processado.")
	}
	return caller, nil
}

// RequireRoles libera o handler apenas para os papéis informados.
// Deve ser usado depois de NewAuthMiddleware.
func RequireRoles(log logger.Logger, roles ...domain.UserType) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := CallerFromContext(r.Context())
			if !ok {
				response.Error(w, r, log, apperror.NewUnauthorizedError("Autorização necessária. Token não processado."))
				return
			}

			for _, role := range roles {
				if caller.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.Error(w, r, log, apperror.NewForbiddenError("Você não tem a permissão necessária para esta operação."))
		})
	}
}
