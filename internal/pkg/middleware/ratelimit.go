package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"uaifood/internal/api/response"
	apperror "uaifood/internal/errors"
	"uaifood/internal/pkg/cache"
	"uaifood/internal/pkg/logger"
)

// RateLimitError é devolvido quando o cliente excede o limite da janela.
type RateLimitError struct{}

func (e *RateLimitError) Error() string    { return "Limite de requisições excedido. Tente novamente mais tarde." }
func (e *RateLimitError) Category() string { return "RATE_LIMITED" }
func (e *RateLimitError) HTTPStatus() int  { return http.StatusTooManyRequests }
func (e *RateLimitError) Unwrap() error    { return nil }

var _ apperror.AppError = (*RateLimitError)(nil)

// RateLimiter limita requisições por IP numa janela fixa usando contadores no Redis.
// Uma falha do Redis libera a requisição: o limite não deve derrubar a API.
func RateLimiter(client cache.Client, scope string, limit int, window time.Duration, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := fmt.Sprintf("rate-limit:%s:%s", scope, clientIP(r))
			ctx := r.Context()

			count, err := client.Incr(ctx, key)
			if err != nil {
				log.Warn("Rate limiter indisponível, requisição liberada.", map[string]interface{}{"error": err.Error(), "scope": scope})
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				if err := client.Expire(ctx, key, window); err != nil {
					log.Warn("Falha ao definir expiração do rate limit.", map[string]interface{}{"error": err.Error(), "key": key})
				}
			}

			remaining := limit - int(count)
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if int(count) > limit {
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				response.Error(w, r, log, &RateLimitError{})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
