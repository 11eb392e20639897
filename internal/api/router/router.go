package router

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"uaifood/config"
	"uaifood/internal/api/address"
	"uaifood/internal/api/category"
	"uaifood/internal/api/item"
	"uaifood/internal/api/order"
	"uaifood/internal/api/response"
	"uaifood/internal/api/user"
	"uaifood/internal/domain"
	"uaifood/internal/pkg/cache"
	"uaifood/internal/pkg/logger"
	"uaifood/internal/pkg/metrics"
	"uaifood/internal/pkg/middleware"
)

// Pinger é satisfeito por *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handlers reúne os handlers já inicializados por injeção de dependências.
type Handlers struct {
	User     *user.Handler
	Address  *address.Handler
	Category *category.Handler
	Item     *item.Handler
	Order    *order.Handler
}

// Infra reúne a infraestrutura usada pelos middlewares e pelo health check.
type Infra struct {
	Config  *config.Config
	Logger  logger.Logger
	Metrics *metrics.Metrics
	Cache   cache.Client
	DB      Pinger
	Tokens  middleware.TokenValidator
}

// NewRouter configura e retorna o roteador HTTP principal.
func NewRouter(h Handlers, infra Infra) http.Handler {
	cfg, log := infra.Config, infra.Logger

	r := chi.NewRouter()

	// --- 1. Middlewares globais ---
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestLogger(log, infra.Metrics))

	// --- 2. Health check, métricas e documentação ---
	r.Get("/ping", PingHandler)
	r.Get("/health", HealthHandler(infra.DB, infra.Cache, log))
	r.Method(http.MethodGet, "/metrics", infra.Metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	authenticated := middleware.NewAuthMiddleware(infra.Tokens, log)
	optionalAuth := middleware.NewOptionalAuthMiddleware(infra.Tokens, log)
	anyRole := middleware.RequireRoles(log, domain.UserTypeClient, domain.UserTypeAdmin)
	adminOnly := middleware.RequireRoles(log, domain.UserTypeAdmin)

	// --- 3. API v1 ---
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimiter(infra.Cache, "global", cfg.RateLimitMaxRequests, cfg.RateLimitPeriod, log))

		r.Route("/users", func(r chi.Router) {
			r.With(optionalAuth).Post("/create", h.User.RegisterHandler)
			r.With(middleware.RateLimiter(infra.Cache, "login", cfg.LoginRateLimitMax, cfg.RateLimitPeriod, log)).
				Post("/login", h.User.LoginHandler)

			r.Group(func(r chi.Router) {
				r.Use(authenticated, anyRole)
				r.Get("/profile", h.User.ProfileHandler)
				r.Put("/change-password", h.User.ChangePasswordHandler)
			})
			r.Group(func(r chi.Router) {
				r.Use(authenticated, adminOnly)
				r.Get("/", h.User.ListUsersHandler)
				r.Patch("/{id}/type", h.User.UpdateTypeHandler)
				r.Delete("/{id}", h.User.DeleteHandler)
			})
		})

		r.Route("/address", func(r chi.Router) {
			r.Use(authenticated, anyRole)
			r.Post("/", h.Address.CreateHandler)
			r.Get("/", h.Address.GetHandler)
			r.Put("/", h.Address.UpdateHandler)
			r.Delete("/", h.Address.DeleteHandler)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.Category.GetAllCategoriesHandler)
			r.Get("/{id}", h.Category.GetCategoryByIDHandler)
			r.Group(func(r chi.Router) {
				r.Use(authenticated, adminOnly)
				r.Post("/", h.Category.CreateCategoryHandler)
				r.Put("/{id}", h.Category.UpdateCategoryHandler)
				r.Delete("/{id}", h.Category.DeleteCategoryHandler)
			})
		})

		r.Route("/items", func(r chi.Router) {
			r.Get("/", h.Item.ListItemsHandler)
			r.Get("/{id}", h.Item.GetItemHandler)
			r.Group(func(r chi.Router) {
				r.Use(authenticated, adminOnly)
				r.Post("/", h.Item.CreateItemHandler)
				r.Put("/{id}", h.Item.UpdateItemHandler)
				r.Delete("/{id}", h.Item.DeleteItemHandler)
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(authenticated, anyRole)
			r.Post("/", h.Order.PlaceOrderHandler)
			r.Get("/", h.Order.ListOrdersHandler)
			r.Get("/my-orders", h.Order.ListMyOrdersHandler)
			r.Get("/{id}", h.Order.GetOrderHandler)
			r.With(adminOnly).Patch("/{id}/status", h.Order.UpdateOrderStatusHandler)
		})
	})

	return r
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

// HealthStatus é o corpo do /health.
type HealthStatus struct {
	Status   string `json:"status"`
	Postgres string `json:"postgres"`
	Redis    string `json:"redis"`
}

// HealthHandler verifica PostgreSQL e Redis. Qualquer dependência fora do ar devolve 503.
func HealthHandler(db Pinger, cacheClient cache.Client, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		health := HealthStatus{Status: "ok", Postgres: "up", Redis: "up"}
		if err := db.PingContext(ctx); err != nil {
			log.Warn("Health check: PostgreSQL indisponível.", map[string]interface{}{"error": err.Error()})
			health.Postgres, health.Status = "down", "degraded"
		}
		if err := cacheClient.Ping(ctx); err != nil {
			log.Warn("Health check: Redis indisponível.", map[string]interface{}{"error": err.Error()})
			health.Redis, health.Status = "down", "degraded"
		}

		status := http.StatusOK
		if health.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		response.JSON(w, status, health)
	}
}
