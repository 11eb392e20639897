package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"uaifood/config"
	_ "uaifood/docs" // Registra a especificação Swagger
	"uaifood/internal/pkg/cache"
	"uaifood/internal/pkg/database"
	"uaifood/internal/pkg/logger"
	"uaifood/internal/pkg/metrics"
	"uaifood/internal/pkg/token"

	// Camadas para Injeção de Dependências
	"uaifood/internal/api/address"
	"uaifood/internal/api/category"
	"uaifood/internal/api/item"
	"uaifood/internal/api/order"
	"uaifood/internal/api/router"
	"uaifood/internal/api/user"
	"uaifood/internal/repository/addressrepo"
	"uaifood/internal/repository/categoryrepo"
	"uaifood/internal/repository/itemrepo"
	"uaifood/internal/repository/orderrepo"
	"uaifood/internal/repository/userrepo"
	"uaifood/internal/service/addressservice"
	"uaifood/internal/service/categoryservice"
	"uaifood/internal/service/itemservice"
	"uaifood/internal/service/orderservice"
	"uaifood/internal/service/userservice"
)

// @title UaiFood API
// @version 1.0
// @description API de pedidos do delivery UaiFood: cardápio, endereços, pedidos e status.
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	// 0. Variáveis de ambiente (.env)
	// Sem .env seguimos apenas com o ambiente do sistema (ex: Docker).
	if err := godotenv.Load(); err != nil {
		stdlog.Println("⚠️ Aviso: Arquivo .env não encontrado. Carregando configs apenas do ambiente do sistema.")
	}

	// 1. Configuração e Logger
	cfg, err := config.LoadConfig()
	if err != nil {
		stdlog.Fatalf("Configuração inválida: %v", err)
	}
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("⚡ Inicializando serviço UaiFood...", map[string]interface{}{"env": cfg.Environment})

	// 2. Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	log.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis)
	cacheClient, err := cache.NewRedisClient(cfg.RedisAddr)
	if err != nil {
		log.Fatal("Falha ao conectar ao Redis.", err)
	}
	defer cacheClient.Close()
	log.Info("Conexão Redis estabelecida.", nil)

	// C. Métricas e Tokens
	m := metrics.New()
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)

	// 3. Injeção de dependências: Repository -> Service -> Handler
	userRepo := userrepo.NewUserRepository(db, cfg.DBTimeout, log)
	addressRepo := addressrepo.NewAddressRepository(db, cfg.DBTimeout, log)
	categoryRepo := categoryrepo.NewCategoryRepository(db, cacheClient, cfg.DBTimeout, log)
	itemRepo := itemrepo.NewItemRepository(db, cacheClient, cfg.DBTimeout, cfg.CacheTTL, log)
	orderRepo := orderrepo.NewOrderRepository(db, cfg.DBTimeout, log)
	log.Debug("Repositórios inicializados.", nil)

	userSvc := userservice.NewService(userRepo, tokenSvc, log)
	addressSvc := addressservice.NewService(addressRepo, log)
	categorySvc := categoryservice.NewService(categoryRepo, log)
	itemSvc := itemservice.NewService(itemRepo, categoryRepo, log)
	orderSvc := orderservice.NewService(orderRepo, addressRepo, cfg.OrderTxTimeout, m, log)
	log.Debug("Serviços inicializados.", nil)

	handlers := router.Handlers{
		User:     user.NewHandler(userSvc, log),
		Address:  address.NewHandler(addressSvc, log),
		Category: category.NewHandler(categorySvc, log),
		Item:     item.NewHandler(itemSvc, log),
		Order:    order.NewHandler(orderSvc, log),
	}

	// 4. Roteador e Servidor
	r := router.NewRouter(handlers, router.Infra{
		Config:  cfg,
		Logger:  log,
		Metrics: m,
		Cache:   cacheClient,
		DB:      db,
		Tokens:  tokenSvc,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		log.Info("Servidor UaiFood ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}
