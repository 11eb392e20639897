package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"uaifood/config"
	"uaifood/internal/pkg/database"
	"uaifood/internal/pkg/logger"
)

// Uso: migrate [-dir ./sql] [up|down|status|reset|version|...] [args]
func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "⚠️ Aviso: Arquivo .env não encontrado. Carregando configs apenas do ambiente do sistema.")
	}

	var migrationsDir string
	flag.StringVar(&migrationsDir, "dir", "./sql", "diretório com os arquivos de migração")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "goose: configuração inválida: %v\n", err)
		os.Exit(1)
	}
	log := logger.NewLogger(cfg.LogLevel)

	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("goose: falha ao conectar ao banco de dados.", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("goose: falha ao fechar a conexão.", err)
		}
	}()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal("goose: dialeto não suportado.", err)
	}

	arguments := flag.Args()
	if len(arguments) == 0 {
		arguments = []string{"up"}
	}
	command, args := arguments[0], arguments[1:]

	if err := goose.Run(command, db, migrationsDir, args...); err != nil {
		log.Fatal(fmt.Sprintf("goose %s falhou.", command), err)
	}

	log.Info(fmt.Sprintf("goose %s concluído.", command), map[string]interface{}{"dir": migrationsDir})
}
