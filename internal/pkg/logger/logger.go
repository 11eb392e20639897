package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger define a interface para logging estruturado.
// A aplicação (Handler, Service, Repository) depende apenas desta interface.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error)
	Fatal(msg string, err error)
}

// ZeroLogger implementa Logger sobre o zerolog, com saída JSON.
type ZeroLogger struct {
	zl zerolog.Logger
}

// NewLogger cria o logger da aplicação escrevendo em stdout.
func NewLogger(level string) Logger {
	return New(level, os.Stdout)
}

// New cria um logger com saída configurável (usado em testes).
func New(level string, out io.Writer) Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	zl := zerolog.New(out).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Str("service", "uaifood-api").
		Logger()
	return &ZeroLogger{zl: zl}
}

// NewNopLogger descarta todas as mensagens.
func NewNopLogger() Logger {
	return &ZeroLogger{zl: zerolog.Nop()}
}

// ParseLevel converte o LOG_LEVEL textual; valores desconhecidos viram info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *ZeroLogger) Debug(msg string, fields map[string]interface{}) {
	l.zl.Debug().Fields(fields).Msg(msg)
}

func (l *ZeroLogger) Info(msg string, fields map[string]interface{}) {
	l.zl.Info().Fields(fields).Msg(msg)
}

func (l *ZeroLogger) Warn(msg string, fields map[string]interface{}) {
	l.zl.Warn().Fields(fields).Msg(msg)
}

func (l *ZeroLogger) Error(msg string, err error) {
	l.zl.Error().Err(err).Msg(msg)
}

// Fatal registra a mensagem e encerra o processo.
func (l *ZeroLogger) Fatal(msg string, err error) {
	l.zl.Fatal().Err(err).Msg(msg)
}
