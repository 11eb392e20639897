package database

import (
	"context"
	"database/sql"
	"fmt"
)

// TxFunc é uma unidade de trabalho executada dentro de uma transação.
type TxFunc func(tx *sql.Tx) error

// WithTransaction executa fn numa transação. Commit acontece só quando fn
// retorna nil; qualquer erro, panic ou cancelamento do ctx faz rollback.
// O erro de fn é devolvido sem alteração para preservar o tipo (apperror).
func WithTransaction(ctx context.Context, db *sql.DB, fn TxFunc) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("falha ao iniciar transação: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = ctx.Err(); err != nil {
		return fmt.Errorf("transação cancelada antes do commit: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("falha ao commitar transação: %w", err)
	}
	return nil
}
