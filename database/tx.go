// Package database — Transaction yönetimi.
//
// WithTx, birden fazla DB operasyonunun atomik (all-or-nothing)
// çalışmasını sağlar:
//
//	err := database.WithTx(ctx, db.Conn, func(tx *sql.Tx) error {
//	    if _, err := tx.ExecContext(ctx, "INSERT ...", ...); err != nil {
//	        return err // → ROLLBACK
//	    }
//	    return nil // → COMMIT
//	})
//
// Repository'ler *sql.DB yerine TxQuerier interface'i alır —
// normal operasyonlarda *sql.DB, transaction içinde *sql.Tx geçilebilir.
package database

import (
	"context"
	"database/sql"
	"fmt"
)

// TxQuerier, hem *sql.DB hem *sql.Tx tarafından karşılanan interface.
// database/sql paketinde bu interface tanımlı değildir — biz tanımlıyoruz
// (Go duck typing sayesinde hem DB hem Tx otomatik karşılar).
type TxQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx, verilen fonksiyonu bir SQL transaction içinde çalıştırır.
//
// 1. BEGIN → 2. fn(tx) → 3. nil ise COMMIT, error ise ROLLBACK.
// fn panic atarsa ROLLBACK yapılır ve panic tekrar fırlatılır —
// aksi halde transaction açık kalıp DB lock'a neden olabilir.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}

		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
			}
			return
		}

		if commitErr := tx.Commit(); commitErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", commitErr)
		}
	}()

	err = fn(tx)
	return
}
