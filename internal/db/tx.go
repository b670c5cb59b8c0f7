package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Repositories query through From so the same method works inside and
// outside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// WithinTx runs fn inside a transaction carried by the context. Repositories
// reached through the derived context share the transaction via From.
// The transaction is rolled back when fn returns an error or panics,
// committed otherwise. Nested calls reuse the outer transaction.
func WithinTx(ctx context.Context, conn *sql.DB, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	done := false
	defer func() {
		if !done {
			_ = tx.Rollback()
		}
	}()
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	done = true
	return nil
}

// From returns the transaction carried by ctx, or conn when there is none.
func From(ctx context.Context, conn *sql.DB) Querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return conn
}

// Transactor adapts a *sql.DB to the InTx shape domain services depend on.
type Transactor struct {
	conn *sql.DB
}

// NewTransactor returns a Transactor over conn.
func NewTransactor(conn *sql.DB) *Transactor {
	return &Transactor{conn: conn}
}

// InTx runs fn inside a transaction, see WithinTx.
func (t *Transactor) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithinTx(ctx, t.conn, fn)
}
