package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const (
	stmtList   = "SELECT id, title, size, sticky, position FROM items ORDER BY position ASC"
	stmtGet    = "SELECT id, title, size, sticky, position FROM items WHERE id = ?"
	stmtCount  = "SELECT COUNT(*) FROM items"
	stmtInsert = "INSERT INTO items (id, title, size, sticky, position) VALUES (?, ?, ?, ?, ?)"
	stmtDelete = "DELETE FROM items WHERE id = ?"
	stmtShift  = "UPDATE items SET position = position + ? WHERE position >= ? AND position <= ?"
	stmtSetPos = "UPDATE items SET position = ?, updated_at = strftime('%s', 'now') WHERE id = ?"
	stmtUpdate = "UPDATE items SET title = ?, size = ?, sticky = ?, updated_at = strftime('%s', 'now') WHERE id = ?"
	stmtMaxPos = "SELECT COALESCE(MAX(position), -1) FROM items"
	stmtAt     = "SELECT id FROM items WHERE position = ?"
)

var statements = []string{
	stmtList,
	stmtGet,
	stmtCount,
	stmtInsert,
	stmtDelete,
	stmtShift,
	stmtSetPos,
	stmtUpdate,
	stmtMaxPos,
	stmtAt,
}

// prepared holds the statements the store runs.
type prepared map[string]*sql.Stmt

func prepare(ctx context.Context, db *sql.DB) (prepared, error) {
	p := make(prepared, len(statements))
	for _, query := range statements {
		stmt, err := db.PrepareContext(ctx, query)
		if err != nil {
			_ = p.Close()
			return nil, fmt.Errorf("failed to prepare statement: %w", err)
		}
		p[query] = stmt
	}
	return p, nil
}

// in binds the statement to tx, or returns it as is outside a transaction.
func (p prepared) in(ctx context.Context, tx *sql.Tx, query string) *sql.Stmt {
	if tx == nil {
		return p[query]
	}
	return tx.StmtContext(ctx, p[query])
}

func (p prepared) Close() error {
	var errs []error
	for _, stmt := range p {
		errs = append(errs, stmt.Close())
	}
	return errors.Join(errs...)
}
