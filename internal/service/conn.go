package service

import (
	"context"
	"database/sql"
	"errors"

	"browsestorage/backend/internal/apperr"
)

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// sqlConn is a Conn over a database/sql connection checked out of a pool.
type sqlConn struct {
	conn    *sql.Conn
	tx      *sql.Tx
	dialect Dialect
}

func newSQLConn(conn *sql.Conn, d Dialect) *sqlConn {
	return &sqlConn{conn: conn, dialect: d}
}

func (c *sqlConn) target() queryer {
	if c.tx != nil {
		return c.tx
	}
	return c.conn
}

func (c *sqlConn) Query(ctx context.Context, query string, args ...any) ([]string, [][]any, error) {
	rows, err := c.target().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, apperr.Storage(err, "query failed")
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, apperr.Storage(err, "reading columns failed")
	}

	results := [][]any{}
	for rows.Next() {
		columns := make([]any, len(cols))
		columnPointers := make([]any, len(cols))
		for i := range columns {
			columnPointers[i] = &columns[i]
		}

		if err := rows.Scan(columnPointers...); err != nil {
			return nil, nil, apperr.Storage(err, "scanning row failed")
		}
		for i, v := range columns {
			// text columns come back as raw bytes from several drivers
			if b, ok := v.([]byte); ok {
				columns[i] = string(b)
			}
		}
		results = append(results, columns)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperr.Storage(err, "query failed")
	}
	return cols, results, nil
}

func (c *sqlConn) Exec(ctx context.Context, query string, args ...any) (Result, error) {
	res, err := c.target().ExecContext(ctx, query, args...)
	if err != nil {
		return Result{}, apperr.Storage(err, "statement failed")
	}
	out := Result{RowsAffected: -1}
	if n, err := res.RowsAffected(); err == nil {
		out.RowsAffected = n
	}
	if id, err := res.LastInsertId(); err == nil {
		out.LastInsertID = id
		out.HasInsertID = true
	}
	return out, nil
}

func (c *sqlConn) Quote(s string) string { return c.dialect.QuoteString(s) }

func (c *sqlConn) Dialect() Dialect { return c.dialect }

func (c *sqlConn) Begin(ctx context.Context) error {
	if c.tx != nil {
		return apperr.Internal("transaction already open")
	}
	tx, err := c.conn.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Storage(err, "begin transaction failed")
	}
	c.tx = tx
	return nil
}

func (c *sqlConn) Commit() error {
	if c.tx == nil {
		return apperr.Internal("no open transaction")
	}
	err := c.tx.Commit()
	c.tx = nil
	if err != nil {
		return apperr.Storage(err, "commit failed")
	}
	return nil
}

func (c *sqlConn) Rollback() error {
	if c.tx == nil {
		return apperr.Internal("no open transaction")
	}
	err := c.tx.Rollback()
	c.tx = nil
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		return apperr.Storage(err, "rollback failed")
	}
	return nil
}

func (c *sqlConn) InTx() bool { return c.tx != nil }

func (c *sqlConn) Close() error {
	if c.tx != nil {
		_ = c.Rollback()
	}
	return c.conn.Close()
}
