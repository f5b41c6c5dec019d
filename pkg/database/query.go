package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrEmptyStatement is returned when a query has no SQL
var ErrEmptyStatement = errors.New("empty statement")

// Query is the MySQLQuery collaborator: a single statement bound to a
// connection
type Query struct {
	conn      *Connection
	statement string
	args      []any
	duration  time.Duration
}

// QueryFunc builds queries. It is the handle type provided for the
// MySQLQuery collaborator.
type QueryFunc func(statement string, args ...any) *Query

// NewQuery binds statement and args to conn
func NewQuery(conn *Connection, statement string, args ...any) *Query {
	return &Query{
		conn:      conn,
		statement: statement,
		args:      args,
	}
}

// Statement returns the SQL text
func (q *Query) Statement() string {
	return q.statement
}

// Duration returns how long the last run took
func (q *Query) Duration() time.Duration {
	return q.duration
}

// ExecResult summarises a statement that returns no rows
type ExecResult struct {
	RowsAffected int64
	LastInsertID int64
}

// Exec runs a statement that returns no rows
func (q *Query) Exec(ctx context.Context) (*ExecResult, error) {
	if q.statement == "" {
		return nil, ErrEmptyStatement
	}

	start := time.Now()
	res, err := q.conn.db.ExecContext(ctx, q.statement, q.args...)
	q.duration = time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("exec failed: %w", err)
	}

	out := &ExecResult{}
	// drivers may not support either value; zero is reported then
	if n, err := res.RowsAffected(); err == nil {
		out.RowsAffected = n
	}
	if id, err := res.LastInsertId(); err == nil {
		out.LastInsertID = id
	}

	q.conn.log.WithField("duration", q.duration).Debugf("Exec: %s", q.statement)
	return out, nil
}

// Rows runs the query and returns every row as a column name to value map.
// []byte values are converted to strings.
func (q *Query) Rows(ctx context.Context) ([]map[string]any, error) {
	if q.statement == "" {
		return nil, ErrEmptyStatement
	}

	start := time.Now()
	rows, err := q.conn.db.QueryContext(ctx, q.statement, q.args...)
	if err != nil {
		q.duration = time.Since(start)
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	result, err := scanRows(rows)
	q.duration = time.Since(start)
	if err != nil {
		return nil, err
	}

	q.conn.log.WithField("duration", q.duration).Debugf("Query: %s (%d rows)", q.statement, len(result))
	return result, nil
}

// Row runs the query and returns the first row, or sql.ErrNoRows
func (q *Query) Row(ctx context.Context) (map[string]any, error) {
	rows, err := q.Rows(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, sql.ErrNoRows
	}
	return rows[0], nil
}

func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	result := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}

		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}
	return result, nil
}
