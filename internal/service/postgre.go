package service

import (
	"fmt"
	"strconv"
	"strings"

	"browsestorage/backend/internal/apperr"
	"browsestorage/backend/internal/model"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"
)

// PostgresDialect serves both the "postgres" engine (lib/pq) and the "pgx"
// engine (jackc/pgx through database/sql); only the driver differs.
type PostgresDialect struct {
	engine string
	driver string
}

func NewPostgresDialect() *PostgresDialect {
	return &PostgresDialect{engine: "postgres", driver: "postgres"}
}

func NewPgxDialect() *PostgresDialect {
	return &PostgresDialect{engine: "pgx", driver: "pgx"}
}

func (d *PostgresDialect) Engine() string     { return d.engine }
func (d *PostgresDialect) DriverName() string { return d.driver }

func (d *PostgresDialect) BuildDSN(ds model.DataSource) (string, error) {
	if ds.DSN != "" {
		return ds.DSN, nil
	}
	if ds.Server == "" || ds.Schema == "" {
		return "", apperr.Config("data source %q: missing server and/or schema", ds.Name)
	}
	port := ds.Port
	if port <= 0 {
		port = 5432
	}
	sslmode := ds.Options["sslmode"]
	if sslmode == "" {
		sslmode = "disable"
	}
	parts := []string{
		fmt.Sprintf("host=%s", ds.Server),
		fmt.Sprintf("port=%d", port),
		fmt.Sprintf("dbname=%s", ds.Schema),
		fmt.Sprintf("sslmode=%s", sslmode),
	}
	if ds.User != "" {
		parts = append(parts, fmt.Sprintf("user=%s", ds.User))
	}
	if ds.Passwd != "" {
		parts = append(parts, fmt.Sprintf("password=%s", quoteConnValue(ds.Passwd)))
	}
	if sp := ds.Options["search_path"]; sp != "" {
		parts = append(parts, fmt.Sprintf("search_path=%s", sp))
	}
	return strings.Join(parts, " "), nil
}

// quoteConnValue quotes a libpq key/value setting when it needs it.
func quoteConnValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

func (d *PostgresDialect) QuoteString(s string) string {
	return pq.QuoteLiteral(s)
}

func (d *PostgresDialect) LimitClause(limit, offset int, ordered bool) string {
	var sb strings.Builder
	if limit >= 0 {
		sb.WriteString(" LIMIT " + strconv.Itoa(limit))
	}
	if offset >= 0 {
		sb.WriteString(" OFFSET " + strconv.Itoa(offset))
	}
	return sb.String()
}

func (d *PostgresDialect) Placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

func (d *PostgresDialect) TablesQuery() string {
	return "SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema() AND table_type = 'BASE TABLE' ORDER BY table_name"
}
