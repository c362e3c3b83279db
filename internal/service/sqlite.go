package service

import (
	"strconv"
	"strings"

	"browsestorage/backend/internal/apperr"
	"browsestorage/backend/internal/model"

	_ "modernc.org/sqlite"
)

type SQLiteDialect struct{}

func (d *SQLiteDialect) Engine() string     { return "sqlite" }
func (d *SQLiteDialect) DriverName() string { return "sqlite" }

func (d *SQLiteDialect) BuildDSN(ds model.DataSource) (string, error) {
	if ds.DSN != "" {
		return ds.DSN, nil
	}
	if ds.File == "" {
		return "", apperr.Config("data source %q: missing file", ds.Name)
	}
	return ds.File, nil
}

func (d *SQLiteDialect) QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func (d *SQLiteDialect) LimitClause(limit, offset int, ordered bool) string {
	switch {
	case limit < 0 && offset < 0:
		return ""
	case offset < 0:
		return " LIMIT " + strconv.Itoa(limit)
	case limit < 0:
		return " LIMIT -1 OFFSET " + strconv.Itoa(offset)
	default:
		return " LIMIT " + strconv.Itoa(limit) + " OFFSET " + strconv.Itoa(offset)
	}
}

func (d *SQLiteDialect) Placeholder(n int) string { return "?" }

func (d *SQLiteDialect) TablesQuery() string {
	return "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name"
}
