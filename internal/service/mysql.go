package service

import (
	"fmt"
	"strconv"
	"strings"

	"browsestorage/backend/internal/apperr"
	"browsestorage/backend/internal/model"

	mysqldriver "github.com/go-sql-driver/mysql"
)

type MySQLDialect struct{}

func (d *MySQLDialect) Engine() string     { return "mysql" }
func (d *MySQLDialect) DriverName() string { return "mysql" }

func (d *MySQLDialect) BuildDSN(ds model.DataSource) (string, error) {
	if ds.DSN != "" {
		return ds.DSN, nil
	}
	// user and passwd may be missing
	if ds.Server == "" || ds.Schema == "" {
		return "", apperr.Config("data source %q: missing server and/or schema", ds.Name)
	}
	port := ds.Port
	if port <= 0 {
		port = 3306
	}
	cfg := mysqldriver.NewConfig()
	cfg.User = ds.User
	cfg.Passwd = ds.Passwd
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", ds.Server, port)
	cfg.DBName = ds.Schema
	cfg.AllowNativePasswords = true
	charset := ds.Options["charset"]
	if charset == "" {
		charset = "utf8mb4"
	}
	cfg.Params = map[string]string{"charset": charset}
	return cfg.FormatDSN(), nil
}

var mysqlEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\x00", `\0`,
	"\n", `\n`,
	"\r", `\r`,
	"\x1a", `\Z`,
)

func (d *MySQLDialect) QuoteString(s string) string {
	return "'" + mysqlEscaper.Replace(s) + "'"
}

func (d *MySQLDialect) LimitClause(limit, offset int, ordered bool) string {
	switch {
	case limit < 0 && offset < 0:
		return ""
	case offset < 0:
		return " LIMIT " + strconv.Itoa(limit)
	case limit < 0:
		// MySQL has no OFFSET without LIMIT
		return " LIMIT 18446744073709551615 OFFSET " + strconv.Itoa(offset)
	default:
		return " LIMIT " + strconv.Itoa(limit) + " OFFSET " + strconv.Itoa(offset)
	}
}

func (d *MySQLDialect) Placeholder(n int) string { return "?" }

func (d *MySQLDialect) TablesQuery() string {
	return "SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = DATABASE() AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME"
}
