package service

import (
	"net/url"
	"strconv"
	"strings"

	"browsestorage/backend/internal/apperr"
	"browsestorage/backend/internal/model"

	_ "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"
)

// SQLServerDialect serves Microsoft SQL Server through go-mssqldb.
type SQLServerDialect struct{}

func (d *SQLServerDialect) Engine() string     { return "sqlserver" }
func (d *SQLServerDialect) DriverName() string { return "sqlserver" }

func (d *SQLServerDialect) BuildDSN(ds model.DataSource) (string, error) {
	dsn := ds.DSN
	if dsn == "" {
		if ds.Server == "" || ds.Schema == "" {
			return "", apperr.Config("data source %q: missing server and/or schema", ds.Name)
		}
		host := ds.Server
		if ds.Port > 0 {
			host += ":" + strconv.Itoa(ds.Port)
		}
		q := url.Values{}
		q.Set("database", ds.Schema)
		for k, v := range ds.Options {
			q.Set(k, v)
		}
		u := &url.URL{Scheme: "sqlserver", Host: host, RawQuery: q.Encode()}
		if ds.User != "" {
			u.User = url.UserPassword(ds.User, ds.Passwd)
		}
		dsn = u.String()
	}
	if _, err := msdsn.Parse(dsn); err != nil {
		return "", apperr.Config("data source %q: invalid sqlserver dsn: %v", ds.Name, err)
	}
	return dsn, nil
}

func (d *SQLServerDialect) QuoteString(s string) string {
	return "N'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// LimitClause uses OFFSET/FETCH, which SQL Server only accepts after an
// ORDER BY.
func (d *SQLServerDialect) LimitClause(limit, offset int, ordered bool) string {
	if limit < 0 && offset < 0 {
		return ""
	}
	var sb strings.Builder
	if !ordered {
		sb.WriteString(" ORDER BY (SELECT NULL)")
	}
	if offset < 0 {
		offset = 0
	}
	sb.WriteString(" OFFSET " + strconv.Itoa(offset) + " ROWS")
	if limit >= 0 {
		sb.WriteString(" FETCH NEXT " + strconv.Itoa(limit) + " ROWS ONLY")
	}
	return sb.String()
}

func (d *SQLServerDialect) Placeholder(n int) string {
	return "@p" + strconv.Itoa(n)
}

func (d *SQLServerDialect) TablesQuery() string {
	return "SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME"
}
