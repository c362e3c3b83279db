package service

import (
	"context"
	"path/filepath"
	"testing"

	"browsestorage/backend/internal/apperr"
	"browsestorage/backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectFor(t *testing.T) {
	tests := []struct {
		engine string
		driver string
		ok     bool
	}{
		{"sqlite", "sqlite", true},
		{"MySQL", "mysql", true},
		{"postgres", "postgres", true},
		{"pgx", "pgx", true},
		{"mssql", "sqlserver", true},
		{"mongodb", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.engine, func(t *testing.T) {
			d, ok := DialectFor(tt.engine)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.driver, d.DriverName())
			}
		})
	}
}

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		ds       model.DataSource
		expected string
		wantErr  bool
	}{
		{
			name:     "sqlite file",
			dialect:  &SQLiteDialect{},
			ds:       model.DataSource{Name: "s", File: "data.db"},
			expected: "data.db",
		},
		{
			name:    "sqlite without file",
			dialect: &SQLiteDialect{},
			ds:      model.DataSource{Name: "s"},
			wantErr: true,
		},
		{
			name:     "mysql",
			dialect:  &MySQLDialect{},
			ds:       model.DataSource{Name: "m", Server: "db", Schema: "shop", User: "root", Passwd: "pw"},
			expected: "root:pw@tcp(db:3306)/shop?charset=utf8mb4",
		},
		{
			name:     "postgres",
			dialect:  NewPostgresDialect(),
			ds:       model.DataSource{Name: "p", Server: "db", Schema: "shop", User: "u", Passwd: "p w"},
			expected: "host=db port=5432 dbname=shop sslmode=disable user=u password='p w'",
		},
		{
			name:     "explicit dsn",
			dialect:  NewPgxDialect(),
			ds:       model.DataSource{Name: "p", DSN: "postgres://u@db/shop"},
			expected: "postgres://u@db/shop",
		},
		{
			name:     "sqlserver",
			dialect:  &SQLServerDialect{},
			ds:       model.DataSource{Name: "q", Server: "db", Port: 1433, Schema: "shop", User: "sa", Passwd: "pw"},
			expected: "sqlserver://sa:pw@db:1433?database=shop",
		},
		{
			name:    "mysql without server",
			dialect: &MySQLDialect{},
			ds:      model.DataSource{Name: "m", Schema: "shop"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn, err := tt.dialect.BuildDSN(tt.ds)
			if tt.wantErr {
				assert.Equal(t, apperr.KindConfig, apperr.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, dsn)
		})
	}
}

func TestQuoteString(t *testing.T) {
	assert.Equal(t, `'it''s'`, (&SQLiteDialect{}).QuoteString("it's"))
	assert.Equal(t, `'it\'s\n'`, (&MySQLDialect{}).QuoteString("it's\n"))
	assert.Equal(t, `'it''s'`, NewPostgresDialect().QuoteString("it's"))
	assert.Equal(t, `N'it''s'`, (&SQLServerDialect{}).QuoteString("it's"))
}

func TestLimitClause(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		limit    int
		offset   int
		ordered  bool
		expected string
	}{
		{"sqlite none", &SQLiteDialect{}, -1, -1, false, ""},
		{"sqlite offset", &SQLiteDialect{}, -1, 4, false, " LIMIT -1 OFFSET 4"},
		{"mysql offset", &MySQLDialect{}, -1, 4, false, " LIMIT 18446744073709551615 OFFSET 4"},
		{"mysql both", &MySQLDialect{}, 3, 2, false, " LIMIT 3 OFFSET 2"},
		{"postgres offset", NewPostgresDialect(), -1, 4, false, " OFFSET 4"},
		{"sqlserver unordered", &SQLServerDialect{}, 3, 2, false, " ORDER BY (SELECT NULL) OFFSET 2 ROWS FETCH NEXT 3 ROWS ONLY"},
		{"sqlserver ordered", &SQLServerDialect{}, 3, -1, true, " OFFSET 0 ROWS FETCH NEXT 3 ROWS ONLY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.dialect.LimitClause(tt.limit, tt.offset, tt.ordered))
		})
	}
}

func TestSourcesSQLite(t *testing.T) {
	ctx := context.Background()
	ds := model.DataSource{Name: "main", Engine: "sqlite", File: filepath.Join(t.TempDir(), "test.db")}

	sources := NewSources()
	defer sources.Close()

	conn, err := sources.Open(ctx, ds)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Exec(ctx, "CREATE TABLE users (UserID INTEGER PRIMARY KEY, Name TEXT)")
	require.NoError(t, err)

	res, err := conn.Exec(ctx, "INSERT INTO users (Name) VALUES ("+conn.Quote("Alice")+")")
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.RowsAffected)
	assert.True(t, res.HasInsertID)
	assert.Equal(t, int64(1), res.LastInsertID)

	cols, rows, err := conn.Query(ctx, "SELECT UserID, Name FROM users")
	require.NoError(t, err)
	assert.Equal(t, []string{"UserID", "Name"}, cols)
	require.Len(t, rows, 1)
	assert.Equal(t, "Alice", rows[0][1])

	require.NoError(t, conn.Begin(ctx))
	assert.True(t, conn.InTx())
	_, err = conn.Exec(ctx, "DELETE FROM users")
	require.NoError(t, err)
	require.NoError(t, conn.Rollback())
	assert.False(t, conn.InTx())

	_, rows, err = conn.Query(ctx, "SELECT UserID FROM users")
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	assert.Error(t, conn.Commit())
}

func TestSourcesUnsupported(t *testing.T) {
	_, err := NewSources().Open(context.Background(), model.DataSource{Name: "kv", Engine: "badger"})
	assert.Equal(t, apperr.KindUnsupportedSource, apperr.KindOf(err))
}
