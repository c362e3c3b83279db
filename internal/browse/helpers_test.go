package browse

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"browsestorage/backend/internal/config"
	"browsestorage/backend/internal/hook"
	"browsestorage/backend/internal/model"
	"browsestorage/backend/internal/service"

	"github.com/stretchr/testify/require"
)

var seedUsers = []struct {
	login string
	name  string
	age   int
}{
	{"alice", "Alice A.", 31},
	{"bob", "Bob B.", 25},
	{"carol", "Carol C.", 42},
	{"dave", "Dave D.", 19},
	{"erin", "Erin E.", 37},
	{"frank", "Frank F.", 25},
	{"grace", "Grace G.", 58},
	{"heidi", "Heidi H.", 23},
	{"ivan", "Ivan I.", 44},
	{"judy", "Judy J.", 30},
}

func usersDescriptor() *model.TableDescriptor {
	return &model.TableDescriptor{
		Key:         "users",
		Source:      "main",
		Table:       "users",
		Group:       "People",
		IDColumns:   []string{"UserID"},
		ListColumns: []string{"LogInName", "Name"},
		Columns: []model.ColumnSpec{
			{Column: "UserID", Name: "ID", Control: "label"},
			{Column: "LogInName", Control: "text"},
			{Column: "Name", Control: "text"},
			{Column: "Age", Control: "number"},
			{Column: "RoleID", Control: "select", OptionsQuery: &model.OptionsQuery{SQL: "SELECT RoleID, Title FROM roles ORDER BY RoleID"}},
			{Column: "Kind", Control: "radio"},
		},
		TitleColumn: "Name",
		Editable:    model.EditableImmediately | model.CanInsert | model.CanDelete,
		Buttons: []model.ButtonSpec{
			{Name: "Same age", Kind: model.ButtonList, Target: "users", Bindings: []model.Binding{{Column: "Age"}}},
			{Name: "Edit", Kind: model.ButtonWrite, Target: "users", Bindings: []model.Binding{{Column: "UserID"}}},
			{Name: "Search", Kind: model.ButtonURL, Target: "https://example.com/?q={0}", Bindings: []model.Binding{{Column: "Name"}}},
		},
	}
}

type fixture struct {
	exec    *Executor
	sources *service.Sources
	hooks   *hook.Registry
	ds      model.DataSource
}

// newFixture creates a sqlite database with ten users and an executor over
// it. Extra descriptors are added to the users descriptor.
func newFixture(t *testing.T, tables ...*model.TableDescriptor) *fixture {
	t.Helper()
	ctx := context.Background()
	ds := model.DataSource{Engine: "sqlite", File: filepath.Join(t.TempDir(), "browse.db")}

	sources := service.NewSources()
	t.Cleanup(func() { sources.Close() })

	conn, err := sources.Open(ctx, model.DataSource{Name: "main", Engine: ds.Engine, File: ds.File})
	require.NoError(t, err)
	stmts := []string{
		"CREATE TABLE users (UserID INTEGER PRIMARY KEY, LogInName TEXT, Name TEXT, Age INTEGER, RoleID INTEGER, Kind TEXT)",
		"CREATE TABLE roles (RoleID INTEGER PRIMARY KEY, Title TEXT)",
		"INSERT INTO roles (RoleID, Title) VALUES (1, 'Admin'), (2, 'Staff')",
	}
	for _, u := range seedUsers {
		stmts = append(stmts, fmt.Sprintf("INSERT INTO users (LogInName, Name, Age, RoleID) VALUES ('%s', '%s', %d, 2)", u.login, u.name, u.age))
	}
	for _, s := range stmts {
		_, err := conn.Exec(ctx, s)
		require.NoError(t, err)
	}
	require.NoError(t, conn.Close())

	cfg, err := config.New(
		map[string]model.DataSource{"main": ds},
		append([]*model.TableDescriptor{usersDescriptor()}, tables...),
	)
	require.NoError(t, err)

	hooks := hook.NewRegistry()
	exec := New(cfg, sources, hooks)
	exec.Logger = nil
	ds.Name = "main"
	return &fixture{exec: exec, sources: sources, hooks: hooks, ds: ds}
}

func (f *fixture) countUsers(t *testing.T) int64 {
	t.Helper()
	ctx := context.Background()
	conn, err := f.sources.Open(ctx, f.ds)
	require.NoError(t, err)
	defer conn.Close()
	_, rows, err := conn.Query(ctx, "SELECT COUNT(*) FROM users")
	require.NoError(t, err)
	return rows[0][0].(int64)
}

// mockConn records statements and answers them with the injected funcs.
type mockConn struct {
	queryFunc func(query string, args ...any) ([]string, [][]any, error)
	execFunc  func(query string) (service.Result, error)

	queries   []string
	execs     []string
	inTx      bool
	commits   int
	rollbacks int
	closed    bool
}

func (m *mockConn) Query(ctx context.Context, query string, args ...any) ([]string, [][]any, error) {
	m.queries = append(m.queries, query)
	if m.queryFunc != nil {
		return m.queryFunc(query, args...)
	}
	return nil, nil, nil
}

func (m *mockConn) Exec(ctx context.Context, query string, args ...any) (service.Result, error) {
	m.execs = append(m.execs, query)
	if m.execFunc != nil {
		return m.execFunc(query)
	}
	return service.Result{RowsAffected: 1}, nil
}

func (m *mockConn) Quote(s string) string           { return m.Dialect().QuoteString(s) }
func (m *mockConn) Dialect() service.Dialect        { return &service.SQLiteDialect{} }
func (m *mockConn) Begin(ctx context.Context) error { m.inTx = true; return nil }
func (m *mockConn) Commit() error                   { m.inTx = false; m.commits++; return nil }
func (m *mockConn) Rollback() error                 { m.inTx = false; m.rollbacks++; return nil }
func (m *mockConn) InTx() bool                      { return m.inTx }
func (m *mockConn) Close() error                    { m.closed = true; return nil }

type mockOpener struct {
	conn *mockConn
	err  error
}

func (m *mockOpener) Open(ctx context.Context, ds model.DataSource) (service.Conn, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.conn, nil
}

// newMockExecutor serves the given descriptors from a mock connection.
func newMockExecutor(t *testing.T, conn *mockConn, tables ...*model.TableDescriptor) (*Executor, *hook.Registry) {
	t.Helper()
	cfg, err := config.New(map[string]model.DataSource{"main": {Engine: "sqlite", File: "unused.db"}}, tables)
	require.NoError(t, err)
	hooks := hook.NewRegistry()
	exec := New(cfg, &mockOpener{conn: conn}, hooks)
	exec.Logger = nil
	return exec, hooks
}
