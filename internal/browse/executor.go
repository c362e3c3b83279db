// Package browse runs the list, read, write and tables operations: it
// resolves the table descriptor, parses the request, calls the hooks around
// the planned statements and assembles the response.
package browse

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"browsestorage/backend/internal/apperr"
	"browsestorage/backend/internal/config"
	"browsestorage/backend/internal/hook"
	"browsestorage/backend/internal/model"
	"browsestorage/backend/internal/planner"
	"browsestorage/backend/internal/service"
)

type Executor struct {
	Config  *config.Config
	Sources service.Opener
	Hooks   *hook.Registry
	Logger  *log.Logger
}

func New(cfg *config.Config, sources service.Opener, hooks *hook.Registry) *Executor {
	if hooks == nil {
		hooks = hook.NewRegistry()
	}
	return &Executor{Config: cfg, Sources: sources, Hooks: hooks, Logger: log.Default()}
}

func (e *Executor) logf(format string, args ...any) {
	if e.Logger != nil {
		e.Logger.Printf(format, args...)
	}
}

// run executes one operation body. It turns panics into internal errors and
// fails the operation if anything was written to the output buffer handed
// to hooks.
func run[R any](e *Executor, op, key string, body func(out *bytes.Buffer) (R, error)) (res R, err error) {
	out := &bytes.Buffer{}
	defer func() {
		if r := recover(); r != nil {
			err = apperr.Internal("%s: panic: %v", op, r)
		}
		if out.Len() > 0 {
			stray := strings.TrimSpace(out.String())
			if stray == "" {
				stray = strconv.Quote(out.String())
			}
			if err == nil {
				err = apperr.Internal("unexpected output:\n%s", stray)
			} else {
				err = apperr.As(err).WithNote("\nFurthermore, there was unexpected output:\n" + stray)
			}
		}
		if err != nil {
			var zero R
			res = zero
			e.logf("%s %q failed: %v", op, key, err)
		}
	}()
	return body(out)
}

// open resolves key and checks out a connection to its source. The caller
// must close the connection.
func (e *Executor) open(ctx context.Context, key string) (*model.TableDescriptor, service.Conn, error) {
	t, ds, err := Resolve(e.Config, key)
	if err != nil {
		return nil, nil, err
	}
	conn, err := e.Sources.Open(ctx, ds)
	if err != nil {
		return nil, nil, err
	}
	return t, conn, nil
}

func (e *Executor) query(ctx context.Context, conn service.Conn, sql string, args ...any) ([]string, [][]any, error) {
	e.logf("Executing query: %s", sql)
	return conn.Query(ctx, sql, args...)
}

func (e *Executor) exec(ctx context.Context, conn service.Conn, sql string) (service.Result, error) {
	e.logf("Executing statement: %s", sql)
	return conn.Exec(ctx, sql)
}

func tableKey(p model.Payload) (string, error) {
	key, _ := p.Get("table_key")
	if key == "" {
		return "", apperr.Validation("missing table_key")
	}
	return key, nil
}

// displayName is the configured table name or the humanized table identifier.
func displayName(t *model.TableDescriptor) string {
	if t.Name != "" {
		return t.Name
	}
	return humanize(t.Table)
}

func checkOverride(op string, ov hook.Override) error {
	switch ov.Kind {
	case hook.KindProceed, hook.KindReturnNow, hook.KindFullSelect, hook.KindFromClause, hook.KindWhereClause:
		return nil
	}
	return apperr.Config("%s before-hook returned an unknown override %d", op, int(ov.Kind))
}

func newPlanner(conn service.Conn) *planner.Planner {
	return planner.New(conn.Dialect())
}

func describe(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// Ping checks that a configured data source accepts connections.
func (e *Executor) Ping(ctx context.Context, source string) error {
	ds, ok := e.Config.Source(source)
	if !ok {
		return apperr.Config("data source %q not found", source)
	}
	conn, err := e.Sources.Open(ctx, ds)
	if err != nil {
		return err
	}
	return conn.Close()
}
