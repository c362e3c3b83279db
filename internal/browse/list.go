package browse

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"browsestorage/backend/internal/apperr"
	"browsestorage/backend/internal/hook"
	"browsestorage/backend/internal/model"
	"browsestorage/backend/internal/planner"
	"browsestorage/backend/internal/service"
)

// List returns one page of rows of a table as [ids, list values] pairs.
func (e *Executor) List(ctx context.Context, p model.Payload) (*model.ListResponse, error) {
	key, _ := p.Get("table_key")
	return run(e, "list", key, func(out *bytes.Buffer) (*model.ListResponse, error) {
		key, err := tableKey(p)
		if err != nil {
			return nil, err
		}
		t, conn, err := e.open(ctx, key)
		if err != nil {
			return nil, err
		}
		defer conn.Close()
		return e.list(ctx, key, t, conn, p, out)
	})
}

func (e *Executor) list(ctx context.Context, key string, t *model.TableDescriptor, conn service.Conn, p model.Payload, out *bytes.Buffer) (*model.ListResponse, error) {
	before, err := e.Hooks.ListBefore(t.Hooks.ListBefore)
	if err != nil {
		return nil, err
	}
	after, err := e.Hooks.ListAfter(t.Hooks.ListAfter)
	if err != nil {
		return nil, err
	}
	params, err := ParseListParams(p)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(t.ListColumns))
	for i, col := range t.ListColumns {
		names[i] = columnName(t, col)
	}
	resp := &model.ListResponse{
		Name:      displayName(t),
		CanEdit:   t.Editable.Level(),
		CanInsert: t.Editable.CanInsert(),
		CanDelete: t.Editable.CanDelete(),
		RowCols: model.RowCols{
			ColID:     t.IDColumns,
			ColList:   t.ListColumns,
			NamesList: names,
		},
		Rows: []model.ListRow{},
	}
	lc := &hook.ListContext{
		TableKey: key,
		Table:    t,
		Conn:     conn,
		Params:   params,
		Response: resp,
		Output:   out,
	}

	ov := hook.Proceed()
	if before != nil {
		if ov, err = before(ctx, lc); err != nil {
			return nil, err
		}
		if err := checkOverride("list", ov); err != nil {
			return nil, err
		}
	}

	if ov.Kind != hook.KindReturnNow {
		if err := e.fetchList(ctx, lc, ov); err != nil {
			return nil, err
		}
	}

	if after != nil {
		if err := after(ctx, lc); err != nil {
			return nil, err
		}
	}
	return lc.Response, nil
}

func (e *Executor) fetchList(ctx context.Context, lc *hook.ListContext, ov hook.Override) error {
	t, params, resp := lc.Table, lc.Params, lc.Response
	pl := newPlanner(lc.Conn)

	if params.DoCount {
		sql, err := pl.Count(t, params, ov)
		if err != nil {
			return err
		}
		_, rows, err := e.query(ctx, lc.Conn, sql)
		if err != nil {
			return err
		}
		if len(rows) == 0 || len(rows[0]) == 0 {
			return apperr.Storage(nil, "count query returned no rows")
		}
		n, err := toInt64(rows[0][0])
		if err != nil {
			return apperr.Storage(err, "count query returned %v", rows[0][0])
		}
		resp.Count = &n
	}

	sql, err := pl.List(t, params, ov)
	if err != nil {
		return err
	}
	cols, rows, err := e.query(ctx, lc.Conn, sql)
	if err != nil {
		return err
	}

	var projection []string
	if ov.Kind != hook.KindFullSelect {
		projection = planner.Projection(t)
	}
	index := newResultIndex(cols, projection)
	for _, row := range rows {
		resp.Rows = append(resp.Rows, model.ListRow{index.pick(row, t.IDColumns), index.pick(row, t.ListColumns)})
	}

	// a full select pages by itself
	if ov.Kind != hook.KindFullSelect && params.RowStart != nil {
		resp.RowStart = *params.RowStart
	}
	return nil
}

func toInt64(v any) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case float64:
		return int64(x), nil
	case string:
		return strconv.ParseInt(x, 10, 64)
	}
	return strconv.ParseInt(fmt.Sprint(v), 10, 64)
}

// columnName is the configured label of col or its humanized identifier.
func columnName(t *model.TableDescriptor, col string) string {
	if c, ok := t.Column(col); ok && c.Name != "" {
		return c.Name
	}
	return humanize(col)
}
