package browse

import (
	"bytes"
	"context"

	"browsestorage/backend/internal/apperr"
	"browsestorage/backend/internal/hook"
	"browsestorage/backend/internal/model"
	"browsestorage/backend/internal/service"
)

// Write inserts, updates or deletes one record inside a transaction that
// also spans the write hooks.
func (e *Executor) Write(ctx context.Context, p model.Payload) (*model.WriteResponse, error) {
	key, _ := p.Get("table_key")
	return run(e, "write", key, func(out *bytes.Buffer) (*model.WriteResponse, error) {
		key, err := tableKey(p)
		if err != nil {
			return nil, err
		}
		t, conn, err := e.open(ctx, key)
		if err != nil {
			return nil, err
		}
		defer conn.Close()
		return e.write(ctx, key, t, conn, p, out)
	})
}

func (e *Executor) write(ctx context.Context, key string, t *model.TableDescriptor, conn service.Conn, p model.Payload, out *bytes.Buffer) (*model.WriteResponse, error) {
	before, err := e.Hooks.WriteBefore(t.Hooks.WriteBefore)
	if err != nil {
		return nil, err
	}
	after, err := e.Hooks.WriteAfter(t.Hooks.WriteAfter)
	if err != nil {
		return nil, err
	}
	ids, err := ParseIDs(t, p)
	if err != nil {
		return nil, err
	}
	values, err := ParseColValues(p)
	if err != nil {
		return nil, err
	}

	if t.Editable.Level() == 0 {
		return nil, apperr.Validation("table %q is not editable", key)
	}
	if !t.AutoColumns() {
		for _, cv := range values {
			if c, ok := t.Column(cv.Column); !ok || c.ReadOnly() {
				return nil, apperr.Validation("column %q cannot be modified", cv.Column)
			}
		}
	}
	raw, _ := p.Get("action")
	action, ok := model.ParseAction(raw)
	if !ok {
		return nil, apperr.Validation("unknown action %q", raw)
	}
	if err := CheckAction(action, ids, values); err != nil {
		return nil, err
	}

	if err := conn.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		// also runs while a hook panic unwinds
		if conn.InTx() {
			if rerr := conn.Rollback(); rerr != nil {
				e.logf("write %q: rollback failed: %v", key, rerr)
			}
		}
	}()

	wc := &hook.WriteContext{
		TableKey:     key,
		Table:        t,
		Conn:         conn,
		Action:       action,
		IDs:          ids,
		ColValues:    values,
		Response:     &model.WriteResponse{},
		AffectedRows: hook.AffectedRowsUnknown,
		Output:       out,
	}

	ov := hook.Proceed()
	if before != nil {
		if ov, err = before(ctx, wc); err != nil {
			return nil, err
		}
	}
	switch ov.Kind {
	case hook.KindProceed:
		sql, err := newPlanner(conn).Write(t.Table, wc.Action, wc.ColValues, wc.IDs)
		if err != nil {
			return nil, err
		}
		res, err := e.exec(ctx, conn, sql)
		if err != nil {
			return nil, err
		}
		wc.AffectedRows = res.RowsAffected
		if wc.Action == model.ActionInsert && res.HasInsertID {
			wc.Response.InsertID = res.LastInsertID
		}
	case hook.KindReturnNow:
	default:
		return nil, apperr.Config("write before-hook cannot return a %s override", ov.Kind)
	}

	if after != nil {
		if err := after(ctx, wc); err != nil {
			return nil, err
		}
	}

	// the after-hook may have ended the transaction itself
	if conn.InTx() {
		if err := conn.Commit(); err != nil {
			return nil, err
		}
	}
	return wc.Response, nil
}
