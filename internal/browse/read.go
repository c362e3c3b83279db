package browse

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"browsestorage/backend/internal/hook"
	"browsestorage/backend/internal/model"
	"browsestorage/backend/internal/planner"
	"browsestorage/backend/internal/service"
)

// Controls whose options default to the current value when none are known.
var choiceControls = map[string]bool{"select": true, "radio": true}

const numberControl = "number"

// Read returns the column descriptors of a table and, when ids are given,
// the values of one record plus its related-record buttons.
func (e *Executor) Read(ctx context.Context, p model.Payload) (*model.ReadResponse, error) {
	key, _ := p.Get("table_key")
	return run(e, "read", key, func(out *bytes.Buffer) (*model.ReadResponse, error) {
		key, err := tableKey(p)
		if err != nil {
			return nil, err
		}
		t, conn, err := e.open(ctx, key)
		if err != nil {
			return nil, err
		}
		defer conn.Close()
		return e.read(ctx, key, t, conn, p, out)
	})
}

func (e *Executor) read(ctx context.Context, key string, t *model.TableDescriptor, conn service.Conn, p model.Payload, out *bytes.Buffer) (*model.ReadResponse, error) {
	before, err := e.Hooks.ReadBefore(t.Hooks.ReadBefore)
	if err != nil {
		return nil, err
	}
	after, err := e.Hooks.ReadAfter(t.Hooks.ReadAfter)
	if err != nil {
		return nil, err
	}
	ids, err := ParseIDs(t, p)
	if err != nil {
		return nil, err
	}

	resp := &model.ReadResponse{
		CanEdit:   t.Editable.Level(),
		CanInsert: t.Editable.CanInsert(),
		CanDelete: t.Editable.CanDelete(),
		Columns:   make([]model.ReadColumn, 0, len(t.Columns)),
		Buttons:   []model.Button{},
	}
	for _, c := range t.Columns {
		resp.Columns = append(resp.Columns, newReadColumn(c))
	}
	rc := &hook.ReadContext{
		TableKey: key,
		Table:    t,
		Conn:     conn,
		IDs:      ids,
		Response: resp,
		Output:   out,
	}

	ov := hook.Proceed()
	if before != nil {
		if ov, err = before(ctx, rc); err != nil {
			return nil, err
		}
		if err := checkOverride("read", ov); err != nil {
			return nil, err
		}
	}

	if ov.Kind != hook.KindReturnNow {
		if err := e.fetchRecord(ctx, rc, ov); err != nil {
			return nil, err
		}
	}

	if after != nil {
		if err := after(ctx, rc); err != nil {
			return nil, err
		}
	}

	resp = rc.Response
	for i, c := range resp.Columns {
		if choiceControls[c.Control] && len(c.Options) == 0 {
			resp.Columns[i].Options = defaultOptions(c.Value)
		}
	}
	resp.ColName = max(resp.ColumnIndex(t.Title()), 0)
	return resp, nil
}

func newReadColumn(c model.ColumnSpec) model.ReadColumn {
	rc := model.ReadColumn{
		Column:  c.Column,
		Name:    c.Name,
		Control: c.Control,
		Help:    c.Help,
	}
	if rc.Name == "" {
		rc.Name = humanize(c.Column)
	}
	if c.Options != nil {
		rc.Options = append([]model.Option{}, c.Options...)
	}
	return rc
}

func defaultOptions(v any) []model.Option {
	if v == nil {
		return []model.Option{}
	}
	return []model.Option{{Value: v, Text: "*"}}
}

// fetchRecord runs the record query, fills values, options and buttons.
func (e *Executor) fetchRecord(ctx context.Context, rc *hook.ReadContext, ov hook.Override) error {
	t, resp := rc.Table, rc.Response
	pl := newPlanner(rc.Conn)
	row := map[string]any{}

	// configured columns and no record: nothing to fetch
	if len(rc.IDs) > 0 || t.AutoColumns() {
		sql, err := pl.Read(t, rc.IDs, ov)
		if err != nil {
			return err
		}
		cols, rows, err := e.query(ctx, rc.Conn, sql)
		if err != nil {
			return err
		}
		if t.AutoColumns() {
			resp.Columns = resp.Columns[:0]
			for _, c := range cols {
				resp.Columns = append(resp.Columns, newReadColumn(model.ColumnSpec{Column: c, Control: "text"}))
			}
		}
		if len(rc.IDs) > 0 && len(rows) > 0 {
			var projection []string
			if ov.Kind != hook.KindFullSelect {
				projection = planner.ReadColumns(t)
			}
			row = newResultIndex(cols, projection).record(rows[0], referenced(t, resp))
			for i, c := range resp.Columns {
				resp.Columns[i].Value = coerce(c.Control, row[c.Column])
			}
		}
	}

	if err := e.loadOptions(ctx, rc.Conn, pl, t, resp, row); err != nil {
		return err
	}
	if len(rc.IDs) > 0 {
		resp.Buttons = buttons(t, row)
	}
	return nil
}

// referenced lists the row values a read looks up: its columns, options
// query params and button bindings.
func referenced(t *model.TableDescriptor, resp *model.ReadResponse) []string {
	var names []string
	for _, c := range resp.Columns {
		names = append(names, c.Column)
	}
	for _, c := range t.Columns {
		if c.OptionsQuery != nil {
			names = append(names, c.OptionsQuery.Params...)
		}
	}
	for _, b := range t.Buttons {
		for _, bind := range b.Bindings {
			if bind.Column != "" {
				names = append(names, bind.Column)
			}
		}
	}
	return names
}

func (e *Executor) loadOptions(ctx context.Context, conn service.Conn, pl *planner.Planner, t *model.TableDescriptor, resp *model.ReadResponse, row map[string]any) error {
	for i, c := range resp.Columns {
		spec, ok := t.Column(c.Column)
		if !ok || spec.OptionsQuery == nil || len(c.Options) > 0 {
			continue
		}
		sql, args := pl.Options(spec.OptionsQuery, row)
		_, rows, err := e.query(ctx, conn, sql, args...)
		if err != nil {
			return err
		}
		opts := make([]model.Option, 0, len(rows))
		for _, r := range rows {
			if len(r) == 0 {
				continue
			}
			opt := model.Option{Value: r[0], Text: describe(r[0])}
			if len(r) > 1 {
				opt.Text = describe(r[1])
			}
			opts = append(opts, opt)
		}
		resp.Columns[i].Options = opts
	}
	return nil
}

// coerce turns the text value of a number control into an int or float.
func coerce(control string, v any) any {
	s, ok := v.(string)
	if control != numberControl || !ok {
		return v
	}
	s = strings.TrimSpace(s)
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
		return v
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	return v
}

func buttons(t *model.TableDescriptor, row map[string]any) []model.Button {
	out := make([]model.Button, 0, len(t.Buttons))
	for _, b := range t.Buttons {
		vals := make([]string, len(b.Bindings))
		for i, bind := range b.Bindings {
			if bind.Column != "" {
				vals[i] = describe(row[bind.Column])
			} else {
				vals[i] = bind.Value
			}
		}
		out = append(out, model.Button{Name: b.Name, Help: b.Help, URL: buttonURL(b, vals)})
	}
	return out
}

func buttonURL(b model.ButtonSpec, vals []string) string {
	var q []string
	switch b.Kind {
	case model.ButtonList:
		for i, bind := range b.Bindings {
			col := bind.As
			if col == "" {
				col = bind.Column
			}
			q = append(q,
				fmt.Sprintf("col%d=%s", i, url.QueryEscape(col)),
				fmt.Sprintf("col%d_value=%s", i, url.QueryEscape(vals[i])))
		}
		return "list/" + url.PathEscape(b.Target) + "?" + strings.Join(q, "&")
	case model.ButtonRead, model.ButtonWrite:
		prefix := "read/"
		if b.Kind == model.ButtonWrite {
			prefix = "write/"
		}
		for i := range b.Bindings {
			q = append(q, fmt.Sprintf("id%d=%s", i, url.QueryEscape(vals[i])))
		}
		return prefix + url.PathEscape(b.Target) + "?" + strings.Join(q, "&")
	default:
		u := b.Target
		for i, v := range vals {
			u = strings.ReplaceAll(u, "{"+strconv.Itoa(i)+"}", url.QueryEscape(v))
		}
		return u
	}
}
