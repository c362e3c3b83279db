package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"browsestorage/backend/internal/apperr"
	"browsestorage/backend/internal/model"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateFile(f *File) error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s fails %q", fe.Namespace(), fe.Tag()))
		}
		return apperr.Config("invalid configuration: %s", strings.Join(msgs, "; "))
	}
	return apperr.Config("invalid configuration: %v", err)
}

func compileSource(name string, s SourceFile) (model.DataSource, error) {
	ds := model.DataSource{
		Name:    name,
		Engine:  strings.ToLower(s.Engine),
		Server:  s.Server,
		Port:    s.Port,
		Schema:  s.Schema,
		User:    s.User,
		Passwd:  s.Passwd,
		File:    s.File,
		DSN:     s.DSN,
		Options: s.Options,
		Pool: model.PoolConfig{
			MaxOpenConns: s.Pool.MaxOpenConns,
			MaxIdleConns: s.Pool.MaxIdleConns,
		},
	}
	var err error
	if ds.Pool.ConnMaxLifetime, err = parseDuration(s.Pool.ConnMaxLifetime); err != nil {
		return ds, apperr.Config("data source %q: conn_max_lifetime: %v", name, err)
	}
	if ds.Pool.ConnMaxIdleTime, err = parseDuration(s.Pool.ConnMaxIdleTime); err != nil {
		return ds, apperr.Config("data source %q: conn_max_idle_time: %v", name, err)
	}
	return ds, nil
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

func compileTable(t TableFile) (*model.TableDescriptor, error) {
	td := &model.TableDescriptor{
		Key:         t.Key,
		Source:      t.Source,
		Table:       t.Table,
		Name:        t.Name,
		Group:       t.Group,
		Icon:        t.Icon,
		Unlisted:    t.Unlisted,
		IDColumns:   t.ID,
		ListColumns: t.List,
		TitleColumn: t.Title,
		Hooks: model.HookNames{
			ListBefore:  t.Hooks.ListBefore,
			ListAfter:   t.Hooks.ListAfter,
			ReadBefore:  t.Hooks.ReadBefore,
			ReadAfter:   t.Hooks.ReadAfter,
			WriteBefore: t.Hooks.WriteBefore,
			WriteAfter:  t.Hooks.WriteAfter,
		},
	}

	for _, o := range t.Order {
		td.OrderBy = append(td.OrderBy, ParseOrder(o))
	}

	editable, err := ParseEditable(t.Editable)
	if err != nil {
		return nil, tableError(t.Key, "%v", err)
	}
	td.Editable = editable

	for _, c := range t.Columns {
		spec := model.ColumnSpec{
			Column:  c.Column,
			Name:    c.Name,
			Control: strings.ToLower(c.Control),
			Help:    c.Help,
		}
		if spec.Control == "" {
			spec.Control = "text"
		}
		for _, o := range c.Options {
			spec.Options = append(spec.Options, model.Option{Value: o.Value, Text: o.Text})
		}
		if c.OptionsQuery != nil {
			spec.OptionsQuery = &model.OptionsQuery{SQL: c.OptionsQuery.SQL, Params: c.OptionsQuery.Params}
		}
		td.Columns = append(td.Columns, spec)
	}

	for _, b := range t.Buttons {
		kind, target := ParseButtonTarget(b.Target)
		spec := model.ButtonSpec{Name: b.Name, Help: b.Help, Kind: kind, Target: target}
		for _, bind := range b.Bind {
			spec.Bindings = append(spec.Bindings, model.Binding{Column: bind.Column, Value: bind.Value, As: bind.As})
		}
		td.Buttons = append(td.Buttons, spec)
	}
	return td, nil
}

// ParseOrder reads an ORDER BY entry; a leading "-" means descending.
func ParseOrder(s string) model.OrderSpec {
	if strings.HasPrefix(s, "-") {
		return model.OrderSpec{Column: s[1:], Desc: true}
	}
	return model.OrderSpec{Column: s}
}

// ParseEditable combines editability flag names.
func ParseEditable(flags []string) (model.Editable, error) {
	var e model.Editable
	for _, f := range flags {
		switch strings.ToLower(f) {
		case "none":
		case "on_request":
			e |= model.EditableOnRequest
		case "immediately":
			e |= model.EditableImmediately
		case "insert":
			e |= model.CanInsert
		case "delete":
			e |= model.CanDelete
		default:
			return 0, fmt.Errorf("unknown editable flag %q", f)
		}
	}
	return e, nil
}

// ParseButtonTarget splits "list:key", "read:key" and "write:key"; anything
// else is a URL template.
func ParseButtonTarget(s string) (model.ButtonKind, string) {
	if prefix, key, ok := strings.Cut(s, ":"); ok {
		switch prefix {
		case "list":
			return model.ButtonList, key
		case "read":
			return model.ButtonRead, key
		case "write":
			return model.ButtonWrite, key
		}
	}
	return model.ButtonURL, s
}

// checkTable enforces the descriptor invariants shared by file-loaded and
// programmatically built configurations.
func checkTable(t *model.TableDescriptor) error {
	if t.Key == "" {
		return apperr.Config("table with empty key")
	}
	if strings.Contains(t.Key, "|") {
		return tableError(t.Key, "key must not contain '|'")
	}
	if t.Table == "" {
		return tableError(t.Key, "missing table")
	}
	if len(t.IDColumns) == 0 {
		return tableError(t.Key, "no id columns")
	}
	seen := make(map[string]bool, len(t.IDColumns))
	for _, c := range t.IDColumns {
		if c == "" {
			return tableError(t.Key, "empty id column")
		}
		if seen[c] {
			return tableError(t.Key, "duplicated id column %q", c)
		}
		seen[c] = true
	}
	if len(t.ListColumns) == 0 {
		return tableError(t.Key, "no list columns")
	}
	if t.Editable&model.EditableOnRequest != 0 && t.Editable&model.EditableImmediately != 0 {
		return tableError(t.Key, "on_request and immediately are mutually exclusive")
	}
	cols := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		if cols[c.Column] {
			return tableError(t.Key, "duplicated column %q", c.Column)
		}
		cols[c.Column] = true
	}
	for _, o := range t.OrderBy {
		if o.Column == "" {
			return tableError(t.Key, "empty order column")
		}
	}
	for _, b := range t.Buttons {
		if b.Target == "" {
			return tableError(t.Key, "button %q has no target", b.Name)
		}
	}
	return nil
}
