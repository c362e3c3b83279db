// Package planner turns a table descriptor, request values and an optional
// hook override into SQL statements for one dialect.
//
// Identifiers are embedded as configured (they are validated when the
// configuration or the request is parsed); values are rendered as literals of
// the dialect unless they are model.RawSQL.
package planner

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"browsestorage/backend/internal/apperr"
	"browsestorage/backend/internal/hook"
	"browsestorage/backend/internal/model"
	"browsestorage/backend/internal/service"
)

type Planner struct {
	d service.Dialect
}

func New(d service.Dialect) *Planner {
	return &Planner{d: d}
}

// Projection is the deduplicated union of the id and list columns, in
// first-seen order.
func Projection(t *model.TableDescriptor) []string {
	return unique(t.IDColumns, t.ListColumns)
}

func unique(lists ...[]string) []string {
	seen := map[string]bool{}
	var out []string
	for _, l := range lists {
		for _, c := range l {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}

// Literal renders v for a comparison: integers and floats stay unquoted,
// RawSQL is embedded as is and anything else is quoted as a string.
func (p *Planner) Literal(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case model.RawSQL:
		return string(x)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(x)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return p.d.QuoteString(x)
	default:
		return p.d.QuoteString(fmt.Sprint(x))
	}
}

// value renders v for INSERT and UPDATE: everything but RawSQL and nil is
// quoted.
func (p *Planner) value(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case model.RawSQL:
		return string(x)
	case string:
		return p.d.QuoteString(x)
	default:
		return p.d.QuoteString(fmt.Sprint(x))
	}
}

// Condition renders "a = 1 AND b = 'x'" or "" for no values.
func (p *Planner) Condition(values model.ColumnValues) string {
	parts := make([]string, 0, len(values))
	for _, cv := range values {
		if cv.Value == nil {
			parts = append(parts, cv.Column+" IS NULL")
			continue
		}
		parts = append(parts, cv.Column+" = "+p.Literal(cv.Value))
	}
	return strings.Join(parts, " AND ")
}

func whereClause(cond string) string {
	if cond == "" {
		return ""
	}
	return " WHERE " + cond
}

// OrderBy renders " ORDER BY a, b DESC" or "".
func OrderBy(order []model.OrderSpec) string {
	if len(order) == 0 {
		return ""
	}
	parts := make([]string, len(order))
	for i, o := range order {
		parts[i] = o.Column
		if o.Desc {
			parts[i] += " DESC"
		}
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

// stripKeyword removes a leading keyword ("WHERE", "FROM") from a hook
// fragment, so hooks may return the clause with or without it.
func stripKeyword(fragment, keyword string) string {
	s := strings.TrimSpace(fragment)
	if len(s) > len(keyword) && strings.EqualFold(s[:len(keyword)], keyword) {
		switch s[len(keyword)] {
		case ' ', '\t', '\n', '\r':
			return strings.TrimSpace(s[len(keyword):])
		}
	}
	return s
}

// source returns the FROM target and the WHERE condition after applying a
// fragment override.
func (p *Planner) source(t *model.TableDescriptor, values model.ColumnValues, ov hook.Override) (string, string) {
	from := t.Table
	cond := ""
	switch ov.Kind {
	case hook.KindFromClause:
		from = stripKeyword(ov.SQL, "FROM")
	case hook.KindWhereClause:
		cond = stripKeyword(ov.SQL, "WHERE")
	}
	if ov.Kind != hook.KindWhereClause {
		cond = p.Condition(values)
	}
	return from, cond
}

func checkFragment(ov hook.Override) error {
	if ov.IsFragment() && strings.TrimSpace(ov.SQL) == "" {
		return apperr.Config("hook returned an empty %s fragment", ov.Kind)
	}
	return nil
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

// List builds the list SELECT. A full select override is returned verbatim,
// without pagination.
func (p *Planner) List(t *model.TableDescriptor, params *model.ListParams, ov hook.Override) (string, error) {
	if err := checkFragment(ov); err != nil {
		return "", err
	}
	if ov.Kind == hook.KindFullSelect {
		return strings.TrimSpace(ov.SQL), nil
	}
	from, cond := p.source(t, params.ColValues, ov)

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(Projection(t), ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(from)
	sb.WriteString(whereClause(cond))
	sb.WriteString(OrderBy(t.OrderBy))
	sb.WriteString(p.d.LimitClause(intOr(params.RowLimit, -1), intOr(params.RowStart, -1), len(t.OrderBy) > 0))
	return sb.String(), nil
}

// Count builds the statement counting the rows a List would page through.
func (p *Planner) Count(t *model.TableDescriptor, params *model.ListParams, ov hook.Override) (string, error) {
	if err := checkFragment(ov); err != nil {
		return "", err
	}
	if ov.Kind == hook.KindFullSelect {
		return CountFromSelect(ov.SQL)
	}
	from, cond := p.source(t, params.ColValues, ov)
	return "SELECT COUNT(*) FROM " + from + whereClause(cond), nil
}

var selectFrom = regexp.MustCompile(`(?is)^\s*SELECT\s.*?\sFROM\s`)

// CountFromSelect replaces the projection of a SELECT with COUNT(*). It only
// looks for the first FROM, so selects with subqueries in the projection are
// miscounted.
func CountFromSelect(sql string) (string, error) {
	loc := selectFrom.FindStringIndex(sql)
	if loc == nil {
		return "", apperr.Config("cannot derive a count from select override %q", sql)
	}
	return "SELECT COUNT(*) FROM " + strings.TrimSpace(sql[loc[1]:]), nil
}

// ReadColumns returns the columns a read must fetch: the configured columns
// plus the row values needed by buttons and options queries. Nil means all
// columns.
func ReadColumns(t *model.TableDescriptor) []string {
	if t.AutoColumns() {
		return nil
	}
	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		cols = append(cols, c.Column)
	}
	var extra []string
	for _, c := range t.Columns {
		if c.OptionsQuery != nil {
			extra = append(extra, c.OptionsQuery.Params...)
		}
	}
	for _, b := range t.Buttons {
		for _, bind := range b.Bindings {
			if bind.Column != "" {
				extra = append(extra, bind.Column)
			}
		}
	}
	return unique(cols, extra)
}

// Read builds the single-record SELECT. With no ids the statement only
// discovers columns.
func (p *Planner) Read(t *model.TableDescriptor, ids model.ColumnValues, ov hook.Override) (string, error) {
	if err := checkFragment(ov); err != nil {
		return "", err
	}
	if ov.Kind == hook.KindFullSelect {
		return strings.TrimSpace(ov.SQL), nil
	}
	from, cond := p.source(t, ids, ov)

	proj := "*"
	if cols := ReadColumns(t); cols != nil {
		proj = strings.Join(cols, ", ")
	}
	return "SELECT " + proj + " FROM " + from + whereClause(cond) + p.d.LimitClause(1, -1, false), nil
}

// Options builds the options query of a column, binding the named values of
// the fetched row.
func (p *Planner) Options(q *model.OptionsQuery, row map[string]any) (string, []any) {
	args := make([]any, len(q.Params))
	for i, name := range q.Params {
		args[i] = row[name]
	}
	return Rebind(p.d, q.SQL), args
}

// Rebind rewrites "?" placeholders outside string literals to the markers of d.
func Rebind(d service.Dialect, sql string) string {
	if d.Placeholder(1) == "?" {
		return sql
	}
	var sb strings.Builder
	n := 0
	inQuote := false
	for _, r := range sql {
		switch {
		case r == '\'':
			inQuote = !inQuote
		case r == '?' && !inQuote:
			n++
			sb.WriteString(d.Placeholder(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Insert builds an INSERT of the given values.
func (p *Planner) Insert(table string, values model.ColumnValues) (string, error) {
	if len(values) == 0 {
		return "", apperr.Validation("insert needs at least one column value")
	}
	vals := make([]string, len(values))
	for i, cv := range values {
		vals[i] = p.value(cv.Value)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(values.Columns(), ", "), strings.Join(vals, ", ")), nil
}

// Update builds an UPDATE of one record.
func (p *Planner) Update(table string, values, ids model.ColumnValues) (string, error) {
	if len(values) == 0 || len(ids) == 0 {
		return "", apperr.Validation("update needs ids and column values")
	}
	sets := make([]string, len(values))
	for i, cv := range values {
		sets[i] = cv.Column + " = " + p.value(cv.Value)
	}
	return "UPDATE " + table + " SET " + strings.Join(sets, ", ") + whereClause(p.Condition(ids)), nil
}

// Delete builds a DELETE of one record.
func (p *Planner) Delete(table string, ids model.ColumnValues) (string, error) {
	if len(ids) == 0 {
		return "", apperr.Validation("delete needs ids")
	}
	return "DELETE FROM " + table + whereClause(p.Condition(ids)), nil
}

// Write dispatches on the action.
func (p *Planner) Write(table string, action model.Action, values, ids model.ColumnValues) (string, error) {
	switch action {
	case model.ActionInsert:
		return p.Insert(table, values)
	case model.ActionUpdate:
		return p.Update(table, values, ids)
	case model.ActionDelete:
		return p.Delete(table, ids)
	}
	return "", apperr.Validation("unknown write action %q", action)
}
