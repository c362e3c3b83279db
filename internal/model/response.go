package model

import "encoding/json"

// RowCols names the positional values of every list row.
type RowCols struct {
	ColID     []string `json:"col_id"`
	ColList   []string `json:"col_list"`
	NamesList []string `json:"names_list"`
}

// ListRow is [idValues, listValues], aligned with RowCols.ColID and ColList.
type ListRow [2][]any

type ListResponse struct {
	Error     bool      `json:"error"`
	Name      string    `json:"name"`
	CanEdit   int       `json:"can_edit"`
	CanInsert bool      `json:"can_insert"`
	CanDelete bool      `json:"can_delete"`
	Count     *int64    `json:"count,omitempty"`
	RowStart  int       `json:"row_start"`
	RowCols   RowCols   `json:"row_cols"`
	Rows      []ListRow `json:"rows"`
}

// ReadColumn is one column of a read response. Value is omitted when nil;
// Options is omitted when nil and rendered as [] when empty.
type ReadColumn struct {
	Column  string
	Name    string
	Control string
	Help    string
	Value   any
	Options []Option
}

func (c ReadColumn) MarshalJSON() ([]byte, error) {
	out := struct {
		Column  string    `json:"column"`
		Name    string    `json:"name"`
		Control string    `json:"control"`
		Help    string    `json:"help,omitempty"`
		Value   any       `json:"value,omitempty"`
		Options *[]Option `json:"options,omitempty"`
	}{
		Column:  c.Column,
		Name:    c.Name,
		Control: c.Control,
		Help:    c.Help,
		Value:   c.Value,
	}
	if c.Options != nil {
		out.Options = &c.Options
	}
	return json.Marshal(out)
}

// Button is a resolved link to related records.
type Button struct {
	Name string `json:"name"`
	Help string `json:"help,omitempty"`
	URL  string `json:"url"`
}

type ReadResponse struct {
	Error     bool         `json:"error"`
	ColName   int          `json:"col_name"`
	CanEdit   int          `json:"can_edit"`
	CanInsert bool         `json:"can_insert"`
	CanDelete bool         `json:"can_delete"`
	Columns   []ReadColumn `json:"columns"`
	Buttons   []Button     `json:"buttons"`
}

// ColumnIndex returns the position of col in Columns, or -1.
func (r *ReadResponse) ColumnIndex(col string) int {
	for i, c := range r.Columns {
		if c.Column == col {
			return i
		}
	}
	return -1
}

type WriteResponse struct {
	Error    bool           `json:"error"`
	InsertID any            `json:"insert_id,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

type TableEntry struct {
	TableKey string `json:"table_key"`
	Name     string `json:"name"`
	Icon     string `json:"icon"`
}

type TableGroup struct {
	Name   string       `json:"name"`
	Tables []TableEntry `json:"tables"`
}

type TablesResponse struct {
	Error  bool         `json:"error"`
	Groups []TableGroup `json:"groups,omitempty"`
	Tables []TableEntry `json:"tables,omitempty"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
