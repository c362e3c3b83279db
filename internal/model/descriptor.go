package model

// Editable holds the editability level of a table plus the insert/delete bits.
type Editable uint8

const (
	NotEditable         Editable = 0
	EditableOnRequest   Editable = 1
	EditableImmediately Editable = 2
	CanInsert           Editable = 4
	CanDelete           Editable = 8

	levelMask = EditableOnRequest | EditableImmediately
)

// Level returns the base level (0, 1 or 2) without the insert/delete bits.
func (e Editable) Level() int { return int(e & levelMask) }

func (e Editable) CanInsert() bool { return e&CanInsert != 0 }

func (e Editable) CanDelete() bool { return e&CanDelete != 0 }

// OrderSpec is one ORDER BY entry.
type OrderSpec struct {
	Column string
	Desc   bool
}

// Option is one choice offered by a select or radio control.
type Option struct {
	Value any    `json:"value"`
	Text  string `json:"text"`
}

// OptionsQuery loads the options of a column with a secondary query. The
// query returns (value, text) rows; Params names the row columns whose values
// are bound to its "?" placeholders, in order.
type OptionsQuery struct {
	SQL    string
	Params []string
}

// ControlLabel marks a read-only column.
const ControlLabel = "label"

// ColumnSpec describes how one column is shown and edited.
type ColumnSpec struct {
	Column       string
	Name         string
	Control      string
	Help         string
	Options      []Option
	OptionsQuery *OptionsQuery
}

func (c ColumnSpec) ReadOnly() bool { return c.Control == ControlLabel }

// ButtonKind selects how a related-record button builds its URL.
type ButtonKind int

const (
	ButtonList ButtonKind = iota
	ButtonRead
	ButtonWrite
	ButtonURL
)

// Binding supplies one value to a button: either the value of Column in the
// current record or the literal Value. As names the target column for list
// buttons and defaults to Column.
type Binding struct {
	Column string
	Value  string
	As     string
}

// ButtonSpec is a link from a record to related records.
type ButtonSpec struct {
	Name     string
	Help     string
	Kind     ButtonKind
	Target   string // table key for list/read/write, template for url
	Bindings []Binding
}

// HookNames references registered hook functions by name.
type HookNames struct {
	ListBefore  string
	ListAfter   string
	ReadBefore  string
	ReadAfter   string
	WriteBefore string
	WriteAfter  string
}

// WildcardTable is the table value of a template descriptor whose real table
// name comes from the request key.
const WildcardTable = "*"

// TableDescriptor is the validated configuration of one browsable table.
type TableDescriptor struct {
	Key         string
	Source      string
	Table       string
	Name        string
	Group       string
	Icon        string
	Unlisted    bool
	IDColumns   []string
	ListColumns []string
	OrderBy     []OrderSpec
	Columns     []ColumnSpec
	TitleColumn string
	Editable    Editable
	Buttons     []ButtonSpec
	Hooks       HookNames
}

func (t *TableDescriptor) IsWildcard() bool { return t.Table == WildcardTable }

// AutoColumns reports whether columns are discovered from the fetched row.
func (t *TableDescriptor) AutoColumns() bool { return len(t.Columns) == 0 }

// Column returns the spec of col, if configured.
func (t *TableDescriptor) Column(col string) (ColumnSpec, bool) {
	for _, c := range t.Columns {
		if c.Column == col {
			return c, true
		}
	}
	return ColumnSpec{}, false
}

// Title returns the column whose value titles a record.
func (t *TableDescriptor) Title() string {
	if t.TitleColumn != "" {
		return t.TitleColumn
	}
	if len(t.ListColumns) > 0 {
		return t.ListColumns[0]
	}
	return ""
}

// WithTable returns a copy bound to a concrete table name. Slices are shared;
// descriptors are never mutated after load.
func (t *TableDescriptor) WithTable(table string) *TableDescriptor {
	c := *t
	c.Table = table
	return &c
}
