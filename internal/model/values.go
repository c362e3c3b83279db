package model

// RawSQL is a value embedded in a statement without escaping. Only hooks
// produce it; request values are always plain strings.
type RawSQL string

// ColumnValue pairs a column identifier with a value.
type ColumnValue struct {
	Column string
	Value  any
}

// ColumnValues is an ordered set of column values without duplicate columns.
type ColumnValues []ColumnValue

func (v ColumnValues) Len() int { return len(v) }

func (v ColumnValues) Get(col string) (any, bool) {
	for _, cv := range v {
		if cv.Column == col {
			return cv.Value, true
		}
	}
	return nil, false
}

func (v ColumnValues) Has(col string) bool {
	_, ok := v.Get(col)
	return ok
}

// Set replaces the value of col or appends it.
func (v *ColumnValues) Set(col string, value any) {
	for i := range *v {
		if (*v)[i].Column == col {
			(*v)[i].Value = value
			return
		}
	}
	*v = append(*v, ColumnValue{Column: col, Value: value})
}

func (v *ColumnValues) Delete(col string) {
	for i := range *v {
		if (*v)[i].Column == col {
			*v = append((*v)[:i], (*v)[i+1:]...)
			return
		}
	}
}

func (v ColumnValues) Columns() []string {
	cols := make([]string, len(v))
	for i, cv := range v {
		cols[i] = cv.Column
	}
	return cols
}
