package browse

import "strings"

// resultIndex finds descriptor columns in a result set. Engines may report
// folded names (PostgreSQL lower-cases unquoted identifiers), so results of
// generated statements are named by the projection they were built from and
// other results fall back to a case-insensitive match.
type resultIndex struct {
	cols  []string
	exact map[string]int
}

// newResultIndex indexes cols. projection is the column list of the
// generated statement, or nil when the SQL came from elsewhere.
func newResultIndex(cols, projection []string) *resultIndex {
	if projection != nil && len(projection) == len(cols) {
		cols = projection
	}
	x := &resultIndex{cols: cols, exact: make(map[string]int, len(cols))}
	for i, c := range cols {
		if _, dup := x.exact[c]; !dup {
			x.exact[c] = i
		}
	}
	return x
}

func (x *resultIndex) lookup(name string) (int, bool) {
	if i, ok := x.exact[name]; ok {
		return i, true
	}
	for i, c := range x.cols {
		if strings.EqualFold(c, name) {
			return i, true
		}
	}
	return -1, false
}

// pick returns the values of names in row; missing columns are nil.
func (x *resultIndex) pick(row []any, names []string) []any {
	vals := make([]any, len(names))
	for i, n := range names {
		if j, ok := x.lookup(n); ok && j < len(row) {
			vals[i] = row[j]
		}
	}
	return vals
}

// record maps row by result column name and by each of names.
func (x *resultIndex) record(row []any, names []string) map[string]any {
	rec := make(map[string]any, len(x.cols)+len(names))
	for i, c := range x.cols {
		if i < len(row) {
			if _, dup := rec[c]; !dup {
				rec[c] = row[i]
			}
		}
	}
	for _, n := range names {
		if _, ok := rec[n]; ok {
			continue
		}
		if j, ok := x.lookup(n); ok && j < len(row) {
			rec[n] = row[j]
		}
	}
	return rec
}
