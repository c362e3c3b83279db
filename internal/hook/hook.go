// Package hook defines the before/after extension points of the list, read
// and write operations.
//
// A before-hook returns an Override deciding how the generic pipeline goes
// on; an after-hook may only change the response or abort with an error.
package hook

import (
	"context"
	"io"

	"browsestorage/backend/internal/model"
	"browsestorage/backend/internal/service"
)

// OverrideKind discriminates the Override union.
type OverrideKind int

const (
	// KindProceed lets the generic pipeline run unchanged.
	KindProceed OverrideKind = iota
	// KindReturnNow skips storage access; the after-hook still runs.
	KindReturnNow
	// KindFullSelect replaces the whole SELECT statement.
	KindFullSelect
	// KindFromClause replaces the FROM clause.
	KindFromClause
	// KindWhereClause replaces the WHERE clause.
	KindWhereClause
)

func (k OverrideKind) String() string {
	switch k {
	case KindProceed:
		return "proceed"
	case KindReturnNow:
		return "return-now"
	case KindFullSelect:
		return "full-select"
	case KindFromClause:
		return "from-clause"
	case KindWhereClause:
		return "where-clause"
	default:
		return "unknown"
	}
}

// Override is what a before-hook returns. SQL is only meaningful for the
// fragment kinds and is embedded without escaping.
type Override struct {
	Kind OverrideKind
	SQL  string
}

func Proceed() Override { return Override{Kind: KindProceed} }

func ReturnNow() Override { return Override{Kind: KindReturnNow} }

func Select(sql string) Override { return Override{Kind: KindFullSelect, SQL: sql} }

func From(sql string) Override { return Override{Kind: KindFromClause, SQL: sql} }

func Where(sql string) Override { return Override{Kind: KindWhereClause, SQL: sql} }

// IsFragment reports whether o carries a SQL fragment.
func (o Override) IsFragment() bool {
	return o.Kind == KindFullSelect || o.Kind == KindFromClause || o.Kind == KindWhereClause
}

// AffectedRowsUnknown is reported to write after-hooks when no statement ran
// or the engine could not count affected rows.
const AffectedRowsUnknown int64 = -1

// ListContext is shared by the list hooks of one request.
type ListContext struct {
	TableKey string
	Table    *model.TableDescriptor
	Conn     service.Conn
	Params   *model.ListParams
	Response *model.ListResponse
	// Output collects diagnostics; anything written fails the request.
	Output io.Writer
}

// ReadContext is shared by the read hooks of one request.
type ReadContext struct {
	TableKey string
	Table    *model.TableDescriptor
	Conn     service.Conn
	IDs      model.ColumnValues
	Response *model.ReadResponse
	Output   io.Writer
}

// WriteContext is shared by the write hooks of one request. The transaction
// is already open on Conn when the before-hook runs.
type WriteContext struct {
	TableKey     string
	Table        *model.TableDescriptor
	Conn         service.Conn
	Action       model.Action
	IDs          model.ColumnValues
	ColValues    model.ColumnValues
	Response     *model.WriteResponse
	AffectedRows int64
	Output       io.Writer
}

type (
	ListBefore  func(ctx context.Context, lc *ListContext) (Override, error)
	ListAfter   func(ctx context.Context, lc *ListContext) error
	ReadBefore  func(ctx context.Context, rc *ReadContext) (Override, error)
	ReadAfter   func(ctx context.Context, rc *ReadContext) error
	WriteBefore func(ctx context.Context, wc *WriteContext) (Override, error)
	WriteAfter  func(ctx context.Context, wc *WriteContext) error
)
