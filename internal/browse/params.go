package browse

import (
	"fmt"
	"strconv"
	"strings"

	"browsestorage/backend/helper"
	"browsestorage/backend/internal/apperr"
	"browsestorage/backend/internal/model"
)

// ParseIDs reads id0..idN-1 for the id columns of t. Without id0 no record is
// selected; otherwise every id must be present.
func ParseIDs(t *model.TableDescriptor, p model.Payload) (model.ColumnValues, error) {
	if !p.Has("id0") {
		return nil, nil
	}
	ids := make(model.ColumnValues, 0, len(t.IDColumns))
	for i, col := range t.IDColumns {
		v, ok := p.Get(fmt.Sprintf("id%d", i))
		if !ok {
			return nil, apperr.Validation("missing id%d for id column %q", i, col)
		}
		ids = append(ids, model.ColumnValue{Column: col, Value: v})
	}
	return ids, nil
}

// ParseColValues reads the col{i}/col{i}_value pairs while col{i} is present.
// A missing col{i}_value reads as "".
func ParseColValues(p model.Payload) (model.ColumnValues, error) {
	var values model.ColumnValues
	for i := 0; ; i++ {
		col, ok := p.Get(fmt.Sprintf("col%d", i))
		if !ok {
			break
		}
		if !helper.IsValidIdentifier(col) {
			return nil, apperr.Validation("col%d: invalid column identifier %q", i, col)
		}
		if values.Has(col) {
			return nil, apperr.Validation("col%d: duplicate column %q", i, col)
		}
		v, _ := p.Get(fmt.Sprintf("col%d_value", i))
		values = append(values, model.ColumnValue{Column: col, Value: v})
	}
	return values, nil
}

func parseCount(p model.Payload, name string) (*int, error) {
	s, ok := p.Get(name)
	if !ok || s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil, apperr.Validation("%s must be an integer, got %q", name, s)
	}
	if n < 0 {
		return nil, apperr.Validation("%s must not be negative", name)
	}
	return &n, nil
}

// ParseListParams reads the list inputs. A search term is rejected since
// searching is not implemented.
func ParseListParams(p model.Payload) (*model.ListParams, error) {
	start, err := parseCount(p, "row_start")
	if err != nil {
		return nil, err
	}
	limit, err := parseCount(p, "row_limit")
	if err != nil {
		return nil, err
	}
	values, err := ParseColValues(p)
	if err != nil {
		return nil, err
	}
	search, _ := p.Get("search")
	if search != "" {
		return nil, apperr.NotImplemented("search is not implemented")
	}
	return &model.ListParams{
		DoCount:   p.Has("count"),
		RowStart:  start,
		RowLimit:  limit,
		ColValues: values,
	}, nil
}

// CheckAction validates the id and value combination of a write action.
func CheckAction(action model.Action, ids, values model.ColumnValues) error {
	switch action {
	case model.ActionInsert:
		if len(ids) > 0 || len(values) == 0 {
			return apperr.Validation("insert cannot have id# and must have col#")
		}
	case model.ActionUpdate:
		if len(ids) == 0 || len(values) == 0 {
			return apperr.Validation("update must have id# and col#")
		}
	case model.ActionDelete:
		if len(ids) == 0 || len(values) > 0 {
			return apperr.Validation("delete must have id# and cannot have col#")
		}
	default:
		return apperr.Validation("unknown action %q", action)
	}
	return nil
}
