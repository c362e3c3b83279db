package browse

import (
	"testing"

	"browsestorage/backend/internal/apperr"
	"browsestorage/backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIDs(t *testing.T) {
	tab := &model.TableDescriptor{IDColumns: []string{"OrderID", "Line"}}

	tests := []struct {
		name     string
		payload  model.Payload
		expected model.ColumnValues
		wantErr  bool
	}{
		{name: "no ids", payload: model.Payload{"id1": "3"}},
		{
			name:     "all ids",
			payload:  model.Payload{"id0": "10", "id1": "2"},
			expected: model.ColumnValues{{Column: "OrderID", Value: "10"}, {Column: "Line", Value: "2"}},
		},
		{name: "partial ids", payload: model.Payload{"id0": "10"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, err := ParseIDs(tab, tt.payload)
			if tt.wantErr {
				assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestParseColValues(t *testing.T) {
	tests := []struct {
		name     string
		payload  model.Payload
		expected model.ColumnValues
		wantErr  bool
	}{
		{name: "none", payload: model.Payload{"col1": "Name"}},
		{
			name:    "pairs",
			payload: model.Payload{"col0": "Name", "col0_value": "Alice", "col1": "Age", "col1_value": "31", "col3": "Gap"},
			expected: model.ColumnValues{
				{Column: "Name", Value: "Alice"},
				{Column: "Age", Value: "31"},
			},
		},
		{
			name:     "missing value reads empty",
			payload:  model.Payload{"col0": "Name"},
			expected: model.ColumnValues{{Column: "Name", Value: ""}},
		},
		{name: "duplicate", payload: model.Payload{"col0": "Name", "col1": "Name"}, wantErr: true},
		{name: "invalid identifier", payload: model.Payload{"col0": "Name = 1 OR 1"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := ParseColValues(tt.payload)
			if tt.wantErr {
				assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, values)
		})
	}
}

func TestParseListParams(t *testing.T) {
	params, err := ParseListParams(model.Payload{"count": "", "row_start": "2", "row_limit": "3"})
	require.NoError(t, err)
	assert.True(t, params.DoCount)
	require.NotNil(t, params.RowStart)
	require.NotNil(t, params.RowLimit)
	assert.Equal(t, 2, *params.RowStart)
	assert.Equal(t, 3, *params.RowLimit)

	params, err = ParseListParams(model.Payload{})
	require.NoError(t, err)
	assert.False(t, params.DoCount)
	assert.Nil(t, params.RowStart)
	assert.Nil(t, params.RowLimit)

	tests := []struct {
		name    string
		payload model.Payload
		kind    apperr.Kind
	}{
		{name: "negative start", payload: model.Payload{"row_start": "-1"}, kind: apperr.KindValidation},
		{name: "negative limit", payload: model.Payload{"row_limit": "-5"}, kind: apperr.KindValidation},
		{name: "not a number", payload: model.Payload{"row_limit": "ten"}, kind: apperr.KindValidation},
		{name: "search", payload: model.Payload{"search": "alice"}, kind: apperr.KindNotImplemented},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseListParams(tt.payload)
			assert.Equal(t, tt.kind, apperr.KindOf(err))
		})
	}
}

func TestCheckAction(t *testing.T) {
	ids := model.ColumnValues{{Column: "UserID", Value: "1"}}
	values := model.ColumnValues{{Column: "Name", Value: "Alice"}}

	tests := []struct {
		action  model.Action
		ids     model.ColumnValues
		values  model.ColumnValues
		wantErr bool
	}{
		{model.ActionInsert, nil, values, false},
		{model.ActionInsert, ids, values, true},
		{model.ActionInsert, nil, nil, true},
		{model.ActionUpdate, ids, values, false},
		{model.ActionUpdate, nil, values, true},
		{model.ActionUpdate, ids, nil, true},
		{model.ActionDelete, ids, nil, false},
		{model.ActionDelete, ids, values, true},
		{model.ActionDelete, nil, nil, true},
		{model.Action("merge"), ids, values, true},
	}
	for _, tt := range tests {
		err := CheckAction(tt.action, tt.ids, tt.values)
		if tt.wantErr {
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err), "%s ids=%d values=%d", tt.action, len(tt.ids), len(tt.values))
		} else {
			assert.NoError(t, err, "%s", tt.action)
		}
	}
}
