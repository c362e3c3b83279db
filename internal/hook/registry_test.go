package hook

import (
	"context"
	"testing"

	"browsestorage/backend/internal/apperr"
	"browsestorage/backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	r.RegisterListBefore("narrow", func(ctx context.Context, lc *ListContext) (Override, error) {
		return Where("Age > 30"), nil
	})
	r.RegisterWriteAfter("audit", func(ctx context.Context, wc *WriteContext) error { return nil })

	fn, err := r.ListBefore("narrow")
	require.NoError(t, err)
	ov, err := fn(context.Background(), &ListContext{})
	require.NoError(t, err)
	assert.Equal(t, KindWhereClause, ov.Kind)
	assert.Equal(t, "Age > 30", ov.SQL)
	assert.True(t, ov.IsFragment())

	after, err := r.WriteAfter("audit")
	require.NoError(t, err)
	assert.NotNil(t, after)

	none, err := r.ReadBefore("")
	assert.NoError(t, err)
	assert.Nil(t, none)

	_, err = r.ReadAfter("narrow")
	assert.Equal(t, apperr.KindConfig, apperr.KindOf(err))
	assert.Contains(t, err.Error(), `read_after "narrow"`)

	var nilRegistry *Registry
	_, err = nilRegistry.ListAfter("x")
	assert.Error(t, err)
}

func TestRegistryCheck(t *testing.T) {
	r := NewRegistry()
	r.RegisterReadBefore("owner", func(ctx context.Context, rc *ReadContext) (Override, error) {
		return Proceed(), nil
	})

	ok := []*model.TableDescriptor{
		{Key: "plain"},
		{Key: "hooked", Hooks: model.HookNames{ReadBefore: "owner"}},
	}
	assert.NoError(t, r.Check(ok))

	bad := append(ok, &model.TableDescriptor{Key: "broken", Hooks: model.HookNames{WriteBefore: "owner"}})
	err := r.Check(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `table "broken"`)
}

func TestOverrideKinds(t *testing.T) {
	tests := []struct {
		ov       Override
		name     string
		fragment bool
	}{
		{Proceed(), "proceed", false},
		{ReturnNow(), "return-now", false},
		{Select("SELECT 1"), "full-select", true},
		{From("FROM a JOIN b"), "from-clause", true},
		{Where("x = 1"), "where-clause", true},
		{Override{Kind: OverrideKind(42)}, "unknown", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.ov.Kind.String())
			assert.Equal(t, tt.fragment, tt.ov.IsFragment())
		})
	}
}
