package browse

import (
	"testing"

	"browsestorage/backend/internal/apperr"
	"browsestorage/backend/internal/config"
	"browsestorage/backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	cfg, err := config.New(
		map[string]model.DataSource{
			"main": {Engine: "sqlite", File: "main.db"},
			"kv":   {Engine: "badger"},
		},
		[]*model.TableDescriptor{
			{Key: "users", Source: "main", Table: "users", IDColumns: []string{"UserID"}, ListColumns: []string{"Name"}},
			{Key: "any", Source: "main", Table: "*", IDColumns: []string{"id"}, ListColumns: []string{"id"}},
			{Key: "cache", Source: "kv", Table: "entries", IDColumns: []string{"k"}, ListColumns: []string{"v"}},
		},
	)
	require.NoError(t, err)

	tests := []struct {
		name      string
		key       string
		wantTable string
		wantKind  apperr.Kind
	}{
		{name: "literal table", key: "users", wantTable: "users"},
		{name: "wildcard with suffix", key: "any|orders", wantTable: "orders"},
		{name: "wildcard underscore suffix", key: "any|_tmp1", wantTable: "_tmp1"},
		{name: "wildcard without suffix", key: "any", wantKind: apperr.KindConfig},
		{name: "literal with suffix", key: "users|orders", wantKind: apperr.KindConfig},
		{name: "invalid suffix", key: "any|1orders", wantKind: apperr.KindConfig},
		{name: "suffix with injection", key: "any|orders;DROP", wantKind: apperr.KindConfig},
		{name: "empty suffix", key: "any|", wantKind: apperr.KindConfig},
		{name: "unknown key", key: "nope", wantKind: apperr.KindConfig},
		{name: "unsupported engine", key: "cache", wantKind: apperr.KindUnsupportedSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			td, ds, err := Resolve(cfg, tt.key)
			if tt.wantKind != "" {
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTable, td.Table)
			assert.Equal(t, "main", ds.Name)
		})
	}

	// resolution never mutates the shared descriptor
	tpl, _ := cfg.Table("any")
	assert.Equal(t, model.WildcardTable, tpl.Table)
}
