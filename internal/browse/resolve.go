package browse

import (
	"strings"

	"browsestorage/backend/helper"
	"browsestorage/backend/internal/apperr"
	"browsestorage/backend/internal/config"
	"browsestorage/backend/internal/model"
	"browsestorage/backend/internal/service"
)

// KeySeparator splits a wildcard key into template key and real table.
const KeySeparator = "|"

// Resolve finds the descriptor addressed by key and its data source. A key
// "tpl|table" selects the wildcard descriptor tpl bound to table.
func Resolve(cfg *config.Config, key string) (*model.TableDescriptor, model.DataSource, error) {
	tplKey, table, suffixed := strings.Cut(key, KeySeparator)
	if suffixed && !helper.IsValidIdentifier(table) {
		return nil, model.DataSource{}, apperr.Config("table key %q: invalid table name %q", key, table)
	}

	t, ok := cfg.Table(tplKey)
	if !ok {
		return nil, model.DataSource{}, apperr.Config("table key %q not found", tplKey)
	}
	switch {
	case t.IsWildcard() && !suffixed:
		return nil, model.DataSource{}, apperr.Config("table key %q needs a %q table suffix", key, KeySeparator)
	case !t.IsWildcard() && suffixed:
		return nil, model.DataSource{}, apperr.Config("table key %q does not accept a table suffix", tplKey)
	case suffixed:
		t = t.WithTable(table)
	}

	ds, ok := cfg.Source(t.Source)
	if !ok {
		return nil, model.DataSource{}, apperr.Config("table key %q: data source %q not found", tplKey, t.Source)
	}
	if _, ok := service.DialectFor(ds.Engine); !ok {
		return nil, model.DataSource{}, apperr.UnsupportedSource("table key %q: engine %q is not a supported relational engine", tplKey, ds.Engine)
	}
	return t, ds, nil
}

func humanize(ident string) string {
	if ident == model.WildcardTable {
		return ""
	}
	return helper.HumanizeIdentifier(ident)
}
