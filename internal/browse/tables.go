package browse

import (
	"bytes"
	"context"

	"browsestorage/backend/helper"
	"browsestorage/backend/internal/apperr"
	"browsestorage/backend/internal/model"

	"golang.org/x/sync/errgroup"
)

// maxExpansions bounds the wildcard descriptors listed concurrently.
const maxExpansions = 4

// Tables lists the browsable tables, grouped unless "nogroups" is present.
// Wildcard descriptors expand to one "key|table" entry per table of their
// source.
func (e *Executor) Tables(ctx context.Context, p model.Payload) (*model.TablesResponse, error) {
	return run(e, "tables", "", func(out *bytes.Buffer) (*model.TablesResponse, error) {
		var listed []*model.TableDescriptor
		for _, t := range e.Config.Tables() {
			if !t.Unlisted {
				listed = append(listed, t)
			}
		}

		entries := make([][]model.TableEntry, len(listed))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(maxExpansions)
		for i, t := range listed {
			if !t.IsWildcard() {
				entries[i] = []model.TableEntry{{TableKey: t.Key, Name: displayName(t), Icon: t.Icon}}
				continue
			}
			g.Go(func() error {
				expanded, err := e.expand(gctx, t)
				entries[i] = expanded
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		resp := &model.TablesResponse{}
		if p.Has("nogroups") {
			resp.Tables = []model.TableEntry{}
			for _, es := range entries {
				resp.Tables = append(resp.Tables, es...)
			}
			return resp, nil
		}

		resp.Groups = []model.TableGroup{}
		groupIndex := map[string]int{}
		for i, t := range listed {
			if len(entries[i]) == 0 {
				continue
			}
			gi, ok := groupIndex[t.Group]
			if !ok {
				gi = len(resp.Groups)
				groupIndex[t.Group] = gi
				resp.Groups = append(resp.Groups, model.TableGroup{Name: t.Group, Tables: []model.TableEntry{}})
			}
			resp.Groups[gi].Tables = append(resp.Groups[gi].Tables, entries[i]...)
		}
		return resp, nil
	})
}

func (e *Executor) expand(ctx context.Context, t *model.TableDescriptor) ([]model.TableEntry, error) {
	ds, ok := e.Config.Source(t.Source)
	if !ok {
		return nil, apperr.Config("table key %q: data source %q not found", t.Key, t.Source)
	}
	conn, err := e.Sources.Open(ctx, ds)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	_, rows, err := e.query(ctx, conn, conn.Dialect().TablesQuery())
	if err != nil {
		return nil, err
	}
	var out []model.TableEntry
	for _, r := range rows {
		if len(r) == 0 {
			continue
		}
		name := describe(r[0])
		if !helper.IsValidIdentifier(name) {
			continue
		}
		display := t.Name
		if display == "" {
			display = humanize(name)
		}
		out = append(out, model.TableEntry{TableKey: t.Key + KeySeparator + name, Name: display, Icon: t.Icon})
	}
	return out, nil
}
