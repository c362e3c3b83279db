package main

import (
	"context"
	"log"

	"browsestorage/backend/internal/hook"
)

// registerHooks is where hooks referenced by the tables file get their
// implementations. Descriptors name them under "hooks:".
func registerHooks(r *hook.Registry) {
	proceedList := func(ctx context.Context, lc *hook.ListContext) (hook.Override, error) { return hook.Proceed(), nil }
	proceedRead := func(ctx context.Context, rc *hook.ReadContext) (hook.Override, error) { return hook.Proceed(), nil }
	proceedWrite := func(ctx context.Context, wc *hook.WriteContext) (hook.Override, error) { return hook.Proceed(), nil }

	r.RegisterListBefore("proceed", proceedList)
	r.RegisterReadBefore("proceed", proceedRead)
	r.RegisterWriteBefore("proceed", proceedWrite)

	r.RegisterListAfter("noop", func(ctx context.Context, lc *hook.ListContext) error { return nil })
	r.RegisterReadAfter("noop", func(ctx context.Context, rc *hook.ReadContext) error { return nil })
	r.RegisterWriteAfter("noop", func(ctx context.Context, wc *hook.WriteContext) error { return nil })

	r.RegisterWriteAfter("audit", func(ctx context.Context, wc *hook.WriteContext) error {
		log.Printf("audit: %s on %q ids=%v affected=%d", wc.Action, wc.TableKey, wc.IDs, wc.AffectedRows)
		return nil
	})
}
