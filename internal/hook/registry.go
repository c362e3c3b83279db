package hook

import (
	"sync"

	"browsestorage/backend/internal/apperr"
	"browsestorage/backend/internal/model"
)

// Registry maps the hook names used in table descriptors to functions.
// Registration normally happens at start-up; lookups are safe concurrently.
type Registry struct {
	mu          sync.RWMutex
	listBefore  map[string]ListBefore
	listAfter   map[string]ListAfter
	readBefore  map[string]ReadBefore
	readAfter   map[string]ReadAfter
	writeBefore map[string]WriteBefore
	writeAfter  map[string]WriteAfter
}

func NewRegistry() *Registry {
	return &Registry{
		listBefore:  map[string]ListBefore{},
		listAfter:   map[string]ListAfter{},
		readBefore:  map[string]ReadBefore{},
		readAfter:   map[string]ReadAfter{},
		writeBefore: map[string]WriteBefore{},
		writeAfter:  map[string]WriteAfter{},
	}
}

func (r *Registry) RegisterListBefore(name string, fn ListBefore) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listBefore[name] = fn
}

func (r *Registry) RegisterListAfter(name string, fn ListAfter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listAfter[name] = fn
}

func (r *Registry) RegisterReadBefore(name string, fn ReadBefore) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.readBefore[name] = fn
}

func (r *Registry) RegisterReadAfter(name string, fn ReadAfter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.readAfter[name] = fn
}

func (r *Registry) RegisterWriteBefore(name string, fn WriteBefore) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writeBefore[name] = fn
}

func (r *Registry) RegisterWriteAfter(name string, fn WriteAfter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writeAfter[name] = fn
}

// lookup returns the function registered as name. An empty name means the
// descriptor references no hook and yields the zero value without error.
func lookup[F any](r *Registry, pick func(*Registry) map[string]F, kind, name string) (F, error) {
	var zero F
	if name == "" {
		return zero, nil
	}
	if r != nil {
		r.mu.RLock()
		fn, ok := pick(r)[name]
		r.mu.RUnlock()
		if ok {
			return fn, nil
		}
	}
	return zero, apperr.Config("referenced hook not found: %s %q", kind, name)
}

func (r *Registry) ListBefore(name string) (ListBefore, error) {
	return lookup(r, func(r *Registry) map[string]ListBefore { return r.listBefore }, "list_before", name)
}

func (r *Registry) ListAfter(name string) (ListAfter, error) {
	return lookup(r, func(r *Registry) map[string]ListAfter { return r.listAfter }, "list_after", name)
}

func (r *Registry) ReadBefore(name string) (ReadBefore, error) {
	return lookup(r, func(r *Registry) map[string]ReadBefore { return r.readBefore }, "read_before", name)
}

func (r *Registry) ReadAfter(name string) (ReadAfter, error) {
	return lookup(r, func(r *Registry) map[string]ReadAfter { return r.readAfter }, "read_after", name)
}

func (r *Registry) WriteBefore(name string) (WriteBefore, error) {
	return lookup(r, func(r *Registry) map[string]WriteBefore { return r.writeBefore }, "write_before", name)
}

func (r *Registry) WriteAfter(name string) (WriteAfter, error) {
	return lookup(r, func(r *Registry) map[string]WriteAfter { return r.writeAfter }, "write_after", name)
}

// Check reports the first hook name referenced by tables that is not
// registered.
func (r *Registry) Check(tables []*model.TableDescriptor) error {
	for _, t := range tables {
		h := t.Hooks
		checks := []func() error{
			func() error { _, err := r.ListBefore(h.ListBefore); return err },
			func() error { _, err := r.ListAfter(h.ListAfter); return err },
			func() error { _, err := r.ReadBefore(h.ReadBefore); return err },
			func() error { _, err := r.ReadAfter(h.ReadAfter); return err },
			func() error { _, err := r.WriteBefore(h.WriteBefore); return err },
			func() error { _, err := r.WriteAfter(h.WriteAfter); return err },
		}
		for _, check := range checks {
			if err := check(); err != nil {
				return apperr.Config("table %q: %v", t.Key, err)
			}
		}
	}
	return nil
}
