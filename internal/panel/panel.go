// Package panel is the generic resource admin panel: one schema-driven
// engine behind every admin page. It keeps a mirror of the last listing,
// builds drafts, validates them, and issues store calls.
package panel

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/studioadmin/internal/store"
)

var (
	ErrNotConfirmed = errors.New("delete was not confirmed")
	ErrNotSupported = errors.New("operation not supported")
)

// Record is implemented by every model a panel manages.
type Record interface {
	RecordID() uint
}

// Resource binds a schema to a model type.
type Resource[T Record] struct {
	Schema Schema
	Encode func(T) Values
	Decode func(Values) (T, error)
	// Describe names a record in confirmations; optional.
	Describe func(T) string
}

// Panel runs list/create/update/delete for one collection.
type Panel[T Record] struct {
	res      Resource[T]
	coll     store.Collection[T]
	validate *validator.Validate

	mu     sync.RWMutex
	items  []T
	loaded bool
}

// New creates a panel over coll.
func New[T Record](res Resource[T], coll store.Collection[T]) *Panel[T] {
	return &Panel[T]{
		res:      res,
		coll:     coll,
		validate: validator.New(),
	}
}

// Schema returns the panel's schema.
func (p *Panel[T]) Schema() Schema {
	return p.res.Schema
}

// Encode returns the draft values of rec.
func (p *Panel[T]) Encode(rec T) Values {
	return p.res.Encode(rec)
}

// Describe returns a short human label for rec.
func (p *Panel[T]) Describe(rec T) string {
	if p.res.Describe != nil {
		return p.res.Describe(rec)
	}
	return fmt.Sprintf("%s #%d", p.res.Schema.Singular, rec.RecordID())
}

// List refetches the collection. On failure it returns the previous
// mirror, empty before the first successful load, with the error.
func (p *Panel[T]) List(ctx context.Context) ([]T, error) {
	items, err := p.coll.Select(ctx, p.res.Schema.Order)
	if err != nil {
		return p.Items(), err
	}

	p.mu.Lock()
	p.items = items
	p.loaded = true
	p.mu.Unlock()

	return p.Items(), nil
}

// Items returns a copy of the mirror.
func (p *Panel[T]) Items() []T {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]T, len(p.items))
	copy(out, p.items)
	return out
}

// Loaded reports whether a listing has ever succeeded.
func (p *Panel[T]) Loaded() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loaded
}

// Count returns the number of live rows in the collection.
func (p *Panel[T]) Count(ctx context.Context) (int64, error) {
	return p.coll.Count(ctx)
}

// Find returns the record with id, refetching once if the mirror lacks it.
func (p *Panel[T]) Find(ctx context.Context, id uint) (T, error) {
	if rec, ok := p.lookup(id); ok {
		return rec, nil
	}
	if _, err := p.List(ctx); err != nil {
		var zero T
		return zero, err
	}
	if rec, ok := p.lookup(id); ok {
		return rec, nil
	}
	var zero T
	return zero, &store.Error{Op: "select", Collection: p.coll.Name(), Message: store.ErrNotFound.Error(), Err: store.ErrNotFound}
}

// Fetch refetches the collection and returns the record with id as the
// store holds it now.
func (p *Panel[T]) Fetch(ctx context.Context, id uint) (T, error) {
	var zero T
	if _, err := p.List(ctx); err != nil {
		return zero, err
	}
	if rec, ok := p.lookup(id); ok {
		return rec, nil
	}
	return zero, &store.Error{Op: "select", Collection: p.coll.Name(), Message: store.ErrNotFound.Error(), Err: store.ErrNotFound}
}

func (p *Panel[T]) lookup(id uint) (T, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, item := range p.items {
		if item.RecordID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Load fetches the first record by the schema order, or nil when empty.
// Singleton panels use it in place of List.
func (p *Panel[T]) Load(ctx context.Context) (*T, error) {
	rec, err := p.coll.First(ctx, p.res.Schema.Order)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.items = p.items[:0:0]
	if rec != nil {
		p.items = append(p.items, *rec)
	}
	p.loaded = true
	p.mu.Unlock()

	return rec, nil
}

// NewForm returns an empty draft with defaults applied.
func (p *Panel[T]) NewForm() Form {
	values := Values{}
	for _, field := range p.res.Schema.Fields {
		switch {
		case field.Default != "":
			values[field.Name] = field.Default
		case field.Kind == KindSelect && len(field.Options) > 0:
			values[field.Name] = field.Options[0]
		default:
			values[field.Name] = ""
		}
	}
	return Form{Values: values}
}

// EditForm returns a draft holding a copy of rec's values.
func (p *Panel[T]) EditForm(rec T) Form {
	return Form{ID: rec.RecordID(), Values: p.res.Encode(rec).Clone()}
}

// Submit validates form, then inserts or updates by id. On success the
// mirror is refetched; on failure the store error is returned untouched.
func (p *Panel[T]) Submit(ctx context.Context, form Form) (T, error) {
	var zero T

	if form.Editing() && !p.res.Schema.Can.Update {
		return zero, ErrNotSupported
	}
	if !form.Editing() && !p.res.Schema.Can.Create {
		return zero, ErrNotSupported
	}

	if err := p.Validate(form); err != nil {
		return zero, err
	}

	rec, err := p.res.Decode(form.Values.Clone())
	if err != nil {
		return zero, err
	}

	if form.Editing() {
		err = p.coll.Update(ctx, form.ID, &rec)
	} else {
		err = p.coll.Insert(ctx, &rec)
	}
	if err != nil {
		return zero, err
	}

	// The write already happened; a failed refetch surfaces on the next List.
	_, _ = p.List(ctx)
	return rec, nil
}

// Delete removes id once the user has confirmed. Success drops the item
// from the mirror without a refetch; failure refetches to reconcile.
func (p *Panel[T]) Delete(ctx context.Context, id uint, confirmed bool) error {
	if !p.res.Schema.Can.Delete {
		return ErrNotSupported
	}
	if !confirmed {
		return ErrNotConfirmed
	}

	if err := p.coll.Delete(ctx, id); err != nil {
		_, _ = p.List(ctx)
		return err
	}

	p.mu.Lock()
	kept := p.items[:0:0]
	for _, item := range p.items {
		if item.RecordID() != id {
			kept = append(kept, item)
		}
	}
	p.items = kept
	p.mu.Unlock()

	return nil
}
