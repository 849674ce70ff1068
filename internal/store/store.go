// Package store is the record-store client every admin panel talks to.
// A Collection is one table; results and failures come back as values and
// *Error, whose Message is meant to be shown to the user as-is.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when an update or delete matches no row.
var ErrNotFound = errors.New("record not found")

// Error wraps a failed store call.
type Error struct {
	Op         string
	Collection string
	Message    string
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message returns the human-readable part of err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var storeErr *Error
	if errors.As(err, &storeErr) {
		return storeErr.Message
	}
	return err.Error()
}

// Order is the single sort key of a listing.
type Order struct {
	Column     string
	Descending bool
}

// Asc orders by column ascending.
func Asc(column string) Order {
	return Order{Column: column}
}

// Desc orders by column descending.
func Desc(column string) Order {
	return Order{Column: column, Descending: true}
}

func (o Order) clause() clause.OrderByColumn {
	column := o.Column
	if column == "" {
		column = "id"
	}
	return clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: o.Descending}
}

// Collection is the uniform query surface over one table.
type Collection[T any] interface {
	Name() string
	Select(ctx context.Context, order Order) ([]T, error)
	First(ctx context.Context, order Order) (*T, error)
	Count(ctx context.Context) (int64, error)
	Insert(ctx context.Context, rec *T) error
	Update(ctx context.Context, id uint, rec *T) error
	Delete(ctx context.Context, id uint) error
}

// GormCollection implements Collection on a gorm model type.
type GormCollection[T any] struct {
	db   *gorm.DB
	name string
}

// NewCollection binds a collection name to the model T.
func NewCollection[T any](gdb *gorm.DB, name string) *GormCollection[T] {
	return &GormCollection[T]{db: gdb, name: name}
}

func (c *GormCollection[T]) Name() string {
	return c.name
}

// Select returns every live row ordered by the given key.
func (c *GormCollection[T]) Select(ctx context.Context, order Order) ([]T, error) {
	var items []T
	if err := c.db.WithContext(ctx).Order(order.clause()).Find(&items).Error; err != nil {
		return nil, c.wrap("select", err)
	}
	return items, nil
}

// First returns the first row by the given key, or nil when the table is empty.
func (c *GormCollection[T]) First(ctx context.Context, order Order) (*T, error) {
	var items []T
	if err := c.db.WithContext(ctx).Order(order.clause()).Limit(1).Find(&items).Error; err != nil {
		return nil, c.wrap("select", err)
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

func (c *GormCollection[T]) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := c.db.WithContext(ctx).Model(new(T)).Count(&total).Error; err != nil {
		return 0, c.wrap("count", err)
	}
	return total, nil
}

// Insert creates rec; the store assigns the id and timestamps.
func (c *GormCollection[T]) Insert(ctx context.Context, rec *T) error {
	if err := c.db.WithContext(ctx).Create(rec).Error; err != nil {
		return c.wrap("insert", err)
	}
	return nil
}

// Update overwrites every column of row id with rec and reloads rec.
// Zero values are written too; there is no version check.
func (c *GormCollection[T]) Update(ctx context.Context, id uint, rec *T) error {
	res := c.db.WithContext(ctx).
		Model(new(T)).
		Where("id = ?", id).
		Select("*").
		Omit("id", "created_at", "deleted_at").
		Updates(rec)
	if res.Error != nil {
		return c.wrap("update", res.Error)
	}
	if res.RowsAffected == 0 {
		return c.wrap("update", ErrNotFound)
	}

	if err := c.db.WithContext(ctx).First(rec, id).Error; err != nil {
		return c.wrap("update", err)
	}
	return nil
}

// Delete soft-deletes row id.
func (c *GormCollection[T]) Delete(ctx context.Context, id uint) error {
	res := c.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return c.wrap("delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return c.wrap("delete", ErrNotFound)
	}
	return nil
}

func (c *GormCollection[T]) wrap(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = ErrNotFound
	}
	return &Error{
		Op:         op,
		Collection: c.name,
		Message:    err.Error(),
		Err:        fmt.Errorf("%s %s: %w", op, c.name, err),
	}
}
