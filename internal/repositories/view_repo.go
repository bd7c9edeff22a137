package repositories

import (
	"fmt"
	"time"

	"github.com/BradenHooton/userdir/internal/directory"
	"github.com/BradenHooton/userdir/internal/models"
	"github.com/hashicorp/go-memdb"
)

const (
	viewsTable = "views"
	idIndex    = "id"
)

// View is one activation of the directory view. Stored views are never modified in
// place; Update replaces them.
type View struct {
	ID          string
	Generation  uint64
	State       directory.ViewState
	ActivatedAt time.Time
	LastAccess  time.Time
}

func viewSchema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			viewsTable: {
				Name: viewsTable,
				Indexes: map[string]*memdb.IndexSchema{
					idIndex: {
						Name:    idIndex,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
				},
			},
		},
	}
}

// ViewRepository keeps the active views in memory. memdb admits one write transaction
// at a time, so every Update is a serialised read-modify-write.
type ViewRepository struct {
	db *memdb.MemDB
}

func NewViewRepository() (*ViewRepository, error) {
	db, err := memdb.NewMemDB(viewSchema())
	if err != nil {
		return nil, fmt.Errorf("failed to create view store: %w", err)
	}
	return &ViewRepository{db: db}, nil
}

// Insert stores a new view
func (r *ViewRepository) Insert(view *View) error {
	txn := r.db.Txn(true)
	defer txn.Abort()

	stored := *view
	if err := txn.Insert(viewsTable, &stored); err != nil {
		return fmt.Errorf("failed to insert view: %w", err)
	}
	txn.Commit()
	return nil
}

// Get returns a copy of the view with the given id
func (r *ViewRepository) Get(id string) (*View, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(viewsTable, idIndex, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get view: %w", err)
	}
	if raw == nil {
		return nil, models.ErrViewNotFound
	}

	view := *raw.(*View)
	return &view, nil
}

// Update replaces the view with the result of fn, inside one write transaction.
// An error from fn leaves the stored view unchanged.
func (r *ViewRepository) Update(id string, fn func(View) (View, error)) (*View, error) {
	txn := r.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(viewsTable, idIndex, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get view: %w", err)
	}
	if raw == nil {
		return nil, models.ErrViewNotFound
	}

	next, err := fn(*raw.(*View))
	if err != nil {
		return nil, err
	}
	next.ID = id

	if err := txn.Insert(viewsTable, &next); err != nil {
		return nil, fmt.Errorf("failed to update view: %w", err)
	}
	txn.Commit()

	out := next
	return &out, nil
}

// Delete removes a view
func (r *ViewRepository) Delete(id string) error {
	txn := r.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(viewsTable, idIndex, id)
	if err != nil {
		return fmt.Errorf("failed to get view: %w", err)
	}
	if raw == nil {
		return models.ErrViewNotFound
	}
	if err := txn.Delete(viewsTable, raw); err != nil {
		return fmt.Errorf("failed to delete view: %w", err)
	}
	txn.Commit()
	return nil
}

// DeleteIdleBefore removes views not accessed since cutoff and returns their ids
func (r *ViewRepository) DeleteIdleBefore(cutoff time.Time) ([]string, error) {
	txn := r.db.Txn(true)
	defer txn.Abort()

	it, err := txn.Get(viewsTable, idIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to scan views: %w", err)
	}

	var idle []*View
	for raw := it.Next(); raw != nil; raw = it.Next() {
		if v := raw.(*View); v.LastAccess.Before(cutoff) {
			idle = append(idle, v)
		}
	}

	removed := make([]string, 0, len(idle))
	for _, v := range idle {
		if err := txn.Delete(viewsTable, v); err != nil {
			return nil, fmt.Errorf("failed to delete view: %w", err)
		}
		removed = append(removed, v.ID)
	}
	txn.Commit()
	return removed, nil
}

// Count returns the number of active views
func (r *ViewRepository) Count() int {
	txn := r.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(viewsTable, idIndex)
	if err != nil {
		return 0
	}
	n := 0
	for raw := it.Next(); raw != nil; raw = it.Next() {
		n++
	}
	return n
}
