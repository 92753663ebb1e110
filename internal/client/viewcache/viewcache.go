// Package viewcache keeps a dashboard's in-memory tables consistent with
// the record store by applying incoming change events, so connected clients
// do not re-query on every change. There is no version vector or sequence
// number; the only consistency-repair mechanism is a full refetch when a
// gap is detected.
package viewcache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"netcontrol/internal/domain/record"
)

// Fetcher loads the full live list for a kind, used on reference-update
// signals and gap repair.
type Fetcher interface {
	Fetch(ctx context.Context, kind record.Kind) ([]map[string]any, error)
}

// referenceKeys names the payload fields of each payload-carrying kind that
// reference another kind by identity. An unresolvable id triggers a refetch
// of the referenced kind.
var referenceKeys = map[record.Kind]map[string]record.Kind{
	record.KindEvent: {
		"location_id": record.KindLocation,
		"agency_id":   record.KindAgency,
	},
	record.KindObservation: {
		"reporter": record.KindAssignment,
		"category": record.KindObservationCategory,
	},
}

type table struct {
	order []string
	rows  map[string]map[string]any
}

func newTable() *table {
	return &table{rows: make(map[string]map[string]any)}
}

func (t *table) upsert(id string, row map[string]any) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = row
}

func (t *table) remove(id string) {
	if _, ok := t.rows[id]; !ok {
		return
	}
	delete(t.rows, id)
	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// Cache is one connected dashboard's local reflection of the record store.
type Cache struct {
	mu      sync.Mutex
	fetcher Fetcher
	tables  map[record.Kind]*table
}

func New(fetcher Fetcher) *Cache {
	return &Cache{
		fetcher: fetcher,
		tables:  make(map[record.Kind]*table),
	}
}

func (c *Cache) table(kind record.Kind) *table {
	t, ok := c.tables[kind]
	if !ok {
		t = newTable()
		c.tables[kind] = t
	}
	return t
}

// Load primes a kind's table with a full fetch, as a dashboard does when it
// first connects.
func (c *Cache) Load(ctx context.Context, kind record.Kind) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refetch(ctx, kind)
}

// refetch replaces a kind's table wholesale. Caller holds the lock.
func (c *Cache) refetch(ctx context.Context, kind record.Kind) error {
	if c.fetcher == nil {
		return errors.New("fetcher is required")
	}
	rows, err := c.fetcher.Fetch(ctx, kind)
	if err != nil {
		return err
	}

	t := newTable()
	for _, row := range rows {
		id, ok := row["id"].(string)
		if !ok || id == "" {
			continue
		}
		t.upsert(id, row)
	}
	c.tables[kind] = t
	return nil
}

// Apply folds one change event into the local tables. new_ inserts, edit_
// replaces (inserting if absent, defensive against a missed new_), remove_
// drops the row, and <kind>_update discards the reference table and issues
// a fresh full fetch.
func (c *Cache) Apply(ctx context.Context, event record.ChangeEvent) error {
	kind, action, ok := record.ParseEventType(event.Type)
	if !ok {
		return fmt.Errorf("unknown change event type %q", event.Type)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if kind.Reference() {
		return c.refetch(ctx, kind)
	}

	id, ok := event.Payload["id"].(string)
	if !ok || id == "" {
		return fmt.Errorf("change event %q carries no identity", event.Type)
	}

	switch action {
	case record.ActionNew, record.ActionEdit:
		c.table(kind).upsert(id, event.Payload)
	case record.ActionRemove:
		c.table(kind).remove(id)
		return nil
	}

	return c.repairReferences(ctx, kind, event.Payload)
}

// repairReferences refetches any reference kind the payload points at with
// an identity missing from the local table. Caller holds the lock.
func (c *Cache) repairReferences(ctx context.Context, kind record.Kind, payload map[string]any) error {
	for key, refKind := range referenceKeys[kind] {
		id, ok := payload[key].(string)
		if !ok || id == "" {
			continue
		}
		if _, resolved := c.table(refKind).rows[id]; resolved {
			continue
		}
		if err := c.refetch(ctx, refKind); err != nil {
			return err
		}
	}
	return nil
}

// Rows returns the kind's table in arrival order.
func (c *Cache) Rows(kind record.Kind) []map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.table(kind)
	rows := make([]map[string]any, 0, len(t.order))
	for _, id := range t.order {
		rows = append(rows, t.rows[id])
	}
	return rows
}

// Get returns one cached row by identity.
func (c *Cache) Get(kind record.Kind, id string) (map[string]any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	row, ok := c.table(kind).rows[id]
	return row, ok
}
