// Package replication applies pushed directory batches to a held record set
// and computes record level deltas between snapshots.
package replication

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"roamhub/backend/libs/oicp"
	"roamhub/backend/libs/oicp/ids"
)

// ErrConflict is returned when an insert batch names a key that is already held.
var ErrConflict = errors.New("replication: record already exists")

// ErrUnknownAction is returned for an action outside fullLoad, update, insert and delete.
var ErrUnknownAction = errors.New("replication: unknown action")

// Key is the identity of a record.
type Key[K any] interface {
	comparable
	Compare(K) int
	String() string
}

// Record is a directory entry keyed by K.
type Record[K any, R any] interface {
	Key() K
	Equal(R) bool
	Delta() (oicp.Delta, bool)
	WithDelta(oicp.Delta) R
}

// Operator identifies the owner of a record set.
type Operator struct {
	ID   ids.OperatorID
	Name string
}

// Change describes one record that was added, replaced or removed.
type Change[R any] struct {
	Operator ids.OperatorID
	Type     oicp.DeltaType
	Record   R
	At       time.Time
}

// Outcome summarizes an applied batch.
type Outcome[R any] struct {
	Action    oicp.ActionType
	Inserted  int
	Updated   int
	Deleted   int
	Unchanged int
	Changes   []Change[R]
}

// Changed reports whether the batch modified the held set.
func (o Outcome[R]) Changed() bool {
	return len(o.Changes) > 0
}

func (o Outcome[R]) String() string {
	return fmt.Sprintf("%s: %d inserted, %d updated, %d deleted, %d unchanged", o.Action, o.Inserted, o.Updated, o.Deleted, o.Unchanged)
}

// Group is the live record set of one operator.
type Group[R any] struct {
	Operator Operator
	Records  []R
}

type entry[R any] struct {
	record  R
	created time.Time
	updated time.Time
	deleted bool
}

type operatorSet[K Key[K], R Record[K, R]] struct {
	name    string
	entries map[K]*entry[R]
}

// Directory holds the records pushed by every operator. Deleted records are
// kept as tombstones so that ChangesSince can report them.
type Directory[K Key[K], R Record[K, R]] struct {
	mu        sync.RWMutex
	operators map[ids.OperatorID]*operatorSet[K, R]
	now       func() time.Time
}

// NewDirectory returns an empty directory. A nil clock uses the wall clock.
func NewDirectory[K Key[K], R Record[K, R]](clock func() time.Time) *Directory[K, R] {
	if clock == nil {
		clock = time.Now
	}
	return &Directory[K, R]{
		operators: make(map[ids.OperatorID]*operatorSet[K, R]),
		now:       func() time.Time { return clock().UTC() },
	}
}

// Apply merges a pushed batch for op according to action. See Merge for the
// rules; an unknown action or an insert conflict changes nothing.
func (d *Directory[K, R]) Apply(op Operator, action oicp.ActionType, records []R) (Outcome[R], error) {
	if _, err := oicp.ParseActionType(string(action)); err != nil {
		return Outcome[R]{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	set := d.operators[op.ID]
	if set == nil {
		set = &operatorSet[K, R]{entries: make(map[K]*entry[R])}
		d.operators[op.ID] = set
	}
	if op.Name != "" {
		set.name = op.Name
	}

	out, err := Merge[K](set.live(), op.ID, action, records, d.now())
	if err != nil {
		return Outcome[R]{}, err
	}
	for _, c := range out.Changes {
		set.apply(c)
	}
	return out, nil
}

func (s *operatorSet[K, R]) apply(c Change[R]) {
	k := c.Record.Key()
	switch c.Type {
	case oicp.DeltaInsert:
		s.entries[k] = &entry[R]{record: c.Record, created: c.At, updated: c.At}
	case oicp.DeltaUpdate:
		e := s.entries[k]
		e.record = c.Record
		e.updated = c.At
	case oicp.DeltaDelete:
		e := s.entries[k]
		e.deleted = true
		e.updated = c.At
	}
}

func (s *operatorSet[K, R]) live() []R {
	out := make([]R, 0, len(s.entries))
	for _, e := range s.entries {
		if !e.deleted {
			out = append(out, e.record)
		}
	}
	return out
}

// Snapshot returns the live records of operator ordered by key.
func (d *Directory[K, R]) Snapshot(operator ids.OperatorID) []R {
	d.mu.RLock()
	defer d.mu.RUnlock()
	set := d.operators[operator]
	if set == nil {
		return nil
	}
	return set.records(func(*entry[R]) bool { return true }, nil)
}

func (s *operatorSet[K, R]) records(keep func(*entry[R]) bool, annotate func(*entry[R]) (oicp.Delta, bool)) []R {
	var out []R
	for _, k := range s.sortedKeys() {
		e := s.entries[k]
		if annotate == nil && e.deleted {
			continue
		}
		if !keep(e) {
			continue
		}
		r := e.record
		if annotate != nil {
			if d, ok := annotate(e); ok {
				r = r.WithDelta(d)
			}
		}
		out = append(out, r)
	}
	return out
}

func (s *operatorSet[K, R]) sortedKeys() []K {
	keys := make([]K, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b K) int { return a.Compare(b) })
	return keys
}

// Groups returns the live records of every operator, operators ordered by id.
// Operators without live records are left out.
func (d *Directory[K, R]) Groups() []Group[R] {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []Group[R]
	for _, id := range d.operatorIDs() {
		set := d.operators[id]
		records := set.records(func(*entry[R]) bool { return true }, nil)
		if len(records) == 0 {
			continue
		}
		out = append(out, Group[R]{Operator: Operator{ID: id, Name: set.name}, Records: records})
	}
	return out
}

// ChangesSince returns, per operator, the records created, updated or deleted
// after since, each annotated with its delta type and last update time.
func (d *Directory[K, R]) ChangesSince(since time.Time) []Group[R] {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []Group[R]
	for _, id := range d.operatorIDs() {
		set := d.operators[id]
		records := set.records(
			func(e *entry[R]) bool { return e.updated.After(since) },
			func(e *entry[R]) (oicp.Delta, bool) {
				t := oicp.DeltaUpdate
				switch {
				case e.deleted:
					t = oicp.DeltaDelete
				case e.created.After(since):
					t = oicp.DeltaInsert
				}
				return oicp.Delta{Type: t, LastUpdate: e.updated}, true
			},
		)
		if len(records) == 0 {
			continue
		}
		out = append(out, Group[R]{Operator: Operator{ID: id, Name: set.name}, Records: records})
	}
	return out
}

// Get looks a live record up by key across all operators.
func (d *Directory[K, R]) Get(key K) (R, ids.OperatorID, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for id, set := range d.operators {
		if e, ok := set.entries[key]; ok && !e.deleted {
			return e.record, id, true
		}
	}
	var zero R
	return zero, ids.OperatorID{}, false
}

// Len counts live records.
func (d *Directory[K, R]) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n := 0
	for _, set := range d.operators {
		for _, e := range set.entries {
			if !e.deleted {
				n++
			}
		}
	}
	return n
}

func (d *Directory[K, R]) operatorIDs() []ids.OperatorID {
	out := make([]ids.OperatorID, 0, len(d.operators))
	for id := range d.operators {
		out = append(out, id)
	}
	slices.SortFunc(out, func(a, b ids.OperatorID) int { return a.Compare(b) })
	return out
}
