package replication

import (
	"fmt"
	"slices"
	"time"

	"roamhub/backend/libs/oicp"
	"roamhub/backend/libs/oicp/ids"
)

// Merge computes the changes a pushed batch makes to the live records held
// for op, without modifying held:
//   - fullLoad replaces the set; an empty batch deletes everything
//   - insert adds the records and fails with ErrConflict if any key is held
//     or repeated in the batch
//   - update upserts the records
//   - delete removes the records, ignoring unknown keys
//
// An incremental batch without records changes nothing. Records are stored
// without their delta annotation, and every change is stamped with at.
func Merge[K Key[K], R Record[K, R]](held []R, op ids.OperatorID, action oicp.ActionType, records []R, at time.Time) (Outcome[R], error) {
	if _, err := oicp.ParseActionType(string(action)); err != nil {
		return Outcome[R]{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	out := Outcome[R]{Action: action}
	if action.IsIncremental() && len(records) == 0 {
		return out, nil
	}

	current := make(map[K]R, len(held))
	for _, r := range held {
		current[r.Key()] = r
	}
	m := merger[K, R]{current: current, out: &out, op: op, at: at}

	switch action {
	case oicp.ActionInsert:
		seen := make(map[K]struct{}, len(records))
		for _, r := range records {
			k := r.Key()
			if _, ok := current[k]; ok {
				return Outcome[R]{}, fmt.Errorf("%w: %s", ErrConflict, k)
			}
			if _, dup := seen[k]; dup {
				return Outcome[R]{}, fmt.Errorf("%w: %s twice in batch", ErrConflict, k)
			}
			seen[k] = struct{}{}
		}
		for _, r := range records {
			m.put(r)
		}
	case oicp.ActionUpdate:
		for _, r := range records {
			m.put(r)
		}
	case oicp.ActionDelete:
		for _, r := range records {
			m.remove(r.Key())
		}
	case oicp.ActionFullLoad:
		keep := make(map[K]struct{}, len(records))
		for _, r := range records {
			keep[r.Key()] = struct{}{}
		}
		var gone []K
		for k := range current {
			if _, ok := keep[k]; !ok {
				gone = append(gone, k)
			}
		}
		slices.SortFunc(gone, func(a, b K) int { return a.Compare(b) })
		for _, k := range gone {
			m.remove(k)
		}
		for _, r := range records {
			m.put(r)
		}
	}
	return out, nil
}

type merger[K Key[K], R Record[K, R]] struct {
	current map[K]R
	out     *Outcome[R]
	op      ids.OperatorID
	at      time.Time
}

func (m merger[K, R]) put(r R) {
	r = r.WithDelta(oicp.Delta{})
	k := r.Key()
	prev, ok := m.current[k]
	switch {
	case !ok:
		m.out.Inserted++
		m.record(oicp.DeltaInsert, r)
	case prev.Equal(r):
		m.out.Unchanged++
		return
	default:
		m.out.Updated++
		m.record(oicp.DeltaUpdate, r)
	}
	m.current[k] = r
}

func (m merger[K, R]) remove(k K) {
	prev, ok := m.current[k]
	if !ok {
		return
	}
	delete(m.current, k)
	m.out.Deleted++
	m.record(oicp.DeltaDelete, prev)
}

func (m merger[K, R]) record(t oicp.DeltaType, r R) {
	m.out.Changes = append(m.out.Changes, Change[R]{Operator: m.op, Type: t, Record: r, At: m.at})
}
