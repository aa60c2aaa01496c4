package replication

import (
	"slices"
	"time"

	"roamhub/backend/libs/oicp"
)

// Diff compares two snapshots and returns the records of next that were
// inserted or updated, plus the records of prev that were deleted, each
// annotated with its delta type and lastUpdate at. The result is ordered by key.
func Diff[K Key[K], R Record[K, R]](prev, next []R, at time.Time) []R {
	old := make(map[K]R, len(prev))
	for _, r := range prev {
		old[r.Key()] = r
	}
	var out []R
	seen := make(map[K]struct{}, len(next))
	for _, r := range next {
		k := r.Key()
		seen[k] = struct{}{}
		before, ok := old[k]
		switch {
		case !ok:
			out = append(out, r.WithDelta(oicp.Delta{Type: oicp.DeltaInsert, LastUpdate: at}))
		case !before.Equal(r):
			out = append(out, r.WithDelta(oicp.Delta{Type: oicp.DeltaUpdate, LastUpdate: at}))
		}
	}
	for _, r := range prev {
		if _, ok := seen[r.Key()]; !ok {
			out = append(out, r.WithDelta(oicp.Delta{Type: oicp.DeltaDelete, LastUpdate: at}))
		}
	}
	slices.SortFunc(out, func(a, b R) int { return a.Key().Compare(b.Key()) })
	return out
}

// ApplyDeltas applies delta annotated records to held and returns the new
// snapshot ordered by key. A delta older than the lastUpdate of the held
// record is skipped; a record without delta type is treated as an update.
func ApplyDeltas[K Key[K], R Record[K, R]](held, deltas []R) []R {
	current := make(map[K]R, len(held))
	for _, r := range held {
		current[r.Key()] = r
	}
	for _, d := range deltas {
		k := d.Key()
		delta, _ := d.Delta()
		if existing, ok := current[k]; ok {
			if prev, ok := existing.Delta(); ok && !delta.LastUpdate.IsZero() && delta.LastUpdate.Before(prev.LastUpdate) {
				continue
			}
		}
		if delta.Type == oicp.DeltaDelete {
			delete(current, k)
			continue
		}
		current[k] = d.WithDelta(oicp.Delta{LastUpdate: delta.LastUpdate})
	}
	out := make([]R, 0, len(current))
	for _, r := range current {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b R) int { return a.Key().Compare(b.Key()) })
	return out
}
