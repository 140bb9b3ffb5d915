package engine

// MergeStats summarizes one reconciliation.
type MergeStats struct {
	Added    int // present only in the fresh calendar
	Updated  int // occurrence or name refreshed from the fresh calendar
	Pruned   int // absent from both the fresh calendar and the directory
	Retained int // absent from the fresh calendar but still in the directory

	// PruneSkipped is set when the directory was empty and no entry could be
	// safely judged as gone.
	PruneSkipped bool
}

// Reconcile merges fresh into a copy of old and returns the result.
//
// Entries known to both keep their scheduled message; their occurrence and
// name follow the fresh data unless the fresh occurrence would move an
// already-advanced entry back to an earlier year. Entries only in fresh are
// added as they are. Entries only in old are pruned when their contact is
// also gone from dir. An empty dir prunes nothing.
//
// Reconcile performs no I/O and does not modify old or fresh.
func Reconcile(old, fresh *Calendar, dir *Directory) (*Calendar, MergeStats) {
	merged := old.Clone()
	var stats MergeStats

	for _, id := range fresh.IDs() {
		f, _ := fresh.Get(id)
		cur, ok := merged.Get(id)
		if !ok {
			merged.Put(f)
			stats.Added++
			continue
		}

		changed := false
		if !SameDate(cur.Occurrence, f.Occurrence) && !regresses(cur, f) {
			cur.Occurrence = f.Occurrence
			changed = true
		}
		if f.Name != "" && f.Name != cur.Name {
			cur.Name = f.Name
			changed = true
		}
		if changed {
			merged.Put(cur)
			stats.Updated++
		}
	}

	if dir.Len() == 0 {
		stats.PruneSkipped = true
		return merged, stats
	}

	for _, id := range old.IDs() {
		if fresh.Has(id) {
			continue
		}
		if dir.Has(id) {
			stats.Retained++
			continue
		}
		merged.Delete(id)
		stats.Pruned++
	}

	return merged, stats
}

// regresses reports whether taking fresh's occurrence would move cur back to
// an earlier year of the same month/day, which happens when cur was already
// delivered and advanced this year.
func regresses(cur, fresh BirthdayEntry) bool {
	return cur.Occurrence.Month() == fresh.Occurrence.Month() &&
		cur.Occurrence.Day() == fresh.Occurrence.Day() &&
		fresh.Occurrence.Before(cur.Occurrence)
}
