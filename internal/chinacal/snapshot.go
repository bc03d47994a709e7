package chinacal

import (
	"sync/atomic"
	"time"
)

// SnapshotSource serves facts from an immutable Ruleset snapshot and lets the
// background updater install a fresh snapshot atomically. Queries that started
// on the old snapshot keep using it; there is no in-place mutation.
type SnapshotSource struct {
	current atomic.Pointer[Ruleset]
}

// NewSnapshotSource creates a SnapshotSource serving the given ruleset.
func NewSnapshotSource(rs *Ruleset) *SnapshotSource {
	s := &SnapshotSource{}
	if rs == nil {
		rs = newRuleset()
	}
	s.current.Store(rs)
	return s
}

// Fact returns the rule-table fact for the given date.
func (s *SnapshotSource) Fact(date time.Time) (Fact, error) {
	return s.current.Load().Fact(date)
}

// Snapshot returns the ruleset currently being served.
func (s *SnapshotSource) Snapshot() *Ruleset {
	return s.current.Load()
}

// Swap installs a new ruleset for all future queries.
func (s *SnapshotSource) Swap(rs *Ruleset) {
	s.current.Store(rs)
}
